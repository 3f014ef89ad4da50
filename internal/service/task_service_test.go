package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"task-management/internal/model"
)

func TestTasksAreStoredWithCurrentTimestamp(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	edad := 30
	persona, err := env.personas.Create(ctx, PersonaInput{DNI: 12345678, Apellido: "Perez", Nombre: "Juan", Edad: &edad})
	if err != nil {
		t.Fatalf("create persona: %v", err)
	}

	before := time.Now()
	due := time.Date(2025, 2, 7, 0, 0, 0, 0, time.UTC)
	if _, err := env.tasks.Create(ctx, TaskInput{Description: "Do this", DueDate: &due, PersonaID: persona.ID}); err != nil {
		t.Fatalf("create task: %v", err)
	}
	after := time.Now()

	tasks, err := env.tasks.ListPage(ctx, model.PageOf(0, 1), true)
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected exactly one task, got %d", len(tasks))
	}
	task := tasks[0]
	if task.Description != "Do this" {
		t.Fatalf("unexpected description %q", task.Description)
	}
	if task.DueDate == nil || !task.DueDate.Equal(due) {
		t.Fatalf("expected due date %s, got %v", due, task.DueDate)
	}
	if task.CreationDate.Before(before) || task.CreationDate.After(after) {
		t.Fatalf("creation date %s outside [%s, %s]", task.CreationDate, before, after)
	}
	if task.Done {
		t.Fatalf("new tasks must not be done")
	}
	if task.Persona == nil || !reflect.DeepEqual(*task.Persona, *persona) {
		t.Fatalf("expected persona %+v, got %+v", persona, task.Persona)
	}
}

func TestTasksAreValidatedBeforeTheyAreStored(t *testing.T) {
	env := newTestEnv(t, nil)
	persona := env.createPersona(t, 1, "Perez", "Juan")

	_, err := env.tasks.Create(context.Background(), TaskInput{
		Description: strings.Repeat("X", model.DescriptionMaxLength+1),
		PersonaID:   persona.ID,
	})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if n := env.countTasks(t); n != 0 {
		t.Fatalf("expected no stored tasks, got %d", n)
	}
}

func TestCreateTaskRequiresDescription(t *testing.T) {
	env := newTestEnv(t, nil)
	persona := env.createPersona(t, 1, "Perez", "Juan")

	_, err := env.tasks.Create(context.Background(), TaskInput{Description: "   ", PersonaID: persona.ID})
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "description" {
		t.Fatalf("expected description ValidationError, got %v", err)
	}
}

func TestCreateTaskUnknownPersona(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.tasks.Create(context.Background(), TaskInput{Description: "Do this", PersonaID: 404})
	var re *ReferenceError
	if !errors.As(err, &re) {
		t.Fatalf("expected ReferenceError, got %v", err)
	}
	if re.PersonaID != 404 {
		t.Fatalf("unexpected persona id %d", re.PersonaID)
	}
	if n := env.countTasks(t); n != 0 {
		t.Fatalf("expected no stored tasks, got %d", n)
	}
}

func TestCreateTaskUsesInjectedClock(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)
	env := newTestEnv(t, FixedClock(now))
	persona := env.createPersona(t, 1, "Perez", "Juan")

	task, err := env.tasks.Create(context.Background(), TaskInput{Description: "Do this", PersonaID: persona.ID})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if !task.CreationDate.Equal(now) {
		t.Fatalf("expected creation date %s, got %s", now, task.CreationDate)
	}
}

func TestCreateTaskDropsTimeOfDayFromDueDate(t *testing.T) {
	env := newTestEnv(t, nil)
	persona := env.createPersona(t, 1, "Perez", "Juan")
	due := time.Date(2025, 2, 7, 18, 45, 0, 0, time.UTC)

	task, err := env.tasks.Create(context.Background(), TaskInput{Description: "Do this", DueDate: &due, PersonaID: persona.ID})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	want := time.Date(2025, 2, 7, 0, 0, 0, 0, time.UTC)
	if task.DueDate == nil || !task.DueDate.Equal(want) {
		t.Fatalf("expected due date %s, got %v", want, task.DueDate)
	}
}

func TestToggleDoneTwiceRestoresOriginal(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	persona := env.createPersona(t, 1, "Perez", "Juan")
	task, err := env.tasks.Create(ctx, TaskInput{Description: "Do this", PersonaID: persona.ID})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	task.Done = !task.Done
	if _, err := env.tasks.Update(ctx, task); err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	reread, err := env.tasks.Get(ctx, task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if !reread.Done {
		t.Fatalf("expected task to be done after first toggle")
	}

	toggled, err := env.tasks.SetDone(ctx, task.ID, !reread.Done)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if toggled.Done {
		t.Fatalf("expected task to be pending after second toggle")
	}
}

func TestUpdateTaskIgnoresCreationDateAndReassignsPersona(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	env := newTestEnv(t, FixedClock(now))
	ctx := context.Background()
	juan := env.createPersona(t, 1, "Perez", "Juan")
	ana := env.createPersona(t, 2, "Gomez", "Ana")
	task, err := env.tasks.Create(ctx, TaskInput{Description: "Do this", PersonaID: juan.ID})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	edit := *task
	edit.Description = "Do that"
	edit.CreationDate = now.Add(72 * time.Hour)
	edit.PersonaID = 0
	edit.Persona = ana
	due := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	edit.DueDate = &due

	updated, err := env.tasks.Update(ctx, &edit)
	if err != nil {
		t.Fatalf("update task: %v", err)
	}
	if updated.Description != "Do that" {
		t.Fatalf("unexpected description %q", updated.Description)
	}
	if !updated.CreationDate.Equal(now) {
		t.Fatalf("creation date must be immutable, got %s", updated.CreationDate)
	}
	if updated.PersonaID != ana.ID || updated.Persona == nil || updated.Persona.ID != ana.ID {
		t.Fatalf("expected reassignment to %d, got %+v", ana.ID, updated)
	}
	if updated.DueDate == nil || !updated.DueDate.Equal(due) {
		t.Fatalf("expected due date %s, got %v", due, updated.DueDate)
	}

	updated.DueDate = nil
	cleared, err := env.tasks.Update(ctx, updated)
	if err != nil {
		t.Fatalf("clear due date: %v", err)
	}
	if cleared.DueDate != nil {
		t.Fatalf("expected due date to be cleared, got %v", cleared.DueDate)
	}
}

func TestUpdateTaskReassignsThroughLoadedPersona(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	juan := env.createPersona(t, 1, "Perez", "Juan")
	ana := env.createPersona(t, 2, "Gomez", "Ana")
	created, err := env.tasks.Create(ctx, TaskInput{Description: "Do this", PersonaID: juan.ID})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	loaded, err := env.tasks.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	loaded.Persona = ana

	updated, err := env.tasks.Update(ctx, loaded)
	if err != nil {
		t.Fatalf("update task: %v", err)
	}
	if updated.PersonaID != ana.ID || updated.Persona == nil || updated.Persona.ID != ana.ID {
		t.Fatalf("expected task to move to %d, got persona %d", ana.ID, updated.PersonaID)
	}

	// Changing only the id while the cache still holds the old owner.
	updated.PersonaID = juan.ID
	back, err := env.tasks.Update(ctx, updated)
	if err != nil {
		t.Fatalf("update task back: %v", err)
	}
	if back.PersonaID != juan.ID {
		t.Fatalf("expected task to move back to %d, got %d", juan.ID, back.PersonaID)
	}

	lucia := env.createPersona(t, 3, "Diaz", "Lucia")
	back.PersonaID = ana.ID
	back.Persona = lucia
	var ve *ValidationError
	if _, err := env.tasks.Update(ctx, back); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for conflicting owners, got %v", err)
	}
}

func TestTaskStoreErrorReportsVanishedPersona(t *testing.T) {
	err := taskStoreError(0, 42, fmt.Errorf("create task: %w", gorm.ErrForeignKeyViolated))
	var re *ReferenceError
	if !errors.As(err, &re) || re.PersonaID != 42 {
		t.Fatalf("expected ReferenceError for persona 42, got %v", err)
	}

	var nf *NotFoundError
	if err := taskStoreError(7, 1, gorm.ErrRecordNotFound); !errors.As(err, &nf) || nf.ID != 7 {
		t.Fatalf("expected NotFoundError for task 7, got %v", err)
	}
}

func TestUpdateTaskErrors(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	persona := env.createPersona(t, 1, "Perez", "Juan")
	task, err := env.tasks.Create(ctx, TaskInput{Description: "Do this", PersonaID: persona.ID})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	var nf *NotFoundError
	if _, err := env.tasks.Update(ctx, &model.Task{ID: 999, Description: "x", PersonaID: persona.ID}); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}

	edit := *task
	edit.Persona = nil
	edit.PersonaID = 777
	var re *ReferenceError
	if _, err := env.tasks.Update(ctx, &edit); !errors.As(err, &re) {
		t.Fatalf("expected ReferenceError, got %v", err)
	}

	edit.PersonaID = persona.ID
	edit.Description = ""
	var ve *ValidationError
	if _, err := env.tasks.Update(ctx, &edit); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestTaskListPageOrdering(t *testing.T) {
	current := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	env := newTestEnv(t, ClockFunc(func() time.Time { return current }))
	ctx := context.Background()
	persona := env.createPersona(t, 1, "Perez", "Juan")

	var created []uint
	for i := 0; i < 5; i++ {
		task, err := env.tasks.Create(ctx, TaskInput{Description: "task", PersonaID: persona.ID})
		if err != nil {
			t.Fatalf("create task: %v", err)
		}
		created = append(created, task.ID)
		current = current.Add(time.Minute)
	}

	newest, err := env.tasks.ListPage(ctx, model.PageOf(0, 2), true)
	if err != nil {
		t.Fatalf("list newest: %v", err)
	}
	if len(newest) != 2 || newest[0].ID != created[4] || newest[1].ID != created[3] {
		t.Fatalf("unexpected newest-first page: %+v", newest)
	}

	oldest, err := env.tasks.ListPage(ctx, model.PageOf(2, 2), false)
	if err != nil {
		t.Fatalf("list oldest: %v", err)
	}
	if len(oldest) != 1 || oldest[0].ID != created[4] {
		t.Fatalf("unexpected last oldest-first page: %+v", oldest)
	}
}

func TestDeleteTask(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	persona := env.createPersona(t, 1, "Perez", "Juan")
	task, err := env.tasks.Create(ctx, TaskInput{Description: "Do this", PersonaID: persona.ID})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	if err := env.tasks.Delete(ctx, task.ID); err != nil {
		t.Fatalf("delete task: %v", err)
	}
	var nf *NotFoundError
	if err := env.tasks.Delete(ctx, task.ID); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}

	// With its only task gone the persona can be removed.
	if err := env.personas.Delete(ctx, persona.ID); err != nil {
		t.Fatalf("delete persona: %v", err)
	}
}
