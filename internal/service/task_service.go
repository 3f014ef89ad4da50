package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"task-management/internal/model"
	"task-management/internal/repository"
)

// TaskInput represents data required to create a task.
type TaskInput struct {
	Description string
	DueDate     *time.Time
	PersonaID   uint
}

// TaskService wraps task-related business logic.
type TaskService struct {
	taskRepo    *repository.TaskRepository
	personaRepo *repository.PersonaRepository
	clock       Clock
}

func NewTaskService(taskRepo *repository.TaskRepository, personaRepo *repository.PersonaRepository, clock Clock) *TaskService {
	if clock == nil {
		clock = SystemClock
	}
	return &TaskService{taskRepo: taskRepo, personaRepo: personaRepo, clock: clock}
}

// Create stores a new pending task stamped with the current time.
func (s *TaskService) Create(ctx context.Context, input TaskInput) (*model.Task, error) {
	description, err := requireText("description", input.Description, model.DescriptionMaxLength)
	if err != nil {
		return nil, err
	}

	persona, err := s.resolvePersona(ctx, input.PersonaID)
	if err != nil {
		return nil, err
	}

	task := model.Task{
		Description:  description,
		CreationDate: s.clock.Now().UTC(),
		DueDate:      dateOnly(input.DueDate),
		Done:         false,
		PersonaID:    persona.ID,
	}

	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, taskStoreError(0, persona.ID, err)
	}
	task.Persona = persona
	return &task, nil
}

// Update writes description, due date, done flag and persona of an existing
// task. Changes to ID or CreationDate on the given copy are ignored.
// Concurrent updates are last-write-wins.
func (s *TaskService) Update(ctx context.Context, task *model.Task) (*model.Task, error) {
	description, err := requireText("description", task.Description, model.DescriptionMaxLength)
	if err != nil {
		return nil, err
	}

	existing, err := s.Get(ctx, task.ID)
	if err != nil {
		return nil, err
	}

	personaID, err := requestedPersona(task, existing.PersonaID)
	if err != nil {
		return nil, err
	}
	persona, err := s.resolvePersona(ctx, personaID)
	if err != nil {
		return nil, err
	}

	existing.Description = description
	existing.DueDate = dateOnly(task.DueDate)
	existing.Done = task.Done
	existing.PersonaID = persona.ID

	if err := s.taskRepo.Update(ctx, existing); err != nil {
		return nil, taskStoreError(existing.ID, persona.ID, err)
	}
	return s.Get(ctx, existing.ID)
}

// SetDone flips the done flag of a task. Both transitions are always allowed.
func (s *TaskService) SetDone(ctx context.Context, id uint, done bool) (*model.Task, error) {
	task, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	task.Done = done
	return s.Update(ctx, task)
}

func (s *TaskService) Get(ctx context.Context, id uint) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("task", id, "", err)
	}
	return task, nil
}

// ListPage returns one page of tasks ordered by creation date, without a
// total count. Each task carries its persona.
func (s *TaskService) ListPage(ctx context.Context, page model.PageRequest, newestFirst bool) ([]model.Task, error) {
	if err := validatePage(page); err != nil {
		return nil, err
	}
	return s.taskRepo.ListPage(ctx, page, newestFirst)
}

// Delete removes a task; a missing id yields NotFoundError.
func (s *TaskService) Delete(ctx context.Context, id uint) error {
	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return storeError("task", id, "", err)
	}
	return nil
}

// requestedPersona picks the persona a task edit asks for. The edit may name
// it through PersonaID or through the Persona cache; whichever differs from
// the stored owner wins, and two different new owners are rejected.
func requestedPersona(task *model.Task, stored uint) (uint, error) {
	byID := task.PersonaID
	var byRef uint
	if task.Persona != nil {
		byRef = task.Persona.ID
	}

	switch {
	case byRef == 0 || byRef == byID:
		return byID, nil
	case byID == 0 || byID == stored:
		return byRef, nil
	case byRef == stored:
		return byID, nil
	default:
		return 0, &ValidationError{
			Field:  "persona",
			Reason: fmt.Sprintf("personaId %d conflicts with persona %d", byID, byRef),
		}
	}
}

// taskStoreError reports a persona removed between the reference check and
// the write as a ReferenceError.
func taskStoreError(taskID, personaID uint, err error) error {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return &ReferenceError{PersonaID: personaID}
	}
	return storeError("task", taskID, "persona reference", err)
}

func (s *TaskService) resolvePersona(ctx context.Context, id uint) (*model.Persona, error) {
	if id == 0 {
		return nil, &ValidationError{Field: "persona", Reason: "is required"}
	}
	persona, err := s.personaRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &ReferenceError{PersonaID: id}
	}
	if err != nil {
		return nil, err
	}
	return persona, nil
}

func dateOnly(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := model.Date(*t)
	return &d
}
