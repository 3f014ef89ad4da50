package service

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestDigestGroupsPendingTasksByPersona(t *testing.T) {
	now := time.Date(2025, 2, 10, 9, 0, 0, 0, time.UTC)
	env := newTestEnv(t, FixedClock(now))
	ctx := context.Background()

	juan := env.createPersona(t, 1, "Perez", "Juan")
	ana := env.createPersona(t, 2, "Gomez", "Ana")

	overdue := time.Date(2025, 2, 7, 0, 0, 0, 0, time.UTC)
	soon := time.Date(2025, 2, 11, 0, 0, 0, 0, time.UTC)
	later := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	mustCreate := func(input TaskInput) uint {
		task, err := env.tasks.Create(ctx, input)
		if err != nil {
			t.Fatalf("create task: %v", err)
		}
		return task.ID
	}
	mustCreate(TaskInput{Description: "late <b>", DueDate: &overdue, PersonaID: juan.ID})
	mustCreate(TaskInput{Description: "soon", DueDate: &soon, PersonaID: ana.ID})
	mustCreate(TaskInput{Description: "later", DueDate: &later, PersonaID: ana.ID})
	doneID := mustCreate(TaskInput{Description: "finished", PersonaID: juan.ID})
	if _, err := env.tasks.SetDone(ctx, doneID, true); err != nil {
		t.Fatalf("set done: %v", err)
	}

	digests, err := env.digest.Pending(ctx, now)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(digests) != 2 {
		t.Fatalf("expected 2 personas, got %d", len(digests))
	}
	if digests[0].Persona.ID != ana.ID || digests[1].Persona.ID != juan.ID {
		t.Fatalf("expected personas sorted by name, got %+v", digests)
	}
	if len(digests[0].Entries) != 2 || !digests[0].Entries[0].DueSoon || digests[0].Entries[1].DueSoon {
		t.Fatalf("unexpected entries for ana: %+v", digests[0].Entries)
	}
	if len(digests[1].Entries) != 1 || !digests[1].Entries[0].Overdue {
		t.Fatalf("expected one overdue entry for juan, got %+v", digests[1].Entries)
	}

	text := RenderDigest(digests, now)
	if strings.Contains(text, "finished") {
		t.Fatalf("done tasks must not appear in digest:\n%s", text)
	}
	if !strings.Contains(text, "late &lt;b&gt;") {
		t.Fatalf("expected escaped description in digest:\n%s", text)
	}
	if !strings.Contains(text, "Gomez, Ana") || !strings.Contains(text, "vencida") {
		t.Fatalf("unexpected digest:\n%s", text)
	}
}

func TestDigestEmpty(t *testing.T) {
	env := newTestEnv(t, nil)
	text, err := env.digest.Summary(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if !strings.Contains(text, "no hay tareas pendientes") {
		t.Fatalf("unexpected empty digest:\n%s", text)
	}
}
