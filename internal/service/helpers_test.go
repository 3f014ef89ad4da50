package service

import (
	"context"
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"task-management/internal/model"
	"task-management/internal/repository"
)

type testEnv struct {
	db       *gorm.DB
	personas *PersonaService
	tasks    *TaskService
	digest   *DigestService
}

func newTestEnv(t *testing.T, clock Clock) *testEnv {
	t.Helper()
	db, err := repository.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	personaRepo := repository.NewPersonaRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	return &testEnv{
		db:       db,
		personas: NewPersonaService(personaRepo, taskRepo),
		tasks:    NewTaskService(taskRepo, personaRepo, clock),
		digest:   NewDigestService(taskRepo),
	}
}

func (e *testEnv) createPersona(t *testing.T, dni int, apellido, nombre string) *model.Persona {
	t.Helper()
	p, err := e.personas.Create(context.Background(), PersonaInput{DNI: dni, Apellido: apellido, Nombre: nombre})
	if err != nil {
		t.Fatalf("create persona: %v", err)
	}
	return p
}

func (e *testEnv) countTasks(t *testing.T) int64 {
	t.Helper()
	var n int64
	if err := e.db.Model(&model.Task{}).Count(&n).Error; err != nil {
		t.Fatalf("count tasks: %v", err)
	}
	return n
}

func intPtr(v int) *int {
	return &v
}
