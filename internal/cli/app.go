package cli

import (
	"fmt"

	"gorm.io/gorm"

	"task-management/internal/config"
	"task-management/internal/repository"
	"task-management/internal/service"
)

// app holds the wired services shared by every command.
type app struct {
	cfg         config.Config
	db          *gorm.DB
	subscribers *repository.SubscriberRepository
	personas    *service.PersonaService
	tasks       *service.TaskService
	digest      *service.DigestService
}

func openApp(dbOverride string) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if dbOverride != "" {
		cfg.DatabaseURL = dbOverride
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}

	personaRepo := repository.NewPersonaRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	return &app{
		cfg:         cfg,
		db:          db,
		subscribers: repository.NewSubscriberRepository(db),
		personas:    service.NewPersonaService(personaRepo, taskRepo),
		tasks:       service.NewTaskService(taskRepo, personaRepo, service.SystemClock),
		digest:      service.NewDigestService(taskRepo),
	}, nil
}

func (a *app) Close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
