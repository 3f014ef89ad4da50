package service

import (
	"context"

	"task-management/internal/model"
	"task-management/internal/repository"
)

// PersonaInput represents data required to create a persona.
type PersonaInput struct {
	DNI      int
	Apellido string
	Nombre   string
	Edad     *int
}

// PersonaService wraps persona-related business logic.
type PersonaService struct {
	personaRepo *repository.PersonaRepository
	taskRepo    *repository.TaskRepository
}

func NewPersonaService(personaRepo *repository.PersonaRepository, taskRepo *repository.TaskRepository) *PersonaService {
	return &PersonaService{personaRepo: personaRepo, taskRepo: taskRepo}
}

func (s *PersonaService) Create(ctx context.Context, input PersonaInput) (*model.Persona, error) {
	persona := model.Persona{
		DNI:      input.DNI,
		Apellido: input.Apellido,
		Nombre:   input.Nombre,
		Edad:     input.Edad,
	}
	if err := normalizePersona(&persona); err != nil {
		return nil, err
	}

	if err := s.personaRepo.Create(ctx, &persona); err != nil {
		return nil, storeError("persona", 0, "unique dni", err)
	}
	return &persona, nil
}

// Update replaces every field of the persona identified by persona.ID.
// Concurrent updates are last-write-wins.
func (s *PersonaService) Update(ctx context.Context, persona *model.Persona) (*model.Persona, error) {
	updated := *persona
	if err := normalizePersona(&updated); err != nil {
		return nil, err
	}
	if updated.ID == 0 {
		return nil, &NotFoundError{Entity: "persona"}
	}

	if err := s.personaRepo.Update(ctx, &updated); err != nil {
		return nil, storeError("persona", updated.ID, "unique dni", err)
	}
	return s.Get(ctx, updated.ID)
}

func (s *PersonaService) Get(ctx context.Context, id uint) (*model.Persona, error) {
	persona, err := s.personaRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("persona", id, "", err)
	}
	return persona, nil
}

// ListPage returns one page of personas ordered by id, without a total count.
func (s *PersonaService) ListPage(ctx context.Context, page model.PageRequest) ([]model.Persona, error) {
	if err := validatePage(page); err != nil {
		return nil, err
	}
	return s.personaRepo.ListPage(ctx, page)
}

// ListAll returns every persona for selection lists.
func (s *PersonaService) ListAll(ctx context.Context) ([]model.Persona, error) {
	return s.personaRepo.ListAll(ctx)
}

// Delete removes a persona. Personas that still own tasks are kept and a
// ConstraintViolation is returned; a missing id yields NotFoundError.
func (s *PersonaService) Delete(ctx context.Context, id uint) error {
	owned, err := s.taskRepo.CountByPersona(ctx, id)
	if err != nil {
		return err
	}
	if owned > 0 {
		return &ConstraintViolation{Entity: "persona", Constraint: "referenced by tasks"}
	}
	if err := s.personaRepo.Delete(ctx, id); err != nil {
		return storeError("persona", id, "referenced by tasks", err)
	}
	return nil
}

func normalizePersona(p *model.Persona) error {
	if p.DNI <= 0 {
		return &ValidationError{Field: "dni", Reason: "is required"}
	}
	apellido, err := requireText("apellido", p.Apellido, model.ApellidoMaxLength)
	if err != nil {
		return err
	}
	nombre, err := requireText("nombre", p.Nombre, model.NombreMaxLength)
	if err != nil {
		return err
	}
	if p.Edad != nil && *p.Edad < 0 {
		return &ValidationError{Field: "edad", Reason: "must not be negative"}
	}
	p.Apellido = apellido
	p.Nombre = nombre
	return nil
}
