package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"task-management/internal/model"
)

// PersonaRepository handles CRUD for personas.
type PersonaRepository struct {
	db *gorm.DB
}

func NewPersonaRepository(db *gorm.DB) *PersonaRepository {
	return &PersonaRepository{db: db}
}

func (r *PersonaRepository) Create(ctx context.Context, persona *model.Persona) error {
	if err := r.db.WithContext(ctx).Create(persona).Error; err != nil {
		return fmt.Errorf("create persona: %w", translate(err))
	}
	return nil
}

// Update replaces every mutable column of the stored persona with the given copy.
func (r *PersonaRepository) Update(ctx context.Context, persona *model.Persona) error {
	res := r.db.WithContext(ctx).Model(&model.Persona{ID: persona.ID}).Updates(map[string]interface{}{
		"dni":      persona.DNI,
		"apellido": persona.Apellido,
		"nombre":   persona.Nombre,
		"edad":     persona.Edad,
	})
	if res.Error != nil {
		return fmt.Errorf("update persona: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update persona %d: %w", persona.ID, gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *PersonaRepository) FindByID(ctx context.Context, id uint) (*model.Persona, error) {
	var persona model.Persona
	if err := r.db.WithContext(ctx).First(&persona, id).Error; err != nil {
		return nil, err
	}
	return &persona, nil
}

// ListPage returns one page ordered by id. No total count is queried.
func (r *PersonaRepository) ListPage(ctx context.Context, page model.PageRequest) ([]model.Persona, error) {
	var personas []model.Persona
	if err := r.db.WithContext(ctx).Order("persona_id ASC").
		Offset(page.Offset()).Limit(page.Size).
		Find(&personas).Error; err != nil {
		return nil, err
	}
	return personas, nil
}

func (r *PersonaRepository) ListAll(ctx context.Context) ([]model.Persona, error) {
	var personas []model.Persona
	if err := r.db.WithContext(ctx).Order("apellido ASC, nombre ASC, persona_id ASC").Find(&personas).Error; err != nil {
		return nil, err
	}
	return personas, nil
}

// Delete removes a persona by id. A missing id yields gorm.ErrRecordNotFound.
func (r *PersonaRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Persona{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete persona: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete persona %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}
