package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ValidationError reports a field that violates its declared constraints.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ReferenceError reports a task pointing at a persona that does not exist.
type ReferenceError struct {
	PersonaID uint
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("persona %d does not exist", e.PersonaID)
}

// NotFoundError reports an update or delete target that does not exist.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// ConstraintViolation reports a store-level constraint failure such as a
// duplicate dni or a persona that still owns tasks.
type ConstraintViolation struct {
	Entity     string
	Constraint string
	Err        error
}

func (e *ConstraintViolation) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s violates %s: %v", e.Entity, e.Constraint, e.Err)
	}
	return fmt.Sprintf("%s violates %s", e.Entity, e.Constraint)
}

func (e *ConstraintViolation) Unwrap() error {
	return e.Err
}

// storeError maps gorm sentinels onto the service error taxonomy.
func storeError(entity string, id uint, constraint string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &NotFoundError{Entity: entity, ID: id}
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		return &ConstraintViolation{Entity: entity, Constraint: constraint, Err: err}
	default:
		return err
	}
}
