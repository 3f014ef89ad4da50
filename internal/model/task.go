package model

import "time"

const DescriptionMaxLength = 255

// Task is a to-do item owned by exactly one persona.
//
// PersonaID is the stored reference. Persona is only populated when the
// record store preloads it and is never written back through the association.
type Task struct {
	ID           uint       `gorm:"column:task_id;primaryKey;autoIncrement" json:"id"`
	Description  string     `gorm:"column:description;size:255;not null" json:"description"`
	CreationDate time.Time  `gorm:"column:creation_date;not null;index" json:"creationDate"`
	DueDate      *time.Time `gorm:"column:due_date;type:date" json:"dueDate,omitempty"`
	Done         bool       `gorm:"column:done;not null;default:false" json:"done"`
	PersonaID    uint       `gorm:"column:persona_id;not null;index" json:"personaId"`
	Persona      *Persona   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"persona,omitempty"`
}

func (Task) TableName() string {
	return "task"
}

// Date truncates t to a calendar date at UTC midnight.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
