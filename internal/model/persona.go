package model

// Field limits shared by validation and the schema.
const (
	ApellidoMaxLength = 50
	NombreMaxLength   = 50
)

// Persona is a person that tasks can be assigned to.
type Persona struct {
	ID       uint   `gorm:"column:persona_id;primaryKey;autoIncrement" json:"id"`
	DNI      int    `gorm:"column:dni;not null;uniqueIndex" json:"dni"`
	Apellido string `gorm:"column:apellido;size:50;not null" json:"apellido"`
	Nombre   string `gorm:"column:nombre;size:50;not null" json:"nombre"`
	Edad     *int   `gorm:"column:edad" json:"edad,omitempty"`
}

func (Persona) TableName() string {
	return "persona"
}

// DisplayName renders "Apellido, Nombre" as used in selection lists.
func (p Persona) DisplayName() string {
	return p.Apellido + ", " + p.Nombre
}
