package model

import (
	"time"

	"github.com/google/uuid"
)

// Asistencia is a daily check-in. Fecha and HoraEntrada are set once at
// creation and never updated. One record per (empleado, fecha) — enforced by
// an existence check inside the registering transaction.
type Asistencia struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmpleadoID  uuid.UUID `gorm:"type:uuid;not null;index:idx_asistencia_empleado_fecha"`
	Fecha       time.Time `gorm:"type:date;not null;index:idx_asistencia_empleado_fecha"`
	HoraEntrada time.Time `gorm:"not null"`
	Nota        *string   `gorm:"type:varchar(255)"`

	Empleado *Usuario `gorm:"foreignKey:EmpleadoID"`
}

func (Asistencia) TableName() string { return "asistencias" }
