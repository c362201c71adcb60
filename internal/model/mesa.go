package model

import (
	"time"

	"github.com/google/uuid"
)

// Pisos y formas válidas para el plano de mesas.
const (
	Piso1 = "Piso 1"
	Piso2 = "Piso 2"
)

const (
	FormaCuadrada = "mesa-cuadrada"
	FormaRedonda  = "mesa-redonda"
	FormaLarga    = "mesa-larga"
)

// Mesa is a physical table. PosX/PosY are percentage offsets (0–90) used by
// the floor-plan layout tool; Forma maps to a CSS class on the frontend.
type Mesa struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero    int       `gorm:"uniqueIndex;not null"`
	Capacidad int       `gorm:"not null"`
	Piso      string    `gorm:"type:varchar(10);not null;default:'Piso 1'"`
	Forma     string    `gorm:"type:varchar(20);not null;default:'mesa-cuadrada'"`
	PosX      int       `gorm:"not null;default:10"`
	PosY      int       `gorm:"not null;default:10"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Mesa) TableName() string { return "mesas" }
