package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de sesión de caja.
const (
	CajaAbierta = "Abierta"
	CajaCerrada = "Cerrada"
)

// SesionCaja is a cashier's open-to-close working period. Daily income,
// expense and net-balance queries are scoped from FechaApertura of the open
// session (or midnight when none is open).
//
// Invariant: at most one Abierta session system-wide. The opening service
// checks inside its transaction, and a partial unique index on
// (estado) WHERE estado = 'Abierta' backstops concurrent opens.
type SesionCaja struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID     uuid.UUID       `gorm:"type:uuid;not null"`
	FechaApertura time.Time       `gorm:"not null"`
	FechaCierre   *time.Time
	MontoInicial  decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	MontoFinal    *decimal.Decimal `gorm:"type:decimal(10,2)"`
	Estado        string           `gorm:"type:varchar(20);not null;default:'Abierta';index"`

	Usuario *Usuario `gorm:"foreignKey:UsuarioID"`
}

func (SesionCaja) TableName() string { return "sesiones_caja" }
