package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Categorías de gasto operativo.
const (
	GastoProveedores   = "Proveedores"
	GastoServicios     = "Servicios"
	GastoPersonal      = "Personal"
	GastoMantenimiento = "Mantenimiento"
	GastoOtro          = "Otro"
)

// Gasto is an operating expense recorded by staff. Today's gastos reduce the
// register session's net balance.
type Gasto struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID      uuid.UUID       `gorm:"type:uuid;not null"`
	Concepto       string          `gorm:"not null"`
	Monto          decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Categoria      string          `gorm:"type:varchar(50);not null;default:'Otro'"`
	Fecha          time.Time       `gorm:"not null;index"`
	ComprobanteURL *string

	Usuario *Usuario `gorm:"foreignKey:UsuarioID"`
}

func (Gasto) TableName() string { return "gastos" }
