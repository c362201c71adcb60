package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Venta is an append-only sale snapshot, created per line item when an order
// is collected (Cobrar). Reports read ONLY from here, never from the mutable
// Pedido, so later edits to the catalog cannot shift historical numbers.
// ProductoNombre is denormalized for the same reason.
type Venta struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PedidoID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoNombre string          `gorm:"not null"`
	Cantidad       int             `gorm:"not null"`
	Total          decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	MetodoPago     string          `gorm:"type:varchar(20);not null"`
	FechaVenta     time.Time       `gorm:"not null;index"`
}

func (Venta) TableName() string { return "ventas" }
