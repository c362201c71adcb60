package model

import (
	"time"

	"github.com/google/uuid"
)

// Estados de un envío de ticket por correo.
const (
	EnvioPendiente = "pendiente"
	EnvioEnviado   = "enviado"
	EnvioFallido   = "fallido"
)

// EnvioTicket tracks one outbound ticket email. The collecting transaction
// only creates the row; actual sending happens on the worker pool, which
// updates Estado so failures are observable instead of silently swallowed.
// The retry cron re-attempts fallido rows until MaxEnvioRetries.
type EnvioTicket struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PedidoID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Destinatario string    `gorm:"not null"`
	Estado       string    `gorm:"type:varchar(20);not null;default:'pendiente';index"`
	RetryCount   int       `gorm:"not null;default:0"`
	NextRetryAt  *time.Time
	LastError    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (EnvioTicket) TableName() string { return "envios_ticket" }
