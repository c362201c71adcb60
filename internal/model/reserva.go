package model

import (
	"time"

	"github.com/google/uuid"
)

// Estados de reserva.
const (
	ReservaPendiente  = "Pendiente"
	ReservaConfirmada = "Confirmada"
	ReservaCancelada  = "Cancelada"
	ReservaFinalizada = "Finalizada"
)

// Reserva is a table reservation, optionally with pre-ordered dishes.
// Asistio flips to true exactly once, when the reservation is converted
// into a Pedido; conversion is a no-op afterwards.
type Reserva struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Cliente        string    `gorm:"not null"`
	Telefono       *string   `gorm:"type:varchar(15)"`
	Fecha          time.Time `gorm:"type:date;not null;index"`
	Hora           string    `gorm:"type:varchar(5);not null"` // HH:MM
	MesaID         uuid.UUID `gorm:"type:uuid;not null"`
	NumeroPersonas int       `gorm:"not null;default:2"`
	Estado         string    `gorm:"type:varchar(20);not null;default:'Pendiente';index"`
	Asistio        bool      `gorm:"not null;default:false"`
	Notas          *string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Mesa   *Mesa          `gorm:"foreignKey:MesaID"`
	Platos []ReservaPlato `gorm:"foreignKey:ReservaID;constraint:OnDelete:CASCADE"`
}

func (Reserva) TableName() string { return "reservas" }

// ReservaPlato is one pre-ordered dish on a reservation. It deliberately
// carries no price: conversion always uses the catalog price current at
// conversion time.
type ReservaPlato struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ReservaID  uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductoID uuid.UUID `gorm:"type:uuid;not null"`
	Cantidad   int       `gorm:"not null;default:1"`
	NotaPlato  *string   `gorm:"type:varchar(200)"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (ReservaPlato) TableName() string { return "reservas_platos" }
