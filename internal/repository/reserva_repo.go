package repository

import (
	"context"

	"comanda/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReservaRepository interface {
	Create(ctx context.Context, r *model.Reserva) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Reserva, error)
	List(ctx context.Context, excluirCanceladas bool) ([]model.Reserva, error)
	Proximas(ctx context.Context, limit int) ([]model.Reserva, error)
	Update(ctx context.Context, tx *gorm.DB, r *model.Reserva) error
	DB() *gorm.DB
}

type reservaRepo struct{ db *gorm.DB }

func NewReservaRepository(db *gorm.DB) ReservaRepository { return &reservaRepo{db: db} }

func (r *reservaRepo) DB() *gorm.DB { return r.db }

func (r *reservaRepo) Create(ctx context.Context, rv *model.Reserva) error {
	return r.db.WithContext(ctx).Create(rv).Error
}

func (r *reservaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Reserva, error) {
	var rv model.Reserva
	err := r.db.WithContext(ctx).
		Preload("Platos.Producto").Preload("Mesa").
		First(&rv, id).Error
	return &rv, err
}

func (r *reservaRepo) List(ctx context.Context, excluirCanceladas bool) ([]model.Reserva, error) {
	var reservas []model.Reserva
	q := r.db.WithContext(ctx).Preload("Platos.Producto").Preload("Mesa").Order("fecha, hora")
	if excluirCanceladas {
		q = q.Where("estado <> ?", model.ReservaCancelada)
	}
	err := q.Find(&reservas).Error
	return reservas, err
}

// Proximas returns upcoming pending/confirmed reservations for the dashboard.
func (r *reservaRepo) Proximas(ctx context.Context, limit int) ([]model.Reserva, error) {
	var reservas []model.Reserva
	err := r.db.WithContext(ctx).
		Where("fecha >= CURRENT_DATE AND estado IN ?", []string{model.ReservaPendiente, model.ReservaConfirmada}).
		Preload("Mesa").
		Order("fecha, hora").
		Limit(limit).
		Find(&reservas).Error
	return reservas, err
}

func (r *reservaRepo) Update(ctx context.Context, tx *gorm.DB, rv *model.Reserva) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Omit("Platos", "Mesa").Save(rv).Error
}
