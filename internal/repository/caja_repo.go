package repository

import (
	"context"
	"errors"

	"comanda/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrCajaYaAbierta surfaces the partial unique index violation on concurrent
// opens as a domain error.
var ErrCajaYaAbierta = errors.New("ya existe una caja abierta")

type CajaRepository interface {
	// CreateSesion inserts inside a serialized check-and-set: the existence
	// check and the insert share one transaction, and the partial unique
	// index on estado='Abierta' rejects the loser of any remaining race.
	CreateSesion(ctx context.Context, s *model.SesionCaja) error
	FindSesionAbierta(ctx context.Context) (*model.SesionCaja, error)
	UpdateSesion(ctx context.Context, s *model.SesionCaja) error
	ListSesiones(ctx context.Context, limit int) ([]model.SesionCaja, error)
}

type cajaRepo struct{ db *gorm.DB }

func NewCajaRepository(db *gorm.DB) CajaRepository { return &cajaRepo{db: db} }

func (r *cajaRepo) CreateSesion(ctx context.Context, s *model.SesionCaja) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var abierta model.SesionCaja
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("estado = ?", model.CajaAbierta).
			First(&abierta).Error
		if err == nil {
			return ErrCajaYaAbierta
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := tx.Create(s).Error; err != nil {
			// idx_sesiones_caja_abierta_unica fires when two opens race past
			// the check above
			return ErrCajaYaAbierta
		}
		return nil
	})
}

func (r *cajaRepo) FindSesionAbierta(ctx context.Context) (*model.SesionCaja, error) {
	var s model.SesionCaja
	err := r.db.WithContext(ctx).
		Where("estado = ?", model.CajaAbierta).
		Order("fecha_apertura DESC").
		First(&s).Error
	return &s, err
}

func (r *cajaRepo) UpdateSesion(ctx context.Context, s *model.SesionCaja) error {
	return r.db.WithContext(ctx).Omit("Usuario").Save(s).Error
}

func (r *cajaRepo) ListSesiones(ctx context.Context, limit int) ([]model.SesionCaja, error) {
	var sesiones []model.SesionCaja
	err := r.db.WithContext(ctx).
		Preload("Usuario").
		Order("fecha_apertura DESC").
		Limit(limit).
		Find(&sesiones).Error
	return sesiones, err
}
