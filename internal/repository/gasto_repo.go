package repository

import (
	"context"
	"time"

	"comanda/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GastoRepository interface {
	Create(ctx context.Context, g *model.Gasto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Gasto, error)
	ListDesde(ctx context.Context, desde time.Time) ([]model.Gasto, error)
	SumDesde(ctx context.Context, desde time.Time) (decimal.Decimal, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type gastoRepo struct{ db *gorm.DB }

func NewGastoRepository(db *gorm.DB) GastoRepository { return &gastoRepo{db: db} }

func (r *gastoRepo) Create(ctx context.Context, g *model.Gasto) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *gastoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Gasto, error) {
	var g model.Gasto
	err := r.db.WithContext(ctx).Preload("Usuario").First(&g, id).Error
	return &g, err
}

func (r *gastoRepo) ListDesde(ctx context.Context, desde time.Time) ([]model.Gasto, error) {
	var gastos []model.Gasto
	err := r.db.WithContext(ctx).
		Where("fecha >= ?", desde).
		Preload("Usuario").
		Order("fecha DESC").
		Find(&gastos).Error
	return gastos, err
}

func (r *gastoRepo) SumDesde(ctx context.Context, desde time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Gasto{}).
		Where("fecha >= ?", desde).
		Select("COALESCE(SUM(monto), 0)").
		Scan(&total).Error
	return total, err
}

func (r *gastoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Gasto{}, id).Error
}
