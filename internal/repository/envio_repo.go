package repository

import (
	"context"
	"time"

	"comanda/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EnvioRepository interface {
	Create(ctx context.Context, e *model.EnvioTicket) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.EnvioTicket, error)
	Update(ctx context.Context, e *model.EnvioTicket) error
	// ListPendingRetries returns fallido envíos whose next_retry_at has passed,
	// for the retry cron.
	ListPendingRetries(ctx context.Context, now time.Time, limit int) ([]model.EnvioTicket, error)
}

type envioRepo struct{ db *gorm.DB }

func NewEnvioRepository(db *gorm.DB) EnvioRepository { return &envioRepo{db: db} }

func (r *envioRepo) Create(ctx context.Context, e *model.EnvioTicket) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *envioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.EnvioTicket, error) {
	var e model.EnvioTicket
	err := r.db.WithContext(ctx).First(&e, id).Error
	return &e, err
}

func (r *envioRepo) Update(ctx context.Context, e *model.EnvioTicket) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *envioRepo) ListPendingRetries(ctx context.Context, now time.Time, limit int) ([]model.EnvioTicket, error) {
	var envios []model.EnvioTicket
	err := r.db.WithContext(ctx).
		Where("estado = ? AND next_retry_at IS NOT NULL AND next_retry_at <= ?", model.EnvioFallido, now).
		Order("next_retry_at ASC").
		Limit(limit).
		Find(&envios).Error
	return envios, err
}
