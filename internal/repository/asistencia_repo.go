package repository

import (
	"context"
	"time"

	"comanda/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AsistenciaRepository interface {
	// CreateSiNoExiste performs the existence check and the insert in one
	// transaction. Returns (false, nil) without writing when the employee
	// already checked in on fecha.
	CreateSiNoExiste(ctx context.Context, a *model.Asistencia) (bool, error)
	ListPorFecha(ctx context.Context, fecha time.Time) ([]model.Asistencia, error)
	ListPorEmpleado(ctx context.Context, empleadoID uuid.UUID, limit int) ([]model.Asistencia, error)
}

type asistenciaRepo struct{ db *gorm.DB }

func NewAsistenciaRepository(db *gorm.DB) AsistenciaRepository { return &asistenciaRepo{db: db} }

func (r *asistenciaRepo) CreateSiNoExiste(ctx context.Context, a *model.Asistencia) (bool, error) {
	creada := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Asistencia{}).
			Where("empleado_id = ? AND fecha = ?", a.EmpleadoID, a.Fecha.Format("2006-01-02")).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		if err := tx.Create(a).Error; err != nil {
			return err
		}
		creada = true
		return nil
	})
	return creada, err
}

func (r *asistenciaRepo) ListPorFecha(ctx context.Context, fecha time.Time) ([]model.Asistencia, error) {
	var asistencias []model.Asistencia
	err := r.db.WithContext(ctx).
		Where("fecha = ?", fecha.Format("2006-01-02")).
		Preload("Empleado").
		Order("hora_entrada ASC").
		Find(&asistencias).Error
	return asistencias, err
}

func (r *asistenciaRepo) ListPorEmpleado(ctx context.Context, empleadoID uuid.UUID, limit int) ([]model.Asistencia, error) {
	var asistencias []model.Asistencia
	err := r.db.WithContext(ctx).
		Where("empleado_id = ?", empleadoID).
		Order("fecha DESC").
		Limit(limit).
		Find(&asistencias).Error
	return asistencias, err
}
