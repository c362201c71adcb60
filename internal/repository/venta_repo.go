package repository

import (
	"context"
	"time"

	"comanda/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductoVendido is a grouped row for the top-products report.
type ProductoVendido struct {
	ProductoNombre string
	CantidadTotal  int
	DineroTotal    decimal.Decimal
}

type VentaRepository interface {
	CreateTx(tx *gorm.DB, v *model.Venta) error
	ListDesde(ctx context.Context, desde time.Time) ([]model.Venta, error)
	SumPorMetodo(ctx context.Context, desde time.Time) (map[string]decimal.Decimal, error)
	TopProductos(ctx context.Context, desde time.Time, limit int) ([]ProductoVendido, error)
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) CreateTx(tx *gorm.DB, v *model.Venta) error {
	return tx.Create(v).Error
}

func (r *ventaRepo) ListDesde(ctx context.Context, desde time.Time) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).
		Where("fecha_venta >= ?", desde).
		Order("fecha_venta ASC").
		Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) SumPorMetodo(ctx context.Context, desde time.Time) (map[string]decimal.Decimal, error) {
	type fila struct {
		MetodoPago string
		Total      decimal.Decimal
	}
	var filas []fila
	err := r.db.WithContext(ctx).Model(&model.Venta{}).
		Select("metodo_pago, COALESCE(SUM(total), 0) AS total").
		Where("fecha_venta >= ?", desde).
		Group("metodo_pago").
		Scan(&filas).Error
	if err != nil {
		return nil, err
	}
	sums := make(map[string]decimal.Decimal, len(filas))
	for _, f := range filas {
		sums[f.MetodoPago] = f.Total
	}
	return sums, nil
}

func (r *ventaRepo) TopProductos(ctx context.Context, desde time.Time, limit int) ([]ProductoVendido, error) {
	var filas []ProductoVendido
	err := r.db.WithContext(ctx).Model(&model.Venta{}).
		Select("producto_nombre, SUM(cantidad) AS cantidad_total, SUM(total) AS dinero_total").
		Where("fecha_venta >= ?", desde).
		Group("producto_nombre").
		Order("cantidad_total DESC").
		Limit(limit).
		Scan(&filas).Error
	return filas, err
}
