package repository

import (
	"context"
	"time"

	"comanda/internal/dto"
	"comanda/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PedidoRepository interface {
	Create(ctx context.Context, tx *gorm.DB, p *model.Pedido) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Pedido, error)
	// FindForUpdateTx relee el pedido dentro de la tx con FOR UPDATE, de modo
	// que la verificación de estado y la escritura posterior sean atómicas
	// frente a cobros o ediciones concurrentes.
	FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Pedido, error)
	NextNumeroDiario(ctx context.Context, tx *gorm.DB) (int, error)

	CreateDetalleTx(tx *gorm.DB, d *model.DetallePedido) error
	UpdateDetalleTx(tx *gorm.DB, d *model.DetallePedido) error
	DeleteDetalleTx(tx *gorm.DB, id uuid.UUID) error
	FindDetalleByID(ctx context.Context, id uuid.UUID) (*model.DetallePedido, error)

	// RecomputarTotalTx recomputes the order total from ALL current lines and
	// persists it, inside the caller's transaction. Always recompute-from-
	// scratch; incremental updates drift under concurrent edits.
	RecomputarTotalTx(tx *gorm.DB, pedidoID uuid.UUID) (decimal.Decimal, error)

	UpdateEstado(ctx context.Context, id uuid.UUID, estado string) error
	Update(ctx context.Context, tx *gorm.DB, p *model.Pedido) error
	ListPorEstados(ctx context.Context, estados []string) ([]model.Pedido, error)
	ListPorMesero(ctx context.Context, meseroID uuid.UUID, filter dto.PedidoFilter) ([]model.Pedido, int64, error)
	SumTotalPagados(ctx context.Context, desde time.Time) (decimal.Decimal, error)
	DB() *gorm.DB
}

type pedidoRepo struct{ db *gorm.DB }

func NewPedidoRepository(db *gorm.DB) PedidoRepository { return &pedidoRepo{db: db} }

func (r *pedidoRepo) DB() *gorm.DB { return r.db }

func (r *pedidoRepo) Create(ctx context.Context, tx *gorm.DB, p *model.Pedido) error {
	return tx.WithContext(ctx).Create(p).Error
}

func (r *pedidoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error) {
	var p model.Pedido
	err := r.db.WithContext(ctx).
		Preload("Detalles.Producto").Preload("Mesa").Preload("Mesero").
		First(&p, id).Error
	return &p, err
}

func (r *pedidoRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Pedido, error) {
	var p model.Pedido
	err := tx.Preload("Detalles.Producto").First(&p, id).Error
	return &p, err
}

func (r *pedidoRepo) FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Pedido, error) {
	var p model.Pedido
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Detalles.Producto").First(&p, id).Error
	return &p, err
}

func (r *pedidoRepo) NextNumeroDiario(ctx context.Context, tx *gorm.DB) (int, error) {
	// PostgreSQL sequence — atomic under concurrent order creation.
	var num int
	err := tx.WithContext(ctx).Raw("SELECT nextval('pedidos_numero_diario_seq')").Scan(&num).Error
	return num, err
}

func (r *pedidoRepo) CreateDetalleTx(tx *gorm.DB, d *model.DetallePedido) error {
	return tx.Create(d).Error
}

func (r *pedidoRepo) UpdateDetalleTx(tx *gorm.DB, d *model.DetallePedido) error {
	return tx.Save(d).Error
}

func (r *pedidoRepo) DeleteDetalleTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.DetallePedido{}, id).Error
}

func (r *pedidoRepo) FindDetalleByID(ctx context.Context, id uuid.UUID) (*model.DetallePedido, error) {
	var d model.DetallePedido
	err := r.db.WithContext(ctx).Preload("Producto").First(&d, id).Error
	return &d, err
}

func (r *pedidoRepo) RecomputarTotalTx(tx *gorm.DB, pedidoID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := tx.Model(&model.DetallePedido{}).
		Where("pedido_id = ?", pedidoID).
		Select("COALESCE(SUM(cantidad * precio_unitario), 0)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	err = tx.Model(&model.Pedido{}).Where("id = ?", pedidoID).Update("total", total).Error
	return total, err
}

func (r *pedidoRepo) UpdateEstado(ctx context.Context, id uuid.UUID, estado string) error {
	return r.db.WithContext(ctx).Model(&model.Pedido{}).Where("id = ?", id).Update("estado", estado).Error
}

func (r *pedidoRepo) Update(ctx context.Context, tx *gorm.DB, p *model.Pedido) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Omit("Detalles", "Mesa", "Mesero").Save(p).Error
}

func (r *pedidoRepo) ListPorEstados(ctx context.Context, estados []string) ([]model.Pedido, error) {
	var pedidos []model.Pedido
	err := r.db.WithContext(ctx).
		Where("estado IN ?", estados).
		Preload("Detalles.Producto").Preload("Mesa").
		Order("created_at ASC").
		Find(&pedidos).Error
	return pedidos, err
}

func (r *pedidoRepo) ListPorMesero(ctx context.Context, meseroID uuid.UUID, filter dto.PedidoFilter) ([]model.Pedido, int64, error) {
	var pedidos []model.Pedido
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Pedido{}).Where("mesero_id = ?", meseroID)
	if filter.FechaInicio != "" {
		q = q.Where("DATE(created_at) >= ?", filter.FechaInicio)
	}
	if filter.FechaFin != "" {
		q = q.Where("DATE(created_at) <= ?", filter.FechaFin)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Detalles.Producto").Preload("Mesa").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&pedidos).Error
	return pedidos, total, err
}

// SumTotalPagados is the income side of the register balance: totals of Paid
// orders created since the scope start.
func (r *pedidoRepo) SumTotalPagados(ctx context.Context, desde time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Pedido{}).
		Where("estado = ? AND created_at >= ?", model.PedidoPagado, desde).
		Select("COALESCE(SUM(total), 0)").
		Scan(&total).Error
	return total, err
}
