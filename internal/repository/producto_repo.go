package repository

import (
	"context"

	"comanda/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Producto, error)
	FindByNombre(ctx context.Context, nombre string) (*model.Producto, error)
	List(ctx context.Context, categoria string) ([]model.Producto, error)
	Update(ctx context.Context, p *model.Producto) error
	UpdateStock(ctx context.Context, id uuid.UUID, stock int) error
	StockBajo(ctx context.Context, categorias []string, umbral int) ([]model.Producto, error)
	CountPorCategoria(ctx context.Context) (map[string]int64, error)
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

// FindByIDTx reads the product inside an open transaction so line creation
// captures the price the same snapshot the rest of the tx sees.
func (r *productoRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := tx.First(&p, id).Error
	return &p, err
}

func (r *productoRepo) FindByNombre(ctx context.Context, nombre string) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).Where("nombre = ?", nombre).First(&p).Error
	return &p, err
}

func (r *productoRepo) List(ctx context.Context, categoria string) ([]model.Producto, error) {
	var productos []model.Producto
	q := r.db.WithContext(ctx).Order("categoria, nombre")
	if categoria != "" {
		q = q.Where("categoria = ?", categoria)
	}
	err := q.Find(&productos).Error
	return productos, err
}

func (r *productoRepo) Update(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productoRepo) UpdateStock(ctx context.Context, id uuid.UUID, stock int) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).Update("stock", stock).Error
}

func (r *productoRepo) StockBajo(ctx context.Context, categorias []string, umbral int) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).
		Where("categoria IN ? AND stock < ?", categorias, umbral).
		Order("stock ASC").
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) CountPorCategoria(ctx context.Context) (map[string]int64, error) {
	type fila struct {
		Categoria string
		Total     int64
	}
	var filas []fila
	err := r.db.WithContext(ctx).Model(&model.Producto{}).
		Select("categoria, COUNT(*) AS total").
		Group("categoria").
		Scan(&filas).Error
	if err != nil {
		return nil, err
	}
	conteos := make(map[string]int64, len(filas))
	for _, f := range filas {
		conteos[f.Categoria] = f.Total
	}
	return conteos, nil
}
