package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Categorías de producto. Se normalizan al escribir (ver service.NormalizarCategoria)
// para que los filtros sean comparaciones directas de enum.
const (
	CategoriaBebida = "bebida"
	CategoriaArroz  = "arroz"
	CategoriaSopa   = "sopa"
	CategoriaExtra  = "extra"
	CategoriaOtro   = "otro"
)

// CategoriasConStock lists the categories whose stock count is meaningful.
// For the rest (cooked dishes) stock is ignored everywhere.
var CategoriasConStock = []string{CategoriaBebida, CategoriaExtra}

// Producto is a menu item. Products are never hard-deleted: historical
// order lines and sale snapshots reference them.
type Producto struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string    `gorm:"index;not null"`
	Categoria   string    `gorm:"type:varchar(20);not null;default:'otro';index"`
	Precio      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Stock       int             `gorm:"not null;default:0"`
	ImagenURL   *string
	Descripcion *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Producto) TableName() string { return "productos" }
