package dto

import "github.com/shopspring/decimal"

type CrearProductoRequest struct {
	Nombre      string          `json:"nombre"    validate:"required"`
	Categoria   string          `json:"categoria" validate:"required"`
	Precio      decimal.Decimal `json:"precio"    validate:"required,gt=0"`
	Stock       int             `json:"stock"     validate:"min=0"`
	ImagenURL   *string         `json:"imagen_url"`
	Descripcion *string         `json:"descripcion"`
}

type ActualizarProductoRequest struct {
	Nombre      *string          `json:"nombre"`
	Categoria   *string          `json:"categoria"`
	Precio      *decimal.Decimal `json:"precio" validate:"omitempty,gt=0"`
	ImagenURL   *string          `json:"imagen_url"`
	Descripcion *string          `json:"descripcion"`
}

type AjustarStockRequest struct {
	Stock int `json:"stock" validate:"min=0"`
}

type ProductoResponse struct {
	ID          string          `json:"id"`
	Nombre      string          `json:"nombre"`
	Categoria   string          `json:"categoria"`
	Precio      decimal.Decimal `json:"precio"`
	Stock       int             `json:"stock"`
	ImagenURL   *string         `json:"imagen_url,omitempty"`
	Descripcion *string         `json:"descripcion,omitempty"`
}

// ConteosMenu feeds the public menu sidebar counters.
type ConteosMenu struct {
	Total  int64 `json:"total"`
	Bebida int64 `json:"bebida"`
	Arroz  int64 `json:"arroz"`
	Sopa   int64 `json:"sopa"`
	Extra  int64 `json:"extra"`
	Otro   int64 `json:"otro"`
}
