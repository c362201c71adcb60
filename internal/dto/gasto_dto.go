package dto

import "github.com/shopspring/decimal"

type CrearGastoRequest struct {
	Concepto       string          `json:"concepto"  validate:"required"`
	Monto          decimal.Decimal `json:"monto"     validate:"required,gt=0"`
	Categoria      string          `json:"categoria" validate:"omitempty,oneof=Proveedores Servicios Personal Mantenimiento Otro"`
	ComprobanteURL *string         `json:"comprobante_url"`
}

type GastoResponse struct {
	ID             string          `json:"id"`
	Usuario        string          `json:"usuario"`
	Concepto       string          `json:"concepto"`
	Monto          decimal.Decimal `json:"monto"`
	Categoria      string          `json:"categoria"`
	Fecha          string          `json:"fecha"`
	ComprobanteURL *string         `json:"comprobante_url,omitempty"`
}
