package dto

import "github.com/shopspring/decimal"

type AbrirCajaRequest struct {
	MontoInicial decimal.Decimal `json:"monto_inicial" validate:"required,min=0"`
}

type CerrarCajaRequest struct {
	MontoFinal *decimal.Decimal `json:"monto_final" validate:"omitempty,min=0"`
}

type SesionCajaResponse struct {
	ID            string           `json:"id"`
	Usuario       string           `json:"usuario"`
	FechaApertura string           `json:"fecha_apertura"`
	FechaCierre   *string          `json:"fecha_cierre,omitempty"`
	MontoInicial  decimal.Decimal  `json:"monto_inicial"`
	MontoFinal    *decimal.Decimal `json:"monto_final,omitempty"`
	Estado        string           `json:"estado"`
}

// ResumenCaja is THE register balance shape. The JSON dashboard, the printable
// PDF report and the XLSX export are all rendered from this one struct so the
// formula (inicial + ingresos − gastos) cannot diverge between surfaces.
type ResumenCaja struct {
	Fecha         string          `json:"fecha"`
	CajaAbierta   bool            `json:"caja_abierta"`
	MontoInicial  decimal.Decimal `json:"monto_inicial"`
	TotalIngresos decimal.Decimal `json:"total_ingresos"`
	TotalGastos   decimal.Decimal `json:"total_gastos"`
	UtilidadNeta  decimal.Decimal `json:"utilidad_neta"`

	TotalEfectivo      decimal.Decimal `json:"total_efectivo"`
	TotalTransferencia decimal.Decimal `json:"total_transferencia"`
	// DineroEnCaja = fondo inicial + efectivo − gastos (lo físico en gaveta).
	DineroEnCaja decimal.Decimal `json:"dinero_en_caja"`

	Ventas       []VentaRow       `json:"ventas"`
	Gastos       []GastoResponse  `json:"gastos"`
	TopProductos []TopProductoRow `json:"top_productos"`
	PorHora      []BucketHora     `json:"por_hora"`
}

type VentaRow struct {
	Producto   string          `json:"producto"`
	Cantidad   int             `json:"cantidad"`
	Total      decimal.Decimal `json:"total"`
	MetodoPago string          `json:"metodo_pago"`
	Hora       string          `json:"hora"`
}

type TopProductoRow struct {
	Producto      string          `json:"producto"`
	CantidadTotal int             `json:"cantidad_total"`
	DineroTotal   decimal.Decimal `json:"dinero_total"`
}

type BucketHora struct {
	Hora  string          `json:"hora"` // "13:00"
	Total decimal.Decimal `json:"total"`
}
