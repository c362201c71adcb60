package dto

import "github.com/shopspring/decimal"

// ─── Requests ────────────────────────────────────────────────────────────────

type ItemPedidoRequest struct {
	ProductoID string  `json:"producto_id" validate:"required,uuid"`
	Cantidad   int     `json:"cantidad"    validate:"required,min=1"`
	// PrecioUnitario is optional; when omitted the current catalog price is
	// captured on the line.
	PrecioUnitario *decimal.Decimal `json:"precio_unitario" validate:"omitempty,gt=0"`
	Nota           *string          `json:"nota"`
}

type CrearPedidoRequest struct {
	MesaID        string              `json:"mesa_id"       validate:"required,uuid"`
	Items         []ItemPedidoRequest `json:"items"         validate:"required,min=1,dive"`
	Observaciones *string             `json:"observaciones"`
}

// CrearPedidoWebRequest is the public ordering-site variant: no staff login,
// customer data comes with the cart.
type CrearPedidoWebRequest struct {
	Items              []ItemPedidoRequest `json:"items"      validate:"required,min=1,dive"`
	MetodoPago         string              `json:"metodo_pago" validate:"required,oneof=Efectivo Transferencia"`
	Nota               *string             `json:"nota"`
	ClienteNombre      string              `json:"cliente_nombre"`
	ClienteCedula      string              `json:"cliente_cedula"`
	ClienteTelefono    *string             `json:"cliente_telefono"`
	ClienteDireccion   *string             `json:"cliente_direccion"`
	ClienteEmail       *string             `json:"cliente_email" validate:"omitempty,email"`
	ComprobantePagoURL *string             `json:"comprobante_pago_url"`
}

type AgregarDetalleRequest struct {
	ProductoID     string           `json:"producto_id" validate:"required,uuid"`
	Cantidad       int              `json:"cantidad"    validate:"required,min=1"`
	PrecioUnitario *decimal.Decimal `json:"precio_unitario" validate:"omitempty,gt=0"`
	Nota           *string          `json:"nota"`
}

type ActualizarDetalleRequest struct {
	Cantidad *int    `json:"cantidad" validate:"omitempty,min=1"`
	Nota     *string `json:"nota"`
}

type CambiarEstadoRequest struct {
	Estado string `json:"estado" validate:"required,oneof=Pendiente 'En preparación' Listo Cancelado"`
}

type CobrarRequest struct {
	MetodoPago string `json:"metodo_pago" validate:"required,oneof=Efectivo Transferencia"`
	// Overrides opcionales de datos de factura capturados en caja.
	ClienteNombre    *string `json:"cliente_nombre"`
	ClienteCedula    *string `json:"cliente_cedula"`
	ClienteTelefono  *string `json:"cliente_telefono"`
	ClienteDireccion *string `json:"cliente_direccion"`
	ClienteEmail     *string `json:"cliente_email" validate:"omitempty,email"`
}

type ActualizarClienteRequest struct {
	ClienteNombre    *string `json:"cliente_nombre"`
	ClienteCedula    *string `json:"cliente_cedula"`
	ClienteTelefono  *string `json:"cliente_telefono"`
	ClienteDireccion *string `json:"cliente_direccion"`
	ClienteEmail     *string `json:"cliente_email" validate:"omitempty,email"`
}

type PedidoFilter struct {
	FechaInicio string `form:"fecha_inicio"`
	FechaFin    string `form:"fecha_fin"`
	Page        int    `form:"page,default=1"  validate:"min=1"`
	Limit       int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Responses ───────────────────────────────────────────────────────────────

type DetalleResponse struct {
	ID             string          `json:"id"`
	Producto       string          `json:"producto"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Nota           *string         `json:"nota,omitempty"`
}

type PedidoResponse struct {
	ID            string            `json:"id"`
	NumeroDiario  int               `json:"numero_diario"`
	Mesa          int               `json:"mesa"`
	Mesero        string            `json:"mesero"`
	Estado        string            `json:"estado"`
	Total         decimal.Decimal   `json:"total"`
	Observaciones *string           `json:"observaciones,omitempty"`
	MetodoPago    string            `json:"metodo_pago"`
	Detalles      []DetalleResponse `json:"detalles"`

	ClienteNombre    string  `json:"cliente_nombre"`
	ClienteCedula    string  `json:"cliente_cedula"`
	ClienteTelefono  *string `json:"cliente_telefono,omitempty"`
	ClienteDireccion *string `json:"cliente_direccion,omitempty"`
	ClienteEmail     *string `json:"cliente_email,omitempty"`

	CreatedAt string `json:"created_at"`
}

type PedidoListResponse struct {
	Data  []PedidoResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}
