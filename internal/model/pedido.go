package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados del pedido. Pagado y Cancelado son terminales.
const (
	PedidoPendiente     = "Pendiente"
	PedidoEnPreparacion = "En preparación"
	PedidoListo         = "Listo"
	PedidoPagado        = "Pagado"
	PedidoCancelado     = "Cancelado"
)

// Métodos de pago. MetodoPendiente means the order has not been collected yet.
const (
	MetodoPendiente     = "Pendiente"
	MetodoEfectivo      = "Efectivo"
	MetodoTransferencia = "Transferencia"
)

// Pedido is the central order aggregate (ticket). Total is derived: it is
// recomputed from the current detalles inside the same transaction as every
// line mutation and must never be written directly by callers.
//
// NumeroDiario is the human-facing ticket number shown to customers and on
// printed tickets. It comes from a PostgreSQL sequence so concurrent order
// creation can never assign duplicates.
type Pedido struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NumeroDiario int             `gorm:"not null;index"`
	MesaID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	MeseroID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Estado       string          `gorm:"type:varchar(20);not null;default:'Pendiente';index"`
	Total        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Observaciones *string

	// Datos del cliente para la factura. Editables incluso con el pedido
	// Pagado, para corregir facturas sin reabrir el pedido.
	ClienteNombre    string `gorm:"not null;default:'Consumidor Final'"`
	ClienteCedula    string `gorm:"type:varchar(13);not null;default:'9999999999'"`
	ClienteTelefono  *string
	ClienteDireccion *string
	ClienteEmail     *string

	MetodoPago         string  `gorm:"type:varchar(20);not null;default:'Pendiente'"`
	ComprobantePagoURL *string

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time

	Mesa     *Mesa           `gorm:"foreignKey:MesaID"`
	Mesero   *Usuario        `gorm:"foreignKey:MeseroID"`
	Detalles []DetallePedido `gorm:"foreignKey:PedidoID;constraint:OnDelete:CASCADE"`
}

func (Pedido) TableName() string { return "pedidos" }

// EsTerminal reports whether the order can no longer change state.
func (p *Pedido) EsTerminal() bool {
	return p.Estado == PedidoPagado || p.Estado == PedidoCancelado
}

// DetallePedido is a single line item. PrecioUnitario is captured when the
// line is created (defaulting to the product's current price) so later
// catalog edits never change historical order totals.
type DetallePedido struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PedidoID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Nota           *string         `gorm:"type:varchar(200)"`
	CreatedAt      time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (DetallePedido) TableName() string { return "detalles_pedido" }

// Subtotal = cantidad × precio capturado.
func (d *DetallePedido) Subtotal() decimal.Decimal {
	return d.PrecioUnitario.Mul(decimal.NewFromInt(int64(d.Cantidad)))
}
