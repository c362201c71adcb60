package service

import "comanda/internal/model"

// Field-level edit policy for pedidos, unified in one place instead of being
// scattered across handlers. Every mutation entry point consults this.
//
// Rules:
//   - total is always derived, never editable.
//   - meseros cannot reassign mesa, mesero or estado.
//   - a Pagado pedido locks everything operative; only cliente_* fields stay
//     editable so invoices can be corrected without reopening the order.

const (
	CampoMesa          = "mesa"
	CampoMesero        = "mesero"
	CampoEstado        = "estado"
	CampoObservaciones = "observaciones"
	CampoDetalles      = "detalles"
	CampoCliente       = "cliente"
	CampoMetodoPago    = "metodo_pago"
)

// CamposEditables returns the set of pedido fields the given role may modify
// given the order's current status.
func CamposEditables(rol, estado string) map[string]bool {
	campos := map[string]bool{
		CampoMesa:          true,
		CampoMesero:        true,
		CampoEstado:        true,
		CampoObservaciones: true,
		CampoDetalles:      true,
		CampoCliente:       true,
		CampoMetodoPago:    true,
	}

	if rol == model.RolMesero {
		campos[CampoMesa] = false
		campos[CampoMesero] = false
		campos[CampoEstado] = false
	}

	if estado == model.PedidoPagado {
		campos[CampoMesa] = false
		campos[CampoMesero] = false
		campos[CampoEstado] = false
		campos[CampoObservaciones] = false
		campos[CampoDetalles] = false
		campos[CampoMetodoPago] = false
		// cliente_* queda editable a propósito
	}

	if estado == model.PedidoCancelado {
		campos[CampoDetalles] = false
		campos[CampoEstado] = false
		campos[CampoMetodoPago] = false
	}

	return campos
}

// PuedeEditar is a convenience wrapper for single-field checks.
func PuedeEditar(rol, estado, campo string) bool {
	return CamposEditables(rol, estado)[campo]
}

// TransicionValida encodes the order state machine:
// Pendiente → En preparación → Listo → Pagado, with the kitchen allowed to
// jump Pendiente → Listo, and Cancelado reachable from any non-terminal
// state. Pagado and Cancelado are terminal.
func TransicionValida(desde, hacia string) bool {
	if desde == model.PedidoPagado || desde == model.PedidoCancelado {
		return false
	}
	switch hacia {
	case model.PedidoCancelado:
		return true
	case model.PedidoEnPreparacion:
		return desde == model.PedidoPendiente
	case model.PedidoListo:
		return desde == model.PedidoPendiente || desde == model.PedidoEnPreparacion
	case model.PedidoPagado:
		// cualquier estado no terminal puede cobrarse
		return true
	default:
		return false
	}
}
