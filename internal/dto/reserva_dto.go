package dto

type PlatoPreordenadoRequest struct {
	ProductoID string  `json:"producto_id" validate:"required,uuid"`
	Cantidad   int     `json:"cantidad"    validate:"required,min=1"`
	NotaPlato  *string `json:"nota_plato"`
}

type CrearReservaRequest struct {
	Cliente        string                    `json:"cliente"  validate:"required"`
	Telefono       *string                   `json:"telefono"`
	Fecha          string                    `json:"fecha"    validate:"required,datetime=2006-01-02"`
	Hora           string                    `json:"hora"     validate:"required,datetime=15:04"`
	MesaID         string                    `json:"mesa_id"  validate:"required,uuid"`
	NumeroPersonas int                       `json:"numero_personas" validate:"min=1"`
	Notas          *string                   `json:"notas"`
	Platos         []PlatoPreordenadoRequest `json:"platos"   validate:"omitempty,dive"`
}

type CambiarEstadoReservaRequest struct {
	Estado string `json:"estado" validate:"required,oneof=Pendiente Confirmada Cancelada"`
}

type PlatoPreordenadoResponse struct {
	Producto  string  `json:"producto"`
	Cantidad  int     `json:"cantidad"`
	NotaPlato *string `json:"nota_plato,omitempty"`
}

type ReservaResponse struct {
	ID             string                     `json:"id"`
	Cliente        string                     `json:"cliente"`
	Telefono       *string                    `json:"telefono,omitempty"`
	Fecha          string                     `json:"fecha"`
	Hora           string                     `json:"hora"`
	Mesa           int                        `json:"mesa"`
	Piso           string                     `json:"piso"`
	NumeroPersonas int                        `json:"numero_personas"`
	Estado         string                     `json:"estado"`
	Asistio        bool                       `json:"asistio"`
	Notas          *string                    `json:"notas,omitempty"`
	Platos         []PlatoPreordenadoResponse `json:"platos"`
}

// ConversionResponse reports the outcome of reserva → pedido. Advertencia is
// set (and PedidoID empty) when the reservation was already attended: the
// call is a no-op, not an error.
type ConversionResponse struct {
	PedidoID     string `json:"pedido_id,omitempty"`
	NumeroDiario int    `json:"numero_diario,omitempty"`
	Advertencia  string `json:"advertencia,omitempty"`
}

// EventoCalendario is a flat row for the reservations calendar view.
type EventoCalendario struct {
	ReservaID string `json:"reserva_id"`
	Title     string `json:"title"`
	Start     string `json:"start"` // fecha + hora ISO
	Estado    string `json:"estado"`
	Mesa      string `json:"mesa"`
	Personas  int    `json:"personas"`
	Platos    []PlatoPreordenadoResponse `json:"platos"`
}
