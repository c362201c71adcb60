package handler

// publico.go — endpoints sin autenticación para el sitio de clientes:
// menú con contadores, reservas online y pedidos web.

import (
	"net/http"

	"comanda/internal/apierror"
	"comanda/internal/dto"
	"comanda/internal/service"

	"github.com/gin-gonic/gin"
)

type PublicoHandler struct {
	productoSvc service.ProductoService
	reservaSvc  service.ReservaService
	pedidoSvc   service.PedidoService
}

func NewPublicoHandler(
	productoSvc service.ProductoService,
	reservaSvc service.ReservaService,
	pedidoSvc service.PedidoService,
) *PublicoHandler {
	return &PublicoHandler{productoSvc: productoSvc, reservaSvc: reservaSvc, pedidoSvc: pedidoSvc}
}

// Menu godoc
// @Summary      Menú público
// @Description  Carta completa, cacheada en Redis con TTL corto.
// @Tags         publico
// @Produce      json
// @Success      200 {array} dto.ProductoResponse
// @Router       /public/menu [get]
func (h *PublicoHandler) Menu(c *gin.Context) {
	resp, err := h.productoSvc.MenuPublico(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al cargar el menú"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Conteos godoc
// @Summary      Contadores de productos por categoría
// @Tags         publico
// @Produce      json
// @Success      200 {object} dto.ConteosMenu
// @Router       /public/menu/conteos [get]
func (h *PublicoHandler) Conteos(c *gin.Context) {
	resp, err := h.productoSvc.Conteos(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al contar productos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CrearReserva godoc
// @Summary      Reserva online de clientes
// @Tags         publico
// @Accept       json
// @Produce      json
// @Param        body body dto.CrearReservaRequest true "Datos de la reserva"
// @Success      201  {object} dto.ReservaResponse
// @Failure      400  {object} apierror.APIError
// @Router       /public/reservas [post]
func (h *PublicoHandler) CrearReserva(c *gin.Context) {
	var req dto.CrearReservaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.reservaSvc.Crear(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// CrearPedidoWeb godoc
// @Summary      Pedido desde el sitio público
// @Description  Sin login: datos del cliente en el carrito. Envía confirmación por correo si hay email.
// @Tags         publico
// @Accept       json
// @Produce      json
// @Param        body body dto.CrearPedidoWebRequest true "Carrito y datos del cliente"
// @Success      201  {object} dto.PedidoResponse
// @Failure      400  {object} apierror.APIError
// @Router       /public/pedidos [post]
func (h *PublicoHandler) CrearPedidoWeb(c *gin.Context) {
	var req dto.CrearPedidoWebRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.pedidoSvc.CrearWeb(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}
