package handler

import (
	"net/http"

	"comanda/internal/apierror"
	"comanda/internal/dto"
	"comanda/internal/middleware"
	"comanda/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReservasHandler struct{ svc service.ReservaService }

func NewReservasHandler(svc service.ReservaService) *ReservasHandler {
	return &ReservasHandler{svc: svc}
}

// Crear godoc
// @Summary      Crear reserva
// @Description  Opcionalmente con platos preordenados. Los platos no llevan precio: se captura al convertir.
// @Tags         reservas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearReservaRequest true "Datos de la reserva"
// @Success      201  {object} dto.ReservaResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/reservas [post]
func (h *ReservasHandler) Crear(c *gin.Context) {
	var req dto.CrearReservaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Obtener godoc
// @Summary      Obtener reserva por ID
// @Tags         reservas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la reserva"
// @Success      200 {object} dto.ReservaResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/reservas/{id} [get]
func (h *ReservasHandler) Obtener(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar godoc
// @Summary      Listar reservas no canceladas
// @Tags         reservas
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.ReservaResponse
// @Router       /v1/reservas [get]
func (h *ReservasHandler) Listar(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar reservas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CambiarEstado godoc
// @Summary      Confirmar o cancelar reserva
// @Tags         reservas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID de la reserva"
// @Param        body body dto.CambiarEstadoReservaRequest true "Nuevo estado"
// @Success      204
// @Failure      400 {object} apierror.APIError
// @Router       /v1/reservas/{id}/estado [put]
func (h *ReservasHandler) CambiarEstado(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.CambiarEstadoReservaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.CambiarEstado(c.Request.Context(), id, req.Estado); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// Convertir godoc
// @Summary      Convertir reserva en pedido
// @Description  Idempotente: si la reserva ya fue asistida responde 200 con advertencia y no crea nada.
// @Tags         reservas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la reserva"
// @Success      201 {object} dto.ConversionResponse
// @Success      200 {object} dto.ConversionResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/reservas/{id}/convertir [post]
func (h *ReservasHandler) Convertir(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	claims := middleware.GetClaims(c)
	meseroID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.ConvertirAPedido(c.Request.Context(), id, meseroID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	if resp.Advertencia != "" {
		c.JSON(http.StatusOK, resp)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Calendario godoc
// @Summary      Vista calendario de reservas
// @Tags         reservas
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.EventoCalendario
// @Router       /v1/reservas/calendario [get]
func (h *ReservasHandler) Calendario(c *gin.Context) {
	resp, err := h.svc.Calendario(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al construir el calendario"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
