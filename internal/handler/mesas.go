package handler

import (
	"net/http"

	"comanda/internal/apierror"
	"comanda/internal/dto"
	"comanda/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MesasHandler struct{ svc service.MesaService }

func NewMesasHandler(svc service.MesaService) *MesasHandler { return &MesasHandler{svc: svc} }

// Crear godoc
// @Summary      Crear mesa
// @Tags         mesas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearMesaRequest true "Datos de la mesa"
// @Success      201  {object} dto.MesaResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/mesas [post]
func (h *MesasHandler) Crear(c *gin.Context) {
	var req dto.CrearMesaRequest
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

// Actualizar godoc
// @Summary      Actualizar mesa (capacidad, piso, posición en el plano)
// @Tags         mesas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID de la mesa"
// @Param        body body dto.ActualizarMesaRequest true "Campos a actualizar"
// @Success      200  {object} dto.MesaResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/mesas/{id} [put]
func (h *MesasHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarMesaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary      Eliminar mesa
// @Description  Rechazado con 409 si la mesa tiene pedidos históricos.
// @Tags         mesas
// @Security     BearerAuth
// @Param        id path string true "UUID de la mesa"
// @Success      204
// @Failure      409 {object} apierror.APIError
// @Router       /v1/mesas/{id} [delete]
func (h *MesasHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// Listar godoc
// @Summary      Listar mesas
// @Tags         mesas
// @Produce      json
// @Security     BearerAuth
// @Param        piso query string false "Filtrar por piso ('Piso 1' | 'Piso 2')"
// @Success      200 {array} dto.MesaResponse
// @Router       /v1/mesas [get]
func (h *MesasHandler) Listar(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context(), c.Query("piso"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar mesas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
