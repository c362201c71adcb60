package handler

import (
	"net/http"
	"strconv"

	"comanda/internal/apierror"
	"comanda/internal/dto"
	"comanda/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AsistenciasHandler struct{ svc service.AsistenciaService }

func NewAsistenciasHandler(svc service.AsistenciaService) *AsistenciasHandler {
	return &AsistenciasHandler{svc: svc}
}

// Registrar godoc
// @Summary      Registrar asistencia del día
// @Description  Un registro por empleado por día; el segundo intento es error. Llegadas tarde sin nota llevan advertencia no bloqueante.
// @Tags         asistencias
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegistrarAsistenciaRequest true "Empleado y nota opcional"
// @Success      201  {object} dto.AsistenciaResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/asistencias [post]
func (h *AsistenciasHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarAsistenciaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Registrar(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListarHoy godoc
// @Summary      Asistencias del día
// @Tags         asistencias
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.AsistenciaResponse
// @Router       /v1/asistencias [get]
func (h *AsistenciasHandler) ListarHoy(c *gin.Context) {
	resp, err := h.svc.ListHoy(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar asistencias"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ResumenHoy godoc
// @Summary      Conteo de presentes/puntuales/atrasos del día
// @Tags         asistencias
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.ResumenAsistencia
// @Router       /v1/asistencias/resumen [get]
func (h *AsistenciasHandler) ResumenHoy(c *gin.Context) {
	resp, err := h.svc.ResumenHoy(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al construir el resumen"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Historial godoc
// @Summary      Historial de asistencia de un empleado
// @Tags         asistencias
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string true  "UUID del empleado"
// @Param        limit query int    false "Cantidad máxima (default 30)"
// @Success      200 {array} dto.AsistenciaResponse
// @Router       /v1/asistencias/empleado/{id} [get]
func (h *AsistenciasHandler) Historial(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))
	resp, err := h.svc.Historial(c.Request.Context(), id, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar asistencias"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
