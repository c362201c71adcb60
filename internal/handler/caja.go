package handler

import (
	"net/http"
	"strconv"
	"strings"

	"comanda/internal/apierror"
	"comanda/internal/dto"
	"comanda/internal/middleware"
	"comanda/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CajaHandler struct{ svc service.CajaService }

func NewCajaHandler(svc service.CajaService) *CajaHandler { return &CajaHandler{svc: svc} }

// Abrir godoc
// @Summary      Abrir sesión de caja
// @Description  Falla con 409 si ya hay una sesión abierta en todo el sistema.
// @Tags         caja
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.AbrirCajaRequest true "Fondo inicial"
// @Success      201  {object} dto.SesionCajaResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/caja/abrir [post]
func (h *CajaHandler) Abrir(c *gin.Context) {
	var req dto.AbrirCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Abrir(c.Request.Context(), usuarioID, req)
	if err != nil {
		if strings.Contains(err.Error(), "caja abierta") {
			c.JSON(http.StatusConflict, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Cerrar godoc
// @Summary      Cerrar la sesión de caja abierta
// @Tags         caja
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CerrarCajaRequest true "Monto final contado (opcional)"
// @Success      200  {object} dto.SesionCajaResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/caja/cerrar [post]
func (h *CajaHandler) Cerrar(c *gin.Context) {
	var req dto.CerrarCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Cerrar(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SesionActual godoc
// @Summary      Sesión de caja abierta
// @Tags         caja
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.SesionCajaResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/caja/actual [get]
func (h *CajaHandler) SesionActual(c *gin.Context) {
	resp, err := h.svc.SesionActual(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Historial godoc
// @Summary      Historial de sesiones de caja
// @Tags         caja
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Cantidad máxima (default 30)"
// @Success      200 {array} dto.SesionCajaResponse
// @Router       /v1/caja/historial [get]
func (h *CajaHandler) Historial(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))
	resp, err := h.svc.Historial(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar sesiones"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Resumen godoc
// @Summary      Resumen del día (dashboard)
// @Description  Balance de caja, desglose por método, gastos, top productos y ventas por hora. Misma fuente que el PDF y el XLSX.
// @Tags         caja
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.ResumenCaja
// @Router       /v1/caja/resumen [get]
func (h *CajaHandler) Resumen(c *gin.Context) {
	resp, err := h.svc.Resumen(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al construir el resumen"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
