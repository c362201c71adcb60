package handler

import (
	"net/http"

	"comanda/internal/apierror"
	"comanda/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type ReportesHandler struct{ svc service.ReporteService }

func NewReportesHandler(svc service.ReporteService) *ReportesHandler {
	return &ReportesHandler{svc: svc}
}

// CajaPDF godoc
// @Summary      Descargar reporte de caja en PDF
// @Tags         reportes
// @Produce      application/pdf
// @Security     BearerAuth
// @Success      200 {file} binary
// @Router       /v1/reportes/caja.pdf [get]
func (h *ReportesHandler) CajaPDF(c *gin.Context) {
	data, nombre, err := h.svc.ReporteCajaPDF(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al generar el PDF"))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+nombre+`"`)
	c.Data(http.StatusOK, contentTypePDF, data)
}

// CajaXLSX godoc
// @Summary      Descargar reporte de caja en Excel
// @Tags         reportes
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200 {file} binary
// @Router       /v1/reportes/caja.xlsx [get]
func (h *ReportesHandler) CajaXLSX(c *gin.Context) {
	data, nombre, err := h.svc.ReporteCajaXLSX(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al generar el Excel"))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+nombre+`"`)
	c.Data(http.StatusOK, contentTypeXLSX, data)
}

// TicketPDF godoc
// @Summary      Descargar ticket de un pedido en PDF
// @Tags         reportes
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path string true "UUID del pedido"
// @Success      200 {file} binary
// @Failure      404 {object} apierror.APIError
// @Router       /v1/reportes/ticket/{id} [get]
func (h *ReportesHandler) TicketPDF(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	data, nombre, err := h.svc.TicketPDF(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+nombre+`"`)
	c.Data(http.StatusOK, contentTypePDF, data)
}
