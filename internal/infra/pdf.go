package infra

// pdf.go — PDF generation using go-pdf/fpdf.
// Two documents:
//   - Thermal receipt-style ticket per pedido (A7-ish size), attached to the
//     customer email and printable at the register.
//   - A4 register report rendered from the same ResumenCaja the dashboard
//     serves, so printed numbers always match the screen.

import (
	"fmt"
	"os"
	"path/filepath"

	"comanda/internal/dto"
	"comanda/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerarTicketPDF writes the thermal ticket for a pedido to
// storagePath/ticket_{numero}.pdf and returns the absolute path.
func GenerarTicketPDF(pedido *model.Pedido, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("ticket_%d.pdf", pedido.NumeroDiario)
	filePath := filepath.Join(storagePath, fileName)

	// A7 ≈ 74mm × 105mm — close to thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, "Comanda", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Ticket de consumo", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Pedido N° %d", pedido.NumeroDiario), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, pedido.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	if pedido.Mesa != nil {
		pdf.CellFormat(contentW, 4, fmt.Sprintf("Mesa %d · %s", pedido.Mesa.Numero, pedido.Mesa.Piso), "", 1, "L", false, 0, "")
	}
	if pedido.ClienteNombre != "" {
		pdf.CellFormat(contentW, 4, "Cliente: "+pedido.ClienteNombre, "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	col1 := contentW * 0.52
	col2 := contentW * 0.16
	col3 := contentW * 0.32

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for i := range pedido.Detalles {
		d := &pedido.Detalles[i]
		nombre := ""
		if d.Producto != nil {
			nombre = d.Producto.Nombre
		}
		if len(nombre) > 22 {
			nombre = nombre[:21] + "…"
		}
		pdf.CellFormat(col1, 5, nombre, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", d.Cantidad), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "$"+d.Subtotal().StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "$"+pedido.Total.StringFixed(2), "", 1, "R", false, 0, "")

	if pedido.MetodoPago != "" && pedido.MetodoPago != model.MetodoPendiente {
		pdf.Ln(1)
		pdf.SetFont("Helvetica", "", 7)
		pdf.CellFormat(contentW, 4, "Pago: "+pedido.MetodoPago, "", 1, "L", false, 0, "")
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "¡Gracias por su visita!", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

// GenerarReporteCajaPDF writes the printable register report to
// storagePath/caja_{fecha}.pdf and returns the absolute path.
func GenerarReporteCajaPDF(resumen *dto.ResumenCaja, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("caja_%s.pdf", resumen.Fecha))

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "Reporte de Caja", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, resumen.Fecha, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Balance — misma fórmula que el dashboard: inicial + ingresos − gastos
	fila := func(label, valor string, bold bool) {
		estilo := ""
		if bold {
			estilo = "B"
		}
		pdf.SetFont("Helvetica", estilo, 10)
		pdf.CellFormat(contentW*0.6, 7, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.4, 7, valor, "", 1, "R", false, 0, "")
	}
	fila("Fondo inicial", "$"+resumen.MontoInicial.StringFixed(2), false)
	fila("Ingresos (pedidos pagados)", "$"+resumen.TotalIngresos.StringFixed(2), false)
	fila("Gastos del día", "-$"+resumen.TotalGastos.StringFixed(2), false)
	fila("Utilidad neta", "$"+resumen.UtilidadNeta.StringFixed(2), true)
	pdf.Ln(2)
	fila("Efectivo", "$"+resumen.TotalEfectivo.StringFixed(2), false)
	fila("Transferencia", "$"+resumen.TotalTransferencia.StringFixed(2), false)
	fila("Dinero en caja (gaveta)", "$"+resumen.DineroEnCaja.StringFixed(2), true)
	pdf.Ln(6)

	if len(resumen.TopProductos) > 0 {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(contentW, 7, "Productos más vendidos", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(contentW*0.6, 6, "Producto", "B", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.15, 6, "Cant", "B", 0, "C", false, 0, "")
		pdf.CellFormat(contentW*0.25, 6, "Total", "B", 1, "R", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		for _, t := range resumen.TopProductos {
			pdf.CellFormat(contentW*0.6, 6, t.Producto, "", 0, "L", false, 0, "")
			pdf.CellFormat(contentW*0.15, 6, fmt.Sprintf("%d", t.CantidadTotal), "", 0, "C", false, 0, "")
			pdf.CellFormat(contentW*0.25, 6, "$"+t.DineroTotal.StringFixed(2), "", 1, "R", false, 0, "")
		}
		pdf.Ln(4)
	}

	if len(resumen.Gastos) > 0 {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(contentW, 7, "Gastos", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(contentW*0.5, 6, "Concepto", "B", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.25, 6, "Categoría", "B", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.25, 6, "Monto", "B", 1, "R", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		for _, g := range resumen.Gastos {
			pdf.CellFormat(contentW*0.5, 6, g.Concepto, "", 0, "L", false, 0, "")
			pdf.CellFormat(contentW*0.25, 6, g.Categoria, "", 0, "L", false, 0, "")
			pdf.CellFormat(contentW*0.25, 6, "$"+g.Monto.StringFixed(2), "", 1, "R", false, 0, "")
		}
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
