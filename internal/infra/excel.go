package infra

// excel.go — XLSX export of the register report using excelize.
// Rendered from the same ResumenCaja as the dashboard and the PDF, never from
// a separate query.

import (
	"fmt"

	"comanda/internal/dto"

	"github.com/xuri/excelize/v2"
)

// GenerarReporteCajaXLSX renders the register report as an XLSX workbook and
// returns its bytes, ready to stream as a download.
func GenerarReporteCajaXLSX(resumen *dto.ResumenCaja) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const hoja = "Caja"
	f.SetSheetName("Sheet1", hoja)

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("excel: style: %w", err)
	}

	set := func(cell string, value interface{}) {
		_ = f.SetCellValue(hoja, cell, value)
	}
	setBold := func(cell string, value interface{}) {
		set(cell, value)
		_ = f.SetCellStyle(hoja, cell, cell, bold)
	}

	setBold("A1", "Reporte de Caja")
	set("B1", resumen.Fecha)

	// Balance
	set("A3", "Fondo inicial")
	set("B3", resumen.MontoInicial.InexactFloat64())
	set("A4", "Ingresos (pedidos pagados)")
	set("B4", resumen.TotalIngresos.InexactFloat64())
	set("A5", "Gastos del día")
	set("B5", resumen.TotalGastos.InexactFloat64())
	setBold("A6", "Utilidad neta")
	setBold("B6", resumen.UtilidadNeta.InexactFloat64())
	set("A7", "Efectivo")
	set("B7", resumen.TotalEfectivo.InexactFloat64())
	set("A8", "Transferencia")
	set("B8", resumen.TotalTransferencia.InexactFloat64())
	setBold("A9", "Dinero en caja")
	setBold("B9", resumen.DineroEnCaja.InexactFloat64())

	// Ventas del período
	row := 11
	setBold(fmt.Sprintf("A%d", row), "Ventas")
	row++
	for i, col := range []string{"Hora", "Producto", "Cantidad", "Método", "Total"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		setBold(cell, col)
	}
	row++
	for _, v := range resumen.Ventas {
		set(fmt.Sprintf("A%d", row), v.Hora)
		set(fmt.Sprintf("B%d", row), v.Producto)
		set(fmt.Sprintf("C%d", row), v.Cantidad)
		set(fmt.Sprintf("D%d", row), v.MetodoPago)
		set(fmt.Sprintf("E%d", row), v.Total.InexactFloat64())
		row++
	}

	// Gastos
	row++
	setBold(fmt.Sprintf("A%d", row), "Gastos")
	row++
	for i, col := range []string{"Concepto", "Categoría", "Monto"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		setBold(cell, col)
	}
	row++
	for _, g := range resumen.Gastos {
		set(fmt.Sprintf("A%d", row), g.Concepto)
		set(fmt.Sprintf("B%d", row), g.Categoria)
		set(fmt.Sprintf("C%d", row), g.Monto.InexactFloat64())
		row++
	}

	// Top productos
	row++
	setBold(fmt.Sprintf("A%d", row), "Productos más vendidos")
	row++
	for i, col := range []string{"Producto", "Cantidad", "Total"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		setBold(cell, col)
	}
	row++
	for _, t := range resumen.TopProductos {
		set(fmt.Sprintf("A%d", row), t.Producto)
		set(fmt.Sprintf("B%d", row), t.CantidadTotal)
		set(fmt.Sprintf("C%d", row), t.DineroTotal.InexactFloat64())
		row++
	}

	_ = f.SetColWidth(hoja, "A", "A", 32)
	_ = f.SetColWidth(hoja, "B", "E", 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: write: %w", err)
	}
	return buf.Bytes(), nil
}
