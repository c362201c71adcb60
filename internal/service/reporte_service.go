package service

import (
	"context"
	"errors"
	"fmt"
	"os"

	"comanda/internal/infra"
	"comanda/internal/repository"

	"github.com/google/uuid"
)

// ReporteService renders the register report and per-order tickets as
// downloadable documents. All three surfaces (JSON, PDF, XLSX) come from the
// same CajaService.Resumen result.
type ReporteService interface {
	ReporteCajaPDF(ctx context.Context) ([]byte, string, error)
	ReporteCajaXLSX(ctx context.Context) ([]byte, string, error)
	TicketPDF(ctx context.Context, pedidoID uuid.UUID) ([]byte, string, error)
}

type reporteService struct {
	cajaService CajaService
	pedidoRepo  repository.PedidoRepository
	storagePath string
}

func NewReporteService(cajaService CajaService, pedidoRepo repository.PedidoRepository, storagePath string) ReporteService {
	return &reporteService{cajaService: cajaService, pedidoRepo: pedidoRepo, storagePath: storagePath}
}

func (s *reporteService) ReporteCajaPDF(ctx context.Context) ([]byte, string, error) {
	resumen, err := s.cajaService.Resumen(ctx)
	if err != nil {
		return nil, "", err
	}
	path, err := infra.GenerarReporteCajaPDF(resumen, s.storagePath)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	return data, fmt.Sprintf("caja_%s.pdf", resumen.Fecha), nil
}

func (s *reporteService) ReporteCajaXLSX(ctx context.Context) ([]byte, string, error) {
	resumen, err := s.cajaService.Resumen(ctx)
	if err != nil {
		return nil, "", err
	}
	data, err := infra.GenerarReporteCajaXLSX(resumen)
	if err != nil {
		return nil, "", err
	}
	return data, fmt.Sprintf("caja_%s.xlsx", resumen.Fecha), nil
}

func (s *reporteService) TicketPDF(ctx context.Context, pedidoID uuid.UUID) ([]byte, string, error) {
	pedido, err := s.pedidoRepo.FindByID(ctx, pedidoID)
	if err != nil {
		return nil, "", errors.New("pedido no encontrado")
	}
	path, err := infra.GenerarTicketPDF(pedido, s.storagePath)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	return data, fmt.Sprintf("ticket_%d.pdf", pedido.NumeroDiario), nil
}
