package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"comanda/internal/dto"
	"comanda/internal/model"
	"comanda/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CajaService interface {
	Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirCajaRequest) (*dto.SesionCajaResponse, error)
	Cerrar(ctx context.Context, req dto.CerrarCajaRequest) (*dto.SesionCajaResponse, error)
	SesionActual(ctx context.Context) (*dto.SesionCajaResponse, error)
	Historial(ctx context.Context, limit int) ([]dto.SesionCajaResponse, error)
	Resumen(ctx context.Context) (*dto.ResumenCaja, error)
}

type cajaService struct {
	repo       repository.CajaRepository
	pedidoRepo repository.PedidoRepository
	ventaRepo  repository.VentaRepository
	gastoRepo  repository.GastoRepository
}

func NewCajaService(
	repo repository.CajaRepository,
	pedidoRepo repository.PedidoRepository,
	ventaRepo repository.VentaRepository,
	gastoRepo repository.GastoRepository,
) CajaService {
	return &cajaService{repo: repo, pedidoRepo: pedidoRepo, ventaRepo: ventaRepo, gastoRepo: gastoRepo}
}

// Abrir opens the register session. The repository enforces the single-open
// invariant; we surface it as a domain error the handler maps to 409.
func (s *cajaService) Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirCajaRequest) (*dto.SesionCajaResponse, error) {
	sesion := &model.SesionCaja{
		UsuarioID:     usuarioID,
		FechaApertura: time.Now(),
		MontoInicial:  req.MontoInicial,
		Estado:        model.CajaAbierta,
	}
	if err := s.repo.CreateSesion(ctx, sesion); err != nil {
		if errors.Is(err, repository.ErrCajaYaAbierta) {
			return nil, errors.New("ya existe una caja abierta; ciérrela antes de abrir otra")
		}
		return nil, err
	}
	return sesionToResponse(sesion), nil
}

func (s *cajaService) Cerrar(ctx context.Context, req dto.CerrarCajaRequest) (*dto.SesionCajaResponse, error) {
	sesion, err := s.repo.FindSesionAbierta(ctx)
	if err != nil {
		return nil, errors.New("no hay una caja abierta")
	}
	ahora := time.Now()
	sesion.FechaCierre = &ahora
	sesion.Estado = model.CajaCerrada
	if req.MontoFinal != nil {
		sesion.MontoFinal = req.MontoFinal
	} else {
		// Sin conteo manual: se cierra con el efectivo teórico en gaveta.
		resumen, err := s.resumenDesde(ctx, sesion.FechaApertura, sesion.MontoInicial, true)
		if err != nil {
			return nil, err
		}
		sesion.MontoFinal = &resumen.DineroEnCaja
	}
	if err := s.repo.UpdateSesion(ctx, sesion); err != nil {
		return nil, err
	}
	return sesionToResponse(sesion), nil
}

func (s *cajaService) SesionActual(ctx context.Context) (*dto.SesionCajaResponse, error) {
	sesion, err := s.repo.FindSesionAbierta(ctx)
	if err != nil {
		return nil, errors.New("no hay una caja abierta")
	}
	return sesionToResponse(sesion), nil
}

func (s *cajaService) Historial(ctx context.Context, limit int) ([]dto.SesionCajaResponse, error) {
	if limit < 1 {
		limit = 30
	}
	sesiones, err := s.repo.ListSesiones(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SesionCajaResponse, 0, len(sesiones))
	for i := range sesiones {
		out = append(out, *sesionToResponse(&sesiones[i]))
	}
	return out, nil
}

// Resumen builds the register balance every surface renders: the JSON
// dashboard, the printable PDF and the XLSX export all consume this result.
// Scope: from the open session's apertura when one exists, otherwise from
// today's midnight, with monto_inicial cero.
func (s *cajaService) Resumen(ctx context.Context) (*dto.ResumenCaja, error) {
	desde := medianoche(time.Now())
	montoInicial := decimal.Zero
	abierta := false
	if sesion, err := s.repo.FindSesionAbierta(ctx); err == nil {
		desde = sesion.FechaApertura
		montoInicial = sesion.MontoInicial
		abierta = true
	}
	return s.resumenDesde(ctx, desde, montoInicial, abierta)
}

func (s *cajaService) resumenDesde(ctx context.Context, desde time.Time, montoInicial decimal.Decimal, abierta bool) (*dto.ResumenCaja, error) {
	ingresos, err := s.pedidoRepo.SumTotalPagados(ctx, desde)
	if err != nil {
		return nil, err
	}
	// Gastos siempre del día calendario, no de la sesión: un gasto anotado
	// antes de abrir caja igual descuenta el balance de hoy.
	gastosDesde := medianoche(time.Now())
	totalGastos, err := s.gastoRepo.SumDesde(ctx, gastosDesde)
	if err != nil {
		return nil, err
	}

	porMetodo, err := s.ventaRepo.SumPorMetodo(ctx, desde)
	if err != nil {
		return nil, err
	}
	efectivo := porMetodo[model.MetodoEfectivo]
	transferencia := porMetodo[model.MetodoTransferencia]

	ventas, err := s.ventaRepo.ListDesde(ctx, desde)
	if err != nil {
		return nil, err
	}
	gastos, err := s.gastoRepo.ListDesde(ctx, gastosDesde)
	if err != nil {
		return nil, err
	}
	top, err := s.ventaRepo.TopProductos(ctx, desde, 10)
	if err != nil {
		return nil, err
	}

	resumen := &dto.ResumenCaja{
		Fecha:         time.Now().Format("2006-01-02"),
		CajaAbierta:   abierta,
		MontoInicial:  montoInicial,
		TotalIngresos: ingresos,
		TotalGastos:   totalGastos,
		UtilidadNeta:  montoInicial.Add(ingresos).Sub(totalGastos),

		TotalEfectivo:      efectivo,
		TotalTransferencia: transferencia,
		DineroEnCaja:       montoInicial.Add(efectivo).Sub(totalGastos),

		Ventas:       ventasToRows(ventas),
		Gastos:       gastosToResponses(gastos),
		TopProductos: topToRows(top),
		PorHora:      bucketsPorHora(ventas),
	}
	return resumen, nil
}

func medianoche(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func ventasToRows(ventas []model.Venta) []dto.VentaRow {
	out := make([]dto.VentaRow, 0, len(ventas))
	for i := range ventas {
		v := &ventas[i]
		out = append(out, dto.VentaRow{
			Producto:   v.ProductoNombre,
			Cantidad:   v.Cantidad,
			Total:      v.Total,
			MetodoPago: v.MetodoPago,
			Hora:       v.FechaVenta.Format("15:04"),
		})
	}
	return out
}

func gastosToResponses(gastos []model.Gasto) []dto.GastoResponse {
	out := make([]dto.GastoResponse, 0, len(gastos))
	for i := range gastos {
		out = append(out, *gastoToResponse(&gastos[i]))
	}
	return out
}

func topToRows(top []repository.ProductoVendido) []dto.TopProductoRow {
	out := make([]dto.TopProductoRow, 0, len(top))
	for _, t := range top {
		out = append(out, dto.TopProductoRow{
			Producto:      t.ProductoNombre,
			CantidadTotal: t.CantidadTotal,
			DineroTotal:   t.DineroTotal,
		})
	}
	return out
}

func bucketsPorHora(ventas []model.Venta) []dto.BucketHora {
	sumas := make(map[string]decimal.Decimal)
	for i := range ventas {
		hora := ventas[i].FechaVenta.Format("15:00")
		sumas[hora] = sumas[hora].Add(ventas[i].Total)
	}
	horas := make([]string, 0, len(sumas))
	for h := range sumas {
		horas = append(horas, h)
	}
	sort.Strings(horas)
	out := make([]dto.BucketHora, 0, len(horas))
	for _, h := range horas {
		out = append(out, dto.BucketHora{Hora: h, Total: sumas[h]})
	}
	return out
}

func sesionToResponse(s *model.SesionCaja) *dto.SesionCajaResponse {
	usuario := ""
	if s.Usuario != nil {
		usuario = s.Usuario.Nombre
	}
	resp := &dto.SesionCajaResponse{
		ID:            s.ID.String(),
		Usuario:       usuario,
		FechaApertura: s.FechaApertura.Format(time.RFC3339),
		MontoInicial:  s.MontoInicial,
		MontoFinal:    s.MontoFinal,
		Estado:        s.Estado,
	}
	if s.FechaCierre != nil {
		cierre := s.FechaCierre.Format(time.RFC3339)
		resp.FechaCierre = &cierre
	}
	return resp
}
