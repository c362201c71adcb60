package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"comanda/internal/dto"
	"comanda/internal/model"
	"comanda/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReservaService interface {
	Crear(ctx context.Context, req dto.CrearReservaRequest) (*dto.ReservaResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ReservaResponse, error)
	List(ctx context.Context) ([]dto.ReservaResponse, error)
	CambiarEstado(ctx context.Context, id uuid.UUID, estado string) error
	ConvertirAPedido(ctx context.Context, id uuid.UUID, meseroID uuid.UUID) (*dto.ConversionResponse, error)
	Calendario(ctx context.Context) ([]dto.EventoCalendario, error)
}

type reservaService struct {
	repo       repository.ReservaRepository
	pedidoRepo repository.PedidoRepository
	prodRepo   repository.ProductoRepository
	mesaRepo   repository.MesaRepository
}

func NewReservaService(
	repo repository.ReservaRepository,
	pedidoRepo repository.PedidoRepository,
	prodRepo repository.ProductoRepository,
	mesaRepo repository.MesaRepository,
) ReservaService {
	return &reservaService{repo: repo, pedidoRepo: pedidoRepo, prodRepo: prodRepo, mesaRepo: mesaRepo}
}

// Crear registers a reservation, optionally with pre-ordered dishes. The
// dishes carry no price: conversion prices them with the catalog current at
// that moment. Used by both the staff endpoint and the public site.
func (s *reservaService) Crear(ctx context.Context, req dto.CrearReservaRequest) (*dto.ReservaResponse, error) {
	mesaID, err := uuid.Parse(req.MesaID)
	if err != nil {
		return nil, fmt.Errorf("mesa_id inválido: %w", err)
	}
	if _, err := s.mesaRepo.FindByID(ctx, mesaID); err != nil {
		return nil, errors.New("mesa no encontrada")
	}
	fecha, err := time.Parse("2006-01-02", req.Fecha)
	if err != nil {
		return nil, errors.New("fecha inválida, formato esperado AAAA-MM-DD")
	}

	personas := req.NumeroPersonas
	if personas < 1 {
		personas = 2
	}
	rv := &model.Reserva{
		Cliente:        req.Cliente,
		Telefono:       req.Telefono,
		Fecha:          fecha,
		Hora:           req.Hora,
		MesaID:         mesaID,
		NumeroPersonas: personas,
		Estado:         model.ReservaPendiente,
		Notas:          req.Notas,
	}
	for _, plato := range req.Platos {
		pid, err := uuid.Parse(plato.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("producto_id inválido: %w", err)
		}
		if _, err := s.prodRepo.FindByID(ctx, pid); err != nil {
			return nil, fmt.Errorf("producto %s no encontrado", plato.ProductoID)
		}
		rv.Platos = append(rv.Platos, model.ReservaPlato{
			ProductoID: pid,
			Cantidad:   plato.Cantidad,
			NotaPlato:  plato.NotaPlato,
		})
	}

	if err := s.repo.Create(ctx, rv); err != nil {
		return nil, err
	}
	completa, err := s.repo.FindByID(ctx, rv.ID)
	if err != nil {
		return reservaToResponse(rv), nil
	}
	return reservaToResponse(completa), nil
}

func (s *reservaService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ReservaResponse, error) {
	rv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("reserva no encontrada")
	}
	return reservaToResponse(rv), nil
}

func (s *reservaService) List(ctx context.Context) ([]dto.ReservaResponse, error) {
	reservas, err := s.repo.List(ctx, false)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReservaResponse, 0, len(reservas))
	for i := range reservas {
		out = append(out, *reservaToResponse(&reservas[i]))
	}
	return out, nil
}

func (s *reservaService) CambiarEstado(ctx context.Context, id uuid.UUID, estado string) error {
	rv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("reserva no encontrada")
	}
	if rv.Asistio {
		return errors.New("la reserva ya fue convertida en pedido")
	}
	rv.Estado = estado
	return s.repo.Update(ctx, nil, rv)
}

// ConvertirAPedido turns an attended reservation into a kitchen order.
// Idempotent on Asistio: a second call returns an Advertencia and creates
// nothing. Pre-ordered dishes are priced with the CURRENT catalog price,
// captured on each line inside the same transaction.
func (s *reservaService) ConvertirAPedido(ctx context.Context, id uuid.UUID, meseroID uuid.UUID) (*dto.ConversionResponse, error) {
	rv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("reserva no encontrada")
	}
	if rv.Asistio {
		return &dto.ConversionResponse{
			Advertencia: "la reserva ya fue marcada como asistida; no se creó un nuevo pedido",
		}, nil
	}
	if rv.Estado == model.ReservaCancelada {
		return nil, errors.New("no se puede convertir una reserva cancelada")
	}

	var pedido model.Pedido
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// Releer dentro de la tx: dos meseros convirtiendo a la vez solo
		// producen un pedido.
		if tx != nil {
			fresca, err := s.repo.FindByID(ctx, id)
			if err != nil {
				return err
			}
			if fresca.Asistio {
				return errReservaYaAsistida
			}
		}

		numero, err := s.pedidoRepo.NextNumeroDiario(ctx, tx)
		if err != nil {
			return err
		}
		obs := fmt.Sprintf("Reserva de %s", rv.Cliente)
		if rv.Notas != nil && *rv.Notas != "" {
			obs += " | " + *rv.Notas
		}
		pedido = model.Pedido{
			NumeroDiario:  numero,
			MesaID:        rv.MesaID,
			MeseroID:      meseroID,
			Estado:        model.PedidoPendiente,
			Observaciones: &obs,
			ClienteNombre: rv.Cliente,
		}
		if err := s.pedidoRepo.Create(ctx, tx, &pedido); err != nil {
			return err
		}

		for _, plato := range rv.Platos {
			producto, err := s.prodRepo.FindByIDTx(tx, plato.ProductoID)
			if err != nil {
				return fmt.Errorf("producto de la reserva no encontrado: %w", err)
			}
			detalle := &model.DetallePedido{
				PedidoID:       pedido.ID,
				ProductoID:     producto.ID,
				Cantidad:       plato.Cantidad,
				PrecioUnitario: producto.Precio,
				Nota:           plato.NotaPlato,
			}
			if err := s.pedidoRepo.CreateDetalleTx(tx, detalle); err != nil {
				return err
			}
		}
		if _, err := s.pedidoRepo.RecomputarTotalTx(tx, pedido.ID); err != nil {
			return err
		}

		rv.Asistio = true
		rv.Estado = model.ReservaFinalizada
		return s.repo.Update(ctx, tx, rv)
	})
	if txErr != nil {
		if errors.Is(txErr, errReservaYaAsistida) {
			return &dto.ConversionResponse{
				Advertencia: "la reserva ya fue marcada como asistida; no se creó un nuevo pedido",
			}, nil
		}
		return nil, txErr
	}

	return &dto.ConversionResponse{
		PedidoID:     pedido.ID.String(),
		NumeroDiario: pedido.NumeroDiario,
	}, nil
}

var errReservaYaAsistida = errors.New("reserva ya asistida")

// Calendario flattens upcoming reservations into calendar events.
func (s *reservaService) Calendario(ctx context.Context) ([]dto.EventoCalendario, error) {
	reservas, err := s.repo.List(ctx, true)
	if err != nil {
		return nil, err
	}
	eventos := make([]dto.EventoCalendario, 0, len(reservas))
	for i := range reservas {
		rv := &reservas[i]
		mesa := ""
		if rv.Mesa != nil {
			mesa = fmt.Sprintf("Mesa %d · %s", rv.Mesa.Numero, rv.Mesa.Piso)
		}
		eventos = append(eventos, dto.EventoCalendario{
			ReservaID: rv.ID.String(),
			Title:     fmt.Sprintf("%s (%d pers.)", rv.Cliente, rv.NumeroPersonas),
			Start:     rv.Fecha.Format("2006-01-02") + "T" + rv.Hora + ":00",
			Estado:    rv.Estado,
			Mesa:      mesa,
			Personas:  rv.NumeroPersonas,
			Platos:    platosToResponses(rv.Platos),
		})
	}
	return eventos, nil
}

func platosToResponses(platos []model.ReservaPlato) []dto.PlatoPreordenadoResponse {
	out := make([]dto.PlatoPreordenadoResponse, 0, len(platos))
	for i := range platos {
		p := &platos[i]
		nombre := ""
		if p.Producto != nil {
			nombre = p.Producto.Nombre
		}
		out = append(out, dto.PlatoPreordenadoResponse{
			Producto:  nombre,
			Cantidad:  p.Cantidad,
			NotaPlato: p.NotaPlato,
		})
	}
	return out
}

func reservaToResponse(rv *model.Reserva) *dto.ReservaResponse {
	mesa, piso := 0, ""
	if rv.Mesa != nil {
		mesa = rv.Mesa.Numero
		piso = rv.Mesa.Piso
	}
	return &dto.ReservaResponse{
		ID:             rv.ID.String(),
		Cliente:        rv.Cliente,
		Telefono:       rv.Telefono,
		Fecha:          rv.Fecha.Format("2006-01-02"),
		Hora:           rv.Hora,
		Mesa:           mesa,
		Piso:           piso,
		NumeroPersonas: rv.NumeroPersonas,
		Estado:         rv.Estado,
		Asistio:        rv.Asistio,
		Notas:          rv.Notas,
		Platos:         platosToResponses(rv.Platos),
	}
}
