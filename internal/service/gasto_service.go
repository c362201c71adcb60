package service

import (
	"context"
	"errors"
	"time"

	"comanda/internal/dto"
	"comanda/internal/model"
	"comanda/internal/repository"

	"github.com/google/uuid"
)

type GastoService interface {
	Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearGastoRequest) (*dto.GastoResponse, error)
	ListHoy(ctx context.Context) ([]dto.GastoResponse, error)
	Eliminar(ctx context.Context, rol string, id uuid.UUID) error
}

type gastoService struct {
	repo repository.GastoRepository
}

func NewGastoService(repo repository.GastoRepository) GastoService {
	return &gastoService{repo: repo}
}

func (s *gastoService) Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearGastoRequest) (*dto.GastoResponse, error) {
	categoria := req.Categoria
	if categoria == "" {
		categoria = model.GastoOtro
	}
	g := &model.Gasto{
		UsuarioID:      usuarioID,
		Concepto:       req.Concepto,
		Monto:          req.Monto,
		Categoria:      categoria,
		Fecha:          time.Now(),
		ComprobanteURL: req.ComprobanteURL,
	}
	if err := s.repo.Create(ctx, g); err != nil {
		return nil, err
	}
	return gastoToResponse(g), nil
}

func (s *gastoService) ListHoy(ctx context.Context) ([]dto.GastoResponse, error) {
	gastos, err := s.repo.ListDesde(ctx, medianoche(time.Now()))
	if err != nil {
		return nil, err
	}
	return gastosToResponses(gastos), nil
}

// Eliminar is restricted to administrators: deleting a gasto changes the
// day's net balance.
func (s *gastoService) Eliminar(ctx context.Context, rol string, id uuid.UUID) error {
	if rol != model.RolAdministrador {
		return errors.New("solo un administrador puede eliminar gastos")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return errors.New("gasto no encontrado")
	}
	return s.repo.Delete(ctx, id)
}

func gastoToResponse(g *model.Gasto) *dto.GastoResponse {
	usuario := ""
	if g.Usuario != nil {
		usuario = g.Usuario.Nombre
	}
	return &dto.GastoResponse{
		ID:             g.ID.String(),
		Usuario:        usuario,
		Concepto:       g.Concepto,
		Monto:          g.Monto,
		Categoria:      g.Categoria,
		Fecha:          g.Fecha.Format(time.RFC3339),
		ComprobanteURL: g.ComprobanteURL,
	}
}
