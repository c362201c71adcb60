package service

import (
	"context"
	"errors"

	"comanda/internal/dto"
	"comanda/internal/model"
	"comanda/internal/repository"

	"github.com/google/uuid"
)

type MesaService interface {
	Crear(ctx context.Context, req dto.CrearMesaRequest) (*dto.MesaResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarMesaRequest) (*dto.MesaResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, piso string) ([]dto.MesaResponse, error)
}

type mesaService struct {
	repo repository.MesaRepository
}

func NewMesaService(repo repository.MesaRepository) MesaService {
	return &mesaService{repo: repo}
}

func (s *mesaService) Crear(ctx context.Context, req dto.CrearMesaRequest) (*dto.MesaResponse, error) {
	forma := req.Forma
	if forma == "" {
		forma = model.FormaCuadrada
	}
	m := &model.Mesa{
		Numero:    req.Numero,
		Capacidad: req.Capacidad,
		Piso:      req.Piso,
		Forma:     forma,
		PosX:      req.PosX,
		PosY:      req.PosY,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, errors.New("ya existe una mesa con ese número")
	}
	return mesaToResponse(m), nil
}

func (s *mesaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarMesaRequest) (*dto.MesaResponse, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("mesa no encontrada")
	}
	if req.Capacidad != nil {
		m.Capacidad = *req.Capacidad
	}
	if req.Piso != nil {
		m.Piso = *req.Piso
	}
	if req.Forma != nil {
		m.Forma = *req.Forma
	}
	if req.PosX != nil {
		m.PosX = *req.PosX
	}
	if req.PosY != nil {
		m.PosY = *req.PosY
	}
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return mesaToResponse(m), nil
}

// Eliminar refuses to delete a table with order history; historical tickets
// keep pointing at real tables.
func (s *mesaService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return errors.New("mesa no encontrada")
	}
	tiene, err := s.repo.TienePedidos(ctx, id)
	if err != nil {
		return err
	}
	if tiene {
		return errors.New("la mesa tiene pedidos asociados y no puede eliminarse")
	}
	return s.repo.Delete(ctx, id)
}

func (s *mesaService) List(ctx context.Context, piso string) ([]dto.MesaResponse, error) {
	var (
		mesas []model.Mesa
		err   error
	)
	if piso != "" {
		mesas, err = s.repo.ListPorPiso(ctx, piso)
	} else {
		mesas, err = s.repo.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	out := make([]dto.MesaResponse, 0, len(mesas))
	for i := range mesas {
		out = append(out, *mesaToResponse(&mesas[i]))
	}
	return out, nil
}

func mesaToResponse(m *model.Mesa) *dto.MesaResponse {
	return &dto.MesaResponse{
		ID:        m.ID.String(),
		Numero:    m.Numero,
		Capacidad: m.Capacidad,
		Piso:      m.Piso,
		Forma:     m.Forma,
		PosX:      m.PosX,
		PosY:      m.PosY,
	}
}
