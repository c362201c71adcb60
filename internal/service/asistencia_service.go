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

// HoraCorte is the punctuality cutoff. Check-ins after it without an excuse
// note get a non-blocking warning; the record is saved either way.
const HoraCorte = "08:00"

type AsistenciaService interface {
	Registrar(ctx context.Context, req dto.RegistrarAsistenciaRequest) (*dto.AsistenciaResponse, error)
	ListHoy(ctx context.Context) ([]dto.AsistenciaResponse, error)
	ResumenHoy(ctx context.Context) (*dto.ResumenAsistencia, error)
	Historial(ctx context.Context, empleadoID uuid.UUID, limit int) ([]dto.AsistenciaResponse, error)
}

type asistenciaService struct {
	repo        repository.AsistenciaRepository
	usuarioRepo repository.UsuarioRepository
	now         func() time.Time
}

func NewAsistenciaService(repo repository.AsistenciaRepository, usuarioRepo repository.UsuarioRepository) AsistenciaService {
	return &asistenciaService{repo: repo, usuarioRepo: usuarioRepo, now: time.Now}
}

// NewAsistenciaServiceConReloj fija el reloj del servicio; las pruebas lo
// usan para registrar entradas antes y después del corte.
func NewAsistenciaServiceConReloj(repo repository.AsistenciaRepository, usuarioRepo repository.UsuarioRepository, now func() time.Time) AsistenciaService {
	return &asistenciaService{repo: repo, usuarioRepo: usuarioRepo, now: now}
}

// Registrar creates today's check-in for the employee. A second attempt the
// same day is a hard error, not an update: HoraEntrada never moves.
func (s *asistenciaService) Registrar(ctx context.Context, req dto.RegistrarAsistenciaRequest) (*dto.AsistenciaResponse, error) {
	empleadoID, err := uuid.Parse(req.EmpleadoID)
	if err != nil {
		return nil, errors.New("empleado_id inválido")
	}
	empleado, err := s.usuarioRepo.FindByID(ctx, empleadoID)
	if err != nil || !empleado.Activo {
		return nil, errors.New("empleado no encontrado o inactivo")
	}

	ahora := s.now()
	a := &model.Asistencia{
		EmpleadoID:  empleadoID,
		Fecha:       medianoche(ahora),
		HoraEntrada: ahora,
		Nota:        req.Nota,
	}
	creada, err := s.repo.CreateSiNoExiste(ctx, a)
	if err != nil {
		return nil, err
	}
	if !creada {
		return nil, errors.New("el empleado ya registró asistencia hoy")
	}

	resp := asistenciaToResponse(a)
	resp.Empleado = empleado.Nombre
	if !resp.Puntual && (req.Nota == nil || *req.Nota == "") {
		resp.Advertencia = "llegada después de las " + HoraCorte + " sin nota justificativa"
	}
	return resp, nil
}

func (s *asistenciaService) ListHoy(ctx context.Context) ([]dto.AsistenciaResponse, error) {
	asistencias, err := s.repo.ListPorFecha(ctx, s.now())
	if err != nil {
		return nil, err
	}
	return asistenciasToResponses(asistencias), nil
}

func (s *asistenciaService) ResumenHoy(ctx context.Context) (*dto.ResumenAsistencia, error) {
	asistencias, err := s.repo.ListPorFecha(ctx, s.now())
	if err != nil {
		return nil, err
	}
	resumen := &dto.ResumenAsistencia{
		Fecha:     s.now().Format("2006-01-02"),
		Presentes: len(asistencias),
	}
	for i := range asistencias {
		if esPuntual(asistencias[i].HoraEntrada) {
			resumen.Puntuales++
		} else {
			resumen.Atrasos++
		}
	}
	return resumen, nil
}

func (s *asistenciaService) Historial(ctx context.Context, empleadoID uuid.UUID, limit int) ([]dto.AsistenciaResponse, error) {
	if limit < 1 {
		limit = 30
	}
	asistencias, err := s.repo.ListPorEmpleado(ctx, empleadoID, limit)
	if err != nil {
		return nil, err
	}
	return asistenciasToResponses(asistencias), nil
}

func esPuntual(entrada time.Time) bool {
	return entrada.Format("15:04") <= HoraCorte
}

func asistenciaToResponse(a *model.Asistencia) *dto.AsistenciaResponse {
	empleado := ""
	if a.Empleado != nil {
		empleado = a.Empleado.Nombre
	}
	return &dto.AsistenciaResponse{
		ID:          a.ID.String(),
		Empleado:    empleado,
		Fecha:       a.Fecha.Format("2006-01-02"),
		HoraEntrada: a.HoraEntrada.Format("15:04"),
		Puntual:     esPuntual(a.HoraEntrada),
		Nota:        a.Nota,
	}
}

func asistenciasToResponses(asistencias []model.Asistencia) []dto.AsistenciaResponse {
	out := make([]dto.AsistenciaResponse, 0, len(asistencias))
	for i := range asistencias {
		out = append(out, *asistenciaToResponse(&asistencias[i]))
	}
	return out
}
