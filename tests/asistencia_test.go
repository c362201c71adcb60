package tests

import (
	"context"
	"testing"
	"time"

	"comanda/internal/dto"
	"comanda/internal/model"
	"comanda/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildAsistenciaSvc() (service.AsistenciaService, *stubAsistenciaRepo, *stubUsuarioRepo) {
	asistenciaRepo := newStubAsistenciaRepo()
	usuarioRepo := newStubUsuarioRepo()
	svc := service.NewAsistenciaService(asistenciaRepo, usuarioRepo)
	return svc, asistenciaRepo, usuarioRepo
}

func seedEmpleado(repo *stubUsuarioRepo, nombre string, activo bool) *model.Usuario {
	u := &model.Usuario{
		ID:       uuid.New(),
		Username: nombre,
		Nombre:   nombre,
		Rol:      model.RolMesero,
		Activo:   activo,
	}
	repo.usuarios[u.ID] = u
	return u
}

func TestRegistrarAsistencia_UnaPorDia(t *testing.T) {
	svc, _, usuarioRepo := buildAsistenciaSvc()
	empleado := seedEmpleado(usuarioRepo, "jose", true)

	resp, err := svc.Registrar(context.Background(), dto.RegistrarAsistenciaRequest{
		EmpleadoID: empleado.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, "jose", resp.Empleado)
	assert.Equal(t, time.Now().Format("2006-01-02"), resp.Fecha)

	// Segundo intento el mismo día: error duro, la hora de entrada no se mueve.
	_, err = svc.Registrar(context.Background(), dto.RegistrarAsistenciaRequest{
		EmpleadoID: empleado.ID.String(),
	})
	assert.ErrorContains(t, err, "ya registró asistencia hoy")
}

func TestRegistrarAsistencia_EmpleadoInactivo(t *testing.T) {
	svc, _, usuarioRepo := buildAsistenciaSvc()
	empleado := seedEmpleado(usuarioRepo, "expleado", false)

	_, err := svc.Registrar(context.Background(), dto.RegistrarAsistenciaRequest{
		EmpleadoID: empleado.ID.String(),
	})
	assert.ErrorContains(t, err, "inactivo")
}

func TestResumenAsistencia_CuentaPuntualesYAtrasos(t *testing.T) {
	svc, asistenciaRepo, usuarioRepo := buildAsistenciaSvc()
	puntual := seedEmpleado(usuarioRepo, "puntual", true)
	tarde := seedEmpleado(usuarioRepo, "tarde", true)

	hoy := time.Now()
	dia := time.Date(hoy.Year(), hoy.Month(), hoy.Day(), 0, 0, 0, 0, hoy.Location())

	// Entrada 07:30 — antes del corte de las 08:00.
	_, err := asistenciaRepo.CreateSiNoExiste(context.Background(), &model.Asistencia{
		EmpleadoID:  puntual.ID,
		Fecha:       dia,
		HoraEntrada: dia.Add(7*time.Hour + 30*time.Minute),
	})
	require.NoError(t, err)

	// Entrada 09:15 — atraso.
	_, err = asistenciaRepo.CreateSiNoExiste(context.Background(), &model.Asistencia{
		EmpleadoID:  tarde.ID,
		Fecha:       dia,
		HoraEntrada: dia.Add(9*time.Hour + 15*time.Minute),
	})
	require.NoError(t, err)

	resumen, err := svc.ResumenHoy(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, resumen.Presentes)
	assert.Equal(t, 1, resumen.Puntuales)
	assert.Equal(t, 1, resumen.Atrasos)
}

func TestHistorialAsistencia_PorEmpleado(t *testing.T) {
	svc, asistenciaRepo, usuarioRepo := buildAsistenciaSvc()
	empleado := seedEmpleado(usuarioRepo, "maria", true)
	otro := seedEmpleado(usuarioRepo, "pedro", true)

	hoy := time.Now()
	for i := 0; i < 3; i++ {
		dia := hoy.AddDate(0, 0, -i)
		fecha := time.Date(dia.Year(), dia.Month(), dia.Day(), 0, 0, 0, 0, dia.Location())
		_, err := asistenciaRepo.CreateSiNoExiste(context.Background(), &model.Asistencia{
			EmpleadoID:  empleado.ID,
			Fecha:       fecha,
			HoraEntrada: fecha.Add(7 * time.Hour),
		})
		require.NoError(t, err)
	}
	_, err := asistenciaRepo.CreateSiNoExiste(context.Background(), &model.Asistencia{
		EmpleadoID:  otro.ID,
		Fecha:       time.Date(hoy.Year(), hoy.Month(), hoy.Day(), 0, 0, 0, 0, hoy.Location()),
		HoraEntrada: hoy,
	})
	require.NoError(t, err)

	historial, err := svc.Historial(context.Background(), empleado.ID, 30)
	require.NoError(t, err)
	assert.Len(t, historial, 3)
}

func buildAsistenciaSvcConReloj(now func() time.Time) (service.AsistenciaService, *stubUsuarioRepo) {
	asistenciaRepo := newStubAsistenciaRepo()
	usuarioRepo := newStubUsuarioRepo()
	svc := service.NewAsistenciaServiceConReloj(asistenciaRepo, usuarioRepo, now)
	return svc, usuarioRepo
}

func TestRegistrarAsistencia_AtrasoSinNotaAdvierte(t *testing.T) {
	hoy := time.Now()
	tarde := time.Date(hoy.Year(), hoy.Month(), hoy.Day(), 9, 15, 0, 0, hoy.Location())
	svc, usuarioRepo := buildAsistenciaSvcConReloj(func() time.Time { return tarde })
	empleado := seedEmpleado(usuarioRepo, "dormilon", true)

	resp, err := svc.Registrar(context.Background(), dto.RegistrarAsistenciaRequest{
		EmpleadoID: empleado.ID.String(),
	})
	require.NoError(t, err)

	// El registro se guarda igual; la advertencia no bloquea.
	assert.False(t, resp.Puntual)
	assert.Contains(t, resp.Advertencia, "08:00")
}

func TestRegistrarAsistencia_AtrasoConNotaNoAdvierte(t *testing.T) {
	hoy := time.Now()
	tarde := time.Date(hoy.Year(), hoy.Month(), hoy.Day(), 10, 0, 0, 0, hoy.Location())
	svc, usuarioRepo := buildAsistenciaSvcConReloj(func() time.Time { return tarde })
	empleado := seedEmpleado(usuarioRepo, "justificado", true)

	nota := "cita médica"
	resp, err := svc.Registrar(context.Background(), dto.RegistrarAsistenciaRequest{
		EmpleadoID: empleado.ID.String(),
		Nota:       &nota,
	})
	require.NoError(t, err)
	assert.False(t, resp.Puntual)
	assert.Empty(t, resp.Advertencia)
}

func TestRegistrarAsistencia_TempranoSinAdvertencia(t *testing.T) {
	hoy := time.Now()
	temprano := time.Date(hoy.Year(), hoy.Month(), hoy.Day(), 7, 30, 0, 0, hoy.Location())
	svc, usuarioRepo := buildAsistenciaSvcConReloj(func() time.Time { return temprano })
	empleado := seedEmpleado(usuarioRepo, "madrugador", true)

	resp, err := svc.Registrar(context.Background(), dto.RegistrarAsistenciaRequest{
		EmpleadoID: empleado.ID.String(),
	})
	require.NoError(t, err)
	assert.True(t, resp.Puntual)
	assert.Empty(t, resp.Advertencia)
}
