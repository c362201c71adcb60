package tests

import (
	"context"
	"testing"
	"time"

	"comanda/internal/dto"
	"comanda/internal/model"
	"comanda/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildCajaSvc() (service.CajaService, *stubCajaRepo, *stubPedidoRepo, *stubVentaRepo, *stubGastoRepo) {
	productoRepo := newStubProductoRepo()
	mesaRepo := newStubMesaRepo()
	pedidoRepo := newStubPedidoRepo(productoRepo, mesaRepo)
	cajaRepo := &stubCajaRepo{}
	ventaRepo := newStubVentaRepo()
	gastoRepo := &stubGastoRepo{}

	svc := service.NewCajaService(cajaRepo, pedidoRepo, ventaRepo, gastoRepo)
	return svc, cajaRepo, pedidoRepo, ventaRepo, gastoRepo
}

func TestAbrirCaja_SoloUnaAbierta(t *testing.T) {
	svc, _, _, _, _ := buildCajaSvc()

	_, err := svc.Abrir(context.Background(), uuid.New(), dto.AbrirCajaRequest{
		MontoInicial: decimal.NewFromFloat(50),
	})
	require.NoError(t, err)

	_, err = svc.Abrir(context.Background(), uuid.New(), dto.AbrirCajaRequest{
		MontoInicial: decimal.NewFromFloat(30),
	})
	assert.ErrorContains(t, err, "caja abierta")
}

func TestAbrirCaja_TrasCerrarSePuedeAbrirOtra(t *testing.T) {
	svc, _, _, _, _ := buildCajaSvc()

	_, err := svc.Abrir(context.Background(), uuid.New(), dto.AbrirCajaRequest{
		MontoInicial: decimal.NewFromFloat(50),
	})
	require.NoError(t, err)

	cerrada, err := svc.Cerrar(context.Background(), dto.CerrarCajaRequest{})
	require.NoError(t, err)
	assert.Equal(t, model.CajaCerrada, cerrada.Estado)

	_, err = svc.Abrir(context.Background(), uuid.New(), dto.AbrirCajaRequest{
		MontoInicial: decimal.NewFromFloat(40),
	})
	assert.NoError(t, err)
}

// El balance: neta = inicial + ingresos − gastos, y el efectivo en gaveta
// solo suma ventas en Efectivo. 50 + 20 − 5 = 65.
func TestResumenCaja_Formula(t *testing.T) {
	svc, _, pedidoRepo, ventaRepo, gastoRepo := buildCajaSvc()

	_, err := svc.Abrir(context.Background(), uuid.New(), dto.AbrirCajaRequest{
		MontoInicial: decimal.NewFromFloat(50),
	})
	require.NoError(t, err)

	ahora := time.Now()

	// Dos pedidos pagados: 12 + 8 = 20 de ingresos.
	for _, total := range []float64{12, 8} {
		p := &model.Pedido{
			MesaID:    uuid.New(),
			MeseroID:  uuid.New(),
			Estado:    model.PedidoPagado,
			Total:     decimal.NewFromFloat(total),
			CreatedAt: ahora,
		}
		require.NoError(t, pedidoRepo.Create(context.Background(), nil, p))
	}

	// Ventas: 12 en efectivo, 8 por transferencia.
	require.NoError(t, ventaRepo.CreateTx(nil, &model.Venta{
		PedidoID: uuid.New(), ProductoID: uuid.New(), ProductoNombre: "Arroz con pollo",
		Cantidad: 1, Total: decimal.NewFromFloat(12),
		MetodoPago: model.MetodoEfectivo, FechaVenta: ahora,
	}))
	require.NoError(t, ventaRepo.CreateTx(nil, &model.Venta{
		PedidoID: uuid.New(), ProductoID: uuid.New(), ProductoNombre: "Sopa marinera",
		Cantidad: 1, Total: decimal.NewFromFloat(8),
		MetodoPago: model.MetodoTransferencia, FechaVenta: ahora,
	}))

	// Un gasto de 5.
	require.NoError(t, gastoRepo.Create(context.Background(), &model.Gasto{
		UsuarioID: uuid.New(), Concepto: "Gas", Monto: decimal.NewFromFloat(5),
		Categoria: model.GastoServicios, Fecha: ahora,
	}))

	resumen, err := svc.Resumen(context.Background())
	require.NoError(t, err)

	assert.True(t, resumen.CajaAbierta)
	assert.Equal(t, "50", resumen.MontoInicial.String())
	assert.Equal(t, "20", resumen.TotalIngresos.String())
	assert.Equal(t, "5", resumen.TotalGastos.String())
	assert.Equal(t, "65", resumen.UtilidadNeta.String())

	assert.Equal(t, "12", resumen.TotalEfectivo.String())
	assert.Equal(t, "8", resumen.TotalTransferencia.String())
	// En gaveta: 50 + 12 − 5 = 57 (la transferencia nunca pasa por caja).
	assert.Equal(t, "57", resumen.DineroEnCaja.String())

	assert.Len(t, resumen.Ventas, 2)
	assert.Len(t, resumen.Gastos, 1)
	assert.Len(t, resumen.TopProductos, 2)
	assert.NotEmpty(t, resumen.PorHora)
}

func TestResumenCaja_SinSesionAbierta(t *testing.T) {
	svc, _, _, ventaRepo, _ := buildCajaSvc()

	require.NoError(t, ventaRepo.CreateTx(nil, &model.Venta{
		PedidoID: uuid.New(), ProductoID: uuid.New(), ProductoNombre: "Jugo de coco",
		Cantidad: 2, Total: decimal.NewFromFloat(4),
		MetodoPago: model.MetodoEfectivo, FechaVenta: time.Now(),
	}))

	resumen, err := svc.Resumen(context.Background())
	require.NoError(t, err)
	assert.False(t, resumen.CajaAbierta)
	// Sin sesión: fondo inicial cero y alcance desde la medianoche.
	assert.True(t, resumen.MontoInicial.IsZero())
	assert.Equal(t, "4", resumen.TotalEfectivo.String())
}

func TestCerrarCaja_SinConteoUsaEfectivoTeorico(t *testing.T) {
	svc, _, _, ventaRepo, gastoRepo := buildCajaSvc()

	_, err := svc.Abrir(context.Background(), uuid.New(), dto.AbrirCajaRequest{
		MontoInicial: decimal.NewFromFloat(50),
	})
	require.NoError(t, err)

	ahora := time.Now()
	require.NoError(t, ventaRepo.CreateTx(nil, &model.Venta{
		PedidoID: uuid.New(), ProductoID: uuid.New(), ProductoNombre: "Arroz mixto",
		Cantidad: 1, Total: decimal.NewFromFloat(12),
		MetodoPago: model.MetodoEfectivo, FechaVenta: ahora,
	}))
	require.NoError(t, gastoRepo.Create(context.Background(), &model.Gasto{
		UsuarioID: uuid.New(), Concepto: "Hielo", Monto: decimal.NewFromFloat(5),
		Categoria: model.GastoOtro, Fecha: ahora,
	}))

	cerrada, err := svc.Cerrar(context.Background(), dto.CerrarCajaRequest{})
	require.NoError(t, err)
	require.NotNil(t, cerrada.MontoFinal)
	assert.Equal(t, "57", cerrada.MontoFinal.String())
	require.NotNil(t, cerrada.FechaCierre)
}

func TestCerrarCaja_ConConteoManual(t *testing.T) {
	svc, _, _, _, _ := buildCajaSvc()

	_, err := svc.Abrir(context.Background(), uuid.New(), dto.AbrirCajaRequest{
		MontoInicial: decimal.NewFromFloat(50),
	})
	require.NoError(t, err)

	contado := decimal.NewFromFloat(55.25)
	cerrada, err := svc.Cerrar(context.Background(), dto.CerrarCajaRequest{MontoFinal: &contado})
	require.NoError(t, err)
	require.NotNil(t, cerrada.MontoFinal)
	assert.Equal(t, "55.25", cerrada.MontoFinal.String())
}

func TestCerrarCaja_SinAbierta(t *testing.T) {
	svc, _, _, _, _ := buildCajaSvc()
	_, err := svc.Cerrar(context.Background(), dto.CerrarCajaRequest{})
	assert.ErrorContains(t, err, "no hay una caja abierta")
}
