package tests

import (
	"context"
	"testing"

	"comanda/internal/dto"
	"comanda/internal/model"
	"comanda/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func buildPedidoSvc() (service.PedidoService, *stubPedidoRepo, *stubProductoRepo, *stubMesaRepo, *stubVentaRepo) {
	productoRepo := newStubProductoRepo()
	mesaRepo := newStubMesaRepo()
	pedidoRepo := newStubPedidoRepo(productoRepo, mesaRepo)
	ventaRepo := newStubVentaRepo()
	envioRepo := newStubEnvioRepo()

	usuarioRepo := newStubUsuarioRepo()
	_ = usuarioRepo.Create(context.Background(), &model.Usuario{
		Username: "admin", Nombre: "Admin", Rol: model.RolAdministrador, Activo: true,
	})

	svc := service.NewPedidoService(pedidoRepo, productoRepo, mesaRepo, ventaRepo, envioRepo, usuarioRepo, nil)
	return svc, pedidoRepo, productoRepo, mesaRepo, ventaRepo
}

func crearPedidoDePrueba(t *testing.T, svc service.PedidoService, mesa *model.Mesa, items []dto.ItemPedidoRequest) *dto.PedidoResponse {
	t.Helper()
	resp, err := svc.Crear(context.Background(), uuid.New(), dto.CrearPedidoRequest{
		MesaID: mesa.ID.String(),
		Items:  items,
	})
	require.NoError(t, err)
	return resp
}

func TestCrearPedido_CapturaPrecioYTotal(t *testing.T) {
	svc, _, productoRepo, mesaRepo, _ := buildPedidoSvc()
	mesa := seedMesa(mesaRepo, 1)
	arroz := seedProducto(productoRepo, "Arroz con pollo", model.CategoriaArroz, 13.50, 0)

	resp := crearPedidoDePrueba(t, svc, mesa, []dto.ItemPedidoRequest{
		{ProductoID: arroz.ID.String(), Cantidad: 2},
	})

	assert.Equal(t, model.PedidoPendiente, resp.Estado)
	assert.Equal(t, 1, resp.NumeroDiario)
	assert.Equal(t, "27", resp.Total.String())
	require.Len(t, resp.Detalles, 1)
	assert.Equal(t, "13.5", resp.Detalles[0].PrecioUnitario.String())
}

func TestCrearPedido_CambioDePrecioNoAlteraLineas(t *testing.T) {
	svc, pedidoRepo, productoRepo, mesaRepo, _ := buildPedidoSvc()
	mesa := seedMesa(mesaRepo, 1)
	arroz := seedProducto(productoRepo, "Arroz con camarón", model.CategoriaArroz, 13.50, 0)

	resp := crearPedidoDePrueba(t, svc, mesa, []dto.ItemPedidoRequest{
		{ProductoID: arroz.ID.String(), Cantidad: 2},
	})

	// El catálogo baja a 10.00 después de tomado el pedido.
	arroz.Precio = decimal.NewFromFloat(10.00)

	pedido, err := pedidoRepo.FindByID(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)
	assert.Equal(t, "27", pedido.Total.String())
	assert.Equal(t, "13.5", pedido.Detalles[0].PrecioUnitario.String())
}

func TestCrearPedido_NumeroDiarioCreciente(t *testing.T) {
	svc, _, productoRepo, mesaRepo, _ := buildPedidoSvc()
	mesa := seedMesa(mesaRepo, 1)
	sopa := seedProducto(productoRepo, "Sopa de bolas", model.CategoriaSopa, 4.00, 0)

	items := []dto.ItemPedidoRequest{{ProductoID: sopa.ID.String(), Cantidad: 1}}
	primero := crearPedidoDePrueba(t, svc, mesa, items)
	segundo := crearPedidoDePrueba(t, svc, mesa, items)

	assert.Equal(t, 1, primero.NumeroDiario)
	assert.Equal(t, 2, segundo.NumeroDiario)
}

func TestAgregarDetalle_RecalculaTotal(t *testing.T) {
	svc, _, productoRepo, mesaRepo, _ := buildPedidoSvc()
	mesa := seedMesa(mesaRepo, 1)
	arroz := seedProducto(productoRepo, "Arroz mixto", model.CategoriaArroz, 10.00, 0)
	jugo := seedProducto(productoRepo, "Jugo de maracuyá", model.CategoriaBebida, 2.50, 20)

	resp := crearPedidoDePrueba(t, svc, mesa, []dto.ItemPedidoRequest{
		{ProductoID: arroz.ID.String(), Cantidad: 1},
	})

	actualizado, err := svc.AgregarDetalle(context.Background(), model.RolMesero, uuid.MustParse(resp.ID), dto.AgregarDetalleRequest{
		ProductoID: jugo.ID.String(),
		Cantidad:   2,
	})
	require.NoError(t, err)
	assert.Equal(t, "15", actualizado.Total.String())
	assert.Len(t, actualizado.Detalles, 2)
}

func TestPedidoPagado_CongelaDetalles(t *testing.T) {
	svc, _, productoRepo, mesaRepo, _ := buildPedidoSvc()
	mesa := seedMesa(mesaRepo, 1)
	arroz := seedProducto(productoRepo, "Arroz marinero", model.CategoriaArroz, 12.00, 0)

	resp := crearPedidoDePrueba(t, svc, mesa, []dto.ItemPedidoRequest{
		{ProductoID: arroz.ID.String(), Cantidad: 1},
	})
	pedidoID := uuid.MustParse(resp.ID)

	_, err := svc.Cobrar(context.Background(), pedidoID, dto.CobrarRequest{MetodoPago: model.MetodoEfectivo})
	require.NoError(t, err)

	_, err = svc.AgregarDetalle(context.Background(), model.RolAdministrador, pedidoID, dto.AgregarDetalleRequest{
		ProductoID: arroz.ID.String(),
		Cantidad:   1,
	})
	assert.ErrorContains(t, err, "Pagado")

	detalleID := uuid.MustParse(resp.Detalles[0].ID)
	_, err = svc.EliminarDetalle(context.Background(), model.RolAdministrador, detalleID)
	assert.ErrorContains(t, err, "Pagado")
}

func TestPedidoPagado_ClienteSigueEditable(t *testing.T) {
	svc, pedidoRepo, productoRepo, mesaRepo, _ := buildPedidoSvc()
	mesa := seedMesa(mesaRepo, 1)
	arroz := seedProducto(productoRepo, "Arroz con menestra", model.CategoriaArroz, 9.00, 0)

	resp := crearPedidoDePrueba(t, svc, mesa, []dto.ItemPedidoRequest{
		{ProductoID: arroz.ID.String(), Cantidad: 1},
	})
	pedidoID := uuid.MustParse(resp.ID)

	_, err := svc.Cobrar(context.Background(), pedidoID, dto.CobrarRequest{MetodoPago: model.MetodoEfectivo})
	require.NoError(t, err)

	nombre := "María Pérez"
	cedula := "0912345678"
	err = svc.ActualizarCliente(context.Background(), pedidoID, dto.ActualizarClienteRequest{
		ClienteNombre: &nombre,
		ClienteCedula: &cedula,
	})
	require.NoError(t, err)

	pedido, err := pedidoRepo.FindByID(context.Background(), pedidoID)
	require.NoError(t, err)
	assert.Equal(t, "María Pérez", pedido.ClienteNombre)
	assert.Equal(t, "0912345678", pedido.ClienteCedula)
	assert.Equal(t, model.PedidoPagado, pedido.Estado)
}

func TestCambiarEstado_RechazaPagadoDirecto(t *testing.T) {
	svc, _, productoRepo, mesaRepo, _ := buildPedidoSvc()
	mesa := seedMesa(mesaRepo, 1)
	sopa := seedProducto(productoRepo, "Caldo de gallina", model.CategoriaSopa, 5.00, 0)

	resp := crearPedidoDePrueba(t, svc, mesa, []dto.ItemPedidoRequest{
		{ProductoID: sopa.ID.String(), Cantidad: 1},
	})

	err := svc.CambiarEstado(context.Background(), model.RolAdministrador, uuid.MustParse(resp.ID), model.PedidoPagado)
	assert.ErrorContains(t, err, "cobro")
}

func TestCambiarEstado_MeseroNoPuede(t *testing.T) {
	svc, _, productoRepo, mesaRepo, _ := buildPedidoSvc()
	mesa := seedMesa(mesaRepo, 1)
	sopa := seedProducto(productoRepo, "Encebollado", model.CategoriaSopa, 3.50, 0)

	resp := crearPedidoDePrueba(t, svc, mesa, []dto.ItemPedidoRequest{
		{ProductoID: sopa.ID.String(), Cantidad: 1},
	})

	err := svc.CambiarEstado(context.Background(), model.RolMesero, uuid.MustParse(resp.ID), model.PedidoEnPreparacion)
	assert.ErrorContains(t, err, "rol")
}

func TestMarcarListo_DesdePendiente(t *testing.T) {
	svc, pedidoRepo, productoRepo, mesaRepo, _ := buildPedidoSvc()
	mesa := seedMesa(mesaRepo, 1)
	arroz := seedProducto(productoRepo, "Arroz relleno", model.CategoriaArroz, 11.00, 0)

	resp := crearPedidoDePrueba(t, svc, mesa, []dto.ItemPedidoRequest{
		{ProductoID: arroz.ID.String(), Cantidad: 1},
	})
	pedidoID := uuid.MustParse(resp.ID)

	require.NoError(t, svc.MarcarListo(context.Background(), pedidoID))

	pedido, _ := pedidoRepo.FindByID(context.Background(), pedidoID)
	assert.Equal(t, model.PedidoListo, pedido.Estado)

	// Listo otra vez: Listo → Listo no es transición válida.
	assert.Error(t, svc.MarcarListo(context.Background(), pedidoID))
}

func TestCobrar_GeneraVentasInmutables(t *testing.T) {
	svc, _, productoRepo, mesaRepo, ventaRepo := buildPedidoSvc()
	mesa := seedMesa(mesaRepo, 1)
	arroz := seedProducto(productoRepo, "Arroz con concha", model.CategoriaArroz, 13.50, 0)
	jugo := seedProducto(productoRepo, "Jugo de naranja", model.CategoriaBebida, 2.00, 10)

	resp := crearPedidoDePrueba(t, svc, mesa, []dto.ItemPedidoRequest{
		{ProductoID: arroz.ID.String(), Cantidad: 2},
		{ProductoID: jugo.ID.String(), Cantidad: 1},
	})
	pedidoID := uuid.MustParse(resp.ID)

	cobrado, err := svc.Cobrar(context.Background(), pedidoID, dto.CobrarRequest{MetodoPago: model.MetodoTransferencia})
	require.NoError(t, err)
	assert.Equal(t, model.PedidoPagado, cobrado.Estado)
	assert.Equal(t, model.MetodoTransferencia, cobrado.MetodoPago)

	// Una venta por línea, con nombre denormalizado y subtotal capturado.
	require.Len(t, ventaRepo.ventas, 2)
	porNombre := make(map[string]*model.Venta)
	for _, v := range ventaRepo.ventas {
		porNombre[v.ProductoNombre] = v
	}
	require.Contains(t, porNombre, "Arroz con concha")
	assert.Equal(t, "27", porNombre["Arroz con concha"].Total.String())
	assert.Equal(t, model.MetodoTransferencia, porNombre["Arroz con concha"].MetodoPago)

	// Renombrar el producto después no toca el snapshot.
	arroz.Nombre = "Arroz especial"
	assert.Equal(t, "Arroz con concha", porNombre["Arroz con concha"].ProductoNombre)
}

func TestCobrar_RechazaDobleCobro(t *testing.T) {
	svc, _, productoRepo, mesaRepo, ventaRepo := buildPedidoSvc()
	mesa := seedMesa(mesaRepo, 1)
	sopa := seedProducto(productoRepo, "Sancocho", model.CategoriaSopa, 6.00, 0)

	resp := crearPedidoDePrueba(t, svc, mesa, []dto.ItemPedidoRequest{
		{ProductoID: sopa.ID.String(), Cantidad: 1},
	})
	pedidoID := uuid.MustParse(resp.ID)

	_, err := svc.Cobrar(context.Background(), pedidoID, dto.CobrarRequest{MetodoPago: model.MetodoEfectivo})
	require.NoError(t, err)

	_, err = svc.Cobrar(context.Background(), pedidoID, dto.CobrarRequest{MetodoPago: model.MetodoEfectivo})
	assert.ErrorContains(t, err, "ya está pagado")
	assert.Len(t, ventaRepo.ventas, 1)
}

func TestCobrar_RechazaPedidoSinPlatos(t *testing.T) {
	svc, pedidoRepo, _, mesaRepo, _ := buildPedidoSvc()
	mesa := seedMesa(mesaRepo, 1)

	vacio := &model.Pedido{MesaID: mesa.ID, MeseroID: uuid.New(), Estado: model.PedidoPendiente}
	require.NoError(t, pedidoRepo.Create(context.Background(), nil, vacio))

	_, err := svc.Cobrar(context.Background(), vacio.ID, dto.CobrarRequest{MetodoPago: model.MetodoEfectivo})
	assert.ErrorContains(t, err, "no tiene platos")
}

func TestCobrar_RechazaCancelado(t *testing.T) {
	svc, _, productoRepo, mesaRepo, _ := buildPedidoSvc()
	mesa := seedMesa(mesaRepo, 1)
	arroz := seedProducto(productoRepo, "Arroz con pescado", model.CategoriaArroz, 8.00, 0)

	resp := crearPedidoDePrueba(t, svc, mesa, []dto.ItemPedidoRequest{
		{ProductoID: arroz.ID.String(), Cantidad: 1},
	})
	pedidoID := uuid.MustParse(resp.ID)

	require.NoError(t, svc.CambiarEstado(context.Background(), model.RolAdministrador, pedidoID, model.PedidoCancelado))

	_, err := svc.Cobrar(context.Background(), pedidoID, dto.CobrarRequest{MetodoPago: model.MetodoEfectivo})
	assert.ErrorContains(t, err, "cancelado")
}

func TestCrearPedidoWeb_Defaults(t *testing.T) {
	svc, pedidoRepo, productoRepo, mesaRepo, _ := buildPedidoSvc()
	seedMesa(mesaRepo, 1)
	arroz := seedProducto(productoRepo, "Arroz con pollo web", model.CategoriaArroz, 7.50, 0)

	nota := "sin cebolla"
	resp, err := svc.CrearWeb(context.Background(), dto.CrearPedidoWebRequest{
		Items:      []dto.ItemPedidoRequest{{ProductoID: arroz.ID.String(), Cantidad: 2}},
		MetodoPago: model.MetodoTransferencia,
		Nota:       &nota,
	})
	require.NoError(t, err)

	pedido, err := pedidoRepo.FindByID(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)
	assert.Equal(t, "Cliente Web", pedido.ClienteNombre)
	assert.Equal(t, "9999999999", pedido.ClienteCedula)
	assert.Equal(t, model.MetodoTransferencia, pedido.MetodoPago)
	require.NotNil(t, pedido.Observaciones)
	assert.Equal(t, "WEB | Nota: sin cebolla", *pedido.Observaciones)
	assert.Equal(t, "15", pedido.Total.String())
}

// ── Máquina de estados ───────────────────────────────────────────────────────

func TestTransicionValida(t *testing.T) {
	casos := []struct {
		desde  string
		hacia  string
		valida bool
	}{
		{model.PedidoPendiente, model.PedidoEnPreparacion, true},
		{model.PedidoPendiente, model.PedidoListo, true},
		{model.PedidoPendiente, model.PedidoCancelado, true},
		{model.PedidoEnPreparacion, model.PedidoListo, true},
		{model.PedidoEnPreparacion, model.PedidoPendiente, false},
		{model.PedidoListo, model.PedidoEnPreparacion, false},
		{model.PedidoListo, model.PedidoPagado, true},
		{model.PedidoListo, model.PedidoCancelado, true},
		{model.PedidoPagado, model.PedidoCancelado, false},
		{model.PedidoPagado, model.PedidoPendiente, false},
		{model.PedidoCancelado, model.PedidoPendiente, false},
		{model.PedidoCancelado, model.PedidoPagado, false},
	}
	for _, c := range casos {
		assert.Equalf(t, c.valida, service.TransicionValida(c.desde, c.hacia), "%s → %s", c.desde, c.hacia)
	}
}

func TestCamposEditables(t *testing.T) {
	// Mesero con pedido activo: platos sí, mesa/estado no.
	campos := service.CamposEditables(model.RolMesero, model.PedidoPendiente)
	assert.True(t, campos[service.CampoDetalles])
	assert.False(t, campos[service.CampoMesa])
	assert.False(t, campos[service.CampoEstado])

	// Pedido Pagado: todo lo operativo bloqueado, cliente editable.
	campos = service.CamposEditables(model.RolAdministrador, model.PedidoPagado)
	assert.False(t, campos[service.CampoDetalles])
	assert.False(t, campos[service.CampoMetodoPago])
	assert.True(t, campos[service.CampoCliente])
}

// ── Carreras sobre el pedido ──────────────────────────────────────────────────

// pedidoRepoPagadoAlLeer simula un cobro concurrente que gana la carrera: la
// relectura bloqueada dentro de la tx ya encuentra el pedido Pagado.
type pedidoRepoPagadoAlLeer struct {
	*stubPedidoRepo
}

func (r *pedidoRepoPagadoAlLeer) FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Pedido, error) {
	p, err := r.stubPedidoRepo.FindForUpdateTx(tx, id)
	if err == nil {
		p.Estado = model.PedidoPagado
	}
	return p, err
}

func TestCobrar_ConcurrenteNoDuplicaVentas(t *testing.T) {
	svc, pedidoRepo, productoRepo, mesaRepo, ventaRepo := buildPedidoSvc()
	mesa := seedMesa(mesaRepo, 1)
	arroz := seedProducto(productoRepo, "Arroz marinero", model.CategoriaArroz, 9.00, 0)

	resp := crearPedidoDePrueba(t, svc, mesa, []dto.ItemPedidoRequest{
		{ProductoID: arroz.ID.String(), Cantidad: 1},
	})
	pedidoID := uuid.MustParse(resp.ID)

	perdedor := service.NewPedidoService(
		&pedidoRepoPagadoAlLeer{pedidoRepo},
		productoRepo, mesaRepo, ventaRepo, newStubEnvioRepo(), newStubUsuarioRepo(), nil)

	_, err := perdedor.Cobrar(context.Background(), pedidoID, dto.CobrarRequest{MetodoPago: model.MetodoEfectivo})
	assert.ErrorContains(t, err, "ya está pagado")
	assert.Empty(t, ventaRepo.ventas)
}

func TestAgregarDetalle_ConcurrenteConCobroSeRechaza(t *testing.T) {
	svc, pedidoRepo, productoRepo, mesaRepo, _ := buildPedidoSvc()
	mesa := seedMesa(mesaRepo, 1)
	arroz := seedProducto(productoRepo, "Arroz mixto", model.CategoriaArroz, 10.00, 0)

	resp := crearPedidoDePrueba(t, svc, mesa, []dto.ItemPedidoRequest{
		{ProductoID: arroz.ID.String(), Cantidad: 1},
	})
	pedidoID := uuid.MustParse(resp.ID)

	perdedor := service.NewPedidoService(
		&pedidoRepoPagadoAlLeer{pedidoRepo},
		productoRepo, mesaRepo, newStubVentaRepo(), newStubEnvioRepo(), newStubUsuarioRepo(), nil)

	_, err := perdedor.AgregarDetalle(context.Background(), model.RolMesero, pedidoID, dto.AgregarDetalleRequest{
		ProductoID: arroz.ID.String(),
		Cantidad:   3,
	})
	assert.ErrorContains(t, err, "Pagado")

	pedido, err := pedidoRepo.FindByID(context.Background(), pedidoID)
	require.NoError(t, err)
	require.Len(t, pedido.Detalles, 1)
	assert.Equal(t, "10", pedido.Total.String())
}

func TestCrearPedidoWeb_AsignaUsuarioActivo(t *testing.T) {
	productoRepo := newStubProductoRepo()
	mesaRepo := newStubMesaRepo()
	pedidoRepo := newStubPedidoRepo(productoRepo, mesaRepo)
	usuarioRepo := newStubUsuarioRepo()
	svc := service.NewPedidoService(pedidoRepo, productoRepo, mesaRepo,
		newStubVentaRepo(), newStubEnvioRepo(), usuarioRepo, nil)

	seedMesa(mesaRepo, 1)
	arroz := seedProducto(productoRepo, "Arroz del día", model.CategoriaArroz, 5.00, 0)
	req := dto.CrearPedidoWebRequest{
		Items:      []dto.ItemPedidoRequest{{ProductoID: arroz.ID.String(), Cantidad: 1}},
		MetodoPago: model.MetodoEfectivo,
	}

	// Sin usuarios activos no hay a quién asignar el pedido.
	_, err := svc.CrearWeb(context.Background(), req)
	assert.ErrorContains(t, err, "usuarios activos")

	mesero := &model.Usuario{Username: "mesero1", Nombre: "Mesero Uno", Rol: model.RolMesero, Activo: true}
	require.NoError(t, usuarioRepo.Create(context.Background(), mesero))

	resp, err := svc.CrearWeb(context.Background(), req)
	require.NoError(t, err)

	pedido, err := pedidoRepo.FindByID(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)
	assert.Equal(t, mesero.ID, pedido.MeseroID)
}
