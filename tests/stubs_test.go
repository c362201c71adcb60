package tests

import (
	"context"
	"errors"
	"time"

	"comanda/internal/dto"
	"comanda/internal/model"
	"comanda/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────
// In-memory repositories shared by the service tests. All DB() methods return
// nil so services run their transactional closures with tx == nil.

// stubProductoRepo is an in-memory ProductoRepository.
type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (r *stubProductoRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubProductoRepo) FindByNombre(_ context.Context, nombre string) (*model.Producto, error) {
	for _, p := range r.productos {
		if p.Nombre == nombre {
			return p, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubProductoRepo) List(_ context.Context, categoria string) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if categoria == "" || p.Categoria == categoria {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) UpdateStock(_ context.Context, id uuid.UUID, stock int) error {
	p, ok := r.productos[id]
	if !ok {
		return errors.New("not found")
	}
	p.Stock = stock
	return nil
}

func (r *stubProductoRepo) StockBajo(_ context.Context, categorias []string, umbral int) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range r.productos {
		for _, c := range categorias {
			if p.Categoria == c && p.Stock < umbral {
				out = append(out, *p)
			}
		}
	}
	return out, nil
}

func (r *stubProductoRepo) CountPorCategoria(_ context.Context) (map[string]int64, error) {
	conteos := make(map[string]int64)
	for _, p := range r.productos {
		conteos[p.Categoria]++
	}
	return conteos, nil
}

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// stubMesaRepo is an in-memory MesaRepository.
type stubMesaRepo struct {
	mesas      []*model.Mesa
	conPedidos map[uuid.UUID]bool
}

func newStubMesaRepo() *stubMesaRepo {
	return &stubMesaRepo{conPedidos: make(map[uuid.UUID]bool)}
}

func (r *stubMesaRepo) Create(_ context.Context, m *model.Mesa) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.mesas = append(r.mesas, m)
	return nil
}

func (r *stubMesaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Mesa, error) {
	for _, m := range r.mesas {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubMesaRepo) List(_ context.Context) ([]model.Mesa, error) {
	out := make([]model.Mesa, 0, len(r.mesas))
	for _, m := range r.mesas {
		out = append(out, *m)
	}
	return out, nil
}

func (r *stubMesaRepo) ListPorPiso(_ context.Context, piso string) ([]model.Mesa, error) {
	var out []model.Mesa
	for _, m := range r.mesas {
		if m.Piso == piso {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *stubMesaRepo) Update(_ context.Context, m *model.Mesa) error { return nil }

func (r *stubMesaRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, m := range r.mesas {
		if m.ID == id {
			r.mesas = append(r.mesas[:i], r.mesas[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (r *stubMesaRepo) TienePedidos(_ context.Context, id uuid.UUID) (bool, error) {
	return r.conPedidos[id], nil
}

var _ repository.MesaRepository = (*stubMesaRepo)(nil)

// stubPedidoRepo keeps pedidos and detalles, emulating the Preloads the real
// repository does (Detalles.Producto, Mesa).
type stubPedidoRepo struct {
	pedidos   map[uuid.UUID]*model.Pedido
	detalles  map[uuid.UUID]*model.DetallePedido
	ordenIDs  []uuid.UUID
	seq       int
	productos *stubProductoRepo
	mesas     *stubMesaRepo
}

func newStubPedidoRepo(productos *stubProductoRepo, mesas *stubMesaRepo) *stubPedidoRepo {
	return &stubPedidoRepo{
		pedidos:   make(map[uuid.UUID]*model.Pedido),
		detalles:  make(map[uuid.UUID]*model.DetallePedido),
		productos: productos,
		mesas:     mesas,
	}
}

func (r *stubPedidoRepo) DB() *gorm.DB { return nil }

func (r *stubPedidoRepo) Create(_ context.Context, _ *gorm.DB, p *model.Pedido) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	r.pedidos[p.ID] = p
	return nil
}

// cargar rebuilds the preloaded associations on the stored aggregate.
func (r *stubPedidoRepo) cargar(p *model.Pedido) *model.Pedido {
	p.Detalles = nil
	for _, id := range r.ordenIDs {
		d, ok := r.detalles[id]
		if !ok || d.PedidoID != p.ID {
			continue
		}
		copia := *d
		if r.productos != nil {
			if prod, err := r.productos.FindByID(context.Background(), d.ProductoID); err == nil {
				copia.Producto = prod
			}
		}
		p.Detalles = append(p.Detalles, copia)
	}
	if r.mesas != nil && p.Mesa == nil {
		if mesa, err := r.mesas.FindByID(context.Background(), p.MesaID); err == nil {
			p.Mesa = mesa
		}
	}
	return p
}

func (r *stubPedidoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Pedido, error) {
	p, ok := r.pedidos[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return r.cargar(p), nil
}

func (r *stubPedidoRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Pedido, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubPedidoRepo) FindForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Pedido, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubPedidoRepo) NextNumeroDiario(_ context.Context, _ *gorm.DB) (int, error) {
	r.seq++
	return r.seq, nil
}

func (r *stubPedidoRepo) CreateDetalleTx(_ *gorm.DB, d *model.DetallePedido) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	r.detalles[d.ID] = d
	r.ordenIDs = append(r.ordenIDs, d.ID)
	return nil
}

func (r *stubPedidoRepo) UpdateDetalleTx(_ *gorm.DB, d *model.DetallePedido) error {
	if _, ok := r.detalles[d.ID]; !ok {
		return errors.New("not found")
	}
	r.detalles[d.ID] = d
	return nil
}

func (r *stubPedidoRepo) DeleteDetalleTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.detalles, id)
	return nil
}

func (r *stubPedidoRepo) FindDetalleByID(_ context.Context, id uuid.UUID) (*model.DetallePedido, error) {
	d, ok := r.detalles[id]
	if !ok {
		return nil, errors.New("not found")
	}
	copia := *d
	if prod, err := r.productos.FindByID(context.Background(), d.ProductoID); err == nil {
		copia.Producto = prod
	}
	return &copia, nil
}

func (r *stubPedidoRepo) RecomputarTotalTx(_ *gorm.DB, pedidoID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, d := range r.detalles {
		if d.PedidoID == pedidoID {
			total = total.Add(d.Subtotal())
		}
	}
	p, ok := r.pedidos[pedidoID]
	if !ok {
		return decimal.Zero, errors.New("not found")
	}
	p.Total = total
	return total, nil
}

func (r *stubPedidoRepo) UpdateEstado(_ context.Context, id uuid.UUID, estado string) error {
	p, ok := r.pedidos[id]
	if !ok {
		return errors.New("not found")
	}
	p.Estado = estado
	return nil
}

func (r *stubPedidoRepo) Update(_ context.Context, _ *gorm.DB, p *model.Pedido) error {
	r.pedidos[p.ID] = p
	return nil
}

func (r *stubPedidoRepo) ListPorEstados(_ context.Context, estados []string) ([]model.Pedido, error) {
	var out []model.Pedido
	for _, p := range r.pedidos {
		for _, e := range estados {
			if p.Estado == e {
				out = append(out, *r.cargar(p))
			}
		}
	}
	return out, nil
}

func (r *stubPedidoRepo) ListPorMesero(_ context.Context, meseroID uuid.UUID, _ dto.PedidoFilter) ([]model.Pedido, int64, error) {
	var out []model.Pedido
	for _, p := range r.pedidos {
		if p.MeseroID == meseroID {
			out = append(out, *r.cargar(p))
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubPedidoRepo) SumTotalPagados(_ context.Context, desde time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range r.pedidos {
		if p.Estado == model.PedidoPagado && !p.CreatedAt.Before(desde) {
			total = total.Add(p.Total)
		}
	}
	return total, nil
}

var _ repository.PedidoRepository = (*stubPedidoRepo)(nil)

// stubVentaRepo captures sale snapshots for assertions.
type stubVentaRepo struct {
	ventas []*model.Venta
}

func newStubVentaRepo() *stubVentaRepo { return &stubVentaRepo{} }

func (r *stubVentaRepo) CreateTx(_ *gorm.DB, v *model.Venta) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.ventas = append(r.ventas, v)
	return nil
}

func (r *stubVentaRepo) ListDesde(_ context.Context, desde time.Time) ([]model.Venta, error) {
	var out []model.Venta
	for _, v := range r.ventas {
		if !v.FechaVenta.Before(desde) {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *stubVentaRepo) SumPorMetodo(_ context.Context, desde time.Time) (map[string]decimal.Decimal, error) {
	sums := make(map[string]decimal.Decimal)
	for _, v := range r.ventas {
		if !v.FechaVenta.Before(desde) {
			sums[v.MetodoPago] = sums[v.MetodoPago].Add(v.Total)
		}
	}
	return sums, nil
}

func (r *stubVentaRepo) TopProductos(_ context.Context, desde time.Time, limit int) ([]repository.ProductoVendido, error) {
	porNombre := make(map[string]*repository.ProductoVendido)
	for _, v := range r.ventas {
		if v.FechaVenta.Before(desde) {
			continue
		}
		pv, ok := porNombre[v.ProductoNombre]
		if !ok {
			pv = &repository.ProductoVendido{ProductoNombre: v.ProductoNombre}
			porNombre[v.ProductoNombre] = pv
		}
		pv.CantidadTotal += v.Cantidad
		pv.DineroTotal = pv.DineroTotal.Add(v.Total)
	}
	out := make([]repository.ProductoVendido, 0, len(porNombre))
	for _, pv := range porNombre {
		out = append(out, *pv)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var _ repository.VentaRepository = (*stubVentaRepo)(nil)

// stubEnvioRepo records EnvioTicket rows.
type stubEnvioRepo struct {
	envios map[uuid.UUID]*model.EnvioTicket
}

func newStubEnvioRepo() *stubEnvioRepo {
	return &stubEnvioRepo{envios: make(map[uuid.UUID]*model.EnvioTicket)}
}

func (r *stubEnvioRepo) Create(_ context.Context, e *model.EnvioTicket) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.envios[e.ID] = e
	return nil
}

func (r *stubEnvioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.EnvioTicket, error) {
	e, ok := r.envios[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return e, nil
}

func (r *stubEnvioRepo) Update(_ context.Context, e *model.EnvioTicket) error {
	r.envios[e.ID] = e
	return nil
}

func (r *stubEnvioRepo) ListPendingRetries(_ context.Context, now time.Time, limit int) ([]model.EnvioTicket, error) {
	var out []model.EnvioTicket
	for _, e := range r.envios {
		if e.Estado == model.EnvioFallido && e.NextRetryAt != nil && !e.NextRetryAt.After(now) {
			out = append(out, *e)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

var _ repository.EnvioRepository = (*stubEnvioRepo)(nil)

// stubCajaRepo enforces the single-open-session rule like the real one.
type stubCajaRepo struct {
	sesiones []*model.SesionCaja
}

func (r *stubCajaRepo) CreateSesion(_ context.Context, s *model.SesionCaja) error {
	for _, existente := range r.sesiones {
		if existente.Estado == model.CajaAbierta {
			return repository.ErrCajaYaAbierta
		}
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sesiones = append(r.sesiones, s)
	return nil
}

func (r *stubCajaRepo) FindSesionAbierta(_ context.Context) (*model.SesionCaja, error) {
	for _, s := range r.sesiones {
		if s.Estado == model.CajaAbierta {
			return s, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubCajaRepo) UpdateSesion(_ context.Context, s *model.SesionCaja) error {
	for i, existente := range r.sesiones {
		if existente.ID == s.ID {
			r.sesiones[i] = s
			return nil
		}
	}
	return errors.New("not found")
}

func (r *stubCajaRepo) ListSesiones(_ context.Context, limit int) ([]model.SesionCaja, error) {
	out := make([]model.SesionCaja, 0, len(r.sesiones))
	for _, s := range r.sesiones {
		out = append(out, *s)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

var _ repository.CajaRepository = (*stubCajaRepo)(nil)

// stubGastoRepo is an in-memory GastoRepository.
type stubGastoRepo struct {
	gastos []*model.Gasto
}

func (r *stubGastoRepo) Create(_ context.Context, g *model.Gasto) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	r.gastos = append(r.gastos, g)
	return nil
}

func (r *stubGastoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Gasto, error) {
	for _, g := range r.gastos {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubGastoRepo) ListDesde(_ context.Context, desde time.Time) ([]model.Gasto, error) {
	var out []model.Gasto
	for _, g := range r.gastos {
		if !g.Fecha.Before(desde) {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (r *stubGastoRepo) SumDesde(_ context.Context, desde time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, g := range r.gastos {
		if !g.Fecha.Before(desde) {
			total = total.Add(g.Monto)
		}
	}
	return total, nil
}

func (r *stubGastoRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, g := range r.gastos {
		if g.ID == id {
			r.gastos = append(r.gastos[:i], r.gastos[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

var _ repository.GastoRepository = (*stubGastoRepo)(nil)

// stubAsistenciaRepo keys records by (empleado, fecha) like the unique index.
type stubAsistenciaRepo struct {
	registros map[string]*model.Asistencia
}

func newStubAsistenciaRepo() *stubAsistenciaRepo {
	return &stubAsistenciaRepo{registros: make(map[string]*model.Asistencia)}
}

func claveAsistencia(empleadoID uuid.UUID, fecha time.Time) string {
	return empleadoID.String() + "|" + fecha.Format("2006-01-02")
}

func (r *stubAsistenciaRepo) CreateSiNoExiste(_ context.Context, a *model.Asistencia) (bool, error) {
	clave := claveAsistencia(a.EmpleadoID, a.Fecha)
	if _, ok := r.registros[clave]; ok {
		return false, nil
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.registros[clave] = a
	return true, nil
}

func (r *stubAsistenciaRepo) ListPorFecha(_ context.Context, fecha time.Time) ([]model.Asistencia, error) {
	dia := fecha.Format("2006-01-02")
	var out []model.Asistencia
	for _, a := range r.registros {
		if a.Fecha.Format("2006-01-02") == dia {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *stubAsistenciaRepo) ListPorEmpleado(_ context.Context, empleadoID uuid.UUID, limit int) ([]model.Asistencia, error) {
	var out []model.Asistencia
	for _, a := range r.registros {
		if a.EmpleadoID == empleadoID {
			out = append(out, *a)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

var _ repository.AsistenciaRepository = (*stubAsistenciaRepo)(nil)

// stubUsuarioRepo is an in-memory UsuarioRepository.
type stubUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubUsuarioRepo) FirstActivo(_ context.Context) (*model.Usuario, error) {
	var cualquiera *model.Usuario
	for _, u := range r.usuarios {
		if !u.Activo {
			continue
		}
		if u.Rol == model.RolAdministrador {
			return u, nil
		}
		cualquiera = u
	}
	if cualquiera == nil {
		return nil, errors.New("not found")
	}
	return cualquiera, nil
}

func (r *stubUsuarioRepo) List(_ context.Context, incluirInactivos bool) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		if incluirInactivos || u.Activo {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.usuarios[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) SetActivo(_ context.Context, id uuid.UUID, activo bool) error {
	u, ok := r.usuarios[id]
	if !ok {
		return errors.New("not found")
	}
	u.Activo = activo
	return nil
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

// stubReservaRepo is an in-memory ReservaRepository.
type stubReservaRepo struct {
	reservas map[uuid.UUID]*model.Reserva
}

func newStubReservaRepo() *stubReservaRepo {
	return &stubReservaRepo{reservas: make(map[uuid.UUID]*model.Reserva)}
}

func (r *stubReservaRepo) DB() *gorm.DB { return nil }

func (r *stubReservaRepo) Create(_ context.Context, rv *model.Reserva) error {
	if rv.ID == uuid.Nil {
		rv.ID = uuid.New()
	}
	for i := range rv.Platos {
		if rv.Platos[i].ID == uuid.Nil {
			rv.Platos[i].ID = uuid.New()
		}
		rv.Platos[i].ReservaID = rv.ID
	}
	r.reservas[rv.ID] = rv
	return nil
}

func (r *stubReservaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Reserva, error) {
	rv, ok := r.reservas[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return rv, nil
}

func (r *stubReservaRepo) List(_ context.Context, excluirCanceladas bool) ([]model.Reserva, error) {
	var out []model.Reserva
	for _, rv := range r.reservas {
		if excluirCanceladas && rv.Estado == model.ReservaCancelada {
			continue
		}
		out = append(out, *rv)
	}
	return out, nil
}

func (r *stubReservaRepo) Proximas(_ context.Context, limit int) ([]model.Reserva, error) {
	return r.List(context.Background(), true)
}

func (r *stubReservaRepo) Update(_ context.Context, _ *gorm.DB, rv *model.Reserva) error {
	r.reservas[rv.ID] = rv
	return nil
}

var _ repository.ReservaRepository = (*stubReservaRepo)(nil)

// ── Seed helpers ─────────────────────────────────────────────────────────────

func seedProducto(repo *stubProductoRepo, nombre, categoria string, precio float64, stock int) *model.Producto {
	p := &model.Producto{
		ID:        uuid.New(),
		Nombre:    nombre,
		Categoria: categoria,
		Precio:    decimal.NewFromFloat(precio),
		Stock:     stock,
	}
	repo.productos[p.ID] = p
	return p
}

func seedMesa(repo *stubMesaRepo, numero int) *model.Mesa {
	m := &model.Mesa{
		ID:        uuid.New(),
		Numero:    numero,
		Capacidad: 4,
		Piso:      model.Piso1,
		Forma:     model.FormaCuadrada,
	}
	repo.mesas = append(repo.mesas, m)
	return m
}
