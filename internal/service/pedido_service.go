package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"comanda/internal/dto"
	"comanda/internal/model"
	"comanda/internal/repository"
	"comanda/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PedidoService interface {
	Crear(ctx context.Context, meseroID uuid.UUID, req dto.CrearPedidoRequest) (*dto.PedidoResponse, error)
	CrearWeb(ctx context.Context, req dto.CrearPedidoWebRequest) (*dto.PedidoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error)

	AgregarDetalle(ctx context.Context, rol string, pedidoID uuid.UUID, req dto.AgregarDetalleRequest) (*dto.PedidoResponse, error)
	ActualizarDetalle(ctx context.Context, rol string, detalleID uuid.UUID, req dto.ActualizarDetalleRequest) (*dto.PedidoResponse, error)
	EliminarDetalle(ctx context.Context, rol string, detalleID uuid.UUID) (*dto.PedidoResponse, error)

	CambiarEstado(ctx context.Context, rol string, id uuid.UUID, estado string) error
	MarcarListo(ctx context.Context, id uuid.UUID) error
	Cobrar(ctx context.Context, id uuid.UUID, req dto.CobrarRequest) (*dto.PedidoResponse, error)
	ActualizarCliente(ctx context.Context, id uuid.UUID, req dto.ActualizarClienteRequest) error

	ListActivos(ctx context.Context, incluirListos bool) ([]dto.PedidoResponse, error)
	ListPorMesero(ctx context.Context, meseroID uuid.UUID, filter dto.PedidoFilter) (*dto.PedidoListResponse, error)
}

type pedidoService struct {
	repo        repository.PedidoRepository
	prodRepo    repository.ProductoRepository
	mesaRepo    repository.MesaRepository
	ventaRepo   repository.VentaRepository
	envioRepo   repository.EnvioRepository
	usuarioRepo repository.UsuarioRepository
	dispatcher  *worker.Dispatcher
}

func NewPedidoService(
	repo repository.PedidoRepository,
	prodRepo repository.ProductoRepository,
	mesaRepo repository.MesaRepository,
	ventaRepo repository.VentaRepository,
	envioRepo repository.EnvioRepository,
	usuarioRepo repository.UsuarioRepository,
	dispatcher *worker.Dispatcher,
) PedidoService {
	return &pedidoService{
		repo:        repo,
		prodRepo:    prodRepo,
		mesaRepo:    mesaRepo,
		ventaRepo:   ventaRepo,
		envioRepo:   envioRepo,
		usuarioRepo: usuarioRepo,
		dispatcher:  dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Crear ─────────────────────────────────────────────────────────────────────
// Single transaction: assign numero_diario, create pedido + detalles capturing
// current catalog prices, recompute total. A failure anywhere leaves nothing.

func (s *pedidoService) Crear(ctx context.Context, meseroID uuid.UUID, req dto.CrearPedidoRequest) (*dto.PedidoResponse, error) {
	mesaID, err := uuid.Parse(req.MesaID)
	if err != nil {
		return nil, fmt.Errorf("mesa_id inválido: %w", err)
	}
	mesa, err := s.mesaRepo.FindByID(ctx, mesaID)
	if err != nil {
		return nil, errors.New("mesa no encontrada")
	}

	var pedido model.Pedido
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		numero, err := s.repo.NextNumeroDiario(ctx, tx)
		if err != nil {
			return err
		}
		pedido = model.Pedido{
			NumeroDiario:  numero,
			MesaID:        mesa.ID,
			MeseroID:      meseroID,
			Estado:        model.PedidoPendiente,
			Observaciones: req.Observaciones,
		}
		if err := s.repo.Create(ctx, tx, &pedido); err != nil {
			return err
		}
		if err := s.crearDetallesTx(tx, pedido.ID, req.Items); err != nil {
			return err
		}
		total, err := s.repo.RecomputarTotalTx(tx, pedido.ID)
		if err != nil {
			return err
		}
		pedido.Total = total
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	completo, err := s.repo.FindByID(ctx, pedido.ID)
	if err != nil {
		return pedidoToResponse(&pedido), nil
	}
	return pedidoToResponse(completo), nil
}

// CrearWeb registers an order from the public site: default table, walk-in
// defaults for missing customer fields, optional payment-proof image. A
// confirmation email is enqueued best-effort when the customer left one.
func (s *pedidoService) CrearWeb(ctx context.Context, req dto.CrearPedidoWebRequest) (*dto.PedidoResponse, error) {
	mesas, err := s.mesaRepo.List(ctx)
	if err != nil || len(mesas) == 0 {
		return nil, errors.New("no hay mesas configuradas")
	}
	mesaWeb := mesas[0]

	// Los pedidos del sitio no traen mesero; se asignan a un usuario real
	// para no violar la FK de mesero_id.
	responsable, err := s.usuarioRepo.FirstActivo(ctx)
	if err != nil {
		return nil, errors.New("no hay usuarios activos para asignar el pedido")
	}

	nombre := req.ClienteNombre
	if nombre == "" {
		nombre = "Cliente Web"
	}
	cedula := req.ClienteCedula
	if cedula == "" {
		cedula = "9999999999"
	}
	obs := "WEB"
	if req.Nota != nil && *req.Nota != "" {
		obs = "WEB | Nota: " + *req.Nota
	}

	var pedido model.Pedido
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		numero, err := s.repo.NextNumeroDiario(ctx, tx)
		if err != nil {
			return err
		}
		pedido = model.Pedido{
			NumeroDiario:       numero,
			MesaID:             mesaWeb.ID,
			MeseroID:           responsable.ID,
			Estado:             model.PedidoPendiente,
			Observaciones:      &obs,
			ClienteNombre:      nombre,
			ClienteCedula:      cedula,
			ClienteTelefono:    req.ClienteTelefono,
			ClienteDireccion:   req.ClienteDireccion,
			ClienteEmail:       req.ClienteEmail,
			MetodoPago:         req.MetodoPago,
			ComprobantePagoURL: req.ComprobantePagoURL,
		}
		if err := s.repo.Create(ctx, tx, &pedido); err != nil {
			return err
		}
		if err := s.crearDetallesTx(tx, pedido.ID, req.Items); err != nil {
			return err
		}
		total, err := s.repo.RecomputarTotalTx(tx, pedido.ID)
		if err != nil {
			return err
		}
		pedido.Total = total
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// Confirmación por correo — mejor esfuerzo, nunca bloquea ni revierte.
	if s.dispatcher != nil && req.ClienteEmail != nil && *req.ClienteEmail != "" {
		s.encolarEnvio(ctx, &pedido, *req.ClienteEmail, worker.TipoConfirmacion)
	}

	completo, err := s.repo.FindByID(ctx, pedido.ID)
	if err != nil {
		return pedidoToResponse(&pedido), nil
	}
	return pedidoToResponse(completo), nil
}

func (s *pedidoService) crearDetallesTx(tx *gorm.DB, pedidoID uuid.UUID, items []dto.ItemPedidoRequest) error {
	for _, item := range items {
		pid, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return fmt.Errorf("producto_id inválido: %w", err)
		}
		var precio decimal.Decimal
		if item.PrecioUnitario != nil {
			precio = *item.PrecioUnitario
		} else {
			// El salvavidas del precio: capturamos el precio vigente del
			// catálogo; cambios posteriores no tocan esta línea.
			p, err := s.prodRepo.FindByIDTx(tx, pid)
			if err != nil {
				return fmt.Errorf("producto %s no encontrado", item.ProductoID)
			}
			precio = p.Precio
		}
		detalle := &model.DetallePedido{
			PedidoID:       pedidoID,
			ProductoID:     pid,
			Cantidad:       item.Cantidad,
			PrecioUnitario: precio,
			Nota:           item.Nota,
		}
		if err := s.repo.CreateDetalleTx(tx, detalle); err != nil {
			return err
		}
	}
	return nil
}

// ── Detalles ──────────────────────────────────────────────────────────────────
// Every line mutation ends with RecomputarTotalTx inside the same transaction,
// so no intermediate inconsistent total is ever persisted.

func (s *pedidoService) AgregarDetalle(ctx context.Context, rol string, pedidoID uuid.UUID, req dto.AgregarDetalleRequest) (*dto.PedidoResponse, error) {
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// Releer con lock: un cobro concurrente no puede colarse entre la
		// verificación de estado y la escritura de la línea.
		pedido, err := s.repo.FindForUpdateTx(tx, pedidoID)
		if err != nil {
			return errors.New("pedido no encontrado")
		}
		if !PuedeEditar(rol, pedido.Estado, CampoDetalles) {
			return fmt.Errorf("el pedido está %s: no se pueden modificar los platos", pedido.Estado)
		}
		if err := s.crearDetallesTx(tx, pedidoID, []dto.ItemPedidoRequest{{
			ProductoID:     req.ProductoID,
			Cantidad:       req.Cantidad,
			PrecioUnitario: req.PrecioUnitario,
			Nota:           req.Nota,
		}}); err != nil {
			return err
		}
		_, err = s.repo.RecomputarTotalTx(tx, pedidoID)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.ObtenerPorID(ctx, pedidoID)
}

func (s *pedidoService) ActualizarDetalle(ctx context.Context, rol string, detalleID uuid.UUID, req dto.ActualizarDetalleRequest) (*dto.PedidoResponse, error) {
	detalle, err := s.repo.FindDetalleByID(ctx, detalleID)
	if err != nil {
		return nil, errors.New("detalle no encontrado")
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		pedido, err := s.repo.FindForUpdateTx(tx, detalle.PedidoID)
		if err != nil {
			return errors.New("pedido no encontrado")
		}
		if !PuedeEditar(rol, pedido.Estado, CampoDetalles) {
			return fmt.Errorf("el pedido está %s: no se pueden modificar los platos", pedido.Estado)
		}
		if req.Cantidad != nil {
			detalle.Cantidad = *req.Cantidad
		}
		if req.Nota != nil {
			detalle.Nota = req.Nota
		}
		if err := s.repo.UpdateDetalleTx(tx, detalle); err != nil {
			return err
		}
		_, err = s.repo.RecomputarTotalTx(tx, detalle.PedidoID)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.ObtenerPorID(ctx, detalle.PedidoID)
}

func (s *pedidoService) EliminarDetalle(ctx context.Context, rol string, detalleID uuid.UUID) (*dto.PedidoResponse, error) {
	detalle, err := s.repo.FindDetalleByID(ctx, detalleID)
	if err != nil {
		return nil, errors.New("detalle no encontrado")
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		pedido, err := s.repo.FindForUpdateTx(tx, detalle.PedidoID)
		if err != nil {
			return errors.New("pedido no encontrado")
		}
		if !PuedeEditar(rol, pedido.Estado, CampoDetalles) {
			return fmt.Errorf("el pedido está %s: no se pueden modificar los platos", pedido.Estado)
		}
		if err := s.repo.DeleteDetalleTx(tx, detalleID); err != nil {
			return err
		}
		_, err = s.repo.RecomputarTotalTx(tx, detalle.PedidoID)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.ObtenerPorID(ctx, detalle.PedidoID)
}

// ── Estado ────────────────────────────────────────────────────────────────────

func (s *pedidoService) CambiarEstado(ctx context.Context, rol string, id uuid.UUID, estado string) error {
	if !PuedeEditar(rol, "", CampoEstado) {
		return errors.New("su rol no puede cambiar el estado del pedido")
	}
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("pedido no encontrado")
	}
	if estado == model.PedidoPagado {
		return errors.New("use la operación de cobro para marcar un pedido como Pagado")
	}
	if !TransicionValida(pedido.Estado, estado) {
		return fmt.Errorf("transición inválida: %s → %s", pedido.Estado, estado)
	}
	return s.repo.UpdateEstado(ctx, id, estado)
}

// MarcarListo is the kitchen shortcut: Pendiente or En preparación → Listo.
func (s *pedidoService) MarcarListo(ctx context.Context, id uuid.UUID) error {
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("pedido no encontrado")
	}
	if !TransicionValida(pedido.Estado, model.PedidoListo) {
		return fmt.Errorf("transición inválida: %s → %s", pedido.Estado, model.PedidoListo)
	}
	return s.repo.UpdateEstado(ctx, id, model.PedidoListo)
}

// ── Cobrar ────────────────────────────────────────────────────────────────────
// The only path to Pagado. One transaction: apply invoice-field overrides,
// snapshot every current line into an append-only Venta, flip estado. The
// ticket email is enqueued AFTER commit and can never undo the cobro.

func (s *pedidoService) Cobrar(ctx context.Context, id uuid.UUID, req dto.CobrarRequest) (*dto.PedidoResponse, error) {
	ahora := time.Now()
	var pedido *model.Pedido
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// La verificación de estado vive dentro de la tx, con el pedido
		// bloqueado: dos cobros concurrentes no pueden duplicar las ventas.
		var err error
		pedido, err = s.repo.FindForUpdateTx(tx, id)
		if err != nil {
			return errors.New("pedido no encontrado")
		}
		if pedido.Estado == model.PedidoPagado {
			return errors.New("el pedido ya está pagado")
		}
		if pedido.Estado == model.PedidoCancelado {
			return errors.New("no se puede cobrar un pedido cancelado")
		}
		if len(pedido.Detalles) == 0 {
			return errors.New("el pedido no tiene platos")
		}

		aplicarCliente(pedido, req.ClienteNombre, req.ClienteCedula, req.ClienteTelefono, req.ClienteDireccion, req.ClienteEmail)

		for i := range pedido.Detalles {
			d := &pedido.Detalles[i]
			nombre := ""
			if d.Producto != nil {
				nombre = d.Producto.Nombre
			}
			venta := &model.Venta{
				PedidoID:       pedido.ID,
				ProductoID:     d.ProductoID,
				ProductoNombre: nombre,
				Cantidad:       d.Cantidad,
				Total:          d.Subtotal(),
				MetodoPago:     req.MetodoPago,
				FechaVenta:     ahora,
			}
			if err := s.ventaRepo.CreateTx(tx, venta); err != nil {
				return err
			}
		}
		pedido.Estado = model.PedidoPagado
		pedido.MetodoPago = req.MetodoPago
		return s.repo.Update(ctx, tx, pedido)
	})
	if txErr != nil {
		return nil, txErr
	}

	if s.dispatcher != nil && pedido.ClienteEmail != nil && *pedido.ClienteEmail != "" {
		s.encolarEnvio(ctx, pedido, *pedido.ClienteEmail, worker.TipoTicket)
	}

	completo, err := s.repo.FindByID(ctx, pedido.ID)
	if err != nil {
		return pedidoToResponse(pedido), nil
	}
	return pedidoToResponse(completo), nil
}

// encolarEnvio creates the observable EnvioTicket row and pushes the job.
// Any failure here is logged by the dispatcher; the caller never blocks.
func (s *pedidoService) encolarEnvio(ctx context.Context, pedido *model.Pedido, destinatario, tipo string) {
	envio := &model.EnvioTicket{
		PedidoID:     pedido.ID,
		Destinatario: destinatario,
		Estado:       model.EnvioPendiente,
	}
	if s.envioRepo != nil {
		if err := s.envioRepo.Create(ctx, envio); err != nil {
			return
		}
	}
	_ = s.dispatcher.EnqueueEnvioTicket(ctx, worker.EnvioTicketPayload{
		EnvioID:      envio.ID.String(),
		PedidoID:     pedido.ID.String(),
		NumeroDiario: pedido.NumeroDiario,
		Destinatario: destinatario,
		Tipo:         tipo,
	})
}

// ── Cliente ───────────────────────────────────────────────────────────────────
// Invoice-identity fields stay editable in every state, including Pagado.

func (s *pedidoService) ActualizarCliente(ctx context.Context, id uuid.UUID, req dto.ActualizarClienteRequest) error {
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("pedido no encontrado")
	}
	aplicarCliente(pedido, req.ClienteNombre, req.ClienteCedula, req.ClienteTelefono, req.ClienteDireccion, req.ClienteEmail)
	return s.repo.Update(ctx, nil, pedido)
}

func aplicarCliente(p *model.Pedido, nombre, cedula, telefono, direccion, email *string) {
	if nombre != nil && *nombre != "" {
		p.ClienteNombre = *nombre
	}
	if cedula != nil && *cedula != "" {
		p.ClienteCedula = *cedula
	}
	if telefono != nil {
		p.ClienteTelefono = telefono
	}
	if direccion != nil {
		p.ClienteDireccion = direccion
	}
	if email != nil {
		p.ClienteEmail = email
	}
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *pedidoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error) {
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("pedido no encontrado")
	}
	return pedidoToResponse(pedido), nil
}

func (s *pedidoService) ListActivos(ctx context.Context, incluirListos bool) ([]dto.PedidoResponse, error) {
	estados := []string{model.PedidoPendiente, model.PedidoEnPreparacion}
	if incluirListos {
		estados = append(estados, model.PedidoListo)
	}
	pedidos, err := s.repo.ListPorEstados(ctx, estados)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PedidoResponse, 0, len(pedidos))
	for i := range pedidos {
		out = append(out, *pedidoToResponse(&pedidos[i]))
	}
	return out, nil
}

func (s *pedidoService) ListPorMesero(ctx context.Context, meseroID uuid.UUID, filter dto.PedidoFilter) (*dto.PedidoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	pedidos, total, err := s.repo.ListPorMesero(ctx, meseroID, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.PedidoResponse, 0, len(pedidos))
	for i := range pedidos {
		data = append(data, *pedidoToResponse(&pedidos[i]))
	}
	return &dto.PedidoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func pedidoToResponse(p *model.Pedido) *dto.PedidoResponse {
	detalles := make([]dto.DetalleResponse, 0, len(p.Detalles))
	for i := range p.Detalles {
		d := &p.Detalles[i]
		nombre := ""
		if d.Producto != nil {
			nombre = d.Producto.Nombre
		}
		detalles = append(detalles, dto.DetalleResponse{
			ID:             d.ID.String(),
			Producto:       nombre,
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			Subtotal:       d.Subtotal(),
			Nota:           d.Nota,
		})
	}
	mesa := 0
	if p.Mesa != nil {
		mesa = p.Mesa.Numero
	}
	mesero := ""
	if p.Mesero != nil {
		mesero = p.Mesero.Nombre
	}
	return &dto.PedidoResponse{
		ID:               p.ID.String(),
		NumeroDiario:     p.NumeroDiario,
		Mesa:             mesa,
		Mesero:           mesero,
		Estado:           p.Estado,
		Total:            p.Total,
		Observaciones:    p.Observaciones,
		MetodoPago:       p.MetodoPago,
		Detalles:         detalles,
		ClienteNombre:    p.ClienteNombre,
		ClienteCedula:    p.ClienteCedula,
		ClienteTelefono:  p.ClienteTelefono,
		ClienteDireccion: p.ClienteDireccion,
		ClienteEmail:     p.ClienteEmail,
		CreatedAt:        p.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
