package router

import (
	"time"

	"comanda/internal/config"
	"comanda/internal/handler"
	"comanda/internal/infra"
	"comanda/internal/middleware"
	"comanda/internal/repository"
	"comanda/internal/service"
	"comanda/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, smtpCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	corsOrigin := ""
	if cfg.Env == "production" {
		corsOrigin = cfg.Domain
	}
	r.Use(middleware.CORS(corsOrigin))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	mesaRepo := repository.NewMesaRepository(db)
	pedidoRepo := repository.NewPedidoRepository(db)
	reservaRepo := repository.NewReservaRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	cajaRepo := repository.NewCajaRepository(db)
	gastoRepo := repository.NewGastoRepository(db)
	asistenciaRepo := repository.NewAsistenciaRepository(db)
	envioRepo := repository.NewEnvioRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg.JWTSecret, cfg.JWTExpirationHours, cfg.JWTRefreshHours)
	productoSvc := service.NewProductoService(productoRepo, rdb)
	mesaSvc := service.NewMesaService(mesaRepo)
	pedidoSvc := service.NewPedidoService(pedidoRepo, productoRepo, mesaRepo, ventaRepo, envioRepo, usuarioRepo, dispatcher)
	reservaSvc := service.NewReservaService(reservaRepo, pedidoRepo, productoRepo, mesaRepo)
	cajaSvc := service.NewCajaService(cajaRepo, pedidoRepo, ventaRepo, gastoRepo)
	gastoSvc := service.NewGastoService(gastoRepo)
	asistenciaSvc := service.NewAsistenciaService(asistenciaRepo, usuarioRepo)
	reporteSvc := service.NewReporteService(cajaSvc, pedidoRepo, cfg.PDFStoragePath)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	mesasH := handler.NewMesasHandler(mesaSvc)
	pedidosH := handler.NewPedidosHandler(pedidoSvc)
	reservasH := handler.NewReservasHandler(reservaSvc)
	cajaH := handler.NewCajaHandler(cajaSvc)
	gastosH := handler.NewGastosHandler(gastoSvc)
	asistenciasH := handler.NewAsistenciasHandler(asistenciaSvc)
	reportesH := handler.NewReportesHandler(reporteSvc)
	publicoH := handler.NewPublicoHandler(productoSvc, reservaSvc, pedidoSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb, smtpCB))

	// Public site — no auth, tighter rate limit
	pub := r.Group("/public", middleware.RateLimiter(60, time.Minute))
	{
		pub.GET("/menu", publicoH.Menu)
		pub.GET("/menu/conteos", publicoH.Conteos)
		pub.POST("/reservas", publicoH.CrearReserva)
		pub.POST("/pedidos", publicoH.CrearPedidoWeb)
	}

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: mesero, cajero, administrador — declared per-endpoint
		pedidos := v1.Group("/pedidos")
		{
			pedidos.POST("", middleware.RequireRole("mesero", "administrador"), pedidosH.Crear)
			pedidos.GET("/activos", middleware.RequireRole("mesero", "cajero", "administrador"), pedidosH.ListarActivos)
			pedidos.GET("/mios", middleware.RequireRole("mesero", "administrador"), pedidosH.MisPedidos)
			pedidos.GET("/:id", middleware.RequireRole("mesero", "cajero", "administrador"), pedidosH.Obtener)
			pedidos.POST("/:id/detalles", middleware.RequireRole("mesero", "administrador"), pedidosH.AgregarDetalle)
			pedidos.PUT("/detalles/:id", middleware.RequireRole("mesero", "administrador"), pedidosH.ActualizarDetalle)
			pedidos.DELETE("/detalles/:id", middleware.RequireRole("mesero", "administrador"), pedidosH.EliminarDetalle)
			pedidos.PUT("/:id/estado", middleware.RequireRole("mesero", "administrador"), pedidosH.CambiarEstado)
			pedidos.PUT("/:id/listo", middleware.RequireRole("mesero", "cajero", "administrador"), pedidosH.MarcarListo)
			// El cobro cierra el pedido y genera las ventas — solo caja
			pedidos.POST("/:id/cobrar", middleware.RequireRole("cajero", "administrador"), pedidosH.Cobrar)
			pedidos.PUT("/:id/cliente", middleware.RequireRole("mesero", "cajero", "administrador"), pedidosH.ActualizarCliente)
		}

		reservas := v1.Group("/reservas", middleware.RequireRole("mesero", "cajero", "administrador"))
		{
			reservas.POST("", reservasH.Crear)
			reservas.GET("", reservasH.Listar)
			reservas.GET("/calendario", reservasH.Calendario)
			reservas.GET("/:id", reservasH.Obtener)
			reservas.PUT("/:id/estado", reservasH.CambiarEstado)
			reservas.POST("/:id/convertir", reservasH.Convertir)
		}

		// GET /v1/productos — all authenticated roles can read the catalog
		v1.GET("/productos", middleware.RequireRole("mesero", "cajero", "administrador"), productosH.Listar)
		v1.GET("/productos/stock-bajo", middleware.RequireRole("cajero", "administrador"), productosH.StockBajo)
		v1.GET("/productos/:id", middleware.RequireRole("mesero", "cajero", "administrador"), productosH.Obtener)
		// Write operations — administrador only
		prods := v1.Group("/productos", middleware.RequireRole("administrador"))
		{
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.PUT("/:id/stock", productosH.AjustarStock)
		}

		v1.GET("/mesas", middleware.RequireRole("mesero", "cajero", "administrador"), mesasH.Listar)
		mesas := v1.Group("/mesas", middleware.RequireRole("administrador"))
		{
			mesas.POST("", mesasH.Crear)
			mesas.PUT("/:id", mesasH.Actualizar)
			mesas.DELETE("/:id", mesasH.Eliminar)
		}

		caja := v1.Group("/caja", middleware.RequireRole("cajero", "administrador"))
		{
			caja.POST("/abrir", cajaH.Abrir)
			caja.POST("/cerrar", cajaH.Cerrar)
			caja.GET("/actual", cajaH.SesionActual)
			caja.GET("/resumen", cajaH.Resumen)
			caja.GET("/historial", middleware.RequireRole("administrador"), cajaH.Historial)
		}

		gastos := v1.Group("/gastos", middleware.RequireRole("cajero", "administrador"))
		{
			gastos.POST("", gastosH.Crear)
			gastos.GET("", gastosH.ListarHoy)
			// el handler vuelve a chequear el rol: solo administrador elimina
			gastos.DELETE("/:id", gastosH.Eliminar)
		}

		asistencias := v1.Group("/asistencias")
		{
			asistencias.POST("", middleware.RequireRole("mesero", "cajero", "administrador"), asistenciasH.Registrar)
			asistencias.GET("", middleware.RequireRole("administrador"), asistenciasH.ListarHoy)
			asistencias.GET("/resumen", middleware.RequireRole("administrador"), asistenciasH.ResumenHoy)
			asistencias.GET("/empleado/:id", middleware.RequireRole("administrador"), asistenciasH.Historial)
		}

		reportes := v1.Group("/reportes", middleware.RequireRole("cajero", "administrador"))
		{
			reportes.GET("/caja.pdf", reportesH.CajaPDF)
			reportes.GET("/caja.xlsx", reportesH.CajaXLSX)
			reportes.GET("/ticket/:id", reportesH.TicketPDF)
		}

		usuarios := v1.Group("/usuarios", middleware.RequireRole("administrador"))
		{
			usuarios.POST("", authH.CrearUsuario)
			usuarios.GET("", authH.ListUsuarios)
			usuarios.PUT("/:id", authH.ActualizarUsuario)
			usuarios.DELETE("/:id", authH.DesactivarUsuario)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
