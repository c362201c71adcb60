package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"comanda/internal/dto"
	"comanda/internal/model"
	"comanda/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	// UmbralStockBajo marca productos de categorías rastreadas por debajo de
	// este valor en el panel de alertas.
	UmbralStockBajo = 5

	menuCacheKey = "comanda:menu:v1"
	menuCacheTTL = 60 * time.Second
)

type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	AjustarStock(ctx context.Context, id uuid.UUID, stock int) error
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	List(ctx context.Context, categoria string) ([]dto.ProductoResponse, error)
	MenuPublico(ctx context.Context) ([]dto.ProductoResponse, error)
	StockBajo(ctx context.Context) ([]dto.ProductoResponse, error)
	Conteos(ctx context.Context) (*dto.ConteosMenu, error)
}

type productoService struct {
	repo repository.ProductoRepository
	rdb  *redis.Client
}

func NewProductoService(repo repository.ProductoRepository, rdb *redis.Client) ProductoService {
	return &productoService{repo: repo, rdb: rdb}
}

// NormalizarCategoria collapses free-text category input into the closed enum
// at write time, so every read path filters with plain equality.
func NormalizarCategoria(raw string) string {
	c := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(c, "bebida"), strings.Contains(c, "jugo"), strings.Contains(c, "gaseosa"):
		return model.CategoriaBebida
	// "arroc" cubre el plural: arroz → arroces
	case strings.Contains(c, "arroz"), strings.Contains(c, "arroc"):
		return model.CategoriaArroz
	case strings.Contains(c, "sopa"), strings.Contains(c, "caldo"):
		return model.CategoriaSopa
	case strings.Contains(c, "extra"), strings.Contains(c, "adicional"), strings.Contains(c, "porción"), strings.Contains(c, "porcion"):
		return model.CategoriaExtra
	default:
		return model.CategoriaOtro
	}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	if existente, err := s.repo.FindByNombre(ctx, req.Nombre); err == nil && existente != nil {
		return nil, errors.New("ya existe un producto con ese nombre")
	}
	p := &model.Producto{
		Nombre:      strings.TrimSpace(req.Nombre),
		Categoria:   NormalizarCategoria(req.Categoria),
		Precio:      req.Precio,
		Stock:       req.Stock,
		ImagenURL:   req.ImagenURL,
		Descripcion: req.Descripcion,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.invalidarMenu(ctx)
	return productoToResponse(p), nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("producto no encontrado")
	}
	if req.Nombre != nil && *req.Nombre != "" {
		p.Nombre = strings.TrimSpace(*req.Nombre)
	}
	if req.Categoria != nil && *req.Categoria != "" {
		p.Categoria = NormalizarCategoria(*req.Categoria)
	}
	if req.Precio != nil {
		// Cambiar el precio NO toca líneas de pedidos existentes: cada
		// detalle capturó su precio al crearse.
		p.Precio = *req.Precio
	}
	if req.ImagenURL != nil {
		p.ImagenURL = req.ImagenURL
	}
	if req.Descripcion != nil {
		p.Descripcion = req.Descripcion
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidarMenu(ctx)
	return productoToResponse(p), nil
}

func (s *productoService) AjustarStock(ctx context.Context, id uuid.UUID, stock int) error {
	if stock < 0 {
		return errors.New("el stock no puede ser negativo")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return errors.New("producto no encontrado")
	}
	if err := s.repo.UpdateStock(ctx, id, stock); err != nil {
		return err
	}
	s.invalidarMenu(ctx)
	return nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("producto no encontrado")
	}
	return productoToResponse(p), nil
}

func (s *productoService) List(ctx context.Context, categoria string) ([]dto.ProductoResponse, error) {
	if categoria != "" {
		categoria = NormalizarCategoria(categoria)
	}
	productos, err := s.repo.List(ctx, categoria)
	if err != nil {
		return nil, err
	}
	return productosToResponses(productos), nil
}

// MenuPublico serves the unauthenticated ordering site. Cached in Redis with a
// short TTL; writes invalidate the key so staff edits show up promptly.
func (s *productoService) MenuPublico(ctx context.Context) ([]dto.ProductoResponse, error) {
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, menuCacheKey).Bytes(); err == nil {
			var cached []dto.ProductoResponse
			if json.Unmarshal(raw, &cached) == nil {
				return cached, nil
			}
		}
	}
	productos, err := s.repo.List(ctx, "")
	if err != nil {
		return nil, err
	}
	out := productosToResponses(productos)
	if s.rdb != nil {
		if raw, err := json.Marshal(out); err == nil {
			if err := s.rdb.Set(ctx, menuCacheKey, raw, menuCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("no se pudo cachear el menú")
			}
		}
	}
	return out, nil
}

func (s *productoService) invalidarMenu(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, menuCacheKey).Err(); err != nil {
		log.Warn().Err(err).Msg("no se pudo invalidar la caché del menú")
	}
}

// StockBajo returns tracked-category products under the threshold. Cooked
// dishes never appear here no matter their stored stock value.
func (s *productoService) StockBajo(ctx context.Context) ([]dto.ProductoResponse, error) {
	productos, err := s.repo.StockBajo(ctx, model.CategoriasConStock, UmbralStockBajo)
	if err != nil {
		return nil, err
	}
	return productosToResponses(productos), nil
}

func (s *productoService) Conteos(ctx context.Context) (*dto.ConteosMenu, error) {
	porCategoria, err := s.repo.CountPorCategoria(ctx)
	if err != nil {
		return nil, err
	}
	c := &dto.ConteosMenu{
		Bebida: porCategoria[model.CategoriaBebida],
		Arroz:  porCategoria[model.CategoriaArroz],
		Sopa:   porCategoria[model.CategoriaSopa],
		Extra:  porCategoria[model.CategoriaExtra],
		Otro:   porCategoria[model.CategoriaOtro],
	}
	c.Total = c.Bebida + c.Arroz + c.Sopa + c.Extra + c.Otro
	return c, nil
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	return &dto.ProductoResponse{
		ID:          p.ID.String(),
		Nombre:      p.Nombre,
		Categoria:   p.Categoria,
		Precio:      p.Precio,
		Stock:       p.Stock,
		ImagenURL:   p.ImagenURL,
		Descripcion: p.Descripcion,
	}
}

func productosToResponses(productos []model.Producto) []dto.ProductoResponse {
	out := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		out = append(out, *productoToResponse(&productos[i]))
	}
	return out
}
