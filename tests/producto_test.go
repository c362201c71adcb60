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
)

func buildProductoSvc() (service.ProductoService, *stubProductoRepo) {
	repo := newStubProductoRepo()
	svc := service.NewProductoService(repo, nil)
	return svc, repo
}

func TestNormalizarCategoria(t *testing.T) {
	casos := []struct {
		entrada  string
		esperada string
	}{
		{"Bebidas", model.CategoriaBebida},
		{"JUGOS NATURALES", model.CategoriaBebida},
		{"gaseosas", model.CategoriaBebida},
		{"Arroces", model.CategoriaArroz},
		{"  arroz marinero ", model.CategoriaArroz},
		{"Sopas", model.CategoriaSopa},
		{"Caldos", model.CategoriaSopa},
		{"Extras", model.CategoriaExtra},
		{"Porción de patacones", model.CategoriaExtra},
		{"adicionales", model.CategoriaExtra},
		{"Postres", model.CategoriaOtro},
		{"", model.CategoriaOtro},
	}
	for _, c := range casos {
		assert.Equalf(t, c.esperada, service.NormalizarCategoria(c.entrada), "entrada %q", c.entrada)
	}
}

func TestCrearProducto_NormalizaYRechazaDuplicados(t *testing.T) {
	svc, _ := buildProductoSvc()

	resp, err := svc.Crear(context.Background(), dto.CrearProductoRequest{
		Nombre:    "Jugo de maracuyá",
		Categoria: "Bebidas naturales",
		Precio:    decimal.NewFromFloat(2.50),
		Stock:     24,
	})
	require.NoError(t, err)
	assert.Equal(t, model.CategoriaBebida, resp.Categoria)

	_, err = svc.Crear(context.Background(), dto.CrearProductoRequest{
		Nombre:    "Jugo de maracuyá",
		Categoria: "Bebidas",
		Precio:    decimal.NewFromFloat(3.00),
	})
	assert.ErrorContains(t, err, "ya existe")
}

func TestStockBajo_SoloCategoriasRastreadas(t *testing.T) {
	svc, repo := buildProductoSvc()

	seedProducto(repo, "Cola 500ml", model.CategoriaBebida, 1.00, 3)   // bajo
	seedProducto(repo, "Agua 500ml", model.CategoriaBebida, 0.75, 20)  // suficiente
	seedProducto(repo, "Arroz con pollo", model.CategoriaArroz, 10, 0) // plato: sin stock rastreado

	bajos, err := svc.StockBajo(context.Background())
	require.NoError(t, err)
	require.Len(t, bajos, 1)
	assert.Equal(t, "Cola 500ml", bajos[0].Nombre)
}

func TestAjustarStock(t *testing.T) {
	svc, repo := buildProductoSvc()
	cola := seedProducto(repo, "Cola 1L", model.CategoriaBebida, 1.50, 5)

	require.NoError(t, svc.AjustarStock(context.Background(), cola.ID, 12))
	assert.Equal(t, 12, cola.Stock)

	assert.Error(t, svc.AjustarStock(context.Background(), cola.ID, -1))
	assert.Error(t, svc.AjustarStock(context.Background(), uuid.New(), 5))
}

func TestConteosMenu(t *testing.T) {
	svc, repo := buildProductoSvc()
	seedProducto(repo, "Cola", model.CategoriaBebida, 1, 10)
	seedProducto(repo, "Jugo", model.CategoriaBebida, 2, 10)
	seedProducto(repo, "Arroz con pollo", model.CategoriaArroz, 10, 0)
	seedProducto(repo, "Sancocho", model.CategoriaSopa, 6, 0)

	conteos, err := svc.Conteos(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), conteos.Bebida)
	assert.Equal(t, int64(1), conteos.Arroz)
	assert.Equal(t, int64(1), conteos.Sopa)
	assert.Equal(t, int64(4), conteos.Total)
}

func TestActualizarProducto_CategoriaRenormalizada(t *testing.T) {
	svc, repo := buildProductoSvc()
	p := seedProducto(repo, "Patacones", model.CategoriaOtro, 3.00, 0)

	categoria := "Porción extra"
	nuevoPrecio := decimal.NewFromFloat(3.50)
	resp, err := svc.Actualizar(context.Background(), p.ID, dto.ActualizarProductoRequest{
		Categoria: &categoria,
		Precio:    &nuevoPrecio,
	})
	require.NoError(t, err)
	assert.Equal(t, model.CategoriaExtra, resp.Categoria)
	assert.Equal(t, "3.5", resp.Precio.String())
}
