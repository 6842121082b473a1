package pricing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/franmartos11/mvp-kioskos-sub001/internal/model"
)

func producto(precio int64) *model.Producto {
	return &model.Producto{
		ID:          uuid.New(),
		Nombre:      "test",
		PrecioVenta: decimal.NewFromInt(precio),
	}
}

func lista(pct int64, redondeo string) *model.ListaPrecio {
	return &model.ListaPrecio{
		ID:               uuid.New(),
		Nombre:           "lista",
		PorcentajeAjuste: decimal.NewFromInt(pct),
		ReglaRedondeo:    redondeo,
		Activa:           true,
	}
}

func TestCalcular_SinListaDevuelveBase(t *testing.T) {
	p := producto(1000)
	assert.True(t, CalcularPrecio(p, nil).Equal(decimal.NewFromInt(1000)))
}

func TestCalcular_AjusteCeroDevuelveBase(t *testing.T) {
	p := producto(1000)
	l := lista(0, model.RedondeoMultiplo100)
	assert.True(t, CalcularPrecio(p, l).Equal(decimal.NewFromInt(1000)))
}

func TestCalcular_DescuentoConMultiplo50(t *testing.T) {
	// 1000 − 10% = 900, already a multiple of 50
	p := producto(1000)
	l := lista(-10, model.RedondeoMultiplo50)
	assert.True(t, CalcularPrecio(p, l).Equal(decimal.NewFromInt(900)))
}

func TestCalcular_RecargoConMultiplo100(t *testing.T) {
	// 1000 + 15% = 1150 → rounds half away from zero to 1200, never 1100
	p := producto(1000)
	l := lista(15, model.RedondeoMultiplo100)
	assert.True(t, CalcularPrecio(p, l).Equal(decimal.NewFromInt(1200)))
}

func TestCalcular_ExclusionPorCategoria(t *testing.T) {
	catID := uuid.New()
	p := producto(1000)
	p.CategoriaID = &catID
	l := lista(50, model.RedondeoNinguno)
	l.CategoriasExcluidas = []uuid.UUID{catID}

	assert.True(t, CalcularPrecio(p, l).Equal(decimal.NewFromInt(1000)))
}

func TestCalcular_ExclusionPorProducto(t *testing.T) {
	p := producto(1000)
	l := lista(-50, model.RedondeoNinguno) // even a discount is overridden
	l.ProductosExcluidos = []uuid.UUID{p.ID}

	assert.True(t, CalcularPrecio(p, l).Equal(decimal.NewFromInt(1000)))
}

func TestCalcular_SinReglaRedondeoNormalizaMoneda(t *testing.T) {
	// 999 + 10% = 1098.9 — "ninguno" keeps 2-decimal currency precision
	p := producto(999)
	l := lista(10, model.RedondeoNinguno)
	assert.True(t, CalcularPrecio(p, l).Equal(decimal.NewFromFloat(1098.9)))
}

func TestRedondear_MediosSeAlejanDeCero(t *testing.T) {
	casos := []struct {
		valor   float64
		regla   string
		esperado int64
	}{
		{1145, model.RedondeoMultiplo10, 1150},
		{1144.99, model.RedondeoMultiplo10, 1140},
		{1125, model.RedondeoMultiplo50, 1150},
		{1124, model.RedondeoMultiplo50, 1100},
		{1150, model.RedondeoMultiplo100, 1200},
		{1149.99, model.RedondeoMultiplo100, 1100},
	}
	for _, c := range casos {
		got := Redondear(decimal.NewFromFloat(c.valor), c.regla)
		assert.True(t, got.Equal(decimal.NewFromInt(c.esperado)),
			"Redondear(%v, %s) = %s, esperado %d", c.valor, c.regla, got, c.esperado)
	}
}

func TestRedondear_Idempotente(t *testing.T) {
	reglas := []string{
		model.RedondeoNinguno,
		model.RedondeoMultiplo10,
		model.RedondeoMultiplo50,
		model.RedondeoMultiplo100,
	}
	valores := []decimal.Decimal{
		decimal.NewFromFloat(1098.9),
		decimal.NewFromInt(1145),
		decimal.NewFromFloat(0.005),
		decimal.NewFromInt(-37),
	}
	for _, regla := range reglas {
		for _, v := range valores {
			una := Redondear(v, regla)
			dos := Redondear(una, regla)
			assert.True(t, una.Equal(dos), "doble redondeo cambia %s bajo %s: %s != %s", v, regla, una, dos)
		}
	}
}

func TestRedondear_ReglaDesconocidaComoNinguno(t *testing.T) {
	v := decimal.NewFromFloat(10.555)
	assert.True(t, Redondear(v, "multiplo_7").Equal(RedondeoMoneda(v)))
}
