package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franmartos11/mvp-kioskos-sub001/internal/dto"
	"github.com/franmartos11/mvp-kioskos-sub001/internal/model"
)

func nuevaListaService() (ListaPrecioService, *stubListaRepo) {
	repo := newStubListaRepo()
	return NewListaPrecioService(repo, nil), repo
}

func TestCrearLista_ReglaConDiaFueraDeRango(t *testing.T) {
	svc, _ := nuevaListaService()

	for _, dia := range []int{-1, 7} {
		_, err := svc.Crear(context.Background(), dto.CrearListaPrecioRequest{
			Nombre: "Happy hour",
			Reglas: []dto.ReglaHorarioInput{{Dia: dia, Desde: "17:00", Hasta: "19:59"}},
		})
		require.Error(t, err, "dia=%d", dia)
		assert.Contains(t, err.Error(), "dia fuera de rango")
	}
}

func TestCrearLista_HorarioMalFormado(t *testing.T) {
	svc, _ := nuevaListaService()

	casos := []struct{ desde, hasta string }{
		{"25:00", "19:59"},
		{"17:00", "9pm"},
		{"cinco", "19:59"},
	}
	for _, c := range casos {
		_, err := svc.Crear(context.Background(), dto.CrearListaPrecioRequest{
			Nombre: "Happy hour",
			Reglas: []dto.ReglaHorarioInput{{Dia: 1, Desde: c.desde, Hasta: c.hasta}},
		})
		assert.Error(t, err, "desde=%s hasta=%s", c.desde, c.hasta)
	}
}

func TestCrearLista_NoPuedeCruzarMedianoche(t *testing.T) {
	svc, _ := nuevaListaService()

	_, err := svc.Crear(context.Background(), dto.CrearListaPrecioRequest{
		Nombre: "Nocturna",
		Reglas: []dto.ReglaHorarioInput{{Dia: 5, Desde: "22:00", Hasta: "02:00"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "medianoche")
}

func TestCrearLista_AjusteMenorOIgualAMenosCien(t *testing.T) {
	svc, _ := nuevaListaService()

	for _, pct := range []int64{-100, -150} {
		_, err := svc.Crear(context.Background(), dto.CrearListaPrecioRequest{
			Nombre:           "Regalada",
			PorcentajeAjuste: decimal.NewFromInt(pct),
		})
		assert.Error(t, err, "pct=%d", pct)
	}

	// -99.99 todavía es un descuento válido
	_, err := svc.Crear(context.Background(), dto.CrearListaPrecioRequest{
		Nombre:           "Liquidacion",
		PorcentajeAjuste: decimal.RequireFromString("-99.99"),
	})
	assert.NoError(t, err)
}

func TestCrearLista_RedondeoVacioQuedaEnNinguno(t *testing.T) {
	svc, repo := nuevaListaService()

	resp, err := svc.Crear(context.Background(), dto.CrearListaPrecioRequest{
		Nombre:           "Base",
		PorcentajeAjuste: decimal.Zero,
	})
	require.NoError(t, err)
	assert.Equal(t, model.RedondeoNinguno, resp.ReglaRedondeo)
	assert.True(t, resp.Activa, "una lista nueva nace activa")

	guardada, err := repo.FindByID(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)
	assert.Equal(t, model.RedondeoNinguno, guardada.ReglaRedondeo)
}

func TestCrearLista_ExclusionInvalida(t *testing.T) {
	svc, _ := nuevaListaService()

	_, err := svc.Crear(context.Background(), dto.CrearListaPrecioRequest{
		Nombre:              "Con exclusiones",
		CategoriasExcluidas: []string{"no-es-uuid"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "categorias_excluidas")
}

func TestActualizarLista_Parcial(t *testing.T) {
	svc, _ := nuevaListaService()

	creada, err := svc.Crear(context.Background(), dto.CrearListaPrecioRequest{
		Nombre:           "Happy hour",
		PorcentajeAjuste: decimal.NewFromInt(-10),
		ReglaRedondeo:    model.RedondeoMultiplo50,
		Prioridad:        5,
		Reglas:           []dto.ReglaHorarioInput{{Dia: 1, Desde: "17:00", Hasta: "19:59"}},
	})
	require.NoError(t, err)

	nuevoPct := decimal.NewFromInt(-15)
	inactiva := false
	resp, err := svc.Actualizar(context.Background(), uuid.MustParse(creada.ID), dto.ActualizarListaPrecioRequest{
		PorcentajeAjuste: &nuevoPct,
		Activa:           &inactiva,
	})
	require.NoError(t, err)

	assert.True(t, resp.PorcentajeAjuste.Equal(nuevoPct))
	assert.False(t, resp.Activa)
	// Lo no enviado se conserva.
	assert.Equal(t, "Happy hour", resp.Nombre)
	assert.Equal(t, model.RedondeoMultiplo50, resp.ReglaRedondeo)
	assert.Equal(t, 5, resp.Prioridad)
	require.Len(t, resp.Reglas, 1)
	assert.Equal(t, "17:00", resp.Reglas[0].Desde)
}

func TestActualizarLista_ValidaLoNuevo(t *testing.T) {
	svc, _ := nuevaListaService()

	creada, err := svc.Crear(context.Background(), dto.CrearListaPrecioRequest{Nombre: "Base"})
	require.NoError(t, err)

	malPct := decimal.NewFromInt(-200)
	_, err = svc.Actualizar(context.Background(), uuid.MustParse(creada.ID), dto.ActualizarListaPrecioRequest{
		PorcentajeAjuste: &malPct,
	})
	assert.Error(t, err)

	_, err = svc.Actualizar(context.Background(), uuid.MustParse(creada.ID), dto.ActualizarListaPrecioRequest{
		Reglas: []dto.ReglaHorarioInput{{Dia: 9, Desde: "17:00", Hasta: "19:59"}},
	})
	assert.Error(t, err)
}

func TestLista_NoEncontrada(t *testing.T) {
	svc, _ := nuevaListaService()
	id := uuid.New()

	_, err := svc.Obtener(context.Background(), id)
	assert.ErrorIs(t, err, ErrListaNoEncontrada)

	_, err = svc.Actualizar(context.Background(), id, dto.ActualizarListaPrecioRequest{})
	assert.ErrorIs(t, err, ErrListaNoEncontrada)

	err = svc.Eliminar(context.Background(), id)
	assert.ErrorIs(t, err, ErrListaNoEncontrada)
}

func TestEliminarLista(t *testing.T) {
	svc, repo := nuevaListaService()

	creada, err := svc.Crear(context.Background(), dto.CrearListaPrecioRequest{Nombre: "Temporal"})
	require.NoError(t, err)
	id := uuid.MustParse(creada.ID)

	require.NoError(t, svc.Eliminar(context.Background(), id))
	_, err = repo.FindByID(context.Background(), id)
	assert.Error(t, err)
}
