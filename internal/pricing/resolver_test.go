package pricing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franmartos11/mvp-kioskos-sub001/internal/model"
)

// lunes 2026-08-24 10:30 — the reference instant for schedule tests (Dia 1).
var lunesManana = time.Date(2026, 8, 24, 10, 30, 0, 0, time.UTC)

func nuevaLista(nombre string, prioridad int, reglas []model.ReglaHorario, createdAt time.Time) model.ListaPrecio {
	return model.ListaPrecio{
		ID:               uuid.New(),
		Nombre:           nombre,
		PorcentajeAjuste: decimal.NewFromInt(10),
		ReglaRedondeo:    model.RedondeoNinguno,
		Activa:           true,
		Prioridad:        prioridad,
		Reglas:           reglas,
		CreatedAt:        createdAt,
	}
}

func TestResolver_SinListas(t *testing.T) {
	assert.Nil(t, ResolverListaActiva(nil, lunesManana))
	assert.Nil(t, ResolverListaActiva([]model.ListaPrecio{}, lunesManana))
}

func TestResolver_InactivasNuncaGanan(t *testing.T) {
	l := nuevaLista("apagada", 100, nil, lunesManana.Add(-time.Hour))
	l.Activa = false
	assert.Nil(t, ResolverListaActiva([]model.ListaPrecio{l}, lunesManana))
}

func TestResolver_SinReglasSiempreVigente(t *testing.T) {
	base := nuevaLista("baseline", 0, nil, lunesManana.Add(-24*time.Hour))
	got := ResolverListaActiva([]model.ListaPrecio{base}, lunesManana)
	require.NotNil(t, got)
	assert.Equal(t, "baseline", got.Nombre)

	// Any instant, any weekday
	got = ResolverListaActiva([]model.ListaPrecio{base}, lunesManana.Add(90*time.Hour))
	require.NotNil(t, got)
	assert.Equal(t, "baseline", got.Nombre)
}

func TestResolver_MayorPrioridadGana(t *testing.T) {
	baja := nuevaLista("baja", 5, nil, lunesManana.Add(-48*time.Hour))
	alta := nuevaLista("alta", 10, nil, lunesManana.Add(-time.Hour))

	got := ResolverListaActiva([]model.ListaPrecio{baja, alta}, lunesManana)
	require.NotNil(t, got)
	assert.Equal(t, "alta", got.Nombre)
}

func TestResolver_BaselineContraProgramada(t *testing.T) {
	// Baseline at priority -1, happy hour lunes 17:00-19:59 at priority 5.
	baseline := nuevaLista("baseline", -1, nil, lunesManana.Add(-72*time.Hour))
	happy := nuevaLista("happy-hour", 5, []model.ReglaHorario{
		{Dia: 1, Desde: "17:00", Hasta: "19:59"},
	}, lunesManana.Add(-24*time.Hour))
	listas := []model.ListaPrecio{baseline, happy}

	// 10:30 — outside the window, baseline wins
	got := ResolverListaActiva(listas, lunesManana)
	require.NotNil(t, got)
	assert.Equal(t, "baseline", got.Nombre)

	// 18:00 — inside the window, the scheduled lista outranks the baseline
	tarde := time.Date(2026, 8, 24, 18, 0, 0, 0, time.UTC)
	got = ResolverListaActiva(listas, tarde)
	require.NotNil(t, got)
	assert.Equal(t, "happy-hour", got.Nombre)

	// martes 18:00 — wrong weekday, baseline again
	martes := tarde.Add(24 * time.Hour)
	got = ResolverListaActiva(listas, martes)
	require.NotNil(t, got)
	assert.Equal(t, "baseline", got.Nombre)
}

func TestResolver_IntervaloCerradoIncluyeMinutoHasta(t *testing.T) {
	happy := nuevaLista("happy-hour", 5, []model.ReglaHorario{
		{Dia: 1, Desde: "17:00", Hasta: "19:59"},
	}, lunesManana)
	listas := []model.ListaPrecio{happy}

	// Exactly at Desde
	assert.NotNil(t, ResolverListaActiva(listas, time.Date(2026, 8, 24, 17, 0, 0, 0, time.UTC)))
	// Last second of the Hasta minute still matches
	assert.NotNil(t, ResolverListaActiva(listas, time.Date(2026, 8, 24, 19, 59, 59, 0, time.UTC)))
	// The next minute does not
	assert.Nil(t, ResolverListaActiva(listas, time.Date(2026, 8, 24, 20, 0, 0, 0, time.UTC)))
	// Just before Desde does not
	assert.Nil(t, ResolverListaActiva(listas, time.Date(2026, 8, 24, 16, 59, 59, 0, time.UTC)))
}

func TestResolver_EmpateResuelvePorCreacion(t *testing.T) {
	primera := nuevaLista("primera", 5, nil, lunesManana.Add(-48*time.Hour))
	segunda := nuevaLista("segunda", 5, nil, lunesManana.Add(-24*time.Hour))

	// Same result regardless of slice order
	got := ResolverListaActiva([]model.ListaPrecio{segunda, primera}, lunesManana)
	require.NotNil(t, got)
	assert.Equal(t, "primera", got.Nombre)

	got = ResolverListaActiva([]model.ListaPrecio{primera, segunda}, lunesManana)
	require.NotNil(t, got)
	assert.Equal(t, "primera", got.Nombre)
}

func TestResolver_ReglaMalformadaSeOmite(t *testing.T) {
	rota := nuevaLista("rota", 10, []model.ReglaHorario{
		{Dia: 1, Desde: "veinticinco", Hasta: "19:00"},
	}, lunesManana.Add(-48*time.Hour))
	sana := nuevaLista("sana", 1, nil, lunesManana.Add(-24*time.Hour))

	// The malformed regla never matches; resolution continues to lower priority
	got := ResolverListaActiva([]model.ListaPrecio{rota, sana}, lunesManana)
	require.NotNil(t, got)
	assert.Equal(t, "sana", got.Nombre)
}

func TestResolver_VariasReglasUnaAlcanza(t *testing.T) {
	finDeSemana := nuevaLista("finde", 5, []model.ReglaHorario{
		{Dia: 6, Desde: "00:00", Hasta: "23:59"},
		{Dia: 0, Desde: "00:00", Hasta: "23:59"},
	}, lunesManana.Add(-24*time.Hour))
	listas := []model.ListaPrecio{finDeSemana}

	// sabado 2026-08-29
	sabado := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	assert.NotNil(t, ResolverListaActiva(listas, sabado))
	// domingo 2026-08-30
	domingo := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	assert.NotNil(t, ResolverListaActiva(listas, domingo))
	// lunes
	assert.Nil(t, ResolverListaActiva(listas, lunesManana))
}
