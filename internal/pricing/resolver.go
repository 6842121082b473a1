// Package pricing contains the pure price-resolution core: selecting the
// lista de precios in effect at an instant and computing unit prices under
// exclusion and rounding rules. Nothing here touches the database — callers
// supply the data, which keeps checkout pricing deterministic and testable.
package pricing

import (
	"sort"
	"time"

	"github.com/franmartos11/mvp-kioskos-sub001/internal/model"
)

// horaLayout parses the "HH:mm" strings stored in ReglaHorario.
const horaLayout = "15:04"

// ResolverListaActiva selects the single lista in effect at `ahora`, or nil
// when none applies. Listas with Activa=false are never returned regardless
// of their schedule. Among matching listas the highest Prioridad wins; ties
// fall back to creation order (CreatedAt, then ID) so that equal-priority
// overlapping windows resolve the same way on every call.
//
// A lista without reglas matches unconditionally and short-circuits: an
// unconstrained baseline always beats lower-priority scheduled listas, so a
// scheduled lista must outrank the baseline to ever take effect.
//
// Pure function of its arguments — no caching, re-evaluated on every call.
func ResolverListaActiva(listas []model.ListaPrecio, ahora time.Time) *model.ListaPrecio {
	candidatas := make([]*model.ListaPrecio, 0, len(listas))
	for i := range listas {
		if listas[i].Activa {
			candidatas = append(candidatas, &listas[i])
		}
	}

	sort.SliceStable(candidatas, func(i, j int) bool {
		a, b := candidatas[i], candidatas[j]
		if a.Prioridad != b.Prioridad {
			return a.Prioridad > b.Prioridad
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})

	for _, lista := range candidatas {
		if len(lista.Reglas) == 0 {
			return lista
		}
		for _, regla := range lista.Reglas {
			if reglaContiene(regla, ahora) {
				return lista
			}
		}
	}
	return nil
}

// reglaContiene reports whether `ahora` falls inside the regla's window on
// its weekday. The interval is closed on both ends. Malformed time strings
// make the regla unmatched rather than failing resolution — one bad regla
// must never take down checkout pricing.
func reglaContiene(regla model.ReglaHorario, ahora time.Time) bool {
	if int(ahora.Weekday()) != regla.Dia {
		return false
	}
	desde, err := time.Parse(horaLayout, regla.Desde)
	if err != nil {
		return false
	}
	hasta, err := time.Parse(horaLayout, regla.Hasta)
	if err != nil {
		return false
	}

	// Closed interval at minute granularity: the whole Hasta minute counts,
	// so a regla ending 23:59 covers the day right up to midnight.
	y, m, d := ahora.Date()
	loc := ahora.Location()
	inicio := time.Date(y, m, d, desde.Hour(), desde.Minute(), 0, 0, loc)
	fin := time.Date(y, m, d, hasta.Hour(), hasta.Minute(), 0, 0, loc).Add(time.Minute - time.Nanosecond)

	return !ahora.Before(inicio) && !ahora.After(fin)
}
