package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/franmartos11/mvp-kioskos-sub001/internal/model"
)

var cien = decimal.NewFromInt(100)

// CalcularPrecio computes the unit sale price of a producto under `lista`.
// A nil lista, a zero adjustment, or an exclusion (by categoria or by
// producto) all yield the base PrecioVenta unchanged — exclusions are
// absolute overrides, independent of whether the adjustment would have
// benefited the buyer.
//
// Resolution and calculation are independent concerns: a lista with
// PorcentajeAjuste=0 can still be the resolved-active lista upstream; here
// it simply produces no numeric change.
func CalcularPrecio(p *model.Producto, lista *model.ListaPrecio) decimal.Decimal {
	if lista == nil || lista.PorcentajeAjuste.IsZero() {
		return p.PrecioVenta
	}
	if p.CategoriaID != nil && contieneUUID(lista.CategoriasExcluidas, *p.CategoriaID) {
		return p.PrecioVenta
	}
	if contieneUUID(lista.ProductosExcluidos, p.ID) {
		return p.PrecioVenta
	}

	factor := decimal.NewFromInt(1).Add(lista.PorcentajeAjuste.Div(cien))
	ajustado := p.PrecioVenta.Mul(factor)
	return Redondear(ajustado, lista.ReglaRedondeo)
}

// Redondear applies a lista's rounding rule. Multiples round half away from
// zero — 1150 under multiplo_100 becomes 1200, never 1100 — matching plain
// round(x/k)*k semantics. Unknown rules behave like RedondeoNinguno.
// Stable under repetition: rounding an already-rounded value is a no-op.
func Redondear(valor decimal.Decimal, regla string) decimal.Decimal {
	var multiplo decimal.Decimal
	switch regla {
	case model.RedondeoMultiplo10:
		multiplo = decimal.NewFromInt(10)
	case model.RedondeoMultiplo50:
		multiplo = decimal.NewFromInt(50)
	case model.RedondeoMultiplo100:
		multiplo = decimal.NewFromInt(100)
	default:
		return RedondeoMoneda(valor)
	}
	return valor.Div(multiplo).Round(0).Mul(multiplo)
}

// RedondeoMoneda normalizes a value to currency precision (2 decimals, half
// away from zero). Both the calculator and the bulk revision engine share
// this convention so audited snapshots round-trip exactly.
func RedondeoMoneda(valor decimal.Decimal) decimal.Decimal {
	return valor.Round(2)
}

func contieneUUID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidato := range ids {
		if candidato == id {
			return true
		}
	}
	return false
}
