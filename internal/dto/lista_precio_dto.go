package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ReglaHorarioInput struct {
	Dia   int    `json:"dia"   validate:"min=0,max=6"`
	Desde string `json:"desde" validate:"required"`
	Hasta string `json:"hasta" validate:"required"`
}

type CrearListaPrecioRequest struct {
	Nombre              string              `json:"nombre"               validate:"required,min=2,max=120"`
	PorcentajeAjuste    decimal.Decimal     `json:"porcentaje_ajuste"`
	ReglaRedondeo       string              `json:"regla_redondeo"       validate:"omitempty,oneof=ninguno multiplo_10 multiplo_50 multiplo_100"`
	Prioridad           int                 `json:"prioridad"`
	Reglas              []ReglaHorarioInput `json:"reglas"               validate:"dive"`
	CategoriasExcluidas []string            `json:"categorias_excluidas" validate:"dive,uuid"`
	ProductosExcluidos  []string            `json:"productos_excluidos"  validate:"dive,uuid"`
}

type ActualizarListaPrecioRequest struct {
	Nombre              *string             `json:"nombre"               validate:"omitempty,min=2,max=120"`
	PorcentajeAjuste    *decimal.Decimal    `json:"porcentaje_ajuste"`
	ReglaRedondeo       *string             `json:"regla_redondeo"       validate:"omitempty,oneof=ninguno multiplo_10 multiplo_50 multiplo_100"`
	Activa              *bool               `json:"activa"`
	Prioridad           *int                `json:"prioridad"`
	Reglas              []ReglaHorarioInput `json:"reglas"               validate:"dive"`
	CategoriasExcluidas []string            `json:"categorias_excluidas" validate:"dive,uuid"`
	ProductosExcluidos  []string            `json:"productos_excluidos"  validate:"dive,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ReglaHorarioItem struct {
	Dia   int    `json:"dia"`
	Desde string `json:"desde"`
	Hasta string `json:"hasta"`
}

type ListaPrecioResponse struct {
	ID                  string             `json:"id"`
	Nombre              string             `json:"nombre"`
	PorcentajeAjuste    decimal.Decimal    `json:"porcentaje_ajuste"`
	ReglaRedondeo       string             `json:"regla_redondeo"`
	Activa              bool               `json:"activa"`
	Prioridad           int                `json:"prioridad"`
	Reglas              []ReglaHorarioItem `json:"reglas"`
	CategoriasExcluidas []string           `json:"categorias_excluidas"`
	ProductosExcluidos  []string           `json:"productos_excluidos"`
	CreatedAt           string             `json:"created_at"`
}
