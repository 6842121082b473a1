package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// AplicarRevisionRequest selects the target set by exactly one of the three
// filter modes: explicit product IDs, a whole category, or a whole supplier.
// Porcentaje must be positive — the UI only supports increases.
type AplicarRevisionRequest struct {
	ProductoIDs  []string        `json:"producto_ids"  validate:"dive,uuid"`
	CategoriaID  *string         `json:"categoria_id"  validate:"omitempty,uuid"`
	ProveedorID  *string         `json:"proveedor_id"  validate:"omitempty,uuid"`
	Porcentaje   decimal.Decimal `json:"porcentaje"    validate:"required"`
	IncluirCosto bool            `json:"incluir_costo"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoAfectadoItem struct {
	ProductoID    string          `json:"producto_id"`
	PrecioAntes   decimal.Decimal `json:"precio_antes"`
	CostoAntes    decimal.Decimal `json:"costo_antes"`
	PrecioDespues decimal.Decimal `json:"precio_despues"`
	CostoDespues  decimal.Decimal `json:"costo_despues"`
}

type RevisionResponse struct {
	ID               string                 `json:"id"`
	TipoAccion       string                 `json:"tipo_accion"`
	Descripcion      string                 `json:"descripcion"`
	Usuario          string                 `json:"usuario"`
	Porcentaje       decimal.Decimal        `json:"porcentaje"`
	OrigenRevisionID *string                `json:"origen_revision_id,omitempty"`
	Afectados        []ProductoAfectadoItem `json:"afectados"`
	Discrepancias    []string               `json:"discrepancias,omitempty"`
	CreatedAt        string                 `json:"created_at"`
}

// RevisionListItem omits the per-product detail; Revertible is false for
// reversions and for aplicaciones that were already reverted.
type RevisionListItem struct {
	ID                string          `json:"id"`
	TipoAccion        string          `json:"tipo_accion"`
	Descripcion       string          `json:"descripcion"`
	Usuario           string          `json:"usuario"`
	Porcentaje        decimal.Decimal `json:"porcentaje"`
	OrigenRevisionID  *string         `json:"origen_revision_id,omitempty"`
	CantidadAfectados int             `json:"cantidad_afectados"`
	Revertible        bool            `json:"revertible"`
	CreatedAt         string          `json:"created_at"`
}

type RevisionListResponse struct {
	Data  []RevisionListItem `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// PrecioPreviewItem is one row of a bulk-change preview: the raw before/after
// plus the checkout price under the currently active lista, so the operator
// sees the real effect before committing.
type PrecioPreviewItem struct {
	ProductoID        string          `json:"producto_id"`
	Nombre            string          `json:"nombre"`
	PrecioActual      decimal.Decimal `json:"precio_actual"`
	PrecioNuevo       decimal.Decimal `json:"precio_nuevo"`
	CostoActual       decimal.Decimal `json:"costo_actual"`
	CostoNuevo        decimal.Decimal `json:"costo_nuevo"`
	PrecioConListaHoy decimal.Decimal `json:"precio_con_lista_hoy"`
}

type PreviewRevisionResponse struct {
	Porcentaje         decimal.Decimal     `json:"porcentaje"`
	ProductosAfectados int                 `json:"productos_afectados"`
	ListaActiva        *string             `json:"lista_activa,omitempty"`
	Preview            []PrecioPreviewItem `json:"preview"`
}
