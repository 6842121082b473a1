package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	CodigoBarras string          `json:"codigo_barras" validate:"required,min=8,max=18"`
	Nombre       string          `json:"nombre"        validate:"required,min=2,max=120"`
	Descripcion  *string         `json:"descripcion"`
	CategoriaID  *string         `json:"categoria_id"  validate:"omitempty,uuid"`
	ProveedorID  *string         `json:"proveedor_id"  validate:"omitempty,uuid"`
	PrecioCosto  decimal.Decimal `json:"precio_costo"  validate:"required"`
	PrecioVenta  decimal.Decimal `json:"precio_venta"  validate:"required"`
	StockActual  int             `json:"stock_actual"  validate:"min=0"`
	UnidadMedida string          `json:"unidad_medida"`
}

type ActualizarProductoRequest struct {
	Nombre       *string          `json:"nombre"        validate:"omitempty,min=2,max=120"`
	Descripcion  *string          `json:"descripcion"`
	CategoriaID  *string          `json:"categoria_id"  validate:"omitempty,uuid"`
	ProveedorID  *string          `json:"proveedor_id"  validate:"omitempty,uuid"`
	PrecioCosto  *decimal.Decimal `json:"precio_costo"`
	PrecioVenta  *decimal.Decimal `json:"precio_venta"`
	UnidadMedida *string          `json:"unidad_medida"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductoFilter struct {
	Barcode     string `form:"barcode"`
	Nombre      string `form:"nombre"`
	CategoriaID string `form:"categoria_id"`
	ProveedorID string `form:"proveedor_id"`
	Activo      string `form:"activo"`
	Page        int    `form:"page,default=1"  validate:"min=1"`
	Limit       int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID           string          `json:"id"`
	CodigoBarras string          `json:"codigo_barras"`
	Nombre       string          `json:"nombre"`
	Descripcion  *string         `json:"descripcion"`
	CategoriaID  *string         `json:"categoria_id"`
	ProveedorID  *string         `json:"proveedor_id"`
	PrecioCosto  decimal.Decimal `json:"precio_costo"`
	PrecioVenta  decimal.Decimal `json:"precio_venta"`
	StockActual  int             `json:"stock_actual"`
	UnidadMedida string          `json:"unidad_medida"`
	Activo       bool            `json:"activo"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
