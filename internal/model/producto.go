package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is a catalog item. Precios are mutated only by explicit edits and
// by RevisionPrecio apply/revert — never by the pricing engine, which is
// read-only over this type.
type Producto struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CodigoBarras string    `gorm:"uniqueIndex;not null"`
	Nombre       string    `gorm:"index;not null"`
	Descripcion  *string
	// CategoriaID is a typed FK — category membership checks (exclusiones de
	// listas de precios) are uuid set membership, never string comparison.
	CategoriaID  *uuid.UUID      `gorm:"type:uuid;index"`
	ProveedorID  *uuid.UUID      `gorm:"type:uuid;index"`
	PrecioCosto  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PrecioVenta  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	StockActual  int             `gorm:"not null;default:0"`
	UnidadMedida string          `gorm:"not null;default:'unidad'"`
	Activo       bool            `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Categoria *Categoria `gorm:"foreignKey:CategoriaID"`
	Proveedor *Proveedor `gorm:"foreignKey:ProveedorID"`
}
