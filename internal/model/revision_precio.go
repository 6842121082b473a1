package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Acciones registradas en el log de revisiones.
const (
	AccionAplicar  = "aplicacion"
	AccionRevertir = "reversion"
)

// ProductoAfectado is one before/after pair inside a RevisionPrecio.
// On a reversion record the "antes" side is the applied value and the
// "despues" side is the restored one, so the revert itself is auditable.
type ProductoAfectado struct {
	ProductoID    uuid.UUID       `json:"producto_id"`
	PrecioAntes   decimal.Decimal `json:"precio_antes"`
	CostoAntes    decimal.Decimal `json:"costo_antes"`
	PrecioDespues decimal.Decimal `json:"precio_despues"`
	CostoDespues  decimal.Decimal `json:"costo_despues"`
}

// RevisionPrecio registra cada cambio masivo de precios.
// Los registros son inmutables — una reversión crea un registro nuevo en
// lugar de modificar el original, y cada aplicación puede revertirse a lo
// sumo una vez (índice único sobre origen_revision_id).
type RevisionPrecio struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TipoAccion  string          `gorm:"type:varchar(20);not null;index"`
	Descripcion string          `gorm:"not null"`
	Usuario     string          `gorm:"not null"`
	Porcentaje  decimal.Decimal `gorm:"type:decimal(6,2);not null"`
	// OrigenRevisionID links a reversion to the aplicacion it undoes. The
	// unique index is what serializes concurrent reverts of the same record.
	OrigenRevisionID *uuid.UUID         `gorm:"type:uuid;uniqueIndex"`
	Afectados        []ProductoAfectado `gorm:"serializer:json"`
	Discrepancias    []string           `gorm:"serializer:json"`
	CreatedAt        time.Time
}

func (RevisionPrecio) TableName() string { return "revisiones_precios" }
