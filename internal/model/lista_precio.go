package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Reglas de redondeo soportadas por una lista de precios.
const (
	RedondeoNinguno     = "ninguno"
	RedondeoMultiplo10  = "multiplo_10"
	RedondeoMultiplo50  = "multiplo_50"
	RedondeoMultiplo100 = "multiplo_100"
)

// ReglaHorario defines one weekday/time-window slot during which a lista is
// eligible. Dia follows time.Weekday: 0 = domingo … 6 = sábado. Desde/Hasta
// are "HH:mm" on the same calendar day — a window never crosses midnight; a
// promotion spanning 22:00–02:00 is stored as two reglas on consecutive days.
type ReglaHorario struct {
	Dia   int    `json:"dia"`
	Desde string `json:"desde"`
	Hasta string `json:"hasta"`
}

// ListaPrecio is a named, schedulable discount/surcharge policy.
// PorcentajeAjuste is signed: negative = descuento, positive = recargo.
// A lista with no reglas is "always on" while Activa.
type ListaPrecio struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre           string          `gorm:"not null"`
	PorcentajeAjuste decimal.Decimal `gorm:"type:decimal(6,2);not null"`
	ReglaRedondeo    string          `gorm:"type:varchar(20);not null;default:'ninguno'"`
	Activa           bool            `gorm:"not null;default:true"`
	// Prioridad: higher wins among simultaneously matching listas. Ties are
	// broken by CreatedAt then ID, so resolution is deterministic even when
	// two listas share prioridad and overlapping windows.
	Prioridad           int            `gorm:"not null;default:0"`
	Reglas              []ReglaHorario `gorm:"serializer:json"`
	CategoriasExcluidas []uuid.UUID    `gorm:"serializer:json"`
	ProductosExcluidos  []uuid.UUID    `gorm:"serializer:json"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (ListaPrecio) TableName() string { return "listas_precios" }
