package dto

import "github.com/shopspring/decimal"

// ConsultaPrecioResponse is returned by the public price check endpoint.
// PrecioFinal is the resolved checkout price; ListaAplicada names the lista
// that produced it, or is nil when the base price applies.
type ConsultaPrecioResponse struct {
	Nombre          string          `json:"nombre"`
	PrecioBase      decimal.Decimal `json:"precio_base"`
	PrecioFinal     decimal.Decimal `json:"precio_final"`
	ListaAplicada   *string         `json:"lista_aplicada,omitempty"`
	StockDisponible int             `json:"stock_disponible"`
}
