package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PegMl volumen fijo de un peg (trago estándar) en mililitros.
const PegMl = 60

// PegVolume PegMl como decimal, para aritmética de cantidades.
var PegVolume = decimal.NewFromInt(PegMl)

// ProductConfig configuración inmutable de un producto del bar.
// MlPerBottle debe ser > 0; PegsPerBottle se deriva (MlPerBottle / 60).
type ProductConfig struct {
	Size           string          // etiqueta de presentación: "750ml", "Pint", "Quarter"
	MlPerBottle    decimal.Decimal // volumen de una botella
	BottlesPerCase int             // botellas por caja (pedidos al proveedor)
	Category       string          // clase de licor: IMFL, beer, wine...
}

// PegsPerBottle pegs de 60ml que contiene una botella.
func (c ProductConfig) PegsPerBottle() decimal.Decimal {
	return c.MlPerBottle.Div(PegVolume)
}

// Product producto registrado en el libro de existencias.
type Product struct {
	ID          string
	Name        string
	Config      ProductConfig
	TaxCategory TaxCategory // categoría usada en la factura (normalmente liquor)
	CreatedAt   time.Time
}
