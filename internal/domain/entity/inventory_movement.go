package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del libro de licores.
const (
	MovementTypeOPENING  = "OPENING"  // carga de stock inicial del periodo
	MovementTypePURCHASE = "PURCHASE" // entrada por compra
	MovementTypeSALE     = "SALE"     // salida por venta (peg o botella)
	MovementTypeWASTAGE  = "WASTAGE"  // merma, rotura
)

// Movement registro inmutable de una mutación del libro (solo inserción).
type Movement struct {
	ID        string
	ProductID string
	Period    string
	Type      string
	VolumeMl  decimal.Decimal // volumen unitario (ventas); igual a TotalMl en el resto
	Count     int
	TotalMl   decimal.Decimal
	Version   int64 // versión del saldo tras aplicar el movimiento
	At        time.Time
	CreatedBy string
	Note      string
}

// SaleEvent venta individual, entrada del pronóstico.
type SaleEvent struct {
	ProductID string
	At        time.Time
	VolumeMl  decimal.Decimal
	Count     int
	Pegs      decimal.Decimal
}

// SaleEventFromMovement convierte un movimiento SALE en evento de venta.
func SaleEventFromMovement(m Movement) SaleEvent {
	return SaleEvent{
		ProductID: m.ProductID,
		At:        m.At,
		VolumeMl:  m.VolumeMl,
		Count:     m.Count,
		Pegs:      m.TotalMl.Div(PegVolume),
	}
}

// DailySales pegs vendidos en un día calendario.
type DailySales struct {
	Day  time.Time
	Pegs decimal.Decimal
}
