package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ForecastRecord proyección derivada del libro; se recalcula en cada consulta.
type ForecastRecord struct {
	ProductID             string
	AvgUnitsPerDay        decimal.Decimal // pegs por día
	DaysRemaining         decimal.Decimal // cero si NoDepletion
	NoDepletion           bool            // consumo cero: no se proyecta agotamiento
	ProjectedStockOutDate *time.Time
	RecommendedReorderQty int64 // cajas
}

// StockOutProjection días restantes y fecha estimada de agotamiento.
type StockOutProjection struct {
	DaysRemaining decimal.Decimal
	NoDepletion   bool
	StockOutDate  *time.Time
}
