package entity

import "github.com/shopspring/decimal"

// Quantity cantidad capturada por el usuario: botellas completas más pegs sueltos.
type Quantity struct {
	Bottles decimal.Decimal
	Pegs    decimal.Decimal
}

// StockQuantity cantidad de stock expresada de forma consistente.
// TotalMl es la representación canónica; el resto son vistas derivadas para mostrar.
// TotalMl = TotalBottles*MlPerBottle + LoosePegs*60; TotalPegs = TotalMl/60.
type StockQuantity struct {
	TotalBottles decimal.Decimal // botellas completas (entero)
	TotalPegs    decimal.Decimal // pegs vendibles totales, sin truncar
	LoosePegs    decimal.Decimal // pegs de la botella abierta, fraccionario
	TotalMl      decimal.Decimal
}

// DisplayLoosePegs pegs sueltos redondeados a un decimal.
func (q StockQuantity) DisplayLoosePegs() decimal.Decimal {
	return q.LoosePegs.Round(1)
}

// IsZero indica si no hay stock.
func (q StockQuantity) IsZero() bool {
	return q.TotalMl.IsZero()
}
