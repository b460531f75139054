package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un periodo del libro.
const (
	PeriodStatusOpen   = "OPEN"
	PeriodStatusClosed = "CLOSED"
)

// ProductLedgerEntry saldo de un producto en un periodo (normalmente un día).
// Invariante de conciliación:
//
//	CurrentStock.TotalMl == OpeningStock.TotalMl + Purchases.TotalMl - SalesPegs*60 - WastageMl  (±1 ml)
//
// Un periodo cerrado es inmutable y se conserva para auditoría.
type ProductLedgerEntry struct {
	ProductID    string
	Period       string // identificador del periodo, ej. "2026-10-17"
	Config       ProductConfig
	OpeningStock StockQuantity
	Purchases    StockQuantity // entradas acumuladas del periodo
	SalesPegs    decimal.Decimal
	WastageMl    decimal.Decimal
	CurrentStock StockQuantity
	Version      int64 // se incrementa en cada mutación (concurrencia optimista)
	Status       string
	OpenedAt     time.Time
	ClosedAt     *time.Time
	UpdatedAt    time.Time
}

// HasMovement indica si el periodo ya registró compras, ventas o mermas.
func (e ProductLedgerEntry) HasMovement() bool {
	return !e.Purchases.TotalMl.IsZero() || !e.SalesPegs.IsZero() || !e.WastageMl.IsZero()
}

// SalesMl ventas del periodo expresadas en ml.
func (e ProductLedgerEntry) SalesMl() decimal.Decimal {
	return e.SalesPegs.Mul(PegVolume)
}

// Clone copia independiente del registro (ClosedAt incluido).
func (e ProductLedgerEntry) Clone() ProductLedgerEntry {
	c := e
	if e.ClosedAt != nil {
		t := *e.ClosedAt
		c.ClosedAt = &t
	}
	return c
}
