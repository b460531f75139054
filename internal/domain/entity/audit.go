package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditReport resultado de conciliar un registro del libro.
type AuditReport struct {
	ProductID  string
	Period     string
	OK         bool
	DeltaMl    decimal.Decimal // real - esperado, con signo
	ExpectedMl decimal.Decimal
	ActualMl   decimal.Decimal
}

// DiscrepancyFlag alerta de cumplimiento persistida hasta que una persona la resuelve.
type DiscrepancyFlag struct {
	ID         string
	ProductID  string
	Period     string
	DeltaMl    decimal.Decimal
	DetectedAt time.Time
	ResolvedAt *time.Time
	ResolvedBy string
	Resolution string
}

// Open indica si la alerta sigue pendiente.
func (f DiscrepancyFlag) Open() bool {
	return f.ResolvedAt == nil
}
