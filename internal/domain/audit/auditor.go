// Package audit concilia los registros del libro contra el invariante de existencias.
// Nunca corrige: un descuadre se reporta para revisión humana (robo, rotura, medida de peg).
package audit

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/liquor-ledger/internal/domain"
	"github.com/jhoicas/liquor-ledger/internal/domain/entity"
)

// DefaultToleranceMl diferencia máxima (en valor absoluto) que se considera cuadrada.
var DefaultToleranceMl = decimal.NewFromInt(1)

// ReconciliationAuditor verifica inicial + compras - ventas - mermas == actual.
type ReconciliationAuditor struct {
	tolerance decimal.Decimal
}

// NewReconciliationAuditor construye el auditor. Una tolerancia <= 0 usa DefaultToleranceMl.
func NewReconciliationAuditor(toleranceMl decimal.Decimal) *ReconciliationAuditor {
	if !toleranceMl.IsPositive() {
		toleranceMl = DefaultToleranceMl
	}
	return &ReconciliationAuditor{tolerance: toleranceMl}
}

// Tolerance tolerancia en ml aplicada por el auditor.
func (a *ReconciliationAuditor) Tolerance() decimal.Decimal {
	return a.tolerance
}

// ExpectedMl stock esperado según los movimientos del periodo.
func ExpectedMl(e entity.ProductLedgerEntry) decimal.Decimal {
	return e.OpeningStock.TotalMl.
		Add(e.Purchases.TotalMl).
		Sub(e.SalesMl()).
		Sub(e.WastageMl)
}

// Audit recalcula el invariante y devuelve el descuadre con signo (real - esperado).
func (a *ReconciliationAuditor) Audit(e entity.ProductLedgerEntry) entity.AuditReport {
	expected := ExpectedMl(e)
	delta := e.CurrentStock.TotalMl.Sub(expected)
	return entity.AuditReport{
		ProductID:  e.ProductID,
		Period:     e.Period,
		OK:         delta.Abs().LessThanOrEqual(a.tolerance),
		DeltaMl:    delta,
		ExpectedMl: expected,
		ActualMl:   e.CurrentStock.TotalMl,
	}
}

// AuditAll audita todos los registros, en el mismo orden recibido.
func (a *ReconciliationAuditor) AuditAll(entries []entity.ProductLedgerEntry) []entity.AuditReport {
	reports := make([]entity.AuditReport, 0, len(entries))
	for _, e := range entries {
		reports = append(reports, a.Audit(e))
	}
	return reports
}

// Verify devuelve *domain.DiscrepancyError si el registro no cuadra.
func (a *ReconciliationAuditor) Verify(e entity.ProductLedgerEntry) error {
	r := a.Audit(e)
	if r.OK {
		return nil
	}
	return &domain.DiscrepancyError{ProductID: r.ProductID, Period: r.Period, DeltaMl: r.DeltaMl}
}

// Failed filtra los reportes con descuadre.
func Failed(reports []entity.AuditReport) []entity.AuditReport {
	var out []entity.AuditReport
	for _, r := range reports {
		if !r.OK {
			out = append(out, r)
		}
	}
	return out
}
