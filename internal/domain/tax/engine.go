// Package tax resuelve tasas y calcula impuestos indirectos (CGST/SGST/IGST/Excise)
// por línea y por factura. No tiene estado.
package tax

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/liquor-ledger/internal/domain"
	"github.com/jhoicas/liquor-ledger/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

func pct(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func breakdown(cgst, sgst, igst, excise string) entity.TaxBreakdown {
	b := entity.TaxBreakdown{
		CGSTRate:   pct(cgst),
		SGSTRate:   pct(sgst),
		IGSTRate:   pct(igst),
		ExciseRate: pct(excise),
	}
	b.TotalTaxRate = b.CGSTRate.Add(b.SGSTRate).Add(b.IGSTRate).Add(b.ExciseRate)
	return b
}

// rateTable tabla única de tasas: categoría -> interestatal -> desglose.
var rateTable = map[entity.TaxCategory]map[bool]entity.TaxBreakdown{
	entity.TaxCategoryFood: {
		false: breakdown("2.5", "2.5", "0", "0"),
		true:  breakdown("0", "0", "5", "0"),
	},
	entity.TaxCategoryBeverages: {
		false: breakdown("2.5", "2.5", "0", "0"),
		true:  breakdown("0", "0", "5", "0"),
	},
	entity.TaxCategoryRoom: {
		false: breakdown("2.5", "2.5", "0", "0"),
		true:  breakdown("0", "0", "5", "0"),
	},
	entity.TaxCategoryLiquor: {
		false: breakdown("9", "9", "0", "25"),
		true:  breakdown("0", "0", "18", "25"),
	},
	entity.TaxCategoryOther: {
		false: breakdown("9", "9", "0", "0"),
		true:  breakdown("0", "0", "18", "0"),
	},
}

// Engine motor de impuestos.
type Engine struct{}

// NewEngine construye el motor.
func NewEngine() *Engine { return &Engine{} }

// ParseCategory convierte el texto recibido en la frontera HTTP a la categoría cerrada.
func ParseCategory(s string) (entity.TaxCategory, error) {
	c := entity.TaxCategory(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidCategory, s)
	}
	return c, nil
}

// GetTaxRates tasas nominales de la categoría. En licor, TotalTaxRate suma las tasas nominales;
// la carga efectiva es mayor porque el GST se aplica sobre importe + excise.
func (e *Engine) GetTaxRates(category entity.TaxCategory, isInterState bool) (entity.TaxBreakdown, error) {
	byState, ok := rateTable[category]
	if !ok {
		return entity.TaxBreakdown{}, fmt.Errorf("%w: %q", domain.ErrInvalidCategory, category)
	}
	return byState[isInterState], nil
}

// CalculateTax impuestos de un importe. Para licor el excise se calcula primero sobre el importe
// y el GST/IGST sobre importe + excise; para el resto el GST va directo sobre el importe.
func (e *Engine) CalculateTax(amount decimal.Decimal, category entity.TaxCategory, isInterState bool) (entity.TaxCalculation, error) {
	if amount.IsNegative() {
		return entity.TaxCalculation{}, fmt.Errorf("%w: importe negativo %s", domain.ErrInvalidInput, amount)
	}
	rates, err := e.GetTaxRates(category, isInterState)
	if err != nil {
		return entity.TaxCalculation{}, err
	}

	excise := amount.Mul(rates.ExciseRate).Div(hundred)
	base := amount.Add(excise)

	calc := entity.TaxCalculation{
		Subtotal:  amount,
		CGST:      base.Mul(rates.CGSTRate).Div(hundred),
		SGST:      base.Mul(rates.SGSTRate).Div(hundred),
		IGST:      base.Mul(rates.IGSTRate).Div(hundred),
		Excise:    excise,
		Breakdown: rates,
	}
	calc.TotalTax = calc.CGST.Add(calc.SGST).Add(calc.IGST).Add(calc.Excise)
	calc.Total = amount.Add(calc.TotalTax)
	return calc, nil
}

// CalculateBillTax agrupa las líneas por categoría, calcula cada grupo y suma los componentes.
// Las tasas del desglose final son efectivas (impuesto / subtotal * 100), de modo que una factura
// mixta reporta una sola tasa combinada. Con subtotal cero las tasas son 0.
func (e *Engine) CalculateBillTax(items []entity.TaxLineItem, isInterState bool) (entity.TaxCalculation, error) {
	sums := make(map[entity.TaxCategory]decimal.Decimal, len(entity.TaxCategories))
	for _, item := range items {
		if !item.Category.Valid() {
			return entity.TaxCalculation{}, fmt.Errorf("%w: %q", domain.ErrInvalidCategory, item.Category)
		}
		if item.Amount.IsNegative() {
			return entity.TaxCalculation{}, fmt.Errorf("%w: importe negativo %s", domain.ErrInvalidInput, item.Amount)
		}
		sums[item.Category] = sums[item.Category].Add(item.Amount)
	}

	var bill entity.TaxCalculation
	for _, category := range entity.TaxCategories {
		amount, ok := sums[category]
		if !ok {
			continue
		}
		calc, err := e.CalculateTax(amount, category, isInterState)
		if err != nil {
			return entity.TaxCalculation{}, err
		}
		bill.Subtotal = bill.Subtotal.Add(calc.Subtotal)
		bill.CGST = bill.CGST.Add(calc.CGST)
		bill.SGST = bill.SGST.Add(calc.SGST)
		bill.IGST = bill.IGST.Add(calc.IGST)
		bill.Excise = bill.Excise.Add(calc.Excise)
		bill.Groups = append(bill.Groups, entity.CategoryTax{Category: category, Calculation: calc})
	}
	bill.TotalTax = bill.CGST.Add(bill.SGST).Add(bill.IGST).Add(bill.Excise)
	bill.Total = bill.Subtotal.Add(bill.TotalTax)
	bill.Breakdown = entity.TaxBreakdown{
		CGSTRate:     effectiveRate(bill.CGST, bill.Subtotal),
		SGSTRate:     effectiveRate(bill.SGST, bill.Subtotal),
		IGSTRate:     effectiveRate(bill.IGST, bill.Subtotal),
		ExciseRate:   effectiveRate(bill.Excise, bill.Subtotal),
		TotalTaxRate: effectiveRate(bill.TotalTax, bill.Subtotal),
	}
	return bill, nil
}

func effectiveRate(tax, subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.IsZero() {
		return decimal.Zero
	}
	return tax.Div(subtotal).Mul(hundred)
}
