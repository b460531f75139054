package entity

import "github.com/shopspring/decimal"

// TaxCategory categoría de impuesto de una línea de factura (conjunto cerrado).
type TaxCategory string

const (
	TaxCategoryFood      TaxCategory = "food"
	TaxCategoryBeverages TaxCategory = "beverages"
	TaxCategoryLiquor    TaxCategory = "liquor"
	TaxCategoryRoom      TaxCategory = "room"
	TaxCategoryOther     TaxCategory = "other"
)

// TaxCategories todas las categorías, en el orden usado para agrupar facturas.
var TaxCategories = []TaxCategory{
	TaxCategoryFood,
	TaxCategoryBeverages,
	TaxCategoryLiquor,
	TaxCategoryRoom,
	TaxCategoryOther,
}

// Valid indica si la categoría pertenece al conjunto cerrado.
func (c TaxCategory) Valid() bool {
	for _, k := range TaxCategories {
		if c == k {
			return true
		}
	}
	return false
}

// TaxLineItem línea de factura producida por el flujo de facturación. No se persiste.
type TaxLineItem struct {
	Amount   decimal.Decimal // >= 0
	Category TaxCategory
}

// TaxBreakdown tasas en porcentaje (2.5 = 2.5%).
type TaxBreakdown struct {
	CGSTRate     decimal.Decimal
	SGSTRate     decimal.Decimal
	IGSTRate     decimal.Decimal
	ExciseRate   decimal.Decimal // solo licor
	TotalTaxRate decimal.Decimal
}

// TaxCalculation resultado de un cálculo de impuestos (línea, grupo o factura).
type TaxCalculation struct {
	Subtotal  decimal.Decimal
	CGST      decimal.Decimal
	SGST      decimal.Decimal
	IGST      decimal.Decimal
	Excise    decimal.Decimal
	TotalTax  decimal.Decimal
	Total     decimal.Decimal
	Breakdown TaxBreakdown
	Groups    []CategoryTax // solo en facturas: desglose por categoría
}

// CategoryTax subtotal e impuestos de una categoría dentro de una factura.
type CategoryTax struct {
	Category    TaxCategory
	Calculation TaxCalculation
}

// Round2 redondea los importes a 2 decimales para mostrar en la factura.
func (t TaxCalculation) Round2() TaxCalculation {
	r := t
	r.Subtotal = t.Subtotal.Round(2)
	r.CGST = t.CGST.Round(2)
	r.SGST = t.SGST.Round(2)
	r.IGST = t.IGST.Round(2)
	r.Excise = t.Excise.Round(2)
	r.TotalTax = t.TotalTax.Round(2)
	r.Total = t.Total.Round(2)
	r.Breakdown.TotalTaxRate = t.Breakdown.TotalTaxRate.Round(2)
	return r
}
