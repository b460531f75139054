package dto

import "github.com/shopspring/decimal"

// BillLineRequest línea de la cuenta: importe antes de impuestos y categoría fiscal.
type BillLineRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category" validate:"required"`
}

// BillTaxRequest body para POST /api/tax/bill.
type BillTaxRequest struct {
	Items        []BillLineRequest `json:"items" validate:"required,min=1,dive"`
	IsInterState bool              `json:"is_inter_state"`
}

// TaxRatesResponse tasas en porcentaje de una categoría.
type TaxRatesResponse struct {
	Category     string          `json:"category"`
	IsInterState bool            `json:"is_inter_state"`
	CGSTRate     decimal.Decimal `json:"cgst_rate"`
	SGSTRate     decimal.Decimal `json:"sgst_rate"`
	IGSTRate     decimal.Decimal `json:"igst_rate"`
	ExciseRate   decimal.Decimal `json:"excise_rate"`
	TotalTaxRate decimal.Decimal `json:"total_tax_rate"`
}

// TaxAmountsDTO importes de impuesto redondeados a 2 decimales.
type TaxAmountsDTO struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	CGST     decimal.Decimal `json:"cgst"`
	SGST     decimal.Decimal `json:"sgst"`
	IGST     decimal.Decimal `json:"igst"`
	Excise   decimal.Decimal `json:"excise"`
	TotalTax decimal.Decimal `json:"total_tax"`
	Total    decimal.Decimal `json:"total"`
}

// CategoryTaxDTO subtotal e impuestos de una categoría dentro de la cuenta.
type CategoryTaxDTO struct {
	Category string `json:"category"`
	TaxAmountsDTO
}

// BillTaxResponse resultado de POST /api/tax/bill.
// Las tasas del desglose son efectivas (impuesto / subtotal * 100) sobre toda la cuenta.
type BillTaxResponse struct {
	TaxAmountsDTO
	Breakdown TaxRatesResponse `json:"breakdown"`
	Groups    []CategoryTaxDTO `json:"groups"`
}
