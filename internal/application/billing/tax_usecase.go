package billing

import (
	"context"

	"github.com/jhoicas/liquor-ledger/internal/application/dto"
	"github.com/jhoicas/liquor-ledger/internal/domain/entity"
	"github.com/jhoicas/liquor-ledger/internal/domain/tax"
)

// TaxUseCase consulta de tasas y cálculo de impuestos de una cuenta del hotel.
// No persiste nada: la factura la emite el flujo de facturación.
type TaxUseCase struct {
	engine *tax.Engine
}

// NewTaxUseCase construye el caso de uso.
func NewTaxUseCase(engine *tax.Engine) *TaxUseCase {
	return &TaxUseCase{engine: engine}
}

// GetTaxRates tasas nominales de una categoría.
func (uc *TaxUseCase) GetTaxRates(ctx context.Context, category string, isInterState bool) (*dto.TaxRatesResponse, error) {
	c, err := tax.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	rates, err := uc.engine.GetTaxRates(c, isInterState)
	if err != nil {
		return nil, err
	}
	out := toRatesResponse(string(c), isInterState, rates)
	return &out, nil
}

// CalculateBillTax calcula los impuestos de la cuenta. Los importes se redondean a 2 decimales
// solo en la respuesta; el cálculo se hace con precisión completa.
func (uc *TaxUseCase) CalculateBillTax(ctx context.Context, in dto.BillTaxRequest) (*dto.BillTaxResponse, error) {
	items := make([]entity.TaxLineItem, 0, len(in.Items))
	for _, line := range in.Items {
		c, err := tax.ParseCategory(line.Category)
		if err != nil {
			return nil, err
		}
		items = append(items, entity.TaxLineItem{Amount: line.Amount, Category: c})
	}
	bill, err := uc.engine.CalculateBillTax(items, in.IsInterState)
	if err != nil {
		return nil, err
	}

	out := &dto.BillTaxResponse{
		TaxAmountsDTO: toAmounts(bill.Round2()),
		Breakdown:     toRatesResponse("", in.IsInterState, bill.Breakdown),
		Groups:        make([]dto.CategoryTaxDTO, 0, len(bill.Groups)),
	}
	for _, g := range bill.Groups {
		out.Groups = append(out.Groups, dto.CategoryTaxDTO{
			Category:      string(g.Category),
			TaxAmountsDTO: toAmounts(g.Calculation.Round2()),
		})
	}
	return out, nil
}

func toAmounts(c entity.TaxCalculation) dto.TaxAmountsDTO {
	return dto.TaxAmountsDTO{
		Subtotal: c.Subtotal,
		CGST:     c.CGST,
		SGST:     c.SGST,
		IGST:     c.IGST,
		Excise:   c.Excise,
		TotalTax: c.TotalTax,
		Total:    c.Total,
	}
}

func toRatesResponse(category string, isInterState bool, b entity.TaxBreakdown) dto.TaxRatesResponse {
	return dto.TaxRatesResponse{
		Category:     category,
		IsInterState: isInterState,
		CGSTRate:     b.CGSTRate.Round(2),
		SGSTRate:     b.SGSTRate.Round(2),
		IGSTRate:     b.IGSTRate.Round(2),
		ExciseRate:   b.ExciseRate.Round(2),
		TotalTaxRate: b.TotalTaxRate.Round(2),
	}
}
