package tax_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/liquor-ledger/internal/domain"
	"github.com/jhoicas/liquor-ledger/internal/domain/entity"
	"github.com/jhoicas/liquor-ledger/internal/domain/tax"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, got.Equal(dec(want)), "%s: esperado %s, obtenido %s", msg, want, got)
}

func TestGetTaxRates_TablaCompleta(t *testing.T) {
	e := tax.NewEngine()
	cases := []struct {
		category   entity.TaxCategory
		inter      bool
		cgst, sgst string
		igst       string
		excise     string
		total      string
	}{
		{entity.TaxCategoryFood, false, "2.5", "2.5", "0", "0", "5"},
		{entity.TaxCategoryFood, true, "0", "0", "5", "0", "5"},
		{entity.TaxCategoryBeverages, false, "2.5", "2.5", "0", "0", "5"},
		{entity.TaxCategoryRoom, true, "0", "0", "5", "0", "5"},
		{entity.TaxCategoryLiquor, false, "9", "9", "0", "25", "43"},
		{entity.TaxCategoryLiquor, true, "0", "0", "18", "25", "43"},
		{entity.TaxCategoryOther, false, "9", "9", "0", "0", "18"},
		{entity.TaxCategoryOther, true, "0", "0", "18", "0", "18"},
	}
	for _, tc := range cases {
		r, err := e.GetTaxRates(tc.category, tc.inter)
		require.NoError(t, err)
		label := string(tc.category)
		assertDec(t, tc.cgst, r.CGSTRate, label+" cgst")
		assertDec(t, tc.sgst, r.SGSTRate, label+" sgst")
		assertDec(t, tc.igst, r.IGSTRate, label+" igst")
		assertDec(t, tc.excise, r.ExciseRate, label+" excise")
		assertDec(t, tc.total, r.TotalTaxRate, label+" total")
	}
}

// Todas las categorías del conjunto cerrado tienen tasas en ambos regímenes.
func TestGetTaxRates_Exhaustiva(t *testing.T) {
	e := tax.NewEngine()
	for _, c := range entity.TaxCategories {
		for _, inter := range []bool{false, true} {
			r, err := e.GetTaxRates(c, inter)
			require.NoError(t, err)
			assert.True(t, r.TotalTaxRate.IsPositive(), "%s inter=%v", c, inter)
		}
	}
	_, err := e.GetTaxRates("tabaco", false)
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)
}

func TestCalculateTax_LicorCompuesto(t *testing.T) {
	calc, err := tax.NewEngine().CalculateTax(dec("1000"), entity.TaxCategoryLiquor, false)
	require.NoError(t, err)

	assertDec(t, "250", calc.Excise, "excise sobre el importe")
	assertDec(t, "112.5", calc.CGST, "cgst sobre 1250")
	assertDec(t, "112.5", calc.SGST, "sgst sobre 1250")
	assertDec(t, "0", calc.IGST, "igst")
	assertDec(t, "475", calc.TotalTax, "impuesto total")
	assertDec(t, "1475", calc.Total, "total")
}

func TestCalculateTax_LicorInterestatal(t *testing.T) {
	calc, err := tax.NewEngine().CalculateTax(dec("1000"), entity.TaxCategoryLiquor, true)
	require.NoError(t, err)

	assertDec(t, "250", calc.Excise, "excise")
	assertDec(t, "225", calc.IGST, "igst 18% sobre 1250")
	assertDec(t, "1475", calc.Total, "total")
}

func TestCalculateTax_TasaSimple(t *testing.T) {
	calc, err := tax.NewEngine().CalculateTax(dec("1000"), entity.TaxCategoryFood, false)
	require.NoError(t, err)

	assertDec(t, "25", calc.CGST, "cgst")
	assertDec(t, "25", calc.SGST, "sgst")
	assertDec(t, "0", calc.Excise, "excise")
	assertDec(t, "1050", calc.Total, "total")
}

func TestCalculateTax_ImporteNegativo(t *testing.T) {
	_, err := tax.NewEngine().CalculateTax(dec("-1"), entity.TaxCategoryFood, false)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCalculateBillTax_TasaCombinada(t *testing.T) {
	bill, err := tax.NewEngine().CalculateBillTax([]entity.TaxLineItem{
		{Amount: dec("1000"), Category: entity.TaxCategoryFood},
		{Amount: dec("1000"), Category: entity.TaxCategoryLiquor},
	}, false)
	require.NoError(t, err)

	assertDec(t, "2000", bill.Subtotal, "subtotal")
	assertDec(t, "525", bill.TotalTax, "50 + 475")
	assertDec(t, "2525", bill.Total, "total")
	assertDec(t, "26.25", bill.Breakdown.TotalTaxRate, "tasa efectiva")
	assertDec(t, "12.5", bill.Breakdown.ExciseRate, "excise efectivo 250/2000")
	require.Len(t, bill.Groups, 2)
	assert.Equal(t, entity.TaxCategoryFood, bill.Groups[0].Category)
	assert.Equal(t, entity.TaxCategoryLiquor, bill.Groups[1].Category)
}

func TestCalculateBillTax_AgrupaPorCategoria(t *testing.T) {
	bill, err := tax.NewEngine().CalculateBillTax([]entity.TaxLineItem{
		{Amount: dec("400"), Category: entity.TaxCategoryLiquor},
		{Amount: dec("200"), Category: entity.TaxCategoryRoom},
		{Amount: dec("600"), Category: entity.TaxCategoryLiquor},
	}, false)
	require.NoError(t, err)

	require.Len(t, bill.Groups, 2)
	assertDec(t, "1000", bill.Groups[0].Calculation.Subtotal, "licor agrupado")
	assertDec(t, "1475", bill.Groups[0].Calculation.Total, "licor")
	assertDec(t, "210", bill.Groups[1].Calculation.Total, "habitación")
	assertDec(t, "1685", bill.Total, "total")
}

func TestCalculateBillTax_SubtotalCero(t *testing.T) {
	bill, err := tax.NewEngine().CalculateBillTax([]entity.TaxLineItem{
		{Amount: decimal.Zero, Category: entity.TaxCategoryFood},
	}, false)
	require.NoError(t, err)
	assert.True(t, bill.Total.IsZero())
	assert.True(t, bill.Breakdown.TotalTaxRate.IsZero(), "sin división por cero")

	empty, err := tax.NewEngine().CalculateBillTax(nil, true)
	require.NoError(t, err)
	assert.True(t, empty.Breakdown.TotalTaxRate.IsZero())
}

func TestCalculateBillTax_CategoriaInvalida(t *testing.T) {
	_, err := tax.NewEngine().CalculateBillTax([]entity.TaxLineItem{{Amount: dec("1"), Category: "spa"}}, false)
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)
}

func TestParseCategory(t *testing.T) {
	c, err := tax.ParseCategory(" Liquor ")
	require.NoError(t, err)
	assert.Equal(t, entity.TaxCategoryLiquor, c)

	_, err = tax.ParseCategory("spa")
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)
}

func TestRound2(t *testing.T) {
	calc, err := tax.NewEngine().CalculateTax(dec("333.33"), entity.TaxCategoryLiquor, false)
	require.NoError(t, err)
	r := calc.Round2()
	assert.Equal(t, "491.66", r.Total.StringFixed(2))
}
