package billing_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/liquor-ledger/internal/application/billing"
	"github.com/jhoicas/liquor-ledger/internal/application/dto"
	"github.com/jhoicas/liquor-ledger/internal/domain"
	"github.com/jhoicas/liquor-ledger/internal/domain/tax"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCalculateBillTax_CuentaMixta(t *testing.T) {
	uc := billing.NewTaxUseCase(tax.NewEngine())
	out, err := uc.CalculateBillTax(context.Background(), dto.BillTaxRequest{
		Items: []dto.BillLineRequest{
			{Amount: dec("1000"), Category: "liquor"},
			{Amount: dec("1000"), Category: "FOOD"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "2000", out.Subtotal.String())
	assert.Equal(t, "525", out.TotalTax.String())
	assert.Equal(t, "2525", out.Total.String())
	assert.Equal(t, "26.25", out.Breakdown.TotalTaxRate.String())

	require.Len(t, out.Groups, 2)
	assert.Equal(t, "food", out.Groups[0].Category, "orden estable de categorías")
	assert.Equal(t, "1050", out.Groups[0].Total.String())
	assert.Equal(t, "liquor", out.Groups[1].Category)
	assert.Equal(t, "250", out.Groups[1].Excise.String())
	assert.Equal(t, "1475", out.Groups[1].Total.String())
}

func TestCalculateBillTax_CategoriaDesconocida(t *testing.T) {
	uc := billing.NewTaxUseCase(tax.NewEngine())
	_, err := uc.CalculateBillTax(context.Background(), dto.BillTaxRequest{
		Items: []dto.BillLineRequest{{Amount: dec("10"), Category: "spa"}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)
}

func TestGetTaxRates(t *testing.T) {
	uc := billing.NewTaxUseCase(tax.NewEngine())

	out, err := uc.GetTaxRates(context.Background(), "liquor", true)
	require.NoError(t, err)
	assert.Equal(t, "liquor", out.Category)
	assert.True(t, out.IGSTRate.Equal(dec("18")))
	assert.True(t, out.ExciseRate.Equal(dec("25")))
	assert.True(t, out.CGSTRate.IsZero())

	out, err = uc.GetTaxRates(context.Background(), "room", false)
	require.NoError(t, err)
	assert.True(t, out.TotalTaxRate.Equal(dec("5")))
}
