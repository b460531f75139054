package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/liquor-ledger/internal/application/dto"
	"github.com/jhoicas/liquor-ledger/internal/application/inventory"
	"github.com/jhoicas/liquor-ledger/internal/domain/forecast"
)

func TestForecast_SinVentasNoSeAgota(t *testing.T) {
	uc, store, l := setup(t)
	open(t, uc, "2026-10-17", 2)

	rep := inventory.NewReplenishmentUseCase(l, forecast.NewEngine(), memProducts{store}, 7, 14, time.UTC)
	out, err := rep.GetForecast(context.Background(), whisky)
	require.NoError(t, err)

	assert.Equal(t, "Whisky 750", out.ProductName)
	assert.True(t, out.NoDepletion)
	assert.Empty(t, out.ProjectedStockOutDate)
	assert.True(t, out.AvgPegsPerDay.IsZero())
	assert.Equal(t, int64(0), out.RecommendedReorderQty)
}

func TestForecasts_ListaDeReposicion(t *testing.T) {
	uc, store, l := setup(t)
	ctx := context.Background()
	open(t, uc, "2026-10-17", 2)

	_, err := uc.RegisterProduct(ctx, dto.CreateProductRequest{
		ID: "rum-750", Name: "Rum 750", MlPerBottle: d(750), BottlesPerCase: 12, TaxCategory: "liquor",
	})
	require.NoError(t, err)
	_, err = uc.LoadOpeningStock(ctx, "u-manager", "rum-750", dto.OpeningStockRequest{
		Period:          "2026-10-17",
		QuantityRequest: dto.QuantityRequest{Bottles: d(48)},
	})
	require.NoError(t, err)

	// 10 pegs hoy: 15 pegs restantes, 1.5 días de cobertura.
	_, err = uc.RecordSale(ctx, cashier, whisky, dto.SaleRequest{VolumeMl: d(60), Count: 10})
	require.NoError(t, err)

	rep := inventory.NewReplenishmentUseCase(l, forecast.NewEngine(), memProducts{store}, 7, 14, time.UTC)
	out, err := rep.Forecasts(ctx)
	require.NoError(t, err)

	require.Len(t, out.Items, 2)
	assert.Equal(t, 7, out.WindowDays)

	require.Len(t, out.Replenishment, 1, "el ron sin ventas no necesita pedido")
	s := out.Replenishment[0]
	assert.Equal(t, whisky, s.ProductID)
	assert.Equal(t, 1, s.Priority)
	assert.True(t, s.AvgPegsPerDay.Equal(d(10)))
	assert.Equal(t, "1.5", s.DaysRemaining.String())
	// 0.8 botellas/día * 14 = 11.2 -> 12 botellas; hay 1 entera, faltan 11 -> 1 caja.
	assert.Equal(t, int64(1), s.RecommendedReorderQty)
	assert.Equal(t, 12, s.BottlesPerCase)
}
