package forecast_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/liquor-ledger/internal/domain/entity"
	"github.com/jhoicas/liquor-ledger/internal/domain/forecast"
	"github.com/jhoicas/liquor-ledger/internal/domain/units"
)

var (
	today = time.Date(2026, 10, 17, 22, 30, 0, 0, time.UTC)
	cfg   = entity.ProductConfig{Size: "750ml", MlPerBottle: decimal.NewFromInt(750), BottlesPerCase: 12, Category: "IMFL"}
)

func sale(daysAgo int, pegs int64) entity.SaleEvent {
	return entity.SaleEvent{
		ProductID: "whisky",
		At:        today.AddDate(0, 0, -daysAgo).Add(-2 * time.Hour),
		VolumeMl:  decimal.NewFromInt(60),
		Count:     int(pegs),
		Pegs:      decimal.NewFromInt(pegs),
	}
}

func snapshotWithPegs(t *testing.T, pegs int64) entity.ProductLedgerEntry {
	t.Helper()
	q, err := units.FromMl(units.PegsToMl(decimal.NewFromInt(pegs)), cfg)
	require.NoError(t, err)
	return entity.ProductLedgerEntry{ProductID: "whisky", Config: cfg, CurrentStock: q}
}

// 7 días que suman 140 pegs -> 20 pegs/día; con 60 pegs quedan 3 días.
func TestForecast_Determinista(t *testing.T) {
	history := []entity.SaleEvent{
		sale(6, 10), sale(5, 30), sale(4, 20), sale(3, 25), sale(2, 15), sale(1, 20), sale(0, 20),
	}
	e := forecast.NewEngine()

	burn := e.ComputeBurnRate(history, 7, today)
	assert.True(t, burn.Equal(decimal.NewFromInt(20)), "consumo %s", burn)

	proj := e.ProjectStockOut(snapshotWithPegs(t, 60), burn, today)
	assert.False(t, proj.NoDepletion)
	assert.True(t, proj.DaysRemaining.Equal(decimal.NewFromInt(3)))
	require.NotNil(t, proj.StockOutDate)
	assert.Equal(t, time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC), *proj.StockOutDate)

	again := e.ComputeBurnRate(history, 7, today)
	assert.True(t, again.Equal(burn), "misma historia, mismo resultado")
}

func TestComputeBurnRate_HistoriaCorta(t *testing.T) {
	history := []entity.SaleEvent{sale(2, 9), sale(1, 9), sale(0, 12)}
	burn := forecast.NewEngine().ComputeBurnRate(history, 7, today)
	assert.True(t, burn.Equal(decimal.NewFromInt(10)), "30 pegs en 3 días disponibles, obtenido %s", burn)
}

func TestComputeBurnRate_IgnoraFueraDeVentana(t *testing.T) {
	// hay historia anterior a la ventana: se promedia sobre los 7 días completos
	history := []entity.SaleEvent{sale(30, 500), sale(1, 7), sale(0, 7)}
	burn := forecast.NewEngine().ComputeBurnRate(history, 7, today)
	assert.True(t, burn.Equal(decimal.NewFromInt(2)), "14 pegs / 7 días, no / 2 días")
}

func TestForecast_HistoriaLargaConVentasRecientes(t *testing.T) {
	e := forecast.NewEngine()
	history := []entity.SaleEvent{sale(30, 5), sale(1, 7), sale(0, 7)}
	rec := e.Forecast(snapshotWithPegs(t, 60), history, forecast.Params{WindowDays: 7, TargetSupplyDays: 14, Today: today})

	assert.True(t, rec.AvgUnitsPerDay.Equal(decimal.NewFromInt(2)))
	assert.True(t, rec.DaysRemaining.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, int64(0), rec.RecommendedReorderQty)
}

func TestComputeBurnRate_SoloHistoriaAntigua(t *testing.T) {
	burn := forecast.NewEngine().ComputeBurnRate([]entity.SaleEvent{sale(20, 40)}, 7, today)
	assert.True(t, burn.IsZero())
}

func TestComputeBurnRate_DiasSinVentaCuentan(t *testing.T) {
	// ventas solo hace 3 días: 12 pegs repartidos en 4 días (3 sin ventas)
	burn := forecast.NewEngine().ComputeBurnRate([]entity.SaleEvent{sale(3, 12)}, 7, today)
	assert.True(t, burn.Equal(decimal.NewFromInt(3)))
}

func TestForecast_SinHistoria(t *testing.T) {
	e := forecast.NewEngine()
	burn := e.ComputeBurnRate(nil, 7, today)
	assert.True(t, burn.IsZero())

	proj := e.ProjectStockOut(snapshotWithPegs(t, 60), burn, today)
	assert.True(t, proj.NoDepletion, "sin consumo no hay agotamiento proyectado")
	assert.Nil(t, proj.StockOutDate)

	rec := e.Forecast(snapshotWithPegs(t, 60), nil, forecast.Params{WindowDays: 7, TargetSupplyDays: 14, Today: today})
	assert.True(t, rec.NoDepletion)
	assert.Equal(t, int64(0), rec.RecommendedReorderQty)
}

func TestRecommendReorder(t *testing.T) {
	e := forecast.NewEngine()
	snap := snapshotWithPegs(t, 60) // 3600 ml = 4 botellas + 8 pegs

	// 20 pegs/día = 1.6 botellas/día; 14 días = 22.4 -> 23 botellas; faltan 19 -> 2 cajas
	assert.Equal(t, int64(2), e.RecommendReorder(snap, decimal.NewFromInt(20), 14, cfg))

	// con stock suficiente no se pide
	big := snapshotWithPegs(t, 1000)
	assert.Equal(t, int64(0), e.RecommendReorder(big, decimal.NewFromInt(20), 14, cfg))

	assert.Equal(t, int64(0), e.RecommendReorder(snap, decimal.Zero, 14, cfg))
}

func TestForecast_RegistroCompleto(t *testing.T) {
	history := []entity.SaleEvent{sale(1, 20), sale(0, 20)}
	rec := forecast.NewEngine().Forecast(snapshotWithPegs(t, 60), history, forecast.Params{
		WindowDays: 7, TargetSupplyDays: 14, Today: today,
	})
	assert.Equal(t, "whisky", rec.ProductID)
	assert.True(t, rec.AvgUnitsPerDay.Equal(decimal.NewFromInt(20)))
	assert.True(t, rec.DaysRemaining.Equal(decimal.NewFromInt(3)))
	assert.Equal(t, int64(2), rec.RecommendedReorderQty)
}
