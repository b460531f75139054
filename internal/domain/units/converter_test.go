package units_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/liquor-ledger/internal/domain"
	"github.com/jhoicas/liquor-ledger/internal/domain/entity"
	"github.com/jhoicas/liquor-ledger/internal/domain/units"
)

func cfg(ml int64) entity.ProductConfig {
	return entity.ProductConfig{Size: "test", MlPerBottle: decimal.NewFromInt(ml), BottlesPerCase: 12, Category: "IMFL"}
}

func TestToMl_BotellasYPegs(t *testing.T) {
	ml, err := units.ToMl(entity.Quantity{Bottles: decimal.NewFromInt(2), Pegs: decimal.NewFromInt(3)}, cfg(750))
	require.NoError(t, err)
	assert.True(t, ml.Equal(decimal.NewFromInt(1680)), "2*750 + 3*60 = 1680, obtenido %s", ml)
}

func TestToMl_RechazaNegativos(t *testing.T) {
	_, err := units.ToMl(entity.Quantity{Bottles: decimal.NewFromInt(-1)}, cfg(750))
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = units.ToMl(entity.Quantity{Pegs: decimal.NewFromInt(-2)}, cfg(750))
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestFromMl_VistasDerivadas(t *testing.T) {
	q, err := units.FromMl(decimal.NewFromInt(1000), cfg(750))
	require.NoError(t, err)

	assert.True(t, q.TotalBottles.Equal(decimal.NewFromInt(1)))
	assert.True(t, q.TotalMl.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, "4.2", q.DisplayLoosePegs().String(), "250ml sueltos = 4.1666 pegs")
	assert.Equal(t, "16.67", q.TotalPegs.StringFixed(2))
}

func TestFromMl_RechazaNegativo(t *testing.T) {
	_, err := units.FromMl(decimal.NewFromInt(-1), cfg(750))
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestFromMl_ConfigInvalida(t *testing.T) {
	_, err := units.FromMl(decimal.NewFromInt(100), cfg(0))
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestValidateConfig(t *testing.T) {
	assert.NoError(t, units.ValidateConfig(cfg(750)))
	assert.ErrorIs(t, units.ValidateConfig(cfg(0)), domain.ErrInvalidConfig)
	assert.ErrorIs(t, units.ValidateConfig(cfg(-180)), domain.ErrInvalidConfig)

	sinCaja := cfg(750)
	sinCaja.BottlesPerCase = 0
	assert.ErrorIs(t, units.ValidateConfig(sinCaja), domain.ErrInvalidConfig)
}

// Ida y vuelta: ToMl(FromMl(ml)) == ml con tolerancia de 0.01 ml.
func TestRoundTrip(t *testing.T) {
	tolerance := decimal.NewFromFloat(0.01)
	for _, bottle := range []int64{180, 375, 650, 750, 1000} {
		c := cfg(bottle)
		for _, ml := range []string{"0", "1", "59.5", "60", "179", "250", "749.99", "750", "1337.25", "10000", "22222.2"} {
			in := decimal.RequireFromString(ml)
			q, err := units.FromMl(in, c)
			require.NoError(t, err)
			back, err := units.ToMl(units.AsQuantity(q), c)
			require.NoError(t, err)
			assert.True(t, back.Sub(in).Abs().LessThanOrEqual(tolerance),
				"botella %d ml=%s: ida y vuelta %s", bottle, ml, back)
		}
	}
}

func TestPegsPerBottle(t *testing.T) {
	assert.True(t, cfg(750).PegsPerBottle().Equal(decimal.NewFromFloat(12.5)))
	assert.True(t, units.PegsToBottles(decimal.NewFromInt(25), cfg(750)).Equal(decimal.NewFromInt(2)))
	assert.True(t, units.BottlesToPegs(decimal.NewFromInt(2), cfg(180)).Equal(decimal.NewFromInt(6)))
}
