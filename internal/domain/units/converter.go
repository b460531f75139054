// Package units convierte cantidades entre botellas, pegs (60ml) y mililitros
// según la configuración de botella de cada producto. Funciones puras, sin estado.
package units

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/liquor-ledger/internal/domain"
	"github.com/jhoicas/liquor-ledger/internal/domain/entity"
)

// ValidateConfig verifica la configuración al registrar un producto.
func ValidateConfig(cfg entity.ProductConfig) error {
	if !cfg.MlPerBottle.GreaterThan(decimal.Zero) {
		return fmt.Errorf("%w: ml por botella debe ser > 0 (recibido %s)", domain.ErrInvalidConfig, cfg.MlPerBottle)
	}
	if cfg.BottlesPerCase <= 0 {
		return fmt.Errorf("%w: botellas por caja debe ser > 0 (recibido %d)", domain.ErrInvalidConfig, cfg.BottlesPerCase)
	}
	return nil
}

// ToMl convierte botellas + pegs a mililitros: bottles*MlPerBottle + pegs*60.
func ToMl(qty entity.Quantity, cfg entity.ProductConfig) (decimal.Decimal, error) {
	if qty.Bottles.IsNegative() || qty.Pegs.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: botellas=%s pegs=%s", domain.ErrInvalidQuantity, qty.Bottles, qty.Pegs)
	}
	if !cfg.MlPerBottle.GreaterThan(decimal.Zero) {
		return decimal.Zero, domain.ErrInvalidConfig
	}
	return qty.Bottles.Mul(cfg.MlPerBottle).Add(PegsToMl(qty.Pegs)), nil
}

// FromMl expresa ml como StockQuantity. TotalBottles se trunca; LoosePegs conserva la fracción
// de la botella abierta; TotalPegs no se trunca.
func FromMl(ml decimal.Decimal, cfg entity.ProductConfig) (entity.StockQuantity, error) {
	if ml.IsNegative() {
		return entity.StockQuantity{}, fmt.Errorf("%w: %s ml", domain.ErrInvalidQuantity, ml)
	}
	if !cfg.MlPerBottle.GreaterThan(decimal.Zero) {
		return entity.StockQuantity{}, domain.ErrInvalidConfig
	}
	bottles := ml.Div(cfg.MlPerBottle).Floor()
	rem := ml.Sub(bottles.Mul(cfg.MlPerBottle))
	return entity.StockQuantity{
		TotalBottles: bottles,
		TotalPegs:    MlToPegs(ml),
		LoosePegs:    MlToPegs(rem),
		TotalMl:      ml,
	}, nil
}

// Normalize convierte una cantidad capturada a su forma canónica.
func Normalize(qty entity.Quantity, cfg entity.ProductConfig) (entity.StockQuantity, error) {
	ml, err := ToMl(qty, cfg)
	if err != nil {
		return entity.StockQuantity{}, err
	}
	return FromMl(ml, cfg)
}

// AsQuantity vuelve a expresar un StockQuantity como botellas + pegs sueltos.
func AsQuantity(q entity.StockQuantity) entity.Quantity {
	return entity.Quantity{Bottles: q.TotalBottles, Pegs: q.LoosePegs}
}

// PegsToMl pegs * 60.
func PegsToMl(pegs decimal.Decimal) decimal.Decimal {
	return pegs.Mul(entity.PegVolume)
}

// MlToPegs ml / 60.
func MlToPegs(ml decimal.Decimal) decimal.Decimal {
	return ml.Div(entity.PegVolume)
}

// BottlesToPegs botellas expresadas en pegs para la configuración dada.
func BottlesToPegs(bottles decimal.Decimal, cfg entity.ProductConfig) decimal.Decimal {
	return bottles.Mul(cfg.PegsPerBottle())
}

// PegsToBottles pegs expresados en botellas (fraccionario).
func PegsToBottles(pegs decimal.Decimal, cfg entity.ProductConfig) decimal.Decimal {
	if !cfg.MlPerBottle.GreaterThan(decimal.Zero) {
		return decimal.Zero
	}
	return PegsToMl(pegs).Div(cfg.MlPerBottle)
}
