// Package forecast proyecta consumo, agotamiento y reposición a partir de instantáneas del libro.
// Es determinista y nunca modifica el libro.
package forecast

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/liquor-ledger/internal/domain/entity"
	"github.com/jhoicas/liquor-ledger/internal/domain/units"
)

// DefaultWindowDays ventana de cálculo del consumo medio.
const DefaultWindowDays = 7

// Params parámetros de una proyección completa.
type Params struct {
	WindowDays       int
	TargetSupplyDays int
	Today            time.Time
}

// Engine motor de pronóstico (sin estado).
type Engine struct{}

// NewEngine construye el motor.
func NewEngine() *Engine { return &Engine{} }

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DailyTotals agrupa las ventas por día calendario (zona horaria de asOf), en orden cronológico.
func DailyTotals(history []entity.SaleEvent, loc *time.Location) []entity.DailySales {
	byDay := make(map[time.Time]decimal.Decimal)
	for _, s := range history {
		k := day(s.At.In(loc))
		byDay[k] = byDay[k].Add(s.Pegs)
	}
	out := make([]entity.DailySales, 0, len(byDay))
	for k, v := range byDay {
		out = append(out, entity.DailySales{Day: k, Pegs: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out
}

// ComputeBurnRate pegs vendidos por día en la ventana [asOf-windowDays+1, asOf].
// Si toda la historia cabe en la ventana, se promedia desde el primer día con ventas.
// Sin ventas en la ventana el consumo es 0.
func (e *Engine) ComputeBurnRate(history []entity.SaleEvent, windowDays int, asOf time.Time) decimal.Decimal {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	end := day(asOf)
	start := end.AddDate(0, 0, -(windowDays - 1))

	var total decimal.Decimal
	var earliest time.Time
	inWindow := false
	for _, d := range DailyTotals(history, asOf.Location()) {
		if d.Day.After(end) {
			continue
		}
		if earliest.IsZero() {
			earliest = d.Day
		}
		if d.Day.Before(start) {
			continue
		}
		inWindow = true
		total = total.Add(d.Pegs)
	}
	if !inWindow {
		return decimal.Zero
	}
	days := int64(windowDays)
	if !earliest.Before(start) {
		days = int64(end.Sub(earliest).Hours()/24+0.5) + 1
	}
	return total.Div(decimal.NewFromInt(days))
}

// ProjectStockOut días restantes = pegs actuales / consumo. Con consumo 0 no se proyecta
// agotamiento (NoDepletion) y no hay fecha.
func (e *Engine) ProjectStockOut(snapshot entity.ProductLedgerEntry, burnRate decimal.Decimal, today time.Time) entity.StockOutProjection {
	if !burnRate.IsPositive() {
		return entity.StockOutProjection{NoDepletion: true}
	}
	daysRemaining := snapshot.CurrentStock.TotalPegs.Div(burnRate)
	date := day(today).AddDate(0, 0, int(daysRemaining.Floor().IntPart()))
	return entity.StockOutProjection{DaysRemaining: daysRemaining, StockOutDate: &date}
}

// RecommendReorder cajas a pedir para cubrir targetSupplyDays:
// botellas = ceil(consumo_en_botellas * días); cajas = max(0, ceil((botellas - botellas_actuales) / por_caja)).
func (e *Engine) RecommendReorder(snapshot entity.ProductLedgerEntry, burnRate decimal.Decimal, targetSupplyDays int, cfg entity.ProductConfig) int64 {
	if !burnRate.IsPositive() || targetSupplyDays <= 0 || cfg.BottlesPerCase <= 0 {
		return 0
	}
	bottlesPerDay := units.PegsToBottles(burnRate, cfg)
	recommended := bottlesPerDay.Mul(decimal.NewFromInt(int64(targetSupplyDays))).Ceil()
	missing := recommended.Sub(snapshot.CurrentStock.TotalBottles)
	if !missing.IsPositive() {
		return 0
	}
	return missing.Div(decimal.NewFromInt(int64(cfg.BottlesPerCase))).Ceil().IntPart()
}

// Forecast arma el ForecastRecord completo de un producto.
func (e *Engine) Forecast(snapshot entity.ProductLedgerEntry, history []entity.SaleEvent, p Params) entity.ForecastRecord {
	burn := e.ComputeBurnRate(history, p.WindowDays, p.Today)
	proj := e.ProjectStockOut(snapshot, burn, p.Today)
	return entity.ForecastRecord{
		ProductID:             snapshot.ProductID,
		AvgUnitsPerDay:        burn,
		DaysRemaining:         proj.DaysRemaining,
		NoDepletion:           proj.NoDepletion,
		ProjectedStockOutDate: proj.StockOutDate,
		RecommendedReorderQty: e.RecommendReorder(snapshot, burn, p.TargetSupplyDays, snapshot.Config),
	}
}
