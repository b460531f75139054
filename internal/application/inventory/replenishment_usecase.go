package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/liquor-ledger/internal/application/dto"
	"github.com/jhoicas/liquor-ledger/internal/domain/entity"
	"github.com/jhoicas/liquor-ledger/internal/domain/forecast"
	"github.com/jhoicas/liquor-ledger/internal/domain/ledger"
	"github.com/jhoicas/liquor-ledger/internal/domain/repository"
)

// ReplenishmentUseCase pronóstico de consumo y lista de reposición sobre instantáneas del libro.
type ReplenishmentUseCase struct {
	ledger           *ledger.StockLedger
	engine           *forecast.Engine
	productRepo      repository.ProductRepository
	windowDays       int
	targetSupplyDays int
	loc              *time.Location
	now              func() time.Time
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(
	l *ledger.StockLedger,
	engine *forecast.Engine,
	productRepo repository.ProductRepository,
	windowDays, targetSupplyDays int,
	loc *time.Location,
) *ReplenishmentUseCase {
	if loc == nil {
		loc = time.UTC
	}
	if windowDays <= 0 {
		windowDays = forecast.DefaultWindowDays
	}
	return &ReplenishmentUseCase{
		ledger:           l,
		engine:           engine,
		productRepo:      productRepo,
		windowDays:       windowDays,
		targetSupplyDays: targetSupplyDays,
		loc:              loc,
		now:              time.Now,
	}
}

// GetForecast pronóstico de un producto con stock inicial cargado.
func (uc *ReplenishmentUseCase) GetForecast(ctx context.Context, productID string) (*dto.ForecastResponse, error) {
	snapshot, err := uc.ledger.GetSnapshot(productID)
	if err != nil {
		return nil, err
	}
	history, err := uc.ledger.SalesHistory(productID)
	if err != nil {
		return nil, err
	}
	name := ""
	if p, err := uc.productRepo.GetByID(ctx, productID); err == nil && p != nil {
		name = p.Name
	}
	out := uc.toResponse(snapshot, uc.engine.Forecast(snapshot, history, uc.params()), name)
	return &out, nil
}

// Forecasts pronóstico de todos los productos y lista de reposición priorizada.
func (uc *ReplenishmentUseCase) Forecasts(ctx context.Context) (*dto.ForecastListResponse, error) {
	names, err := uc.productNames(ctx)
	if err != nil {
		return nil, err
	}
	params := uc.params()

	out := &dto.ForecastListResponse{
		WindowDays:       uc.windowDays,
		TargetSupplyDays: uc.targetSupplyDays,
		Items:            []dto.ForecastResponse{},
		Replenishment:    []dto.ReplenishmentSuggestionDTO{},
	}
	for _, snapshot := range uc.ledger.Snapshots() {
		history, err := uc.ledger.SalesHistory(snapshot.ProductID)
		if err != nil {
			return nil, err
		}
		record := uc.engine.Forecast(snapshot, history, params)
		resp := uc.toResponse(snapshot, record, names[snapshot.ProductID])
		out.Items = append(out.Items, resp)
		if record.RecommendedReorderQty > 0 {
			out.Replenishment = append(out.Replenishment, dto.ReplenishmentSuggestionDTO{
				ForecastResponse: resp,
				BottlesPerCase:   snapshot.Config.BottlesPerCase,
			})
		}
	}

	// Primero el que se agota antes; a igualdad, el de mayor consumo.
	sort.SliceStable(out.Replenishment, func(i, j int) bool {
		a, b := out.Replenishment[i], out.Replenishment[j]
		if !a.DaysRemaining.Equal(b.DaysRemaining) {
			return a.DaysRemaining.LessThan(b.DaysRemaining)
		}
		return a.AvgPegsPerDay.GreaterThan(b.AvgPegsPerDay)
	})
	for i := range out.Replenishment {
		out.Replenishment[i].Priority = i + 1
	}
	return out, nil
}

func (uc *ReplenishmentUseCase) params() forecast.Params {
	return forecast.Params{
		WindowDays:       uc.windowDays,
		TargetSupplyDays: uc.targetSupplyDays,
		Today:            uc.now().In(uc.loc),
	}
}

func (uc *ReplenishmentUseCase) productNames(ctx context.Context) (map[string]string, error) {
	products, err := uc.productRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}
	return names, nil
}

func (uc *ReplenishmentUseCase) toResponse(snapshot entity.ProductLedgerEntry, r entity.ForecastRecord, name string) dto.ForecastResponse {
	out := dto.ForecastResponse{
		ProductID:             r.ProductID,
		ProductName:           name,
		Period:                snapshot.Period,
		CurrentPegs:           snapshot.CurrentStock.TotalPegs.Round(1),
		AvgPegsPerDay:         r.AvgUnitsPerDay.Round(2),
		DaysRemaining:         r.DaysRemaining.Round(1),
		NoDepletion:           r.NoDepletion,
		RecommendedReorderQty: r.RecommendedReorderQty,
	}
	if r.ProjectedStockOutDate != nil {
		out.ProjectedStockOutDate = r.ProjectedStockOutDate.Format(PeriodLayout)
	}
	return out
}
