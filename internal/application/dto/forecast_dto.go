package dto

import "github.com/shopspring/decimal"

// ForecastResponse proyección de consumo de un producto.
// Con no_depletion=true no hay agotamiento previsto: days_remaining es 0 y la fecha se omite.
type ForecastResponse struct {
	ProductID             string          `json:"product_id"`
	ProductName           string          `json:"product_name,omitempty"`
	Period                string          `json:"period"`
	CurrentPegs           decimal.Decimal `json:"current_pegs"`
	AvgPegsPerDay         decimal.Decimal `json:"avg_pegs_per_day"`
	DaysRemaining         decimal.Decimal `json:"days_remaining"`
	NoDepletion           bool            `json:"no_depletion"`
	ProjectedStockOutDate string          `json:"projected_stock_out_date,omitempty"` // YYYY-MM-DD
	RecommendedReorderQty int64           `json:"recommended_reorder_qty"`            // cajas
}

// ReplenishmentSuggestionDTO sugerencia de pedido para un producto que se agota
// antes de cubrir los días objetivo.
type ReplenishmentSuggestionDTO struct {
	ForecastResponse
	BottlesPerCase int `json:"bottles_per_case"`
	Priority       int `json:"priority"` // 1 = más urgente
}

// ForecastListResponse pronósticos de todos los productos y lista de reposición.
type ForecastListResponse struct {
	WindowDays       int                          `json:"window_days"`
	TargetSupplyDays int                          `json:"target_supply_days"`
	Items            []ForecastResponse           `json:"items"`
	Replenishment    []ReplenishmentSuggestionDTO `json:"replenishment"`
}
