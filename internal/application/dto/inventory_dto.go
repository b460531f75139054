package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuantityRequest cantidad en botellas y/o pegs (fraccionarios permitidos).
type QuantityRequest struct {
	Bottles decimal.Decimal `json:"bottles"`
	Pegs    decimal.Decimal `json:"pegs"`
}

// OpeningStockRequest body para POST /api/ledger/:productID/opening.
// Period vacío = día actual en la zona horaria configurada.
type OpeningStockRequest struct {
	Period string `json:"period" validate:"omitempty,max=32"`
	QuantityRequest
	ExpectedVersion *int64 `json:"expected_version,omitempty" validate:"omitempty,gte=0"`
}

// ClosePeriodRequest body para POST /api/ledger/:productID/close.
type ClosePeriodRequest struct {
	NextPeriod      string `json:"next_period" validate:"omitempty,max=32"`
	ExpectedVersion *int64 `json:"expected_version,omitempty" validate:"omitempty,gte=0"`
}

// PurchaseRequest body para POST /api/ledger/:productID/purchases.
type PurchaseRequest struct {
	QuantityRequest
	Note            string `json:"note,omitempty" validate:"max=500"`
	ExpectedVersion *int64 `json:"expected_version,omitempty" validate:"omitempty,gte=0"`
}

// SaleRequest body para POST /api/ledger/:productID/sales.
// VolumeMl 60 para un peg, ml por botella para una botella entera.
type SaleRequest struct {
	VolumeMl        decimal.Decimal `json:"volume_ml"`
	Count           int             `json:"count" validate:"required,gte=1"`
	ExpectedVersion *int64          `json:"expected_version,omitempty" validate:"omitempty,gte=0"`
}

// WastageRequest body para POST /api/ledger/:productID/wastage.
type WastageRequest struct {
	Ml              decimal.Decimal `json:"ml"`
	Note            string          `json:"note,omitempty" validate:"max=500"`
	ExpectedVersion *int64          `json:"expected_version,omitempty" validate:"omitempty,gte=0"`
}

// StockQuantityDTO cantidad normalizada. LoosePegs se muestra con un decimal.
type StockQuantityDTO struct {
	TotalBottles decimal.Decimal `json:"total_bottles"`
	TotalPegs    decimal.Decimal `json:"total_pegs"`
	LoosePegs    decimal.Decimal `json:"loose_pegs"`
	TotalMl      decimal.Decimal `json:"total_ml"`
}

// LedgerEntryResponse saldo de un producto en un periodo.
type LedgerEntryResponse struct {
	ProductID    string           `json:"product_id"`
	Period       string           `json:"period"`
	Status       string           `json:"status"`
	Version      int64            `json:"version"`
	OpeningStock StockQuantityDTO `json:"opening_stock"`
	Purchases    StockQuantityDTO `json:"purchases"`
	SalesPegs    decimal.Decimal  `json:"sales_pegs"`
	WastageMl    decimal.Decimal  `json:"wastage_ml"`
	CurrentStock StockQuantityDTO `json:"current_stock"`
	OpenedAt     time.Time        `json:"opened_at"`
	ClosedAt     *time.Time       `json:"closed_at,omitempty"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// LedgerListResponse saldos vigentes de todos los productos.
type LedgerListResponse struct {
	Items []LedgerEntryResponse `json:"items"`
}

// MovementResponse línea del diario de movimientos.
type MovementResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Period    string          `json:"period"`
	Type      string          `json:"type"`
	VolumeMl  decimal.Decimal `json:"volume_ml"`
	Count     int             `json:"count"`
	TotalMl   decimal.Decimal `json:"total_ml"`
	Version   int64           `json:"version"`
	At        time.Time       `json:"at"`
	CreatedBy string          `json:"created_by,omitempty"`
	Note      string          `json:"note,omitempty"`
}

// LedgerHistoryResponse periodos cerrados y movimientos de un producto.
type LedgerHistoryResponse struct {
	ProductID string                `json:"product_id"`
	Periods   []LedgerEntryResponse `json:"periods"`
	Movements []MovementResponse    `json:"movements"`
	Page      PageResponse          `json:"page"`
}
