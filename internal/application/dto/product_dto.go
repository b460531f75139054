package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para dar de alta un producto del bar.
type CreateProductRequest struct {
	ID             string          `json:"id" validate:"required,min=1,max=64"`
	Name           string          `json:"name" validate:"required,min=1,max=200"`
	Size           string          `json:"size" validate:"max=50"`
	MlPerBottle    decimal.Decimal `json:"ml_per_bottle"`
	BottlesPerCase int             `json:"bottles_per_case" validate:"required,gt=0"`
	Category       string          `json:"category" validate:"max=50"`
	TaxCategory    string          `json:"tax_category" validate:"required,oneof=food beverages liquor room other"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Size           string          `json:"size"`
	MlPerBottle    decimal.Decimal `json:"ml_per_bottle"`
	PegsPerBottle  decimal.Decimal `json:"pegs_per_bottle"`
	BottlesPerCase int             `json:"bottles_per_case"`
	Category       string          `json:"category"`
	TaxCategory    string          `json:"tax_category"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ProductListResponse lista de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
}
