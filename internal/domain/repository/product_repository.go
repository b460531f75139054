package repository

import (
	"context"

	"github.com/jhoicas/liquor-ledger/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para productos del bar (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	// GetByID devuelve nil, nil si el producto no existe.
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context) ([]*entity.Product, error)
}
