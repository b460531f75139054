package repository

import (
	"context"
	"time"

	"github.com/jhoicas/liquor-ledger/internal/domain/entity"
)

// MovementRepository define el puerto del diario de movimientos (solo inserción).
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	ListByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error)
	CountByProduct(ctx context.Context, productID string) (int, error)
	// ListSalesSince ventas de todos los productos desde la fecha (restauración del pronóstico).
	ListSalesSince(ctx context.Context, since time.Time) ([]*entity.Movement, error)
}
