package repository

import (
	"context"
	"time"

	"github.com/jhoicas/liquor-ledger/internal/domain/entity"
)

// DiscrepancyRepository persiste las alertas de descuadre hasta su resolución.
type DiscrepancyRepository interface {
	Create(ctx context.Context, flag *entity.DiscrepancyFlag) error
	// GetOpen devuelve la alerta abierta del producto y periodo, o nil, nil.
	GetOpen(ctx context.Context, productID, period string) (*entity.DiscrepancyFlag, error)
	GetByID(ctx context.Context, id string) (*entity.DiscrepancyFlag, error)
	ListOpen(ctx context.Context) ([]*entity.DiscrepancyFlag, error)
	Resolve(ctx context.Context, id, resolvedBy, resolution string, at time.Time) error
}
