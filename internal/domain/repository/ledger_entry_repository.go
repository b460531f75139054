package repository

import (
	"context"

	"github.com/jhoicas/liquor-ledger/internal/domain/entity"
)

// LedgerEntryRepository persiste un registro por producto y periodo.
// Los periodos cerrados son de solo inserción: nunca se actualizan.
type LedgerEntryRepository interface {
	// SaveOpen inserta o actualiza el registro abierto del producto.
	SaveOpen(ctx context.Context, entry entity.ProductLedgerEntry) error
	// Archive guarda el periodo cerrado. Falla con domain.ErrPeriodClosed si ya estaba archivado.
	Archive(ctx context.Context, entry entity.ProductLedgerEntry) error
	ListOpen(ctx context.Context) ([]entity.ProductLedgerEntry, error)
	ListClosed(ctx context.Context, productID string) ([]entity.ProductLedgerEntry, error)
}
