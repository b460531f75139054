package inventory

import (
	"context"

	"github.com/jhoicas/liquor-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que el saldo, el archivo del periodo y el movimiento se persistan juntos o no se persistan.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		entryRepo repository.LedgerEntryRepository,
		movRepo repository.MovementRepository,
	) error) error
}
