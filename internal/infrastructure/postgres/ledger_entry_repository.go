package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/liquor-ledger/internal/domain"
	"github.com/jhoicas/liquor-ledger/internal/domain/entity"
	"github.com/jhoicas/liquor-ledger/internal/domain/repository"
)

var _ repository.LedgerEntryRepository = (*LedgerEntryRepo)(nil)

// LedgerEntryRepo saldos por producto y periodo. Se guardan los ml; botellas y pegs se
// reconstruyen con la configuración del producto al leer.
type LedgerEntryRepo struct {
	q Querier
}

// NewLedgerEntryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerEntryRepository(q Querier) *LedgerEntryRepo {
	return &LedgerEntryRepo{q: q}
}

const entryColumns = `e.product_id, e.period, e.status, e.opening_ml, e.purchases_ml, e.sales_pegs, e.wastage_ml,
	e.current_ml, e.version, e.opened_at, e.closed_at, e.updated_at,
	p.size, p.ml_per_bottle, p.bottles_per_case, p.category`

// SaveOpen inserta o actualiza el registro abierto del producto.
func (r *LedgerEntryRepo) SaveOpen(ctx context.Context, e entity.ProductLedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (product_id, period, status, opening_ml, purchases_ml, sales_pegs, wastage_ml,
			current_ml, version, opened_at, updated_at)
		VALUES ($1, $2, 'OPEN', $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (product_id) WHERE status = 'OPEN' DO UPDATE SET
			period = EXCLUDED.period,
			opening_ml = EXCLUDED.opening_ml,
			purchases_ml = EXCLUDED.purchases_ml,
			sales_pegs = EXCLUDED.sales_pegs,
			wastage_ml = EXCLUDED.wastage_ml,
			current_ml = EXCLUDED.current_ml,
			version = EXCLUDED.version,
			opened_at = EXCLUDED.opened_at,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		e.ProductID, e.Period, e.OpeningStock.TotalMl, e.Purchases.TotalMl, e.SalesPegs, e.WastageMl,
		e.CurrentStock.TotalMl, e.Version, e.OpenedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save open entry: %w", err)
	}
	return nil
}

// Archive inserta el periodo cerrado. Un periodo ya archivado no se vuelve a escribir.
func (r *LedgerEntryRepo) Archive(ctx context.Context, e entity.ProductLedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (product_id, period, status, opening_ml, purchases_ml, sales_pegs, wastage_ml,
			current_ml, version, opened_at, closed_at, updated_at)
		VALUES ($1, $2, 'CLOSED', $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		e.ProductID, e.Period, e.OpeningStock.TotalMl, e.Purchases.TotalMl, e.SalesPegs, e.WastageMl,
		e.CurrentStock.TotalMl, e.Version, e.OpenedAt, e.ClosedAt, e.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s %s", domain.ErrPeriodClosed, e.ProductID, e.Period)
		}
		return fmt.Errorf("archive entry: %w", err)
	}
	return nil
}

// ListOpen registros abiertos de todos los productos.
func (r *LedgerEntryRepo) ListOpen(ctx context.Context) ([]entity.ProductLedgerEntry, error) {
	return r.list(ctx, `SELECT `+entryColumns+`
		FROM ledger_entries e JOIN products p ON p.id = e.product_id
		WHERE e.status = 'OPEN' ORDER BY e.product_id`)
}

// ListClosed periodos cerrados del producto en orden de cierre.
func (r *LedgerEntryRepo) ListClosed(ctx context.Context, productID string) ([]entity.ProductLedgerEntry, error) {
	return r.list(ctx, `SELECT `+entryColumns+`
		FROM ledger_entries e JOIN products p ON p.id = e.product_id
		WHERE e.status = 'CLOSED' AND e.product_id = $1 ORDER BY e.version`, productID)
}

func (r *LedgerEntryRepo) list(ctx context.Context, query string, args ...any) ([]entity.ProductLedgerEntry, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()
	var list []entity.ProductLedgerEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func scanEntry(row pgx.Row) (entity.ProductLedgerEntry, error) {
	var e entity.ProductLedgerEntry
	var openingMl, purchasesMl, currentMl decimal.Decimal
	if err := row.Scan(&e.ProductID, &e.Period, &e.Status, &openingMl, &purchasesMl, &e.SalesPegs, &e.WastageMl,
		&currentMl, &e.Version, &e.OpenedAt, &e.ClosedAt, &e.UpdatedAt,
		&e.Config.Size, &e.Config.MlPerBottle, &e.Config.BottlesPerCase, &e.Config.Category); err != nil {
		return e, fmt.Errorf("scan entry: %w", err)
	}
	var err error
	if e.OpeningStock, err = quantity(openingMl, e.Config); err != nil {
		return e, err
	}
	if e.Purchases, err = quantity(purchasesMl, e.Config); err != nil {
		return e, err
	}
	if e.CurrentStock, err = quantity(currentMl, e.Config); err != nil {
		return e, err
	}
	return e, nil
}
