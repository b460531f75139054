package sqlite

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/liquor-ledger/internal/domain"
	"github.com/jhoicas/liquor-ledger/internal/domain/entity"
	"github.com/jhoicas/liquor-ledger/internal/domain/repository"
	"github.com/jhoicas/liquor-ledger/internal/domain/units"
)

var _ repository.LedgerEntryRepository = (*LedgerEntryRepo)(nil)

// LedgerEntryRepo saldo abierto en columnas (ledger_open) y periodos cerrados como
// registros msgpack inmutables (ledger_archive).
type LedgerEntryRepo struct {
	q Querier
}

// NewLedgerEntryRepository construye el adaptador. Pasar db o tx.
func NewLedgerEntryRepository(q Querier) *LedgerEntryRepo {
	return &LedgerEntryRepo{q: q}
}

func (r *LedgerEntryRepo) SaveOpen(ctx context.Context, e entity.ProductLedgerEntry) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO ledger_open (product_id, period, opening_ml, purchases_ml, sales_pegs, wastage_ml,
			current_ml, version, opened_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (product_id) DO UPDATE SET
			period = excluded.period,
			opening_ml = excluded.opening_ml,
			purchases_ml = excluded.purchases_ml,
			sales_pegs = excluded.sales_pegs,
			wastage_ml = excluded.wastage_ml,
			current_ml = excluded.current_ml,
			version = excluded.version,
			opened_at = excluded.opened_at,
			updated_at = excluded.updated_at`,
		e.ProductID, e.Period, e.OpeningStock.TotalMl.String(), e.Purchases.TotalMl.String(),
		e.SalesPegs.String(), e.WastageMl.String(), e.CurrentStock.TotalMl.String(),
		e.Version, formatTime(e.OpenedAt), formatTime(e.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("save open entry: %w", err)
	}
	return nil
}

func (r *LedgerEntryRepo) Archive(ctx context.Context, e entity.ProductLedgerEntry) error {
	payload, err := encodeArchive(e)
	if err != nil {
		return fmt.Errorf("encode archive: %w", err)
	}
	closedAt := e.UpdatedAt
	if e.ClosedAt != nil {
		closedAt = *e.ClosedAt
	}
	_, err = r.q.ExecContext(ctx,
		`INSERT INTO ledger_archive (product_id, version, period, closed_at, payload) VALUES (?, ?, ?, ?, ?)`,
		e.ProductID, e.Version, e.Period, formatTime(closedAt), payload,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s %s", domain.ErrPeriodClosed, e.ProductID, e.Period)
		}
		return fmt.Errorf("archive entry: %w", err)
	}
	return nil
}

func (r *LedgerEntryRepo) ListOpen(ctx context.Context) ([]entity.ProductLedgerEntry, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT o.product_id, o.period, o.opening_ml, o.purchases_ml, o.sales_pegs, o.wastage_ml, o.current_ml,
			o.version, o.opened_at, o.updated_at,
			p.size, p.ml_per_bottle, p.bottles_per_case, p.category
		FROM ledger_open o JOIN products p ON p.id = o.product_id
		ORDER BY o.product_id`)
	if err != nil {
		return nil, fmt.Errorf("list open entries: %w", err)
	}
	defer rows.Close()
	var list []entity.ProductLedgerEntry
	for rows.Next() {
		e, err := scanOpen(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func (r *LedgerEntryRepo) ListClosed(ctx context.Context, productID string) ([]entity.ProductLedgerEntry, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT payload FROM ledger_archive WHERE product_id = ? ORDER BY version`, productID)
	if err != nil {
		return nil, fmt.Errorf("list closed entries: %w", err)
	}
	defer rows.Close()
	var list []entity.ProductLedgerEntry
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan archive: %w", err)
		}
		e, err := decodeArchive(payload)
		if err != nil {
			return nil, fmt.Errorf("decode archive: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func scanOpen(row scanner) (entity.ProductLedgerEntry, error) {
	var e entity.ProductLedgerEntry
	var openingMl, purchasesMl, salesPegs, wastageMl, currentMl, openedAt, updatedAt, mlPerBottle string
	if err := row.Scan(&e.ProductID, &e.Period, &openingMl, &purchasesMl, &salesPegs, &wastageMl, &currentMl,
		&e.Version, &openedAt, &updatedAt,
		&e.Config.Size, &mlPerBottle, &e.Config.BottlesPerCase, &e.Config.Category); err != nil {
		return e, fmt.Errorf("scan open entry: %w", err)
	}
	dec := decimals{}
	e.Config.MlPerBottle = dec.parse(mlPerBottle)
	e.SalesPegs = dec.parse(salesPegs)
	e.WastageMl = dec.parse(wastageMl)
	opening, purchases, current := dec.parse(openingMl), dec.parse(purchasesMl), dec.parse(currentMl)
	if dec.err != nil {
		return e, dec.err
	}
	e.Status = entity.PeriodStatusOpen

	var err error
	if e.OpenedAt, err = parseTime(openedAt); err != nil {
		return e, err
	}
	if e.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return e, err
	}
	for _, f := range []struct {
		dst *entity.StockQuantity
		ml  decimal.Decimal
	}{{&e.OpeningStock, opening}, {&e.Purchases, purchases}, {&e.CurrentStock, current}} {
		if *f.dst, err = units.FromMl(f.ml, e.Config); err != nil {
			return e, err
		}
	}
	return e, nil
}
