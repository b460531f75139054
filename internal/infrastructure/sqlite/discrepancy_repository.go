package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/liquor-ledger/internal/domain"
	"github.com/jhoicas/liquor-ledger/internal/domain/entity"
	"github.com/jhoicas/liquor-ledger/internal/domain/repository"
)

var _ repository.DiscrepancyRepository = (*DiscrepancyRepo)(nil)

// DiscrepancyRepo alertas de descuadre sobre SQLite.
type DiscrepancyRepo struct {
	q Querier
}

// NewDiscrepancyRepository construye el adaptador. Pasar db o tx.
func NewDiscrepancyRepository(q Querier) *DiscrepancyRepo {
	return &DiscrepancyRepo{q: q}
}

const flagColumns = `id, product_id, period, delta_ml, detected_at, resolved_at, resolved_by, resolution`

func (r *DiscrepancyRepo) Create(ctx context.Context, f *entity.DiscrepancyFlag) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO discrepancy_flags (id, product_id, period, delta_ml, detected_at) VALUES (?, ?, ?, ?, ?)`,
		f.ID, f.ProductID, f.Period, f.DeltaMl.String(), formatTime(f.DetectedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create flag: %w", err)
	}
	return nil
}

func (r *DiscrepancyRepo) GetOpen(ctx context.Context, productID, period string) (*entity.DiscrepancyFlag, error) {
	return r.get(ctx, `SELECT `+flagColumns+` FROM discrepancy_flags
		WHERE product_id = ? AND period = ? AND resolved_at IS NULL`, productID, period)
}

func (r *DiscrepancyRepo) GetByID(ctx context.Context, id string) (*entity.DiscrepancyFlag, error) {
	return r.get(ctx, `SELECT `+flagColumns+` FROM discrepancy_flags WHERE id = ?`, id)
}

func (r *DiscrepancyRepo) ListOpen(ctx context.Context) ([]*entity.DiscrepancyFlag, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+flagColumns+` FROM discrepancy_flags
		WHERE resolved_at IS NULL ORDER BY detected_at`)
	if err != nil {
		return nil, fmt.Errorf("list flags: %w", err)
	}
	defer rows.Close()
	var list []*entity.DiscrepancyFlag
	for rows.Next() {
		f, err := scanFlag(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, f)
	}
	return list, rows.Err()
}

func (r *DiscrepancyRepo) Resolve(ctx context.Context, id, resolvedBy, resolution string, at time.Time) error {
	res, err := r.q.ExecContext(ctx, `UPDATE discrepancy_flags SET resolved_at = ?, resolved_by = ?, resolution = ?
		WHERE id = ? AND resolved_at IS NULL`, formatTime(at), resolvedBy, resolution, id)
	if err != nil {
		return fmt.Errorf("resolve flag: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *DiscrepancyRepo) get(ctx context.Context, query string, args ...any) (*entity.DiscrepancyFlag, error) {
	f, err := scanFlag(r.q.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return f, nil
}

func scanFlag(row scanner) (*entity.DiscrepancyFlag, error) {
	var f entity.DiscrepancyFlag
	var delta, detectedAt string
	var resolvedAt sql.NullString
	if err := row.Scan(&f.ID, &f.ProductID, &f.Period, &delta, &detectedAt, &resolvedAt,
		&f.ResolvedBy, &f.Resolution); err != nil {
		return nil, err
	}
	dec := decimals{}
	f.DeltaMl = dec.parse(delta)
	if dec.err != nil {
		return nil, dec.err
	}
	var err error
	if f.DetectedAt, err = parseTime(detectedAt); err != nil {
		return nil, err
	}
	if resolvedAt.Valid {
		t, err := parseTime(resolvedAt.String)
		if err != nil {
			return nil, err
		}
		f.ResolvedAt = &t
	}
	return &f, nil
}
