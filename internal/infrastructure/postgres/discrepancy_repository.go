package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/liquor-ledger/internal/domain"
	"github.com/jhoicas/liquor-ledger/internal/domain/entity"
	"github.com/jhoicas/liquor-ledger/internal/domain/repository"
)

var _ repository.DiscrepancyRepository = (*DiscrepancyRepo)(nil)

// DiscrepancyRepo alertas de descuadre sobre PostgreSQL.
type DiscrepancyRepo struct {
	q Querier
}

// NewDiscrepancyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDiscrepancyRepository(q Querier) *DiscrepancyRepo {
	return &DiscrepancyRepo{q: q}
}

const flagColumns = `id, product_id, period, delta_ml, detected_at, resolved_at, resolved_by, resolution`

// Create persiste una alerta. Solo puede haber una abierta por producto y periodo.
func (r *DiscrepancyRepo) Create(ctx context.Context, f *entity.DiscrepancyFlag) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO discrepancy_flags (id, product_id, period, delta_ml, detected_at) VALUES ($1, $2, $3, $4, $5)`,
		f.ID, f.ProductID, f.Period, f.DeltaMl, f.DetectedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create flag: %w", err)
	}
	return nil
}

// GetOpen alerta abierta del producto y periodo.
func (r *DiscrepancyRepo) GetOpen(ctx context.Context, productID, period string) (*entity.DiscrepancyFlag, error) {
	return r.get(ctx, `SELECT `+flagColumns+` FROM discrepancy_flags
		WHERE product_id = $1 AND period = $2 AND resolved_at IS NULL`, productID, period)
}

// GetByID obtiene una alerta por ID.
func (r *DiscrepancyRepo) GetByID(ctx context.Context, id string) (*entity.DiscrepancyFlag, error) {
	return r.get(ctx, `SELECT `+flagColumns+` FROM discrepancy_flags WHERE id = $1`, id)
}

// ListOpen alertas pendientes, de la más antigua a la más reciente.
func (r *DiscrepancyRepo) ListOpen(ctx context.Context) ([]*entity.DiscrepancyFlag, error) {
	rows, err := r.q.Query(ctx, `SELECT `+flagColumns+` FROM discrepancy_flags
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

// Resolve marca la alerta como resuelta. Una alerta resuelta no se modifica.
func (r *DiscrepancyRepo) Resolve(ctx context.Context, id, resolvedBy, resolution string, at time.Time) error {
	cmd, err := r.q.Exec(ctx, `UPDATE discrepancy_flags SET resolved_at = $2, resolved_by = $3, resolution = $4
		WHERE id = $1 AND resolved_at IS NULL`, id, at, nullable(resolvedBy), resolution)
	if err != nil {
		return fmt.Errorf("resolve flag: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *DiscrepancyRepo) get(ctx context.Context, query string, args ...any) (*entity.DiscrepancyFlag, error) {
	f, err := scanFlag(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return f, nil
}

func scanFlag(row pgx.Row) (*entity.DiscrepancyFlag, error) {
	var f entity.DiscrepancyFlag
	var resolvedBy, resolution *string
	if err := row.Scan(&f.ID, &f.ProductID, &f.Period, &f.DeltaMl, &f.DetectedAt, &f.ResolvedAt,
		&resolvedBy, &resolution); err != nil {
		return nil, fmt.Errorf("scan flag: %w", err)
	}
	f.ResolvedBy = deref(resolvedBy)
	f.Resolution = deref(resolution)
	return &f, nil
}
