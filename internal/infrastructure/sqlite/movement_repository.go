package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/liquor-ledger/internal/domain/entity"
	"github.com/jhoicas/liquor-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo diario de movimientos sobre SQLite.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar db o tx.
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, product_id, period, type, volume_ml, count, total_ml, version, at, created_by, note`

func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO ledger_movements (`+movementColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.ProductID, m.Period, m.Type, m.VolumeMl.String(), m.Count, m.TotalMl.String(),
		m.Version, formatTime(m.At), m.CreatedBy, m.Note,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

func (r *MovementRepo) ListByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM ledger_movements WHERE product_id = ?`
	args := []any{productID}
	if from != nil {
		query += " AND at >= ?"
		args = append(args, formatTime(*from))
	}
	if to != nil {
		query += " AND at <= ?"
		args = append(args, formatTime(*to))
	}
	query += " ORDER BY at DESC, version DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)
	return r.list(ctx, query, args...)
}

func (r *MovementRepo) CountByProduct(ctx context.Context, productID string) (int, error) {
	var n int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM ledger_movements WHERE product_id = ?`, productID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return n, nil
}

func (r *MovementRepo) ListSalesSince(ctx context.Context, since time.Time) ([]*entity.Movement, error) {
	return r.list(ctx, `SELECT `+movementColumns+` FROM ledger_movements
		WHERE type = ? AND at >= ? ORDER BY at, version`, entity.MovementTypeSALE, formatTime(since))
}

func (r *MovementRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Movement, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		var volumeMl, totalMl, at string
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Period, &m.Type, &volumeMl, &m.Count, &totalMl,
			&m.Version, &at, &m.CreatedBy, &m.Note); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		dec := decimals{}
		m.VolumeMl = dec.parse(volumeMl)
		m.TotalMl = dec.parse(totalMl)
		if dec.err != nil {
			return nil, dec.err
		}
		if m.At, err = parseTime(at); err != nil {
			return nil, err
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
