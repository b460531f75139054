package compliance_test

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/liquor-ledger/internal/application/compliance"
	"github.com/jhoicas/liquor-ledger/internal/application/dto"
	"github.com/jhoicas/liquor-ledger/internal/domain"
	"github.com/jhoicas/liquor-ledger/internal/domain/audit"
	"github.com/jhoicas/liquor-ledger/internal/domain/entity"
	"github.com/jhoicas/liquor-ledger/internal/domain/ledger"
	"github.com/jhoicas/liquor-ledger/internal/domain/units"
	"github.com/jhoicas/liquor-ledger/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

type memFlags struct {
	mu    sync.Mutex
	flags []*entity.DiscrepancyFlag
}

// Create respeta la unicidad de alerta abierta por producto y periodo, como el índice de la BD.
func (r *memFlags) Create(ctx context.Context, f *entity.DiscrepancyFlag) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.flags {
		if existing.ProductID == f.ProductID && existing.Period == f.Period && existing.Open() {
			return domain.ErrDuplicate
		}
	}
	cp := *f
	r.flags = append(r.flags, &cp)
	return nil
}

func (r *memFlags) GetOpen(ctx context.Context, productID, period string) (*entity.DiscrepancyFlag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.flags {
		if f.ProductID == productID && f.Period == period && f.Open() {
			cp := *f
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memFlags) GetByID(ctx context.Context, id string) (*entity.DiscrepancyFlag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.flags {
		if f.ID == id {
			cp := *f
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memFlags) ListOpen(ctx context.Context) ([]*entity.DiscrepancyFlag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.DiscrepancyFlag
	for _, f := range r.flags {
		if f.Open() {
			cp := *f
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memFlags) Resolve(ctx context.Context, id, resolvedBy, resolution string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.flags {
		if f.ID == id {
			f.ResolvedAt = &at
			f.ResolvedBy = resolvedBy
			f.Resolution = resolution
			return nil
		}
	}
	return domain.ErrNotFound
}

var cfg = entity.ProductConfig{Size: "750ml", MlPerBottle: decimal.NewFromInt(750), BottlesPerCase: 12}

// staleFlags no ve las alertas abiertas: simula otra auditoría que insertó entre la consulta y el alta.
type staleFlags struct{ *memFlags }

func (r staleFlags) GetOpen(ctx context.Context, productID, period string) (*entity.DiscrepancyFlag, error) {
	return nil, nil
}

func qty(ml int64) entity.StockQuantity {
	q, _ := units.FromMl(decimal.NewFromInt(ml), cfg)
	return q
}

// tamperedLedger libro con un producto cuadrado y otro cuyo saldo restaurado no cuadra por 120 ml.
func tamperedLedger(t *testing.T) *ledger.StockLedger {
	t.Helper()
	l := ledger.New()
	require.NoError(t, l.RegisterProduct("gin", cfg))
	require.NoError(t, l.RegisterProduct("rum", cfg))

	_, err := l.LoadOpeningStock("gin", "2026-10-17", entity.Quantity{Bottles: decimal.NewFromInt(2)})
	require.NoError(t, err)

	bad := entity.ProductLedgerEntry{
		ProductID:    "rum",
		Period:       "2026-10-17",
		Config:       cfg,
		OpeningStock: qty(1500),
		Purchases:    qty(0),
		SalesPegs:    decimal.NewFromInt(5),
		WastageMl:    decimal.Zero,
		CurrentStock: qty(1080), // esperado 1200
		Version:      6,
		Status:       entity.PeriodStatusOpen,
	}
	require.NoError(t, l.Restore("rum", &bad, nil, nil))
	return l
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestAudit_AbreUnaAlertaPorDescuadre(t *testing.T) {
	flags := &memFlags{}
	var buf bytes.Buffer
	uc := compliance.NewUseCase(tamperedLedger(t), audit.NewReconciliationAuditor(decimal.NewFromInt(1)),
		flags, logger.FromZerolog(zerolog.New(&buf)))

	out, err := uc.Audit(context.Background(), false)
	require.NoError(t, err)

	require.Len(t, out.Reports, 2)
	assert.Equal(t, 1, out.Failed)
	assert.True(t, out.Reports[0].OK)
	assert.False(t, out.Reports[1].OK)
	assert.Equal(t, "-120", out.Reports[1].DeltaMl.String())
	require.Len(t, out.OpenFlags, 1)
	assert.Equal(t, "rum", out.OpenFlags[0].ProductID)
	assert.Contains(t, buf.String(), "descuadre de conciliación")

	// Una segunda auditoría no duplica la alerta abierta.
	out, err = uc.Audit(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, out.OpenFlags, 1)
	assert.Len(t, flags.flags, 1)
}

func TestAudit_AlertaYaAbiertaPorOtraAuditoria(t *testing.T) {
	flags := &memFlags{}
	uc := compliance.NewUseCase(tamperedLedger(t), audit.NewReconciliationAuditor(decimal.NewFromInt(1)),
		flags, nil)
	_, err := uc.Audit(context.Background(), false)
	require.NoError(t, err)

	stale := compliance.NewUseCase(tamperedLedger(t), audit.NewReconciliationAuditor(decimal.NewFromInt(1)),
		staleFlags{flags}, nil)
	out, err := stale.Audit(context.Background(), false)
	require.NoError(t, err, "el duplicado cuenta como alerta ya abierta")
	assert.Equal(t, 1, out.Failed)
	assert.Len(t, flags.flags, 1)
}

func TestAudit_Concurrentes(t *testing.T) {
	flags := &memFlags{}
	uc := compliance.NewUseCase(tamperedLedger(t), audit.NewReconciliationAuditor(decimal.NewFromInt(1)),
		flags, nil)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Audit(context.Background(), false)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Len(t, flags.flags, 1)
}

func TestAudit_NoCorrigeElLibro(t *testing.T) {
	l := tamperedLedger(t)
	uc := compliance.NewUseCase(l, audit.NewReconciliationAuditor(decimal.Zero), &memFlags{}, nil)

	_, err := uc.Audit(context.Background(), true)
	require.NoError(t, err)

	snap, err := l.GetSnapshot("rum")
	require.NoError(t, err)
	assert.True(t, snap.CurrentStock.TotalMl.Equal(decimal.NewFromInt(1080)))
	assert.Equal(t, int64(6), snap.Version)
}

func TestResolveFlag(t *testing.T) {
	flags := &memFlags{}
	uc := compliance.NewUseCase(tamperedLedger(t), audit.NewReconciliationAuditor(decimal.Zero), flags, nil)
	ctx := context.Background()

	out, err := uc.Audit(ctx, false)
	require.NoError(t, err)
	require.Len(t, out.OpenFlags, 1)
	id := out.OpenFlags[0].ID

	_, err = uc.ResolveFlag(ctx, id, "u-owner", dto.ResolveFlagRequest{Resolution: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	resolved, err := uc.ResolveFlag(ctx, id, "u-owner", dto.ResolveFlagRequest{Resolution: "peg medido de más"})
	require.NoError(t, err)
	assert.Equal(t, "u-owner", resolved.ResolvedBy)
	require.NotNil(t, resolved.ResolvedAt)

	_, err = uc.ResolveFlag(ctx, id, "u-owner", dto.ResolveFlagRequest{Resolution: "otra vez"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = uc.ResolveFlag(ctx, "no-existe", "u-owner", dto.ResolveFlagRequest{Resolution: "nada"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	open, err := uc.ListOpenFlags(ctx)
	require.NoError(t, err)
	assert.Empty(t, open)
}

func TestObserver_AvisaSinBloquearLaVenta(t *testing.T) {
	l := tamperedLedger(t)
	var buf bytes.Buffer
	uc := compliance.NewUseCase(l, audit.NewReconciliationAuditor(decimal.Zero), &memFlags{},
		logger.FromZerolog(zerolog.New(&buf)))
	l.Subscribe(uc.Observer())

	_, err := l.RecordSale("rum", decimal.NewFromInt(60), 1)
	require.NoError(t, err, "el descuadre no bloquea la venta")
	assert.Contains(t, buf.String(), "saldo descuadrado tras movimiento")

	buf.Reset()
	_, err = l.RecordSale("gin", decimal.NewFromInt(60), 1)
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}
