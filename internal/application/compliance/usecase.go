// Package compliance audita el libro para el inspector de excise y gestiona las alertas
// de descuadre hasta que una persona las resuelve.
package compliance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/liquor-ledger/internal/application/dto"
	"github.com/jhoicas/liquor-ledger/internal/application/inventory"
	"github.com/jhoicas/liquor-ledger/internal/domain"
	"github.com/jhoicas/liquor-ledger/internal/domain/audit"
	"github.com/jhoicas/liquor-ledger/internal/domain/entity"
	"github.com/jhoicas/liquor-ledger/internal/domain/ledger"
	"github.com/jhoicas/liquor-ledger/internal/domain/repository"
	"github.com/jhoicas/liquor-ledger/pkg/logger"
)

// UseCase conciliación y alertas de descuadre. Nunca corrige el libro.
type UseCase struct {
	ledger   *ledger.StockLedger
	auditor  *audit.ReconciliationAuditor
	flagRepo repository.DiscrepancyRepository
	log      *logger.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(l *ledger.StockLedger, auditor *audit.ReconciliationAuditor, flagRepo repository.DiscrepancyRepository, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		ledger:   l,
		auditor:  auditor,
		flagRepo: flagRepo,
		log:      log.Named("compliance"),
		now:      time.Now,
	}
}

// Audit concilia los saldos vigentes (y los periodos cerrados si includeHistory) y abre una
// alerta por cada descuadre que no tenga ya una alerta pendiente.
func (uc *UseCase) Audit(ctx context.Context, includeHistory bool) (*dto.ComplianceReportResponse, error) {
	entries := uc.ledger.Snapshots()
	if includeHistory {
		var closed []entity.ProductLedgerEntry
		for _, e := range entries {
			h, err := uc.ledger.History(e.ProductID)
			if err != nil {
				return nil, err
			}
			closed = append(closed, h...)
		}
		entries = append(closed, entries...)
	}

	reports := uc.auditor.AuditAll(entries)
	failed := audit.Failed(reports)
	for _, r := range failed {
		if err := uc.raise(ctx, r); err != nil {
			return nil, err
		}
	}

	flags, err := uc.flagRepo.ListOpen(ctx)
	if err != nil {
		return nil, err
	}

	out := &dto.ComplianceReportResponse{
		GeneratedAt: uc.now(),
		ToleranceMl: uc.auditor.Tolerance(),
		Entries:     inventory.ToLedgerEntryResponses(entries),
		Reports:     make([]dto.AuditReportDTO, 0, len(reports)),
		Failed:      len(failed),
		OpenFlags:   toFlagDTOs(flags),
	}
	for _, r := range reports {
		out.Reports = append(out.Reports, dto.AuditReportDTO{
			ProductID:  r.ProductID,
			Period:     r.Period,
			OK:         r.OK,
			DeltaMl:    r.DeltaMl,
			ExpectedMl: r.ExpectedMl,
			ActualMl:   r.ActualMl,
		})
	}
	return out, nil
}

func (uc *UseCase) raise(ctx context.Context, r entity.AuditReport) error {
	existing, err := uc.flagRepo.GetOpen(ctx, r.ProductID, r.Period)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	flag := &entity.DiscrepancyFlag{
		ID:         uuid.New().String(),
		ProductID:  r.ProductID,
		Period:     r.Period,
		DeltaMl:    r.DeltaMl,
		DetectedAt: uc.now(),
	}
	if err := uc.flagRepo.Create(ctx, flag); err != nil {
		// otra auditoría concurrente ya abrió la alerta
		if errors.Is(err, domain.ErrDuplicate) {
			return nil
		}
		return fmt.Errorf("crear alerta: %w", err)
	}
	uc.log.Warn().
		Str("product_id", r.ProductID).
		Str("period", r.Period).
		Str("delta_ml", r.DeltaMl.StringFixed(2)).
		Msg("descuadre de conciliación")
	return nil
}

// ListOpenFlags alertas pendientes de resolución.
func (uc *UseCase) ListOpenFlags(ctx context.Context) ([]dto.DiscrepancyFlagDTO, error) {
	flags, err := uc.flagRepo.ListOpen(ctx)
	if err != nil {
		return nil, err
	}
	return toFlagDTOs(flags), nil
}

// ResolveFlag cierra una alerta con la explicación de quien la revisó.
func (uc *UseCase) ResolveFlag(ctx context.Context, id, userID string, in dto.ResolveFlagRequest) (*dto.DiscrepancyFlagDTO, error) {
	resolution := strings.TrimSpace(in.Resolution)
	if resolution == "" {
		return nil, fmt.Errorf("%w: resolución vacía", domain.ErrInvalidInput)
	}
	flag, err := uc.flagRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if flag == nil {
		return nil, domain.ErrNotFound
	}
	if !flag.Open() {
		return nil, fmt.Errorf("%w: alerta %s ya resuelta", domain.ErrConflict, id)
	}
	at := uc.now()
	if err := uc.flagRepo.Resolve(ctx, id, userID, resolution, at); err != nil {
		return nil, err
	}
	flag.ResolvedAt = &at
	flag.ResolvedBy = userID
	flag.Resolution = resolution
	uc.log.Info().Str("flag_id", id).Str("user_id", userID).Msg("alerta resuelta")
	out := toFlagDTO(flag)
	return &out, nil
}

// Observer verifica cada saldo tras una mutación y registra un aviso si no cuadra.
// No bloquea la venta: la alerta persistida la abre Audit.
func (uc *UseCase) Observer() ledger.Observer {
	return ledger.ObserverFunc(func(c ledger.Change) {
		if err := uc.auditor.Verify(c.Entry); err != nil {
			uc.log.Warn().Err(err).Str("movement_id", c.Movement.ID).Msg("saldo descuadrado tras movimiento")
		}
	})
}

func toFlagDTOs(flags []*entity.DiscrepancyFlag) []dto.DiscrepancyFlagDTO {
	out := make([]dto.DiscrepancyFlagDTO, 0, len(flags))
	for _, f := range flags {
		out = append(out, toFlagDTO(f))
	}
	return out
}

func toFlagDTO(f *entity.DiscrepancyFlag) dto.DiscrepancyFlagDTO {
	return dto.DiscrepancyFlagDTO{
		ID:         f.ID,
		ProductID:  f.ProductID,
		Period:     f.Period,
		DeltaMl:    f.DeltaMl,
		DetectedAt: f.DetectedAt,
		ResolvedAt: f.ResolvedAt,
		ResolvedBy: f.ResolvedBy,
		Resolution: f.Resolution,
	}
}
