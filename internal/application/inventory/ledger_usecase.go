package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/liquor-ledger/internal/application/dto"
	"github.com/jhoicas/liquor-ledger/internal/domain"
	"github.com/jhoicas/liquor-ledger/internal/domain/entity"
	"github.com/jhoicas/liquor-ledger/internal/domain/ledger"
	"github.com/jhoicas/liquor-ledger/internal/domain/repository"
	"github.com/jhoicas/liquor-ledger/internal/domain/units"
	"github.com/jhoicas/liquor-ledger/pkg/logger"
)

// PeriodLayout formato de los identificadores de periodo diario.
const PeriodLayout = "2006-01-02"

// LedgerUseCase casos de uso del libro de existencias. Cada mutación se aplica al libro en memoria
// y se persiste en la misma sección crítica (saldo, periodo archivado y movimiento en una sola tx).
type LedgerUseCase struct {
	ledger           *ledger.StockLedger
	txRunner         TxRunner
	productRepo      repository.ProductRepository
	entryRepo        repository.LedgerEntryRepository
	movRepo          repository.MovementRepository
	log              *logger.Logger
	loc              *time.Location
	salesHistoryDays int
	now              func() time.Time
}

// NewLedgerUseCase construye el caso de uso. loc define el día de los periodos (nil = UTC).
func NewLedgerUseCase(
	l *ledger.StockLedger,
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	entryRepo repository.LedgerEntryRepository,
	movRepo repository.MovementRepository,
	log *logger.Logger,
	loc *time.Location,
	salesHistoryDays int,
) *LedgerUseCase {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.Nop()
	}
	return &LedgerUseCase{
		ledger:           l,
		txRunner:         txRunner,
		productRepo:      productRepo,
		entryRepo:        entryRepo,
		movRepo:          movRepo,
		log:              log.Named("ledger"),
		loc:              loc,
		salesHistoryDays: salesHistoryDays,
		now:              time.Now,
	}
}

// Today identificador del periodo del día actual.
func (uc *LedgerUseCase) Today() string {
	return uc.now().In(uc.loc).Format(PeriodLayout)
}

// RegisterProduct da de alta el producto en el libro y en BD; no deja uno sin el otro.
func (uc *LedgerUseCase) RegisterProduct(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	category := entity.TaxCategory(in.TaxCategory)
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidCategory, in.TaxCategory)
	}
	cfg := entity.ProductConfig{
		Size:           in.Size,
		MlPerBottle:    in.MlPerBottle,
		BottlesPerCase: in.BottlesPerCase,
		Category:       in.Category,
	}
	if err := units.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	existing, err := uc.productRepo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	product := &entity.Product{
		ID:          in.ID,
		Name:        in.Name,
		Config:      cfg,
		TaxCategory: category,
		CreatedAt:   uc.now(),
	}
	// Primero el libro (rechaza duplicados en memoria); si la BD falla se deshace el alta.
	if err := uc.ledger.RegisterProduct(product.ID, cfg); err != nil {
		return nil, err
	}
	if err := uc.productRepo.Create(ctx, product); err != nil {
		if rbErr := uc.ledger.RemoveProduct(product.ID); rbErr != nil {
			uc.log.Error().Err(rbErr).Str("product_id", product.ID).Msg("deshacer alta en el libro")
		}
		return nil, err
	}
	uc.log.Info().Str("product_id", product.ID).Str("ml_per_bottle", cfg.MlPerBottle.String()).Msg("producto registrado")
	return ToProductResponse(product), nil
}

// ListProducts productos registrados.
func (uc *LedgerUseCase) ListProducts(ctx context.Context) (*dto.ProductListResponse, error) {
	products, err := uc.productRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := &dto.ProductListResponse{Items: make([]dto.ProductResponse, 0, len(products))}
	for _, p := range products {
		out.Items = append(out.Items, *ToProductResponse(p))
	}
	return out, nil
}

// LoadOpeningStock abre el periodo con el stock contado (periodo vacío = hoy).
func (uc *LedgerUseCase) LoadOpeningStock(ctx context.Context, userID, productID string, in dto.OpeningStockRequest) (*dto.LedgerEntryResponse, error) {
	period := in.Period
	if period == "" {
		period = uc.Today()
	}
	entry, err := uc.ledger.LoadOpeningStock(productID, period, toQuantity(in.QuantityRequest),
		uc.options(ctx, userID, "", in.ExpectedVersion)...)
	return uc.result(entity.MovementTypeOPENING, entry, err)
}

// ClosePeriod cierra el periodo vigente. Sin NextPeriod se usa el día siguiente al periodo
// cerrado, o hoy si el periodo no es una fecha.
func (uc *LedgerUseCase) ClosePeriod(ctx context.Context, userID, productID string, in dto.ClosePeriodRequest) (*dto.LedgerEntryResponse, error) {
	next := in.NextPeriod
	if next == "" {
		cur, err := uc.ledger.GetSnapshot(productID)
		if err != nil {
			return nil, err
		}
		next = uc.nextPeriod(cur.Period)
	}
	entry, err := uc.ledger.ClosePeriod(productID, next, uc.options(ctx, userID, "cierre de periodo", in.ExpectedVersion)...)
	return uc.result("CLOSE", entry, err)
}

// RecordPurchase registra una compra recibida.
func (uc *LedgerUseCase) RecordPurchase(ctx context.Context, userID, productID string, in dto.PurchaseRequest) (*dto.LedgerEntryResponse, error) {
	entry, err := uc.ledger.RecordPurchase(productID, toQuantity(in.QuantityRequest),
		uc.options(ctx, userID, in.Note, in.ExpectedVersion)...)
	return uc.result(entity.MovementTypePURCHASE, entry, err)
}

// RecordSale registra count servicios de volume_ml (peg o botella).
func (uc *LedgerUseCase) RecordSale(ctx context.Context, userID, productID string, in dto.SaleRequest) (*dto.LedgerEntryResponse, error) {
	entry, err := uc.ledger.RecordSale(productID, in.VolumeMl, in.Count,
		uc.options(ctx, userID, "", in.ExpectedVersion)...)
	return uc.result(entity.MovementTypeSALE, entry, err)
}

// RecordWastage registra una merma en ml.
func (uc *LedgerUseCase) RecordWastage(ctx context.Context, userID, productID string, in dto.WastageRequest) (*dto.LedgerEntryResponse, error) {
	entry, err := uc.ledger.RecordWastage(productID, in.Ml,
		uc.options(ctx, userID, in.Note, in.ExpectedVersion)...)
	return uc.result(entity.MovementTypeWASTAGE, entry, err)
}

// GetSnapshot saldo vigente de un producto.
func (uc *LedgerUseCase) GetSnapshot(ctx context.Context, productID string) (*dto.LedgerEntryResponse, error) {
	entry, err := uc.ledger.GetSnapshot(productID)
	if err != nil {
		return nil, err
	}
	out := ToLedgerEntryResponse(entry)
	return &out, nil
}

// ListSnapshots saldos vigentes de todos los productos.
func (uc *LedgerUseCase) ListSnapshots(ctx context.Context) *dto.LedgerListResponse {
	return &dto.LedgerListResponse{Items: ToLedgerEntryResponses(uc.ledger.Snapshots())}
}

// History periodos cerrados del producto y página de su diario de movimientos.
func (uc *LedgerUseCase) History(ctx context.Context, productID string, page dto.PageRequest) (*dto.LedgerHistoryResponse, error) {
	page.Normalize()
	periods, err := uc.ledger.History(productID)
	if err != nil {
		return nil, err
	}
	movements, err := uc.movRepo.ListByProduct(ctx, productID, nil, nil, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.movRepo.CountByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	out := &dto.LedgerHistoryResponse{
		ProductID: productID,
		Periods:   ToLedgerEntryResponses(periods),
		Movements: make([]dto.MovementResponse, 0, len(movements)),
		Page:      page.Response(total),
	}
	for _, m := range movements {
		out.Movements = append(out.Movements, toMovementResponse(m))
	}
	return out, nil
}

// Restore carga en el libro los productos, saldos abiertos, periodos cerrados y
// las ventas recientes persistidas. Se llama una vez al arrancar.
func (uc *LedgerUseCase) Restore(ctx context.Context) error {
	products, err := uc.productRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("listar productos: %w", err)
	}
	for _, p := range products {
		if err := uc.ledger.RegisterProduct(p.ID, p.Config); err != nil && !errors.Is(err, domain.ErrDuplicate) {
			return fmt.Errorf("registrar %s: %w", p.ID, err)
		}
	}

	open, err := uc.entryRepo.ListOpen(ctx)
	if err != nil {
		return fmt.Errorf("listar saldos abiertos: %w", err)
	}
	openByProduct := make(map[string]entity.ProductLedgerEntry, len(open))
	for _, e := range open {
		openByProduct[e.ProductID] = e
	}

	sales, err := uc.movRepo.ListSalesSince(ctx, uc.salesCutoff())
	if err != nil {
		return fmt.Errorf("listar ventas: %w", err)
	}
	salesByProduct := make(map[string][]entity.SaleEvent)
	for _, m := range sales {
		salesByProduct[m.ProductID] = append(salesByProduct[m.ProductID], entity.SaleEventFromMovement(*m))
	}

	for _, p := range products {
		history, err := uc.entryRepo.ListClosed(ctx, p.ID)
		if err != nil {
			return fmt.Errorf("historial %s: %w", p.ID, err)
		}
		var entry *entity.ProductLedgerEntry
		if e, ok := openByProduct[p.ID]; ok {
			entry = &e
		}
		if err := uc.ledger.Restore(p.ID, entry, history, salesByProduct[p.ID]); err != nil {
			return err
		}
	}
	uc.log.Info().Int("products", len(products)).Int("open_entries", len(open)).Int("sales", len(sales)).Msg("libro restaurado")
	return nil
}

// PruneSales descarta del libro las ventas fuera de la ventana de historial.
func (uc *LedgerUseCase) PruneSales() {
	uc.ledger.PruneSales(uc.salesCutoff())
}

func (uc *LedgerUseCase) salesCutoff() time.Time {
	days := uc.salesHistoryDays
	if days <= 0 {
		days = 30
	}
	return uc.now().AddDate(0, 0, -days)
}

func (uc *LedgerUseCase) nextPeriod(current string) string {
	if d, err := time.ParseInLocation(PeriodLayout, current, uc.loc); err == nil {
		return d.AddDate(0, 0, 1).Format(PeriodLayout)
	}
	return uc.Today()
}

func (uc *LedgerUseCase) options(ctx context.Context, userID, note string, expected *int64) []ledger.Option {
	opts := []ledger.Option{ledger.By(userID), ledger.OnCommit(uc.persist(ctx))}
	if note != "" {
		opts = append(opts, ledger.WithNote(note))
	}
	if expected != nil {
		opts = append(opts, ledger.IfVersion(*expected))
	}
	return opts
}

// persist guarda el cambio en una transacción. Si falla, el libro no aplica la mutación.
func (uc *LedgerUseCase) persist(ctx context.Context) ledger.CommitFunc {
	return func(c ledger.Change) error {
		return uc.txRunner.Run(ctx, func(entryRepo repository.LedgerEntryRepository, movRepo repository.MovementRepository) error {
			if c.Archived != nil {
				if err := entryRepo.Archive(ctx, *c.Archived); err != nil {
					return err
				}
			}
			if err := entryRepo.SaveOpen(ctx, c.Entry); err != nil {
				return err
			}
			mv := c.Movement
			return movRepo.Create(ctx, &mv)
		})
	}
}

func (uc *LedgerUseCase) result(op string, entry entity.ProductLedgerEntry, err error) (*dto.LedgerEntryResponse, error) {
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) || errors.Is(err, domain.ErrConflict) {
			uc.log.Warn().Err(err).Str("op", op).Msg("movimiento rechazado")
		}
		return nil, err
	}
	uc.log.Debug().
		Str("op", op).
		Str("product_id", entry.ProductID).
		Str("period", entry.Period).
		Int64("version", entry.Version).
		Str("current_ml", entry.CurrentStock.TotalMl.String()).
		Msg("movimiento registrado")
	out := ToLedgerEntryResponse(entry)
	return &out, nil
}
