// Package ledger mantiene el saldo autoritativo de cada producto del bar durante el periodo:
// stock inicial, compras, ventas, mermas y stock actual.
//
// Las mutaciones de un mismo producto se serializan con un mutex por producto.
// Las lecturas devuelven copias, de modo que pronóstico y auditoría trabajan sobre
// instantáneas sin bloquear a los escritores.
package ledger

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/liquor-ledger/internal/domain"
	"github.com/jhoicas/liquor-ledger/internal/domain/entity"
	"github.com/jhoicas/liquor-ledger/internal/domain/units"
)

// StockLedger libro de existencias en memoria. Se inyecta a quien lo necesite; no hay instancia global.
type StockLedger struct {
	mu        sync.RWMutex
	books     map[string]*book
	observers []Observer
	now       func() time.Time
}

// book estado de un producto. entry es nil hasta cargar el primer stock inicial.
type book struct {
	mu      sync.Mutex
	cfg     entity.ProductConfig
	entry   *entity.ProductLedgerEntry
	history []entity.ProductLedgerEntry
	sales   []entity.SaleEvent
}

// New crea un libro vacío.
func New(observers ...Observer) *StockLedger {
	return &StockLedger{
		books:     make(map[string]*book),
		observers: observers,
		now:       time.Now,
	}
}

// Subscribe agrega un observador de cambios confirmados.
func (l *StockLedger) Subscribe(o Observer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.observers = append(l.observers, o)
}

// RegisterProduct da de alta la configuración de un producto. Una configuración inválida
// (ml por botella <= 0) es un error fatal de alta.
func (l *StockLedger) RegisterProduct(productID string, cfg entity.ProductConfig) error {
	if productID == "" {
		return domain.ErrInvalidInput
	}
	if err := units.ValidateConfig(cfg); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.books[productID]; ok {
		return fmt.Errorf("%w: producto %s", domain.ErrDuplicate, productID)
	}
	l.books[productID] = &book{cfg: cfg}
	return nil
}

// RemoveProduct deshace un alta que no llegó a persistirse. Solo admite productos sin
// stock inicial cargado.
func (l *StockLedger) RemoveProduct(productID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.books[productID]
	if !ok {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.entry != nil || len(b.history) > 0 {
		return fmt.Errorf("%w: producto %s con movimientos", domain.ErrInvalidInput, productID)
	}
	delete(l.books, productID)
	return nil
}

// Config devuelve la configuración registrada del producto.
func (l *StockLedger) Config(productID string) (entity.ProductConfig, error) {
	b, err := l.book(productID)
	if err != nil {
		return entity.ProductConfig{}, err
	}
	return b.cfg, nil
}

func (l *StockLedger) book(productID string) (*book, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	b, ok := l.books[productID]
	if !ok {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	return b, nil
}

// LoadOpeningStock abre el periodo con el stock contado. Compras, ventas y mermas vuelven a cero
// y el stock actual queda igual al inicial. Si el registro vigente tiene movimientos o pertenece
// a otro periodo, se archiva primero (queda cerrado e inmutable en el historial).
func (l *StockLedger) LoadOpeningStock(productID, period string, qty entity.Quantity, opts ...Option) (entity.ProductLedgerEntry, error) {
	if period == "" {
		return entity.ProductLedgerEntry{}, fmt.Errorf("%w: periodo vacío", domain.ErrInvalidInput)
	}
	b, err := l.book(productID)
	if err != nil {
		return entity.ProductLedgerEntry{}, err
	}
	opening, err := units.Normalize(qty, b.cfg)
	if err != nil {
		return entity.ProductLedgerEntry{}, err
	}
	return l.apply(b, opts, func(m *mutation) (Change, error) {
		var archived *entity.ProductLedgerEntry
		var version int64
		if b.entry != nil {
			version = b.entry.Version
			if b.entry.HasMovement() || b.entry.Period != period {
				a := closeEntry(*b.entry, m.at)
				archived = &a
			}
		}
		next := openEntry(productID, period, b.cfg, opening, version+1, m.at)
		return Change{
			Entry:    next,
			Movement: newMovement(next, entity.MovementTypeOPENING, opening.TotalMl, 1, m),
			Archived: archived,
		}, nil
	})
}

// ClosePeriod cierra el periodo vigente y abre nextPeriod con el stock actual como stock inicial.
func (l *StockLedger) ClosePeriod(productID, nextPeriod string, opts ...Option) (entity.ProductLedgerEntry, error) {
	if nextPeriod == "" {
		return entity.ProductLedgerEntry{}, fmt.Errorf("%w: periodo vacío", domain.ErrInvalidInput)
	}
	b, err := l.book(productID)
	if err != nil {
		return entity.ProductLedgerEntry{}, err
	}
	return l.apply(b, opts, func(m *mutation) (Change, error) {
		cur, err := b.current(productID)
		if err != nil {
			return Change{}, err
		}
		if cur.Period == nextPeriod {
			return Change{}, fmt.Errorf("%w: %s", domain.ErrPeriodClosed, nextPeriod)
		}
		archived := closeEntry(cur, m.at)
		next := openEntry(productID, nextPeriod, b.cfg, cur.CurrentStock, cur.Version+1, m.at)
		return Change{
			Entry:    next,
			Movement: newMovement(next, entity.MovementTypeOPENING, next.OpeningStock.TotalMl, 1, m),
			Archived: &archived,
		}, nil
	})
}

// RecordPurchase suma la cantidad recibida a compras y al stock actual. No afecta ventas.
func (l *StockLedger) RecordPurchase(productID string, qty entity.Quantity, opts ...Option) (entity.ProductLedgerEntry, error) {
	b, err := l.book(productID)
	if err != nil {
		return entity.ProductLedgerEntry{}, err
	}
	ml, err := units.ToMl(qty, b.cfg)
	if err != nil {
		return entity.ProductLedgerEntry{}, err
	}
	if !ml.IsPositive() {
		return entity.ProductLedgerEntry{}, fmt.Errorf("%w: compra vacía", domain.ErrInvalidQuantity)
	}
	return l.apply(b, opts, func(m *mutation) (Change, error) {
		cur, err := b.current(productID)
		if err != nil {
			return Change{}, err
		}
		next := cur
		if next.Purchases, err = units.FromMl(cur.Purchases.TotalMl.Add(ml), b.cfg); err != nil {
			return Change{}, err
		}
		if next.CurrentStock, err = units.FromMl(cur.CurrentStock.TotalMl.Add(ml), b.cfg); err != nil {
			return Change{}, err
		}
		bump(&next, m.at)
		return Change{Entry: next, Movement: newMovement(next, entity.MovementTypePURCHASE, ml, 1, m)}, nil
	})
}

// RecordSale registra count servicios de volumeMl cada uno. Un peg es volumeMl=60 y una botella
// completa es volumeMl=MlPerBottle: no hay un camino distinto para botellas.
// Si el stock actual no alcanza devuelve ErrInsufficientStock sin modificar nada.
func (l *StockLedger) RecordSale(productID string, volumeMl decimal.Decimal, count int, opts ...Option) (entity.ProductLedgerEntry, error) {
	if !volumeMl.IsPositive() || count < 1 {
		return entity.ProductLedgerEntry{}, fmt.Errorf("%w: volumen=%s cantidad=%d", domain.ErrInvalidQuantity, volumeMl, count)
	}
	b, err := l.book(productID)
	if err != nil {
		return entity.ProductLedgerEntry{}, err
	}
	totalMl := volumeMl.Mul(decimal.NewFromInt(int64(count)))
	return l.apply(b, opts, func(m *mutation) (Change, error) {
		cur, err := b.current(productID)
		if err != nil {
			return Change{}, err
		}
		if cur.CurrentStock.TotalMl.LessThan(totalMl) {
			return Change{}, fmt.Errorf("%w: disponible %s ml, solicitado %s ml",
				domain.ErrInsufficientStock, cur.CurrentStock.TotalMl, totalMl)
		}
		next := cur
		next.SalesPegs = cur.SalesPegs.Add(units.MlToPegs(totalMl))
		if next.CurrentStock, err = units.FromMl(cur.CurrentStock.TotalMl.Sub(totalMl), b.cfg); err != nil {
			return Change{}, err
		}
		bump(&next, m.at)
		mv := newMovement(next, entity.MovementTypeSALE, volumeMl, count, m)
		return Change{Entry: next, Movement: mv}, nil
	})
}

// RecordWastage registra una merma en ml. Rechaza la operación si el stock quedaría negativo.
func (l *StockLedger) RecordWastage(productID string, ml decimal.Decimal, opts ...Option) (entity.ProductLedgerEntry, error) {
	if !ml.IsPositive() {
		return entity.ProductLedgerEntry{}, fmt.Errorf("%w: merma=%s ml", domain.ErrInvalidQuantity, ml)
	}
	b, err := l.book(productID)
	if err != nil {
		return entity.ProductLedgerEntry{}, err
	}
	return l.apply(b, opts, func(m *mutation) (Change, error) {
		cur, err := b.current(productID)
		if err != nil {
			return Change{}, err
		}
		if cur.CurrentStock.TotalMl.LessThan(ml) {
			return Change{}, fmt.Errorf("%w: disponible %s ml, merma %s ml",
				domain.ErrInsufficientStock, cur.CurrentStock.TotalMl, ml)
		}
		next := cur
		next.WastageMl = cur.WastageMl.Add(ml)
		if next.CurrentStock, err = units.FromMl(cur.CurrentStock.TotalMl.Sub(ml), b.cfg); err != nil {
			return Change{}, err
		}
		bump(&next, m.at)
		return Change{Entry: next, Movement: newMovement(next, entity.MovementTypeWASTAGE, ml, 1, m)}, nil
	})
}

// apply ejecuta build con el producto bloqueado: valida versión, confirma y publica.
func (l *StockLedger) apply(b *book, opts []Option, build func(m *mutation) (Change, error)) (entity.ProductLedgerEntry, error) {
	m := buildMutation(l.now(), opts)

	b.mu.Lock()
	if m.expectedVersion != nil {
		var current int64
		if b.entry != nil {
			current = b.entry.Version
		}
		if current != *m.expectedVersion {
			b.mu.Unlock()
			return entity.ProductLedgerEntry{}, fmt.Errorf("%w: versión actual %d, esperada %d", domain.ErrConflict, current, *m.expectedVersion)
		}
	}
	change, err := build(m)
	if err == nil && m.commit != nil {
		err = m.commit(cloneChange(change))
	}
	if err != nil {
		b.mu.Unlock()
		return entity.ProductLedgerEntry{}, err
	}
	if change.Archived != nil {
		b.history = append(b.history, change.Archived.Clone())
	}
	if change.Movement.Type == entity.MovementTypeSALE {
		b.sales = append(b.sales, entity.SaleEventFromMovement(change.Movement))
	}
	entry := change.Entry.Clone()
	b.entry = &entry
	b.mu.Unlock()

	l.mu.RLock()
	observers := l.observers
	l.mu.RUnlock()
	for _, o := range observers {
		o.OnChange(cloneChange(change))
	}
	return change.Entry.Clone(), nil
}

func (b *book) current(productID string) (entity.ProductLedgerEntry, error) {
	if b.entry == nil {
		return entity.ProductLedgerEntry{}, fmt.Errorf("%w: producto %s sin stock inicial", domain.ErrNotFound, productID)
	}
	return b.entry.Clone(), nil
}

func openEntry(productID, period string, cfg entity.ProductConfig, opening entity.StockQuantity, version int64, at time.Time) entity.ProductLedgerEntry {
	zero, _ := units.FromMl(decimal.Zero, cfg)
	return entity.ProductLedgerEntry{
		ProductID:    productID,
		Period:       period,
		Config:       cfg,
		OpeningStock: opening,
		Purchases:    zero,
		SalesPegs:    decimal.Zero,
		WastageMl:    decimal.Zero,
		CurrentStock: opening,
		Version:      version,
		Status:       entity.PeriodStatusOpen,
		OpenedAt:     at,
		UpdatedAt:    at,
	}
}

func closeEntry(e entity.ProductLedgerEntry, at time.Time) entity.ProductLedgerEntry {
	closed := e.Clone()
	closed.Status = entity.PeriodStatusClosed
	closed.ClosedAt = &at
	closed.UpdatedAt = at
	return closed
}

func bump(e *entity.ProductLedgerEntry, at time.Time) {
	e.Version++
	e.UpdatedAt = at
}

func newMovement(e entity.ProductLedgerEntry, typ string, volumeMl decimal.Decimal, count int, m *mutation) entity.Movement {
	return entity.Movement{
		ID:        uuid.New().String(),
		ProductID: e.ProductID,
		Period:    e.Period,
		Type:      typ,
		VolumeMl:  volumeMl,
		Count:     count,
		TotalMl:   volumeMl.Mul(decimal.NewFromInt(int64(count))),
		Version:   e.Version,
		At:        m.at,
		CreatedBy: m.by,
		Note:      m.note,
	}
}

func cloneChange(c Change) Change {
	out := Change{Entry: c.Entry.Clone(), Movement: c.Movement}
	if c.Archived != nil {
		a := c.Archived.Clone()
		out.Archived = &a
	}
	return out
}

// GetSnapshot copia de solo lectura del saldo vigente del producto.
func (l *StockLedger) GetSnapshot(productID string) (entity.ProductLedgerEntry, error) {
	b, err := l.book(productID)
	if err != nil {
		return entity.ProductLedgerEntry{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current(productID)
}

// Snapshots copias de todos los saldos vigentes, ordenadas por producto.
// Los productos sin stock inicial se omiten.
func (l *StockLedger) Snapshots() []entity.ProductLedgerEntry {
	l.mu.RLock()
	books := make([]*book, 0, len(l.books))
	for _, b := range l.books {
		books = append(books, b)
	}
	l.mu.RUnlock()

	out := make([]entity.ProductLedgerEntry, 0, len(books))
	for _, b := range books {
		b.mu.Lock()
		if b.entry != nil {
			out = append(out, b.entry.Clone())
		}
		b.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

// History periodos cerrados del producto, del más antiguo al más reciente.
func (l *StockLedger) History(productID string) ([]entity.ProductLedgerEntry, error) {
	b, err := l.book(productID)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]entity.ProductLedgerEntry, len(b.history))
	for i, e := range b.history {
		out[i] = e.Clone()
	}
	return out, nil
}

// SalesHistory eventos de venta conocidos del producto, en orden de registro.
func (l *StockLedger) SalesHistory(productID string) ([]entity.SaleEvent, error) {
	b, err := l.book(productID)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]entity.SaleEvent, len(b.sales))
	copy(out, b.sales)
	return out, nil
}

// PruneSales descarta eventos de venta anteriores a before (memoria acotada para el pronóstico).
func (l *StockLedger) PruneSales(before time.Time) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, b := range l.books {
		b.mu.Lock()
		kept := b.sales[:0]
		for _, s := range b.sales {
			if !s.At.Before(before) {
				kept = append(kept, s)
			}
		}
		b.sales = kept
		b.mu.Unlock()
	}
}

// Restore reconstruye el estado de un producto ya registrado a partir de lo persistido.
// entry puede ser nil si el producto aún no tiene stock inicial.
func (l *StockLedger) Restore(productID string, entry *entity.ProductLedgerEntry, history []entity.ProductLedgerEntry, sales []entity.SaleEvent) error {
	b, err := l.book(productID)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if entry != nil {
		e := entry.Clone()
		e.Config = b.cfg
		b.entry = &e
	}
	b.history = make([]entity.ProductLedgerEntry, 0, len(history))
	for _, h := range history {
		b.history = append(b.history, h.Clone())
	}
	b.sales = append([]entity.SaleEvent(nil), sales...)
	return nil
}
