package inventory_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/liquor-ledger/internal/domain"
	"github.com/jhoicas/liquor-ledger/internal/domain/entity"
	"github.com/jhoicas/liquor-ledger/internal/domain/repository"
)

// memStore implementa los puertos de persistencia en memoria.
type memStore struct {
	mu        sync.Mutex
	products  map[string]*entity.Product
	open      map[string]entity.ProductLedgerEntry
	closed    map[string][]entity.ProductLedgerEntry
	movements []*entity.Movement
	failTx    error
	// failCreate hace fallar el alta de productos.
	failCreate error
}

func newMemStore() *memStore {
	return &memStore{
		products: make(map[string]*entity.Product),
		open:     make(map[string]entity.ProductLedgerEntry),
		closed:   make(map[string][]entity.ProductLedgerEntry),
	}
}

type memProducts struct{ s *memStore }

func (r memProducts) Create(ctx context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failCreate != nil {
		return r.s.failCreate
	}
	if _, ok := r.s.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r memProducts) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r memProducts) List(ctx context.Context) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memEntries struct{ s *memStore }

func (r memEntries) SaveOpen(ctx context.Context, e entity.ProductLedgerEntry) error {
	r.s.open[e.ProductID] = e.Clone()
	return nil
}

func (r memEntries) Archive(ctx context.Context, e entity.ProductLedgerEntry) error {
	for _, c := range r.s.closed[e.ProductID] {
		if c.Period == e.Period {
			return domain.ErrPeriodClosed
		}
	}
	r.s.closed[e.ProductID] = append(r.s.closed[e.ProductID], e.Clone())
	return nil
}

func (r memEntries) ListOpen(ctx context.Context) ([]entity.ProductLedgerEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entity.ProductLedgerEntry, 0, len(r.s.open))
	for _, e := range r.s.open {
		out = append(out, e.Clone())
	}
	return out, nil
}

func (r memEntries) ListClosed(ctx context.Context, productID string) ([]entity.ProductLedgerEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]entity.ProductLedgerEntry(nil), r.s.closed[productID]...), nil
}

type memMovements struct{ s *memStore }

func (r memMovements) Create(ctx context.Context, m *entity.Movement) error {
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r memMovements) ListByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Movement
	for _, m := range r.s.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r memMovements) CountByProduct(ctx context.Context, productID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, m := range r.s.movements {
		if m.ProductID == productID {
			n++
		}
	}
	return n, nil
}

func (r memMovements) ListSalesSince(ctx context.Context, since time.Time) ([]*entity.Movement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Movement
	for _, m := range r.s.movements {
		if m.Type == entity.MovementTypeSALE && !m.At.Before(since) {
			out = append(out, m)
		}
	}
	return out, nil
}

// memTx aplica las escrituras sobre una copia y solo la publica si fn no falla.
type memTx struct{ s *memStore }

func (t memTx) Run(ctx context.Context, fn func(repository.LedgerEntryRepository, repository.MovementRepository) error) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.s.failTx != nil {
		return t.s.failTx
	}

	staged := &memStore{
		open:      make(map[string]entity.ProductLedgerEntry, len(t.s.open)),
		closed:    make(map[string][]entity.ProductLedgerEntry, len(t.s.closed)),
		movements: append([]*entity.Movement(nil), t.s.movements...),
	}
	for k, v := range t.s.open {
		staged.open[k] = v
	}
	for k, v := range t.s.closed {
		staged.closed[k] = append([]entity.ProductLedgerEntry(nil), v...)
	}
	if err := fn(memEntries{staged}, memMovements{staged}); err != nil {
		return err
	}
	t.s.open, t.s.closed, t.s.movements = staged.open, staged.closed, staged.movements
	return nil
}

var errDBDown = errors.New("conexión perdida")
