package ledger

import (
	"time"

	"github.com/jhoicas/liquor-ledger/internal/domain/entity"
)

// Change describe una mutación ya validada, antes de aplicarse al libro.
type Change struct {
	Entry    entity.ProductLedgerEntry  // saldo resultante
	Movement entity.Movement            // movimiento que lo produce
	Archived *entity.ProductLedgerEntry // periodo cerrado por esta mutación, si lo hay
}

// CommitFunc se ejecuta con el producto bloqueado y antes de publicar el nuevo saldo.
// Si devuelve error la mutación se descarta y el libro queda intacto.
type CommitFunc func(change Change) error

// Observer recibe cada cambio confirmado (después de liberar el bloqueo del producto).
type Observer interface {
	OnChange(change Change)
}

// ObserverFunc adapta una función a Observer.
type ObserverFunc func(change Change)

// OnChange implementa Observer.
func (f ObserverFunc) OnChange(change Change) { f(change) }

type mutation struct {
	expectedVersion *int64
	commit          CommitFunc
	at              time.Time
	by              string
	note            string
}

// Option modifica una mutación del libro.
type Option func(*mutation)

// IfVersion exige que el saldo esté en la versión indicada; si no, ErrConflict.
func IfVersion(v int64) Option {
	return func(m *mutation) { m.expectedVersion = &v }
}

// OnCommit registra la función de confirmación (persistencia) de la mutación.
func OnCommit(fn CommitFunc) Option {
	return func(m *mutation) { m.commit = fn }
}

// At fija la fecha del movimiento (por defecto, la hora actual).
func At(t time.Time) Option {
	return func(m *mutation) { m.at = t }
}

// By registra el usuario que origina el movimiento.
func By(userID string) Option {
	return func(m *mutation) { m.by = userID }
}

// WithNote adjunta una nota al movimiento (ej. motivo de la merma).
func WithNote(note string) Option {
	return func(m *mutation) { m.note = note }
}

func buildMutation(now time.Time, opts []Option) *mutation {
	m := &mutation{at: now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}
