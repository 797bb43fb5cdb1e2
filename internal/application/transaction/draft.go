// Package transaction gestiona los formularios de pembelian y penjualan: cada formulario
// abierto es un borrador con su propio Ledger, identificado por un uuid.
package transaction

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/semaphore"

	"github.com/jhoicas/tokobangunan-pos/internal/domain"
	"github.com/jhoicas/tokobangunan-pos/internal/domain/entity"
	"github.com/jhoicas/tokobangunan-pos/internal/domain/ledger"
)

// Draft formulario en curso. Sólo se accede a su Ledger a través de Do.
type Draft struct {
	ID      uuid.UUID
	Kind    ledger.Kind
	Created time.Time

	mu      sync.Mutex
	ledger  *ledger.Ledger
	partyID int64 // supplier o pelanggan
	payment string
	warning string
	gate    *semaphore.Weighted
}

func newDraft(kind ledger.Kind, now time.Time) *Draft {
	d := &Draft{
		ID:      uuid.New(),
		Kind:    kind,
		Created: now,
		ledger:  ledger.New(kind),
		gate:    semaphore.NewWeighted(1),
	}
	if kind == ledger.Sale {
		d.payment = entity.DefaultPaymentMethod
	}
	return d
}

// Do ejecuta fn con el ledger bloqueado.
func (d *Draft) Do(fn func(l *ledger.Ledger) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return fn(d.ledger)
}

// Snapshot copia inmutable para renderizar.
type Snapshot struct {
	ID       uuid.UUID
	Kind     ledger.Kind
	Row      ledger.Line
	Lines    []ledger.Line
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
	PartyID  int64
	Payment  string
	// Warning aviso pendiente (stok recortado); se consume al leerlo.
	Warning string
}

// Snapshot devuelve el estado actual y consume el aviso pendiente.
func (d *Draft) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := Snapshot{
		ID:       d.ID,
		Kind:     d.Kind,
		Row:      d.ledger.Row(),
		Lines:    d.ledger.Lines(),
		Subtotal: d.ledger.Subtotal(),
		Discount: d.ledger.Discount(),
		Total:    d.ledger.Total(),
		PartyID:  d.partyID,
		Payment:  d.payment,
		Warning:  d.warning,
	}
	d.warning = ""
	return s
}

func (d *Draft) warn(w *ledger.Warning) {
	if w != nil {
		d.warning = w.Message
	}
}

// Registry borradores abiertos del proceso.
type Registry struct {
	mu     sync.Mutex
	drafts map[uuid.UUID]*Draft
	maxAge time.Duration
	now    func() time.Time
}

// NewRegistry crea el registro. Los borradores más viejos que maxAge se descartan al abrir
// uno nuevo (formularios abandonados sin cancelar); maxAge <= 0 los conserva.
func NewRegistry(maxAge time.Duration) *Registry {
	return &Registry{drafts: map[uuid.UUID]*Draft{}, maxAge: maxAge, now: time.Now}
}

// Open crea un borrador vacío.
func (r *Registry) Open(kind ledger.Kind) *Draft {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	if r.maxAge > 0 {
		for id, d := range r.drafts {
			if now.Sub(d.Created) > r.maxAge {
				delete(r.drafts, id)
			}
		}
	}
	d := newDraft(kind, now)
	r.drafts[d.ID] = d
	return d
}

// Get busca un borrador del tipo indicado.
func (r *Registry) Get(id uuid.UUID, kind ledger.Kind) (*Draft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drafts[id]
	if !ok || d.Kind != kind {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

// Discard elimina el borrador (envío o cancelación).
func (r *Registry) Discard(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.drafts, id)
}

// Len borradores abiertos.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.drafts)
}
