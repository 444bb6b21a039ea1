package ledger

import (
	"log"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dkorenev/betmate/pkg/storage"
)

// StorageKey is the well-known key the collection persists under.
const StorageKey = "betmate:predictions"

// Ledger is the durable prediction collection. Every mutating call persists
// the full collection synchronously before returning; persistence failures
// are logged and swallowed, leaving the in-memory state authoritative.
type Ledger struct {
	mu    sync.RWMutex
	store storage.Store
	now   func() time.Time
	preds []*Prediction
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock injects the time source used for CreatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// New loads the collection from the store. Absent or corrupt data yields an
// empty collection, never an error: losing history must not take the app
// down with it.
func New(store storage.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}

	ok, err := store.Load(StorageKey, &l.preds)
	if err != nil {
		log.Printf("[ledger] load failed, starting empty: %v", err)
		l.preds = nil
	} else if !ok {
		l.preds = nil
	}

	return l
}

// Add records a new pending prediction, newest first, and returns the stored
// record. When the draft carries no outcome category, it is derived from the
// label against the snapshotted team names.
func (l *Ledger) Add(draft Draft) *Prediction {
	l.mu.Lock()
	defer l.mu.Unlock()

	p := &Prediction{
		ID:        uuid.New().String(),
		MatchID:   draft.MatchID,
		HomeTeam:  draft.HomeTeam,
		AwayTeam:  draft.AwayTeam,
		League:    draft.League,
		MatchDate: draft.MatchDate,
		Predicted: draft.Predicted,
		Advice:    draft.Advice,
		CreatedAt: l.now(),
	}
	if p.Predicted.Outcome == "" {
		p.Predicted.Outcome = OutcomeForLabel(p.Predicted.Label, p.HomeTeam.Name, p.AwayTeam.Name)
	}

	l.preds = append([]*Prediction{p}, l.preds...)
	l.persistLocked()

	return clone(p)
}

// clone deep-copies a prediction. Reads hand out clones, never pointers into
// the collection: a caller holding a returned record must not observe a
// concurrent settlement write.
func clone(p *Prediction) *Prediction {
	cp := *p
	if p.Result != nil {
		r := *p.Result
		cp.Result = &r
	}
	return &cp
}

// List returns the collection in display order (most recent first), filtered.
// The returned predictions are copies detached from the ledger.
func (l *Ledger) List(filter Filter) []*Prediction {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*Prediction, 0, len(l.preds))
	for _, p := range l.preds {
		if filter.matches(p) {
			out = append(out, clone(p))
		}
	}
	return out
}

// Get returns a copy of the prediction with the given id.
func (l *Ledger) Get(id string) (*Prediction, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, p := range l.preds {
		if p.ID == id {
			return clone(p), true
		}
	}
	return nil, false
}

// Remove deletes a prediction by id. Removing an unknown id is a no-op.
func (l *Ledger) Remove(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, p := range l.preds {
		if p.ID == id {
			l.preds = append(l.preds[:i], l.preds[i+1:]...)
			l.persistLocked()
			return
		}
	}
}

// ApplyResult settles a prediction exactly once and reports whether it
// transitioned from pending to verified. Calling it for an already-verified
// prediction or an unknown id is a no-op: the first result wins, preserving
// historical stability.
func (l *Ledger) ApplyResult(id string, result MatchResult) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, p := range l.preds {
		if p.ID != id {
			continue
		}
		if p.Result != nil {
			return false
		}
		r := result
		p.Result = &r
		l.persistLocked()
		return true
	}
	return false
}

// Stats recomputes aggregate accuracy from the current collection. Never
// cached.
func (l *Ledger) Stats() Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var s Stats
	s.Total = len(l.preds)
	for _, p := range l.preds {
		if p.Result == nil {
			continue
		}
		s.Verified++
		if p.Result.Correct {
			s.Correct++
		}
	}
	s.Wrong = s.Verified - s.Correct
	s.Pending = s.Total - s.Verified
	if s.Verified > 0 {
		s.Accuracy = int(math.Round(100 * float64(s.Correct) / float64(s.Verified)))
	}
	return s
}

// persistLocked writes the full collection to the store. Callers hold l.mu.
func (l *Ledger) persistLocked() {
	if err := l.store.Save(StorageKey, l.preds); err != nil {
		log.Printf("[ledger] persist failed (state kept in memory): %v", err)
	}
}
