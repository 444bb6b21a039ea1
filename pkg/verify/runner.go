// Package verify reconciles pending predictions against live fixture
// results.
package verify

import (
	"context"
	"log"
	"sync"

	"github.com/dkorenev/betmate/pkg/ledger"
	"github.com/dkorenev/betmate/pkg/sportsdata"
)

// ResultSource provides current fixture scores.
type ResultSource interface {
	FixtureScore(ctx context.Context, matchID string) (sportsdata.Score, error)
}

const defaultMaxInFlight = 4

// Runner drives verification passes over the ledger. It runs on demand (an
// explicit refresh or a ledger-view load), never on a background timer.
type Runner struct {
	source      ResultSource
	ledger      *ledger.Ledger
	maxInFlight int

	onVerified func(p *ledger.Prediction, result ledger.MatchResult)
}

// Option configures a Runner.
type Option func(*Runner)

// WithMaxInFlight bounds concurrent result fetches in one pass.
func WithMaxInFlight(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.maxInFlight = n
		}
	}
}

// NewRunner creates a verification runner.
func NewRunner(source ResultSource, l *ledger.Ledger, opts ...Option) *Runner {
	r := &Runner{
		source:      source,
		ledger:      l,
		maxInFlight: defaultMaxInFlight,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// OnVerified sets a callback invoked for each prediction settled by a pass.
func (r *Runner) OnVerified(fn func(p *ledger.Prediction, result ledger.MatchResult)) {
	r.onVerified = fn
}

// VerifyAll fetches results for every pending prediction and settles those
// whose fixture finished. Fetch failures and unfinished fixtures are skipped
// per item, never fatal to the batch. Returns the number of predictions that
// transitioned from pending to verified in this pass.
func (r *Runner) VerifyAll(ctx context.Context) int {
	pending := r.ledger.List(ledger.FilterPending)
	if len(pending) == 0 {
		return 0
	}

	type lookup struct {
		pred  *ledger.Prediction
		score sportsdata.Score
		err   error
	}

	// Fan the fetches out, collect and apply on this goroutine: ledger
	// writes stay serialized.
	results := make(chan lookup, len(pending))
	sem := make(chan struct{}, r.maxInFlight)
	var wg sync.WaitGroup
	for _, p := range pending {
		wg.Add(1)
		go func(p *ledger.Prediction) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			score, err := r.source.FixtureScore(ctx, p.MatchID)
			results <- lookup{pred: p, score: score, err: err}
		}(p)
	}
	wg.Wait()
	close(results)

	verified := 0
	for got := range results {
		if got.err != nil {
			log.Printf("[verify] fetch %s failed, will retry later: %v", got.pred.MatchID, got.err)
			continue
		}
		if !got.score.Finished() {
			continue
		}

		result := ledger.Match(got.pred, got.score)
		if !r.ledger.ApplyResult(got.pred.ID, result) {
			continue
		}
		verified++
		if r.onVerified != nil {
			r.onVerified(got.pred, result)
		}
	}

	return verified
}
