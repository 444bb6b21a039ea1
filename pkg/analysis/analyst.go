package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dkorenev/betmate/pkg/ledger"
)

// TextGenerator is the AI text-generation collaborator. The analyst treats
// the response as opaque text.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// refusalPhrases mark responses where the model declined to engage. Caching
// one would replay a useless answer for two hours, so these are returned to
// the caller but never cached or recorded.
var refusalPhrases = []string{
	"i cannot provide real-time",
	"i can't provide real-time",
	"i do not have access to real-time",
	"i don't have access to real-time",
	"as an ai language model",
	"i am unable to browse",
}

// IsRefusal reports whether a response is an acknowledged non-answer.
func IsRefusal(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range refusalPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// Analyst serves match analyses: cache first, then the generator, recording
// each fresh (non-refusal) analysis as a pending ledger prediction.
type Analyst struct {
	gen    TextGenerator
	cache  *Cache
	ledger *ledger.Ledger
	now    func() time.Time
}

// AnalystOption configures an Analyst.
type AnalystOption func(*Analyst)

// WithAnalystClock injects the time source for report timestamps.
func WithAnalystClock(now func() time.Time) AnalystOption {
	return func(a *Analyst) {
		a.now = now
	}
}

// NewAnalyst creates an analyst over the given collaborators. The ledger may
// be nil when the caller only wants the text.
func NewAnalyst(gen TextGenerator, cache *Cache, l *ledger.Ledger, opts ...AnalystOption) *Analyst {
	a := &Analyst{
		gen:    gen,
		cache:  cache,
		ledger: l,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analysis is the outcome of one Analyze call. Prediction is the ledger
// record created for a fresh analysis; it is nil on cache hits, refusals,
// and when no ledger is attached.
type Analysis struct {
	Report     *Report
	Cached     bool
	Prediction *ledger.Prediction
}

// Analyze returns the analysis for a match. On a miss the response is cached
// and a prediction derived from the context percentages is added to the
// ledger; refusal responses are passed through but neither cached nor
// recorded, so the next request retries.
func (a *Analyst) Analyze(ctx context.Context, mctx MatchContext) (*Analysis, error) {
	if report := a.cache.Get(mctx.MatchID); report != nil {
		return &Analysis{Report: report, Cached: true}, nil
	}

	text, err := a.gen.Generate(ctx, BuildPrompt(mctx))
	if err != nil {
		return nil, fmt.Errorf("generate analysis for %s: %w", mctx.MatchID, err)
	}

	report := &Report{
		MatchID:   mctx.MatchID,
		Text:      text,
		CreatedAt: a.now(),
	}
	if advice, ok := ParseAdvice(text); ok {
		report.Advice = advice
	}

	if IsRefusal(text) {
		return &Analysis{Report: report}, nil
	}

	a.cache.Put(mctx.MatchID, report)

	result := &Analysis{Report: report}
	if a.ledger != nil {
		result.Prediction = a.ledger.Add(ledger.Draft{
			MatchID:   mctx.MatchID,
			HomeTeam:  mctx.HomeTeam,
			AwayTeam:  mctx.AwayTeam,
			League:    mctx.League,
			MatchDate: mctx.KickOff,
			Predicted: PredictedCall(mctx),
			Advice:    report.Advice,
		})
	}

	return result, nil
}
