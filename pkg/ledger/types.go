// Package ledger owns the durable collection of match predictions and the
// matching logic that settles them against final results.
package ledger

import "time"

// Outcome is the category of a 1X2 match result.
type Outcome string

const (
	OutcomeHomeWin Outcome = "home_win"
	OutcomeDraw    Outcome = "draw"
	OutcomeAwayWin Outcome = "away_win"
)

// Team is a denormalized team snapshot captured at prediction time. It is
// never refetched: historical entries must keep displaying what the user saw
// even if the team is renamed upstream.
type Team struct {
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
}

// PredictedOutcome is the call a prediction makes on a match.
//
// The three percentages are rounded independently and may not sum to exactly
// 100; that is accepted, not corrected.
type PredictedOutcome struct {
	Outcome    Outcome `json:"outcome"`
	Label      string  `json:"label"` // winner team name, or "Draw"
	Confidence int     `json:"confidence"`
	HomePct    int     `json:"home_pct"`
	DrawPct    int     `json:"draw_pct"`
	AwayPct    int     `json:"away_pct"`
}

// MatchResult is the settled result attached to a prediction. Correct is
// computed once at verification time and stored, so historical correctness
// stays stable even if the matching logic changes later.
type MatchResult struct {
	HomeGoals int     `json:"home_goals"`
	AwayGoals int     `json:"away_goals"`
	Status    string  `json:"status"`
	Actual    Outcome `json:"actual"`
	Correct   bool    `json:"correct"`
}

// Prediction is one recorded match prediction. Result is nil while the
// prediction is pending and is set exactly once, never cleared.
type Prediction struct {
	ID        string           `json:"id"`
	MatchID   string           `json:"match_id"`
	HomeTeam  Team             `json:"home_team"`
	AwayTeam  Team             `json:"away_team"`
	League    string           `json:"league"`
	MatchDate time.Time        `json:"match_date"`
	Predicted PredictedOutcome `json:"predicted"`
	Advice    string           `json:"advice,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	Result    *MatchResult     `json:"result,omitempty"`
}

// Verified reports whether the prediction has a settled result.
func (p *Prediction) Verified() bool {
	return p.Result != nil
}

// Draft is the input to Ledger.Add; the ledger assigns ID and CreatedAt.
type Draft struct {
	MatchID   string           `json:"match_id"`
	HomeTeam  Team             `json:"home_team"`
	AwayTeam  Team             `json:"away_team"`
	League    string           `json:"league"`
	MatchDate time.Time        `json:"match_date"`
	Predicted PredictedOutcome `json:"predicted"`
	Advice    string           `json:"advice,omitempty"`
}

// Filter selects a view of the collection.
type Filter string

const (
	FilterAll     Filter = "all"
	FilterCorrect Filter = "correct"
	FilterWrong   Filter = "wrong"
	FilterPending Filter = "pending"
)

// ParseFilter maps a query string to a Filter, defaulting to FilterAll.
func ParseFilter(s string) Filter {
	switch Filter(s) {
	case FilterCorrect, FilterWrong, FilterPending:
		return Filter(s)
	default:
		return FilterAll
	}
}

// matches applies the filter predicate to one prediction.
func (f Filter) matches(p *Prediction) bool {
	switch f {
	case FilterCorrect:
		return p.Result != nil && p.Result.Correct
	case FilterWrong:
		return p.Result != nil && !p.Result.Correct
	case FilterPending:
		return p.Result == nil
	default:
		return true
	}
}

// Stats are aggregate accuracy numbers, always recomputed from the full
// collection.
type Stats struct {
	Total    int `json:"total"`
	Verified int `json:"verified"`
	Correct  int `json:"correct"`
	Wrong    int `json:"wrong"`
	Pending  int `json:"pending"`
	Accuracy int `json:"accuracy"` // percent, 0 when nothing is verified
}
