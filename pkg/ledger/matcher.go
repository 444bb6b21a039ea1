package ledger

import (
	"strings"

	"github.com/dkorenev/betmate/pkg/sportsdata"
)

// OutcomeFromScore derives the 1X2 outcome of a finished fixture.
func OutcomeFromScore(homeGoals, awayGoals int) Outcome {
	switch {
	case homeGoals > awayGoals:
		return OutcomeHomeWin
	case awayGoals > homeGoals:
		return OutcomeAwayWin
	default:
		return OutcomeDraw
	}
}

// OutcomeForLabel maps a prediction's human label (winner team name, or
// "Draw") to an outcome category by comparing against the team names
// snapshotted on the prediction. A label matching neither team is a draw
// call, since the label set is winner-or-"Draw".
func OutcomeForLabel(label, homeTeam, awayTeam string) Outcome {
	switch {
	case strings.EqualFold(label, homeTeam):
		return OutcomeHomeWin
	case strings.EqualFold(label, awayTeam):
		return OutcomeAwayWin
	default:
		return OutcomeDraw
	}
}

// Match settles a prediction against a final score. Correctness compares
// outcome categories, never raw label text. Callers are responsible for only
// passing finished scores.
func Match(p *Prediction, score sportsdata.Score) MatchResult {
	actual := OutcomeFromScore(score.HomeGoals, score.AwayGoals)
	return MatchResult{
		HomeGoals: score.HomeGoals,
		AwayGoals: score.AwayGoals,
		Status:    score.Status,
		Actual:    actual,
		Correct:   p.Predicted.Outcome == actual,
	}
}
