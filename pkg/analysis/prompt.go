package analysis

import (
	"fmt"
	"time"

	"github.com/dkorenev/betmate/pkg/ledger"
)

// MatchContext is everything the analyst knows about a fixture when asked
// for an analysis: the teams, the model percentages, and whatever market and
// form data the caller has enriched it with.
type MatchContext struct {
	MatchID   string      `json:"match_id"`
	HomeTeam  ledger.Team `json:"home_team"`
	AwayTeam  ledger.Team `json:"away_team"`
	League    string      `json:"league"`
	KickOff   time.Time   `json:"kick_off"`

	// Outcome percentages, each independently rounded (they need not sum
	// to 100).
	HomePct int `json:"home_pct"`
	DrawPct int `json:"draw_pct"`
	AwayPct int `json:"away_pct"`

	// Market odds, decimal. Zero when unknown.
	HomeOdds float64 `json:"home_odds,omitempty"`
	DrawOdds float64 `json:"draw_odds,omitempty"`
	AwayOdds float64 `json:"away_odds,omitempty"`

	// Recent form strings like "WWDLW", most recent first.
	HomeForm string `json:"home_form,omitempty"`
	AwayForm string `json:"away_form,omitempty"`

	Notes []string `json:"notes,omitempty"`
}

// SystemPrompt frames the generation request. The closing marker convention
// is what ParseAdvice extracts on the way back.
const SystemPrompt = `You are a football betting analyst. Write a concise pre-match analysis:
tactical angle, key absences if mentioned, and where the value lies relative
to the listed odds. Keep it under 200 words.

If you see a bet worth recommending, finish with a single line in exactly
this format:
[BET] <market> @ <decimal odds>

Never invent live data you were not given.`

// BuildPrompt renders the user prompt for a match context.
func BuildPrompt(mctx MatchContext) string {
	prompt := fmt.Sprintf(`Match: %s vs %s
League: %s
Kickoff: %s

Model outcome percentages:
- %s win: %d%%
- Draw: %d%%
- %s win: %d%%
`,
		mctx.HomeTeam.Name, mctx.AwayTeam.Name,
		mctx.League,
		mctx.KickOff.Format("Monday, January 2 2006 15:04 MST"),
		mctx.HomeTeam.Name, mctx.HomePct,
		mctx.DrawPct,
		mctx.AwayTeam.Name, mctx.AwayPct)

	if mctx.HomeOdds > 0 && mctx.AwayOdds > 0 {
		prompt += fmt.Sprintf("\nMarket odds (decimal): home %.2f, draw %.2f, away %.2f\n",
			mctx.HomeOdds, mctx.DrawOdds, mctx.AwayOdds)
	}

	if mctx.HomeForm != "" || mctx.AwayForm != "" {
		prompt += fmt.Sprintf("\nRecent form: %s %s, %s %s\n",
			mctx.HomeTeam.Name, mctx.HomeForm, mctx.AwayTeam.Name, mctx.AwayForm)
	}

	if len(mctx.Notes) > 0 {
		prompt += "\nAdditional notes:\n"
		for _, note := range mctx.Notes {
			prompt += fmt.Sprintf("- %s\n", note)
		}
	}

	prompt += "\nWrite the analysis."
	return prompt
}

// PredictedCall derives the prediction the context implies: the outcome with
// the highest percentage, labeled with the winner name or "Draw". Ties break
// home, then draw, then away.
func PredictedCall(mctx MatchContext) ledger.PredictedOutcome {
	call := ledger.PredictedOutcome{
		Outcome:    ledger.OutcomeHomeWin,
		Label:      mctx.HomeTeam.Name,
		Confidence: mctx.HomePct,
		HomePct:    mctx.HomePct,
		DrawPct:    mctx.DrawPct,
		AwayPct:    mctx.AwayPct,
	}
	if mctx.DrawPct > call.Confidence {
		call.Outcome, call.Label, call.Confidence = ledger.OutcomeDraw, "Draw", mctx.DrawPct
	}
	if mctx.AwayPct > call.Confidence {
		call.Outcome, call.Label, call.Confidence = ledger.OutcomeAwayWin, mctx.AwayTeam.Name, mctx.AwayPct
	}
	return call
}
