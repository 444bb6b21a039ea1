// Package sportsdata provides a client for the football fixtures API used to
// look up live match results.
package sportsdata

import "time"

// Match statuses as reported by the fixtures API (short codes).
const (
	StatusNotStarted   = "NS"
	StatusFirstHalf    = "1H"
	StatusHalfTime     = "HT"
	StatusSecondHalf   = "2H"
	StatusExtraTime    = "ET"
	StatusPenaltyShoot = "P"
	StatusFullTime     = "FT"
	StatusAfterExtra   = "AET"
	StatusPenalties    = "PEN"
	StatusPostponed    = "PST"
	StatusCancelled    = "CANC"
)

// Score is the final-score view of a fixture used for verification.
type Score struct {
	Status    string `json:"status"`
	HomeGoals int    `json:"home_goals"`
	AwayGoals int    `json:"away_goals"`
}

// Finished reports whether the fixture reached a final result. Anything else
// (not started, in play, postponed) counts as "not yet available".
func (s Score) Finished() bool {
	switch s.Status {
	case StatusFullTime, StatusAfterExtra, StatusPenalties:
		return true
	default:
		return false
	}
}

// TeamInfo is a team as the fixtures API describes it.
type TeamInfo struct {
	Name string `json:"name"`
	Logo string `json:"logo"`
}

// Fixture is a single match with its current status and score.
type Fixture struct {
	ID       string    `json:"id"`
	League   string    `json:"league"`
	KickOff  time.Time `json:"kick_off"`
	HomeTeam TeamInfo  `json:"home_team"`
	AwayTeam TeamInfo  `json:"away_team"`
	Score    Score     `json:"score"`
}
