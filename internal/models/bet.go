package models

import (
	"time"

	"github.com/google/uuid"
)

// ValueBet is a persisted value signal: a market whose model probability
// multiplied by the bookmaker odds exceeded 1 by more than the configured
// threshold at scan time.
type ValueBet struct {
	ID          uuid.UUID `db:"id" json:"id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	FixtureID   int64     `db:"fixture_id" json:"fixture_id" validate:"required"`
	MatchDate   string    `db:"match_date" json:"match_date" validate:"required"`
	League      string    `db:"league" json:"league" validate:"required"`
	HomeTeam    string    `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam    string    `db:"away_team" json:"away_team" validate:"required"`
	Market      Market    `db:"market" json:"market" validate:"required"`
	Bookmaker   string    `db:"bookmaker" json:"bookmaker" validate:"required"`
	BookieOdds  float64   `db:"bk_odds" json:"bk_odds" validate:"required,gt=1"`
	ModelOdds   float64   `db:"model_odds" json:"model_odds" validate:"required,gt=1"`
	Probability float64   `db:"probability" json:"probability" validate:"required,gte=0,lte=1"`
	Edge        float64   `db:"edge" json:"edge" validate:"required"`
	Result      *string   `db:"result" json:"result"`   // final score, e.g. "2-1"
	Success     *bool     `db:"success" json:"success"` // nil while pending
	Notified    bool      `db:"notified" json:"notified"`
}

// IsPending reports whether the bet still awaits a result.
func (b *ValueBet) IsPending() bool {
	return b.Success == nil
}

// Settle records the final score and whether the bet won.
func (b *ValueBet) Settle(score string, won bool) {
	b.Result = &score
	b.Success = &won
}

// BetStats is an aggregate summary of stored bets for the dashboard.
type BetStats struct {
	Total             int     `json:"total"`
	Wins              int     `json:"wins"`
	Losses            int     `json:"losses"`
	Pending           int     `json:"pending"`
	AvgEdgePct        float64 `json:"avg_edge_pct"`
	AvgProbabilityPct float64 `json:"avg_probability_pct"`
	HitRatePct        float64 `json:"hit_rate_pct"`
}
