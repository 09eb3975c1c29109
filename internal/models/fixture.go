package models

import (
	"fmt"
	"time"
)

// Fixture identifies an upcoming match between two teams in one
// competition/season. It carries no state beyond its identity and is the
// unit of prediction.
type Fixture struct {
	ID         int64     `db:"fixture_id" json:"fixture_id" validate:"required"`
	LeagueID   int       `db:"league_id" json:"league_id" validate:"required"`
	Season     int       `db:"season" json:"season" validate:"required"`
	HomeTeamID int       `db:"home_team_id" json:"home_team_id" validate:"required"`
	HomeTeam   string    `db:"home_team" json:"home_team" validate:"required"`
	AwayTeamID int       `db:"away_team_id" json:"away_team_id" validate:"required"`
	AwayTeam   string    `db:"away_team" json:"away_team" validate:"required"`
	KickoffUTC time.Time `db:"kickoff_utc" json:"kickoff_utc"`
}

// String returns a human-readable fixture description.
func (f Fixture) String() string {
	return fmt.Sprintf("%s vs %s", f.HomeTeam, f.AwayTeam)
}

// MatchDate returns the fixture date in ISO format, as stored with bets.
func (f Fixture) MatchDate() string {
	return f.KickoffUTC.UTC().Format("2006-01-02")
}

// FixtureResult holds the final score of a completed fixture.
type FixtureResult struct {
	FixtureID int64 `json:"fixture_id"`
	HomeGoals int   `json:"home_goals"`
	AwayGoals int   `json:"away_goals"`
	Finished  bool  `json:"finished"`
}

// Score returns the result formatted as "2-1".
func (r FixtureResult) Score() string {
	return fmt.Sprintf("%d-%d", r.HomeGoals, r.AwayGoals)
}
