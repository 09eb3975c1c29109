package models

import "time"

// SplitRecord holds a goal total together with the number of matches it was
// accumulated over, for one venue split.
type SplitRecord struct {
	Goals   float64 `db:"goals" json:"goals"`
	Matches int     `db:"matches" json:"matches"`
}

// PerMatch returns the per-match rate for the split.
// The second return value is false when no matches have been recorded,
// in which case no rate can be derived.
func (s SplitRecord) PerMatch() (float64, bool) {
	if s.Matches <= 0 {
		return 0, false
	}
	return s.Goals / float64(s.Matches), true
}

// TeamRating represents a team's scoring and conceding record within one
// competition and season, split by venue. It is created and updated by the
// stats refresh job and read-only to the prediction engine.
type TeamRating struct {
	TeamID       int       `db:"team_id" json:"team_id" validate:"required"`
	TeamName     string    `db:"team_name" json:"team_name" validate:"required"`
	LeagueID     int       `db:"league_id" json:"league_id" validate:"required"`
	Season       int       `db:"season" json:"season" validate:"required"`
	ScoredHome   SplitRecord `json:"scored_home"`
	ScoredAway   SplitRecord `json:"scored_away"`
	ConcededHome SplitRecord `json:"conceded_home"`
	ConcededAway SplitRecord `json:"conceded_away"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// LeagueAverages holds league-wide average goals per match for a
// competition/season, used as normalization denominators by the estimator.
type LeagueAverages struct {
	LeagueID int     `json:"league_id"`
	Season   int     `json:"season"`
	HomeGoals float64 `json:"home_goals"`
	AwayGoals float64 `json:"away_goals"`
}

// Valid reports whether the averages can be used as denominators.
// Both must be strictly positive once a competition has recorded matches.
func (l LeagueAverages) Valid() bool {
	return l.HomeGoals > 0 && l.AwayGoals > 0
}
