// Package engine implements the prediction and value-detection core:
// scoring-rate estimation, Poisson score distributions, and odds scanning.
// All components are pure functions of their inputs and perform no I/O.
package engine

import (
	"github.com/yourusername/valuebet-bot/internal/models"
)

// Snapshot is an immutable view of one competition/season's team ratings
// and league averages, taken before a scan. Fixtures scanned concurrently
// may share a snapshot because it is never mutated after construction.
type Snapshot struct {
	leagueID int
	season   int
	ratings  map[int]*models.TeamRating
	averages models.LeagueAverages
}

// NewSnapshot builds a snapshot from the given ratings and derives league
// averages from the aggregate totals. Ratings for other competitions or
// seasons are ignored.
func NewSnapshot(leagueID, season int, ratings []*models.TeamRating) *Snapshot {
	s := &Snapshot{
		leagueID: leagueID,
		season:   season,
		ratings:  make(map[int]*models.TeamRating, len(ratings)),
	}

	var homeGoals, awayGoals float64
	var homeMatches, awayMatches int
	for _, r := range ratings {
		if r == nil || r.LeagueID != leagueID || r.Season != season {
			continue
		}
		s.ratings[r.TeamID] = r
		homeGoals += r.ScoredHome.Goals
		homeMatches += r.ScoredHome.Matches
		awayGoals += r.ScoredAway.Goals
		awayMatches += r.ScoredAway.Matches
	}

	s.averages = models.LeagueAverages{LeagueID: leagueID, Season: season}
	if homeMatches > 0 {
		s.averages.HomeGoals = homeGoals / float64(homeMatches)
	}
	if awayMatches > 0 {
		s.averages.AwayGoals = awayGoals / float64(awayMatches)
	}

	return s
}

// Rating returns the rating for a team, if present in the snapshot.
func (s *Snapshot) Rating(teamID int) (*models.TeamRating, bool) {
	r, ok := s.ratings[teamID]
	return r, ok
}

// Averages returns the league-wide average goals for the snapshot.
func (s *Snapshot) Averages() models.LeagueAverages {
	return s.averages
}

// Size returns the number of rated teams in the snapshot.
func (s *Snapshot) Size() int {
	return len(s.ratings)
}
