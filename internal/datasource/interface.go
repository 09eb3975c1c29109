package datasource

import (
	"context"

	"github.com/yourusername/valuebet-bot/internal/models"
)

// StatsProvider supplies fixtures, team statistics and results for a
// competition. Implemented by the API-Sports client.
type StatsProvider interface {
	// FetchFixtures retrieves upcoming fixtures within the next daysAhead days.
	FetchFixtures(ctx context.Context, leagueID, season, daysAhead int) ([]models.Fixture, error)

	// FetchTeamRatings retrieves per-team scoring records from the standings.
	FetchTeamRatings(ctx context.Context, leagueID, season int) ([]*models.TeamRating, error)

	// FetchResult retrieves the final score of a fixture, if finished.
	FetchResult(ctx context.Context, fixtureID int64) (*models.FixtureResult, error)
}

// OddsEvent is one upcoming match with its bookmaker quotes, as returned by
// the odds provider. Team names are the provider's, which rarely match the
// stats provider's exactly; matching is the scan service's problem.
type OddsEvent struct {
	HomeTeam string
	AwayTeam string
	Quotes   []models.OddsQuote
}

// OddsProvider supplies bookmaker odds for a competition's upcoming matches.
// Implemented by The Odds API client.
type OddsProvider interface {
	FetchOdds(ctx context.Context, leagueID int, goalsLine float64) ([]OddsEvent, error)
}
