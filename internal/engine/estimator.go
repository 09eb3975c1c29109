package engine

import (
	"fmt"

	"github.com/yourusername/valuebet-bot/internal/models"
)

// Expected-goal clamps, matching the calibrated range of the model.
// Lambdas outside (0, ~6) are artifacts of sparse early-season data.
const (
	minLambda = 0.30
	maxLambda = 6.0
)

// ExpectedGoals holds the Poisson rate parameters for one fixture.
// Derived per call, never persisted as a source of truth.
type ExpectedGoals struct {
	Home float64 `json:"home"`
	Away float64 `json:"away"`
}

// EstimateGoals converts the two teams' venue-split scoring rates into
// expected goals for the fixture, normalizing each rate against the league
// average:
//
//	lambda_home = att_home x def_away x league_avg_home
//	lambda_away = att_away x def_home x league_avg_away
//
// A team with zero recorded matches in the relevant venue split yields
// models.ErrInsufficientData; callers must exclude the fixture from the
// scan rather than substitute a default rate.
func EstimateGoals(fixture models.Fixture, snap *Snapshot) (ExpectedGoals, error) {
	avg := snap.Averages()
	if !avg.Valid() {
		return ExpectedGoals{}, fmt.Errorf("%w: league %d/%d has no recorded matches", models.ErrInsufficientData, fixture.LeagueID, fixture.Season)
	}

	home, ok := snap.Rating(fixture.HomeTeamID)
	if !ok {
		return ExpectedGoals{}, fmt.Errorf("%w: no rating for home team %q", models.ErrInsufficientData, fixture.HomeTeam)
	}
	away, ok := snap.Rating(fixture.AwayTeamID)
	if !ok {
		return ExpectedGoals{}, fmt.Errorf("%w: no rating for away team %q", models.ErrInsufficientData, fixture.AwayTeam)
	}

	homeScored, ok := home.ScoredHome.PerMatch()
	if !ok {
		return ExpectedGoals{}, splitError(fixture.HomeTeam, "home")
	}
	homeConceded, ok := home.ConcededHome.PerMatch()
	if !ok {
		return ExpectedGoals{}, splitError(fixture.HomeTeam, "home")
	}
	awayScored, ok := away.ScoredAway.PerMatch()
	if !ok {
		return ExpectedGoals{}, splitError(fixture.AwayTeam, "away")
	}
	awayConceded, ok := away.ConcededAway.PerMatch()
	if !ok {
		return ExpectedGoals{}, splitError(fixture.AwayTeam, "away")
	}

	// Goals conceded away are goals scored at home, so the away defense
	// force is normalized by the home scoring average (and vice versa).
	attackHome := homeScored / avg.HomeGoals
	defenseAway := awayConceded / avg.HomeGoals
	attackAway := awayScored / avg.AwayGoals
	defenseHome := homeConceded / avg.AwayGoals

	eg := ExpectedGoals{
		Home: clampLambda(attackHome * defenseAway * avg.HomeGoals),
		Away: clampLambda(attackAway * defenseHome * avg.AwayGoals),
	}
	return eg, nil
}

func splitError(team, venue string) error {
	return fmt.Errorf("%w: %q has no recorded %s matches", models.ErrInsufficientData, team, venue)
}

func clampLambda(lambda float64) float64 {
	if lambda < minLambda {
		return minLambda
	}
	if lambda > maxLambda {
		return maxLambda
	}
	return lambda
}
