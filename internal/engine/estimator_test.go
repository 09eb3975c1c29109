package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/valuebet-bot/internal/models"
)

func testRatings() []*models.TeamRating {
	return []*models.TeamRating{
		{
			TeamID: 1, TeamName: "Lyon", LeagueID: 61, Season: 2024,
			ScoredHome:   models.SplitRecord{Goals: 20, Matches: 10},
			ConcededHome: models.SplitRecord{Goals: 10, Matches: 10},
			ScoredAway:   models.SplitRecord{Goals: 8, Matches: 10},
			ConcededAway: models.SplitRecord{Goals: 14, Matches: 10},
		},
		{
			TeamID: 2, TeamName: "Lille", LeagueID: 61, Season: 2024,
			ScoredHome:   models.SplitRecord{Goals: 15, Matches: 10},
			ConcededHome: models.SplitRecord{Goals: 12, Matches: 10},
			ScoredAway:   models.SplitRecord{Goals: 12, Matches: 10},
			ConcededAway: models.SplitRecord{Goals: 15, Matches: 10},
		},
	}
}

func testFixture() models.Fixture {
	return models.Fixture{
		ID: 1001, LeagueID: 61, Season: 2024,
		HomeTeamID: 1, HomeTeam: "Lyon",
		AwayTeamID: 2, AwayTeam: "Lille",
	}
}

func TestSnapshotAverages(t *testing.T) {
	snap := NewSnapshot(61, 2024, testRatings())

	avg := snap.Averages()
	assert.InDelta(t, 1.75, avg.HomeGoals, 1e-9) // (20+15)/20
	assert.InDelta(t, 1.00, avg.AwayGoals, 1e-9) // (8+12)/20
	assert.True(t, avg.Valid())
	assert.Equal(t, 2, snap.Size())
}

func TestSnapshotIgnoresOtherCompetitions(t *testing.T) {
	ratings := testRatings()
	ratings = append(ratings, &models.TeamRating{
		TeamID: 3, LeagueID: 39, Season: 2024,
		ScoredHome: models.SplitRecord{Goals: 99, Matches: 10},
	})

	snap := NewSnapshot(61, 2024, ratings)
	assert.Equal(t, 2, snap.Size())
	_, ok := snap.Rating(3)
	assert.False(t, ok)
}

func TestEstimateGoals(t *testing.T) {
	snap := NewSnapshot(61, 2024, testRatings())

	eg, err := EstimateGoals(testFixture(), snap)
	require.NoError(t, err)

	// att_home = 2.0/1.75, def_away = 1.5/1.75, avg_home = 1.75
	assert.InDelta(t, 2.0*1.5/1.75, eg.Home, 1e-9)
	// att_away = 1.2/1.0, def_home = 1.0/1.0, avg_away = 1.0
	assert.InDelta(t, 1.2, eg.Away, 1e-9)
}

func TestEstimateGoalsInsufficientData(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([]*models.TeamRating) []*models.TeamRating
	}{
		{
			name: "home team has zero home matches",
			mutate: func(rs []*models.TeamRating) []*models.TeamRating {
				rs[0].ScoredHome = models.SplitRecord{}
				return rs
			},
		},
		{
			name: "away team has zero away matches",
			mutate: func(rs []*models.TeamRating) []*models.TeamRating {
				rs[1].ScoredAway = models.SplitRecord{}
				rs[1].ConcededAway = models.SplitRecord{}
				return rs
			},
		},
		{
			name: "home team unknown",
			mutate: func(rs []*models.TeamRating) []*models.TeamRating {
				return rs[1:]
			},
		},
		{
			name: "league has no recorded matches",
			mutate: func(rs []*models.TeamRating) []*models.TeamRating {
				for _, r := range rs {
					r.ScoredHome = models.SplitRecord{}
					r.ScoredAway = models.SplitRecord{}
					r.ConcededHome = models.SplitRecord{}
					r.ConcededAway = models.SplitRecord{}
				}
				return rs
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := NewSnapshot(61, 2024, tt.mutate(testRatings()))
			_, err := EstimateGoals(testFixture(), snap)
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrInsufficientData)
		})
	}
}

func TestEstimateGoalsClampsLambda(t *testing.T) {
	ratings := testRatings()
	// A grotesque scoring record should still produce a bounded lambda.
	ratings[0].ScoredHome = models.SplitRecord{Goals: 90, Matches: 10}
	ratings[1].ConcededAway = models.SplitRecord{Goals: 80, Matches: 10}

	snap := NewSnapshot(61, 2024, ratings)
	eg, err := EstimateGoals(testFixture(), snap)
	require.NoError(t, err)

	assert.LessOrEqual(t, eg.Home, maxLambda)
	assert.GreaterOrEqual(t, eg.Away, minLambda)
}
