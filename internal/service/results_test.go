package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/valuebet-bot/internal/models"
)

func TestGradeMarket(t *testing.T) {
	tests := []struct {
		name   string
		market models.Market
		home   int
		away   int
		won    bool
	}{
		{"home win hits", models.MarketHomeWin, 2, 1, true},
		{"home win misses on draw", models.MarketHomeWin, 1, 1, false},
		{"draw hits", models.MarketDraw, 0, 0, true},
		{"draw misses", models.MarketDraw, 2, 0, false},
		{"away win hits", models.MarketAwayWin, 0, 3, true},
		{"away win misses", models.MarketAwayWin, 3, 0, false},
		{"over hits at three goals", models.MarketOver, 2, 1, true},
		{"over misses at two goals", models.MarketOver, 1, 1, false},
		{"under hits at two goals", models.MarketUnder, 2, 0, true},
		{"under misses at three goals", models.MarketUnder, 2, 1, false},
		{"btts yes hits", models.MarketBTTSYes, 1, 1, true},
		{"btts yes misses", models.MarketBTTSYes, 2, 0, false},
		{"btts no hits", models.MarketBTTSNo, 2, 0, true},
		{"btts no misses", models.MarketBTTSNo, 1, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := &models.FixtureResult{FixtureID: 1, HomeGoals: tt.home, AwayGoals: tt.away, Finished: true}
			won, err := GradeMarket(tt.market, result, 2.5)
			require.NoError(t, err)
			assert.Equal(t, tt.won, won)
		})
	}
}

func TestGradeMarketUnknown(t *testing.T) {
	result := &models.FixtureResult{FixtureID: 1, HomeGoals: 1, AwayGoals: 0, Finished: true}
	_, err := GradeMarket(models.Market("handicap"), result, 2.5)
	assert.Error(t, err)
}

func TestSettleResults(t *testing.T) {
	stats := new(MockStatsProvider)
	betRepo := new(MockBetRepository)
	svc := NewSettlementService(testConfig(), stats, betRepo, testLogger())

	winBet := &models.ValueBet{ID: uuid.New(), FixtureID: 1001, Market: models.MarketHomeWin, HomeTeam: "Lyon", AwayTeam: "Lille"}
	loseBet := &models.ValueBet{ID: uuid.New(), FixtureID: 1001, Market: models.MarketUnder, HomeTeam: "Lyon", AwayTeam: "Lille"}
	openBet := &models.ValueBet{ID: uuid.New(), FixtureID: 1002, Market: models.MarketDraw, HomeTeam: "Nice", AwayTeam: "Monaco"}

	betRepo.On("GetPendingBefore", mock.Anything, mock.AnythingOfType("string")).
		Return([]*models.ValueBet{winBet, loseBet, openBet}, nil)

	// 2-1: home_win wins, under 2.5 loses.
	stats.On("FetchResult", mock.Anything, int64(1001)).
		Return(&models.FixtureResult{FixtureID: 1001, HomeGoals: 2, AwayGoals: 1, Finished: true}, nil).Once()
	stats.On("FetchResult", mock.Anything, int64(1002)).
		Return(&models.FixtureResult{FixtureID: 1002, Finished: false}, nil)

	betRepo.On("Settle", mock.Anything, winBet.ID, "2-1", true).Return(nil)
	betRepo.On("Settle", mock.Anything, loseBet.ID, "2-1", false).Return(nil)

	report, err := svc.SettleResults(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Settled)
	assert.Equal(t, 1, report.Won)
	assert.Equal(t, 1, report.StillOpen)
	assert.Equal(t, 0, report.Failed)

	// Both 1001 bets share one result fetch.
	stats.AssertNumberOfCalls(t, "FetchResult", 2)
	betRepo.AssertExpectations(t)
}

func TestSettleResultsProviderFailure(t *testing.T) {
	stats := new(MockStatsProvider)
	betRepo := new(MockBetRepository)
	svc := NewSettlementService(testConfig(), stats, betRepo, testLogger())

	bet := &models.ValueBet{ID: uuid.New(), FixtureID: 1001, Market: models.MarketHomeWin}

	betRepo.On("GetPendingBefore", mock.Anything, mock.AnythingOfType("string")).
		Return([]*models.ValueBet{bet}, nil)
	stats.On("FetchResult", mock.Anything, int64(1001)).Return(nil, errors.New("timeout"))

	report, err := svc.SettleResults(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, report.Settled)
	assert.Equal(t, 1, report.Failed)
	betRepo.AssertNotCalled(t, "Settle", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSettleResultsNothingPending(t *testing.T) {
	stats := new(MockStatsProvider)
	betRepo := new(MockBetRepository)
	svc := NewSettlementService(testConfig(), stats, betRepo, testLogger())

	betRepo.On("GetPendingBefore", mock.Anything, mock.AnythingOfType("string")).
		Return([]*models.ValueBet{}, nil)

	report, err := svc.SettleResults(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.Settled)
	stats.AssertNotCalled(t, "FetchResult", mock.Anything, mock.Anything)
}
