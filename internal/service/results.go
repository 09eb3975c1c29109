package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/valuebet-bot/internal/config"
	"github.com/yourusername/valuebet-bot/internal/datasource"
	"github.com/yourusername/valuebet-bot/internal/metrics"
	"github.com/yourusername/valuebet-bot/internal/models"
	"github.com/yourusername/valuebet-bot/internal/repository"
)

// SettlementService grades stored bets once their fixtures have finished.
type SettlementService struct {
	cfg   *config.Config
	stats datasource.StatsProvider
	bets  repository.BetRepository
	log   *logrus.Logger
}

// NewSettlementService creates a new settlement service
func NewSettlementService(cfg *config.Config, stats datasource.StatsProvider, bets repository.BetRepository, log *logrus.Logger) *SettlementService {
	return &SettlementService{
		cfg:   cfg,
		stats: stats,
		bets:  bets,
		log:   log,
	}
}

// SettlementReport summarizes one settlement run.
type SettlementReport struct {
	Settled   int
	Won       int
	StillOpen int
	Failed    int
}

// SettleResults grades every pending bet whose match date has passed. One
// result is fetched per fixture regardless of how many bets ride on it.
func (s *SettlementService) SettleResults(ctx context.Context) (*SettlementReport, error) {
	today := time.Now().UTC().Format("2006-01-02")
	pending, err := s.bets.GetPendingBefore(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending bets: %w", err)
	}

	report := &SettlementReport{}
	results := make(map[int64]*models.FixtureResult)

	for _, bet := range pending {
		result, fetched := results[bet.FixtureID]
		if !fetched {
			result, err = s.stats.FetchResult(ctx, bet.FixtureID)
			if err != nil {
				metrics.RecordProviderError("api_football")
				s.log.WithError(err).WithField("fixture_id", bet.FixtureID).Error("Failed to fetch result")
				report.Failed++
				continue
			}
			results[bet.FixtureID] = result
		}

		if !result.Finished {
			report.StillOpen++
			continue
		}

		won, err := GradeMarket(bet.Market, result, s.cfg.Engine.TotalGoalsLine)
		if err != nil {
			s.log.WithError(err).WithField("bet_id", bet.ID).Error("Cannot grade bet")
			report.Failed++
			continue
		}

		if err := s.bets.Settle(ctx, bet.ID, result.Score(), won); err != nil {
			s.log.WithError(err).WithField("bet_id", bet.ID).Error("Failed to settle bet")
			report.Failed++
			continue
		}

		metrics.RecordBetSettled(won)
		report.Settled++
		if won {
			report.Won++
		}

		s.log.WithFields(logrus.Fields{
			"bet_id": bet.ID,
			"match":  fmt.Sprintf("%s vs %s", bet.HomeTeam, bet.AwayTeam),
			"market": bet.Market,
			"score":  result.Score(),
			"won":    won,
		}).Info("Bet settled")
	}

	s.log.WithFields(logrus.Fields{
		"pending": len(pending),
		"settled": report.Settled,
		"won":     report.Won,
		"open":    report.StillOpen,
		"failed":  report.Failed,
	}).Info("Settlement complete")

	return report, nil
}

// GradeMarket decides whether a market won given the final score. Totals
// markets are graded against the engine's goals line.
func GradeMarket(market models.Market, result *models.FixtureResult, goalsLine float64) (bool, error) {
	total := float64(result.HomeGoals + result.AwayGoals)

	switch market {
	case models.MarketHomeWin:
		return result.HomeGoals > result.AwayGoals, nil
	case models.MarketDraw:
		return result.HomeGoals == result.AwayGoals, nil
	case models.MarketAwayWin:
		return result.AwayGoals > result.HomeGoals, nil
	case models.MarketOver:
		return total > goalsLine, nil
	case models.MarketUnder:
		return total < goalsLine, nil
	case models.MarketBTTSYes:
		return result.HomeGoals > 0 && result.AwayGoals > 0, nil
	case models.MarketBTTSNo:
		return result.HomeGoals == 0 || result.AwayGoals == 0, nil
	}
	return false, fmt.Errorf("unknown market %q", market)
}
