// Package service orchestrates the scan workflow: refreshing team
// statistics, predicting fixtures, matching odds and persisting the value
// bets the engine finds.
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/valuebet-bot/internal/config"
	"github.com/yourusername/valuebet-bot/internal/datasource"
	"github.com/yourusername/valuebet-bot/internal/engine"
	"github.com/yourusername/valuebet-bot/internal/logger"
	"github.com/yourusername/valuebet-bot/internal/metrics"
	"github.com/yourusername/valuebet-bot/internal/models"
	"github.com/yourusername/valuebet-bot/internal/notify"
	"github.com/yourusername/valuebet-bot/internal/repository"
)

// ScanService runs the daily value scan across the configured leagues.
type ScanService struct {
	cfg      *config.Config
	stats    datasource.StatsProvider
	odds     datasource.OddsProvider
	repos    *repository.Repositories
	notifier notify.Notifier
	log      *logrus.Logger
}

// NewScanService creates a new scan service
func NewScanService(
	cfg *config.Config,
	stats datasource.StatsProvider,
	odds datasource.OddsProvider,
	repos *repository.Repositories,
	notifier notify.Notifier,
	log *logrus.Logger,
) *ScanService {
	return &ScanService{
		cfg:      cfg,
		stats:    stats,
		odds:     odds,
		repos:    repos,
		notifier: notifier,
		log:      log,
	}
}

// ScanReport summarizes one scan run.
type ScanReport struct {
	FixturesScanned int
	FixturesSkipped int
	LeaguesFailed   int
	Signals         []engine.ValueSignal
	NewBets         []*models.ValueBet
	Duration        time.Duration
}

// RefreshStats fetches current standings for every configured league and
// stores the team ratings. A league that fails does not stop the others.
func (s *ScanService) RefreshStats(ctx context.Context) error {
	start := time.Now()
	var failed int

	for _, league := range s.cfg.Scan.Leagues {
		llog := logger.ForLeague(s.log, league.ID, league.Name)

		ratings, err := s.stats.FetchTeamRatings(ctx, league.ID, s.cfg.Scan.Season)
		if err != nil {
			metrics.RecordProviderError("api_football")
			llog.WithError(err).Error("Failed to fetch standings")
			failed++
			continue
		}

		var stored int
		for _, rating := range ratings {
			if err := s.repos.TeamStats.Upsert(ctx, rating); err != nil {
				llog.WithError(err).WithField("team", rating.TeamName).Error("Failed to store team rating")
				continue
			}
			stored++
		}

		metrics.UpdateTrackedTeams(league.Name, stored)
		llog.WithField("teams", stored).Info("Team statistics refreshed")
	}

	metrics.RecordRefreshDuration(time.Since(start).Seconds())

	if failed == len(s.cfg.Scan.Leagues) {
		return fmt.Errorf("statistics refresh failed for all %d leagues", failed)
	}
	return nil
}

// RunScan executes the full pipeline: predict every upcoming fixture,
// compare against bookmaker odds, keep the strongest signals, persist them
// and send the daily digest.
func (s *ScanService) RunScan(ctx context.Context) (*ScanReport, error) {
	start := time.Now()
	report := &ScanReport{}

	for _, league := range s.cfg.Scan.Leagues {
		if err := s.scanLeague(ctx, league, report); err != nil {
			logger.ForLeague(s.log, league.ID, league.Name).WithError(err).Error("League scan failed")
			report.LeaguesFailed++
		}
	}

	if report.LeaguesFailed == len(s.cfg.Scan.Leagues) {
		return report, fmt.Errorf("scan failed for all %d leagues", report.LeaguesFailed)
	}

	// Ranking is global: the digest shows the best signals of the day, not
	// the best per league.
	engine.SortSignals(report.Signals)
	report.Signals = engine.Truncate(report.Signals, s.cfg.Engine.TopN)

	if err := s.persistAndNotify(ctx, report); err != nil {
		return report, err
	}

	report.Duration = time.Since(start)
	metrics.RecordScan(report.Duration.Seconds(), len(report.Signals))

	s.log.WithFields(logrus.Fields{
		"fixtures": report.FixturesScanned,
		"skipped":  report.FixturesSkipped,
		"signals":  len(report.Signals),
		"new_bets": len(report.NewBets),
		"duration": report.Duration.Round(time.Millisecond),
	}).Info("Scan complete")

	return report, nil
}

func (s *ScanService) scanLeague(ctx context.Context, league config.LeagueConfig, report *ScanReport) error {
	llog := logger.ForLeague(s.log, league.ID, league.Name)

	ratings, err := s.repos.TeamStats.GetByLeague(ctx, league.ID, s.cfg.Scan.Season)
	if err != nil {
		return fmt.Errorf("failed to load team ratings: %w", err)
	}
	if len(ratings) == 0 {
		return fmt.Errorf("no team ratings stored, refresh statistics first")
	}
	snapshot := engine.NewSnapshot(league.ID, s.cfg.Scan.Season, ratings)

	fixtures, err := s.stats.FetchFixtures(ctx, league.ID, s.cfg.Scan.Season, s.cfg.Scan.DaysAhead)
	if err != nil {
		metrics.RecordProviderError("api_football")
		return fmt.Errorf("failed to fetch fixtures: %w", err)
	}
	if len(fixtures) == 0 {
		llog.Info("No upcoming fixtures")
		return nil
	}

	goalsLine := s.cfg.Engine.TotalGoalsLine
	events, err := s.odds.FetchOdds(ctx, league.ID, goalsLine)
	if err != nil {
		metrics.RecordProviderError("odds_api")
		return fmt.Errorf("failed to fetch odds: %w", err)
	}

	params := engine.ScanParams{
		ValueThreshold: s.cfg.Engine.ValueThreshold,
		MinProbability: s.cfg.Engine.MinProbability,
		// Per-fixture truncation is disabled; the top-N cut happens on the
		// globally sorted list.
		TopN: 0,
	}

	for _, fixture := range fixtures {
		pred, err := s.predict(fixture, snapshot, goalsLine)
		if err != nil {
			report.FixturesSkipped++
			llog.WithError(err).WithField("fixture", fixture.String()).Debug("Fixture skipped")
			continue
		}

		quotes := matchQuotes(events, fixture)
		if len(quotes) == 0 {
			metrics.RecordPredictionSkipped("no_odds")
			report.FixturesSkipped++
			llog.WithField("fixture", fixture.String()).Debug("No odds coverage for fixture")
			continue
		}

		report.FixturesScanned++
		signals := engine.ScanFixture(fixture, pred, quotes, params)
		report.Signals = append(report.Signals, signals...)
	}

	return nil
}

func (s *ScanService) predict(fixture models.Fixture, snapshot *engine.Snapshot, goalsLine float64) (*engine.Prediction, error) {
	eg, err := engine.EstimateGoals(fixture, snapshot)
	if err != nil {
		if errors.Is(err, models.ErrInsufficientData) {
			metrics.RecordPredictionSkipped("insufficient_data")
		}
		return nil, err
	}

	pred, err := engine.Distribute(eg, goalsLine)
	if err != nil {
		metrics.RecordPredictionSkipped("numeric_instability")
		return nil, err
	}

	metrics.RecordPrediction()
	return pred, nil
}

// persistAndNotify stores the scan's signals and sends the digest for the
// ones not seen before. A signal that already exists in storage is an
// earlier scan's find and is not re-announced.
func (s *ScanService) persistAndNotify(ctx context.Context, report *ScanReport) error {
	for _, signal := range report.Signals {
		bet := s.signalToBet(signal)

		if err := s.repos.Bet.Create(ctx, bet); err != nil {
			if errors.Is(err, models.ErrDuplicateKey) {
				s.log.WithField("fixture", signal.Fixture.String()).
					WithField("market", signal.Market).
					Debug("Value bet already recorded")
				continue
			}
			return fmt.Errorf("failed to store value bet: %w", err)
		}

		metrics.RecordValueBet()
		report.NewBets = append(report.NewBets, bet)
	}

	if err := s.notifier.SendDailyDigest(ctx, report.NewBets); err != nil {
		s.log.WithError(err).Error("Failed to send digest")
		return nil
	}
	if len(report.NewBets) > 0 {
		metrics.RecordNotificationSent()

		ids := make([]uuid.UUID, len(report.NewBets))
		for i, bet := range report.NewBets {
			ids[i] = bet.ID
			bet.Notified = true
		}
		if err := s.repos.Bet.MarkNotified(ctx, ids); err != nil {
			s.log.WithError(err).Error("Failed to mark bets notified")
		}
	}
	return nil
}

func (s *ScanService) signalToBet(signal engine.ValueSignal) *models.ValueBet {
	return &models.ValueBet{
		ID:          uuid.New(),
		CreatedAt:   time.Now().UTC(),
		FixtureID:   signal.Fixture.ID,
		MatchDate:   signal.Fixture.MatchDate(),
		League:      s.cfg.LeagueName(signal.Fixture.LeagueID),
		HomeTeam:    signal.Fixture.HomeTeam,
		AwayTeam:    signal.Fixture.AwayTeam,
		Market:      signal.Market,
		Bookmaker:   signal.Bookmaker,
		BookieOdds:  signal.Odds,
		ModelOdds:   round2(1 / signal.Probability),
		Probability: signal.Probability,
		Edge:        signal.Edge,
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// matchQuotes finds the odds event for a fixture. Providers spell team
// names differently ("Lyon" vs "Olympique Lyonnais"), so an exact
// case-insensitive match is tried first and a substring match second.
func matchQuotes(events []datasource.OddsEvent, fixture models.Fixture) []models.OddsQuote {
	home := strings.ToLower(fixture.HomeTeam)
	away := strings.ToLower(fixture.AwayTeam)

	for _, ev := range events {
		if strings.ToLower(ev.HomeTeam) == home && strings.ToLower(ev.AwayTeam) == away {
			return bindQuotes(ev, fixture.ID)
		}
	}
	for _, ev := range events {
		if nameMatches(ev.HomeTeam, home) && nameMatches(ev.AwayTeam, away) {
			return bindQuotes(ev, fixture.ID)
		}
	}
	return nil
}

func bindQuotes(ev datasource.OddsEvent, fixtureID int64) []models.OddsQuote {
	quotes := make([]models.OddsQuote, len(ev.Quotes))
	for i, q := range ev.Quotes {
		q.FixtureID = fixtureID
		quotes[i] = q
	}
	return quotes
}

func nameMatches(provider, target string) bool {
	p := strings.ToLower(provider)
	return strings.Contains(p, target) || strings.Contains(target, p)
}
