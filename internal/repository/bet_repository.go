package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yourusername/valuebet-bot/internal/database"
	"github.com/yourusername/valuebet-bot/internal/models"
)

// PostgresBetRepository implements BetRepository for PostgreSQL
type PostgresBetRepository struct {
	db *database.DB
}

// NewPostgresBetRepository creates a new bet repository
func NewPostgresBetRepository(db *database.DB) BetRepository {
	return &PostgresBetRepository{db: db}
}

const betColumns = `id, created_at, fixture_id, match_date, league, home_team, away_team,
	market, bookmaker, bk_odds, model_odds, probability, edge, result, success, notified`

// Create inserts a value bet. A re-scan of an already stored
// (fixture, market, bookmaker) opportunity returns ErrDuplicateKey so the
// caller can decide not to announce it again.
func (r *PostgresBetRepository) Create(ctx context.Context, bet *models.ValueBet) error {
	if bet.ID == uuid.Nil {
		bet.ID = uuid.New()
	}
	if bet.CreatedAt.IsZero() {
		bet.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO bets (` + betColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		bet.ID, bet.CreatedAt, bet.FixtureID, bet.MatchDate, bet.League,
		bet.HomeTeam, bet.AwayTeam, bet.Market, bet.Bookmaker,
		bet.BookieOdds, bet.ModelOdds, bet.Probability, bet.Edge,
		bet.Result, bet.Success, bet.Notified,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505 = unique_violation
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: bet for fixture %d %s at %s", models.ErrDuplicateKey,
				bet.FixtureID, bet.Market, bet.Bookmaker)
		}
		return fmt.Errorf("failed to insert bet: %w", err)
	}

	return nil
}

// GetByID retrieves one bet
func (r *PostgresBetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ValueBet, error) {
	query := `SELECT ` + betColumns + ` FROM bets WHERE id = $1`

	bet, err := scanBet(r.db.GetPool().QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bet: %w", err)
	}
	return bet, nil
}

// GetRecent retrieves the most recent bets, newest match first
func (r *PostgresBetRepository) GetRecent(ctx context.Context, limit int) ([]*models.ValueBet, error) {
	query := `
		SELECT ` + betColumns + `
		FROM bets
		ORDER BY match_date DESC, created_at DESC
		LIMIT $1
	`
	return r.queryBets(ctx, query, limit)
}

// GetByMatchDate retrieves bets for fixtures played on the given date
func (r *PostgresBetRepository) GetByMatchDate(ctx context.Context, date string) ([]*models.ValueBet, error) {
	query := `
		SELECT ` + betColumns + `
		FROM bets
		WHERE match_date = $1
		ORDER BY edge DESC, created_at DESC
	`
	return r.queryBets(ctx, query, date)
}

// GetPendingBefore retrieves unsettled bets whose match date is in the past
func (r *PostgresBetRepository) GetPendingBefore(ctx context.Context, date string) ([]*models.ValueBet, error) {
	query := `
		SELECT ` + betColumns + `
		FROM bets
		WHERE success IS NULL AND match_date < $1
		ORDER BY match_date ASC
	`
	return r.queryBets(ctx, query, date)
}

// Settle records the final score and win/loss outcome of a bet
func (r *PostgresBetRepository) Settle(ctx context.Context, id uuid.UUID, result string, success bool) error {
	tag, err := r.db.GetPool().Exec(ctx,
		`UPDATE bets SET result = $1, success = $2 WHERE id = $3`,
		result, success, id,
	)
	if err != nil {
		return fmt.Errorf("failed to settle bet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// MarkNotified flags bets as having been sent through the notification channel
func (r *PostgresBetRepository) MarkNotified(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.GetPool().Exec(ctx, `UPDATE bets SET notified = TRUE WHERE id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("failed to mark bets notified: %w", err)
	}
	return nil
}

// GetStats aggregates stored bets for the dashboard
func (r *PostgresBetRepository) GetStats(ctx context.Context) (*models.BetStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE success = TRUE),
			COUNT(*) FILTER (WHERE success = FALSE),
			COUNT(*) FILTER (WHERE success IS NULL),
			COALESCE(AVG(edge) * 100, 0),
			COALESCE(AVG(probability) * 100, 0)
		FROM bets
	`

	stats := &models.BetStats{}
	err := r.db.GetPool().QueryRow(ctx, query).Scan(
		&stats.Total, &stats.Wins, &stats.Losses, &stats.Pending,
		&stats.AvgEdgePct, &stats.AvgProbabilityPct,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate bet stats: %w", err)
	}

	if settled := stats.Wins + stats.Losses; settled > 0 {
		stats.HitRatePct = float64(stats.Wins) / float64(settled) * 100
	}
	return stats, nil
}

func (r *PostgresBetRepository) queryBets(ctx context.Context, query string, args ...interface{}) ([]*models.ValueBet, error) {
	rows, err := r.db.GetPool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bets: %w", err)
	}
	defer rows.Close()

	var bets []*models.ValueBet
	for rows.Next() {
		bet, err := scanBet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		bets = append(bets, bet)
	}

	return bets, rows.Err()
}

func scanBet(row pgx.Row) (*models.ValueBet, error) {
	bet := &models.ValueBet{}
	err := row.Scan(
		&bet.ID, &bet.CreatedAt, &bet.FixtureID, &bet.MatchDate, &bet.League,
		&bet.HomeTeam, &bet.AwayTeam, &bet.Market, &bet.Bookmaker,
		&bet.BookieOdds, &bet.ModelOdds, &bet.Probability, &bet.Edge,
		&bet.Result, &bet.Success, &bet.Notified,
	)
	if err != nil {
		return nil, err
	}
	return bet, nil
}
