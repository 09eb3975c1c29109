package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/yourusername/valuebet-bot/internal/models"
)

// BetRepository defines the interface for value-bet persistence
type BetRepository interface {
	Create(ctx context.Context, bet *models.ValueBet) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ValueBet, error)
	GetRecent(ctx context.Context, limit int) ([]*models.ValueBet, error)
	GetByMatchDate(ctx context.Context, date string) ([]*models.ValueBet, error)
	GetPendingBefore(ctx context.Context, date string) ([]*models.ValueBet, error)
	Settle(ctx context.Context, id uuid.UUID, result string, success bool) error
	MarkNotified(ctx context.Context, ids []uuid.UUID) error
	GetStats(ctx context.Context) (*models.BetStats, error)
}

// TeamStatsRepository defines the interface for team rating persistence
type TeamStatsRepository interface {
	Upsert(ctx context.Context, rating *models.TeamRating) error
	GetByLeague(ctx context.Context, leagueID, season int) ([]*models.TeamRating, error)
}
