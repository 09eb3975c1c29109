package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/yourusername/valuebet-bot/internal/database"
	"github.com/yourusername/valuebet-bot/internal/models"
)

// PostgresTeamStatsRepository implements TeamStatsRepository for PostgreSQL
type PostgresTeamStatsRepository struct {
	db *database.DB
}

// NewPostgresTeamStatsRepository creates a new team stats repository
func NewPostgresTeamStatsRepository(db *database.DB) TeamStatsRepository {
	return &PostgresTeamStatsRepository{db: db}
}

// Upsert stores a team's rating, replacing any previous snapshot for the
// same (league, season, team) key.
func (r *PostgresTeamStatsRepository) Upsert(ctx context.Context, rating *models.TeamRating) error {
	if rating.UpdatedAt.IsZero() {
		rating.UpdatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO team_stats (
			league_id, season, team_id, team_name,
			home_goals_scored, home_goals_conceded, away_goals_scored, away_goals_conceded,
			home_games, away_games, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (league_id, season, team_id) DO UPDATE SET
			team_name = EXCLUDED.team_name,
			home_goals_scored = EXCLUDED.home_goals_scored,
			home_goals_conceded = EXCLUDED.home_goals_conceded,
			away_goals_scored = EXCLUDED.away_goals_scored,
			away_goals_conceded = EXCLUDED.away_goals_conceded,
			home_games = EXCLUDED.home_games,
			away_games = EXCLUDED.away_games,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		rating.LeagueID, rating.Season, rating.TeamID, rating.TeamName,
		rating.ScoredHome.Goals, rating.ConcededHome.Goals,
		rating.ScoredAway.Goals, rating.ConcededAway.Goals,
		rating.ScoredHome.Matches, rating.ScoredAway.Matches,
		rating.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert team stats: %w", err)
	}

	return nil
}

// GetByLeague retrieves all team ratings for a competition/season
func (r *PostgresTeamStatsRepository) GetByLeague(ctx context.Context, leagueID, season int) ([]*models.TeamRating, error) {
	query := `
		SELECT league_id, season, team_id, team_name,
			home_goals_scored, home_goals_conceded, away_goals_scored, away_goals_conceded,
			home_games, away_games, updated_at
		FROM team_stats
		WHERE league_id = $1 AND season = $2
		ORDER BY team_id
	`

	rows, err := r.db.GetPool().Query(ctx, query, leagueID, season)
	if err != nil {
		return nil, fmt.Errorf("failed to query team stats: %w", err)
	}
	defer rows.Close()

	var ratings []*models.TeamRating
	for rows.Next() {
		rating := &models.TeamRating{}
		var homeGames, awayGames int
		err := rows.Scan(
			&rating.LeagueID, &rating.Season, &rating.TeamID, &rating.TeamName,
			&rating.ScoredHome.Goals, &rating.ConcededHome.Goals,
			&rating.ScoredAway.Goals, &rating.ConcededAway.Goals,
			&homeGames, &awayGames,
			&rating.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team stats: %w", err)
		}
		// Venue splits share the games-played counter for their venue.
		rating.ScoredHome.Matches = homeGames
		rating.ConcededHome.Matches = homeGames
		rating.ScoredAway.Matches = awayGames
		rating.ConcededAway.Matches = awayGames
		ratings = append(ratings, rating)
	}

	return ratings, rows.Err()
}
