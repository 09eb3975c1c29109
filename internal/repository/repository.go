package repository

import (
	"fmt"

	"github.com/yourusername/valuebet-bot/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Bet       BetRepository
	TeamStats TeamStatsRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Bet:       NewPostgresBetRepository(db),
		TeamStats: NewPostgresTeamStatsRepository(db),
	}, nil
}
