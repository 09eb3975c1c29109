package database

import (
	"context"
	"fmt"
)

// Schema for the bot's two tables. CREATE IF NOT EXISTS keeps first-run
// bootstrap trivial; anything beyond that (indexes tuning, migrations) is
// an operational concern.
const schema = `
CREATE TABLE IF NOT EXISTS bets (
	id UUID PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	fixture_id BIGINT NOT NULL,
	match_date TEXT NOT NULL,
	league TEXT NOT NULL,
	home_team TEXT NOT NULL,
	away_team TEXT NOT NULL,
	market TEXT NOT NULL,
	bookmaker TEXT NOT NULL,
	bk_odds DOUBLE PRECISION NOT NULL,
	model_odds DOUBLE PRECISION NOT NULL,
	probability DOUBLE PRECISION NOT NULL,
	edge DOUBLE PRECISION NOT NULL,
	result TEXT,
	success BOOLEAN,
	notified BOOLEAN NOT NULL DEFAULT FALSE,
	UNIQUE (fixture_id, market, bookmaker)
);

CREATE TABLE IF NOT EXISTS team_stats (
	league_id INTEGER NOT NULL,
	season INTEGER NOT NULL,
	team_id INTEGER NOT NULL,
	team_name TEXT NOT NULL,
	home_goals_scored DOUBLE PRECISION NOT NULL DEFAULT 0,
	home_goals_conceded DOUBLE PRECISION NOT NULL DEFAULT 0,
	away_goals_scored DOUBLE PRECISION NOT NULL DEFAULT 0,
	away_goals_conceded DOUBLE PRECISION NOT NULL DEFAULT 0,
	home_games INTEGER NOT NULL DEFAULT 0,
	away_games INTEGER NOT NULL DEFAULT 0,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (league_id, season, team_id)
);

CREATE INDEX IF NOT EXISTS idx_bets_match_date ON bets (match_date);
CREATE INDEX IF NOT EXISTS idx_bets_pending ON bets (fixture_id) WHERE success IS NULL;
`

// EnsureSchema creates the bot's tables if they do not exist yet.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
