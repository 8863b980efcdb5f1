package db

import (
	"fmt"

	"github.com/argvision/argvision-backend/pkg/db/models"
)

// sqliteIndexes mirrors the uniqueness guarantees of the postgres migrations.
var sqliteIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_users_username ON users (username)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_games_name ON games (name)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_match_memberships_user_match ON match_memberships (user_id, match_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_match_memberships_match_side ON match_memberships (match_id, side) WHERE side > 0`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_team_memberships_user_team ON team_memberships (user_id, team_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_rankings_user_game_team ON rankings (user_id, game_id, team_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_rankings_user_game_solo ON rankings (user_id, game_id) WHERE team_id IS NULL`,
	`CREATE INDEX IF NOT EXISTS ix_outbox_events_pending ON outbox_events (created_at) WHERE published_at IS NULL AND terminal_at IS NULL`,
}

// AllModels lists every persisted model.
func AllModels() []any {
	return []any{
		&models.User{},
		&models.Game{},
		&models.Match{},
		&models.MatchMembership{},
		&models.Team{},
		&models.TeamMembership{},
		&models.Ranking{},
		&models.Discussion{},
		&models.DiscussionParticipant{},
		&models.Message{},
		&models.Notification{},
		&models.OutboxEvent{},
	}
}

// EnsureSQLiteSchema builds the schema on a SQLite database. Postgres
// deployments use the goose migrations instead.
func (c *Client) EnsureSQLiteSchema() error {
	if c.Dialect() != "sqlite" {
		return fmt.Errorf("schema bootstrap requires sqlite, got %s", c.Dialect())
	}
	if err := c.conn.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	for _, stmt := range sqliteIndexes {
		if err := c.conn.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}
