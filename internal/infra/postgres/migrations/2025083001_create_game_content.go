package migrations

import (
	"context"
	_ "embed"
	"encoding/json"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	"github.com/BhavyaSpace/APOGEE-Orientation-Game/internal/infra/memory"
)

//go:embed 0001_create_game_content.sql
var createGameContentSQL string

var Migrations = migrate.NewMigrations()

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, createGameContentSQL)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS game_content`)
			return err
		},
	)

	// Seed the bundled content so a fresh database can serve games
	// immediately; existing rows are left alone.
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			missions, err := json.Marshal(memory.DefaultMissions())
			if err != nil {
				return err
			}
			pool, err := json.Marshal(memory.DefaultQuizPool())
			if err != nil {
				return err
			}
			if _, err := db.ExecContext(ctx,
				`INSERT INTO game_content (key, data) VALUES ('missions', ?::jsonb) ON CONFLICT (key) DO NOTHING`,
				string(missions)); err != nil {
				return err
			}
			_, err = db.ExecContext(ctx,
				`INSERT INTO game_content (key, data) VALUES ('quiz_pool', ?::jsonb) ON CONFLICT (key) DO NOTHING`,
				string(pool))
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, `DELETE FROM game_content WHERE key IN ('missions', 'quiz_pool')`)
			return err
		},
	)
}
