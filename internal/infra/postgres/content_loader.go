// Package postgres loads game content stored as JSONB rows.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/BhavyaSpace/APOGEE-Orientation-Game/internal/domain"
)

// Row keys inside the game_content table.
const (
	MissionsKey = "missions"
	QuizPoolKey = "quiz_pool"
)

// ContentLoader loads the mission set and quiz pool from Postgres.
type ContentLoader struct {
	pool *pgxpool.Pool
}

func NewContentLoader(pool *pgxpool.Pool) *ContentLoader {
	return &ContentLoader{pool: pool}
}

func (l *ContentLoader) LoadMissions(ctx context.Context) ([]domain.Mission, error) {
	var missions []domain.Mission
	if err := l.load(ctx, MissionsKey, &missions); err != nil {
		return nil, err
	}
	if len(missions) == 0 {
		return nil, domain.ErrNoContent
	}
	return missions, nil
}

func (l *ContentLoader) LoadQuizPool(ctx context.Context) ([]domain.QuizQuestion, error) {
	var questions []domain.QuizQuestion
	if err := l.load(ctx, QuizPoolKey, &questions); err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, domain.ErrNoContent
	}
	return questions, nil
}

func (l *ContentLoader) load(ctx context.Context, key string, out interface{}) error {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM game_content WHERE key=$1`, key).Scan(&raw)
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return nil
}
