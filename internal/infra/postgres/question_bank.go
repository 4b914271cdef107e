package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"quizforge/internal/domain"
)

// SetLoader loads named question sets stored as JSONB in Postgres.
type SetLoader struct {
	pool *pgxpool.Pool
}

func NewSetLoader(pool *pgxpool.Pool) *SetLoader {
	return &SetLoader{pool: pool}
}

func (l *SetLoader) LoadSet(ctx context.Context, name string) ([]domain.Question, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM question_sets WHERE name=$1`, name).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load question set: %w", err)
	}
	var questions []domain.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, fmt.Errorf("unmarshal question set: %w", err)
	}
	return questions, nil
}
