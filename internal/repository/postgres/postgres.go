// Package postgres stores users, plans and the catalog in PostgreSQL through a
// pgx connection pool. Plans and catalog items are kept as JSONB documents.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"fitclub/planner/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

const uniqueViolation = "23505"

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL,
	client_ids    TEXT[] NOT NULL DEFAULT '{}',
	trainer_id    TEXT,
	fitness_goals TEXT NOT NULL DEFAULT '',
	goal          TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS users_trainer_id_idx ON users (trainer_id);

CREATE TABLE IF NOT EXISTS workout_plans (
	client_id  TEXT PRIMARY KEY,
	trainer_id TEXT NOT NULL,
	notes      TEXT NOT NULL DEFAULT '',
	schedule   JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS nutrition_plans (
	client_id    TEXT PRIMARY KEY,
	trainer_id   TEXT NOT NULL,
	protein_goal DOUBLE PRECISION NOT NULL,
	calorie_goal DOUBLE PRECISION NOT NULL,
	foods        JSONB NOT NULL,
	day          TEXT NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS catalog_exercises (
	position BIGSERIAL,
	name     TEXT PRIMARY KEY,
	data     JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS catalog_foods (
	position BIGSERIAL,
	name     TEXT PRIMARY KEY,
	data     JSONB NOT NULL
);
`

// NewStore opens a pgx pool on dsn and wires every repository onto it.
func NewStore(ctx context.Context, dsn string) (*repository.Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	log.Info().Str("host", pool.Config().ConnConfig.Host).Msg("connected to PostgreSQL")

	return &repository.Store{
		Users:     &userRepository{pool: pool},
		Workouts:  &workoutPlanRepository{pool: pool},
		Nutrition: &nutritionPlanRepository{pool: pool},
		Catalog:   &catalogRepository{pool: pool},
		Close: func(context.Context) error {
			pool.Close()
			return nil
		},
		EnsureIndexes: func(ctx context.Context) error {
			return Migrate(ctx, pool)
		},
	}, nil
}

// Migrate creates the tables when they do not exist yet.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// translate maps driver errors onto repository errors.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return repository.ErrDuplicate
	}
	return err
}
