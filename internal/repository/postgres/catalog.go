package postgres

import (
	"context"
	"encoding/json"

	"fitclub/planner/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type catalogRepository struct {
	pool *pgxpool.Pool
}

func (r *catalogRepository) ListExercises(ctx context.Context) ([]domain.CatalogExercise, error) {
	return listTable[domain.CatalogExercise](ctx, r.pool, "catalog_exercises")
}

func (r *catalogRepository) ListFoods(ctx context.Context) ([]domain.FoodEntry, error) {
	return listTable[domain.FoodEntry](ctx, r.pool, "catalog_foods")
}

func (r *catalogRepository) UpsertExercises(ctx context.Context, items []domain.CatalogExercise) error {
	return upsertTable(ctx, r.pool, "catalog_exercises", items, func(e domain.CatalogExercise) string { return e.Name })
}

func (r *catalogRepository) UpsertFoods(ctx context.Context, items []domain.FoodEntry) error {
	return upsertTable(ctx, r.pool, "catalog_foods", items, func(f domain.FoodEntry) string { return f.Name })
}

// table names are package constants, never user input
func listTable[T any](ctx context.Context, pool *pgxpool.Pool, table string) ([]T, error) {
	rows, err := pool.Query(ctx, `SELECT data FROM `+table+` ORDER BY position`)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func upsertTable[T any](ctx context.Context, pool *pgxpool.Pool, table string, items []T, name func(T) string) error {
	if len(items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, it := range items {
		raw, err := json.Marshal(it)
		if err != nil {
			return err
		}
		// position is kept on conflict so reseeding does not reorder the list
		batch.Queue(`INSERT INTO `+table+` (name, data) VALUES ($1, $2)
			ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data`, name(it), raw)
	}
	return translate(pool.SendBatch(ctx, batch).Close())
}
