package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fitclub/planner/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type workoutPlanRepository struct {
	pool *pgxpool.Pool
}

func (r *workoutPlanRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	var (
		trainerHex string
		schedule   []byte
		plan       = domain.WorkoutPlan{ClientID: clientID}
	)
	err := r.pool.QueryRow(ctx,
		`SELECT trainer_id, notes, schedule, updated_at FROM workout_plans WHERE client_id = $1`, clientID.Hex()).
		Scan(&trainerHex, &plan.Notes, &schedule, &plan.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	if plan.TrainerID, err = primitive.ObjectIDFromHex(trainerHex); err != nil {
		return nil, err
	}
	// Decoding never fails on shape; unknown days are ignored.
	plan.Schedule = domain.NewWeeklySchedule()
	if err := json.Unmarshal(schedule, &plan.Schedule); err != nil {
		return nil, fmt.Errorf("decode schedule: %w", err)
	}
	return &plan, nil
}

func (r *workoutPlanRepository) Upsert(ctx context.Context, plan *domain.WorkoutPlan) error {
	schedule, err := json.Marshal(plan.Schedule)
	if err != nil {
		return err
	}
	plan.UpdatedAt = time.Now().UTC()
	_, err = r.pool.Exec(ctx, `
		INSERT INTO workout_plans (client_id, trainer_id, notes, schedule, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (client_id) DO UPDATE
		SET trainer_id = EXCLUDED.trainer_id, notes = EXCLUDED.notes,
		    schedule = EXCLUDED.schedule, updated_at = EXCLUDED.updated_at`,
		plan.ClientID.Hex(), plan.TrainerID.Hex(), plan.Notes, schedule, plan.UpdatedAt)
	return translate(err)
}

type nutritionPlanRepository struct {
	pool *pgxpool.Pool
}

func (r *nutritionPlanRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID) (*domain.NutritionRecord, error) {
	var (
		trainerHex string
		foods      []byte
		day        string
		rec        = domain.NutritionRecord{ClientID: clientID}
	)
	err := r.pool.QueryRow(ctx, `
		SELECT trainer_id, protein_goal, calorie_goal, foods, day, updated_at
		FROM nutrition_plans WHERE client_id = $1`, clientID.Hex()).
		Scan(&trainerHex, &rec.Plan.ProteinGoal, &rec.Plan.CalorieGoal, &foods, &day, &rec.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	if rec.TrainerID, err = primitive.ObjectIDFromHex(trainerHex); err != nil {
		return nil, err
	}
	rec.Plan.Foods = []domain.FoodEntry{}
	if err := json.Unmarshal(foods, &rec.Plan.Foods); err != nil {
		return nil, fmt.Errorf("decode foods: %w", err)
	}
	rec.Plan.Day, _ = domain.ParseDayKey(day)
	return &rec, nil
}

func (r *nutritionPlanRepository) Upsert(ctx context.Context, rec *domain.NutritionRecord) error {
	foods := rec.Plan.Foods
	if foods == nil {
		foods = []domain.FoodEntry{}
	}
	raw, err := json.Marshal(foods)
	if err != nil {
		return err
	}
	rec.UpdatedAt = time.Now().UTC()
	_, err = r.pool.Exec(ctx, `
		INSERT INTO nutrition_plans (client_id, trainer_id, protein_goal, calorie_goal, foods, day, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (client_id) DO UPDATE
		SET trainer_id = EXCLUDED.trainer_id, protein_goal = EXCLUDED.protein_goal,
		    calorie_goal = EXCLUDED.calorie_goal, foods = EXCLUDED.foods,
		    day = EXCLUDED.day, updated_at = EXCLUDED.updated_at`,
		rec.ClientID.Hex(), rec.TrainerID.Hex(), rec.Plan.ProteinGoal, rec.Plan.CalorieGoal,
		raw, string(rec.Plan.Day), rec.UpdatedAt)
	return translate(err)
}
