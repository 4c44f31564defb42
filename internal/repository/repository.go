package repository

import (
	"context"

	"fitclub/planner/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	AddClientIDToTrainer(ctx context.Context, trainerID, clientID primitive.ObjectID) error
	GetClientsByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error)
	SetTrainerForClient(ctx context.Context, clientID, trainerID primitive.ObjectID) error
}

// WorkoutPlanRepository stores the current week of each client.
type WorkoutPlanRepository interface {
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) (*domain.WorkoutPlan, error)
	Upsert(ctx context.Context, plan *domain.WorkoutPlan) error
}

// NutritionPlanRepository stores the nutrition plan of each client.
type NutritionPlanRepository interface {
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) (*domain.NutritionRecord, error)
	Upsert(ctx context.Context, rec *domain.NutritionRecord) error
}

// CatalogRepository holds the exercise and food reference lists.
type CatalogRepository interface {
	ListExercises(ctx context.Context) ([]domain.CatalogExercise, error)
	ListFoods(ctx context.Context) ([]domain.FoodEntry, error)
	UpsertExercises(ctx context.Context, items []domain.CatalogExercise) error
	UpsertFoods(ctx context.Context, items []domain.FoodEntry) error
}

// Store bundles the repositories of one backend.
type Store struct {
	Users     UserRepository
	Workouts  WorkoutPlanRepository
	Nutrition NutritionPlanRepository
	Catalog   CatalogRepository
	// Close releases the backend's connections.
	Close func(ctx context.Context) error
	// EnsureIndexes prepares the backend schema; may be nil.
	EnsureIndexes func(ctx context.Context) error
}
