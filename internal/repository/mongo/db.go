package mongo

import (
	"context"
	"fmt"
	"time"

	"fitclub/planner/internal/repository"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB and verifies it with a ping.
func ConnectDB(ctx context.Context, uri string) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}
	return client, nil
}

// NewStore connects to uri and wires every repository onto database dbName.
func NewStore(ctx context.Context, uri, dbName string) (*repository.Store, error) {
	client, err := ConnectDB(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	db := client.Database(dbName)
	log.Info().Str("database", dbName).Msg("connected to MongoDB")

	return &repository.Store{
		Users:     NewMongoUserRepository(db),
		Workouts:  NewMongoWorkoutPlanRepository(db),
		Nutrition: NewMongoNutritionPlanRepository(db),
		Catalog:   NewMongoCatalogRepository(db),
		Close: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
			defer cancel()
			return client.Disconnect(ctx)
		},
		EnsureIndexes: func(ctx context.Context) error {
			return EnsureIndexes(ctx, db)
		},
	}, nil
}

// EnsureIndexes creates the indexes of every collection. Call during startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if err := EnsureUserIndexes(ctx, db.Collection(userCollectionName)); err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}
	if err := EnsureWorkoutPlanIndexes(ctx, db.Collection(workoutPlanCollectionName)); err != nil {
		return fmt.Errorf("workout plan indexes: %w", err)
	}
	if err := EnsureNutritionPlanIndexes(ctx, db.Collection(nutritionPlanCollectionName)); err != nil {
		return fmt.Errorf("nutrition plan indexes: %w", err)
	}
	if err := EnsureCatalogIndexes(ctx, db); err != nil {
		return fmt.Errorf("catalog indexes: %w", err)
	}
	return nil
}
