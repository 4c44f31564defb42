package mongo

import (
	"context"

	"fitclub/planner/internal/domain"
	"fitclub/planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	exerciseCollectionName = "exercises"
	foodCollectionName     = "foods"
)

// mongoCatalogRepository implements repository.CatalogRepository
type mongoCatalogRepository struct {
	exercises *mongo.Collection
	foods     *mongo.Collection
}

// NewMongoCatalogRepository creates a catalog repository backed by MongoDB.
func NewMongoCatalogRepository(db *mongo.Database) repository.CatalogRepository {
	return &mongoCatalogRepository{
		exercises: db.Collection(exerciseCollectionName),
		foods:     db.Collection(foodCollectionName),
	}
}

// ListExercises returns the exercise catalog in insertion order.
func (r *mongoCatalogRepository) ListExercises(ctx context.Context) ([]domain.CatalogExercise, error) {
	var out []domain.CatalogExercise
	if err := findAll(ctx, r.exercises, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListFoods returns the food catalog in insertion order.
func (r *mongoCatalogRepository) ListFoods(ctx context.Context) ([]domain.FoodEntry, error) {
	var out []domain.FoodEntry
	if err := findAll(ctx, r.foods, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpsertExercises inserts or replaces exercises by name.
func (r *mongoCatalogRepository) UpsertExercises(ctx context.Context, items []domain.CatalogExercise) error {
	models := make([]mongo.WriteModel, 0, len(items))
	for _, it := range items {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"name": it.Name}).
			SetReplacement(it).
			SetUpsert(true))
	}
	return bulkWrite(ctx, r.exercises, models)
}

// UpsertFoods inserts or replaces foods by name.
func (r *mongoCatalogRepository) UpsertFoods(ctx context.Context, items []domain.FoodEntry) error {
	models := make([]mongo.WriteModel, 0, len(items))
	for _, it := range items {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"name": it.Name}).
			SetReplacement(it).
			SetUpsert(true))
	}
	return bulkWrite(ctx, r.foods, models)
}

func findAll(ctx context.Context, collection *mongo.Collection, out interface{}) error {
	// Natural order keeps the seed file's ordering for the catalog UI
	cursor, err := collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "$natural", Value: 1}}))
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	if err = cursor.All(ctx, out); err != nil {
		return err
	}
	return cursor.Err()
}

func bulkWrite(ctx context.Context, collection *mongo.Collection, models []mongo.WriteModel) error {
	if len(models) == 0 {
		return nil
	}
	_, err := collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true))
	return err
}

// EnsureCatalogIndexes creates necessary indexes for the catalog collections.
func EnsureCatalogIndexes(ctx context.Context, db *mongo.Database) error {
	for _, name := range []string{exerciseCollectionName, foodCollectionName} {
		_, err := db.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return err
		}
	}
	return nil
}
