// internal/repository/mongo/nutrition_plan_repo.go
package mongo

import (
	"context"
	"errors"
	"time"

	"fitclub/planner/internal/domain"
	"fitclub/planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const nutritionPlanCollectionName = "nutrition_plans"

type nutritionPlanDocument struct {
	ClientID    primitive.ObjectID `bson:"clientId"`
	TrainerID   primitive.ObjectID `bson:"trainerId"`
	ProteinGoal float64            `bson:"proteinGoal"`
	CalorieGoal float64            `bson:"calorieGoal"`
	Foods       []domain.FoodEntry `bson:"foods"`
	Day         string             `bson:"day"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

// mongoNutritionPlanRepository implements repository.NutritionPlanRepository
type mongoNutritionPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoNutritionPlanRepository creates a new nutrition plan repository.
func NewMongoNutritionPlanRepository(db *mongo.Database) repository.NutritionPlanRepository {
	return &mongoNutritionPlanRepository{
		collection: db.Collection(nutritionPlanCollectionName),
	}
}

// GetByClientID retrieves the nutrition plan of a client.
func (r *mongoNutritionPlanRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID) (*domain.NutritionRecord, error) {
	var doc nutritionPlanDocument
	err := r.collection.FindOne(ctx, bson.M{"clientId": clientID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	foods := doc.Foods
	if foods == nil {
		foods = []domain.FoodEntry{}
	}
	day, _ := domain.ParseDayKey(doc.Day)
	return &domain.NutritionRecord{
		ClientID:  doc.ClientID,
		TrainerID: doc.TrainerID,
		Plan: domain.NutritionPlan{
			ProteinGoal: doc.ProteinGoal,
			CalorieGoal: doc.CalorieGoal,
			Foods:       foods,
			Day:         day,
		},
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

// Upsert replaces the nutrition plan of rec.ClientID, creating it when absent.
func (r *mongoNutritionPlanRepository) Upsert(ctx context.Context, rec *domain.NutritionRecord) error {
	if rec.ClientID == primitive.NilObjectID || rec.TrainerID == primitive.NilObjectID {
		return errors.New("nutrition plan requires clientId and trainerId")
	}
	rec.UpdatedAt = time.Now().UTC()
	doc := nutritionPlanDocument{
		ClientID:    rec.ClientID,
		TrainerID:   rec.TrainerID,
		ProteinGoal: rec.Plan.ProteinGoal,
		CalorieGoal: rec.Plan.CalorieGoal,
		Foods:       rec.Plan.Foods,
		Day:         string(rec.Plan.Day),
		UpdatedAt:   rec.UpdatedAt,
	}
	_, err := r.collection.ReplaceOne(ctx, bson.M{"clientId": rec.ClientID}, doc, options.Replace().SetUpsert(true))
	return err
}

// EnsureNutritionPlanIndexes creates necessary indexes. Call during startup.
func EnsureNutritionPlanIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "clientId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
