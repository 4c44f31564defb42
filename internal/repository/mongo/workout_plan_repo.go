// internal/repository/mongo/workout_plan_repo.go
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

const workoutPlanCollectionName = "workout_plans"

// workoutPlanDocument is the stored shape of a client's current week.
// Days are keyed by name so a partially written document still decodes.
type workoutPlanDocument struct {
	ClientID  primitive.ObjectID                `bson:"clientId"`
	TrainerID primitive.ObjectID                `bson:"trainerId"`
	Notes     string                            `bson:"notes,omitempty"`
	Schedule  map[string][]domain.ExerciseEntry `bson:"schedule"`
	UpdatedAt time.Time                         `bson:"updatedAt"`
}

// mongoWorkoutPlanRepository implements repository.WorkoutPlanRepository
type mongoWorkoutPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutPlanRepository creates a new workout plan repository.
func NewMongoWorkoutPlanRepository(db *mongo.Database) repository.WorkoutPlanRepository {
	return &mongoWorkoutPlanRepository{
		collection: db.Collection(workoutPlanCollectionName),
	}
}

// GetByClientID retrieves the saved week of a client.
func (r *mongoWorkoutPlanRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	var doc workoutPlanDocument
	err := r.collection.FindOne(ctx, bson.M{"clientId": clientID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &domain.WorkoutPlan{
		ClientID:  doc.ClientID,
		TrainerID: doc.TrainerID,
		Notes:     doc.Notes,
		Schedule:  scheduleFromDocument(doc.Schedule),
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

// Upsert replaces the saved week of plan.ClientID, creating it when absent.
func (r *mongoWorkoutPlanRepository) Upsert(ctx context.Context, plan *domain.WorkoutPlan) error {
	if plan.ClientID == primitive.NilObjectID || plan.TrainerID == primitive.NilObjectID {
		return errors.New("workout plan requires clientId and trainerId")
	}
	plan.UpdatedAt = time.Now().UTC()
	doc := workoutPlanDocument{
		ClientID:  plan.ClientID,
		TrainerID: plan.TrainerID,
		Notes:     plan.Notes,
		Schedule:  scheduleToDocument(plan.Schedule),
		UpdatedAt: plan.UpdatedAt,
	}
	_, err := r.collection.ReplaceOne(ctx, bson.M{"clientId": plan.ClientID}, doc, options.Replace().SetUpsert(true))
	return err
}

func scheduleToDocument(ws domain.WeeklySchedule) map[string][]domain.ExerciseEntry {
	out := make(map[string][]domain.ExerciseEntry, len(domain.Week))
	for day, entries := range ws.Map() {
		out[string(day)] = entries
	}
	return out
}

func scheduleFromDocument(m map[string][]domain.ExerciseEntry) domain.WeeklySchedule {
	ws := domain.NewWeeklySchedule()
	for name, entries := range m {
		if day, ok := domain.ParseDayKey(name); ok {
			ws.SetDay(day, entries)
		}
	}
	return ws
}

// EnsureWorkoutPlanIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutPlanIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// One current week per client
			Keys:    bson.D{{Key: "clientId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
