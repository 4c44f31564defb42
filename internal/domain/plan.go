package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutPlan is the persisted current week of a client.
type WorkoutPlan struct {
	ClientID  primitive.ObjectID `json:"clientId"`
	TrainerID primitive.ObjectID `json:"trainerId"`
	Notes     string             `json:"notes,omitempty"`
	Schedule  WeeklySchedule     `json:"weeklySchedule"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// NutritionRecord is the persisted nutrition plan of a client.
type NutritionRecord struct {
	ClientID  primitive.ObjectID `json:"clientId"`
	TrainerID primitive.ObjectID `json:"trainerId"`
	Plan      NutritionPlan      `json:"plan"`
	UpdatedAt time.Time          `json:"updatedAt"`
}
