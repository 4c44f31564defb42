package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

const (
	RoleTrainer Role = "trainer"
	RoleClient  Role = "client"
)

// User represents a user in the system (either a Trainer or a Client).
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // Should be unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	Role         Role               `bson:"role" json:"role"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`

	// --- Trainer-specific ---
	ClientIDs []primitive.ObjectID `bson:"clientIds,omitempty" json:"clientIds,omitempty"`

	// --- Client-specific ---
	TrainerID    *primitive.ObjectID `bson:"trainerId,omitempty" json:"trainerId,omitempty"`
	FitnessGoals string              `bson:"fitnessGoals,omitempty" json:"fitnessGoals,omitempty"`
	Goal         string              `bson:"goal,omitempty" json:"goal,omitempty"`
}

func (u *User) IsTrainer() bool {
	return u.Role == RoleTrainer
}

func (u *User) IsClient() bool {
	return u.Role == RoleClient
}

// ManagesClient reports whether clientID is on the trainer's roster.
func (u *User) ManagesClient(clientID primitive.ObjectID) bool {
	for _, id := range u.ClientIDs {
		if id == clientID {
			return true
		}
	}
	return false
}

// ClientProfile is the header shown in a client's plan editor.
type ClientProfile struct {
	FullName     string `json:"full_name"`
	FitnessGoals string `json:"fitness_goals,omitempty"`
	Goal         string `json:"goal,omitempty"`
}
