package service

import (
	"context"
	"testing"

	"fitclub/planner/internal/domain"
	"fitclub/planner/internal/repository"
	"fitclub/planner/internal/repository/memory"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

type fixture struct {
	store   *repository.Store
	auth    AuthService
	trainer *domain.User
	client  *domain.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{store: store, auth: NewAuthService(store.Users, testSecret, 0)}
	f.trainer = f.register(t, "Tara Trainer", "tara@gym.io", domain.RoleTrainer)
	f.client = f.register(t, "Carl Client", "carl@gym.io", domain.RoleClient)
	return f
}

func (f *fixture) register(t *testing.T, name, email string, role domain.Role) *domain.User {
	t.Helper()
	u, err := f.auth.Register(context.Background(), RegisterInput{
		Name: name, Email: email, Password: "password123", Role: role,
		FitnessGoals: "Run a 10k", Goal: "endurance",
	})
	require.NoError(t, err)
	return u
}

// rostered puts the fixture client on the fixture trainer's roster.
func (f *fixture) rostered(t *testing.T) TrainerService {
	t.Helper()
	svc := NewTrainerService(f.store.Users)
	_, err := svc.AddClientByEmail(context.Background(), f.trainer.ID, f.client.Email)
	require.NoError(t, err)
	return svc
}

var strangerID = primitive.NewObjectID()
