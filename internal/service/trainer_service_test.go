package service

import (
	"context"
	"testing"

	"fitclub/planner/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrainerService_Roster(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.rostered(t)

	// adding again is a no-op
	again, err := svc.AddClientByEmail(ctx, f.trainer.ID, "carl@gym.io")
	require.NoError(t, err)
	assert.Equal(t, f.client.ID, again.ID)

	clients, err := svc.GetManagedClients(ctx, f.trainer.ID)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "Carl Client", clients[0].Name)
	assert.Empty(t, clients[0].PasswordHash)

	got, err := svc.ManagedClient(ctx, f.trainer.ID, f.client.ID)
	require.NoError(t, err)
	assert.Equal(t, "carl@gym.io", got.Email)
}

func TestTrainerService_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.rostered(t)
	rival := f.register(t, "Rita Rival", "rita@gym.io", domain.RoleTrainer)

	_, err := svc.AddClientByEmail(ctx, rival.ID, "carl@gym.io")
	assert.ErrorIs(t, err, ErrClientAlreadyAssigned)

	_, err = svc.AddClientByEmail(ctx, f.trainer.ID, "rita@gym.io")
	assert.ErrorIs(t, err, ErrClientNotRole)

	_, err = svc.AddClientByEmail(ctx, f.trainer.ID, "ghost@gym.io")
	assert.ErrorIs(t, err, ErrClientNotFound)

	_, err = svc.ManagedClient(ctx, rival.ID, f.client.ID)
	assert.ErrorIs(t, err, ErrClientNotManaged)

	_, err = svc.ManagedClient(ctx, strangerID, f.client.ID)
	assert.ErrorIs(t, err, ErrTrainerNotFound)

	_, err = svc.ManagedClient(ctx, f.trainer.ID, strangerID)
	assert.ErrorIs(t, err, ErrClientNotFound)
}
