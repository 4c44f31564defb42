package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"fitclub/planner/internal/domain"
	"fitclub/planner/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingArchive keeps the kinds it was asked to store.
type recordingArchive struct {
	mu    sync.Mutex
	puts  []storage.Kind
	fail  error
	links map[storage.Kind]string
}

func (a *recordingArchive) Put(_ context.Context, kind storage.Kind, _ string, _ any) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.fail != nil {
		return "", a.fail
	}
	a.puts = append(a.puts, kind)
	return "key", nil
}

func (a *recordingArchive) LatestURL(_ context.Context, kind storage.Kind, _ string, _ time.Duration) (string, error) {
	if url, ok := a.links[kind]; ok {
		return url, nil
	}
	return "", storage.ErrObjectNotFound
}

func newPlanService(t *testing.T, archive storage.PlanArchive) (*fixture, PlanService) {
	f := newFixture(t)
	trainers := f.rostered(t)
	return f, NewPlanService(trainers, f.store.Workouts, f.store.Nutrition, archive)
}

func TestPlanService_Profile(t *testing.T) {
	f, svc := newPlanService(t, nil)

	profile, err := svc.GetClientProfile(context.Background(), f.trainer.ID, f.client.ID)
	require.NoError(t, err)
	assert.Equal(t, &domain.ClientProfile{FullName: "Carl Client", FitnessGoals: "Run a 10k", Goal: "endurance"}, profile)
}

func TestPlanService_WorkoutNeverSavedHasSevenEmptyDays(t *testing.T) {
	f, svc := newPlanService(t, nil)

	plan, err := svc.GetWorkout(context.Background(), f.trainer.ID, f.client.ID)
	require.NoError(t, err)
	m := plan.Schedule.Map()
	assert.Len(t, m, 7)
	for _, day := range domain.Week {
		assert.Empty(t, m[day])
	}
}

func TestPlanService_SaveWorkout(t *testing.T) {
	archive := &recordingArchive{}
	f, svc := newPlanService(t, archive)
	ctx := context.Background()

	week := domain.NewWeeklySchedule()
	// names outside the catalog are stored as given
	week.SetDay(domain.Tuesday, []domain.ExerciseEntry{{Name: "Sled Push", Sets: "4", Reps: "20m", Weight: "heavy"}})
	require.NoError(t, svc.SaveWorkout(ctx, f.trainer.ID, f.client.ID, "deload next week", week))

	got, err := svc.GetWorkout(ctx, f.trainer.ID, f.client.ID)
	require.NoError(t, err)
	assert.Equal(t, "deload next week", got.Notes)
	assert.Equal(t, []domain.ExerciseEntry{{Name: "Sled Push", Sets: "4", Reps: "20m", Weight: "heavy"}}, got.Schedule.Day(domain.Tuesday))
	assert.Equal(t, []storage.Kind{storage.KindWorkout}, archive.puts)

	// a second save replaces the week
	require.NoError(t, svc.SaveWorkout(ctx, f.trainer.ID, f.client.ID, "", domain.NewWeeklySchedule()))
	got, err = svc.GetWorkout(ctx, f.trainer.ID, f.client.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Schedule.Total())
}

func TestPlanService_Nutrition(t *testing.T) {
	archive := &recordingArchive{}
	f, svc := newPlanService(t, archive)
	ctx := context.Background()

	_, err := svc.GetNutrition(ctx, f.trainer.ID, f.client.ID)
	assert.ErrorIs(t, err, ErrPlanNotFound)

	plan := domain.NutritionPlan{
		ProteinGoal: 150,
		CalorieGoal: 2200,
		Foods:       []domain.FoodEntry{{Name: "Egg", Protein: 6}, {Name: "Egg", Protein: 6}},
		Day:         domain.Friday,
	}
	require.NoError(t, svc.SaveNutrition(ctx, f.trainer.ID, f.client.ID, plan))

	rec, err := svc.GetNutrition(ctx, f.trainer.ID, f.client.ID)
	require.NoError(t, err)
	assert.Equal(t, plan, rec.Plan)
	assert.Equal(t, []storage.Kind{storage.KindNutrition}, archive.puts)
}

func TestPlanService_SaveNutritionValidation(t *testing.T) {
	f, svc := newPlanService(t, nil)
	ctx := context.Background()

	err := svc.SaveNutrition(ctx, f.trainer.ID, f.client.ID, domain.NutritionPlan{ProteinGoal: 100})
	assert.ErrorIs(t, err, ErrValidationFailed)

	err = svc.SaveNutrition(ctx, f.trainer.ID, f.client.ID, domain.NutritionPlan{ProteinGoal: -1, Day: domain.Monday})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestPlanService_OtherTrainersClientIsRejected(t *testing.T) {
	f, svc := newPlanService(t, nil)
	ctx := context.Background()
	rival := f.register(t, "Rita Rival", "rita@gym.io", domain.RoleTrainer)

	_, err := svc.GetWorkout(ctx, rival.ID, f.client.ID)
	assert.ErrorIs(t, err, ErrClientNotManaged)
	err = svc.SaveWorkout(ctx, rival.ID, f.client.ID, "", domain.NewWeeklySchedule())
	assert.ErrorIs(t, err, ErrClientNotManaged)
	err = svc.SaveNutrition(ctx, rival.ID, f.client.ID, domain.NutritionPlan{Day: domain.Monday})
	assert.ErrorIs(t, err, ErrClientNotManaged)
	_, err = svc.GetClientProfile(ctx, rival.ID, f.client.ID)
	assert.ErrorIs(t, err, ErrClientNotManaged)
}

func TestPlanService_ArchiveFailureDoesNotFailSave(t *testing.T) {
	f, svc := newPlanService(t, &recordingArchive{fail: errors.New("bucket gone")})

	err := svc.SaveWorkout(context.Background(), f.trainer.ID, f.client.ID, "", domain.NewWeeklySchedule())
	assert.NoError(t, err)
}

func TestPlanService_ArchiveLinks(t *testing.T) {
	archive := &recordingArchive{links: map[storage.Kind]string{storage.KindWorkout: "https://s3/w"}}
	f, svc := newPlanService(t, archive)

	links, err := svc.ArchiveLinks(context.Background(), f.trainer.ID, f.client.ID)
	require.NoError(t, err)
	assert.Equal(t, ArchiveLinks{Workout: "https://s3/w"}, links)

	_, err = NewPlanService(NewTrainerService(f.store.Users), f.store.Workouts, f.store.Nutrition, nil).
		ArchiveLinks(context.Background(), f.trainer.ID, f.client.ID)
	assert.ErrorIs(t, err, storage.ErrArchiveDisabled)
}
