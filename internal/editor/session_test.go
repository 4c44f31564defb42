package editor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitclub/planner/internal/domain"
	"fitclub/planner/internal/gateway"
)

type fakeGateway struct {
	noCredential bool

	profile      *domain.ClientProfile
	profileErr   error
	schedule     domain.WeeklySchedule
	notes        string
	scheduleErr  error
	nutrition    domain.NutritionPlan
	nutritionErr error

	// block, when set, holds each call until released.
	block chan struct{}

	saveErr        error
	workoutSaves   int32
	nutritionSaves int32
	lastWorkout    gateway.WorkoutSave
	lastNutrition  gateway.NutritionSave
	mu             sync.Mutex
}

func (f *fakeGateway) wait() {
	if f.block != nil {
		<-f.block
	}
}

func (f *fakeGateway) HasCredential() bool { return !f.noCredential }

func (f *fakeGateway) GetClient(ctx context.Context, id string) (*domain.ClientProfile, error) {
	f.wait()
	return f.profile, f.profileErr
}

func (f *fakeGateway) GetWorkout(ctx context.Context, id string) (gateway.Workout, error) {
	f.wait()
	return gateway.Workout{Schedule: f.schedule, Notes: f.notes}, f.scheduleErr
}

func (f *fakeGateway) GetNutrition(ctx context.Context, id string) (domain.NutritionPlan, error) {
	f.wait()
	return f.nutrition, f.nutritionErr
}

func (f *fakeGateway) SaveWorkout(ctx context.Context, req gateway.WorkoutSave) error {
	atomic.AddInt32(&f.workoutSaves, 1)
	f.wait()
	f.mu.Lock()
	f.lastWorkout = req
	f.mu.Unlock()
	return f.saveErr
}

func (f *fakeGateway) SaveNutrition(ctx context.Context, req gateway.NutritionSave) error {
	atomic.AddInt32(&f.nutritionSaves, 1)
	f.wait()
	f.mu.Lock()
	f.lastNutrition = req
	f.mu.Unlock()
	return f.saveErr
}

func loadedSession(t *testing.T, gw *fakeGateway) *Session {
	t.Helper()
	s := NewSession(gw)
	_, err := s.Load(context.Background(), "client-1")
	require.NoError(t, err)
	return s
}

func TestSession_LoadHydratesStores(t *testing.T) {
	gw := &fakeGateway{
		profile:  &domain.ClientProfile{FullName: "Jane Doe"},
		schedule: domain.ScheduleFromMap(map[domain.DayKey][]domain.ExerciseEntry{domain.Monday: {{Name: "Squat", Sets: "5", Reps: "5"}}}),
		notes:    "no running",
		nutrition: domain.NutritionPlan{
			ProteinGoal: 150,
			Foods:       []domain.FoodEntry{{Name: "Egg", Protein: 6}},
			Day:         domain.Monday,
		},
	}
	s := NewSession(gw)
	assert.Equal(t, StateIdle, s.Status().Workout)

	res, err := s.Load(context.Background(), "client-1")
	require.NoError(t, err)
	assert.NoError(t, res.Err())
	assert.Equal(t, "Jane Doe", s.Profile().FullName)
	assert.Len(t, s.Schedule.Day(domain.Monday), 1)
	assert.NotNil(t, s.Schedule.Day(domain.Sunday))
	assert.Equal(t, 6.0, s.Nutrition.Totals().Protein)
	assert.Equal(t, "no running", s.Notes())

	st := s.Status()
	assert.Equal(t, "client-1", st.ClientID)
	assert.Equal(t, StateReady, st.Workout)
	assert.Equal(t, StateReady, st.Nutrition)
}

func TestSession_LoadSubFetchFailureKeepsDefaults(t *testing.T) {
	boom := errors.New("boom")
	gw := &fakeGateway{
		profile:      &domain.ClientProfile{FullName: "Jane"},
		scheduleErr:  boom,
		nutritionErr: &gateway.TransportError{StatusCode: 404},
	}
	s := NewSession(gw)
	res, err := s.Load(context.Background(), "client-1")
	require.NoError(t, err)
	assert.ErrorIs(t, res.WorkoutErr, boom)
	assert.NoError(t, res.NutritionErr, "a never-saved nutrition plan is not an error")
	assert.NoError(t, res.ProfileErr)
	assert.Equal(t, 0, func() int { ws := s.Schedule.Snapshot(); return ws.Total() }())
	assert.Empty(t, s.Nutrition.Foods())
	assert.Equal(t, StateReady, s.Status().Workout)
}

func TestSession_LoadWithoutCredential(t *testing.T) {
	s := NewSession(&fakeGateway{noCredential: true})
	_, err := s.Load(context.Background(), "client-1")
	assert.ErrorIs(t, err, gateway.ErrNoCredential)
	assert.ErrorIs(t, s.SaveWorkout(context.Background()), gateway.ErrNoCredential)
}

func TestSession_StaleLoadDiscarded(t *testing.T) {
	gw := &fakeGateway{
		block:    make(chan struct{}),
		profile:  &domain.ClientProfile{FullName: "Old Client"},
		schedule: domain.ScheduleFromMap(map[domain.DayKey][]domain.ExerciseEntry{domain.Monday: {{Name: "Squat"}}}),
	}
	s := NewSession(gw)

	done := make(chan error, 1)
	go func() {
		_, err := s.Load(context.Background(), "old")
		done <- err
	}()

	// Navigate away before the responses arrive.
	require.Eventually(t, func() bool { return s.Status().Workout == StateLoading }, timeout, tick)
	s.Close()
	close(gw.block)

	assert.ErrorIs(t, <-done, ErrStaleLoad)
	assert.Nil(t, s.Profile())
	assert.Empty(t, s.Schedule.Day(domain.Monday))
	assert.Equal(t, StateIdle, s.Status().Workout)
}

func TestSession_EditsMarkDirty(t *testing.T) {
	s := loadedSession(t, &fakeGateway{})
	_, err := s.Schedule.AddExercise(domain.Monday, benchPress)
	require.NoError(t, err)
	assert.Equal(t, StateDirty, s.Status().Workout)
	assert.Equal(t, StateReady, s.Status().Nutrition)

	s.Nutrition.AddFood(domain.FoodEntry{Name: "Egg"})
	assert.Equal(t, StateDirty, s.Status().Nutrition)
}

func TestSession_SaveWorkout(t *testing.T) {
	gw := &fakeGateway{}
	s := loadedSession(t, gw)
	_, _ = s.Schedule.AddExercise(domain.Monday, benchPress)
	s.SetNotes("deload week")

	require.NoError(t, s.SaveWorkout(context.Background()))
	assert.Equal(t, StateReady, s.Status().Workout)
	assert.Equal(t, "client-1", gw.lastWorkout.ClientID)
	assert.Equal(t, "deload week", gw.lastWorkout.Notes)
	assert.Len(t, gw.lastWorkout.CurrentWeek.Day(domain.Monday), 1)
	assert.Len(t, gw.lastWorkout.CurrentWeek.Map(), 7)
}

func TestSession_SaveBeforeLoad(t *testing.T) {
	s := NewSession(&fakeGateway{})
	assert.ErrorIs(t, s.SaveWorkout(context.Background()), ErrNotLoaded)
}

func TestSession_SecondSaveWhileInFlightIsRejected(t *testing.T) {
	gw := &fakeGateway{}
	s := loadedSession(t, gw)
	_, _ = s.Schedule.AddExercise(domain.Monday, benchPress)

	gw.block = make(chan struct{})
	first := make(chan error, 1)
	go func() { first <- s.SaveWorkout(context.Background()) }()
	require.Eventually(t, func() bool { return s.Status().Workout == StateSaving }, timeout, tick)

	assert.ErrorIs(t, s.SaveWorkout(context.Background()), ErrSaveInFlight)

	close(gw.block)
	require.NoError(t, <-first)
	assert.Equal(t, int32(1), atomic.LoadInt32(&gw.workoutSaves))
	assert.Equal(t, StateReady, s.Status().Workout)
}

func TestSession_EditDuringSaveStaysDirty(t *testing.T) {
	gw := &fakeGateway{}
	s := loadedSession(t, gw)
	_, _ = s.Schedule.AddExercise(domain.Monday, benchPress)

	gw.block = make(chan struct{})
	first := make(chan error, 1)
	go func() { first <- s.SaveWorkout(context.Background()) }()
	require.Eventually(t, func() bool { return s.Status().Workout == StateSaving }, timeout, tick)

	_, _ = s.Schedule.AddExercise(domain.Tuesday, benchPress)
	assert.Equal(t, StateSaving, s.Status().Workout)

	close(gw.block)
	require.NoError(t, <-first)
	assert.Equal(t, StateDirty, s.Status().Workout)
}

func TestSession_FailedSaveKeepsEdits(t *testing.T) {
	gw := &fakeGateway{saveErr: &gateway.TransportError{StatusCode: 500, Message: "Database unavailable"}}
	s := loadedSession(t, gw)
	_, _ = s.Schedule.AddExercise(domain.Monday, benchPress)

	err := s.SaveWorkout(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Database unavailable", gateway.UserMessage(err))
	st := s.Status()
	assert.Equal(t, StateError, st.Workout)
	assert.Equal(t, err, st.WorkoutErr)
	assert.Len(t, s.Schedule.Day(domain.Monday), 1)

	_, _ = s.Schedule.UpdateField(domain.Monday, 0, FieldWeight, "60")
	assert.Equal(t, StateDirty, s.Status().Workout)

	gw.saveErr = nil
	require.NoError(t, s.SaveWorkout(context.Background()))
	assert.Equal(t, StateReady, s.Status().Workout)
	assert.Equal(t, domain.Text("60"), gw.lastWorkout.CurrentWeek.Day(domain.Monday)[0].Weight)
	assert.Equal(t, int32(2), atomic.LoadInt32(&gw.workoutSaves))
}

func TestSession_SaveNutritionRequiresDay(t *testing.T) {
	gw := &fakeGateway{}
	s := loadedSession(t, gw)
	s.Nutrition.AddFood(domain.FoodEntry{Name: "Egg", Protein: 6})

	err := s.SaveNutrition(context.Background())
	var verr *gateway.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, int32(0), atomic.LoadInt32(&gw.nutritionSaves))
	assert.Equal(t, StateDirty, s.Status().Nutrition)

	require.NoError(t, s.Nutrition.SetDay(domain.Wednesday))
	s.Nutrition.SetGoals(140, 2200)
	require.NoError(t, s.SaveNutrition(context.Background()))
	assert.Equal(t, gateway.NutritionSave{
		UserID:      "client-1",
		ProteinGoal: 140,
		CalorieGoal: 2200,
		Foods:       []domain.FoodEntry{{Name: "Egg", Protein: 6}},
		Day:         domain.Wednesday,
	}, gw.lastNutrition)
	assert.Equal(t, StateReady, s.Status().Nutrition)
}

func TestSession_PlansSaveIndependently(t *testing.T) {
	gw := &fakeGateway{nutrition: domain.NutritionPlan{Day: domain.Monday}}
	s := loadedSession(t, gw)

	gw.block = make(chan struct{})
	first := make(chan error, 1)
	go func() { first <- s.SaveWorkout(context.Background()) }()
	require.Eventually(t, func() bool { return s.Status().Workout == StateSaving }, timeout, tick)

	second := make(chan error, 1)
	go func() { second <- s.SaveNutrition(context.Background()) }()
	require.Eventually(t, func() bool { return s.Status().Nutrition == StateSaving }, timeout, tick)

	close(gw.block)
	assert.NoError(t, <-first)
	assert.NoError(t, <-second)
}

func TestTracker_States(t *testing.T) {
	var tr Tracker
	assert.Equal(t, "idle", tr.State().String())
	tr.BeginLoad()
	tr.FinishLoad()
	assert.Equal(t, StateReady, tr.State())

	tok, err := tr.BeginSave()
	require.NoError(t, err)
	tr.FinishSave(tok+1, nil)
	assert.Equal(t, StateSaving, tr.State(), "unknown token is ignored")
	tr.FinishSave(tok, errors.New("x"))
	assert.Equal(t, StateError, tr.State())
	tr.MarkDirty()
	assert.Equal(t, StateDirty, tr.State())
}

func TestTracker_EditDuringLoadIsDirty(t *testing.T) {
	var tr Tracker
	tr.BeginLoad()
	tr.MarkDirty()
	tr.FinishLoad()
	assert.Equal(t, StateDirty, tr.State())
}

func TestTracker_CancelSave(t *testing.T) {
	var tr Tracker
	tr.BeginLoad()
	tr.FinishLoad()

	tok, err := tr.BeginSave()
	require.NoError(t, err)
	tr.CancelSave(tok)
	assert.Equal(t, StateReady, tr.State())

	tr.MarkDirty()
	tok, err = tr.BeginSave()
	require.NoError(t, err)
	tr.CancelSave(tok)
	assert.Equal(t, StateDirty, tr.State())

	tr.FinishSave(tok, errors.New("x"))
	tok, err = tr.BeginSave()
	require.NoError(t, err)
	tr.MarkDirty()
	tr.CancelSave(tok)
	assert.Equal(t, StateDirty, tr.State(), "edits made meanwhile are not lost")
}

func TestSession_SaveAfterFailedLoadIsRefused(t *testing.T) {
	gw := &fakeGateway{
		schedule:    domain.ScheduleFromMap(map[domain.DayKey][]domain.ExerciseEntry{domain.Friday: {{Name: "Squat"}}}),
		scheduleErr: &gateway.TransportError{StatusCode: 500, Message: "Database unavailable"},
		nutrition:   domain.NutritionPlan{Day: domain.Monday},
	}
	s := loadedSession(t, gw)
	_, err := s.Schedule.AddExercise(domain.Monday, benchPress)
	require.NoError(t, err)

	err = s.SaveWorkout(context.Background())
	assert.ErrorIs(t, err, ErrLoadFailed)
	assert.Equal(t, int32(0), atomic.LoadInt32(&gw.workoutSaves))
	assert.Equal(t, StateDirty, s.Status().Workout)

	// the other plan loaded and still saves
	require.NoError(t, s.SaveNutrition(context.Background()))
	assert.Equal(t, int32(1), atomic.LoadInt32(&gw.nutritionSaves))

	gw.scheduleErr = nil
	_, err = s.Load(context.Background(), "client-1")
	require.NoError(t, err)
	require.NoError(t, s.SaveWorkout(context.Background()))
	assert.Len(t, gw.lastWorkout.CurrentWeek.Day(domain.Friday), 1)
}

func TestSession_SaveNutritionNegativeGoal(t *testing.T) {
	gw := &fakeGateway{}
	s := loadedSession(t, gw)
	require.NoError(t, s.Nutrition.SetDay(domain.Tuesday))
	s.Nutrition.SetGoals(-5, 2000)

	err := s.SaveNutrition(context.Background())
	var verr *gateway.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "proteinGoal must not be negative", verr.Message)
	assert.Equal(t, int32(0), atomic.LoadInt32(&gw.nutritionSaves))
	st := s.Status()
	assert.Equal(t, StateDirty, st.Nutrition)
	assert.NoError(t, st.NutritionErr)

	s.Nutrition.SetGoals(5, 2000)
	require.NoError(t, s.SaveNutrition(context.Background()))
	assert.Equal(t, StateReady, s.Status().Nutrition)
}

func TestSession_EditDuringNutritionSaveStaysDirty(t *testing.T) {
	gw := &fakeGateway{nutrition: domain.NutritionPlan{Day: domain.Monday}}
	s := loadedSession(t, gw)
	s.Nutrition.AddFood(domain.FoodEntry{Name: "Egg", Protein: 6})

	gw.block = make(chan struct{})
	first := make(chan error, 1)
	go func() { first <- s.SaveNutrition(context.Background()) }()
	require.Eventually(t, func() bool { return atomic.LoadInt32(&gw.nutritionSaves) == 1 }, timeout, tick)

	s.Nutrition.AddFood(domain.FoodEntry{Name: "Oats", Protein: 13})
	assert.Equal(t, StateSaving, s.Status().Nutrition)

	close(gw.block)
	require.NoError(t, <-first)
	assert.Equal(t, StateDirty, s.Status().Nutrition)
	assert.Len(t, gw.lastNutrition.Foods, 1)
}
