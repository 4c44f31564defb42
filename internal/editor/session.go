package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"fitclub/planner/internal/domain"
	"fitclub/planner/internal/gateway"
)

// ErrStaleLoad is returned by Load when a newer Load or Close superseded it.
// Nothing from the stale load was applied.
var ErrStaleLoad = errors.New("load superseded")

// ErrLoadFailed is returned by a save whose plan did not load. The store only
// holds the empty default, so saving it would overwrite the stored plan.
var ErrLoadFailed = errors.New("plan did not load; reload before saving")

// Gateway is the part of the persistence client a session needs.
type Gateway interface {
	HasCredential() bool
	GetClient(ctx context.Context, clientID string) (*domain.ClientProfile, error)
	GetWorkout(ctx context.Context, clientID string) (gateway.Workout, error)
	GetNutrition(ctx context.Context, clientID string) (domain.NutritionPlan, error)
	SaveWorkout(ctx context.Context, req gateway.WorkoutSave) error
	SaveNutrition(ctx context.Context, req gateway.NutritionSave) error
}

// LoadResult reports each sub-fetch of Load independently. A failed fetch
// leaves its store at the empty default.
type LoadResult struct {
	Profile      *domain.ClientProfile
	ProfileErr   error
	WorkoutErr   error
	NutritionErr error
}

// Err joins the sub-fetch errors.
func (r LoadResult) Err() error {
	return errors.Join(r.ProfileErr, r.WorkoutErr, r.NutritionErr)
}

// Status is a point-in-time view of both plans' sync state.
type Status struct {
	ClientID     string
	Workout      State
	Nutrition    State
	WorkoutErr   error
	NutritionErr error
}

// Session is one trainer's editor for one client. It owns its stores.
type Session struct {
	gw        Gateway
	Schedule  *ScheduleStore
	Nutrition *NutritionEngine

	workout   Tracker
	nutrition Tracker

	mu         sync.Mutex
	clientID   string
	generation uint64
	profile    *domain.ClientProfile
	notes      string

	workoutLoadErr   error
	nutritionLoadErr error
}

// NewSession wires fresh stores to their trackers.
func NewSession(gw Gateway) *Session {
	s := &Session{
		gw:        gw,
		Schedule:  NewScheduleStore(),
		Nutrition: NewNutritionEngine(),
	}
	s.Schedule.OnChange(s.workout.MarkDirty)
	s.Nutrition.OnChange(s.nutrition.MarkDirty)
	return s
}

// ClientID returns the client currently being edited.
func (s *Session) ClientID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clientID
}

// Profile returns the loaded client header, if any.
func (s *Session) Profile() *domain.ClientProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// Load fetches the client, the weekly schedule and the nutrition plan
// concurrently and hydrates the stores. Results arriving after a newer Load
// or Close are discarded.
func (s *Session) Load(ctx context.Context, clientID string) (LoadResult, error) {
	if !s.gw.HasCredential() {
		return LoadResult{}, gateway.ErrNoCredential
	}

	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.clientID = clientID
	s.profile = nil
	s.notes = ""
	s.workoutLoadErr = nil
	s.nutritionLoadErr = nil
	s.Schedule.Reset()
	s.Nutrition.Reset()
	s.workout.BeginLoad()
	s.nutrition.BeginLoad()
	s.mu.Unlock()

	var res LoadResult
	var g errgroup.Group
	g.Go(func() error {
		profile, err := s.gw.GetClient(ctx, clientID)
		s.apply(gen, func() {
			res.ProfileErr = err
			if err == nil {
				res.Profile = profile
				s.profile = profile
			}
		})
		return nil
	})
	g.Go(func() error {
		w, err := s.gw.GetWorkout(ctx, clientID)
		s.apply(gen, func() {
			res.WorkoutErr = err
			s.workoutLoadErr = err
			if err == nil {
				s.Schedule.Hydrate(w.Schedule)
				s.notes = w.Notes
			}
		})
		return nil
	})
	g.Go(func() error {
		plan, err := s.gw.GetNutrition(ctx, clientID)
		if gateway.IsNotFound(err) {
			plan, err = domain.NutritionPlan{}, nil
		}
		s.apply(gen, func() {
			res.NutritionErr = err
			s.nutritionLoadErr = err
			if err == nil {
				s.Nutrition.Hydrate(plan)
			}
		})
		return nil
	})
	// sub-fetch errors are reported per plan in res, never through the group
	_ = g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return LoadResult{}, ErrStaleLoad
	}
	s.workout.FinishLoad()
	s.nutrition.FinishLoad()
	return res, nil
}

func (s *Session) apply(gen uint64, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return
	}
	fn()
}

// Close abandons the session: in-flight loads are discarded and the stores
// are emptied without saving.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.clientID = ""
	s.profile = nil
	s.notes = ""
	s.workoutLoadErr = nil
	s.nutritionLoadErr = nil
	s.Schedule.Reset()
	s.Nutrition.Reset()
	s.workout.Reset()
	s.nutrition.Reset()
}

// Notes returns the notes sent with the workout plan.
func (s *Session) Notes() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notes
}

// SetNotes edits the notes sent with the workout plan.
func (s *Session) SetNotes(notes string) {
	s.mu.Lock()
	s.notes = notes
	s.mu.Unlock()
	s.workout.MarkDirty()
}

// Status returns the sync state of both plans.
func (s *Session) Status() Status {
	s.mu.Lock()
	id := s.clientID
	s.mu.Unlock()
	return Status{
		ClientID:     id,
		Workout:      s.workout.State(),
		Nutrition:    s.nutrition.State(),
		WorkoutErr:   s.workout.LastError(),
		NutritionErr: s.nutrition.LastError(),
	}
}

// SaveWorkout submits the current week. At most one workout save is in
// flight; a second call meanwhile returns ErrSaveInFlight without a request.
// Edits survive a failed save and can be resubmitted. A request that fails
// validation is never sent and leaves the state as it was.
func (s *Session) SaveWorkout(ctx context.Context) error {
	if !s.gw.HasCredential() {
		return gateway.ErrNoCredential
	}
	if err := s.loadFailure(&s.workoutLoadErr); err != nil {
		return err
	}
	token, err := s.workout.BeginSave()
	if err != nil {
		return err
	}
	s.mu.Lock()
	req := gateway.WorkoutSave{
		ClientID:    s.clientID,
		Notes:       s.notes,
		CurrentWeek: s.Schedule.Snapshot(),
	}
	s.mu.Unlock()
	if err := req.Validate(); err != nil {
		s.workout.CancelSave(token)
		return err
	}

	err = s.gw.SaveWorkout(ctx, req)
	s.workout.FinishSave(token, err)
	return err
}

// SaveNutrition submits the nutrition plan. A plan without a day or with a
// negative goal is rejected before any request is made and its state is left
// unchanged.
func (s *Session) SaveNutrition(ctx context.Context) error {
	if !s.gw.HasCredential() {
		return gateway.ErrNoCredential
	}
	if err := s.loadFailure(&s.nutritionLoadErr); err != nil {
		return err
	}
	token, err := s.nutrition.BeginSave()
	if err != nil {
		return err
	}
	plan := s.Nutrition.Plan()
	s.mu.Lock()
	clientID := s.clientID
	s.mu.Unlock()

	req := gateway.NutritionSave{
		UserID:      clientID,
		ProteinGoal: plan.ProteinGoal,
		CalorieGoal: plan.CalorieGoal,
		Foods:       plan.Foods,
		Day:         plan.Day,
	}
	if err := req.Validate(); err != nil {
		s.nutrition.CancelSave(token)
		return err
	}

	err = s.gw.SaveNutrition(ctx, req)
	s.nutrition.FinishSave(token, err)
	return err
}

func (s *Session) loadFailure(loadErr *error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if *loadErr == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrLoadFailed, *loadErr)
}
