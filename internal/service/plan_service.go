package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"fitclub/planner/internal/domain"
	"fitclub/planner/internal/repository"
	"fitclub/planner/internal/storage"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrPlanNotFound = errors.New("plan not found")

// ArchiveLinks are presigned URLs of the newest saved snapshots. Empty when
// the plan has never been archived.
type ArchiveLinks struct {
	Workout   string `json:"workout,omitempty"`
	Nutrition string `json:"nutrition,omitempty"`
}

// PlanService reads and writes the plans of clients on a trainer's roster.
// Every method fails with ErrClientNotManaged for other clients.
type PlanService interface {
	GetClientProfile(ctx context.Context, trainerID, clientID primitive.ObjectID) (*domain.ClientProfile, error)
	GetWorkout(ctx context.Context, trainerID, clientID primitive.ObjectID) (*domain.WorkoutPlan, error)
	SaveWorkout(ctx context.Context, trainerID, clientID primitive.ObjectID, notes string, week domain.WeeklySchedule) error
	GetNutrition(ctx context.Context, trainerID, clientID primitive.ObjectID) (*domain.NutritionRecord, error)
	SaveNutrition(ctx context.Context, trainerID, clientID primitive.ObjectID, plan domain.NutritionPlan) error
	ArchiveLinks(ctx context.Context, trainerID, clientID primitive.ObjectID) (ArchiveLinks, error)
}

type planService struct {
	trainers      TrainerService
	workoutRepo   repository.WorkoutPlanRepository
	nutritionRepo repository.NutritionPlanRepository
	archive       storage.PlanArchive
}

// NewPlanService creates a new instance of planService. A nil archive disables snapshots.
func NewPlanService(
	trainers TrainerService,
	workoutRepo repository.WorkoutPlanRepository,
	nutritionRepo repository.NutritionPlanRepository,
	archive storage.PlanArchive,
) PlanService {
	if archive == nil {
		archive = storage.NopArchive{}
	}
	return &planService{
		trainers:      trainers,
		workoutRepo:   workoutRepo,
		nutritionRepo: nutritionRepo,
		archive:       archive,
	}
}

func (s *planService) GetClientProfile(ctx context.Context, trainerID, clientID primitive.ObjectID) (*domain.ClientProfile, error) {
	client, err := s.trainers.ManagedClient(ctx, trainerID, clientID)
	if err != nil {
		return nil, err
	}
	return &domain.ClientProfile{
		FullName:     client.Name,
		FitnessGoals: client.FitnessGoals,
		Goal:         client.Goal,
	}, nil
}

// GetWorkout returns the saved week, or seven empty days for a client never saved.
func (s *planService) GetWorkout(ctx context.Context, trainerID, clientID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	if _, err := s.trainers.ManagedClient(ctx, trainerID, clientID); err != nil {
		return nil, err
	}
	plan, err := s.workoutRepo.GetByClientID(ctx, clientID)
	if errors.Is(err, repository.ErrNotFound) {
		return &domain.WorkoutPlan{
			ClientID:  clientID,
			TrainerID: trainerID,
			Schedule:  domain.NewWeeklySchedule(),
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// SaveWorkout replaces the client's week. Entries are stored as given; names
// are not checked against the catalog.
func (s *planService) SaveWorkout(ctx context.Context, trainerID, clientID primitive.ObjectID, notes string, week domain.WeeklySchedule) error {
	if _, err := s.trainers.ManagedClient(ctx, trainerID, clientID); err != nil {
		return err
	}
	plan := &domain.WorkoutPlan{
		ClientID:  clientID,
		TrainerID: trainerID,
		Notes:     notes,
		Schedule:  week.Clone(),
	}
	if err := s.workoutRepo.Upsert(ctx, plan); err != nil {
		return err
	}
	log.Info().Str("clientId", clientID.Hex()).Int("exercises", plan.Schedule.Total()).Msg("workout plan saved")
	s.snapshot(ctx, storage.KindWorkout, clientID, plan)
	return nil
}

// GetNutrition returns ErrPlanNotFound when the client has no nutrition plan yet.
func (s *planService) GetNutrition(ctx context.Context, trainerID, clientID primitive.ObjectID) (*domain.NutritionRecord, error) {
	if _, err := s.trainers.ManagedClient(ctx, trainerID, clientID); err != nil {
		return nil, err
	}
	rec, err := s.nutritionRepo.GetByClientID(ctx, clientID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPlanNotFound
	}
	return rec, err
}

func (s *planService) SaveNutrition(ctx context.Context, trainerID, clientID primitive.ObjectID, plan domain.NutritionPlan) error {
	if err := validateNutrition(plan); err != nil {
		return err
	}
	if _, err := s.trainers.ManagedClient(ctx, trainerID, clientID); err != nil {
		return err
	}
	if plan.Foods == nil {
		plan.Foods = []domain.FoodEntry{}
	}
	rec := &domain.NutritionRecord{
		ClientID:  clientID,
		TrainerID: trainerID,
		Plan:      plan,
	}
	if err := s.nutritionRepo.Upsert(ctx, rec); err != nil {
		return err
	}
	log.Info().Str("clientId", clientID.Hex()).Int("foods", len(plan.Foods)).Str("day", string(plan.Day)).
		Msg("nutrition plan saved")
	s.snapshot(ctx, storage.KindNutrition, clientID, rec)
	return nil
}

func validateNutrition(plan domain.NutritionPlan) error {
	if !plan.Day.Valid() {
		return fmt.Errorf("%w: day must be a weekday name", ErrValidationFailed)
	}
	for _, g := range []float64{plan.ProteinGoal, plan.CalorieGoal} {
		if g < 0 || math.IsNaN(g) || math.IsInf(g, 0) {
			return fmt.Errorf("%w: goals must be non-negative numbers", ErrValidationFailed)
		}
	}
	return nil
}

// snapshot archives a saved plan. Failures are logged and do not fail the save.
func (s *planService) snapshot(ctx context.Context, kind storage.Kind, clientID primitive.ObjectID, payload any) {
	if _, err := s.archive.Put(ctx, kind, clientID.Hex(), payload); err != nil {
		log.Warn().Err(err).Str("clientId", clientID.Hex()).Str("kind", string(kind)).Msg("plan snapshot not archived")
	}
}

func (s *planService) ArchiveLinks(ctx context.Context, trainerID, clientID primitive.ObjectID) (ArchiveLinks, error) {
	if _, err := s.trainers.ManagedClient(ctx, trainerID, clientID); err != nil {
		return ArchiveLinks{}, err
	}
	var links ArchiveLinks
	for kind, dst := range map[storage.Kind]*string{
		storage.KindWorkout:   &links.Workout,
		storage.KindNutrition: &links.Nutrition,
	} {
		url, err := s.archive.LatestURL(ctx, kind, clientID.Hex(), storage.DefaultPresignedURLExpiry)
		switch {
		case err == nil:
			*dst = url
		case errors.Is(err, storage.ErrObjectNotFound):
		default:
			return ArchiveLinks{}, err
		}
	}
	return links, nil
}
