// Package memory keeps every repository in process memory. It backs the
// test suites and a database-less development server.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"fitclub/planner/internal/domain"
	"fitclub/planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewStore returns a Store whose repositories share nothing with any other Store.
func NewStore() *repository.Store {
	return &repository.Store{
		Users:     NewUserRepository(),
		Workouts:  NewWorkoutPlanRepository(),
		Nutrition: NewNutritionPlanRepository(),
		Catalog:   NewCatalogRepository(),
		Close:     func(context.Context) error { return nil },
	}
}

// --- Users ---

type userRepository struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]domain.User
}

func NewUserRepository() repository.UserRepository {
	return &userRepository{users: make(map[primitive.ObjectID]domain.User)}
}

func (r *userRepository) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = cloneUser(*user)
	return user.ID, nil
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			out := cloneUser(u)
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := cloneUser(u)
	return &out, nil
}

func (r *userRepository) AddClientIDToTrainer(_ context.Context, trainerID, clientID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.users[trainerID]
	if !ok || !t.IsTrainer() {
		return repository.ErrNotFound
	}
	if !t.ManagesClient(clientID) {
		t.ClientIDs = append(t.ClientIDs, clientID)
	}
	t.UpdatedAt = time.Now().UTC()
	r.users[trainerID] = t
	return nil
}

func (r *userRepository) GetClientsByTrainerID(_ context.Context, trainerID primitive.ObjectID) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.users[trainerID]
	if !ok || !t.IsTrainer() {
		return nil, repository.ErrNotFound
	}
	clients := []domain.User{}
	for _, id := range t.ClientIDs {
		if c, ok := r.users[id]; ok {
			clients = append(clients, cloneUser(c))
		}
	}
	sort.SliceStable(clients, func(i, j int) bool { return clients[i].Name < clients[j].Name })
	return clients, nil
}

func (r *userRepository) SetTrainerForClient(_ context.Context, clientID, trainerID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.users[clientID]
	if !ok || !c.IsClient() {
		return repository.ErrNotFound
	}
	tid := trainerID
	c.TrainerID = &tid
	c.UpdatedAt = time.Now().UTC()
	r.users[clientID] = c
	return nil
}

func cloneUser(u domain.User) domain.User {
	if u.ClientIDs != nil {
		u.ClientIDs = append([]primitive.ObjectID(nil), u.ClientIDs...)
	}
	if u.TrainerID != nil {
		tid := *u.TrainerID
		u.TrainerID = &tid
	}
	return u
}

// --- Plans ---

type workoutPlanRepository struct {
	mu    sync.RWMutex
	plans map[primitive.ObjectID]domain.WorkoutPlan
}

func NewWorkoutPlanRepository() repository.WorkoutPlanRepository {
	return &workoutPlanRepository{plans: make(map[primitive.ObjectID]domain.WorkoutPlan)}
}

func (r *workoutPlanRepository) GetByClientID(_ context.Context, clientID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plans[clientID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p.Schedule = p.Schedule.Clone()
	return &p, nil
}

func (r *workoutPlanRepository) Upsert(_ context.Context, plan *domain.WorkoutPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	plan.UpdatedAt = time.Now().UTC()
	stored := *plan
	stored.Schedule = plan.Schedule.Clone()
	r.plans[plan.ClientID] = stored
	return nil
}

type nutritionPlanRepository struct {
	mu    sync.RWMutex
	plans map[primitive.ObjectID]domain.NutritionRecord
}

func NewNutritionPlanRepository() repository.NutritionPlanRepository {
	return &nutritionPlanRepository{plans: make(map[primitive.ObjectID]domain.NutritionRecord)}
}

func (r *nutritionPlanRepository) GetByClientID(_ context.Context, clientID primitive.ObjectID) (*domain.NutritionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.plans[clientID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	rec.Plan.Foods = append([]domain.FoodEntry{}, rec.Plan.Foods...)
	return &rec, nil
}

func (r *nutritionPlanRepository) Upsert(_ context.Context, rec *domain.NutritionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec.UpdatedAt = time.Now().UTC()
	stored := *rec
	stored.Plan.Foods = append([]domain.FoodEntry{}, rec.Plan.Foods...)
	r.plans[rec.ClientID] = stored
	return nil
}

// --- Catalog ---

type catalogRepository struct {
	mu        sync.RWMutex
	exercises []domain.CatalogExercise
	foods     []domain.FoodEntry
}

func NewCatalogRepository() repository.CatalogRepository {
	return &catalogRepository{}
}

func (r *catalogRepository) ListExercises(context.Context) ([]domain.CatalogExercise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.CatalogExercise{}, r.exercises...), nil
}

func (r *catalogRepository) ListFoods(context.Context) ([]domain.FoodEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.FoodEntry{}, r.foods...), nil
}

func (r *catalogRepository) UpsertExercises(_ context.Context, items []domain.CatalogExercise) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exercises = upsertByName(r.exercises, items, func(e domain.CatalogExercise) string { return e.Name })
	return nil
}

func (r *catalogRepository) UpsertFoods(_ context.Context, items []domain.FoodEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.foods = upsertByName(r.foods, items, func(f domain.FoodEntry) string { return f.Name })
	return nil
}

// upsertByName replaces entries in place and appends unseen names, keeping list order.
func upsertByName[T any](list, items []T, name func(T) string) []T {
	pos := make(map[string]int, len(list))
	for i, it := range list {
		pos[name(it)] = i
	}
	for _, it := range items {
		if i, ok := pos[name(it)]; ok {
			list[i] = it
			continue
		}
		pos[name(it)] = len(list)
		list = append(list, it)
	}
	return list
}
