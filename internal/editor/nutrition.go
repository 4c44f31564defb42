package editor

import (
	"math"
	"sync"

	"fitclub/planner/internal/domain"
)

// NutritionEngine owns the food line items and goals of a nutrition plan.
// Totals are computed from the current foods on every call.
type NutritionEngine struct {
	mu       sync.RWMutex
	plan     domain.NutritionPlan
	onChange func()
}

func NewNutritionEngine() *NutritionEngine {
	return &NutritionEngine{plan: domain.NutritionPlan{Foods: []domain.FoodEntry{}}}
}

// OnChange registers fn to run after every mutation.
func (n *NutritionEngine) OnChange(fn func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.onChange = fn
}

func (n *NutritionEngine) changed() {
	if n.onChange != nil {
		n.onChange()
	}
}

// Hydrate replaces the plan with a copy of p. It does not count as an edit.
func (n *NutritionEngine) Hydrate(p domain.NutritionPlan) {
	n.mu.Lock()
	defer n.mu.Unlock()
	foods := make([]domain.FoodEntry, len(p.Foods))
	copy(foods, p.Foods)
	p.Foods = foods
	n.plan = p
}

// Reset empties the plan without counting as an edit.
func (n *NutritionEngine) Reset() {
	n.Hydrate(domain.NutritionPlan{})
}

// AddFood appends a value copy of food. Duplicates become separate items.
func (n *NutritionEngine) AddFood(food domain.FoodEntry) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.plan.Foods = append(n.plan.Foods, food)
	n.changed()
}

// RemoveFood deletes the item at index; out-of-range indexes are ignored.
func (n *NutritionEngine) RemoveFood(index int) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if index < 0 || index >= len(n.plan.Foods) {
		return false
	}
	foods := make([]domain.FoodEntry, 0, len(n.plan.Foods)-1)
	foods = append(foods, n.plan.Foods[:index]...)
	n.plan.Foods = append(foods, n.plan.Foods[index+1:]...)
	n.changed()
	return true
}

// SetGoals updates the protein and calorie goals.
func (n *NutritionEngine) SetGoals(protein, calories float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.plan.ProteinGoal = protein
	n.plan.CalorieGoal = calories
	n.changed()
}

// SetDay selects the day the plan is saved for.
func (n *NutritionEngine) SetDay(day domain.DayKey) error {
	if !day.Valid() {
		return ErrUnknownDay
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.plan.Day = day
	n.changed()
	return nil
}

// Foods returns a copy of the current line items.
func (n *NutritionEngine) Foods() []domain.FoodEntry {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]domain.FoodEntry, len(n.plan.Foods))
	copy(out, n.plan.Foods)
	return out
}

// Plan returns a copy of the whole plan.
func (n *NutritionEngine) Plan() domain.NutritionPlan {
	n.mu.RLock()
	defer n.mu.RUnlock()
	p := n.plan
	p.Foods = make([]domain.FoodEntry, len(n.plan.Foods))
	copy(p.Foods, n.plan.Foods)
	return p
}

// Totals sums the macros over the current foods.
func (n *NutritionEngine) Totals() domain.NutritionTotals {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return domain.SumFoods(n.plan.Foods)
}

// ProteinProgress and CalorieProgress compare the totals against the goals.
func (n *NutritionEngine) ProteinProgress() Progress {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return ComputeProgress(domain.SumFoods(n.plan.Foods).Protein, n.plan.ProteinGoal)
}

func (n *NutritionEngine) CalorieProgress() Progress {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return ComputeProgress(domain.SumFoods(n.plan.Foods).Calories, n.plan.CalorieGoal)
}

// Progress is a goal completion percentage. Capped bounds a progress bar;
// Raw is the uncapped figure shown as text ("113%").
type Progress struct {
	Capped int `json:"capped"`
	Raw    int `json:"raw"`
}

// ComputeProgress returns round(current/goal*100), capped at 100 for the bar.
// A goal that is zero, negative or unset yields zero. Raw saturates at
// math.MaxInt32.
func ComputeProgress(current, goal float64) Progress {
	if goal <= 0 || current <= 0 || math.IsNaN(goal) || math.IsNaN(current) {
		return Progress{}
	}
	r := math.Round(current / goal * 100)
	if r >= math.MaxInt32 {
		return Progress{Capped: 100, Raw: math.MaxInt32}
	}
	raw := int(r)
	return Progress{Capped: min(100, raw), Raw: raw}
}
