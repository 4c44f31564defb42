package catalog

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"

	"fitclub/planner/internal/domain"
)

func names[T Item](items []T) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.DisplayName())
	}
	return out
}

func TestFilter(t *testing.T) {
	list := []domain.CatalogExercise{
		{Name: "Bench Press", Category: "Chest"},
		{Name: "Curl", Category: "Arms"},
		{Name: "Leg Press", Category: "Legs"},
		{Name: "Incline Press", Category: "Chest"},
	}

	tests := []struct {
		name     string
		query    string
		category string
		want     []string
	}{
		{"empty query all", "", All, []string{"Bench Press", "Curl", "Leg Press", "Incline Press"}},
		{"case insensitive substring", "PRE", All, []string{"Bench Press", "Leg Press", "Incline Press"}},
		{"category only", "", "Chest", []string{"Bench Press", "Incline Press"}},
		{"query and category", "leg", "Chest", []string{}},
		{"substring not token", "ncl", All, []string{"Incline Press"}},
		{"unknown category", "", "Back", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slices.Collect(Filter(list, tt.query, tt.category))
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestFilter_SimplePress(t *testing.T) {
	list := []domain.CatalogExercise{{Name: "Press"}, {Name: "Curl"}}
	assert.Equal(t, []string{"Press"}, names(slices.Collect(Filter(list, "pre", All))))
}

func TestFilter_Foods(t *testing.T) {
	foods := []domain.FoodEntry{
		{Name: "Chicken Breast", Category: "Protein"},
		{Name: "Brown Rice", Category: "Carbs"},
	}
	got := slices.Collect(Filter(foods, "rice", All))
	assert.Equal(t, []string{"Brown Rice"}, names(got))
}

func TestFilter_StopsEarly(t *testing.T) {
	list := []domain.CatalogExercise{{Name: "A"}, {Name: "B"}, {Name: "C"}}
	var seen []string
	for ex := range Filter(list, "", All) {
		seen = append(seen, ex.Name)
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"A", "B"}, seen)
}

func TestCategories(t *testing.T) {
	list := []domain.FoodEntry{{Category: "Protein"}, {Category: "Carbs"}, {Category: "Protein"}, {}}
	assert.Equal(t, []string{All, "Protein", "Carbs"}, Categories(list))
}

func TestRepsSeed(t *testing.T) {
	tests := map[string]string{
		"8-10 reps":       "8",
		"30 seconds":      "30",
		"AMRAP":           "10",
		"":                "10",
		"max 12":          "12",
		"1.5 minutes":     "1",
		"each side x 15":  "15",
	}
	for in, want := range tests {
		assert.Equal(t, want, RepsSeed(in), in)
	}
}

func TestNewEntry(t *testing.T) {
	got := NewEntry(domain.CatalogExercise{Name: "Bench Press", DefaultSets: "4", DefaultRepsOrDuration: "8-10 reps"})
	assert.Equal(t, domain.ExerciseEntry{Name: "Bench Press", Sets: "4", Reps: "8", Weight: ""}, got)

	got = NewEntry(domain.CatalogExercise{Name: "Plank", DefaultRepsOrDuration: "hold"})
	assert.Equal(t, domain.ExerciseEntry{Name: "Plank", Sets: "3", Reps: "10"}, got)
}
