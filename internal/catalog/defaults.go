package catalog

import (
	"regexp"

	"fitclub/planner/internal/domain"
)

const (
	// FallbackReps seeds reps when the catalog text carries no number.
	FallbackReps = "10"
	// FallbackSets seeds sets when the catalog item has no default.
	FallbackSets = "3"
)

var digitRun = regexp.MustCompile(`[0-9]+`)

// RepsSeed reduces free-form catalog text ("8-10 reps", "30 seconds") to the
// first run of decimal digits. Ranges keep only their first number.
func RepsSeed(s string) string {
	if m := digitRun.FindString(s); m != "" {
		return m
	}
	return FallbackReps
}

// SetsSeed returns the catalog default verbatim, or FallbackSets when absent.
func SetsSeed(s string) string {
	if s == "" {
		return FallbackSets
	}
	return s
}

// NewEntry builds the schedule row for a freshly picked catalog exercise.
func NewEntry(ex domain.CatalogExercise) domain.ExerciseEntry {
	return domain.ExerciseEntry{
		Name:   ex.Name,
		Sets:   domain.Text(SetsSeed(ex.DefaultSets)),
		Reps:   domain.Text(RepsSeed(ex.DefaultRepsOrDuration)),
		Weight: "",
	}
}
