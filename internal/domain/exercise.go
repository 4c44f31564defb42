package domain

// ExerciseEntry is one row of a day in the weekly schedule. Reps doubles as
// a duration for timed exercises. Name is fixed once the entry is added.
type ExerciseEntry struct {
	Name   string `bson:"name" json:"name"`
	Sets   Text   `bson:"sets" json:"sets"`
	Reps   Text   `bson:"reps" json:"reps"`
	Weight Text   `bson:"weight" json:"weight"`
}

// CatalogExercise is an item of the exercise reference list.
type CatalogExercise struct {
	Name                  string   `bson:"name" json:"name" yaml:"name"`
	Category              string   `bson:"category" json:"category" yaml:"category"`
	DefaultSets           string   `bson:"defaultSets,omitempty" json:"defaultSets,omitempty" yaml:"defaultSets"`
	DefaultRepsOrDuration string   `bson:"defaultRepsOrDuration,omitempty" json:"defaultRepsOrDuration,omitempty" yaml:"defaultRepsOrDuration"`
	TargetMuscles         []string `bson:"targetMuscles,omitempty" json:"targetMuscles,omitempty" yaml:"targetMuscles"`
}

// DisplayName and CategoryName let catalog filtering work over exercises.
func (e CatalogExercise) DisplayName() string  { return e.Name }
func (e CatalogExercise) CategoryName() string { return e.Category }
