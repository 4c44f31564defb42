// Package editor holds the in-memory state a trainer edits for one client:
// the weekly workout schedule, the nutrition plan, and their sync status.
package editor

import (
	"errors"
	"sync"

	"fitclub/planner/internal/catalog"
	"fitclub/planner/internal/domain"
)

// Field names one of the mutable columns of an exercise entry.
type Field string

const (
	FieldSets   Field = "sets"
	FieldReps   Field = "reps"
	FieldWeight Field = "weight"
)

var (
	ErrUnknownDay   = errors.New("unknown day")
	ErrUnknownField = errors.New("field is not editable")
)

// ParseField maps a column name to a Field. "name" is not editable.
func ParseField(s string) (Field, error) {
	switch f := Field(s); f {
	case FieldSets, FieldReps, FieldWeight:
		return f, nil
	}
	return "", ErrUnknownField
}

// ScheduleStore owns the per-day exercise rows of the current week.
type ScheduleStore struct {
	mu       sync.RWMutex
	schedule domain.WeeklySchedule
	onChange func()
}

// NewScheduleStore returns a store with seven empty days.
func NewScheduleStore() *ScheduleStore {
	return &ScheduleStore{schedule: domain.NewWeeklySchedule()}
}

// OnChange registers fn to run after every mutation that changed state.
func (s *ScheduleStore) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

func (s *ScheduleStore) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}

// Hydrate replaces the store with a copy of ws. It does not count as an edit.
func (s *ScheduleStore) Hydrate(ws domain.WeeklySchedule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedule = ws.Clone()
}

// Reset clears every day without counting as an edit.
func (s *ScheduleStore) Reset() {
	s.Hydrate(domain.NewWeeklySchedule())
}

// AddExercise appends a row seeded from the catalog item. Re-adding the same
// exercise produces an independent row.
func (s *ScheduleStore) AddExercise(day domain.DayKey, item domain.CatalogExercise) (domain.ExerciseEntry, error) {
	if !day.Valid() {
		return domain.ExerciseEntry{}, ErrUnknownDay
	}
	entry := catalog.NewEntry(item)

	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.schedule.Day(day)
	s.schedule.SetDay(day, append(rows, entry))
	s.changed()
	return entry, nil
}

// RemoveExercise deletes the row at index. Out-of-range indexes and unknown
// days are ignored; the return value reports whether a row was removed.
func (s *ScheduleStore) RemoveExercise(day domain.DayKey, index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.schedule.Day(day)
	if index < 0 || index >= len(rows) {
		return false
	}
	s.schedule.SetDay(day, append(rows[:index], rows[index+1:]...))
	s.changed()
	return true
}

// UpdateField replaces sets, reps or weight of the row at index.
// Out-of-range indexes are ignored.
func (s *ScheduleStore) UpdateField(day domain.DayKey, index int, field Field, value string) (bool, error) {
	if _, err := ParseField(string(field)); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.schedule.Day(day)
	if index < 0 || index >= len(rows) {
		return false, nil
	}
	switch field {
	case FieldSets:
		rows[index].Sets = domain.Text(value)
	case FieldReps:
		rows[index].Reps = domain.Text(value)
	case FieldWeight:
		rows[index].Weight = domain.Text(value)
	}
	s.schedule.SetDay(day, rows)
	s.changed()
	return true, nil
}

// ClearDay turns day into a rest day.
func (s *ScheduleStore) ClearDay(day domain.DayKey) error {
	if !day.Valid() {
		return ErrUnknownDay
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedule.SetDay(day, nil)
	s.changed()
	return nil
}

// Day returns a copy of the rows of day.
func (s *ScheduleStore) Day(day domain.DayKey) []domain.ExerciseEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.schedule.Day(day)
}

// Snapshot returns a deep copy of the whole week.
func (s *ScheduleStore) Snapshot() domain.WeeklySchedule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.schedule.Clone()
}
