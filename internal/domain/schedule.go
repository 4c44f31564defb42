package domain

import (
	"encoding/json"
)

// WeeklySchedule maps every DayKey to an ordered list of exercise entries.
// All seven days are always present; an empty day is a rest day.
type WeeklySchedule struct {
	days [7][]ExerciseEntry
}

// NewWeeklySchedule returns a schedule with seven empty days.
func NewWeeklySchedule() WeeklySchedule {
	var s WeeklySchedule
	for i := range s.days {
		s.days[i] = []ExerciseEntry{}
	}
	return s
}

// Day returns a copy of the entries for d. Unknown keys yield an empty list.
func (s *WeeklySchedule) Day(d DayKey) []ExerciseEntry {
	i := d.Index()
	if i < 0 {
		return []ExerciseEntry{}
	}
	out := make([]ExerciseEntry, len(s.days[i]))
	copy(out, s.days[i])
	return out
}

// SetDay replaces the entries of d. A nil slice is stored as empty.
func (s *WeeklySchedule) SetDay(d DayKey, entries []ExerciseEntry) bool {
	i := d.Index()
	if i < 0 {
		return false
	}
	cp := make([]ExerciseEntry, len(entries))
	copy(cp, entries)
	s.days[i] = cp
	return true
}

// Clone returns a deep copy.
func (s *WeeklySchedule) Clone() WeeklySchedule {
	out := NewWeeklySchedule()
	for i, k := range Week {
		out.SetDay(k, s.days[i])
	}
	return out
}

// Map returns the schedule keyed by day name. All seven keys are present.
func (s *WeeklySchedule) Map() map[DayKey][]ExerciseEntry {
	m := make(map[DayKey][]ExerciseEntry, len(Week))
	for _, k := range Week {
		m[k] = s.Day(k)
	}
	return m
}

// Merge copies the known days of m into s. Days missing from m keep their
// current (seeded) value; unknown keys are ignored.
func (s *WeeklySchedule) Merge(m map[DayKey][]ExerciseEntry) {
	for k, entries := range m {
		if entries == nil {
			entries = []ExerciseEntry{}
		}
		s.SetDay(k, entries)
	}
}

// ScheduleFromMap builds a seeded schedule and merges m into it.
func ScheduleFromMap(m map[DayKey][]ExerciseEntry) WeeklySchedule {
	s := NewWeeklySchedule()
	s.Merge(m)
	return s
}

// Total returns the number of entries across all days.
func (s *WeeklySchedule) Total() int {
	n := 0
	for _, d := range s.days {
		n += len(d)
	}
	return n
}

func (s WeeklySchedule) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Map())
}

// UnmarshalJSON merges the payload into a freshly seeded schedule. A payload
// of the wrong shape leaves every day empty instead of failing the decode.
func (s *WeeklySchedule) UnmarshalJSON(b []byte) error {
	*s = NewWeeklySchedule()
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}
	for name, body := range raw {
		day, ok := ParseDayKey(name)
		if !ok {
			continue
		}
		var entries []ExerciseEntry
		if err := json.Unmarshal(body, &entries); err != nil {
			continue
		}
		s.SetDay(day, entries)
	}
	return nil
}
