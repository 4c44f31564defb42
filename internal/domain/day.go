package domain

import "strings"

// DayKey identifies one of the seven days that structure a weekly schedule.
type DayKey string

const (
	Monday    DayKey = "Monday"
	Tuesday   DayKey = "Tuesday"
	Wednesday DayKey = "Wednesday"
	Thursday  DayKey = "Thursday"
	Friday    DayKey = "Friday"
	Saturday  DayKey = "Saturday"
	Sunday    DayKey = "Sunday"
)

// Week lists every DayKey in display order.
var Week = [7]DayKey{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Index returns the position of d within Week, or -1 for an unknown key.
func (d DayKey) Index() int {
	for i, k := range Week {
		if k == d {
			return i
		}
	}
	return -1
}

// Valid reports whether d is one of the seven weekday identifiers.
func (d DayKey) Valid() bool {
	return d.Index() >= 0
}

// ParseDayKey accepts a day name in any case ("monday", "MON" is not accepted).
func ParseDayKey(s string) (DayKey, bool) {
	s = strings.TrimSpace(s)
	for _, k := range Week {
		if strings.EqualFold(string(k), s) {
			return k, true
		}
	}
	return "", false
}
