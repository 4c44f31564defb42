package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Macro is a non-negative gram or kcal amount. Decoding never fails:
// numbers and numeric strings are accepted, anything else becomes zero.
type Macro float64

func (m *Macro) UnmarshalJSON(b []byte) error {
	*m = 0
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	var raw interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return nil
	}
	*m = Macro(f)
	return nil
}

// Text is a free-form field that tolerates numbers and null in payloads.
// Trainers may type anything into sets/reps/weight, so the value stays a string.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	*t = ""
	var raw interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}
	switch v := raw.(type) {
	case string:
		*t = Text(v)
	case float64:
		*t = Text(strconv.FormatFloat(v, 'f', -1, 64))
	case bool:
		*t = Text(strconv.FormatBool(v))
	}
	return nil
}
