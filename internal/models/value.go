package models

import (
	"encoding/json"
	"fmt"
	"math"
)

// ValueKind tags the two habit value variants.
type ValueKind string

const (
	// KindBool is a yes/no habit ("prayed Fajr on time").
	KindBool ValueKind = "boolean"

	// KindCount is a counted habit ("pages of Quran read").
	KindCount ValueKind = "number"
)

// Valid reports whether k is one of the known kinds.
func (k ValueKind) Valid() bool {
	return k == KindBool || k == KindCount
}

// HabitValue is the value recorded for a habit on a day: either a boolean or
// a non-negative count. On the wire it is a bare JSON boolean or number, so
// the variant tag is recovered during unmarshaling.
type HabitValue struct {
	Kind  ValueKind
	Bool  bool
	Count uint32
}

// BoolValue returns a boolean habit value.
func BoolValue(b bool) HabitValue {
	return HabitValue{Kind: KindBool, Bool: b}
}

// CountValue returns a counted habit value.
func CountValue(n uint32) HabitValue {
	return HabitValue{Kind: KindCount, Count: n}
}

// Completed reports whether the value counts as a completed habit:
// true for a boolean, or a count greater than zero. False booleans,
// zero counts and zero values all count as not completed.
func (v HabitValue) Completed() bool {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindCount:
		return v.Count > 0
	default:
		return false
	}
}

// MarshalJSON renders the value as a bare boolean or number.
func (v HabitValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindBool:
		return json.Marshal(v.Bool)
	case KindCount:
		return json.Marshal(v.Count)
	default:
		return nil, fmt.Errorf("habit value has unknown kind %q", v.Kind)
	}
}

// UnmarshalJSON accepts a JSON boolean or a non-negative integral number.
func (v *HabitValue) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*v = BoolValue(b)
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("habit value must be a boolean or a number")
	}
	if n < 0 || n > math.MaxUint32 || n != math.Trunc(n) {
		return fmt.Errorf("habit value must be a non-negative integer")
	}
	*v = CountValue(uint32(n))
	return nil
}
