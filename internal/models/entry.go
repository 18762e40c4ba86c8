package models

import "time"

// HabitEntry is one observation of a single habit on a single program day.
// At most one entry exists per (uid, dayIndex, habitId); concurrent uploads
// for the same key are resolved last-writer-wins on UpdatedAt.
type HabitEntry struct {
	// UID is the owning user's ID.
	UID string `json:"uid,omitempty"`

	// DayIndex is the 0-based program day the observation belongs to.
	DayIndex int `json:"dayIndex"`

	// HabitID references an item inside one of the user's categories.
	HabitID string `json:"habitId"`

	// Value is the recorded observation (boolean or count).
	Value HabitValue `json:"value"`

	// UpdatedAt is the client- or server-assigned modification timestamp.
	// It is the sole input to conflict resolution.
	UpdatedAt time.Time `json:"updatedAt"`

	// CreatedAt is fixed at first insertion and never changes afterwards.
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// EntryKey identifies an entry within one user's data set.
type EntryKey struct {
	DayIndex int
	HabitID  string
}

// Key returns the entry's (dayIndex, habitId) identity.
func (e *HabitEntry) Key() EntryKey {
	return EntryKey{DayIndex: e.DayIndex, HabitID: e.HabitID}
}
