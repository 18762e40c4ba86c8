package models

import "time"

// HabitItem is a single trackable habit inside a category.
type HabitItem struct {
	// ID is the client-side identifier referenced by HabitEntry.HabitID.
	ID string `json:"id"`

	// Label is the display name of the habit.
	Label string `json:"label"`

	// Type declares which value variant entries for this habit carry.
	Type ValueKind `json:"type"`
}

// HabitCategory is a named, ordered group of habit items owned by a user
// (e.g. "Fajr", "Evening"). At most one category exists per (uid, categoryId).
//
// Categories follow full-replacement sync semantics: the client sends its
// complete category set on every upload, and any stored categoryId absent
// from the upload is deleted server-side.
type HabitCategory struct {
	// UID is the owning user's ID.
	UID string `json:"uid,omitempty"`

	// CategoryID is the client-side identifier (e.g. "fajr").
	CategoryID string `json:"categoryId"`

	// Name is the display name of the category.
	Name string `json:"name"`

	// Icon is the emoji or icon token shown next to the name.
	Icon string `json:"icon"`

	// Items are the habits tracked under this category, in display order.
	Items []HabitItem `json:"items"`

	// SortOrder positions the category among the user's categories.
	SortOrder int `json:"sortOrder"`

	// UpdatedAt drives last-writer-wins conflict resolution, like entries.
	UpdatedAt time.Time `json:"updatedAt"`

	// CreatedAt is fixed at first insertion.
	CreatedAt time.Time `json:"createdAt,omitempty"`
}
