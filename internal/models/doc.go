// Package models defines the core domain models for habitsync.
//
// # Models
//
//   - HabitEntry: one observation of a habit on a program day for a user
//   - HabitCategory: a named, ordered group of habit items a user tracks
//   - User: a registered account (local password or Google sign-in)
//   - Group: a shared habit group with an admin, members and tracked categories
//   - Leaderboard / LeaderboardEntry: derived ranking views, never persisted
//
// # Design Principles
//
//  1. **Client-owned identifiers**: entry and category keys (dayIndex, habitId,
//     categoryId) come from the client so offline devices can create records
//     without coordination. Server-owned records (users, groups) use UUIDs.
//  2. **Explicit value variant**: habit values are either a boolean or a
//     non-negative count. HabitValue carries the variant tag so the "completed"
//     predicate is defined exactly once.
//  3. **Avoid circular references**: relationships use ID strings, not pointers.
//  4. **Timestamps**: entry/category timestamps are time.Time and render as
//     ISO-8601 in JSON; they drive last-writer-wins conflict resolution.
package models
