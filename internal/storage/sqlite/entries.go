package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/okhalid/habitsync/internal/models"
)

// encodeValue flattens a HabitValue into (kind, number) columns.
// Booleans store as 0/1, counts store their value.
func encodeValue(v models.HabitValue) (string, int64) {
	if v.Kind == models.KindBool {
		if v.Bool {
			return string(models.KindBool), 1
		}
		return string(models.KindBool), 0
	}
	return string(models.KindCount), int64(v.Count)
}

// decodeValue rebuilds a HabitValue from its (kind, number) columns.
func decodeValue(kind string, num int64) models.HabitValue {
	if kind == string(models.KindBool) {
		return models.BoolValue(num != 0)
	}
	return models.CountValue(uint32(num))
}

const entryColumns = "day_index, habit_id, value_kind, value_num, updated_at, created_at"

func scanEntry(rows *sql.Rows, uid string) (models.HabitEntry, error) {
	var (
		e       models.HabitEntry
		kind    string
		num     int64
		updated int64
		created int64
	)
	if err := rows.Scan(&e.DayIndex, &e.HabitID, &kind, &num, &updated, &created); err != nil {
		return e, fmt.Errorf("failed to scan entry: %w", err)
	}
	e.UID = uid
	e.Value = decodeValue(kind, num)
	e.UpdatedAt = time.UnixMilli(updated).UTC()
	e.CreatedAt = time.UnixMilli(created).UTC()
	return e, nil
}

// ListEntries returns every habit entry for the user, ordered by day then
// habit ID for deterministic responses.
func (s *SQLiteStore) ListEntries(ctx context.Context, uid string) ([]models.HabitEntry, error) {
	query := "SELECT " + entryColumns + " FROM habit_entries WHERE uid = ? ORDER BY day_index, habit_id"

	rows, err := s.db.QueryContext(ctx, query, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows, uid)
}

// ListEntriesByHabits returns the user's entries restricted to habitIDs.
// An empty habitIDs set matches nothing: a group tracking zero habits must
// score every member at zero, never fall back to their personal entries.
func (s *SQLiteStore) ListEntriesByHabits(ctx context.Context, uid string, habitIDs []string) ([]models.HabitEntry, error) {
	if len(habitIDs) == 0 {
		return nil, nil
	}

	query := "SELECT " + entryColumns + ` FROM habit_entries
		WHERE uid = ? AND habit_id IN (?` + repeatPlaceholder(len(habitIDs)-1) + `)
		ORDER BY day_index, habit_id`

	args := make([]any, 0, len(habitIDs)+1)
	args = append(args, uid)
	for _, id := range habitIDs {
		args = append(args, id)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries by habits: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows, uid)
}

func collectEntries(rows *sql.Rows, uid string) ([]models.HabitEntry, error) {
	var entries []models.HabitEntry
	for rows.Next() {
		e, err := scanEntry(rows, uid)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entries: %w", err)
	}
	return entries, nil
}
