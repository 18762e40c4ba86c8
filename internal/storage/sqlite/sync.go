package sqlite

import (
	"context"
	"fmt"

	"github.com/okhalid/habitsync/internal/models"
)

// ApplySync applies one merged sync batch in a single transaction: accepted
// entries and categories are upserted, omitted categories are deleted.
// The caller (the merge coordinator) has already decided winners; this method
// only guarantees all-or-nothing application.
func (s *SQLiteStore) ApplySync(ctx context.Context, uid string, entries []models.HabitEntry, categories []models.HabitCategory, deleteCategoryIDs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range entries {
		e := &entries[i]
		kind, num := encodeValue(e.Value)
		// created_at is fixed at first insertion; conflicts only touch the
		// value and updated_at.
		_, err = tx.ExecContext(ctx, `
			INSERT INTO habit_entries (uid, day_index, habit_id, value_kind, value_num, updated_at, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (uid, day_index, habit_id) DO UPDATE SET
				value_kind = excluded.value_kind,
				value_num  = excluded.value_num,
				updated_at = excluded.updated_at`,
			uid, e.DayIndex, e.HabitID, kind, num, e.UpdatedAt.UnixMilli(), e.CreatedAt.UnixMilli(),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert entry (%d, %s): %w", e.DayIndex, e.HabitID, err)
		}
	}

	for i := range categories {
		c := &categories[i]
		_, err = tx.ExecContext(ctx, `
			INSERT INTO habit_categories (uid, category_id, name, icon, sort_order, updated_at, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (uid, category_id) DO UPDATE SET
				name       = excluded.name,
				icon       = excluded.icon,
				sort_order = excluded.sort_order,
				updated_at = excluded.updated_at`,
			uid, c.CategoryID, c.Name, c.Icon, c.SortOrder, c.UpdatedAt.UnixMilli(), c.CreatedAt.UnixMilli(),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert category %s: %w", c.CategoryID, err)
		}

		// Items are replaced wholesale with the incoming order.
		if _, err = tx.ExecContext(ctx,
			"DELETE FROM category_items WHERE uid = ? AND category_id = ?",
			uid, c.CategoryID,
		); err != nil {
			return fmt.Errorf("failed to clear items of category %s: %w", c.CategoryID, err)
		}
		for pos, item := range c.Items {
			if _, err = tx.ExecContext(ctx, `
				INSERT INTO category_items (uid, category_id, position, item_id, label, item_type)
				VALUES (?, ?, ?, ?, ?, ?)`,
				uid, c.CategoryID, pos, item.ID, item.Label, string(item.Type),
			); err != nil {
				return fmt.Errorf("failed to insert item %s of category %s: %w", item.ID, c.CategoryID, err)
			}
		}
	}

	for _, categoryID := range deleteCategoryIDs {
		// category_items rows follow via ON DELETE CASCADE.
		if _, err = tx.ExecContext(ctx,
			"DELETE FROM habit_categories WHERE uid = ? AND category_id = ?",
			uid, categoryID,
		); err != nil {
			return fmt.Errorf("failed to delete category %s: %w", categoryID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ResetUserData deletes all entries and categories for the user. A reset for
// a user with no data is a no-op success.
func (s *SQLiteStore) ResetUserData(ctx context.Context, uid string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM habit_entries WHERE uid = ?", uid); err != nil {
		return fmt.Errorf("failed to delete entries: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM habit_categories WHERE uid = ?", uid); err != nil {
		return fmt.Errorf("failed to delete categories: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
