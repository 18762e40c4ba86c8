package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/okhalid/habitsync/internal/models"
)

// ListCategories returns the user's categories with their items, ordered by
// sortOrder ascending.
func (s *SQLiteStore) ListCategories(ctx context.Context, uid string) ([]models.HabitCategory, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category_id, name, icon, sort_order, updated_at, created_at
		FROM habit_categories
		WHERE uid = ?
		ORDER BY sort_order, category_id`, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.HabitCategory
	for rows.Next() {
		var (
			c       models.HabitCategory
			updated int64
			created int64
		)
		if err := rows.Scan(&c.CategoryID, &c.Name, &c.Icon, &c.SortOrder, &updated, &created); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		c.UID = uid
		c.UpdatedAt = time.UnixMilli(updated).UTC()
		c.CreatedAt = time.UnixMilli(created).UTC()
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	// Attach items per category
	for i := range categories {
		items, err := s.listCategoryItems(ctx, uid, categories[i].CategoryID)
		if err != nil {
			return nil, err
		}
		categories[i].Items = items
	}

	return categories, nil
}

func (s *SQLiteStore) listCategoryItems(ctx context.Context, uid, categoryID string) ([]models.HabitItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT item_id, label, item_type
		FROM category_items
		WHERE uid = ? AND category_id = ?
		ORDER BY position`, uid, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list category items: %w", err)
	}
	defer rows.Close()

	var items []models.HabitItem
	for rows.Next() {
		var item models.HabitItem
		var itemType string
		if err := rows.Scan(&item.ID, &item.Label, &itemType); err != nil {
			return nil, fmt.Errorf("failed to scan category item: %w", err)
		}
		item.Type = models.ValueKind(itemType)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category items: %w", err)
	}

	return items, nil
}
