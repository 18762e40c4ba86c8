package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/okhalid/habitsync/internal/errs"
	"github.com/okhalid/habitsync/internal/models"
)

// CreateGroup persists a new group with its members and categories.
// Returns an error wrapping errs.ErrConflict if the invite code is taken.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO groups (id, name, emoji, admin_uid, invite_code, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		group.ID, group.Name, group.Emoji, group.AdminUID, group.InviteCode, group.CreatedAt, group.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("invite code %s: %w", group.InviteCode, errs.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	now := time.Now().Unix()
	for _, uid := range group.MemberUIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO group_members (group_id, uid, joined_at) VALUES (?, ?, ?)",
			group.ID, uid, now,
		); err != nil {
			return fmt.Errorf("failed to insert group member: %w", err)
		}
	}

	if err := insertGroupCategories(ctx, tx, group.ID, group.Categories); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetGroup retrieves a group by ID, including members and categories.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return s.getGroup(ctx, "id = ?", groupID)
}

// GetGroupByInviteCode retrieves a group by its invite code.
func (s *SQLiteStore) GetGroupByInviteCode(ctx context.Context, code string) (*models.Group, error) {
	return s.getGroup(ctx, "invite_code = ?", code)
}

func (s *SQLiteStore) getGroup(ctx context.Context, where string, arg any) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, emoji, admin_uid, invite_code, created_at, updated_at FROM groups WHERE "+where,
		arg,
	).Scan(&group.ID, &group.Name, &group.Emoji, &group.AdminUID, &group.InviteCode, &group.CreatedAt, &group.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("group: %w", errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	if err := s.loadGroupDetails(ctx, group); err != nil {
		return nil, err
	}

	return group, nil
}

// loadGroupDetails populates members (in join order) and categories.
func (s *SQLiteStore) loadGroupDetails(ctx context.Context, group *models.Group) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT uid FROM group_members WHERE group_id = ? ORDER BY joined_at, uid",
		group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()

	group.MemberUIDs = nil
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			return fmt.Errorf("failed to scan group member: %w", err)
		}
		group.MemberUIDs = append(group.MemberUIDs, uid)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating group members: %w", err)
	}

	categories, err := s.listGroupCategories(ctx, group.ID)
	if err != nil {
		return err
	}
	group.Categories = categories
	return nil
}

func (s *SQLiteStore) listGroupCategories(ctx context.Context, groupID string) ([]models.GroupCategory, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category_id, name, icon, sort_order
		FROM group_categories
		WHERE group_id = ?
		ORDER BY sort_order, category_id`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list group categories: %w", err)
	}
	defer rows.Close()

	var categories []models.GroupCategory
	for rows.Next() {
		var c models.GroupCategory
		if err := rows.Scan(&c.CategoryID, &c.Name, &c.Icon, &c.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan group category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating group categories: %w", err)
	}

	for i := range categories {
		itemRows, err := s.db.QueryContext(ctx, `
			SELECT item_id, label, item_type
			FROM group_category_items
			WHERE group_id = ? AND category_id = ?
			ORDER BY position`, groupID, categories[i].CategoryID)
		if err != nil {
			return nil, fmt.Errorf("failed to list group category items: %w", err)
		}

		for itemRows.Next() {
			var item models.HabitItem
			var itemType string
			if err := itemRows.Scan(&item.ID, &item.Label, &itemType); err != nil {
				itemRows.Close()
				return nil, fmt.Errorf("failed to scan group category item: %w", err)
			}
			item.Type = models.ValueKind(itemType)
			categories[i].Items = append(categories[i].Items, item)
		}
		itemRows.Close()
		if err := itemRows.Err(); err != nil {
			return nil, fmt.Errorf("error iterating group category items: %w", err)
		}
	}

	return categories, nil
}

// ListGroupsByMember returns every group the user belongs to, oldest first.
func (s *SQLiteStore) ListGroupsByMember(ctx context.Context, uid string) ([]models.Group, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id, g.name, g.emoji, g.admin_uid, g.invite_code, g.created_at, g.updated_at
		FROM groups g
		JOIN group_members m ON m.group_id = g.id
		WHERE m.uid = ?
		ORDER BY g.created_at, g.id`, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []models.Group
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Emoji, &g.AdminUID, &g.InviteCode, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating groups: %w", err)
	}

	for i := range groups {
		if err := s.loadGroupDetails(ctx, &groups[i]); err != nil {
			return nil, err
		}
	}

	return groups, nil
}

// UpdateGroupInfo updates name and emoji; empty values keep the stored field.
func (s *SQLiteStore) UpdateGroupInfo(ctx context.Context, groupID, name, emoji string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE groups
		SET name       = CASE WHEN ? = '' THEN name ELSE ? END,
		    emoji      = CASE WHEN ? = '' THEN emoji ELSE ? END,
		    updated_at = unixepoch()
		WHERE id = ?`,
		name, name, emoji, emoji, groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("group %s: %w", groupID, errs.ErrNotFound)
	}
	return nil
}

// UpdateGroupCategories replaces the group's tracked categories wholesale.
func (s *SQLiteStore) UpdateGroupCategories(ctx context.Context, groupID string, categories []models.GroupCategory) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Items follow via ON DELETE CASCADE.
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM group_categories WHERE group_id = ?", groupID,
	); err != nil {
		return fmt.Errorf("failed to clear group categories: %w", err)
	}

	if err := insertGroupCategories(ctx, tx, groupID, categories); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE groups SET updated_at = unixepoch() WHERE id = ?", groupID,
	); err != nil {
		return fmt.Errorf("failed to touch group: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func insertGroupCategories(ctx context.Context, tx *sql.Tx, groupID string, categories []models.GroupCategory) error {
	for _, c := range categories {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO group_categories (group_id, category_id, name, icon, sort_order)
			VALUES (?, ?, ?, ?, ?)`,
			groupID, c.CategoryID, c.Name, c.Icon, c.SortOrder,
		); err != nil {
			return fmt.Errorf("failed to insert group category %s: %w", c.CategoryID, err)
		}
		for pos, item := range c.Items {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO group_category_items (group_id, category_id, position, item_id, label, item_type)
				VALUES (?, ?, ?, ?, ?, ?)`,
				groupID, c.CategoryID, pos, item.ID, item.Label, string(item.Type),
			); err != nil {
				return fmt.Errorf("failed to insert group category item %s: %w", item.ID, err)
			}
		}
	}
	return nil
}

// AddGroupMember adds a user to the group. Adding an existing member returns
// an error wrapping errs.ErrConflict.
func (s *SQLiteStore) AddGroupMember(ctx context.Context, groupID, uid string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO group_members (group_id, uid, joined_at) VALUES (?, ?, ?)",
		groupID, uid, time.Now().Unix(),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("member %s: %w", uid, errs.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to add group member: %w", err)
	}
	return nil
}

// RemoveGroupMember removes a user from the group.
func (s *SQLiteStore) RemoveGroupMember(ctx context.Context, groupID, uid string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM group_members WHERE group_id = ? AND uid = ?",
		groupID, uid,
	)
	if err != nil {
		return fmt.Errorf("failed to remove group member: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("member %s: %w", uid, errs.ErrNotFound)
	}
	return nil
}

// DeleteGroup removes the group; members and categories follow via cascade.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, groupID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", groupID)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("group %s: %w", groupID, errs.ErrNotFound)
	}
	return nil
}
