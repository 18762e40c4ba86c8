package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/okhalid/habitsync/internal/errs"
	"github.com/okhalid/habitsync/internal/models"
)

// CreateUser inserts a new user into the database.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (uid, email, display_name, photo_url, password_hash, provider, show_on_leaderboard, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.UID,
		user.Email,
		user.DisplayName,
		user.PhotoURL,
		user.PasswordHash,
		user.Provider,
		boolToInt(user.ShowOnLeaderboard),
		user.CreatedAt,
		user.UpdatedAt,
	)

	if isUniqueViolation(err) {
		return fmt.Errorf("email %s: %w", user.Email, errs.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByEmail retrieves a user by their email address.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "email = ?", email)
}

// GetUserByID retrieves a user by their UID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, uid string) (*models.User, error) {
	return s.getUser(ctx, "uid = ?", uid)
}

func (s *SQLiteStore) getUser(ctx context.Context, where string, arg any) (*models.User, error) {
	query := `
		SELECT uid, email, display_name, photo_url, password_hash, provider, show_on_leaderboard, created_at, updated_at
		FROM users
		WHERE ` + where

	user := &models.User{}
	var visible int
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.UID,
		&user.Email,
		&user.DisplayName,
		&user.PhotoURL,
		&user.PasswordHash,
		&user.Provider,
		&visible,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil // User not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.ShowOnLeaderboard = visible != 0
	return user, nil
}

// GetUsersByIDs retrieves multiple users by their UIDs.
// Returns a map of UID to User. Users that don't exist are omitted.
func (s *SQLiteStore) GetUsersByIDs(ctx context.Context, uids []string) (map[string]*models.User, error) {
	users := make(map[string]*models.User)
	if len(uids) == 0 {
		return users, nil
	}

	query := `
		SELECT uid, email, display_name, photo_url, password_hash, provider, show_on_leaderboard, created_at, updated_at
		FROM users
		WHERE uid IN (?` + repeatPlaceholder(len(uids)-1) + `)`

	args := make([]any, len(uids))
	for i, uid := range uids {
		args[i] = uid
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get users by IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		user := &models.User{}
		var visible int
		if err := rows.Scan(
			&user.UID,
			&user.Email,
			&user.DisplayName,
			&user.PhotoURL,
			&user.PasswordHash,
			&user.Provider,
			&visible,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		user.ShowOnLeaderboard = visible != 0
		users[user.UID] = user
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// UpdateUserProfile updates display name and photo URL for a user.
// Empty values leave the stored field unchanged.
func (s *SQLiteStore) UpdateUserProfile(ctx context.Context, uid, displayName, photoURL string) error {
	query := `
		UPDATE users
		SET display_name = CASE WHEN ? = '' THEN display_name ELSE ? END,
		    photo_url    = CASE WHEN ? = '' THEN photo_url ELSE ? END,
		    updated_at   = unixepoch()
		WHERE uid = ?
	`

	res, err := s.db.ExecContext(ctx, query, displayName, displayName, photoURL, photoURL, uid)
	if err != nil {
		return fmt.Errorf("failed to update user profile: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("user %s: %w", uid, errs.ErrNotFound)
	}
	return nil
}

// SetLeaderboardVisibility flips the global leaderboard opt-out flag.
func (s *SQLiteStore) SetLeaderboardVisibility(ctx context.Context, uid string, visible bool) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET show_on_leaderboard = ?, updated_at = unixepoch() WHERE uid = ?",
		boolToInt(visible), uid,
	)
	if err != nil {
		return fmt.Errorf("failed to set leaderboard visibility: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("user %s: %w", uid, errs.ErrNotFound)
	}
	return nil
}

// ListLeaderboardUIDs returns UIDs of users visible on the global
// leaderboard, in account-creation order.
func (s *SQLiteStore) ListLeaderboardUIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT uid FROM users WHERE show_on_leaderboard = 1 ORDER BY created_at, uid",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list leaderboard users: %w", err)
	}
	defer rows.Close()

	var uids []string
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			return nil, fmt.Errorf("failed to scan uid: %w", err)
		}
		uids = append(uids, uid)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaderboard users: %w", err)
	}

	return uids, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
