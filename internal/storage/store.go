// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/okhalid/habitsync/internal/models"
)

// Store defines the keyed document store the sync and leaderboard engines
// run against. This abstraction allows swapping storage backends (SQLite,
// PostgreSQL, etc.) without changing the service layer.
//
// Not-found conventions: user lookups return (nil, nil) when the user does
// not exist; group lookups return an error wrapping errs.ErrNotFound.
// Uniqueness violations (email, invite code) return errors wrapping
// errs.ErrConflict.
type Store interface {
	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email address.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by UID.
	GetUserByID(ctx context.Context, uid string) (*models.User, error)

	// GetUsersByIDs retrieves multiple users keyed by UID. Users that do not
	// exist are omitted from the result.
	GetUsersByIDs(ctx context.Context, uids []string) (map[string]*models.User, error)

	// UpdateUserProfile updates display name and photo URL. Empty values
	// leave the stored field unchanged.
	UpdateUserProfile(ctx context.Context, uid, displayName, photoURL string) error

	// SetLeaderboardVisibility flips the user's global-leaderboard opt-out.
	SetLeaderboardVisibility(ctx context.Context, uid string, visible bool) error

	// ListLeaderboardUIDs returns the UIDs of all users with
	// showOnLeaderboard enabled, in account-creation order.
	ListLeaderboardUIDs(ctx context.Context) ([]string, error)

	// ListEntries returns every habit entry for the user.
	ListEntries(ctx context.Context, uid string) ([]models.HabitEntry, error)

	// ListEntriesByHabits returns the user's entries restricted to the given
	// habit IDs. An empty habitIDs set matches nothing.
	ListEntriesByHabits(ctx context.Context, uid string, habitIDs []string) ([]models.HabitEntry, error)

	// ListCategories returns the user's categories ordered by sortOrder
	// ascending.
	ListCategories(ctx context.Context, uid string) ([]models.HabitCategory, error)

	// ApplySync applies one merged sync batch in a single transaction:
	// upserts the accepted entries (CreatedAt fixed at first insertion),
	// upserts the accepted categories and deletes the named category IDs.
	// Either everything applies or nothing does.
	ApplySync(ctx context.Context, uid string, entries []models.HabitEntry, categories []models.HabitCategory, deleteCategoryIDs []string) error

	// ResetUserData deletes all entries and categories for the user.
	// Resetting a user with no data is a no-op success.
	ResetUserData(ctx context.Context, uid string) error

	// CreateGroup persists a new group with its members and categories.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with members and categories.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// GetGroupByInviteCode retrieves a group by its invite code.
	GetGroupByInviteCode(ctx context.Context, code string) (*models.Group, error)

	// ListGroupsByMember returns every group the user belongs to.
	ListGroupsByMember(ctx context.Context, uid string) ([]models.Group, error)

	// UpdateGroupInfo updates name and emoji. Empty values leave the stored
	// field unchanged.
	UpdateGroupInfo(ctx context.Context, groupID, name, emoji string) error

	// UpdateGroupCategories replaces the group's tracked categories.
	UpdateGroupCategories(ctx context.Context, groupID string, categories []models.GroupCategory) error

	// AddGroupMember adds a user to the group.
	AddGroupMember(ctx context.Context, groupID, uid string) error

	// RemoveGroupMember removes a user from the group.
	RemoveGroupMember(ctx context.Context, groupID, uid string) error

	// DeleteGroup removes the group with its memberships and categories.
	DeleteGroup(ctx context.Context, groupID string) error

	// Close releases any resources held by the store.
	Close() error
}
