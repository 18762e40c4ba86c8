package models

// Auth providers.
const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

// User represents a registered account.
// Users are owned by the auth subsystem; sync and leaderboard code reads them
// but never mutates anything beyond profile fields and the visibility flag.
type User struct {
	// UID is the unique identifier for the user (UUID format).
	UID string `json:"uid"`

	// Email is the user's email address (unique, used for login).
	Email string `json:"email"`

	// DisplayName is the public name shown on leaderboards.
	DisplayName string `json:"displayName"`

	// PhotoURL is the profile picture URL; empty when none is set.
	PhotoURL string `json:"photoURL"`

	// PasswordHash is the bcrypt hash for local accounts; empty for Google
	// sign-in accounts. Never serialized.
	PasswordHash string `json:"-"`

	// Provider records how the account was created: ProviderLocal or
	// ProviderGoogle.
	Provider string `json:"provider"`

	// ShowOnLeaderboard controls inclusion in the global leaderboard.
	// Group leaderboards ignore it, since joining a group is an explicit
	// opt-in.
	ShowOnLeaderboard bool `json:"showOnLeaderboard"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `json:"createdAt"`

	// UpdatedAt is the Unix timestamp of the last profile change.
	UpdatedAt int64 `json:"updatedAt"`
}
