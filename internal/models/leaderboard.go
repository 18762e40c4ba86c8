package models

// LeaderboardEntry is one ranked row of a leaderboard. Entries are derived
// fresh per request and never persisted.
type LeaderboardEntry struct {
	// Rank is 1-based and dense: ties get distinct successive ranks.
	Rank int `json:"rank"`

	// UID identifies the ranked user.
	UID string `json:"uid"`

	// DisplayName and PhotoURL are copied from the user's profile.
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`

	// TotalXP is XPPerHabit times the number of completed habit observations.
	TotalXP int `json:"totalXp"`

	// Streak counts consecutive most-recent days with any completion.
	Streak int `json:"streak"`

	// CompletionRate is completed/total as a two-decimal fraction.
	CompletionRate float64 `json:"completionRate"`
}

// Leaderboard is one page of a ranked population, plus the requesting user's
// position in the full (pre-pagination) ranking.
type Leaderboard struct {
	Entries    []LeaderboardEntry `json:"entries"`
	Page       int                `json:"page"`
	PageSize   int                `json:"pageSize"`
	TotalCount int                `json:"totalCount"`
	TotalPages int                `json:"totalPages"`

	// CurrentUserRank is nil when the requester is absent from the ranking
	// or the request is unauthenticated.
	CurrentUserRank *int `json:"currentUserRank"`
}
