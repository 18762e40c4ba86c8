package models

// GroupCategory is a category definition owned by a group rather than a user.
// The flattened item IDs across all group categories define which habits
// count toward the group leaderboard.
type GroupCategory struct {
	CategoryID string      `json:"categoryId"`
	Name       string      `json:"name"`
	Icon       string      `json:"icon"`
	Items      []HabitItem `json:"items"`
	SortOrder  int         `json:"sortOrder"`
}

// Group is a shared habit group. The admin is always a member; membership
// grows via invite-code redemption and shrinks via voluntary leave (non-admin
// only) or group deletion (admin only).
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group.
	Name string `json:"name"`

	// Emoji is the group's display emoji.
	Emoji string `json:"emoji"`

	// AdminUID is the user who created the group and administers it.
	AdminUID string `json:"adminUid"`

	// MemberUIDs lists every member, admin included.
	MemberUIDs []string `json:"memberUids"`

	// InviteCode is a short unique code other users redeem to join.
	InviteCode string `json:"inviteCode"`

	// Categories are the group-tracked habit categories.
	Categories []GroupCategory `json:"categories"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"createdAt"`

	// UpdatedAt is the Unix timestamp of the last group change.
	UpdatedAt int64 `json:"updatedAt"`
}

// IsMember reports whether uid is a current member of the group.
func (g *Group) IsMember(uid string) bool {
	for _, m := range g.MemberUIDs {
		if m == uid {
			return true
		}
	}
	return false
}

// HabitIDs returns the flattened set of item IDs across all group categories,
// in category sort order. An empty result means no habit counts toward the
// group leaderboard.
func (g *Group) HabitIDs() []string {
	var ids []string
	for _, cat := range g.Categories {
		for _, item := range cat.Items {
			ids = append(ids, item.ID)
		}
	}
	return ids
}
