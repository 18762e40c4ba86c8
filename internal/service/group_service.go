package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okhalid/habitsync/internal/errs"
	"github.com/okhalid/habitsync/internal/models"
	"github.com/okhalid/habitsync/internal/storage"
)

// inviteCodeAlphabet excludes easily-confused characters (I, O, 0, 1).
const inviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const inviteCodeLength = 6

// DefaultGroupEmoji is used when a group is created without one.
const DefaultGroupEmoji = "👥"

// MemberProfile is the public subset of a user shown in group views.
type MemberProfile struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
}

// MemberProgress is the admin-only per-day breakdown of one member's
// progress on the group's tracked habits.
type MemberProgress struct {
	Member     MemberProfile                        `json:"member"`
	Categories []models.GroupCategory               `json:"categories"`
	DayMap     map[int]map[string]models.HabitValue `json:"dayMap"`
}

// GroupService manages shared habit groups: creation, membership via invite
// codes, the group-scoped leaderboard and the admin progress view.
type GroupService struct {
	store       storage.Store
	leaderboard *LeaderboardService
}

// NewGroupService creates a new GroupService with the given storage backend
// and leaderboard ranker.
func NewGroupService(store storage.Store, leaderboard *LeaderboardService) *GroupService {
	return &GroupService{store: store, leaderboard: leaderboard}
}

// Create creates a group administered by uid. The admin is always a member.
func (s *GroupService) Create(ctx context.Context, uid, name, emoji string) (*models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: group name is required", errs.ErrValidation)
	}
	if emoji == "" {
		emoji = DefaultGroupEmoji
	}

	now := time.Now().Unix()
	group := &models.Group{
		ID:         uuid.New().String(),
		Name:       name,
		Emoji:      emoji,
		AdminUID:   uid,
		MemberUIDs: []string{uid},
		Categories: []models.GroupCategory{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	// Invite codes are random and short, so retry a few times on collision;
	// the store's uniqueness constraint is the final arbiter.
	var err error
	for attempt := 0; attempt < 10; attempt++ {
		group.InviteCode, err = generateInviteCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate invite code: %w", err)
		}
		err = s.store.CreateGroup(ctx, group)
		if err == nil || !errors.Is(err, errs.ErrConflict) {
			break
		}
	}
	if err != nil {
		if errors.Is(err, errs.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", errs.ErrStore, err)
	}

	slog.Info("Group created", "group_id", group.ID, "admin_uid", uid)
	return group, nil
}

// MyGroups returns every group the user is a member of.
func (s *GroupService) MyGroups(ctx context.Context, uid string) ([]models.Group, error) {
	groups, err := s.store.ListGroupsByMember(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStore, err)
	}
	if groups == nil {
		groups = []models.Group{}
	}
	return groups, nil
}

// Get returns the group; the caller must be a member.
func (s *GroupService) Get(ctx context.Context, uid, groupID string) (*models.Group, error) {
	return s.memberGroup(ctx, uid, groupID)
}

// Join adds uid to the group matching the invite code. Codes are
// case-insensitive. Joining a group the user already belongs to fails with a
// conflict, as does losing a race with another redeemer of the same membership.
func (s *GroupService) Join(ctx context.Context, uid, inviteCode string) (*models.Group, error) {
	code := strings.ToUpper(strings.TrimSpace(inviteCode))
	if code == "" {
		return nil, fmt.Errorf("%w: invite code is required", errs.ErrValidation)
	}

	group, err := s.store.GetGroupByInviteCode(ctx, code)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, fmt.Errorf("invite code: %w", errs.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %v", errs.ErrStore, err)
	}

	if group.IsMember(uid) {
		return nil, fmt.Errorf("%w: already a member", errs.ErrConflict)
	}

	if err := s.store.AddGroupMember(ctx, group.ID, uid); err != nil {
		if errors.Is(err, errs.ErrConflict) {
			return nil, fmt.Errorf("%w: already a member", errs.ErrConflict)
		}
		return nil, fmt.Errorf("%w: %v", errs.ErrStore, err)
	}

	slog.Info("User joined group", "group_id", group.ID, "uid", uid)
	return s.store.GetGroup(ctx, group.ID)
}

// Leave removes a non-admin member from the group. The admin cannot leave
// and must delete the group instead.
func (s *GroupService) Leave(ctx context.Context, uid, groupID string) error {
	group, err := s.memberGroup(ctx, uid, groupID)
	if err != nil {
		return err
	}
	if group.AdminUID == uid {
		return fmt.Errorf("%w: the admin cannot leave the group, delete it instead", errs.ErrForbidden)
	}

	if err := s.store.RemoveGroupMember(ctx, groupID, uid); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrStore, err)
	}

	slog.Info("User left group", "group_id", groupID, "uid", uid)
	return nil
}

// Delete removes the group entirely. Admin only.
func (s *GroupService) Delete(ctx context.Context, uid, groupID string) error {
	if _, err := s.adminGroup(ctx, uid, groupID); err != nil {
		return err
	}
	if err := s.store.DeleteGroup(ctx, groupID); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrStore, err)
	}
	slog.Info("Group deleted", "group_id", groupID, "admin_uid", uid)
	return nil
}

// UpdateInfo renames or re-emojis the group. Admin only; empty values leave
// the current ones in place.
func (s *GroupService) UpdateInfo(ctx context.Context, uid, groupID, name, emoji string) (*models.Group, error) {
	if _, err := s.adminGroup(ctx, uid, groupID); err != nil {
		return nil, err
	}

	if err := s.store.UpdateGroupInfo(ctx, groupID, strings.TrimSpace(name), emoji); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStore, err)
	}
	return s.store.GetGroup(ctx, groupID)
}

// UpdateCategories replaces the group's tracked habit categories. Admin only.
// The flattened item IDs of these categories define what counts toward the
// group leaderboard.
func (s *GroupService) UpdateCategories(ctx context.Context, uid, groupID string, categories []models.GroupCategory) (*models.Group, error) {
	if _, err := s.adminGroup(ctx, uid, groupID); err != nil {
		return nil, err
	}

	for i, c := range categories {
		if c.CategoryID == "" {
			return nil, fmt.Errorf("%w: categories[%d].categoryId is required", errs.ErrValidation, i)
		}
		for j, item := range c.Items {
			if item.ID == "" {
				return nil, fmt.Errorf("%w: categories[%d].items[%d].id is required", errs.ErrValidation, i, j)
			}
			if !item.Type.Valid() {
				return nil, fmt.Errorf("%w: categories[%d].items[%d].type is invalid", errs.ErrValidation, i, j)
			}
		}
	}

	if err := s.store.UpdateGroupCategories(ctx, groupID, categories); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStore, err)
	}

	slog.Info("Group categories updated", "group_id", groupID, "categories", len(categories))
	return s.store.GetGroup(ctx, groupID)
}

// Leaderboard ranks the group's members over its tracked habits. Any current
// member may view it.
func (s *GroupService) Leaderboard(ctx context.Context, uid, groupID string, page, pageSize int) (*models.Leaderboard, error) {
	group, err := s.memberGroup(ctx, uid, groupID)
	if err != nil {
		return nil, err
	}
	return s.leaderboard.ForGroup(ctx, group, uid, page, pageSize)
}

// Progress returns the per-day breakdown of one member's entries on the
// group's tracked habits. Admin only.
func (s *GroupService) Progress(ctx context.Context, uid, groupID, memberUID string) (*MemberProgress, error) {
	group, err := s.adminGroup(ctx, uid, groupID)
	if err != nil {
		return nil, err
	}
	if !group.IsMember(memberUID) {
		return nil, fmt.Errorf("group member: %w", errs.ErrNotFound)
	}

	entries, err := s.store.ListEntriesByHabits(ctx, memberUID, group.HabitIDs())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStore, err)
	}

	dayMap := make(map[int]map[string]models.HabitValue)
	for i := range entries {
		e := &entries[i]
		if dayMap[e.DayIndex] == nil {
			dayMap[e.DayIndex] = make(map[string]models.HabitValue)
		}
		dayMap[e.DayIndex][e.HabitID] = e.Value
	}

	profile := MemberProfile{UID: memberUID, DisplayName: "Unknown User"}
	if member, err := s.store.GetUserByID(ctx, memberUID); err == nil && member != nil {
		profile.DisplayName = member.DisplayName
		profile.PhotoURL = member.PhotoURL
	}

	categories := group.Categories
	if categories == nil {
		categories = []models.GroupCategory{}
	}

	return &MemberProgress{
		Member:     profile,
		Categories: categories,
		DayMap:     dayMap,
	}, nil
}

// memberGroup loads the group and verifies uid is a member.
func (s *GroupService) memberGroup(ctx context.Context, uid, groupID string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", errs.ErrStore, err)
	}
	if !group.IsMember(uid) {
		return nil, fmt.Errorf("%w: not a member of this group", errs.ErrForbidden)
	}
	return group, nil
}

// adminGroup loads the group and verifies uid is its admin.
func (s *GroupService) adminGroup(ctx context.Context, uid, groupID string) (*models.Group, error) {
	group, err := s.memberGroup(ctx, uid, groupID)
	if err != nil {
		return nil, err
	}
	if group.AdminUID != uid {
		return nil, fmt.Errorf("%w: admin only", errs.ErrForbidden)
	}
	return group, nil
}

// generateInviteCode returns a random 6-character code.
func generateInviteCode() (string, error) {
	buf := make([]byte, inviteCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	code := make([]byte, inviteCodeLength)
	for i, b := range buf {
		code[i] = inviteCodeAlphabet[int(b)%len(inviteCodeAlphabet)]
	}
	return string(code), nil
}
