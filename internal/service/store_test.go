package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/okhalid/habitsync/internal/errs"
	"github.com/okhalid/habitsync/internal/models"
	"github.com/okhalid/habitsync/internal/storage"
)

// memStore is an in-memory Store used by the service tests. It mirrors the
// SQLite store's contracts: (nil, nil) for missing users, ErrNotFound for
// missing groups, ErrConflict on uniqueness violations, CreatedAt fixed at
// first insertion.
type memStore struct {
	mu         sync.Mutex
	users      map[string]*models.User
	userOrder  []string
	entries    map[string]map[models.EntryKey]models.HabitEntry
	categories map[string]map[string]models.HabitCategory
	groups     map[string]*models.Group
}

var _ storage.Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		users:      make(map[string]*models.User),
		entries:    make(map[string]map[models.EntryKey]models.HabitEntry),
		categories: make(map[string]map[string]models.HabitCategory),
		groups:     make(map[string]*models.Group),
	}
}

func (m *memStore) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return fmt.Errorf("%w: email already registered", errs.ErrConflict)
		}
	}
	cp := *user
	m.users[user.UID] = &cp
	m.userOrder = append(m.userOrder, user.UID)
	return nil
}

func (m *memStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) GetUserByID(ctx context.Context, uid string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[uid]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) GetUsersByIDs(ctx context.Context, uids []string) (map[string]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]*models.User, len(uids))
	for _, uid := range uids {
		if u, ok := m.users[uid]; ok {
			cp := *u
			out[uid] = &cp
		}
	}
	return out, nil
}

func (m *memStore) UpdateUserProfile(ctx context.Context, uid, displayName, photoURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[uid]
	if !ok {
		return fmt.Errorf("user: %w", errs.ErrNotFound)
	}
	if displayName != "" {
		u.DisplayName = displayName
	}
	if photoURL != "" {
		u.PhotoURL = photoURL
	}
	return nil
}

func (m *memStore) SetLeaderboardVisibility(ctx context.Context, uid string, visible bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[uid]
	if !ok {
		return fmt.Errorf("user: %w", errs.ErrNotFound)
	}
	u.ShowOnLeaderboard = visible
	return nil
}

func (m *memStore) ListLeaderboardUIDs(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var uids []string
	for _, uid := range m.userOrder {
		if m.users[uid].ShowOnLeaderboard {
			uids = append(uids, uid)
		}
	}
	return uids, nil
}

func (m *memStore) ListEntries(ctx context.Context, uid string) ([]models.HabitEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listEntriesLocked(uid, nil), nil
}

func (m *memStore) ListEntriesByHabits(ctx context.Context, uid string, habitIDs []string) ([]models.HabitEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	allowed := make(map[string]bool, len(habitIDs))
	for _, id := range habitIDs {
		allowed[id] = true
	}
	return m.listEntriesLocked(uid, allowed), nil
}

// listEntriesLocked returns the user's entries sorted by (dayIndex, habitId).
// A nil filter means no filter; an empty one matches nothing.
func (m *memStore) listEntriesLocked(uid string, filter map[string]bool) []models.HabitEntry {
	var out []models.HabitEntry
	for _, e := range m.entries[uid] {
		if filter != nil && !filter[e.HabitID] {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DayIndex != out[j].DayIndex {
			return out[i].DayIndex < out[j].DayIndex
		}
		return out[i].HabitID < out[j].HabitID
	})
	return out
}

func (m *memStore) ListCategories(ctx context.Context, uid string) ([]models.HabitCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.HabitCategory
	for _, c := range m.categories[uid] {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].CategoryID < out[j].CategoryID
	})
	return out, nil
}

func (m *memStore) ApplySync(ctx context.Context, uid string, entries []models.HabitEntry, categories []models.HabitCategory, deleteCategoryIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.entries[uid] == nil {
		m.entries[uid] = make(map[models.EntryKey]models.HabitEntry)
	}
	for _, e := range entries {
		if existing, ok := m.entries[uid][e.Key()]; ok {
			e.CreatedAt = existing.CreatedAt
		}
		m.entries[uid][e.Key()] = e
	}

	if m.categories[uid] == nil {
		m.categories[uid] = make(map[string]models.HabitCategory)
	}
	for _, c := range categories {
		if existing, ok := m.categories[uid][c.CategoryID]; ok {
			c.CreatedAt = existing.CreatedAt
		}
		m.categories[uid][c.CategoryID] = c
	}
	for _, id := range deleteCategoryIDs {
		delete(m.categories[uid], id)
	}
	return nil
}

func (m *memStore) ResetUserData(ctx context.Context, uid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, uid)
	delete(m.categories, uid)
	return nil
}

func (m *memStore) CreateGroup(ctx context.Context, group *models.Group) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.groups {
		if g.InviteCode == group.InviteCode {
			return fmt.Errorf("%w: invite code taken", errs.ErrConflict)
		}
	}
	m.groups[group.ID] = copyGroup(group)
	return nil
}

func (m *memStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.groups[groupID]
	if !ok {
		return nil, fmt.Errorf("group: %w", errs.ErrNotFound)
	}
	return copyGroup(g), nil
}

func (m *memStore) GetGroupByInviteCode(ctx context.Context, code string) (*models.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.groups {
		if g.InviteCode == code {
			return copyGroup(g), nil
		}
	}
	return nil, fmt.Errorf("group: %w", errs.ErrNotFound)
}

func (m *memStore) ListGroupsByMember(ctx context.Context, uid string) ([]models.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Group
	for _, g := range m.groups {
		if g.IsMember(uid) {
			out = append(out, *copyGroup(g))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt < out[j].CreatedAt })
	return out, nil
}

func (m *memStore) UpdateGroupInfo(ctx context.Context, groupID, name, emoji string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.groups[groupID]
	if !ok {
		return fmt.Errorf("group: %w", errs.ErrNotFound)
	}
	if name != "" {
		g.Name = name
	}
	if emoji != "" {
		g.Emoji = emoji
	}
	return nil
}

func (m *memStore) UpdateGroupCategories(ctx context.Context, groupID string, categories []models.GroupCategory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.groups[groupID]
	if !ok {
		return fmt.Errorf("group: %w", errs.ErrNotFound)
	}
	g.Categories = append([]models.GroupCategory(nil), categories...)
	return nil
}

func (m *memStore) AddGroupMember(ctx context.Context, groupID, uid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.groups[groupID]
	if !ok {
		return fmt.Errorf("group: %w", errs.ErrNotFound)
	}
	if g.IsMember(uid) {
		return fmt.Errorf("%w: already a member", errs.ErrConflict)
	}
	g.MemberUIDs = append(g.MemberUIDs, uid)
	return nil
}

func (m *memStore) RemoveGroupMember(ctx context.Context, groupID, uid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.groups[groupID]
	if !ok {
		return fmt.Errorf("group: %w", errs.ErrNotFound)
	}
	for i, member := range g.MemberUIDs {
		if member == uid {
			g.MemberUIDs = append(g.MemberUIDs[:i], g.MemberUIDs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("group member: %w", errs.ErrNotFound)
}

func (m *memStore) DeleteGroup(ctx context.Context, groupID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.groups, groupID)
	return nil
}

func (m *memStore) Close() error { return nil }

func copyGroup(g *models.Group) *models.Group {
	cp := *g
	cp.MemberUIDs = append([]string(nil), g.MemberUIDs...)
	cp.Categories = append([]models.GroupCategory(nil), g.Categories...)
	return &cp
}
