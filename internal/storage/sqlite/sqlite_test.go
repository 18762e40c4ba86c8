package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okhalid/habitsync/internal/errs"
	"github.com/okhalid/habitsync/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "habitsync-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testUser(uid, email string) *models.User {
	now := time.Now().Unix()
	return &models.User{
		UID:               uid,
		Email:             email,
		DisplayName:       "Test " + uid,
		Provider:          models.ProviderLocal,
		ShowOnLeaderboard: true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func TestSQLiteStore_Users(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateUser and lookups", func(t *testing.T) {
		if err := store.CreateUser(ctx, testUser("u1", "one@example.com")); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}

		byEmail, err := store.GetUserByEmail(ctx, "one@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if byEmail == nil || byEmail.UID != "u1" {
			t.Fatalf("Expected user u1, got %+v", byEmail)
		}

		byID, err := store.GetUserByID(ctx, "u1")
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if byID == nil || byID.Email != "one@example.com" {
			t.Fatalf("Expected one@example.com, got %+v", byID)
		}
	})

	t.Run("Missing user returns nil without error", func(t *testing.T) {
		user, err := store.GetUserByID(ctx, "nobody")
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if user != nil {
			t.Errorf("Expected nil user, got %+v", user)
		}
	})

	t.Run("Duplicate email conflicts", func(t *testing.T) {
		err := store.CreateUser(ctx, testUser("u2", "one@example.com"))
		if !errors.Is(err, errs.ErrConflict) {
			t.Errorf("Expected ErrConflict, got %v", err)
		}
	})

	t.Run("GetUsersByIDs omits missing", func(t *testing.T) {
		if err := store.CreateUser(ctx, testUser("u3", "three@example.com")); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}

		users, err := store.GetUsersByIDs(ctx, []string{"u1", "u3", "ghost"})
		if err != nil {
			t.Fatalf("GetUsersByIDs failed: %v", err)
		}
		if len(users) != 2 {
			t.Fatalf("Expected 2 users, got %d", len(users))
		}
		if _, ok := users["ghost"]; ok {
			t.Error("Expected ghost to be omitted")
		}
	})

	t.Run("UpdateUserProfile keeps empty fields", func(t *testing.T) {
		if err := store.UpdateUserProfile(ctx, "u1", "Renamed", ""); err != nil {
			t.Fatalf("UpdateUserProfile failed: %v", err)
		}
		user, err := store.GetUserByID(ctx, "u1")
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if user.DisplayName != "Renamed" {
			t.Errorf("Expected Renamed, got %q", user.DisplayName)
		}

		err = store.UpdateUserProfile(ctx, "nobody", "X", "")
		if !errors.Is(err, errs.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Leaderboard visibility filter", func(t *testing.T) {
		if err := store.SetLeaderboardVisibility(ctx, "u3", false); err != nil {
			t.Fatalf("SetLeaderboardVisibility failed: %v", err)
		}

		uids, err := store.ListLeaderboardUIDs(ctx)
		if err != nil {
			t.Fatalf("ListLeaderboardUIDs failed: %v", err)
		}
		for _, uid := range uids {
			if uid == "u3" {
				t.Error("Expected u3 to be hidden")
			}
		}
	})
}

func TestSQLiteStore_Entries(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	updated := time.Date(2026, 3, 10, 5, 30, 0, 0, time.UTC)
	created := time.Date(2026, 3, 10, 5, 0, 0, 0, time.UTC)

	seed := []models.HabitEntry{
		{UID: "u1", DayIndex: 1, HabitID: "quran_pages", Value: models.CountValue(5), UpdatedAt: updated, CreatedAt: created},
		{UID: "u1", DayIndex: 0, HabitID: "fajr_prayer", Value: models.BoolValue(true), UpdatedAt: updated, CreatedAt: created},
		{UID: "u1", DayIndex: 0, HabitID: "quran_pages", Value: models.CountValue(0), UpdatedAt: updated, CreatedAt: created},
	}
	if err := store.ApplySync(ctx, "u1", seed, nil, nil); err != nil {
		t.Fatalf("ApplySync failed: %v", err)
	}

	t.Run("ListEntries roundtrips values in order", func(t *testing.T) {
		entries, err := store.ListEntries(ctx, "u1")
		if err != nil {
			t.Fatalf("ListEntries failed: %v", err)
		}
		if len(entries) != 3 {
			t.Fatalf("Expected 3 entries, got %d", len(entries))
		}
		// Ordered by (day_index, habit_id).
		if entries[0].HabitID != "fajr_prayer" || entries[0].DayIndex != 0 {
			t.Errorf("Unexpected first entry: %+v", entries[0])
		}
		if !entries[0].Value.Bool || entries[0].Value.Kind != models.KindBool {
			t.Errorf("Boolean value did not roundtrip: %+v", entries[0].Value)
		}
		if entries[2].Value.Count != 5 || entries[2].Value.Kind != models.KindCount {
			t.Errorf("Count value did not roundtrip: %+v", entries[2].Value)
		}
		if !entries[0].UpdatedAt.Equal(updated) {
			t.Errorf("Expected updatedAt %v, got %v", updated, entries[0].UpdatedAt)
		}
	})

	t.Run("Upsert keeps created_at", func(t *testing.T) {
		later := updated.Add(time.Hour)
		overwrite := []models.HabitEntry{
			{UID: "u1", DayIndex: 0, HabitID: "fajr_prayer", Value: models.BoolValue(false), UpdatedAt: later, CreatedAt: later},
		}
		if err := store.ApplySync(ctx, "u1", overwrite, nil, nil); err != nil {
			t.Fatalf("ApplySync failed: %v", err)
		}

		entries, err := store.ListEntries(ctx, "u1")
		if err != nil {
			t.Fatalf("ListEntries failed: %v", err)
		}
		if entries[0].Value.Bool {
			t.Error("Expected value to be overwritten")
		}
		if !entries[0].UpdatedAt.Equal(later) {
			t.Errorf("Expected updatedAt %v, got %v", later, entries[0].UpdatedAt)
		}
		if !entries[0].CreatedAt.Equal(created) {
			t.Errorf("Expected createdAt to stay %v, got %v", created, entries[0].CreatedAt)
		}
	})

	t.Run("ListEntriesByHabits filters", func(t *testing.T) {
		entries, err := store.ListEntriesByHabits(ctx, "u1", []string{"quran_pages"})
		if err != nil {
			t.Fatalf("ListEntriesByHabits failed: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("Expected 2 entries, got %d", len(entries))
		}

		// Empty filter matches nothing rather than everything.
		entries, err = store.ListEntriesByHabits(ctx, "u1", nil)
		if err != nil {
			t.Fatalf("ListEntriesByHabits failed: %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("Expected no entries for empty filter, got %d", len(entries))
		}
	})
}

func TestSQLiteStore_Categories(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 5, 30, 0, 0, time.UTC)

	cats := []models.HabitCategory{
		{
			UID: "u1", CategoryID: "evening", Name: "Evening", Icon: "🌙", SortOrder: 1,
			UpdatedAt: now, CreatedAt: now,
			Items: []models.HabitItem{
				{ID: "dhikr", Label: "Evening dhikr", Type: models.KindCount},
			},
		},
		{
			UID: "u1", CategoryID: "fajr", Name: "Fajr", Icon: "🕌", SortOrder: 0,
			UpdatedAt: now, CreatedAt: now,
			Items: []models.HabitItem{
				{ID: "fajr_prayer", Label: "Pray Fajr", Type: models.KindBool},
				{ID: "quran_pages", Label: "Read Quran", Type: models.KindCount},
			},
		},
	}
	if err := store.ApplySync(ctx, "u1", nil, cats, nil); err != nil {
		t.Fatalf("ApplySync failed: %v", err)
	}

	t.Run("ListCategories orders by sortOrder with items in position", func(t *testing.T) {
		got, err := store.ListCategories(ctx, "u1")
		if err != nil {
			t.Fatalf("ListCategories failed: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("Expected 2 categories, got %d", len(got))
		}
		if got[0].CategoryID != "fajr" || got[1].CategoryID != "evening" {
			t.Errorf("Unexpected order: %s, %s", got[0].CategoryID, got[1].CategoryID)
		}
		if len(got[0].Items) != 2 || got[0].Items[0].ID != "fajr_prayer" {
			t.Errorf("Unexpected items: %+v", got[0].Items)
		}
		if got[0].Items[1].Type != models.KindCount {
			t.Errorf("Expected count item, got %s", got[0].Items[1].Type)
		}
	})

	t.Run("Delete removes category and items", func(t *testing.T) {
		if err := store.ApplySync(ctx, "u1", nil, nil, []string{"evening"}); err != nil {
			t.Fatalf("ApplySync failed: %v", err)
		}
		got, err := store.ListCategories(ctx, "u1")
		if err != nil {
			t.Fatalf("ListCategories failed: %v", err)
		}
		if len(got) != 1 || got[0].CategoryID != "fajr" {
			t.Fatalf("Expected only fajr to remain, got %+v", got)
		}
	})

	t.Run("Upsert replaces items wholesale", func(t *testing.T) {
		replacement := cats[1]
		replacement.Items = []models.HabitItem{{ID: "fajr_prayer", Label: "Pray Fajr on time", Type: models.KindBool}}
		replacement.UpdatedAt = now.Add(time.Hour)
		if err := store.ApplySync(ctx, "u1", nil, []models.HabitCategory{replacement}, nil); err != nil {
			t.Fatalf("ApplySync failed: %v", err)
		}

		got, err := store.ListCategories(ctx, "u1")
		if err != nil {
			t.Fatalf("ListCategories failed: %v", err)
		}
		if len(got[0].Items) != 1 || got[0].Items[0].Label != "Pray Fajr on time" {
			t.Errorf("Expected replaced items, got %+v", got[0].Items)
		}
		if !got[0].CreatedAt.Equal(now) {
			t.Errorf("Expected createdAt to stay %v, got %v", now, got[0].CreatedAt)
		}
	})

	t.Run("ResetUserData clears everything", func(t *testing.T) {
		if err := store.ResetUserData(ctx, "u1"); err != nil {
			t.Fatalf("ResetUserData failed: %v", err)
		}
		got, err := store.ListCategories(ctx, "u1")
		if err != nil {
			t.Fatalf("ListCategories failed: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("Expected no categories, got %d", len(got))
		}

		// Resetting an empty user succeeds.
		if err := store.ResetUserData(ctx, "u1"); err != nil {
			t.Errorf("Second reset failed: %v", err)
		}
	})
}

func TestSQLiteStore_Groups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().Unix()

	group := &models.Group{
		ID:         "g1",
		Name:       "Morning Crew",
		Emoji:      "🌅",
		AdminUID:   "admin",
		MemberUIDs: []string{"admin"},
		InviteCode: "ABC234",
		Categories: []models.GroupCategory{
			{
				CategoryID: "shared", Name: "Shared", Icon: "🤝", SortOrder: 0,
				Items: []models.HabitItem{{ID: "fajr_prayer", Label: "Pray Fajr", Type: models.KindBool}},
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	t.Run("GetGroup returns members and categories", func(t *testing.T) {
		got, err := store.GetGroup(ctx, "g1")
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if got.Name != "Morning Crew" || len(got.MemberUIDs) != 1 {
			t.Errorf("Unexpected group: %+v", got)
		}
		if len(got.Categories) != 1 || got.Categories[0].Items[0].ID != "fajr_prayer" {
			t.Errorf("Unexpected categories: %+v", got.Categories)
		}
	})

	t.Run("Missing group is ErrNotFound", func(t *testing.T) {
		_, err := store.GetGroup(ctx, "nope")
		if !errors.Is(err, errs.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Duplicate invite code conflicts", func(t *testing.T) {
		dup := &models.Group{
			ID: "g2", Name: "Other", Emoji: "👥", AdminUID: "other",
			MemberUIDs: []string{"other"}, InviteCode: "ABC234",
			CreatedAt: now, UpdatedAt: now,
		}
		if err := store.CreateGroup(ctx, dup); !errors.Is(err, errs.ErrConflict) {
			t.Errorf("Expected ErrConflict, got %v", err)
		}
	})

	t.Run("Invite code lookup", func(t *testing.T) {
		got, err := store.GetGroupByInviteCode(ctx, "ABC234")
		if err != nil {
			t.Fatalf("GetGroupByInviteCode failed: %v", err)
		}
		if got.ID != "g1" {
			t.Errorf("Expected g1, got %s", got.ID)
		}

		if _, err := store.GetGroupByInviteCode(ctx, "NOSUCH"); !errors.Is(err, errs.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Membership changes", func(t *testing.T) {
		if err := store.AddGroupMember(ctx, "g1", "friend"); err != nil {
			t.Fatalf("AddGroupMember failed: %v", err)
		}
		if err := store.AddGroupMember(ctx, "g1", "friend"); !errors.Is(err, errs.ErrConflict) {
			t.Errorf("Expected ErrConflict on duplicate member, got %v", err)
		}

		groups, err := store.ListGroupsByMember(ctx, "friend")
		if err != nil {
			t.Fatalf("ListGroupsByMember failed: %v", err)
		}
		if len(groups) != 1 || groups[0].ID != "g1" {
			t.Fatalf("Expected membership in g1, got %+v", groups)
		}

		if err := store.RemoveGroupMember(ctx, "g1", "friend"); err != nil {
			t.Fatalf("RemoveGroupMember failed: %v", err)
		}
		if err := store.RemoveGroupMember(ctx, "g1", "friend"); !errors.Is(err, errs.ErrNotFound) {
			t.Errorf("Expected ErrNotFound on repeated removal, got %v", err)
		}
	})

	t.Run("UpdateGroupInfo keeps empty fields", func(t *testing.T) {
		if err := store.UpdateGroupInfo(ctx, "g1", "Renamed", ""); err != nil {
			t.Fatalf("UpdateGroupInfo failed: %v", err)
		}
		got, err := store.GetGroup(ctx, "g1")
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if got.Name != "Renamed" || got.Emoji != "🌅" {
			t.Errorf("Unexpected group info: %s %s", got.Name, got.Emoji)
		}
	})

	t.Run("UpdateGroupCategories replaces wholesale", func(t *testing.T) {
		err := store.UpdateGroupCategories(ctx, "g1", []models.GroupCategory{
			{
				CategoryID: "night", Name: "Night", Icon: "🌙", SortOrder: 0,
				Items: []models.HabitItem{{ID: "witr", Label: "Pray Witr", Type: models.KindBool}},
			},
		})
		if err != nil {
			t.Fatalf("UpdateGroupCategories failed: %v", err)
		}

		got, err := store.GetGroup(ctx, "g1")
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if len(got.Categories) != 1 || got.Categories[0].CategoryID != "night" {
			t.Errorf("Unexpected categories: %+v", got.Categories)
		}
	})

	t.Run("DeleteGroup cascades", func(t *testing.T) {
		if err := store.DeleteGroup(ctx, "g1"); err != nil {
			t.Fatalf("DeleteGroup failed: %v", err)
		}
		if _, err := store.GetGroup(ctx, "g1"); !errors.Is(err, errs.ErrNotFound) {
			t.Errorf("Expected ErrNotFound after delete, got %v", err)
		}
		groups, err := store.ListGroupsByMember(ctx, "admin")
		if err != nil {
			t.Fatalf("ListGroupsByMember failed: %v", err)
		}
		if len(groups) != 0 {
			t.Errorf("Expected no memberships, got %+v", groups)
		}
	})
}
