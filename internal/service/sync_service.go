// Package service implements habitsync's application services: the sync/merge
// engine, the leaderboard ranker, group management and authentication.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/okhalid/habitsync/internal/errs"
	"github.com/okhalid/habitsync/internal/models"
	"github.com/okhalid/habitsync/internal/storage"
)

// SyncState is the authoritative full state returned after every sync
// operation. Clients replace their local copy with it wholesale, so a merge
// always returns the complete entry and category sets, never a delta.
type SyncState struct {
	Entries    []models.HabitEntry    `json:"entries"`
	Categories []models.HabitCategory `json:"categories"`
}

// SyncService is the merge coordinator: it reconciles client-submitted
// batches of entries and categories against stored state using a
// last-writer-wins rule on updatedAt timestamps.
//
// Uploads for the same user are serialized through a per-uid mutex so two
// devices syncing concurrently cannot interleave their read-compare-write
// cycles. Reads (Download) and the leaderboard path do not take the lock;
// they only ever observe fully committed transactions.
type SyncService struct {
	store storage.Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewSyncService creates a new SyncService with the given storage backend.
func NewSyncService(store storage.Store) *SyncService {
	return &SyncService{
		store: store,
		locks: make(map[string]*sync.Mutex),
	}
}

// userLock returns the mutex serializing sync writes for uid.
func (s *SyncService) userLock(uid string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[uid]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[uid] = lock
	}
	return lock
}

// Upload merges a client batch into the stored state and returns the full
// post-merge state.
//
// Entries: an incoming entry wins when its updatedAt is not older than the
// stored one; losers are silently discarded (server wins). Categories follow
// the same rule, with one addition: the client sends its complete category
// set on every sync, so any stored categoryId absent from the batch is
// deleted. That deletion-by-omission contract is destructive by nature —
// a client uploading a truncated category list causes real deletions — but
// it is what clients rely on and must not be weakened here.
func (s *SyncService) Upload(ctx context.Context, uid string, entries []models.HabitEntry, categories []models.HabitCategory) (*SyncState, error) {
	if uid == "" {
		return nil, fmt.Errorf("%w: missing uid", errs.ErrUnauthenticated)
	}

	// Validate the whole batch before touching the store: a single bad
	// record rejects everything, nothing partially applies.
	for i := range entries {
		if err := validateEntry(&entries[i]); err != nil {
			return nil, fmt.Errorf("%w: entry[%d]: %v", errs.ErrValidation, i, err)
		}
	}
	for i := range categories {
		if err := validateCategory(&categories[i]); err != nil {
			return nil, fmt.Errorf("%w: category[%d]: %v", errs.ErrValidation, i, err)
		}
	}

	lock := s.userLock(uid)
	lock.Lock()
	defer lock.Unlock()

	stored, err := s.store.ListEntries(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStore, err)
	}
	storedByKey := make(map[models.EntryKey]*models.HabitEntry, len(stored))
	for i := range stored {
		storedByKey[stored[i].Key()] = &stored[i]
	}

	now := time.Now().UTC()
	accepted := make([]models.HabitEntry, 0, len(entries))
	discarded := 0
	for i := range entries {
		incoming := entries[i]
		if existing, ok := storedByKey[incoming.Key()]; ok && incoming.UpdatedAt.Before(existing.UpdatedAt) {
			discarded++
			continue
		}
		incoming.UID = uid
		incoming.CreatedAt = now // ignored by the store for existing keys
		accepted = append(accepted, incoming)
	}

	storedCats, err := s.store.ListCategories(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStore, err)
	}
	storedCatByID := make(map[string]*models.HabitCategory, len(storedCats))
	for i := range storedCats {
		storedCatByID[storedCats[i].CategoryID] = &storedCats[i]
	}

	incomingCatIDs := make(map[string]bool, len(categories))
	acceptedCats := make([]models.HabitCategory, 0, len(categories))
	for i := range categories {
		incoming := categories[i]
		incomingCatIDs[incoming.CategoryID] = true
		if existing, ok := storedCatByID[incoming.CategoryID]; ok && incoming.UpdatedAt.Before(existing.UpdatedAt) {
			discarded++
			continue
		}
		incoming.UID = uid
		incoming.CreatedAt = now
		acceptedCats = append(acceptedCats, incoming)
	}

	// Full-replacement semantics: stored categories the client no longer
	// sent are deleted.
	var deleteCatIDs []string
	for id := range storedCatByID {
		if !incomingCatIDs[id] {
			deleteCatIDs = append(deleteCatIDs, id)
		}
	}

	if err := s.store.ApplySync(ctx, uid, accepted, acceptedCats, deleteCatIDs); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStore, err)
	}

	slog.Info("Sync upload merged",
		"uid", uid,
		"entries_in", len(entries),
		"entries_accepted", len(accepted),
		"categories_in", len(categories),
		"categories_deleted", len(deleteCatIDs),
		"discarded", discarded,
	)

	return s.fullState(ctx, uid)
}

// Download returns the full current state for the user.
func (s *SyncService) Download(ctx context.Context, uid string) (*SyncState, error) {
	if uid == "" {
		return nil, fmt.Errorf("%w: missing uid", errs.ErrUnauthenticated)
	}
	return s.fullState(ctx, uid)
}

// Reset deletes all entries and categories for the user. Resetting an
// already-empty account succeeds as a no-op.
func (s *SyncService) Reset(ctx context.Context, uid string) error {
	if uid == "" {
		return fmt.Errorf("%w: missing uid", errs.ErrUnauthenticated)
	}

	lock := s.userLock(uid)
	lock.Lock()
	defer lock.Unlock()

	if err := s.store.ResetUserData(ctx, uid); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrStore, err)
	}

	slog.Info("Sync data reset", "uid", uid)
	return nil
}

func (s *SyncService) fullState(ctx context.Context, uid string) (*SyncState, error) {
	entries, err := s.store.ListEntries(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStore, err)
	}
	categories, err := s.store.ListCategories(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStore, err)
	}

	// Empty sets serialize as [] rather than null.
	if entries == nil {
		entries = []models.HabitEntry{}
	}
	if categories == nil {
		categories = []models.HabitCategory{}
	}

	return &SyncState{Entries: entries, Categories: categories}, nil
}

func validateEntry(e *models.HabitEntry) error {
	if e.DayIndex < 0 {
		return fmt.Errorf("dayIndex must be non-negative")
	}
	if e.HabitID == "" {
		return fmt.Errorf("habitId is required")
	}
	if !e.Value.Kind.Valid() {
		return fmt.Errorf("value must be a boolean or a number")
	}
	if e.UpdatedAt.IsZero() {
		return fmt.Errorf("updatedAt is required")
	}
	return nil
}

func validateCategory(c *models.HabitCategory) error {
	if c.CategoryID == "" {
		return fmt.Errorf("categoryId is required")
	}
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if c.UpdatedAt.IsZero() {
		return fmt.Errorf("updatedAt is required")
	}
	for i, item := range c.Items {
		if item.ID == "" {
			return fmt.Errorf("items[%d].id is required", i)
		}
		if !item.Type.Valid() {
			return fmt.Errorf("items[%d].type must be %q or %q", i, models.KindBool, models.KindCount)
		}
	}
	return nil
}
