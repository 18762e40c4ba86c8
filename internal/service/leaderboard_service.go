package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/okhalid/habitsync/internal/errs"
	"github.com/okhalid/habitsync/internal/models"
	"github.com/okhalid/habitsync/internal/stats"
	"github.com/okhalid/habitsync/internal/storage"
)

// Pagination bounds for leaderboard requests.
const (
	DefaultPageSize = 20
	MaxPageSize     = 50
)

// LeaderboardService ranks a population of users by their aggregated habit
// statistics. Ranking is read-only and side-effect-free; it shares data with
// the sync path but no locks.
type LeaderboardService struct {
	store storage.Store
}

// NewLeaderboardService creates a new LeaderboardService with the given
// storage backend.
func NewLeaderboardService(store storage.Store) *LeaderboardService {
	return &LeaderboardService{store: store}
}

// Global ranks every user who has not opted out of the public leaderboard.
// requestingUID may be empty for unauthenticated callers; it only affects
// CurrentUserRank.
func (s *LeaderboardService) Global(ctx context.Context, requestingUID string, page, pageSize int) (*models.Leaderboard, error) {
	uids, err := s.store.ListLeaderboardUIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStore, err)
	}
	return s.rank(ctx, uids, nil, requestingUID, page, pageSize)
}

// ForGroup ranks the group's full membership (the opt-out flag is ignored:
// joining a group is an explicit opt-in) over the group's tracked habit IDs.
// A group tracking zero habits ranks every member at zero; it never falls
// back to members' personal habit sets.
func (s *LeaderboardService) ForGroup(ctx context.Context, group *models.Group, requestingUID string, page, pageSize int) (*models.Leaderboard, error) {
	filter := group.HabitIDs()
	if filter == nil {
		filter = []string{}
	}
	return s.rank(ctx, group.MemberUIDs, filter, requestingUID, page, pageSize)
}

// rank aggregates, sorts and paginates. A nil habitFilter means "all
// entries"; a non-nil (possibly empty) filter restricts aggregation to those
// habit IDs.
func (s *LeaderboardService) rank(ctx context.Context, population []string, habitFilter []string, requestingUID string, page, pageSize int) (*models.Leaderboard, error) {
	page, pageSize = clampPage(page, pageSize)

	users, err := s.store.GetUsersByIDs(ctx, population)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStore, err)
	}

	ranked := make([]models.LeaderboardEntry, 0, len(population))
	for _, uid := range population {
		var entries []models.HabitEntry
		if habitFilter == nil {
			entries, err = s.store.ListEntries(ctx, uid)
		} else {
			entries, err = s.store.ListEntriesByHabits(ctx, uid, habitFilter)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errs.ErrStore, err)
		}

		summary := stats.Aggregate(entries)

		displayName, photoURL := "Unknown User", ""
		if u := users[uid]; u != nil {
			displayName = u.DisplayName
			photoURL = u.PhotoURL
		}

		ranked = append(ranked, models.LeaderboardEntry{
			UID:            uid,
			DisplayName:    displayName,
			PhotoURL:       photoURL,
			TotalXP:        summary.TotalXP,
			Streak:         summary.Streak,
			CompletionRate: summary.CompletionRate,
		})
	}

	// XP descending, streak breaks ties; residual ties keep population
	// order (stable sort, deliberately no third key).
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].TotalXP != ranked[j].TotalXP {
			return ranked[i].TotalXP > ranked[j].TotalXP
		}
		return ranked[i].Streak > ranked[j].Streak
	})

	// Dense 1-based ranks; ties get distinct successive ranks.
	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	var currentUserRank *int
	if requestingUID != "" {
		for i := range ranked {
			if ranked[i].UID == requestingUID {
				rank := ranked[i].Rank
				currentUserRank = &rank
				break
			}
		}
	}

	total := len(ranked)
	totalPages := 0
	if total > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}

	lo := (page - 1) * pageSize
	hi := lo + pageSize
	if lo > total {
		lo = total
	}
	if hi > total {
		hi = total
	}
	pageEntries := make([]models.LeaderboardEntry, hi-lo)
	copy(pageEntries, ranked[lo:hi])

	slog.Debug("Leaderboard ranked",
		"population", len(population),
		"page", page,
		"page_size", pageSize,
		"total_pages", totalPages,
	)

	return &models.Leaderboard{
		Entries:         pageEntries,
		Page:            page,
		PageSize:        pageSize,
		TotalCount:      total,
		TotalPages:      totalPages,
		CurrentUserRank: currentUserRank,
	}, nil
}

// clampPage normalizes pagination parameters: page >= 1,
// pageSize in [1, MaxPageSize] with DefaultPageSize when unset.
func clampPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}
