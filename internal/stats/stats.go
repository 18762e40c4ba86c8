// Package stats derives experience points, streaks and completion rates from
// habit entries. All functions are pure and safe for unrestricted concurrency.
package stats

import (
	"math"
	"sort"

	"github.com/okhalid/habitsync/internal/models"
)

// XPPerHabit is the experience awarded per completed habit observation.
const XPPerHabit = 10

// Summary holds the derived statistics for one user's entry set.
type Summary struct {
	// TotalXP is XPPerHabit times the number of completed observations.
	TotalXP int

	// Streak counts consecutive most-recent days (by day index) with at
	// least one completed habit. Days with no entries at all are skipped,
	// not treated as breaks.
	Streak int

	// CompletionRate is completed/total rounded to two decimal places,
	// 0 when there are no observations.
	CompletionRate float64
}

// Aggregate computes the summary for a complete entry set of one user,
// optionally already restricted to a habit subset for group scoring.
func Aggregate(entries []models.HabitEntry) Summary {
	if len(entries) == 0 {
		return Summary{}
	}

	type tally struct {
		completed int
		total     int
	}

	days := make(map[int]*tally)
	totalCompleted, totalHabits := 0, 0
	for i := range entries {
		e := &entries[i]
		t := days[e.DayIndex]
		if t == nil {
			t = &tally{}
			days[e.DayIndex] = t
		}
		t.total++
		totalHabits++
		if e.Value.Completed() {
			t.completed++
			totalCompleted++
		}
	}

	// Walk distinct days from most recent to oldest; the streak ends at the
	// first day whose entries contain no completion.
	dayIndexes := make([]int, 0, len(days))
	for d := range days {
		dayIndexes = append(dayIndexes, d)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(dayIndexes)))

	streak := 0
	for _, d := range dayIndexes {
		if days[d].completed == 0 {
			break
		}
		streak++
	}

	rate := 0.0
	if totalHabits > 0 {
		rate = math.Round(float64(totalCompleted)/float64(totalHabits)*100) / 100
	}

	return Summary{
		TotalXP:        totalCompleted * XPPerHabit,
		Streak:         streak,
		CompletionRate: rate,
	}
}
