// Package streaks derives current and longest completion streaks from a
// habit's set of completed calendar days.
package streaks

import (
	"sort"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
)

// Recompute refreshes the streak fields of h as of today.
// LongestStreak never decreases, even when the days that formed it are gone.
func Recompute(h *domain.Habit, today domain.Date) {
	current, longest := Compute(h.CompletedDates, today)

	h.CurrentStreak = current
	h.LongestStreak = max(h.LongestStreak, longest, current)
}

// Compute returns the current streak ending today or yesterday and the
// longest run of consecutive days anywhere in dates.
func Compute(dates []domain.Date, today domain.Date) (int, int) {
	days := uniqueSorted(dates)
	if len(days) == 0 {
		return 0, 0
	}
	return current(days, today), longest(days)
}

// Current returns the streak ending today or yesterday; dates after today are ignored.
func Current(dates []domain.Date, today domain.Date) int {
	return current(uniqueSorted(dates), today)
}

// Longest returns the longest run of consecutive days in dates.
func Longest(dates []domain.Date) int {
	return longest(uniqueSorted(dates))
}

// current walks days (ascending, distinct) backwards from the newest day not
// after today.
func current(days []domain.Date, today domain.Date) int {
	i := len(days) - 1
	for i >= 0 && days[i].After(today) {
		i--
	}
	if i < 0 {
		return 0
	}

	// one grace day: the streak survives until a full day is missed
	if gap := today.DaysSince(days[i]); gap > 1 {
		return 0
	}

	streak := 1
	for ; i > 0; i-- {
		if days[i].DaysSince(days[i-1]) != 1 {
			break
		}
		streak++
	}
	return streak
}

func longest(days []domain.Date) int {
	best, run := 0, 0
	for i, d := range days {
		if i == 0 || d.DaysSince(days[i-1]) != 1 {
			run = 1
		} else {
			run++
		}
		best = max(best, run)
	}
	return best
}

func uniqueSorted(dates []domain.Date) []domain.Date {
	seen := make(map[domain.Date]bool, len(dates))
	days := make([]domain.Date, 0, len(dates))
	for _, d := range dates {
		if d.IsZero() || seen[d] {
			continue
		}
		seen[d] = true
		days = append(days, d)
	}

	sort.Slice(days, func(i, j int) bool {
		return days[i].Before(days[j])
	})
	return days
}
