package services

import (
	"context"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
)

type StatsService struct {
	habits *HabitService
}

func NewStatsService(habits *HabitService) *StatsService {
	return &StatsService{
		habits: habits,
	}
}

func (s *StatsService) Summary(ctx context.Context) domain.Stats {
	return Summarize(s.habits.List(ctx), s.habits.Today())
}

// Summarize aggregates the dashboard counters. LongestStreak is 0 for an
// empty collection.
func Summarize(habits []*domain.Habit, today domain.Date) domain.Stats {
	stats := domain.Stats{
		TotalHabits: len(habits),
	}

	for _, h := range habits {
		if h.IsCompletedOn(today) {
			stats.CompletedToday++
		}
		if h.LongestStreak > stats.LongestStreak {
			stats.LongestStreak = h.LongestStreak
		}
	}

	return stats
}
