package domain

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrHabitNameEmpty = errors.New("habit name cannot be empty")

type Habit struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	CreatedAt      time.Time `json:"createdAt"`
	CompletedDates []Date    `json:"completedDates"`
	CurrentStreak  int       `json:"currentStreak"`
	LongestStreak  int       `json:"longestStreak"`
}

func NewHabit(name string, now time.Time) (*Habit, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrHabitNameEmpty
	}

	return &Habit{
		ID:             uuid.New().String(),
		Name:           trimmed,
		CreatedAt:      now.UTC(),
		CompletedDates: []Date{},
	}, nil
}

// Normalize drops zero and duplicate dates and sorts the rest ascending.
func (h *Habit) Normalize() {
	seen := make(map[Date]bool, len(h.CompletedDates))
	unique := make([]Date, 0, len(h.CompletedDates))
	for _, d := range h.CompletedDates {
		if d.IsZero() || seen[d] {
			continue
		}
		seen[d] = true
		unique = append(unique, d)
	}

	sort.Slice(unique, func(i, j int) bool {
		return unique[i].Before(unique[j])
	})

	h.CompletedDates = unique
}

func (h *Habit) IsCompletedOn(day Date) bool {
	for _, d := range h.CompletedDates {
		if d == day {
			return true
		}
	}
	return false
}

// Toggle flips the membership of day and reports whether it is now completed.
func (h *Habit) Toggle(day Date) bool {
	for i, d := range h.CompletedDates {
		if d == day {
			h.CompletedDates = append(h.CompletedDates[:i:i], h.CompletedDates[i+1:]...)
			return false
		}
	}

	h.CompletedDates = append(h.CompletedDates, day)
	h.Normalize()
	return true
}

func (h *Habit) TotalCompletedDays() int {
	return len(h.CompletedDates)
}

func (h *Habit) Clone() *Habit {
	clone := *h
	clone.CompletedDates = append([]Date(nil), h.CompletedDates...)
	if clone.CompletedDates == nil {
		clone.CompletedDates = []Date{}
	}
	return &clone
}
