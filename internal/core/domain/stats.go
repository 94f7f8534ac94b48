package domain

type Stats struct {
	TotalHabits    int `json:"totalHabits"`
	CompletedToday int `json:"completedToday"`
	LongestStreak  int `json:"longestStreak"`
}

// HabitCard is the read model the view renders for a single habit.
type HabitCard struct {
	*Habit
	TotalDays      int  `json:"totalDays"`
	CompletedToday bool `json:"completedToday"`
}

func NewHabitCard(h *Habit, today Date) HabitCard {
	return HabitCard{
		Habit:          h,
		TotalDays:      h.TotalCompletedDays(),
		CompletedToday: h.IsCompletedOn(today),
	}
}
