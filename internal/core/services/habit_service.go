package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/streaks"
)

// HabitService owns the habit collection. Every action holds mu from mutation
// to persistence, so actions never interleave.
type HabitService struct {
	store domain.KVStore
	key   string
	now   func() time.Time

	mu     sync.Mutex
	habits []*domain.Habit
}

type Option func(*HabitService)

func WithClock(now func() time.Time) Option {
	return func(s *HabitService) {
		s.now = now
	}
}

func WithKey(key string) Option {
	return func(s *HabitService) {
		s.key = key
	}
}

func NewHabitService(store domain.KVStore, opts ...Option) *HabitService {
	s := &HabitService{
		store:  store,
		key:    domain.HabitsKey,
		now:    time.Now,
		habits: []*domain.Habit{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *HabitService) Today() domain.Date {
	return domain.DateOf(s.now())
}

// Load replaces the in-memory collection with the stored one. Undecodable data
// is discarded and the service starts empty.
func (s *HabitService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.store.Get(ctx, s.key)
	if errors.Is(err, domain.ErrKeyNotFound) {
		s.habits = []*domain.Habit{}
		return nil
	}
	if err != nil {
		return fmt.Errorf("habit service: failed to read %q: %w", s.key, err)
	}

	var stored []*domain.Habit
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		log.Printf("[STORE] Corrupted habit data under %q, starting empty: %v", s.key, err)
		s.habits = []*domain.Habit{}
		return nil
	}

	today := s.Today()
	habits := make([]*domain.Habit, 0, len(stored))
	for _, h := range stored {
		if h == nil {
			continue
		}
		h.Normalize()
		streaks.Recompute(h, today)
		habits = append(habits, h)
	}

	s.habits = habits
	log.Printf("[STORE] Loaded %d habits", len(habits))
	return nil
}

func (s *HabitService) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(ctx)
}

func (s *HabitService) save(ctx context.Context) error {
	data, err := json.Marshal(s.habits)
	if err != nil {
		return fmt.Errorf("habit service: failed to encode habits: %w", err)
	}

	if err := s.store.Set(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("habit service: failed to persist habits: %w", err)
	}
	return nil
}

// Create adds a habit. A blank name is ignored and yields (nil, nil).
func (s *HabitService) Create(ctx context.Context, name string) (*domain.Habit, error) {
	habit, err := domain.NewHabit(name, s.now())
	if errors.Is(err, domain.ErrHabitNameEmpty) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.habits = append(s.habits, habit)

	if err := s.save(ctx); err != nil {
		return habit.Clone(), err
	}
	return habit.Clone(), nil
}

// Delete removes the habit with id. Unknown ids are a no-op.
func (s *HabitService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil
	}

	s.habits = append(s.habits[:idx:idx], s.habits[idx+1:]...)
	return s.save(ctx)
}

// ToggleToday marks or unmarks today for the habit with id and recomputes its
// streaks. Unknown ids yield (nil, nil).
func (s *HabitService) ToggleToday(ctx context.Context, id string) (*domain.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, nil
	}

	today := s.Today()
	habit := s.habits[idx]
	habit.Toggle(today)
	streaks.Recompute(habit, today)

	if err := s.save(ctx); err != nil {
		return habit.Clone(), err
	}
	return habit.Clone(), nil
}

func (s *HabitService) List(ctx context.Context) []*domain.Habit {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := make([]*domain.Habit, 0, len(s.habits))
	for _, h := range s.habits {
		list = append(list, h.Clone())
	}
	return list
}

func (s *HabitService) Get(ctx context.Context, id string) (*domain.Habit, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, false
	}
	return s.habits[idx].Clone(), true
}

// Cards returns the habits with their per-day view fields as of today.
func (s *HabitService) Cards(ctx context.Context) []domain.HabitCard {
	today := s.Today()
	habits := s.List(ctx)

	cards := make([]domain.HabitCard, 0, len(habits))
	for _, h := range habits {
		cards = append(cards, domain.NewHabitCard(h, today))
	}
	return cards
}

// Refresh recomputes every habit against the current day and persists the
// collection if any streak changed.
func (s *HabitService) Refresh(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.Today()
	changed := false
	for _, h := range s.habits {
		current, longest := h.CurrentStreak, h.LongestStreak
		streaks.Recompute(h, today)
		if h.CurrentStreak != current || h.LongestStreak != longest {
			changed = true
		}
	}

	if !changed {
		return false, nil
	}
	return true, s.save(ctx)
}

func (s *HabitService) indexOf(id string) int {
	for i, h := range s.habits {
		if h.ID == id {
			return i
		}
	}
	return -1
}
