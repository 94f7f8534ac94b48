package workers

import (
	"context"
	"log"
	"time"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
)

type HabitRefresher interface {
	Refresh(ctx context.Context) (bool, error)
	Today() domain.Date
}

// RolloverWorker recomputes all streaks when the calendar day changes, so a
// long-running process does not keep showing yesterday's current streaks.
type RolloverWorker struct {
	habits   HabitRefresher
	interval time.Duration
	jobs     chan struct{}
	done     chan struct{}
}

func NewRolloverWorker(habits HabitRefresher, interval time.Duration) *RolloverWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &RolloverWorker{
		habits:   habits,
		interval: interval,
		jobs:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

func (w *RolloverWorker) Start(ctx context.Context) {
	go func() {
		defer close(w.done)
		log.Println("[WORKER] Rollover worker started in background...")

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		lastDay := w.habits.Today()
		for {
			select {
			case <-ticker.C:
				today := w.habits.Today()
				if today == lastDay {
					continue
				}
				lastDay = today
				w.refresh(ctx, "day changed to "+today.String())
			case <-w.jobs:
				w.refresh(ctx, "manual trigger")
			case <-ctx.Done():
				log.Println("[WORKER] Rollover worker shutting down...")
				return
			}
		}
	}()
}

// Trigger asks for an immediate refresh. It never blocks; a trigger is dropped
// when one is already pending.
func (w *RolloverWorker) Trigger() {
	select {
	case w.jobs <- struct{}{}:
	default:
	}
}

// Done is closed once the worker has stopped.
func (w *RolloverWorker) Done() <-chan struct{} {
	return w.done
}

func (w *RolloverWorker) refresh(ctx context.Context, reason string) {
	changed, err := w.habits.Refresh(ctx)
	if err != nil {
		log.Printf("[WORKER] Failed to refresh streaks (%s): %v", reason, err)
		return
	}
	if changed {
		log.Printf("[WORKER] Streaks refreshed (%s)", reason)
	}
}
