package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/ntnxnam/ndb-weekly-status/internal/ports"
)

// TickerScheduler triggers the job once on start and then on a fixed
// interval. The weekly cadence does not need cron precision.
type TickerScheduler struct {
	interval time.Duration

	mu   sync.Mutex
	stop chan struct{}
}

var _ ports.Scheduler = (*TickerScheduler)(nil)

// NewTickerScheduler builds a scheduler with the given interval; intervals
// below one minute are clamped to one minute.
func NewTickerScheduler(interval time.Duration) *TickerScheduler {
	if interval < time.Minute {
		interval = time.Minute
	}
	return &TickerScheduler{interval: interval}
}

// Start begins ticking; the job runs immediately and then per interval.
func (t *TickerScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	t.mu.Lock()
	if t.stop != nil {
		t.mu.Unlock()
		return nil
	}
	// The goroutine selects on its own copy; Stop clearing t.stop must not
	// touch the channel the loop is blocked on.
	stop := make(chan struct{})
	t.stop = stop
	t.mu.Unlock()

	go func() {
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		job(time.Now())
		for {
			select {
			case tick := <-ticker.C:
				job(tick)
			case <-ctx.Done():
				return
			case <-stop:
				return
			}
		}
	}()

	return nil
}

// Stop halts the ticker goroutine. Safe to call repeatedly.
func (t *TickerScheduler) Stop(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop == nil {
		return nil
	}
	close(t.stop)
	t.stop = nil
	return nil
}
