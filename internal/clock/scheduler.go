// Package clock runs the dashboard's periodic jobs on an injected clock so
// that tests can drive virtual time.
package clock

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
)

type Job func(ctx context.Context)

type entry struct {
	name     string
	interval time.Duration
	once     bool
	run      Job
}

// Scheduler owns a set of independent timers. Jobs are registered before Run
// and each runs on its own goroutine; a job never overlaps with itself.
type Scheduler struct {
	clock   clockwork.Clock
	log     *slog.Logger
	entries []entry
}

func NewScheduler(clock clockwork.Clock, log *slog.Logger) *Scheduler {
	return &Scheduler{clock: clock, log: log}
}

// Every runs job each interval, first after one interval has elapsed.
func (s *Scheduler) Every(name string, interval time.Duration, job Job) {
	s.entries = append(s.entries, entry{name: name, interval: interval, run: job})
}

// After runs job once after delay.
func (s *Scheduler) After(name string, delay time.Duration, job Job) {
	s.entries = append(s.entries, entry{name: name, interval: delay, once: true, run: job})
}

// Run blocks until ctx is done. It returns nil on cancellation.
func (s *Scheduler) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	for _, e := range s.entries {
		if e.interval <= 0 {
			s.log.Warn("job skipped: non-positive interval", slog.String("job", e.name))
			continue
		}

		g.Go(func() error {
			if e.once {
				s.runOnce(gCtx, e)
			} else {
				s.runEvery(gCtx, e)
			}
			return nil
		})
	}

	return g.Wait()
}

func (s *Scheduler) runEvery(ctx context.Context, e entry) {
	ticker := s.clock.NewTicker(e.interval)
	defer ticker.Stop()

	s.log.Debug("job started", slog.String("job", e.name), slog.Duration("interval", e.interval))

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			e.run(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, e entry) {
	timer := s.clock.NewTimer(e.interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.Chan():
		e.run(ctx)
	}
}
