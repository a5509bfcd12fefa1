// Package simulator drives the fake live data: parameter random walk, chart
// jitter and background announcements.
package simulator

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"ems-dashboard/internal/metrics"
	"ems-dashboard/internal/render"
	"ems-dashboard/internal/service/notify"
	"ems-dashboard/internal/storage"
)

const (
	// DefaultCriticalChance is the probability that a critical reading raises
	// an error notification.
	DefaultCriticalChance = 0.3

	// walkFraction of the parameter span bounds one step in either direction.
	walkFraction = 0.1
)

// Rand is the randomness source; *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// NewRand returns a goroutine-safe source. A zero seed picks a random one.
func NewRand(seed uint64) Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &lockedRand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.r.Float64()
}

type Store interface {
	UpdateParameters(ctx context.Context, fn func(storage.Parameter) storage.Parameter) ([]storage.Parameter, error)
}

type Notifier interface {
	Notify(ctx context.Context, kind notify.Kind, title, message string, ttl time.Duration) notify.Notification
}

// Step moves p by delta, keeps the value inside [min,max] and reclassifies it.
func Step(p storage.Parameter, delta float64) storage.Parameter {
	return p.WithValue(p.Clamp(p.Value + delta))
}

type Simulator struct {
	log      *slog.Logger
	store    Store
	notifier Notifier
	rng      Rand
	target   render.Target
	metrics  *metrics.Metrics
	chance   float64
}

type Option func(*Simulator)

func WithTarget(t render.Target) Option { return func(s *Simulator) { s.target = t } }
func WithMetrics(m *metrics.Metrics) Option { return func(s *Simulator) { s.metrics = m } }

func WithCriticalChance(p float64) Option {
	return func(s *Simulator) {
		if p >= 0 && p <= 1 {
			s.chance = p
		}
	}
}

func New(log *slog.Logger, store Store, notifier Notifier, rng Rand, opts ...Option) *Simulator {
	s := &Simulator{
		log:      log,
		store:    store,
		notifier: notifier,
		rng:      rng,
		chance:   DefaultCriticalChance,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tick advances every parameter one random step and re-renders them.
func (s *Simulator) Tick(ctx context.Context) ([]storage.Parameter, error) {
	const op = "simulator.Simulator.Tick"

	params, err := s.store.UpdateParameters(ctx, func(p storage.Parameter) storage.Parameter {
		delta := (s.rng.Float64() - 0.5) * p.Span() * walkFraction
		return Step(p, delta)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	counts := make(map[string]int, 3)
	for _, p := range params {
		counts[string(p.Status)]++

		if p.Status != storage.ParameterCritical {
			continue
		}

		s.log.Warn("parameter out of range",
			slog.String("parameter", p.ID),
			slog.Float64("value", p.Value),
		)

		if s.rng.Float64() < s.chance {
			s.notifier.Notify(ctx, notify.KindError,
				"Критическое значение параметра",
				fmt.Sprintf("Параметр %q вышел за пределы нормы: %s%s", p.Name, render.FormatValue(p.Value), p.Unit),
				0,
			)
		}
	}

	s.metrics.SimulatorTick("parameters")
	s.metrics.ParameterStatuses(counts)
	render.Parameters(s.target, params)

	return params, nil
}

// Run is the scheduler entry point; errors are logged.
func (s *Simulator) Run(ctx context.Context) {
	if _, err := s.Tick(ctx); err != nil {
		s.log.Error("simulation tick failed", slog.String("error", err.Error()))
	}
}
