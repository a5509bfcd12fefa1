// Package notify keeps the stack of transient on-screen notifications.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"ems-dashboard/internal/metrics"
	"ems-dashboard/internal/render"
	"ems-dashboard/internal/sse"
)

type Kind string

const (
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

const DefaultTTL = 5 * time.Second

const (
	EventNotification = "notification"
	EventExpired      = "notification_expired"
	EventDismissed    = "notification_dismissed"
)

type Notification struct {
	ID        string        `json:"id"`
	Kind      Kind          `json:"kind"`
	Title     string        `json:"title"`
	Message   string        `json:"message"`
	TTL       time.Duration `json:"-"`
	TTLMillis int64         `json:"ttl_ms"`
	CreatedAt time.Time     `json:"created_at"`
}

type Publisher interface {
	Publish(eventType, data string) error
}

type Cue interface {
	Play(ctx context.Context) error
}

type Option func(*Dispatcher)

func WithPublisher(p Publisher) Option { return func(d *Dispatcher) { d.pub = p } }
func WithCue(c Cue) Option { return func(d *Dispatcher) { d.cue = c } }
func WithTarget(t render.Target) Option { return func(d *Dispatcher) { d.target = t } }
func WithMetrics(m *metrics.Metrics) Option { return func(d *Dispatcher) { d.metrics = m } }

// WithDefaultTTL sets the lifetime used when Notify gets ttl <= 0.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(d *Dispatcher) {
		if ttl > 0 {
			d.ttl = ttl
		}
	}
}

type Dispatcher struct {
	log   *slog.Logger
	clock clockwork.Clock

	pub     Publisher
	cue     Cue
	target  render.Target
	metrics *metrics.Metrics
	ttl     time.Duration

	mu     sync.Mutex
	active []Notification
	timers map[string]clockwork.Timer
}

func New(log *slog.Logger, clock clockwork.Clock, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		log:    log,
		clock:  clock,
		ttl:    DefaultTTL,
		timers: make(map[string]clockwork.Timer),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Notify shows a notification until ttl elapses or it is dismissed. There is
// no queue limit and no deduplication.
func (d *Dispatcher) Notify(ctx context.Context, kind Kind, title, message string, ttl time.Duration) Notification {
	const op = "notify.Dispatcher.Notify"

	if ttl <= 0 {
		ttl = d.ttl
	}

	n := Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		Title:     title,
		Message:   message,
		TTL:       ttl,
		TTLMillis: ttl.Milliseconds(),
		CreatedAt: d.clock.Now(),
	}

	d.mu.Lock()
	d.active = append(d.active, n)
	d.timers[n.ID] = d.clock.AfterFunc(ttl, func() { d.expire(n.ID) })
	d.renderLocked()
	d.mu.Unlock()

	d.metrics.NotificationDispatched(string(kind))
	d.publish(EventNotification, n)

	if kind == KindError && d.cue != nil {
		if err := d.cue.Play(ctx); err != nil {
			d.log.Debug("audio cue failed", slog.String("op", op), slog.String("error", err.Error()))
		}
	}

	return n
}

// Dismiss removes a notification before its TTL elapses.
func (d *Dispatcher) Dismiss(id string) bool {
	d.mu.Lock()
	removed := d.removeLocked(id)
	d.mu.Unlock()

	if removed {
		d.publish(EventDismissed, map[string]string{"id": id})
	}
	return removed
}

// Active returns the notifications on screen in arrival order.
func (d *Dispatcher) Active() []Notification {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := slices.Clone(d.active)
	if out == nil {
		out = []Notification{}
	}
	return out
}

// Close stops every pending expiry timer.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for id, t := range d.timers {
		t.Stop()
		delete(d.timers, id)
	}
}

func (d *Dispatcher) expire(id string) {
	d.mu.Lock()
	removed := d.removeLocked(id)
	d.mu.Unlock()

	if removed {
		d.publish(EventExpired, map[string]string{"id": id})
	}
}

func (d *Dispatcher) removeLocked(id string) bool {
	idx := slices.IndexFunc(d.active, func(n Notification) bool { return n.ID == id })
	if idx == -1 {
		return false
	}

	d.active = slices.Delete(d.active, idx, idx+1)
	if t, ok := d.timers[id]; ok {
		t.Stop()
		delete(d.timers, id)
	}
	d.renderLocked()
	return true
}

func (d *Dispatcher) renderLocked() {
	d.metrics.ActiveNotifications(len(d.active))

	notices := make([]render.Notice, 0, len(d.active))
	for _, n := range d.active {
		notices = append(notices, render.Notice{ID: n.ID, Kind: string(n.Kind), Title: n.Title, Message: n.Message})
	}
	render.Notifications(d.target, notices)
}

func (d *Dispatcher) publish(eventType string, payload any) {
	const op = "notify.Dispatcher.publish"

	if d.pub == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		d.log.Error("failed to encode event", slog.String("op", op), slog.String("error", err.Error()))
		return
	}

	if err := d.pub.Publish(eventType, string(data)); err != nil && !errors.Is(err, sse.ErrNoClients) {
		d.log.Warn("failed to publish event", slog.String("op", op), slog.String("error", err.Error()))
	}
}
