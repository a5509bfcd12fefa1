// Package filter holds the operator's order filter and applies it.
package filter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"ems-dashboard/internal/render"
	"ems-dashboard/internal/storage"
)

const (
	StorageKey = "orderFilters"
	All        = "all"

	KeyStatus   = "status"
	KeyPriority = "priority"
)

var (
	ErrUnknownFilter = errors.New("unknown filter")
	ErrInvalidValue  = errors.New("invalid filter value")
)

type Criteria struct {
	Status   string `json:"status"`
	Priority string `json:"priority"`
	Search   string `json:"search"`
}

func Default() Criteria {
	return Criteria{Status: All, Priority: All}
}

// Match reports whether o passes every active criterion. Search is a
// case-insensitive substring match on id, product and article.
func (c Criteria) Match(o storage.Order) bool {
	if c.Search != "" {
		term := strings.ToLower(c.Search)
		if !strings.Contains(strings.ToLower(o.ID), term) &&
			!strings.Contains(strings.ToLower(o.Product), term) &&
			!strings.Contains(strings.ToLower(o.Article), term) {
			return false
		}
	}

	if c.Status != All && string(o.Status) != c.Status {
		return false
	}

	if c.Priority != All && string(o.Priority) != c.Priority {
		return false
	}

	return true
}

// Orders keeps the matching orders in store order.
func Orders(orders []storage.Order, c Criteria) []storage.Order {
	out := make([]storage.Order, 0, len(orders))
	for _, o := range orders {
		if c.Match(o) {
			out = append(out, o)
		}
	}
	return out
}

// Defects filters by severity. All, or any value that is not a known
// severity, keeps every defect.
func Defects(defects []storage.Defect, severity string) []storage.Defect {
	if severity == All || !storage.Severity(severity).Valid() {
		return defects
	}

	out := make([]storage.Defect, 0, len(defects))
	for _, d := range defects {
		if string(d.Severity) == severity {
			out = append(out, d)
		}
	}
	return out
}

type Source interface {
	ListOrders(ctx context.Context) ([]storage.Order, error)
	ListDefects(ctx context.Context) ([]storage.Defect, error)
}

type Prefs interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

type Engine struct {
	log     *slog.Logger
	source  Source
	prefs   Prefs
	orders  render.Target
	defects render.Target

	// tmu serialises transitions so the saved record, the criteria and the
	// rendered table always come from the same step.
	tmu sync.Mutex

	mu       sync.Mutex
	criteria Criteria
}

// New returns an engine with default criteria. orders and defects may be nil.
func New(log *slog.Logger, source Source, prefs Prefs, orders, defects render.Target) *Engine {
	return &Engine{
		log:      log,
		source:   source,
		prefs:    prefs,
		orders:   orders,
		defects:  defects,
		criteria: Default(),
	}
}

func (e *Engine) Criteria() Criteria {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.criteria
}

// Search sets the search text. It returns the criteria the orders were
// filtered with.
func (e *Engine) Search(ctx context.Context, text string) (Criteria, []storage.Order, error) {
	return e.transition(ctx, func(c *Criteria) {
		c.Search = text
	})
}

// SelectChip sets status or priority. The value must be All or a known value
// for that key.
func (e *Engine) SelectChip(ctx context.Context, key, value string) (Criteria, []storage.Order, error) {
	const op = "filter.Engine.SelectChip"

	var valid bool
	switch key {
	case KeyStatus:
		valid = value == All || storage.OrderStatus(value).Valid()
	case KeyPriority:
		valid = value == All || storage.Priority(value).Valid()
	default:
		return Criteria{}, nil, fmt.Errorf("%s: %q: %w", op, key, ErrUnknownFilter)
	}
	if !valid {
		return Criteria{}, nil, fmt.Errorf("%s: %s=%q: %w", op, key, value, ErrInvalidValue)
	}

	return e.transition(ctx, func(c *Criteria) {
		if key == KeyStatus {
			c.Status = value
		} else {
			c.Priority = value
		}
	})
}

func (e *Engine) Clear(ctx context.Context) (Criteria, []storage.Order, error) {
	return e.transition(ctx, func(c *Criteria) {
		*c = Default()
	})
}

// Restore loads the persisted criteria over the defaults and applies them.
// A missing or malformed record leaves the defaults in place. A status or
// priority that is not a known value falls back to All.
func (e *Engine) Restore(ctx context.Context) ([]storage.Order, error) {
	const op = "filter.Engine.Restore"

	c := Default()

	raw, ok, err := e.prefs.Get(ctx, StorageKey)
	switch {
	case err != nil:
		e.log.Warn("failed to read saved filters", slog.String("op", op), slog.String("error", err.Error()))
	case ok:
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			e.log.Warn("saved filters are malformed, using defaults", slog.String("op", op), slog.String("error", err.Error()))
			c = Default()
		}
	}

	if c.Status != All && !storage.OrderStatus(c.Status).Valid() {
		c.Status = All
	}
	if c.Priority != All && !storage.Priority(c.Priority).Valid() {
		c.Priority = All
	}

	e.tmu.Lock()
	defer e.tmu.Unlock()

	e.mu.Lock()
	e.criteria = c
	e.mu.Unlock()

	return e.apply(ctx, c)
}

// Apply filters the current orders and renders them.
func (e *Engine) Apply(ctx context.Context) ([]storage.Order, error) {
	e.tmu.Lock()
	defer e.tmu.Unlock()

	return e.apply(ctx, e.Criteria())
}

func (e *Engine) apply(ctx context.Context, c Criteria) ([]storage.Order, error) {
	const op = "filter.Engine.Apply"

	orders, err := e.source.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	filtered := Orders(orders, c)
	render.FilteredOrders(e.orders, filtered)

	return filtered, nil
}

// View renders the current filter result into t without touching the
// engine's own target.
func (e *Engine) View(ctx context.Context, t render.Target) ([]storage.Order, error) {
	const op = "filter.Engine.View"

	orders, err := e.source.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	filtered := Orders(orders, e.Criteria())
	render.FilteredOrders(t, filtered)

	return filtered, nil
}

func (e *Engine) FilterDefects(ctx context.Context, severity string) ([]storage.Defect, error) {
	const op = "filter.Engine.FilterDefects"

	defects, err := e.source.ListDefects(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	filtered := Defects(defects, severity)
	render.FilteredDefects(e.defects, filtered)

	return filtered, nil
}

func (e *Engine) transition(ctx context.Context, fn func(c *Criteria)) (Criteria, []storage.Order, error) {
	e.tmu.Lock()
	defer e.tmu.Unlock()

	e.mu.Lock()
	fn(&e.criteria)
	next := e.criteria
	e.mu.Unlock()

	e.persist(ctx, next)

	orders, err := e.apply(ctx, next)
	if err != nil {
		return next, nil, err
	}
	return next, orders, nil
}

// persist never fails the transition; the filter still applies in memory.
func (e *Engine) persist(ctx context.Context, c Criteria) {
	const op = "filter.Engine.persist"

	data, err := json.Marshal(c)
	if err != nil {
		e.log.Error("failed to encode filters", slog.String("op", op), slog.String("error", err.Error()))
		return
	}

	if err := e.prefs.Set(ctx, StorageKey, string(data)); err != nil {
		e.log.Warn("failed to save filters", slog.String("op", op), slog.String("error", err.Error()))
	}
}
