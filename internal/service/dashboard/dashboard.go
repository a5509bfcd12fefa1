// Package dashboard ties the store to the rendered views and notifications:
// every mutation re-renders what changed and tells the operator about it.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"ems-dashboard/internal/metrics"
	"ems-dashboard/internal/render"
	"ems-dashboard/internal/service/notify"
	"ems-dashboard/internal/storage"
)

var ErrInvalidInput = errors.New("invalid input")

type Store interface {
	ListOrders(ctx context.Context) ([]storage.Order, error)
	ListParameters(ctx context.Context) ([]storage.Parameter, error)
	ListDefects(ctx context.Context) ([]storage.Defect, error)
	Order(ctx context.Context, id string) (storage.Order, error)
	CreateOrder(ctx context.Context, req storage.NewOrder) (storage.Order, error)
	UpdateOrder(ctx context.Context, id string, patch storage.OrderPatch) (storage.Order, error)
	RegisterDefect(ctx context.Context, req storage.NewDefect) (storage.Defect, error)
	UpdateParameter(ctx context.Context, id string, value float64) (storage.Parameter, error)
	Batches(ctx context.Context) ([]string, error)
}

type Notifier interface {
	Notify(ctx context.Context, kind notify.Kind, title, message string, ttl time.Duration) notify.Notification
}

// OrdersView re-renders the full orders table with the active filter.
type OrdersView interface {
	Apply(ctx context.Context) ([]storage.Order, error)
}

// Views are the render targets the service keeps current. Any may be nil.
type Views struct {
	ActiveOrders render.Target
	Parameters   render.Target
	Defects      render.Target
	LastUpdate   render.Target
}

type Service struct {
	log      *slog.Logger
	clock    clockwork.Clock
	store    Store
	notifier Notifier
	orders   OrdersView
	views    Views
	metrics  *metrics.Metrics
}

func New(log *slog.Logger, clock clockwork.Clock, store Store, notifier Notifier, orders OrdersView, views Views, m *metrics.Metrics) *Service {
	return &Service{
		log:      log,
		clock:    clock,
		store:    store,
		notifier: notifier,
		orders:   orders,
		views:    views,
		metrics:  m,
	}
}

func (s *Service) CreateOrder(ctx context.Context, req storage.NewOrder) (storage.Order, error) {
	const op = "service.dashboard.CreateOrder"

	req.Product = strings.TrimSpace(req.Product)
	req.Article = strings.TrimSpace(req.Article)
	if req.Priority == "" {
		req.Priority = storage.PriorityMedium
	}

	switch {
	case req.Product == "":
		return storage.Order{}, fmt.Errorf("%s: product is required: %w", op, ErrInvalidInput)
	case req.Quantity <= 0:
		return storage.Order{}, fmt.Errorf("%s: quantity must be positive: %w", op, ErrInvalidInput)
	case !req.Priority.Valid():
		return storage.Order{}, fmt.Errorf("%s: priority %q: %w", op, req.Priority, ErrInvalidInput)
	}

	order, err := s.store.CreateOrder(ctx, req)
	if err != nil {
		return storage.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	s.metrics.OrderCreated()
	s.renderOrders(ctx)
	s.notifier.Notify(ctx, notify.KindInfo, "Заказ создан", fmt.Sprintf("Новый заказ %s успешно создан", order.ID), 0)

	return order, nil
}

func (s *Service) UpdateOrder(ctx context.Context, id string, patch storage.OrderPatch) (storage.Order, error) {
	const op = "service.dashboard.UpdateOrder"

	if patch.Status != nil && !patch.Status.Valid() {
		return storage.Order{}, fmt.Errorf("%s: status %q: %w", op, *patch.Status, ErrInvalidInput)
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return storage.Order{}, fmt.Errorf("%s: priority %q: %w", op, *patch.Priority, ErrInvalidInput)
	}
	if patch.Quantity != nil && *patch.Quantity <= 0 {
		return storage.Order{}, fmt.Errorf("%s: quantity must be positive: %w", op, ErrInvalidInput)
	}

	order, err := s.store.UpdateOrder(ctx, id, patch)
	if err != nil {
		return storage.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	s.renderOrders(ctx)
	s.notifier.Notify(ctx, notify.KindInfo, "Заказ обновлен", fmt.Sprintf("Заказ %s изменен", order.ID), 0)

	return order, nil
}

// RegisterDefect records a defect. Critical defects raise an error
// notification, everything else a warning.
func (s *Service) RegisterDefect(ctx context.Context, req storage.NewDefect) (storage.Defect, error) {
	const op = "service.dashboard.RegisterDefect"

	switch {
	case strings.TrimSpace(req.Batch) == "":
		return storage.Defect{}, fmt.Errorf("%s: batch is required: %w", op, ErrInvalidInput)
	case req.Type == "" || req.Operation == "":
		return storage.Defect{}, fmt.Errorf("%s: type and operation are required: %w", op, ErrInvalidInput)
	case !req.Severity.Valid():
		return storage.Defect{}, fmt.Errorf("%s: severity %q: %w", op, req.Severity, ErrInvalidInput)
	}

	defect, err := s.store.RegisterDefect(ctx, req)
	if err != nil {
		return storage.Defect{}, fmt.Errorf("%s: %w", op, err)
	}

	s.metrics.DefectRegistered(string(defect.Severity))

	if defects, err := s.store.ListDefects(ctx); err != nil {
		s.log.Error("failed to list defects", slog.String("op", op), slog.String("error", err.Error()))
	} else {
		render.Defects(s.views.Defects, defects)
	}

	kind := notify.KindWarning
	if defect.Severity == storage.SeverityCritical {
		kind = notify.KindError
	}
	s.notifier.Notify(ctx, kind, "Дефект зарегистрирован", fmt.Sprintf("Дефект %s зарегистрирован в системе", defect.ID), 0)

	return defect, nil
}

// UpdateParameter stores a manually entered value as is; only the simulator
// clamps.
func (s *Service) UpdateParameter(ctx context.Context, id string, value float64) (storage.Parameter, error) {
	const op = "service.dashboard.UpdateParameter"

	param, err := s.store.UpdateParameter(ctx, id, value)
	if err != nil {
		return storage.Parameter{}, fmt.Errorf("%s: %w", op, err)
	}

	if params, err := s.store.ListParameters(ctx); err != nil {
		s.log.Error("failed to list parameters", slog.String("op", op), slog.String("error", err.Error()))
	} else {
		render.Parameters(s.views.Parameters, params)
	}

	s.notifier.Notify(ctx, notify.KindInfo, "Параметр обновлен",
		fmt.Sprintf("Значение параметра %q изменено на %s%s", param.Name, render.FormatValue(value), param.Unit), 0)

	return param, nil
}

func (s *Service) Order(ctx context.Context, id string) (storage.Order, error) {
	const op = "service.dashboard.Order"

	order, err := s.store.Order(ctx, id)
	if err != nil {
		return storage.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	return order, nil
}

func (s *Service) Batches(ctx context.Context) ([]string, error) {
	const op = "service.dashboard.Batches"

	batches, err := s.store.Batches(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return batches, nil
}

// Exported tells the operator a download was produced.
func (s *Service) Exported(ctx context.Context, what string) {
	s.notifier.Notify(ctx, notify.KindInfo, "Экспорт завершен", what, 0)
}

// Refresh renders every view from the store.
func (s *Service) Refresh(ctx context.Context) error {
	const op = "service.dashboard.Refresh"

	ov, err := s.Overview(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	render.Orders(s.views.ActiveOrders, ov.Orders, render.LayoutActive)
	render.Parameters(s.views.Parameters, ov.Parameters)
	render.Defects(s.views.Defects, ov.Defects)
	if s.orders != nil {
		if _, err := s.orders.Apply(ctx); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	s.TouchLastUpdate(ctx)

	return nil
}

func (s *Service) TouchLastUpdate(context.Context) {
	render.LastUpdate(s.views.LastUpdate, s.clock.Now())
}

type Overview struct {
	Orders     []storage.Order     `json:"orders"`
	Parameters []storage.Parameter `json:"parameters"`
	Defects    []storage.Defect    `json:"defects"`

	OrdersByStatus     map[storage.OrderStatus]int `json:"orders_by_status"`
	CriticalParameters int                         `json:"critical_parameters"`
	OpenDefects        int                         `json:"open_defects"`
	GeneratedAt        time.Time                   `json:"generated_at"`
}

// Overview loads all three collections concurrently.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	const op = "service.dashboard.Overview"

	var ov Overview

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ov.Orders, err = s.store.ListOrders(gCtx)
		if err != nil {
			return fmt.Errorf("orders: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		ov.Parameters, err = s.store.ListParameters(gCtx)
		if err != nil {
			return fmt.Errorf("parameters: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		ov.Defects, err = s.store.ListDefects(gCtx)
		if err != nil {
			return fmt.Errorf("defects: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return Overview{}, fmt.Errorf("%s: %w", op, err)
	}

	ov.OrdersByStatus = make(map[storage.OrderStatus]int, 4)
	for _, o := range ov.Orders {
		ov.OrdersByStatus[o.Status]++
	}
	for _, p := range ov.Parameters {
		if p.Status == storage.ParameterCritical {
			ov.CriticalParameters++
		}
	}
	for _, d := range ov.Defects {
		if d.Status == storage.DefectOpen {
			ov.OpenDefects++
		}
	}
	ov.GeneratedAt = s.clock.Now()

	return ov, nil
}

func (s *Service) renderOrders(ctx context.Context) {
	const op = "service.dashboard.renderOrders"

	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		s.log.Error("failed to list orders", slog.String("op", op), slog.String("error", err.Error()))
		return
	}
	render.Orders(s.views.ActiveOrders, orders, render.LayoutActive)

	if s.orders != nil {
		if _, err := s.orders.Apply(ctx); err != nil {
			s.log.Error("failed to apply order filter", slog.String("op", op), slog.String("error", err.Error()))
		}
	}
}
