package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/jonboulle/clockwork"

	"ems-dashboard/internal/storage"
)

const (
	orderIDBase      = 130
	plannedOperation = "Планирование"
	orderDateLayout  = "2006-01-02"
	defectDateLayout = "2006-01-02 15:04"
	batchPrefix      = "BATCH-"
	orderIDPrefix    = "PO-2024-00"
	defectIDPrefix   = "DEF-"
	defectIDWidth    = 3
)

// Storage keeps orders, parameters and defects in memory, seeded with the
// sample production data. Collections are returned as copies.
type Storage struct {
	mu         sync.RWMutex
	clock      clockwork.Clock
	orders     []storage.Order
	parameters []storage.Parameter
	defects    []storage.Defect
}

func New(clock clockwork.Clock) *Storage {
	return &Storage{
		clock:      clock,
		orders:     seedOrders(),
		parameters: seedParameters(),
		defects:    seedDefects(),
	}
}

func (s *Storage) ListOrders(ctx context.Context) ([]storage.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.orders), nil
}

func (s *Storage) ListParameters(ctx context.Context) ([]storage.Parameter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.parameters), nil
}

func (s *Storage) ListDefects(ctx context.Context) ([]storage.Defect, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.defects), nil
}

func (s *Storage) Order(ctx context.Context, id string) (storage.Order, error) {
	const op = "storage.memory.Order"

	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.orderIndex(id)
	if i < 0 {
		return storage.Order{}, fmt.Errorf("%s: order %q: %w", op, id, storage.ErrNotFound)
	}

	return s.orders[i], nil
}

func (s *Storage) Parameter(ctx context.Context, id string) (storage.Parameter, error) {
	const op = "storage.memory.Parameter"

	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.parameterIndex(id)
	if i < 0 {
		return storage.Parameter{}, fmt.Errorf("%s: parameter %q: %w", op, id, storage.ErrNotFound)
	}

	return s.parameters[i], nil
}

// CreateOrder prepends a planned order. The id is derived from the collection
// size and bumped until it is unused.
func (s *Storage) CreateOrder(ctx context.Context, req storage.NewOrder) (storage.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.orders) + orderIDBase
	id := fmt.Sprintf("%s%d", orderIDPrefix, n)
	for s.orderIndex(id) >= 0 {
		n++
		id = fmt.Sprintf("%s%d", orderIDPrefix, n)
	}

	order := storage.Order{
		ID:               id,
		Product:          req.Product,
		Article:          req.Article,
		Status:           storage.OrderPlanned,
		CurrentOperation: plannedOperation,
		Priority:         req.Priority,
		Quantity:         req.Quantity,
		CreatedAt:        s.clock.Now().Format(orderDateLayout),
		Progress:         0,
	}

	s.orders = slices.Insert(s.orders, 0, order)

	return order, nil
}

func (s *Storage) UpdateOrder(ctx context.Context, id string, patch storage.OrderPatch) (storage.Order, error) {
	const op = "storage.memory.UpdateOrder"

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.orderIndex(id)
	if i < 0 {
		return storage.Order{}, fmt.Errorf("%s: order %q: %w", op, id, storage.ErrNotFound)
	}

	o := &s.orders[i]
	if patch.Status != nil {
		o.Status = *patch.Status
	}
	if patch.CurrentOperation != nil {
		o.CurrentOperation = *patch.CurrentOperation
	}
	if patch.Priority != nil {
		o.Priority = *patch.Priority
	}
	if patch.Quantity != nil {
		o.Quantity = *patch.Quantity
	}
	if patch.Progress != nil {
		o.Progress = max(0, min(100, *patch.Progress))
	}

	return *o, nil
}

// Batches lists one batch reference per order, "BATCH-" plus the last
// segment of the order id, without duplicates.
func (s *Storage) Batches(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool, len(s.orders))
	batches := make([]string, 0, len(s.orders))
	for _, o := range s.orders {
		parts := strings.Split(o.ID, "-")
		batch := batchPrefix + parts[len(parts)-1]
		if seen[batch] {
			continue
		}
		seen[batch] = true
		batches = append(batches, batch)
	}

	return batches, nil
}

// RegisterDefect prepends an open defect, most recent first.
func (s *Storage) RegisterDefect(ctx context.Context, req storage.NewDefect) (storage.Defect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.defects) + 1
	id := fmt.Sprintf("%s%0*d", defectIDPrefix, defectIDWidth, n)
	for s.defectIndex(id) >= 0 {
		n++
		id = fmt.Sprintf("%s%0*d", defectIDPrefix, defectIDWidth, n)
	}

	defect := storage.Defect{
		ID:        id,
		Batch:     req.Batch,
		Type:      req.Type,
		Cause:     req.Cause,
		Operation: req.Operation,
		Severity:  req.Severity,
		Date:      s.clock.Now().Format(defectDateLayout),
		Status:    storage.DefectOpen,
	}

	s.defects = slices.Insert(s.defects, 0, defect)

	return defect, nil
}

// UpdateParameter stores an operator-entered value as is, without clamping,
// and reclassifies the parameter.
func (s *Storage) UpdateParameter(ctx context.Context, id string, value float64) (storage.Parameter, error) {
	const op = "storage.memory.UpdateParameter"

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.parameterIndex(id)
	if i < 0 {
		return storage.Parameter{}, fmt.Errorf("%s: parameter %q: %w", op, id, storage.ErrNotFound)
	}

	s.parameters[i] = s.parameters[i].WithValue(value)

	return s.parameters[i], nil
}

// UpdateParameters replaces every parameter with fn(parameter) in one step
// and returns the new collection.
func (s *Storage) UpdateParameters(ctx context.Context, fn func(storage.Parameter) storage.Parameter) ([]storage.Parameter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.parameters {
		s.parameters[i] = fn(s.parameters[i])
	}

	return slices.Clone(s.parameters), nil
}

func (s *Storage) orderIndex(id string) int {
	return slices.IndexFunc(s.orders, func(o storage.Order) bool { return o.ID == id })
}

func (s *Storage) parameterIndex(id string) int {
	return slices.IndexFunc(s.parameters, func(p storage.Parameter) bool { return p.ID == id })
}

func (s *Storage) defectIndex(id string) int {
	return slices.IndexFunc(s.defects, func(d storage.Defect) bool { return d.ID == id })
}
