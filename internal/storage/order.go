package storage

type OrderStatus string

const (
	OrderPlanned    OrderStatus = "planned"
	OrderInProgress OrderStatus = "in_progress"
	OrderPaused     OrderStatus = "paused"
	OrderCompleted  OrderStatus = "completed"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPlanned, OrderInProgress, OrderPaused, OrderCompleted:
		return true
	}
	return false
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

type Order struct {
	ID               string      `json:"id"`
	Product          string      `json:"product"`
	Article          string      `json:"article"`
	Status           OrderStatus `json:"status"`
	CurrentOperation string      `json:"current_operation"`
	Priority         Priority    `json:"priority"`
	Quantity         int         `json:"quantity"`
	CreatedAt        string      `json:"created_at"` // YYYY-MM-DD
	Progress         int         `json:"progress"`
}

// NewOrder is the order-creation form.
type NewOrder struct {
	Product  string   `json:"product"`
	Article  string   `json:"article"`
	Quantity int      `json:"quantity"`
	Priority Priority `json:"priority"`
}

// OrderPatch carries the editable fields of an order; nil fields are left as is.
type OrderPatch struct {
	Status           *OrderStatus `json:"status"`
	CurrentOperation *string      `json:"current_operation"`
	Priority         *Priority    `json:"priority"`
	Quantity         *int         `json:"quantity"`
	Progress         *int         `json:"progress"`
}
