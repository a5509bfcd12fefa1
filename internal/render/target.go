// Package render projects dashboard collections onto a Target. Every call
// replaces the target's children, so rendering the same input twice leaves
// the same surface.
package render

import (
	"slices"
	"sync"
)

// Target receives rendered nodes. Replace swaps all children at once, so a
// concurrent reader never sees a partial render.
type Target interface {
	Replace(nodes []Node)
	SetText(text string)
}

type NodeKind string

const (
	KindRow          NodeKind = "row"
	KindCard         NodeKind = "card"
	KindPlaceholder  NodeKind = "placeholder"
	KindNotification NodeKind = "notification"
)

type CellKind string

const (
	CellText     CellKind = "text"
	CellBadge    CellKind = "badge"
	CellProgress CellKind = "progress"
	CellRange    CellKind = "range"
	CellAction   CellKind = "action"
	CellIcon     CellKind = "icon"
)

type Node struct {
	Kind  NodeKind `json:"kind"`
	Key   string   `json:"key,omitempty"`
	Class string   `json:"class,omitempty"`
	Cells []Cell   `json:"cells"`
}

type Cell struct {
	Kind    CellKind  `json:"kind"`
	Text    string    `json:"text,omitempty"`
	Class   string    `json:"class,omitempty"`
	Percent float64   `json:"percent,omitempty"`
	Markers []float64 `json:"markers,omitempty"`
	ColSpan int       `json:"colspan,omitempty"`
}

// Surface is an in-memory Target. It keeps the current children and a log of
// the calls it received.
type Surface struct {
	mu    sync.RWMutex
	nodes []Node
	text  string
	calls []string
}

func NewSurface() *Surface {
	return &Surface{}
}

func (s *Surface) Replace(nodes []Node) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nodes = slices.Clone(nodes)
	s.calls = append(s.calls, "replace")
}

func (s *Surface) SetText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.text = text
	s.calls = append(s.calls, "set-text")
}

func (s *Surface) Nodes() []Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nodes := slices.Clone(s.nodes)
	if nodes == nil {
		nodes = []Node{}
	}
	return nodes
}

func (s *Surface) Text() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.text
}

func (s *Surface) Calls() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.calls)
}
