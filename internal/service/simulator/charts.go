package simulator

import (
	"context"
	"math"
	"slices"
	"sync"
)

type Series struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

type Chart struct {
	ID     string   `json:"id"`
	Labels []string `json:"labels"`
	Series []Series `json:"series"`
}

const (
	factMin    = 80
	factMax    = 95
	factJitter = 2
	pieJitter  = 5
	pieFloor   = 10
)

var (
	lineLabels = []string{"L-01", "L-02", "L-03", "L-04", "L-05", "L-06"}
	pieLabels  = []string{"В работе", "Планируется", "На паузе", "Завершены"}
)

// Charts holds the chart series. Line fact and status pie drift on every
// Jitter call; the KPI sparklines and defect breakdowns are fixed.
type Charts struct {
	rng Rand

	mu   sync.RWMutex
	plan []float64
	fact []float64
	pie  []float64
}

func NewCharts(rng Rand) *Charts {
	return &Charts{
		rng:  rng,
		plan: []float64{95, 92, 88, 90, 85, 87},
		fact: []float64{93, 90, 85, 88, 82, 84},
		pie:  []float64{45, 25, 15, 15},
	}
}

// Jitter nudges each fact value by up to ±1 inside [80,95] and each pie share
// by up to ±2.5 with a floor of 10, then renormalizes the pie to 100.
func (c *Charts) Jitter(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, v := range c.fact {
		delta := (c.rng.Float64() - 0.5) * factJitter
		c.fact[i] = max(factMin, min(factMax, v+delta))
	}

	for i, v := range c.pie {
		delta := (c.rng.Float64() - 0.5) * pieJitter
		c.pie[i] = max(pieFloor, v+delta)
	}
	c.pie = Renormalize(c.pie)
}

func (c *Charts) Pie() []float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Clone(c.pie)
}

func (c *Charts) Fact() []float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Clone(c.fact)
}

func (c *Charts) Snapshot() []Chart {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return []Chart{
		sparkline("oee", []float64{82, 84, 83, 85, 86, 87, 86, 88, 87, 86, 87, 88, 87, 86, 87, 88, 87, 86, 87, 87.2}),
		sparkline("defects", []float64{2.5, 2.3, 2.2, 2.1, 2.0, 2.1, 2.0, 1.9, 1.8, 1.9, 1.8, 1.9, 1.8, 1.9, 1.8, 1.9, 1.8, 1.9, 1.8, 1.8}),
		sparkline("downtime", []float64{6.2, 5.8, 5.5, 5.2, 5.0, 4.8, 4.6, 4.5, 4.4, 4.3, 4.4, 4.3, 4.4, 4.3, 4.4, 4.3, 4.4, 4.3, 4.3, 4.2}),
		{
			ID:     "line",
			Labels: slices.Clone(lineLabels),
			Series: []Series{
				{Label: "План", Data: slices.Clone(c.plan)},
				{Label: "Факт", Data: slices.Clone(c.fact)},
			},
		},
		{
			ID:     "pie",
			Labels: slices.Clone(pieLabels),
			Series: []Series{{Label: "Заказы", Data: slices.Clone(c.pie)}},
		},
		{
			ID:     "defects_by_operation",
			Labels: []string{"Пайка", "Монтаж", "Тестирование", "Упаковка"},
			Series: []Series{{Label: "Количество дефектов", Data: []float64{12, 8, 15, 3}}},
		},
		{
			ID:     "defects_by_type",
			Labels: []string{"Перемычки припоя", "Отсутствие компонентов", "Смещения", "Повреждения", "Ошибки тестирования"},
			Series: []Series{{Label: "Дефекты", Data: []float64{35, 25, 20, 12, 8}}},
		},
	}
}

func sparkline(id string, data []float64) Chart {
	return Chart{
		ID:     id,
		Labels: make([]string, len(data)),
		Series: []Series{{Data: data}},
	}
}

// Renormalize scales values to whole percentages summing to exactly 100 using
// largest-remainder rounding. Ties go to the earlier index.
func Renormalize(values []float64) []float64 {
	if len(values) == 0 {
		return []float64{}
	}

	var total float64
	for _, v := range values {
		total += v
	}

	quotas := make([]float64, len(values))
	for i, v := range values {
		if total > 0 {
			quotas[i] = v / total * 100
		} else {
			quotas[i] = 100 / float64(len(values))
		}
	}

	out := make([]float64, len(values))
	left := 100
	for i, q := range quotas {
		out[i] = math.Floor(q)
		left -= int(out[i])
	}

	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		ra, rb := quotas[a]-out[a], quotas[b]-out[b]
		switch {
		case ra > rb:
			return -1
		case ra < rb:
			return 1
		default:
			return 0
		}
	})

	for i := 0; left > 0; i = (i + 1) % len(order) {
		out[order[i]]++
		left--
	}

	return out
}
