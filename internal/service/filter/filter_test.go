package filter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ems-dashboard/internal/render"
	"ems-dashboard/internal/storage"
	"ems-dashboard/internal/storage/memory"
	"ems-dashboard/internal/storage/prefs"
)

type prefsMock struct {
	mock.Mock
}

func (m *prefsMock) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *prefsMock) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func newEngine(t *testing.T, p Prefs) (*Engine, *render.Surface, *render.Surface) {
	t.Helper()

	store := memory.New(clockwork.NewFakeClockAt(time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC)))
	orders, defects := render.NewSurface(), render.NewSurface()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	return New(log, store, p, orders, defects), orders, defects
}

func ids(orders []storage.Order) []string {
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ID)
	}
	return out
}

func TestCriteria_Match(t *testing.T) {
	o := storage.Order{ID: "PO-2024-00123", Product: "Контроллер PLC-100", Article: "PLC-100-01", Status: storage.OrderInProgress, Priority: storage.PriorityHigh}

	tests := []struct {
		name string
		c    Criteria
		want bool
	}{
		{"defaults", Default(), true},
		{"search id", Criteria{Status: All, Priority: All, Search: "00123"}, true},
		{"search product case-insensitive", Criteria{Status: All, Priority: All, Search: "контроллер"}, true},
		{"search article", Criteria{Status: All, Priority: All, Search: "plc-100-01"}, true},
		{"search miss", Criteria{Status: All, Priority: All, Search: "датчик"}, false},
		{"status match", Criteria{Status: "in_progress", Priority: All}, true},
		{"status miss", Criteria{Status: "paused", Priority: All}, false},
		{"priority miss", Criteria{Status: All, Priority: "low"}, false},
		{"search longer than every field", Criteria{Status: All, Priority: All, Search: strings.Repeat("PO-2024-00123", 10)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.c.Match(o))
		})
	}
}

// inOrder reports whether sub appears in all with the same relative order.
func inOrder(sub, all []storage.Order) bool {
	i := 0
	for _, o := range all {
		if i < len(sub) && sub[i].ID == o.ID {
			i++
		}
	}
	return i == len(sub)
}

func TestOrders_IsStableSubset(t *testing.T) {
	store := memory.New(clockwork.NewFakeClock())
	all, err := store.ListOrders(context.Background())
	require.NoError(t, err)

	tests := []struct {
		name string
		c    Criteria
		want []string
	}{
		{"defaults", Default(), []string{"PO-2024-00123", "PO-2024-00124", "PO-2024-00125", "PO-2024-00126", "PO-2024-00127"}},
		{"status planned", Criteria{Status: "planned", Priority: All}, []string{"PO-2024-00124"}},
		{"status in_progress", Criteria{Status: "in_progress", Priority: All}, []string{"PO-2024-00123", "PO-2024-00125"}},
		{"status paused", Criteria{Status: "paused", Priority: All}, []string{"PO-2024-00126"}},
		{"status completed", Criteria{Status: "completed", Priority: All}, []string{"PO-2024-00127"}},
		{"priority high", Criteria{Status: All, Priority: "high"}, []string{"PO-2024-00123", "PO-2024-00125"}},
		{"priority low", Criteria{Status: All, Priority: "low"}, []string{"PO-2024-00126"}},
		{"search article case-insensitive", Criteria{Status: All, Priority: All, Search: "sensor"}, []string{"PO-2024-00124"}},
		{"search and status", Criteria{Status: "in_progress", Priority: "high", Search: "модуль"}, []string{"PO-2024-00125"}},
		{"search too long", Criteria{Status: All, Priority: All, Search: strings.Repeat("PO-2024-00123", 10)}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Orders(all, tt.c)

			if diff := cmp.Diff(tt.want, ids(got)); diff != "" {
				t.Errorf("filtered ids (-want +got):\n%s", diff)
			}
			assert.True(t, inOrder(got, all), "result is not in store order")
			for _, o := range got {
				assert.True(t, tt.c.Match(o), "%s does not match", o.ID)
			}
		})
	}

	t.Run("priority medium", func(t *testing.T) {
		got := Orders(all, Criteria{Status: All, Priority: "medium"})
		assert.Len(t, got, 2)
		assert.True(t, inOrder(got, all))
	})
}

func TestSelectChip_CompletedStatus(t *testing.T) {
	e, orders, _ := newEngine(t, prefs.NewMemory())

	c, got, err := e.SelectChip(context.Background(), KeyStatus, "completed")
	require.NoError(t, err)

	assert.Equal(t, Criteria{Status: "completed", Priority: All}, c)
	assert.Equal(t, []string{"PO-2024-00127"}, ids(got))
	nodes := orders.Nodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, "PO-2024-00127", nodes[0].Key)
}

func TestSelectChip_Rejects(t *testing.T) {
	e, _, _ := newEngine(t, prefs.NewMemory())

	_, _, err := e.SelectChip(context.Background(), "color", "red")
	assert.ErrorIs(t, err, ErrUnknownFilter)

	_, _, err = e.SelectChip(context.Background(), KeyPriority, "urgent")
	assert.ErrorIs(t, err, ErrInvalidValue)

	assert.Equal(t, Default(), e.Criteria())
}

func TestSearch_PersistsAndRendersPlaceholder(t *testing.T) {
	p := prefs.NewMemory()
	e, orders, _ := newEngine(t, p)
	ctx := context.Background()

	_, got, err := e.Search(ctx, "нет такого")
	require.NoError(t, err)
	assert.Empty(t, got)

	nodes := orders.Nodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, render.KindPlaceholder, nodes[0].Kind)

	raw, ok, err := p.Get(ctx, StorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"status":"all","priority":"all","search":"нет такого"}`, raw)
}

func TestClear(t *testing.T) {
	e, _, _ := newEngine(t, prefs.NewMemory())
	ctx := context.Background()

	_, _, err := e.SelectChip(ctx, KeyPriority, "low")
	require.NoError(t, err)
	_, _, err = e.Search(ctx, "блок")
	require.NoError(t, err)

	c, got, err := e.Clear(ctx)
	require.NoError(t, err)

	assert.Equal(t, Default(), c)
	assert.Equal(t, Default(), e.Criteria())
	assert.Len(t, got, 5)
}

func TestRestore(t *testing.T) {
	tests := []struct {
		name  string
		saved string
		want  Criteria
		count int
	}{
		{"partial record merges over defaults", `{"priority":"medium"}`, Criteria{Status: All, Priority: "medium"}, 2},
		{"malformed record falls back", `{"status":`, Default(), 5},
		{"full record", `{"status":"paused","priority":"all","search":"PWR"}`, Criteria{Status: "paused", Priority: All, Search: "PWR"}, 1},
		{"unknown enum values reset to all", `{"status":"archived","priority":"urgent","search":"PO-2024"}`, Criteria{Status: All, Priority: All, Search: "PO-2024"}, 5},
		{"empty enum values reset to all", `{"status":"","priority":"","search":""}`, Default(), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := prefs.NewMemory()
			require.NoError(t, p.Set(context.Background(), StorageKey, tt.saved))
			e, _, _ := newEngine(t, p)

			got, err := e.Restore(context.Background())
			require.NoError(t, err)

			assert.Equal(t, tt.want, e.Criteria())
			assert.Len(t, got, tt.count)
		})
	}
}

func TestRestore_NothingSaved(t *testing.T) {
	e, _, _ := newEngine(t, prefs.NewMemory())

	got, err := e.Restore(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Default(), e.Criteria())
	assert.Len(t, got, 5)
}

func TestPersistFailureDoesNotAbort(t *testing.T) {
	p := new(prefsMock)
	p.On("Set", mock.Anything, StorageKey, mock.Anything).Return(errors.New("disk full"))
	e, orders, _ := newEngine(t, p)

	_, got, err := e.SelectChip(context.Background(), KeyStatus, "paused")

	require.NoError(t, err)
	assert.Equal(t, []string{"PO-2024-00126"}, ids(got))
	assert.Len(t, orders.Nodes(), 1)
	p.AssertExpectations(t)
}

func TestFilterDefects(t *testing.T) {
	e, _, defects := newEngine(t, prefs.NewMemory())
	ctx := context.Background()

	got, err := e.FilterDefects(ctx, "critical")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "DEF-002", got[0].ID)
	assert.Len(t, defects.Nodes(), 1)

	got, err = e.FilterDefects(ctx, All)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = e.FilterDefects(ctx, "cosmetic")
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestView_RendersIntoGivenTarget(t *testing.T) {
	e, orders, _ := newEngine(t, prefs.NewMemory())
	ctx := context.Background()

	_, _, err := e.SelectChip(ctx, KeyStatus, "in_progress")
	require.NoError(t, err)

	other := render.NewSurface()
	got, err := e.View(ctx, other)
	require.NoError(t, err)

	assert.Len(t, got, 2)
	assert.Len(t, other.Nodes(), 2)
	assert.Equal(t, []string{"replace"}, orders.Calls())
}

func TestConcurrentClear_RendersEachOrderOnce(t *testing.T) {
	e, orders, _ := newEngine(t, prefs.NewMemory())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := e.Clear(ctx)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	nodes := orders.Nodes()
	require.Len(t, nodes, 5)
	keys := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		keys[n.Key] = true
	}
	assert.Len(t, keys, 5)
}

func TestConcurrentTransitions_StayConsistent(t *testing.T) {
	p := prefs.NewMemory()
	e, orders, _ := newEngine(t, p)
	ctx := context.Background()

	all, err := memory.New(clockwork.NewFakeClock()).ListOrders(ctx)
	require.NoError(t, err)

	statuses := []string{All, "planned", "in_progress", "paused", "completed"}
	searches := []string{"", "PO", "модуль", "-0"}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			var (
				c   Criteria
				got []storage.Order
				err error
			)
			if i%2 == 0 {
				c, got, err = e.SelectChip(ctx, KeyStatus, statuses[i%len(statuses)])
			} else {
				c, got, err = e.Search(ctx, searches[i%len(searches)])
			}
			if !assert.NoError(t, err) {
				return
			}

			// возвращённые заказы соответствуют возвращённым критериям
			assert.Equal(t, ids(Orders(all, c)), ids(got))
		}(i)
	}
	wg.Wait()

	final := e.Criteria()

	raw, ok, err := p.Get(ctx, StorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	var saved Criteria
	require.NoError(t, json.Unmarshal([]byte(raw), &saved))
	assert.Equal(t, final, saved)

	want := ids(Orders(all, final))
	var rendered []string
	for _, n := range orders.Nodes() {
		if n.Kind == render.KindRow {
			rendered = append(rendered, n.Key)
		}
	}
	assert.Equal(t, len(want), len(rendered))
	if len(want) > 0 {
		assert.Equal(t, want, rendered)
	}
}
