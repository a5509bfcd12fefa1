package simulator

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"ems-dashboard/internal/render"
	"ems-dashboard/internal/service/notify"
	"ems-dashboard/internal/storage"
	"ems-dashboard/internal/storage/memory"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// script replays fixed values in a loop.
type script struct {
	mu     sync.Mutex
	values []float64
	i      int
}

func newScript(values ...float64) *script {
	return &script{values: values}
}

func (s *script) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.values[s.i%len(s.values)]
	s.i++
	return v
}

type notifierMock struct {
	mock.Mock
}

func (m *notifierMock) Notify(ctx context.Context, kind notify.Kind, title, message string, ttl time.Duration) notify.Notification {
	args := m.Called(ctx, kind, title, message, ttl)
	return args.Get(0).(notify.Notification)
}

type recordingNotifier struct {
	mu     sync.Mutex
	titles []string
	kinds  []notify.Kind
}

func (r *recordingNotifier) Notify(_ context.Context, kind notify.Kind, title, _ string, _ time.Duration) notify.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.titles = append(r.titles, title)
	r.kinds = append(r.kinds, kind)
	return notify.Notification{Kind: kind, Title: title}
}

func (r *recordingNotifier) Titles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.titles...)
}

type sliceStore struct {
	params []storage.Parameter
}

func (s *sliceStore) UpdateParameters(_ context.Context, fn func(storage.Parameter) storage.Parameter) ([]storage.Parameter, error) {
	for i, p := range s.params {
		s.params[i] = fn(p)
	}
	return append([]storage.Parameter(nil), s.params...), nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStep(t *testing.T) {
	p := storage.Parameter{Min: 230, Max: 260, WarningMin: 235, WarningMax: 255, Value: 250}

	tests := []struct {
		name   string
		delta  float64
		value  float64
		status storage.ParameterStatus
	}{
		{"stays normal", 1, 251, storage.ParameterNormal},
		{"enters warning band", 6, 256, storage.ParameterWarning},
		{"clamped to max is critical", 40, 260, storage.ParameterCritical},
		{"clamped to min is critical", -40, 230, storage.ParameterCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Step(p, tt.delta)
			assert.Equal(t, tt.value, got.Value)
			assert.Equal(t, tt.status, got.Status)
		})
	}
}

func TestTick_NoDriftKeepsSeed(t *testing.T) {
	store := memory.New(clockwork.NewFakeClock())
	surface := render.NewSurface()
	s := New(discardLogger(), store, new(notifierMock), newScript(0.5), WithTarget(surface))

	params, err := s.Tick(context.Background())
	require.NoError(t, err)

	require.Len(t, params, 4)
	assert.Equal(t, 245.0, params[0].Value)
	for _, p := range params {
		assert.Equal(t, storage.ParameterNormal, p.Status)
	}
	assert.Len(t, surface.Nodes(), 4)
}

func TestTick_ValuesStayInRange(t *testing.T) {
	store := memory.New(clockwork.NewFakeClock())
	s := New(discardLogger(), store, &recordingNotifier{}, NewRand(42))

	for range 500 {
		params, err := s.Tick(context.Background())
		require.NoError(t, err)

		for _, p := range params {
			require.GreaterOrEqual(t, p.Value, p.Min, p.ID)
			require.LessOrEqual(t, p.Value, p.Max, p.ID)
			require.Equal(t, p.Classify(p.Value), p.Status, p.ID)
		}
	}
}

func TestTick_SaturatesWithoutNotifyingAboveChance(t *testing.T) {
	store := memory.New(clockwork.NewFakeClock())
	s := New(discardLogger(), store, new(notifierMock), newScript(0.999))

	var params []storage.Parameter
	for range 40 {
		var err error
		params, err = s.Tick(context.Background())
		require.NoError(t, err)
	}

	for _, p := range params {
		assert.Equal(t, p.Max, p.Value, p.ID)
		assert.Equal(t, storage.ParameterCritical, p.Status, p.ID)
	}
}

func TestTick_CriticalNotifies(t *testing.T) {
	store := &sliceStore{params: []storage.Parameter{
		{ID: "pressure", Name: "Давление", Unit: "бар", Min: 0, Max: 10, WarningMin: 2, WarningMax: 8, Value: 9.9},
	}}
	n := new(notifierMock)
	n.On("Notify", mock.Anything, notify.KindError,
		"Критическое значение параметра",
		`Параметр "Давление" вышел за пределы нормы: 10бар`,
		time.Duration(0),
	).Return(notify.Notification{}).Once()

	s := New(discardLogger(), store, n, newScript(1.0, 0.1))

	params, err := s.Tick(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 10.0, params[0].Value)
	n.AssertExpectations(t)
}

func TestTick_CriticalChanceZero(t *testing.T) {
	store := &sliceStore{params: []storage.Parameter{
		{ID: "p", Min: 0, Max: 10, WarningMin: 2, WarningMax: 8, Value: 10},
	}}

	s := New(discardLogger(), store, new(notifierMock), newScript(0.5, 0.0), WithCriticalChance(0))

	_, err := s.Tick(context.Background())
	require.NoError(t, err)
}

func TestRenormalize(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want []float64
	}{
		{"already whole", []float64{45, 25, 15, 15}, []float64{45, 25, 15, 15}},
		{"thirds", []float64{1, 1, 1}, []float64{34, 33, 33}},
		{"largest remainder wins", []float64{46.2, 24.1, 15.3, 15.4}, []float64{46, 24, 15, 15}},
		{"zero total", []float64{0, 0}, []float64{50, 50}},
		{"empty", nil, []float64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Renormalize(tt.in))
		})
	}
}

func TestCharts_Jitter(t *testing.T) {
	c := NewCharts(NewRand(7))

	for range 200 {
		c.Jitter(context.Background())

		var sum float64
		for _, v := range c.Pie() {
			sum += v
		}
		require.Equal(t, 100.0, sum)

		for _, v := range c.Fact() {
			require.GreaterOrEqual(t, v, 80.0)
			require.LessOrEqual(t, v, 95.0)
		}
	}
}

func TestCharts_Snapshot(t *testing.T) {
	c := NewCharts(newScript(0.5))
	c.Jitter(context.Background())

	charts := c.Snapshot()
	byID := make(map[string]Chart, len(charts))
	for _, ch := range charts {
		byID[ch.ID] = ch
	}

	require.Contains(t, byID, "line")
	assert.Equal(t, []string{"L-01", "L-02", "L-03", "L-04", "L-05", "L-06"}, byID["line"].Labels)
	assert.Equal(t, []float64{93, 90, 85, 88, 82, 84}, byID["line"].Series[1].Data)
	assert.Equal(t, []float64{45, 25, 15, 15}, byID["pie"].Series[0].Data)
	assert.Len(t, byID["oee"].Series[0].Data, 20)

	// snapshot data is a copy
	byID["pie"].Series[0].Data[0] = 0
	assert.Equal(t, 45.0, c.Pie()[0])
}

func TestAnnouncer_StartupWithFollowUp(t *testing.T) {
	fc := clockwork.NewFakeClock()
	rec := &recordingNotifier{}
	a := NewAnnouncer(discardLogger(), fc, rec, newScript(0.9))
	defer a.Stop()

	a.Startup(context.Background())
	assert.Equal(t, []string{"Система запущена"}, rec.Titles())

	fc.Advance(3 * time.Second)
	assert.Eventually(t, func() bool { return len(rec.Titles()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "Параметр близок к границе", rec.Titles()[1])
}

func TestAnnouncer_StartupWithoutFollowUp(t *testing.T) {
	fc := clockwork.NewFakeClock()
	rec := &recordingNotifier{}
	a := NewAnnouncer(discardLogger(), fc, rec, newScript(0.2))

	a.Startup(context.Background())
	fc.Advance(time.Minute)

	assert.Equal(t, []string{"Система запущена"}, rec.Titles())
}

func TestAnnouncer_Random(t *testing.T) {
	rec := &recordingNotifier{}
	a := NewAnnouncer(discardLogger(), clockwork.NewFakeClock(), rec, newScript(0.6, 0.1, 0.1, 0.5))

	a.Random(context.Background())
	a.Random(context.Background())

	assert.Equal(t, []string{"Обнаружен дефект"}, rec.Titles())
	assert.Equal(t, []notify.Kind{notify.KindError}, rec.kinds)
}
