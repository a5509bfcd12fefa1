// Package metrics exposes dashboard counters in Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ems_dashboard"

// Metrics methods are safe on a nil receiver so components can run without
// a registry in tests.
type Metrics struct {
	reg *prometheus.Registry

	simulatorTicks    *prometheus.CounterVec
	notifications     *prometheus.CounterVec
	activeNotices     prometheus.Gauge
	ordersCreated     prometheus.Counter
	defectsRegistered *prometheus.CounterVec
	parameterStatus   *prometheus.GaugeVec
	sseClients        prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		simulatorTicks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulator_ticks_total",
			Help:      "Simulator ticks by job.",
		}, []string{"job"}),
		notifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Dispatched notifications by kind.",
		}, []string{"kind"}),
		activeNotices: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "notifications_active",
			Help:      "Notifications currently on screen.",
		}),
		ordersCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Orders created through the form.",
		}),
		defectsRegistered: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "defects_registered_total",
			Help:      "Registered defects by severity.",
		}, []string{"severity"}),
		parameterStatus: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "parameters",
			Help:      "Process parameters by current status.",
		}, []string{"status"}),
		sseClients: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sse_clients",
			Help:      "Connected live-update clients.",
		}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

func (m *Metrics) SimulatorTick(job string) {
	if m == nil {
		return
	}
	m.simulatorTicks.WithLabelValues(job).Inc()
}

func (m *Metrics) NotificationDispatched(kind string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(kind).Inc()
}

func (m *Metrics) ActiveNotifications(n int) {
	if m == nil {
		return
	}
	m.activeNotices.Set(float64(n))
}

func (m *Metrics) OrderCreated() {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
}

func (m *Metrics) DefectRegistered(severity string) {
	if m == nil {
		return
	}
	m.defectsRegistered.WithLabelValues(severity).Inc()
}

// ParameterStatuses replaces the per-status parameter counts.
func (m *Metrics) ParameterStatuses(counts map[string]int) {
	if m == nil {
		return
	}
	m.parameterStatus.Reset()
	for status, n := range counts {
		m.parameterStatus.WithLabelValues(status).Set(float64(n))
	}
}

func (m *Metrics) SSEClients(n int) {
	if m == nil {
		return
	}
	m.sseClients.Set(float64(n))
}
