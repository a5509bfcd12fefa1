package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"ems-dashboard/internal/audio"
	"ems-dashboard/internal/clock"
	"ems-dashboard/internal/config"
	"ems-dashboard/internal/metrics"
	"ems-dashboard/internal/render"
	"ems-dashboard/internal/service/dashboard"
	"ems-dashboard/internal/service/export"
	"ems-dashboard/internal/service/filter"
	"ems-dashboard/internal/service/notify"
	"ems-dashboard/internal/service/session"
	"ems-dashboard/internal/service/simulator"
	"ems-dashboard/internal/sse"
	"ems-dashboard/internal/storage/memory"
	"ems-dashboard/internal/storage/prefs"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

const (
	errorLogPath       = "errors.log"
	cueURL             = "/api/notifications/cue.wav"
	startupDelay       = 2 * time.Second
	lastUpdateInterval = time.Minute
	shutdownTimeout    = 5 * time.Second
)

func main() {
	cfg := config.MustConfig()

	log, closeLog := setupLogger(cfg.Env, errorLogPath)
	defer closeLog()

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", slog.String("error", err.Error()))
		closeLog()
		os.Exit(1)
	}

	log.Info("server stopped")
}

// app is everything the router needs.
type app struct {
	clock     clockwork.Clock
	store     *memory.Storage
	dashboard *dashboard.Service
	filters   *filter.Engine
	session   *session.Session
	notifier  *notify.Dispatcher
	hub       *sse.Hub
	charts    *simulator.Charts
	exporter  *export.Service
	metrics   *metrics.Metrics
	regions   map[string]io.WriterTo
}

// live holds the server-side renderings of each dashboard region.
type live struct {
	activeOrders    *render.HTMLTarget
	orders          *render.HTMLTarget
	parameters      *render.HTMLTarget
	defects         *render.HTMLTarget
	filteredDefects *render.HTMLTarget
	notifications   *render.HTMLTarget
	lastUpdate      *render.HTMLTarget
}

func newLive() live {
	return live{
		activeOrders:    render.NewHTMLTarget(),
		orders:          render.NewHTMLTarget(),
		parameters:      render.NewHTMLTarget(),
		defects:         render.NewHTMLTarget(),
		filteredDefects: render.NewHTMLTarget(),
		notifications:   render.NewHTMLTarget(),
		lastUpdate:      render.NewHTMLTarget(),
	}
}

func (l live) regions() map[string]io.WriterTo {
	return map[string]io.WriterTo{
		"active-orders":    l.activeOrders,
		"orders":           l.orders,
		"parameters":       l.parameters,
		"defects":          l.defects,
		"filtered-defects": l.filteredDefects,
		"notifications":    l.notifications,
		"last-update":      render.TextRegion{Target: l.lastUpdate},
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clk := clockwork.NewRealClock()

	prefStore, err := prefs.New(cfg.Storage)
	if err != nil {
		return fmt.Errorf("open preferences: %w", err)
	}
	defer prefStore.Close()

	store := memory.New(clk)
	m := metrics.New()
	hub := sse.NewHub(log)
	views := newLive()

	notifier := notify.New(log, clk,
		notify.WithPublisher(hub),
		notify.WithCue(audio.NewCue(hub, cueURL)),
		notify.WithTarget(views.notifications),
		notify.WithMetrics(m),
		notify.WithDefaultTTL(cfg.Notifications.TTL),
	)
	defer notifier.Close()

	filters := filter.New(log, store, prefStore, views.orders, views.filteredDefects)
	sess := session.New(log, prefStore)
	dash := dashboard.New(log, clk, store, notifier, filters, dashboard.Views{
		ActiveOrders: views.activeOrders,
		Parameters:   views.parameters,
		Defects:      views.defects,
		LastUpdate:   views.lastUpdate,
	}, m)

	rng := simulator.NewRand(cfg.Simulator.Seed)
	sim := simulator.New(log, store, notifier, rng,
		simulator.WithTarget(views.parameters),
		simulator.WithMetrics(m),
		simulator.WithCriticalChance(cfg.Simulator.CriticalNotifyChance),
	)
	charts := simulator.NewCharts(rng)
	announcer := simulator.NewAnnouncer(log, clk, notifier, rng)
	defer announcer.Stop()

	if _, err := filters.Restore(ctx); err != nil {
		return fmt.Errorf("restore filters: %w", err)
	}
	if state, err := sess.Restore(ctx); err != nil {
		log.Warn("failed to restore session", slog.String("error", err.Error()))
	} else if state.LoggedIn {
		log.Info("session restored", slog.String("user", state.User), slog.String("role", state.Role))
	}
	if err := dash.Refresh(ctx); err != nil {
		return fmt.Errorf("initial render: %w", err)
	}
	if _, err := filters.FilterDefects(ctx, filter.All); err != nil {
		return fmt.Errorf("initial render: %w", err)
	}

	sched := clock.NewScheduler(clk, log)
	sched.Every("parameters", cfg.Simulator.Interval, sim.Run)
	sched.Every("charts", cfg.Simulator.ChartInterval, func(ctx context.Context) {
		charts.Jitter(ctx)
		m.SimulatorTick("charts")
	})
	sched.Every("announcements", cfg.Simulator.AnnounceInterval, announcer.Random)
	sched.After("startup", startupDelay, announcer.Startup)
	sched.Every("last-update", lastUpdateInterval, dash.TouchLastUpdate)

	a := &app{
		clock:     clk,
		store:     store,
		dashboard: dash,
		filters:   filters,
		session:   sess,
		notifier:  notifier,
		hub:       hub,
		charts:    charts,
		exporter:  export.NewService(store),
		metrics:   m,
		regions:   views.regions(),
	}

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      routes(*cfg, log, a),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
		// event streams end with the process context
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return sched.Run(gCtx)
	})

	g.Go(func() error {
		log.Info("server started", slog.String("address", cfg.Address), slog.String("env", cfg.Env))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen %s: %w", cfg.Address, err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// dualHandler writes every record to the core handler and copies errors to
// a separate file.
type dualHandler struct {
	coreHandler  slog.Handler
	errorHandler slog.Handler
}

func (h *dualHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.coreHandler.Enabled(ctx, lvl) || h.errorHandler.Enabled(ctx, lvl)
}

func (h *dualHandler) Handle(ctx context.Context, r slog.Record) error {
	var err error

	if h.coreHandler.Enabled(ctx, r.Level) {
		err = h.coreHandler.Handle(ctx, r)
	}

	// ошибка записи в файл не должна ронять основной лог
	if r.Level >= slog.LevelError && h.errorHandler.Enabled(ctx, r.Level) {
		_ = h.errorHandler.Handle(ctx, r.Clone())
	}

	return err
}

func (h *dualHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &dualHandler{
		coreHandler:  h.coreHandler.WithAttrs(attrs),
		errorHandler: h.errorHandler.WithAttrs(attrs),
	}
}

func (h *dualHandler) WithGroup(name string) slog.Handler {
	return &dualHandler{
		coreHandler:  h.coreHandler.WithGroup(name),
		errorHandler: h.errorHandler.WithGroup(name),
	}
}

// setupLogger picks the stdout format by env and mirrors errors into
// errorPath. The returned func closes that file.
func setupLogger(env, errorPath string) (*slog.Logger, func()) {
	level := slog.LevelDebug
	if env == envProd {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var coreHandler slog.Handler
	switch env {
	case envDev:
		coreHandler = slog.NewJSONHandler(os.Stdout, opts)
	case envLocal, envProd:
		coreHandler = slog.NewTextHandler(os.Stdout, opts)
	default:
		coreHandler = slog.NewTextHandler(os.Stdout, opts)
	}

	errorFile, err := os.OpenFile(errorPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logger := slog.New(coreHandler)
		logger.Warn("cannot open error log file", slog.String("path", errorPath), slog.String("error", err.Error()))
		return logger, func() {}
	}

	handler := &dualHandler{
		coreHandler:  coreHandler,
		errorHandler: slog.NewTextHandler(errorFile, &slog.HandlerOptions{Level: slog.LevelError}),
	}

	return slog.New(handler), func() { _ = errorFile.Close() }
}
