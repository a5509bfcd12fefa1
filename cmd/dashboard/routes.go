package main

import (
	"embed"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	getcharts "ems-dashboard/http-server/charts/get"
	getdefects "ems-dashboard/http-server/defects/get"
	savedefects "ems-dashboard/http-server/defects/save"
	getexport "ems-dashboard/http-server/export/get"
	getfilters "ems-dashboard/http-server/filters/get"
	upfilters "ems-dashboard/http-server/filters/update"
	getfragments "ems-dashboard/http-server/fragments/get"
	dismissnotifications "ems-dashboard/http-server/notifications/dismiss"
	getnotifications "ems-dashboard/http-server/notifications/get"
	streamnotifications "ems-dashboard/http-server/notifications/stream"
	getorders "ems-dashboard/http-server/orders/get"
	saveorders "ems-dashboard/http-server/orders/save"
	uporders "ems-dashboard/http-server/orders/update"
	getoverview "ems-dashboard/http-server/overview/get"
	getparameters "ems-dashboard/http-server/parameters/get"
	upparameters "ems-dashboard/http-server/parameters/update"
	getsession "ems-dashboard/http-server/session/get"
	upsession "ems-dashboard/http-server/session/update"
	"ems-dashboard/internal/audio"
	"ems-dashboard/internal/config"
	"ems-dashboard/internal/middleware/auth"
)

//go:embed web
var webFS embed.FS

func routes(cfg config.Config, log *slog.Logger, a *app) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// Заказы
	router.Get("/api/orders", getorders.GetOrders(log, a.store))
	router.Post("/api/orders", saveorders.CreateOrder(log, a.dashboard))
	router.Get("/api/orders/view", getorders.ViewOrders(log, a.filters))
	router.Get("/api/orders/batches", getorders.GetBatches(log, a.dashboard))
	router.Get("/api/orders/{id}", getorders.GetOrder(log, a.dashboard))
	router.Put("/api/orders/{id}", uporders.UpdateOrder(log, a.dashboard))

	// Фильтры
	router.Get("/api/filters", getfilters.GetFilters(log, a.filters))
	router.Put("/api/filters/search", upfilters.Search(log, a.filters))
	router.Put("/api/filters/chip", upfilters.SelectChip(log, a.filters))
	router.Delete("/api/filters", upfilters.Clear(log, a.filters))

	// Параметры и дефекты
	router.Get("/api/parameters", getparameters.GetParameters(log, a.store))
	router.Put("/api/parameters/{id}", upparameters.UpdateParameter(log, a.dashboard))
	router.Get("/api/defects", getdefects.GetDefects(log, a.filters))
	router.Post("/api/defects", savedefects.RegisterDefect(log, a.dashboard))

	router.Get("/api/charts", getcharts.GetCharts(log, a.charts))
	router.Get("/api/overview", getoverview.GetOverview(log, a.dashboard))

	// Уведомления
	router.Get("/api/notifications", getnotifications.GetNotifications(log, a.notifier))
	router.Get("/api/notifications/stream", streamnotifications.Stream(log, a.hub, a.clock, cfg.Notifications.Heartbeat, a.metrics))
	router.Get("/api/notifications/cue.wav", getnotifications.GetCue(log, audio.AlertTone()))
	router.Delete("/api/notifications/{id}", dismissnotifications.Dismiss(log, a.notifier))

	// Сессия
	router.Get("/api/session", getsession.GetSession(log, a.session))
	router.Post("/api/session/login", upsession.Login(log, a.session))
	router.Put("/api/session/role", upsession.SwitchRole(log, a.session))
	router.Post("/api/session/logout", upsession.Logout(log, a.session))

	// Экспорт
	router.Get("/api/export/history.csv", getexport.HistoryCSV(log, a.exporter, a.dashboard))
	router.Get("/api/export/orders.csv", getexport.OrdersCSV(log, a.exporter, a.dashboard))
	router.Get("/api/export/orders.xlsx", getexport.OrdersExcel(log, a.exporter, a.dashboard))

	router.Get("/fragments/{name}", getfragments.GetFragment(log, a.regions))

	adminRouter := chi.NewRouter()
	adminRouter.Use(auth.BasicAuth(cfg.AdminLogin, cfg.AdminPass))
	adminRouter.Handle("/metrics", a.metrics.Handler())
	router.Mount("/admin", adminRouter)

	// Статика
	static, err := fs.Sub(webFS, "web")
	if err != nil {
		// embed гарантирует наличие каталога
		panic(err)
	}
	router.Handle("/*", http.FileServerFS(static))

	return router
}
