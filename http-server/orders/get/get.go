package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	emsrender "ems-dashboard/internal/render"
	"ems-dashboard/internal/storage"
)

type OrdersProvider interface {
	ListOrders(ctx context.Context) ([]storage.Order, error)
}

type OrderProvider interface {
	Order(ctx context.Context, id string) (storage.Order, error)
}

type BatchesProvider interface {
	Batches(ctx context.Context) ([]string, error)
}

type OrdersViewer interface {
	View(ctx context.Context, t emsrender.Target) ([]storage.Order, error)
}

type ResponseOrders struct {
	Orders []storage.Order `json:"orders"`
}

type ResponseView struct {
	Orders []storage.Order  `json:"orders"`
	Rows   []emsrender.Node `json:"rows"`
}

type ResponseBatches struct {
	Batches []string `json:"batches"`
}

func GetOrders(log *slog.Logger, provider OrdersProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.GetOrders"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		orders, err := provider.ListOrders(ctx)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to fetch orders")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, ResponseOrders{Orders: orders})
	}
}

func GetOrder(log *slog.Logger, provider OrderProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.GetOrder"

		id := chi.URLParam(r, "id")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		order, err := provider.Order(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				log.With(slog.String("op", op), slog.String("id", id)).Warn("Order not found")
				http.Error(w, "Order not found", http.StatusNotFound)
				return
			}

			log.With(slog.String("op", op), slog.String("id", id), slog.String("error", err.Error())).Error("Failed to fetch order")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, order)
	}
}

// GetBatches returns the batch numbers offered by the defect form.
func GetBatches(log *slog.Logger, provider BatchesProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.GetBatches"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		batches, err := provider.Batches(ctx)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to fetch batches")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, ResponseBatches{Batches: batches})
	}
}

// ViewOrders returns the filtered orders together with their rendered rows.
func ViewOrders(log *slog.Logger, viewer OrdersViewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.ViewOrders"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		surface := emsrender.NewSurface()
		orders, err := viewer.View(ctx, surface)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to render orders")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, ResponseView{Orders: orders, Rows: surface.Nodes()})
	}
}
