package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"ems-dashboard/internal/service/dashboard"
	"ems-dashboard/internal/storage"
)

type OrderUpdater interface {
	UpdateOrder(ctx context.Context, id string, patch storage.OrderPatch) (storage.Order, error)
}

// UpdateOrder applies a partial edit; omitted fields stay as they are.
func UpdateOrder(log *slog.Logger, updater OrderUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.UpdateOrder"

		id := chi.URLParam(r, "id")

		var patch storage.OrderPatch
		if err := render.DecodeJSON(r.Body, &patch); err != nil {
			http.Error(w, "ошибка парсинга JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		order, err := updater.UpdateOrder(ctx, id, patch)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		case errors.Is(err, dashboard.ErrInvalidInput):
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		case err != nil:
			log.With(slog.String("op", op), slog.String("id", id), slog.String("error", err.Error())).Error("Failed to update order")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, order)
	}
}
