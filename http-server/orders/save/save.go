package save

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"ems-dashboard/internal/service/dashboard"
	"ems-dashboard/internal/storage"
)

type OrderCreator interface {
	CreateOrder(ctx context.Context, req storage.NewOrder) (storage.Order, error)
}

func CreateOrder(log *slog.Logger, creator OrderCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.CreateOrder"

		var req storage.NewOrder
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Warn("Invalid request body")
			http.Error(w, "ошибка парсинга JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		order, err := creator.CreateOrder(ctx, req)
		if err != nil {
			if errors.Is(err, dashboard.ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}

			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to create order")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		log.With(slog.String("op", op), slog.String("id", order.ID)).Info("Order created")

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, order)
	}
}
