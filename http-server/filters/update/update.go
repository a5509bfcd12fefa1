package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"ems-dashboard/internal/service/filter"
	"ems-dashboard/internal/storage"
)

type FilterEngine interface {
	Search(ctx context.Context, text string) (filter.Criteria, []storage.Order, error)
	SelectChip(ctx context.Context, key, value string) (filter.Criteria, []storage.Order, error)
	Clear(ctx context.Context) (filter.Criteria, []storage.Order, error)
}

// Response carries the criteria the orders were filtered with.
type Response struct {
	Criteria filter.Criteria `json:"criteria"`
	Orders   []storage.Order `json:"orders"`
}

type searchRequest struct {
	Search string `json:"search"`
}

type chipRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func Search(log *slog.Logger, engine FilterEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.filters.Search"

		var req searchRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			http.Error(w, "ошибка парсинга JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		criteria, orders, err := engine.Search(ctx, req.Search)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to apply search")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, Response{Criteria: criteria, Orders: orders})
	}
}

func SelectChip(log *slog.Logger, engine FilterEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.filters.SelectChip"

		var req chipRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			http.Error(w, "ошибка парсинга JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		criteria, orders, err := engine.SelectChip(ctx, req.Key, req.Value)
		if err != nil {
			if errors.Is(err, filter.ErrUnknownFilter) || errors.Is(err, filter.ErrInvalidValue) {
				log.With(slog.String("op", op), slog.String("key", req.Key), slog.String("value", req.Value)).Warn("Rejected filter chip")
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}

			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to apply filter")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, Response{Criteria: criteria, Orders: orders})
	}
}

func Clear(log *slog.Logger, engine FilterEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.filters.Clear"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		criteria, orders, err := engine.Clear(ctx)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to clear filters")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, Response{Criteria: criteria, Orders: orders})
	}
}
