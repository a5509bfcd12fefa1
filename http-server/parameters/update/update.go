package update

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"ems-dashboard/internal/storage"
)

type ParameterUpdater interface {
	UpdateParameter(ctx context.Context, id string, value float64) (storage.Parameter, error)
}

type Request struct {
	Value *float64 `json:"value"`
}

// UpdateParameter is the manual entry from the parameter modal. The value is
// stored without clamping.
func UpdateParameter(log *slog.Logger, updater ParameterUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.parameters.UpdateParameter"

		id := chi.URLParam(r, "id")

		var req Request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			http.Error(w, "ошибка парсинга JSON", http.StatusBadRequest)
			return
		}
		if req.Value == nil || math.IsNaN(*req.Value) || math.IsInf(*req.Value, 0) {
			http.Error(w, "value must be a number", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		param, err := updater.UpdateParameter(ctx, id, *req.Value)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "Parameter not found", http.StatusNotFound)
				return
			}

			log.With(slog.String("op", op), slog.String("id", id), slog.String("error", err.Error())).Error("Failed to update parameter")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, param)
	}
}
