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

type DefectRegistrar interface {
	RegisterDefect(ctx context.Context, req storage.NewDefect) (storage.Defect, error)
}

func RegisterDefect(log *slog.Logger, registrar DefectRegistrar) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.defects.RegisterDefect"

		var req storage.NewDefect
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			http.Error(w, "ошибка парсинга JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		defect, err := registrar.RegisterDefect(ctx, req)
		if err != nil {
			if errors.Is(err, dashboard.ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}

			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to register defect")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		log.With(slog.String("op", op), slog.String("id", defect.ID), slog.String("severity", string(defect.Severity))).Info("Defect registered")

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, defect)
	}
}
