package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"ems-dashboard/internal/storage"
)

type ParametersProvider interface {
	ListParameters(ctx context.Context) ([]storage.Parameter, error)
}

type ResponseParameters struct {
	Parameters []storage.Parameter `json:"parameters"`
}

func GetParameters(log *slog.Logger, provider ParametersProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.parameters.GetParameters"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		params, err := provider.ListParameters(ctx)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to fetch parameters")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, ResponseParameters{Parameters: params})
	}
}
