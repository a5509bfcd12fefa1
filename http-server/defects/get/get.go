package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"ems-dashboard/internal/service/filter"
	"ems-dashboard/internal/storage"
)

type DefectsFilter interface {
	FilterDefects(ctx context.Context, severity string) ([]storage.Defect, error)
}

type ResponseDefects struct {
	Severity string           `json:"severity"`
	Defects  []storage.Defect `json:"defects"`
}

// GetDefects lists defects, optionally narrowed by ?severity=.
func GetDefects(log *slog.Logger, f DefectsFilter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.defects.GetDefects"

		severity := r.URL.Query().Get("severity")
		if severity == "" {
			severity = filter.All
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		defects, err := f.FilterDefects(ctx, severity)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to fetch defects")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, ResponseDefects{Severity: severity, Defects: defects})
	}
}
