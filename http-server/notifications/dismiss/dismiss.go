package dismiss

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Dismisser interface {
	Dismiss(id string) bool
}

// Dismiss closes a notification before its timer does.
func Dismiss(log *slog.Logger, d Dismisser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.notifications.Dismiss"

		id := chi.URLParam(r, "id")
		if !d.Dismiss(id) {
			log.With(slog.String("op", op), slog.String("id", id)).Debug("Notification already gone")
			http.Error(w, "Notification not found", http.StatusNotFound)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
