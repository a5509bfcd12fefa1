package get

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// GetFragment serves the current rendering of a dashboard region as an HTML
// fragment so the page can swap it in place.
func GetFragment(log *slog.Logger, regions map[string]io.WriterTo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.fragments.GetFragment"

		name := chi.URLParam(r, "name")
		region, ok := regions[name]
		if !ok {
			http.Error(w, "Fragment not found", http.StatusNotFound)
			return
		}

		var buf bytes.Buffer
		if _, err := region.WriteTo(&buf); err != nil {
			log.With(slog.String("op", op), slog.String("fragment", name), slog.String("error", err.Error())).Error("Failed to render fragment")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(buf.Bytes())
	}
}
