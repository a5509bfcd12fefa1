package get

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"ems-dashboard/internal/audio"
	"ems-dashboard/internal/service/notify"
)

type ActiveProvider interface {
	Active() []notify.Notification
}

type ResponseNotifications struct {
	Notifications []notify.Notification `json:"notifications"`
}

// GetNotifications lists the visible stack, oldest first.
func GetNotifications(log *slog.Logger, provider ActiveProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, ResponseNotifications{Notifications: provider.Active()})
	}
}

// GetCue serves the alert tone played for error notifications.
func GetCue(log *slog.Logger, tone audio.Tone) http.HandlerFunc {
	const op = "handlers.notifications.GetCue"

	wav, err := tone.WAV()
	if err != nil {
		log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to synthesize alert tone")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if len(wav) == 0 {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "audio/wav")
		w.Header().Set("Cache-Control", "public, max-age=86400")
		_, _ = w.Write(wav)
	}
}
