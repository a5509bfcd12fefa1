package stream

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"ems-dashboard/internal/metrics"
	"ems-dashboard/internal/sse"
)

const (
	EventConnected = "connected"
	clientBuffer   = 64
)

type Hub interface {
	Register(client *sse.Client)
	Unregister(clientID string)
	Count() int
}

// Stream pushes dispatcher events to the browser as Server-Sent Events.
// A comment line is written every heartbeat to keep proxies from closing
// an idle connection.
func Stream(log *slog.Logger, hub Hub, clock clockwork.Clock, heartbeat time.Duration, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.notifications.Stream"

		if _, ok := w.(http.Flusher); !ok {
			http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
			return
		}

		// the server write timeout would cut the stream
		_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

		client := sse.NewClient(uuid.NewString(), clientBuffer)
		hub.Register(client)
		m.SSEClients(hub.Count())

		log := log.With(slog.String("op", op), slog.String("client", client.ID))
		log.Info("SSE client connected")

		defer func() {
			hub.Unregister(client.ID)
			m.SSEClients(hub.Count())
			log.Info("SSE client disconnected")
		}()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")

		hello := sse.Event{EventType: EventConnected, Data: fmt.Sprintf(`{"client_id":%q}`, client.ID)}
		if _, err := hello.WriteTo(w); err != nil {
			return
		}
		sse.Flush(w)

		ticker := clock.NewTicker(heartbeat)
		defer ticker.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case event, ok := <-client.Events:
				if !ok {
					return
				}
				if _, err := event.WriteTo(w); err != nil {
					log.Debug("write failed", slog.String("error", err.Error()))
					return
				}
				sse.Flush(w)
			case <-ticker.Chan():
				if _, err := fmt.Fprint(w, ": heartbeat\n\n"); err != nil {
					return
				}
				sse.Flush(w)
			}
		}
	}
}
