package get

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"ems-dashboard/internal/service/simulator"
)

type ChartsProvider interface {
	Snapshot() []simulator.Chart
}

type ResponseCharts struct {
	Charts []simulator.Chart `json:"charts"`
}

func GetCharts(log *slog.Logger, provider ChartsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, ResponseCharts{Charts: provider.Snapshot()})
	}
}
