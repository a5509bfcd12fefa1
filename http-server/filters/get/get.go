package get

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"ems-dashboard/internal/service/filter"
)

type CriteriaProvider interface {
	Criteria() filter.Criteria
}

func GetFilters(log *slog.Logger, provider CriteriaProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, provider.Criteria())
	}
}
