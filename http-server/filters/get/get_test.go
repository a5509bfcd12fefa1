package get

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"ems-dashboard/internal/service/filter"
)

type fixedCriteria filter.Criteria

func (f fixedCriteria) Criteria() filter.Criteria { return filter.Criteria(f) }

func TestGetFilters(t *testing.T) {
	provider := fixedCriteria{Status: "paused", Priority: filter.All, Search: "ПЛК"}

	rr := httptest.NewRecorder()
	GetFilters(slog.Default(), provider).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/filters", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"paused","priority":"all","search":"ПЛК"}`, rr.Body.String())
}
