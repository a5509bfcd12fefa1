package get

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ems-dashboard/internal/service/simulator"
)

func TestGetCharts(t *testing.T) {
	charts := simulator.NewCharts(simulator.NewRand(7))

	rr := httptest.NewRecorder()
	GetCharts(slog.Default(), charts).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/charts", nil))

	require.Equal(t, http.StatusOK, rr.Code)

	var resp ResponseCharts
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	ids := make([]string, 0, len(resp.Charts))
	for _, c := range resp.Charts {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"oee", "defects", "downtime", "line", "pie", "defects_by_operation", "defects_by_type"}, ids)
}
