package get

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ems-dashboard/internal/storage"
	"ems-dashboard/internal/storage/memory"
)

func TestGetParameters(t *testing.T) {
	rr := httptest.NewRecorder()
	GetParameters(slog.Default(), memory.New(clockwork.NewFakeClock())).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/parameters", nil))

	require.Equal(t, http.StatusOK, rr.Code)

	var resp ResponseParameters
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Parameters)
	for _, p := range resp.Parameters {
		assert.Equal(t, p.Classify(p.Value), p.Status, p.ID)
		assert.NotEqual(t, storage.ParameterStatus(""), p.Status)
	}
}
