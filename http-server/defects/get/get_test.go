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

	"ems-dashboard/internal/service/filter"
	"ems-dashboard/internal/storage/memory"
	"ems-dashboard/internal/storage/prefs"
)

func TestGetDefects(t *testing.T) {
	engine := filter.New(slog.Default(), memory.New(clockwork.NewFakeClock()), prefs.NewMemory(), nil, nil)
	handler := GetDefects(slog.Default(), engine)

	tests := []struct {
		query    string
		severity string
		ids      []string
	}{
		{"", "all", []string{"DEF-001", "DEF-002", "DEF-003"}},
		{"?severity=critical", "critical", []string{"DEF-002"}},
		{"?severity=minor", "minor", []string{"DEF-003"}},
		// неизвестная важность не фильтрует
		{"?severity=extreme", "extreme", []string{"DEF-001", "DEF-002", "DEF-003"}},
	}

	for _, tt := range tests {
		t.Run(tt.severity, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/defects"+tt.query, nil))
			require.Equal(t, http.StatusOK, rr.Code)

			var resp ResponseDefects
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.severity, resp.Severity)

			var ids []string
			for _, d := range resp.Defects {
				ids = append(ids, d.ID)
			}
			assert.Equal(t, tt.ids, ids)
		})
	}
}
