package update

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ems-dashboard/internal/service/session"
	"ems-dashboard/internal/storage/prefs"
)

func TestLoginSwitchLogout(t *testing.T) {
	store := prefs.NewMemory()
	s := session.New(slog.Default(), store)

	// вход с пустым именем
	rr := httptest.NewRecorder()
	Login(slog.Default(), s).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/session/login", strings.NewReader(`{"username":"","password":"x","role":"quality"}`)))
	require.Equal(t, http.StatusOK, rr.Code)

	var login ResponseRedirect
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &login))
	assert.Equal(t, session.HomePage, login.Redirect)
	assert.Equal(t, session.DefaultUser, login.State.User)
	assert.Equal(t, "Специалист ОТК", login.State.Role)

	rr = httptest.NewRecorder()
	SwitchRole(slog.Default(), s).ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/api/session/role", strings.NewReader(`{"role":"technologist"}`)))
	require.Equal(t, http.StatusOK, rr.Code)

	var state session.State
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &state))
	assert.Equal(t, "Технолог", state.User)
	assert.Equal(t, "Технолог/Инженер", state.Role)
	assert.Empty(t, state.Hidden)

	rr = httptest.NewRecorder()
	Logout(slog.Default(), s).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/session/logout", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var logout ResponseRedirect
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &logout))
	assert.Equal(t, session.LoginPage, logout.Redirect)
	assert.False(t, logout.State.LoggedIn)
}

func TestSwitchRole_Unknown(t *testing.T) {
	s := session.New(slog.Default(), prefs.NewMemory())

	rr := httptest.NewRecorder()
	SwitchRole(slog.Default(), s).ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/api/session/role", strings.NewReader(`{"role":"director"}`)))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.False(t, s.State().LoggedIn)
}

func TestLogin_InvalidJSON(t *testing.T) {
	s := session.New(slog.Default(), prefs.NewMemory())

	rr := httptest.NewRecorder()
	Login(slog.Default(), s).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/session/login", strings.NewReader(`{`)))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "ошибка парсинга JSON")
}
