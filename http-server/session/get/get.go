package get

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"ems-dashboard/internal/service/session"
)

type StateProvider interface {
	State() session.State
	RequireLogin() (string, bool)
}

type ResponseSession struct {
	session.State
	Redirect string         `json:"redirect,omitempty"`
	Roles    []session.Role `json:"roles"`
}

// GetSession reports the header state. Redirect is set to the login page
// when nobody is logged in.
func GetSession(log *slog.Logger, provider StateProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		redirect, _ := provider.RequireLogin()

		render.JSON(w, r, ResponseSession{
			State:    provider.State(),
			Redirect: redirect,
			Roles:    session.Roles(),
		})
	}
}
