package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"ems-dashboard/internal/service/session"
)

type Session interface {
	Login(ctx context.Context, user, password, role string) (string, error)
	SwitchRole(ctx context.Context, key string) (session.State, error)
	Logout(ctx context.Context) (string, error)
	State() session.State
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type RoleRequest struct {
	Role string `json:"role"`
}

type ResponseRedirect struct {
	Redirect string        `json:"redirect"`
	State    session.State `json:"state"`
}

func Login(log *slog.Logger, s Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.session.Login"

		var req LoginRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			http.Error(w, "ошибка парсинга JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		next, err := s.Login(ctx, req.Username, req.Password, req.Role)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to save session")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, ResponseRedirect{Redirect: next, State: s.State()})
	}
}

func SwitchRole(log *slog.Logger, s Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.session.SwitchRole"

		var req RoleRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			http.Error(w, "ошибка парсинга JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		state, err := s.SwitchRole(ctx, req.Role)
		if err != nil {
			if errors.Is(err, session.ErrUnknownRole) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}

			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to switch role")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, state)
	}
}

func Logout(log *slog.Logger, s Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.session.Logout"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		next, err := s.Logout(ctx)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to clear session")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, ResponseRedirect{Redirect: next, State: s.State()})
	}
}
