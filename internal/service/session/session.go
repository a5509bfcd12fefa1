// Package session keeps the display name and role shown in the header. It
// changes what navigation is visible and nothing else; it is not an access
// control mechanism.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

const (
	KeyUser = "currentUser"
	KeyRole = "currentRole"

	DefaultUser = "Пользователь"

	HomePage  = "index.html"
	LoginPage = "login.html"
)

var ErrUnknownRole = errors.New("unknown role")

type Role struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Label string `json:"label"`
}

var roles = []Role{
	{Key: "technologist", Name: "Технолог", Label: "Технолог/Инженер"},
	{Key: "manager", Name: "Менеджер", Label: "Менеджер производства"},
	{Key: "quality", Name: "Специалист ОТК", Label: "Специалист ОТК"},
}

// NavLinks are the pages of the dashboard navigation.
var NavLinks = []string{"index.html", "orders.html", "operations.html", "quality.html"}

var hiddenByRole = map[string][]string{
	"Менеджер производства": {"operations.html", "quality.html"},
	"Специалист ОТК":        {"operations.html"},
}

func Roles() []Role {
	return slices.Clone(roles)
}

func LookupRole(key string) (Role, bool) {
	i := slices.IndexFunc(roles, func(r Role) bool { return r.Key == key })
	if i == -1 {
		return Role{}, false
	}
	return roles[i], true
}

type State struct {
	User     string   `json:"user"`
	Role     string   `json:"role"`
	LoggedIn bool     `json:"logged_in"`
	Hidden   []string `json:"hidden_links"`
	Visible  []string `json:"visible_links"`
}

type Prefs interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type Session struct {
	log   *slog.Logger
	prefs Prefs

	mu   sync.RWMutex
	user string
	role string
}

func New(log *slog.Logger, prefs Prefs) *Session {
	return &Session{log: log, prefs: prefs}
}

// Restore loads the saved user and role. Both must be present for the
// session to count as logged in.
func (s *Session) Restore(ctx context.Context) (State, error) {
	const op = "session.Session.Restore"

	user, okUser, err := s.prefs.Get(ctx, KeyUser)
	if err != nil {
		return State{}, fmt.Errorf("%s: %w", op, err)
	}
	role, okRole, err := s.prefs.Get(ctx, KeyRole)
	if err != nil {
		return State{}, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	if okUser && okRole && user != "" && role != "" {
		s.user, s.role = user, role
	} else {
		s.user, s.role = "", ""
	}
	s.mu.Unlock()

	return s.State(), nil
}

// Login accepts any credentials. A known role key is stored as its label.
func (s *Session) Login(ctx context.Context, user, password, role string) (string, error) {
	const op = "session.Session.Login"

	if user == "" {
		user = DefaultUser
	}
	if r, ok := LookupRole(role); ok {
		role = r.Label
	}

	if err := s.save(ctx, user, role); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user logged in", slog.String("user", user), slog.String("role", role))

	return HomePage, nil
}

// SwitchRole swaps both the display name and the role label. Unknown keys
// leave the session untouched.
func (s *Session) SwitchRole(ctx context.Context, key string) (State, error) {
	const op = "session.Session.SwitchRole"

	r, ok := LookupRole(key)
	if !ok {
		return s.State(), fmt.Errorf("%s: %q: %w", op, key, ErrUnknownRole)
	}

	if err := s.save(ctx, r.Name, r.Label); err != nil {
		return State{}, fmt.Errorf("%s: %w", op, err)
	}

	return s.State(), nil
}

func (s *Session) Logout(ctx context.Context) (string, error) {
	const op = "session.Session.Logout"

	s.mu.Lock()
	s.user, s.role = "", ""
	s.mu.Unlock()

	for _, key := range []string{KeyUser, KeyRole} {
		if err := s.prefs.Delete(ctx, key); err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
	}

	return LoginPage, nil
}

// RequireLogin returns the login page when nobody is logged in.
func (s *Session) RequireLogin() (string, bool) {
	if s.State().LoggedIn {
		return "", true
	}
	return LoginPage, false
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hidden := HiddenLinks(s.role)
	return State{
		User:     s.user,
		Role:     s.role,
		LoggedIn: s.user != "" && s.role != "",
		Hidden:   hidden,
		Visible:  Visible(NavLinks, hidden),
	}
}

// HiddenLinks lists the navigation pages hidden for a role label.
func HiddenLinks(role string) []string {
	hidden := slices.Clone(hiddenByRole[role])
	if hidden == nil {
		hidden = []string{}
	}
	return hidden
}

func Visible(links, hidden []string) []string {
	out := make([]string, 0, len(links))
	for _, l := range links {
		if !slices.Contains(hidden, l) {
			out = append(out, l)
		}
	}
	return out
}

func (s *Session) save(ctx context.Context, user, role string) error {
	if err := s.prefs.Set(ctx, KeyUser, user); err != nil {
		return err
	}
	if err := s.prefs.Set(ctx, KeyRole, role); err != nil {
		return err
	}

	s.mu.Lock()
	s.user, s.role = user, role
	s.mu.Unlock()

	return nil
}
