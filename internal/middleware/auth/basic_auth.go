package auth

import (
	"crypto/subtle"
	"net/http"
)

const DefaultRealm = "EMS Admin"

// BasicAuth guards the admin routes. An empty username disables access
// entirely instead of accepting empty credentials.
func BasicAuth(username, password string) func(http.Handler) http.Handler {
	return BasicAuthRealm(DefaultRealm, username, password)
}

func BasicAuthRealm(realm, username, password string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			if !ok || username == "" {
				requireAuth(w, realm)
				return
			}

			userMatch := subtle.ConstantTimeCompare([]byte(user), []byte(username)) == 1
			passMatch := subtle.ConstantTimeCompare([]byte(pass), []byte(password)) == 1
			if !userMatch || !passMatch {
				requireAuth(w, realm)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func requireAuth(w http.ResponseWriter, realm string) {
	w.Header().Set("WWW-Authenticate", `Basic realm="`+realm+`"`)
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}
