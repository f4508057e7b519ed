package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/helprobot/internal/core"
)

// AdminRealm is announced in the basic auth challenge.
const AdminRealm = "HelpRobot administration"

// AdminAuth returns middleware that requires HTTP basic auth with the given
// credentials. The authenticated user name is stored in the request context
// as the actor of admin changes.
func AdminAuth(username, password string) func(http.Handler) http.Handler {
	wantUser := sha256.Sum256([]byte(username))
	wantPass := sha256.Sum256([]byte(password))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			if !ok {
				challenge(w)
				return
			}

			if !validCredentials(user, pass, wantUser, wantPass) {
				slog.Warn("auth: invalid admin credentials",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)
				challenge(w)
				return
			}

			ctx := core.ContextWithActor(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// validCredentials compares hashes so that both checks run in constant time
// regardless of input length.
func validCredentials(user, pass string, wantUser, wantPass [sha256.Size]byte) bool {
	gotUser := sha256.Sum256([]byte(user))
	gotPass := sha256.Sum256([]byte(pass))
	userOK := subtle.ConstantTimeCompare(gotUser[:], wantUser[:])
	passOK := subtle.ConstantTimeCompare(gotPass[:], wantPass[:])
	return userOK&passOK == 1
}

func challenge(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="`+AdminRealm+`", charset="UTF-8"`)
	http.Error(w, "authentication required", http.StatusUnauthorized)
}
