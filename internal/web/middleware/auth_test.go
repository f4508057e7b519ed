package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JonMunkholm/helprobot/internal/core"
)

func TestAdminAuth(t *testing.T) {
	var actor string
	handler := AdminAuth("admin", "secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor = core.GetActorFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name       string
		user, pass string
		noAuth     bool
		wantStatus int
	}{
		{name: "valid", user: "admin", pass: "secret", wantStatus: http.StatusNoContent},
		{name: "wrong password", user: "admin", pass: "nope", wantStatus: http.StatusUnauthorized},
		{name: "wrong user", user: "root", pass: "secret", wantStatus: http.StatusUnauthorized},
		{name: "prefix password", user: "admin", pass: "secre", wantStatus: http.StatusUnauthorized},
		{name: "no credentials", noAuth: true, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actor = ""
			req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
			if !tt.noAuth {
				req.SetBasicAuth(tt.user, tt.pass)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusUnauthorized {
				if rec.Header().Get("WWW-Authenticate") == "" {
					t.Error("missing WWW-Authenticate challenge")
				}
				if actor != "" {
					t.Error("handler ran for a rejected request")
				}
				return
			}
			if actor != "admin" {
				t.Errorf("actor = %q, want admin", actor)
			}
		})
	}
}
