package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTrustedRealIP(t *testing.T) {
	tests := []struct {
		name       string
		trusted    []string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "untrusted source keeps remote addr",
			remoteAddr: "203.0.113.5:4000",
			headers:    map[string]string{"X-Real-IP": "10.1.1.1"},
			want:       "203.0.113.5:4000",
		},
		{
			name:       "trusted proxy with X-Real-IP",
			trusted:    []string{"10.0.0.0/8"},
			remoteAddr: "10.0.0.2:4000",
			headers:    map[string]string{"X-Real-IP": "198.51.100.7"},
			want:       "198.51.100.7",
		},
		{
			name:       "trusted proxy with X-Forwarded-For chain",
			trusted:    []string{"10.0.0.0/8"},
			remoteAddr: "10.0.0.2:4000",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.7, 10.0.0.9"},
			want:       "198.51.100.7",
		},
		{
			name:       "spoofed X-Forwarded-For entry ignored",
			trusted:    []string{"10.0.0.2"},
			remoteAddr: "10.0.0.2:4000",
			headers:    map[string]string{"X-Forwarded-For": "1.2.3.4, 198.51.100.7"},
			want:       "198.51.100.7",
		},
		{
			name:       "single address entry",
			trusted:    []string{"127.0.0.1"},
			remoteAddr: "127.0.0.1:4000",
			headers:    map[string]string{"X-Real-IP": "198.51.100.8"},
			want:       "198.51.100.8",
		},
		{
			name:       "invalid header value ignored",
			trusted:    []string{"10.0.0.0/8"},
			remoteAddr: "10.0.0.2:4000",
			headers:    map[string]string{"X-Real-IP": "not-an-ip"},
			want:       "10.0.0.2:4000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			handler := TrustedRealIP(tt.trusted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.RemoteAddr
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			handler.ServeHTTP(httptest.NewRecorder(), req)

			if got != tt.want {
				t.Errorf("RemoteAddr = %q, want %q", got, tt.want)
			}
		})
	}
}
