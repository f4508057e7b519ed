package web

import (
	"context"
	"net"
	"net/http"

	"github.com/JonMunkholm/helprobot/internal/core"
)

type ctxKey string

const ctxKeyLang ctxKey = "ui_lang"

// withRequestMetadata adds the client IP to the context for change logging.
func withRequestMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := core.ContextWithIPAddress(r.Context(), clientIP(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// clientIP strips the port from RemoteAddr, which TrustedRealIP has
// already resolved.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func contextWithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, ctxKeyLang, lang)
}

// langFromContext returns the interface language set by withLanguage.
func langFromContext(ctx context.Context) string {
	lang, _ := ctx.Value(ctxKeyLang).(string)
	return lang
}
