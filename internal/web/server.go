// Package web provides the HTTP server and handlers for the error-code lookup site.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/JonMunkholm/helprobot/internal/admin"
	"github.com/JonMunkholm/helprobot/internal/config"
	"github.com/JonMunkholm/helprobot/internal/core"
	"github.com/JonMunkholm/helprobot/internal/i18n"
	mw "github.com/JonMunkholm/helprobot/internal/web/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed static
var staticFiles embed.FS

// Server is the HTTP server for the lookup site and its admin interface.
type Server struct {
	cfg     *config.Config
	store   core.Store
	search  *core.SearchService
	admin   *admin.Service
	tr      *i18n.Translator
	limiter *rateLimiter
	router  *chi.Mux
	server  *http.Server
}

// NewServer creates a new Server instance.
func NewServer(cfg *config.Config, store core.Store, tr *i18n.Translator) *Server {
	s := &Server{
		cfg:    cfg,
		store:  store,
		search: core.NewSearchService(store),
		admin:  admin.NewService(store),
		tr:     tr,
		router: chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))

	// Security hardening
	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		s.limiter = newRateLimiter(s.cfg.Rate.RequestsPerMinute, time.Minute)
		s.router.Use(s.limiter.middleware)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	s.router.NotFound(s.handleNotFound)
	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/", s.handleRoot)
	s.router.Post("/i18n/setlang/", s.handleSetLanguage)

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/search", s.handleAPISearch)
	})

	if s.cfg.Admin.Enabled() {
		s.router.Route("/admin", func(r chi.Router) {
			r.Use(mw.AdminAuth(s.cfg.Admin.Username, s.cfg.Admin.Password))
			r.Use(withRequestMetadata)

			r.Get("/", s.handleAdminIndex)

			r.Get("/errorcodes/", s.handleAdminErrorCodes)
			r.Get("/errorcodes/new", s.handleAdminErrorCodeNew)
			r.Post("/errorcodes/new", s.handleAdminErrorCodeCreate)
			r.Post("/errorcodes/delete", s.handleAdminErrorCodesDelete)
			r.Get("/errorcodes/{code}", s.handleAdminErrorCodeEdit)
			r.Post("/errorcodes/{code}", s.handleAdminErrorCodeUpdate)
			r.Post("/errorcodes/{code}/delete", s.handleAdminErrorCodeDelete)

			r.Get("/brands/", s.handleAdminBrands)
			r.Get("/brands/new", s.handleAdminBrandNew)
			r.Post("/brands/new", s.handleAdminBrandSave)
			r.Get("/brands/{name}", s.handleAdminBrandEdit)
			r.Post("/brands/{name}", s.handleAdminBrandSave)
			r.Post("/brands/{name}/delete", s.handleAdminBrandDelete)
		})
	}

	// Language-prefixed pages
	s.router.Route("/{lang}", func(r chi.Router) {
		r.Use(s.withLanguage)
		r.Get("/", s.handleHome)
		r.Get("/{brand}", s.handleAppendSlash)
		r.Get("/{brand}/", s.handleBrand)
	})
}

// Start begins listening for HTTP requests on the configured address.
func (s *Server) Start() error {
	addr := s.cfg.Server.Addr()
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", addr, "admin", s.cfg.Admin.Enabled())
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.limiter != nil {
		s.limiter.stop()
	}
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(enableCSP bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Prevent MIME type sniffing
			w.Header().Set("X-Content-Type-Options", "nosniff")

			// Prevent clickjacking
			w.Header().Set("X-Frame-Options", "DENY")

			// Pages carry no scripts and no inline styles
			if enableCSP {
				w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'none'; style-src 'self'; img-src 'self' data:; form-action 'self'; frame-ancestors 'none'")
			}

			// Control referrer information
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			next.ServeHTTP(w, r)
		})
	}
}

// writeJSON encodes v as JSON and writes it to w.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}

// writeError writes a JSON error response without going through MapError.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   message,
		Message: message,
		Code:    "HTTP" + strconv.Itoa(status),
	})
}

// redirect issues a 303 so that form posts are not replayed.
func redirect(w http.ResponseWriter, r *http.Request, format string, args ...any) {
	http.Redirect(w, r, fmt.Sprintf(format, args...), http.StatusSeeOther)
}
