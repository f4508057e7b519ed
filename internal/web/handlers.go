package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/JonMunkholm/helprobot/internal/core"
	"github.com/JonMunkholm/helprobot/internal/i18n"
	"github.com/JonMunkholm/helprobot/internal/logging"
	"github.com/JonMunkholm/helprobot/internal/web/templates"
	"github.com/go-chi/chi/v5"
)

// languageCookieMaxAge keeps the interface language for a year.
const languageCookieMaxAge = 365 * 24 * 60 * 60

// healthTimeout bounds the store round trip of /healthz.
const healthTimeout = 2 * time.Second

// page builds the chrome of a public page. titleID is a message id.
func (s *Server) page(r *http.Request, lang, titleID string, data ...map[string]any) templates.Page {
	loc := s.tr.For(lang)
	return templates.Page{
		Lang:      loc.Lang(),
		T:         loc,
		Title:     loc.T(titleID, data...),
		Next:      nextPath(r, lang),
		Languages: s.tr.Languages(),
	}
}

// nextPath returns the request path and query without the language prefix,
// which is where the language switcher sends the visitor back to.
func nextPath(r *http.Request, lang string) string {
	path := r.URL.Path
	prefix := "/" + lang
	switch {
	case path == prefix:
		path = "/"
	case strings.HasPrefix(path, prefix+"/"):
		path = path[len(prefix):]
	}
	if r.URL.RawQuery != "" {
		path += "?" + r.URL.RawQuery
	}
	return path
}

// withLanguage validates the {lang} URL segment and stores it in the context.
func (s *Server) withLanguage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := chi.URLParam(r, "lang")
		if !s.tr.IsSupported(lang) {
			s.handleNotFound(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(contextWithLang(r.Context(), lang)))
	})
}

// handleRoot redirects to the home page in the visitor's language.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/"+s.tr.Resolve(r)+"/", http.StatusFound)
}

// handleNotFound renders the 404 page in the visitor's language.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	if wantsJSON(r) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	lang := s.tr.Resolve(r)
	if segment := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/"), "/", 2)[0]; s.tr.IsSupported(segment) {
		lang = segment
	}
	p := s.page(r, lang, "not_found")
	renderHTML(w, r, http.StatusNotFound, templates.NotFound(p))
}

// handleAppendSlash redirects /{lang}/{brand} to /{lang}/{brand}/.
func (s *Server) handleAppendSlash(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Path + "/"
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusMovedPermanently)
}

// handleHome renders the brand selection page.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lang := langFromContext(ctx)

	pages := core.BrandPages()
	cards := make([]templates.BrandCard, 0, len(pages))
	for _, bp := range pages {
		cards = append(cards, templates.BrandCard{
			Key:  bp.Key,
			Name: bp.Name,
			Live: bp.Searchable && s.brandActive(ctx, bp.Name),
		})
	}

	p := s.page(r, lang, "home_title")
	renderHTML(w, r, http.StatusOK, templates.Home(p, cards))
}

// handleBrand renders the search page of a searchable brand, or the coming
// soon page for brands without search or switched off in the admin.
func (s *Server) handleBrand(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lang := langFromContext(ctx)

	bp, ok := core.GetBrandPage(chi.URLParam(r, "brand"))
	if !ok {
		s.handleNotFound(w, r)
		return
	}

	if !bp.Searchable || !s.brandActive(ctx, bp.Name) {
		p := s.page(r, lang, "coming_soon_title", map[string]any{"Brand": bp.Name})
		renderHTML(w, r, http.StatusOK, templates.ComingSoon(p, bp.Name))
		return
	}

	query := r.URL.Query().Get("q")
	errorLang := core.ParseResultLanguage(r.URL.Query().Get("error_lang"))

	result, err := s.search.Search(ctx, query, errorLang)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	p := s.page(r, lang, "search_title", map[string]any{"Brand": bp.Name})
	renderHTML(w, r, http.StatusOK, templates.Search(p, templates.SearchView{
		BrandKey:  bp.Key,
		BrandName: bp.Name,
		Query:     result.Query,
		ErrorLang: result.Language,
		Results:   result.Display(),
		Limit:     core.SearchResultLimit,
	}))
}

// brandActive reports whether the brand row allows its page to go live.
// A brand without a row is active.
func (s *Server) brandActive(ctx context.Context, name string) bool {
	b, err := s.store.GetBrand(ctx, name)
	switch {
	case err == nil:
		return b.IsActive
	case errors.Is(err, core.ErrNotFound):
		return true
	default:
		logging.FromContext(ctx).Warn("brand lookup failed", "brand", name, "error", err)
		return true
	}
}

// handleSetLanguage stores the chosen interface language in a cookie and
// redirects to next under the new language prefix.
func (s *Server) handleSetLanguage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, core.ErrInvalidInput, http.StatusBadRequest)
		return
	}

	lang := r.PostFormValue("language")
	if s.tr.IsSupported(lang) {
		http.SetCookie(w, &http.Cookie{
			Name:     i18n.CookieName,
			Value:    lang,
			Path:     "/",
			MaxAge:   languageCookieMaxAge,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	} else {
		lang = s.tr.Resolve(r)
	}

	http.Redirect(w, r, "/"+lang+safeNext(r.PostFormValue("next"), s.tr), http.StatusFound)
}

// safeNext keeps only local paths and strips an existing language prefix.
func safeNext(next string, tr *i18n.Translator) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.ContainsAny(next, "\\\r\n") {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}

	segments := strings.SplitN(strings.TrimPrefix(u.Path, "/"), "/", 2)
	if tr.IsSupported(segments[0]) {
		if len(segments) == 1 {
			u.Path = "/"
		} else {
			u.Path = "/" + segments[1]
		}
	}
	return u.RequestURI()
}

// searchResponse is the JSON body of GET /api/search.
type searchResponse struct {
	Query     string               `json:"query"`
	ErrorLang core.ResultLanguage  `json:"error_lang"`
	Count     int                  `json:"count"`
	Results   []core.DisplayRecord `json:"results"`
}

// handleAPISearch runs the public search and returns JSON.
func (s *Server) handleAPISearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	errorLang := core.ParseResultLanguage(r.URL.Query().Get("error_lang"))

	result, err := s.search.Search(r.Context(), query, errorLang)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	results := result.Display()
	writeJSON(w, http.StatusOK, searchResponse{
		Query:     result.Query,
		ErrorLang: result.Language,
		Count:     len(results),
		Results:   results,
	})
}

// handleHealth checks that the store answers.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	n, err := s.store.CountErrorCodes(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "error_codes": n})
}
