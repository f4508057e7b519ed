// Package templates renders the site pages as templ components.
//
// The .templ files are the sources; run go generate after editing them.
package templates

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.960 generate

import (
	"net/url"
	"strings"
	"time"

	"github.com/JonMunkholm/helprobot/internal/admin"
	"github.com/JonMunkholm/helprobot/internal/core"
	"github.com/JonMunkholm/helprobot/internal/i18n"
)

// SiteName is appended to every page title.
const SiteName = "HelpRobot"

// Page carries what every public page needs to render its chrome.
type Page struct {
	Lang      string          // interface language, also the URL prefix
	T         *i18n.Localizer // messages in Lang
	Title     string          // page title without the site suffix
	Next      string          // current path and query without the language prefix
	Languages []string        // switcher choices
}

// Href prefixes path with the page language: Href("/fanuc/") is "/fr/fanuc/".
func (p Page) Href(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return "/" + p.Lang + path
}

// ComposeTitle formats a document title with the site suffix.
func ComposeTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" || title == SiteName {
		return SiteName
	}
	return title + " | " + SiteName
}

// BrandCard is one manufacturer tile of the home page.
type BrandCard struct {
	Key  string
	Name string
	Live bool
}

// SearchView is the state of a brand search page.
type SearchView struct {
	BrandKey  string
	BrandName string
	Query     string
	ErrorLang core.ResultLanguage
	Results   []core.DisplayRecord
	Limit     int
}

// Searched reports whether a query was submitted.
func (v SearchView) Searched() bool {
	return v.Query != ""
}

// Action is the search form target.
func (v SearchView) Action(p Page) string {
	return p.Href("/" + v.BrandKey + "/")
}

// searchExamples are the sample codes offered under the search box.
var searchExamples = []string{"SRVO-001", "MOTN-017", "SYST-001"}

// searchURL builds the search page URL for a query and result language.
func searchURL(action, query string, lang core.ResultLanguage) string {
	v := url.Values{}
	v.Set("q", query)
	v.Set("error_lang", string(lang))
	return action + "?" + v.Encode()
}

func brandData(name string) map[string]any {
	return map[string]any{"Brand": name}
}

func queryData(query string) map[string]any {
	return map[string]any{"Query": query}
}

func limitData(limit int) map[string]any {
	return map[string]any{"Limit": limit}
}

// AdminPage is the chrome of the admin interface.
type AdminPage struct {
	Title string
	Actor string
	Flash string
}

// AdminStats feeds the admin index.
type AdminStats struct {
	ErrorCodes int64
	Brands     int
}

// ErrorCodeListView is the state of the error-code list page.
type ErrorCodeListView struct {
	Query admin.ErrorCodeQuery
	Rows  []core.ErrorCode
	Limit int
}

// FilterHref links to the list with the search kept and the created filter set to f.
func (v ErrorCodeListView) FilterHref(f admin.CreatedFilter) string {
	q := url.Values{}
	if v.Query.Search != "" {
		q.Set("q", v.Query.Search)
	}
	if f != admin.CreatedAny {
		q.Set("created", string(f))
	}
	href := "/admin/errorcodes/"
	if enc := q.Encode(); enc != "" {
		href += "?" + enc
	}
	return href
}

// ErrorCodeFormView is the state of the add/edit error-code form.
type ErrorCodeFormView struct {
	IsNew     bool
	Code      string
	Fields    core.ErrorCodeFields
	CreatedAt time.Time
	Error     string
}

// Action is the form target: the add URL or the record's change URL.
func (v ErrorCodeFormView) Action() string {
	if v.IsNew {
		return "/admin/errorcodes/new"
	}
	return errorCodeHref(v.Code)
}

// BrandListView is the state of the brand list page.
type BrandListView struct {
	Active *bool
	Rows   []core.Brand
}

type brandFilter struct {
	Label    string
	Href     string
	Selected bool
}

// Filters are the is_active choices with the current one selected.
func (v BrandListView) Filters() []brandFilter {
	return []brandFilter{
		{"All", "/admin/brands/", v.Active == nil},
		{"Yes", "/admin/brands/?active=1", v.Active != nil && *v.Active},
		{"No", "/admin/brands/?active=0", v.Active != nil && !*v.Active},
	}
}

// BrandFormView is the state of the add/edit brand form.
type BrandFormView struct {
	IsNew bool
	Brand core.Brand
	Error string
}

// Action is the form target: the add URL or the brand's change URL.
func (v BrandFormView) Action() string {
	if v.IsNew {
		return "/admin/brands/new"
	}
	return brandHref(v.Brand.Name)
}

func errorCodeHref(code string) string {
	return "/admin/errorcodes/" + url.PathEscape(code)
}

func brandHref(name string) string {
	return "/admin/brands/" + url.PathEscape(name)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
