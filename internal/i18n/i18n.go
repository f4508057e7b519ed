// Package i18n translates the site chrome and picks the interface language
// of a request.
//
// Catalogs are TOML files embedded from locales/. The interface language is
// independent of the language error-code results are shown in.
package i18n

import (
	"embed"
	"fmt"
	"log/slog"
	"net/http"
	"path"

	"github.com/BurntSushi/toml"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// CookieName holds the interface language chosen with the language switcher.
const CookieName = "helprobot_language"

//go:embed locales/*.toml
var localeFS embed.FS

// Supported lists the interface languages in switcher order.
var Supported = []language.Tag{language.English, language.French}

// Translator owns the message bundle and the language matcher.
type Translator struct {
	bundle   *goi18n.Bundle
	matcher  language.Matcher
	fallback string
}

// New loads the embedded catalogs. defaultLang must be one of Supported.
func New(defaultLang string) (*Translator, error) {
	fallback, err := language.Parse(defaultLang)
	if err != nil {
		return nil, fmt.Errorf("default language %q: %w", defaultLang, err)
	}

	bundle := goi18n.NewBundle(fallback)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}
	for _, f := range files {
		if _, err := bundle.LoadMessageFileFS(localeFS, path.Join("locales", f.Name())); err != nil {
			return nil, fmt.Errorf("load %s: %w", f.Name(), err)
		}
	}

	t := &Translator{
		bundle:  bundle,
		matcher: language.NewMatcher(Supported),
	}
	if !t.IsSupported(defaultLang) {
		return nil, fmt.Errorf("default language %q is not supported", defaultLang)
	}
	t.fallback = defaultLang
	return t, nil
}

// Default returns the configured fallback language code.
func (t *Translator) Default() string {
	return t.fallback
}

// Languages returns the supported language codes.
func (t *Translator) Languages() []string {
	out := make([]string, len(Supported))
	for i, tag := range Supported {
		out[i] = tag.String()
	}
	return out
}

// IsSupported reports whether code is exactly one of the supported language codes.
func (t *Translator) IsSupported(code string) bool {
	for _, tag := range Supported {
		if tag.String() == code {
			return true
		}
	}
	return false
}

// Resolve picks the interface language of r: the language cookie when it
// names a supported language, then the best Accept-Language match, then
// the configured default.
func (t *Translator) Resolve(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && t.IsSupported(c.Value) {
		return c.Value
	}
	if header := r.Header.Get("Accept-Language"); header != "" {
		tags, _, err := language.ParseAcceptLanguage(header)
		if err == nil && len(tags) > 0 {
			_, idx, conf := t.matcher.Match(tags...)
			if conf != language.No {
				return Supported[idx].String()
			}
		}
	}
	return t.fallback
}

// For returns a localizer for lang. Unsupported codes fall back to the default.
func (t *Translator) For(lang string) *Localizer {
	if !t.IsSupported(lang) {
		lang = t.fallback
	}
	return &Localizer{
		lang:      lang,
		localizer: goi18n.NewLocalizer(t.bundle, lang, t.fallback),
	}
}

// Localizer renders messages in one language.
type Localizer struct {
	lang      string
	localizer *goi18n.Localizer
}

// Lang returns the language code of the localizer.
func (l *Localizer) Lang() string {
	return l.lang
}

// T renders the message id with optional template data.
// A missing message renders as its id and is logged.
func (l *Localizer) T(id string, data ...map[string]any) string {
	cfg := &goi18n.LocalizeConfig{MessageID: id}
	if len(data) > 0 {
		cfg.TemplateData = data[0]
	}
	return l.localize(cfg)
}

// N renders a plural message id for count. Count is also passed as {{.Count}}.
func (l *Localizer) N(id string, count int) string {
	return l.localize(&goi18n.LocalizeConfig{
		MessageID:    id,
		PluralCount:  count,
		TemplateData: map[string]any{"Count": count},
	})
}

func (l *Localizer) localize(cfg *goi18n.LocalizeConfig) string {
	msg, err := l.localizer.Localize(cfg)
	if err != nil {
		slog.Debug("missing translation", "lang", l.lang, "id", cfg.MessageID, "error", err)
		return cfg.MessageID
	}
	return msg
}
