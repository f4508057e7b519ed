package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTranslator(t *testing.T) *Translator {
	t.Helper()
	tr, err := New("fr")
	require.NoError(t, err)
	return tr
}

func TestNewRejectsUnsupportedDefault(t *testing.T) {
	_, err := New("de")
	require.Error(t, err)

	_, err = New("not a tag!")
	require.Error(t, err)
}

func TestResolve(t *testing.T) {
	tr := newTranslator(t)

	tests := []struct {
		name   string
		cookie string
		accept string
		want   string
	}{
		{name: "default", want: "fr"},
		{name: "accept english", accept: "en-US,en;q=0.9", want: "en"},
		{name: "accept regional french", accept: "fr-CA", want: "fr"},
		{name: "accept unsupported", accept: "de-DE", want: "fr"},
		{name: "cookie wins", cookie: "en", accept: "fr", want: "en"},
		{name: "bad cookie ignored", cookie: "xx", accept: "en", want: "en"},
		{name: "garbage header", accept: ";;;", want: "fr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				r.AddCookie(&http.Cookie{Name: CookieName, Value: tt.cookie})
			}
			if tt.accept != "" {
				r.Header.Set("Accept-Language", tt.accept)
			}
			assert.Equal(t, tt.want, tr.Resolve(r))
		})
	}
}

func TestLocalizer(t *testing.T) {
	tr := newTranslator(t)

	en := tr.For("en")
	fr := tr.For("fr")

	assert.Equal(t, "Search", en.T("search_button"))
	assert.Equal(t, "Rechercher", fr.T("search_button"))
	assert.Equal(t, "ABB error search is under development.", en.T("coming_soon_body", map[string]any{"Brand": "ABB"}))
	assert.Equal(t, "La recherche d'erreurs Kuka est en cours de développement.", fr.T("coming_soon_body", map[string]any{"Brand": "Kuka"}))
	assert.Equal(t, "1 result", en.N("result_count", 1))
	assert.Equal(t, "3 results", en.N("result_count", 3))
	assert.Equal(t, "3 résultats", fr.N("result_count", 3))
}

func TestLocalizerFallbacks(t *testing.T) {
	tr := newTranslator(t)

	assert.Equal(t, "fr", tr.For("de").Lang())
	assert.Equal(t, "no_such_message", tr.For("en").T("no_such_message"))
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	tr := newTranslator(t)
	en, fr := tr.For("en"), tr.For("fr")

	for _, id := range []string{
		"site_title", "home_heading", "home_intro", "brand_available", "brand_coming_soon",
		"search_label", "search_placeholder", "search_button", "result_language",
		"lang_en", "lang_fr", "col_code", "col_title", "col_cause", "col_remedy",
		"back_home", "not_found", "error_heading", "error_code", "nav_home", "nav_language",
	} {
		assert.NotEqual(t, id, en.T(id), "en missing %s", id)
		assert.NotEqual(t, id, fr.T(id), "fr missing %s", id)
	}
}

func TestLanguages(t *testing.T) {
	tr := newTranslator(t)
	assert.Equal(t, []string{"en", "fr"}, tr.Languages())
	assert.True(t, tr.IsSupported("en"))
	assert.False(t, tr.IsSupported("EN"))
}
