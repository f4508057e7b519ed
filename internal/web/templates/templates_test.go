package templates

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/helprobot/internal/admin"
	"github.com/JonMunkholm/helprobot/internal/core"
	"github.com/JonMunkholm/helprobot/internal/i18n"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var b strings.Builder
	require.NoError(t, c.Render(context.Background(), &b))
	return b.String()
}

func page(t *testing.T, lang string) Page {
	t.Helper()
	tr, err := i18n.New("fr")
	require.NoError(t, err)
	return Page{Lang: lang, T: tr.For(lang), Title: "Test", Next: "/fanuc/", Languages: tr.Languages()}
}

func TestComposeTitle(t *testing.T) {
	assert.Equal(t, "Home | HelpRobot", ComposeTitle("Home"))
	assert.Equal(t, "HelpRobot", ComposeTitle(" "))
	assert.Equal(t, "HelpRobot", ComposeTitle(SiteName))
}

func TestLayoutLanguageSwitcher(t *testing.T) {
	out := render(t, NotFound(page(t, "fr")))

	assert.Contains(t, out, `<html lang="fr">`)
	assert.Contains(t, out, `<title>Test | HelpRobot</title>`)
	assert.Contains(t, out, `action="/i18n/setlang/"`)
	assert.Contains(t, out, `name="next" value="/fanuc/"`)
	assert.Contains(t, out, `value="fr" class="active"`)
	assert.Contains(t, out, "Page introuvable")
}

func TestHome(t *testing.T) {
	out := render(t, Home(page(t, "en"), []BrandCard{
		{Key: "fanuc", Name: "Fanuc", Live: true},
		{Key: "abb", Name: "ABB"},
	}))

	assert.Contains(t, out, `href="/en/fanuc/"`)
	assert.Contains(t, out, "Fanuc error search is functional.")
	assert.Contains(t, out, "ABB support is under development.")
	assert.Less(t, strings.Index(out, "Fanuc"), strings.Index(out, "ABB"))
}

func TestSearchEscapesQueryAndResults(t *testing.T) {
	out := render(t, Search(page(t, "en"), SearchView{
		BrandKey:  "fanuc",
		BrandName: "Fanuc",
		Query:     `<script>alert(1)</script>`,
		ErrorLang: core.LangEN,
		Limit:     core.SearchResultLimit,
		Results: []core.DisplayRecord{
			{Code: "SRVO-001", Title: "Servo <Error>", Cause: "Motor overload", Remedy: "Check motor", Language: core.LangEN},
		},
	}))

	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "Servo &lt;Error&gt;")
	assert.Contains(t, out, "1 result")
	assert.Contains(t, out, "Motor overload")
	assert.Contains(t, out, `value="en" checked`)
	assert.Contains(t, out, `href="/en/fanuc/?error_lang=fr&amp;q=`)
}

func TestSearchNoResults(t *testing.T) {
	out := render(t, Search(page(t, "fr"), SearchView{
		BrandKey: "fanuc", BrandName: "Fanuc", Query: "zzz", ErrorLang: core.LangFR, Limit: 10,
	}))

	assert.Contains(t, out, "Aucun code d&#39;erreur ne correspond à « zzz ».")
	assert.NotContains(t, out, "results-table")
}

func TestSearchWithoutQueryShowsNoResultBlock(t *testing.T) {
	out := render(t, Search(page(t, "en"), SearchView{BrandKey: "fanuc", BrandName: "Fanuc", ErrorLang: core.LangEN, Limit: 10}))

	assert.NotContains(t, out, `class="results"`)
	assert.Contains(t, out, "autofocus")
}

func TestComingSoon(t *testing.T) {
	out := render(t, ComingSoon(page(t, "en"), "ABB"))
	assert.Contains(t, out, "ABB error search is under development.")

	out = render(t, ComingSoon(page(t, "fr"), "Kuka"))
	assert.Contains(t, out, "La recherche d&#39;erreurs Kuka est en cours de développement.")
}

func TestErrorAlert(t *testing.T) {
	out := render(t, ErrorAlert("Bad <thing>", "Retry", "ERR000"))
	assert.Contains(t, out, "Bad &lt;thing&gt;")
	assert.Contains(t, out, "ERR000")
}

func TestAdminErrorCodeList(t *testing.T) {
	out := render(t, AdminErrorCodeList(AdminPage{Title: "Error codes"}, ErrorCodeListView{
		Query: admin.ErrorCodeQuery{Search: "srvo", Created: admin.CreatedToday},
		Rows:  []core.ErrorCode{{Code: "SRVO/001", ErrorCodeFields: core.ErrorCodeFields{Title: "Servo"}}},
		Limit: admin.ListLimit,
	}))

	assert.Contains(t, out, `href="/admin/errorcodes/SRVO%2F001"`)
	assert.Contains(t, out, `href="/admin/errorcodes/?created=today&amp;q=srvo" class="selected"`)
	assert.Contains(t, out, "Delete selected")
}

func TestAdminErrorCodeFormReadOnlyCode(t *testing.T) {
	out := render(t, AdminErrorCodeForm(AdminPage{Title: "Change error code"}, ErrorCodeFormView{
		Code:   "SRVO-001",
		Fields: core.ErrorCodeFields{Title: "Servo"},
		Error:  "A required field is empty",
	}))

	assert.NotContains(t, out, `name="code"`)
	assert.Contains(t, out, `action="/admin/errorcodes/SRVO-001/delete"`)
	assert.Contains(t, out, "A required field is empty")
}

func TestAdminBrandFormNew(t *testing.T) {
	out := render(t, AdminBrandForm(AdminPage{Title: "Add brand"}, BrandFormView{IsNew: true, Brand: core.Brand{IsActive: true}}))

	assert.Contains(t, out, `name="name"`)
	assert.Contains(t, out, `value="1" checked`)
	assert.NotContains(t, out, "delete-form")
}

func TestTemplSourcesHaveGeneratedCode(t *testing.T) {
	sources, err := filepath.Glob("*.templ")
	require.NoError(t, err)
	require.NotEmpty(t, sources)

	for _, src := range sources {
		gen := strings.TrimSuffix(src, ".templ") + "_templ.go"
		b, err := os.ReadFile(gen)
		require.NoError(t, err, "run go generate for %s", src)
		assert.True(t, strings.HasPrefix(string(b), "// Code generated by templ - DO NOT EDIT."), gen)
	}
}

func TestAdminLayoutChrome(t *testing.T) {
	out := render(t, AdminIndex(AdminPage{Title: "Site administration", Actor: "<root>", Flash: "Saved."}, AdminStats{ErrorCodes: 12, Brands: 3}))

	assert.Contains(t, out, "<title>Site administration - Admin | HelpRobot</title>")
	assert.Contains(t, out, `<span class="actor">&lt;root&gt;</span>`)
	assert.Contains(t, out, `<p class="flash" role="status">Saved.</p>`)
	assert.Contains(t, out, "<td>12</td>")
	assert.Contains(t, out, "<td>3</td>")
}

func TestAdminTextFieldRequiredOnlyWhenNew(t *testing.T) {
	out := render(t, AdminErrorCodeForm(AdminPage{Title: "Add error code"}, ErrorCodeFormView{IsNew: true}))

	assert.Contains(t, out, `name="code" value="" maxlength="20" required>`)
	assert.Contains(t, out, `name="title" value="" maxlength="200">`)
	assert.Contains(t, out, `action="/admin/errorcodes/new"`)
}
