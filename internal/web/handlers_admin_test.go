package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/JonMunkholm/helprobot/internal/config"
	"github.com/JonMunkholm/helprobot/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (ts testServer) admin(method, path string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.SetBasicAuth("admin", "secret")
	return ts.do(req)
}

func TestAdminRequiresAuth(t *testing.T) {
	ts := newTestServer(t, testConfig())

	rec := ts.get("/admin/")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Basic realm=")

	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	req.SetBasicAuth("admin", "wrong")
	assert.Equal(t, http.StatusUnauthorized, ts.do(req).Code)

	rec = ts.admin(http.MethodGet, "/admin/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Site administration")
	assert.Contains(t, rec.Body.String(), `<span class="actor">admin</span>`)
}

func TestAdminNotMountedWithoutCredentials(t *testing.T) {
	cfg := testConfig()
	cfg.Admin = config.AdminConfig{}
	ts := newTestServer(t, cfg)

	assert.Equal(t, http.StatusNotFound, ts.admin(http.MethodGet, "/admin/", nil).Code)
}

func TestAdminErrorCodeLifecycle(t *testing.T) {
	ts := newTestServer(t, testConfig())
	ctx := context.Background()

	form := url.Values{
		"code":      {"SRVO/001"},
		"title":     {"Operator panel E-stop"},
		"cause_en":  {"E-stop pressed"},
		"remedy_en": {"Release it"},
		"cause_fr":  {"Arret d urgence"},
		"remedy_fr": {"Relacher"},
	}

	rec := ts.admin(http.MethodPost, "/admin/errorcodes/new", form)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/errorcodes/?saved=SRVO%2F001", rec.Header().Get("Location"))

	saved, err := ts.store.GetErrorCode(ctx, "SRVO/001")
	require.NoError(t, err)
	assert.Equal(t, "Operator panel E-stop", saved.Title)

	t.Run("duplicate re-renders the form", func(t *testing.T) {
		rec := ts.admin(http.MethodPost, "/admin/errorcodes/new", form)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "A record with this key already exists")
		assert.Contains(t, rec.Body.String(), `value="Operator panel E-stop"`)
	})

	t.Run("invalid input re-renders the form", func(t *testing.T) {
		bad := url.Values{"code": {strings.Repeat("X", core.MaxCodeLength+1)}}
		rec := ts.admin(http.MethodPost, "/admin/errorcodes/new", bad)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "VAL002")
	})

	t.Run("list with flash", func(t *testing.T) {
		rec := ts.admin(http.MethodGet, "/admin/errorcodes/?saved=SRVO%2F001&q=e-stop", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Saved &#34;SRVO/001&#34;.")
		assert.Contains(t, body, `href="/admin/errorcodes/SRVO%2F001"`)
	})

	t.Run("unknown created filter", func(t *testing.T) {
		rec := ts.admin(http.MethodGet, "/admin/errorcodes/?created=decade", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("edit escaped code", func(t *testing.T) {
		rec := ts.admin(http.MethodGet, "/admin/errorcodes/SRVO%2F001", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `<p class="readonly">SRVO/001</p>`)
	})

	t.Run("update keeps created_at", func(t *testing.T) {
		update := url.Values{"title": {"Renamed"}, "cause_en": {"x"}}
		rec := ts.admin(http.MethodPost, "/admin/errorcodes/SRVO%2F001", update)
		require.Equal(t, http.StatusSeeOther, rec.Code)

		got, err := ts.store.GetErrorCode(ctx, "SRVO/001")
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Title)
		assert.True(t, saved.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("missing code", func(t *testing.T) {
		rec := ts.admin(http.MethodGet, "/admin/errorcodes/NOPE-1", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "DB002")
	})

	t.Run("delete", func(t *testing.T) {
		rec := ts.admin(http.MethodPost, "/admin/errorcodes/SRVO%2F001/delete", url.Values{})
		require.Equal(t, http.StatusSeeOther, rec.Code)
		_, err := ts.store.GetErrorCode(ctx, "SRVO/001")
		assert.ErrorIs(t, err, core.ErrNotFound)
	})
}

func TestAdminBulkDelete(t *testing.T) {
	ts := newTestServer(t, testConfig())
	ts.seed(t)

	rec := ts.admin(http.MethodPost, "/admin/errorcodes/delete", url.Values{"code": {"SRVO-001", "MOTN-017", "GONE-1"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/errorcodes/?deleted=2+error+codes", rec.Header().Get("Location"))

	n, err := ts.store.CountErrorCodes(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestAdminBrands(t *testing.T) {
	ts := newTestServer(t, testConfig())
	ctx := context.Background()

	rec := ts.admin(http.MethodPost, "/admin/brands/new", url.Values{"name": {"Fanuc"}, "is_active": {"1"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = ts.admin(http.MethodPost, "/admin/brands/new", url.Values{"name": {"Fanuc"}})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.admin(http.MethodPost, "/admin/brands/new", url.Values{"name": {""}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unchecked box switches the brand off.
	rec = ts.admin(http.MethodPost, "/admin/brands/Fanuc", url.Values{})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	b, err := ts.store.GetBrand(ctx, "Fanuc")
	require.NoError(t, err)
	assert.False(t, b.IsActive)

	rec = ts.admin(http.MethodGet, "/admin/brands/?active=0", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/admin/brands/Fanuc"`)

	rec = ts.admin(http.MethodGet, "/admin/brands/?active=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `href="/admin/brands/Fanuc"`)

	assert.Equal(t, http.StatusNotFound, ts.admin(http.MethodPost, "/admin/brands/Yaskawa", url.Values{}).Code)

	rec = ts.admin(http.MethodPost, "/admin/brands/Fanuc/delete", url.Values{})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	_, err = ts.store.GetBrand(ctx, "Fanuc")
	assert.ErrorIs(t, err, core.ErrNotFound)
}
