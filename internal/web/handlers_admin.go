package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/JonMunkholm/helprobot/internal/admin"
	"github.com/JonMunkholm/helprobot/internal/core"
	"github.com/JonMunkholm/helprobot/internal/web/templates"
	"github.com/go-chi/chi/v5"
)

// maxFormBytes caps the body of form posts.
const maxFormBytes = 1 << 20

// adminPage builds the admin chrome. The flash message comes from the
// query string set by the redirect after a change.
func adminPage(r *http.Request, title string) templates.AdminPage {
	return templates.AdminPage{
		Title: title,
		Actor: core.GetActorFromContext(r.Context()),
		Flash: flashMessage(r.URL.Query()),
	}
}

func flashMessage(q url.Values) string {
	switch {
	case q.Get("saved") != "":
		return fmt.Sprintf("Saved %q.", q.Get("saved"))
	case q.Get("deleted") != "":
		return fmt.Sprintf("Deleted %s.", q.Get("deleted"))
	}
	return ""
}

// adminContext bounds an admin operation with the configured timeout.
func adminContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), admin.OpTimeout)
}

// urlParam returns a path parameter with percent-escapes decoded.
func urlParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("%w: %v", core.ErrInvalidInput, err)
	}
	return nil
}

// handleAdminIndex lists the models with their row counts.
func (s *Server) handleAdminIndex(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := adminContext(r)
	defer cancel()

	count, err := s.store.CountErrorCodes(ctx)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	brands, err := s.admin.ListBrands(ctx, admin.BrandQuery{})
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	renderHTML(w, r, http.StatusOK, templates.AdminIndex(adminPage(r, "Site administration"), templates.AdminStats{
		ErrorCodes: count,
		Brands:     len(brands),
	}))
}

// handleAdminErrorCodes lists error codes with search and created-date filter.
func (s *Server) handleAdminErrorCodes(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := adminContext(r)
	defer cancel()

	q := admin.ErrorCodeQuery{
		Search:  r.URL.Query().Get("q"),
		Created: admin.CreatedFilter(r.URL.Query().Get("created")),
	}
	rows, err := s.admin.ListErrorCodes(ctx, q)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	renderHTML(w, r, http.StatusOK, templates.AdminErrorCodeList(adminPage(r, "Error codes"), templates.ErrorCodeListView{
		Query: q,
		Rows:  rows,
		Limit: admin.ListLimit,
	}))
}

func (s *Server) handleAdminErrorCodeNew(w http.ResponseWriter, r *http.Request) {
	renderHTML(w, r, http.StatusOK, templates.AdminErrorCodeForm(adminPage(r, "Add error code"), templates.ErrorCodeFormView{IsNew: true}))
}

// errorCodeFields reads the editable columns from a posted form.
func errorCodeFields(r *http.Request) core.ErrorCodeFields {
	return core.ErrorCodeFields{
		Title:    strings.TrimSpace(r.PostFormValue("title")),
		CauseEN:  r.PostFormValue("cause_en"),
		RemedyEN: r.PostFormValue("remedy_en"),
		CauseFR:  r.PostFormValue("cause_fr"),
		RemedyFR: r.PostFormValue("remedy_fr"),
	}
}

func (s *Server) handleAdminErrorCodeCreate(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	ctx, cancel := adminContext(r)
	defer cancel()

	code := strings.TrimSpace(r.PostFormValue("code"))
	fields := errorCodeFields(r)

	rec, err := s.admin.CreateErrorCode(ctx, code, fields)
	if err != nil {
		if formError(err) {
			renderHTML(w, r, statusFor(err), templates.AdminErrorCodeForm(adminPage(r, "Add error code"), templates.ErrorCodeFormView{
				IsNew:  true,
				Code:   code,
				Fields: fields,
				Error:  core.FormatUserError(err),
			}))
			return
		}
		s.respondError(w, r, err, statusFor(err))
		return
	}

	redirect(w, r, "/admin/errorcodes/?saved=%s", url.QueryEscape(rec.Code))
}

func (s *Server) handleAdminErrorCodeEdit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := adminContext(r)
	defer cancel()

	rec, err := s.admin.GetErrorCode(ctx, urlParam(r, "code"))
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	renderHTML(w, r, http.StatusOK, templates.AdminErrorCodeForm(adminPage(r, "Change error code"), templates.ErrorCodeFormView{
		Code:      rec.Code,
		Fields:    rec.ErrorCodeFields,
		CreatedAt: rec.CreatedAt,
	}))
}

func (s *Server) handleAdminErrorCodeUpdate(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	ctx, cancel := adminContext(r)
	defer cancel()

	code := urlParam(r, "code")
	fields := errorCodeFields(r)

	rec, err := s.admin.UpdateErrorCode(ctx, code, fields)
	if err != nil {
		if formError(err) {
			renderHTML(w, r, statusFor(err), templates.AdminErrorCodeForm(adminPage(r, "Change error code"), templates.ErrorCodeFormView{
				Code:   code,
				Fields: fields,
				Error:  core.FormatUserError(err),
			}))
			return
		}
		s.respondError(w, r, err, statusFor(err))
		return
	}

	redirect(w, r, "/admin/errorcodes/?saved=%s", url.QueryEscape(rec.Code))
}

func (s *Server) handleAdminErrorCodeDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := adminContext(r)
	defer cancel()

	code := urlParam(r, "code")
	if err := s.admin.DeleteErrorCode(ctx, code); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	redirect(w, r, "/admin/errorcodes/?deleted=%s", url.QueryEscape(code))
}

// handleAdminErrorCodesDelete deletes the codes ticked in the list view.
func (s *Server) handleAdminErrorCodesDelete(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	ctx, cancel := adminContext(r)
	defer cancel()

	n, err := s.admin.DeleteErrorCodes(ctx, r.PostForm["code"])
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	redirect(w, r, "/admin/errorcodes/?deleted=%s", url.QueryEscape(strconv.Itoa(n)+" error codes"))
}

// handleAdminBrands lists brands, optionally filtered by ?active=1 or 0.
func (s *Server) handleAdminBrands(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := adminContext(r)
	defer cancel()

	var active *bool
	switch r.URL.Query().Get("active") {
	case "1":
		v := true
		active = &v
	case "0":
		v := false
		active = &v
	}

	rows, err := s.admin.ListBrands(ctx, admin.BrandQuery{Active: active})
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	renderHTML(w, r, http.StatusOK, templates.AdminBrandList(adminPage(r, "Brands"), templates.BrandListView{
		Active: active,
		Rows:   rows,
	}))
}

func (s *Server) handleAdminBrandNew(w http.ResponseWriter, r *http.Request) {
	renderHTML(w, r, http.StatusOK, templates.AdminBrandForm(adminPage(r, "Add brand"), templates.BrandFormView{
		IsNew: true,
		Brand: core.Brand{IsActive: true},
	}))
}

func (s *Server) handleAdminBrandEdit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := adminContext(r)
	defer cancel()

	b, err := s.admin.GetBrand(ctx, urlParam(r, "name"))
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	renderHTML(w, r, http.StatusOK, templates.AdminBrandForm(adminPage(r, "Change brand"), templates.BrandFormView{Brand: b}))
}

// handleAdminBrandSave creates a brand from /brands/new or updates the
// brand named in the path.
func (s *Server) handleAdminBrandSave(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	ctx, cancel := adminContext(r)
	defer cancel()

	isNew := chi.URLParam(r, "name") == ""
	b := core.Brand{
		Name:     urlParam(r, "name"),
		IsActive: r.PostFormValue("is_active") == "1",
	}
	title := "Change brand"
	if isNew {
		b.Name = strings.TrimSpace(r.PostFormValue("name"))
		title = "Add brand"
		if _, err := s.admin.GetBrand(ctx, b.Name); err == nil {
			err = fmt.Errorf("brand %s: %w", b.Name, core.ErrAlreadyExists)
			renderHTML(w, r, statusFor(err), templates.AdminBrandForm(adminPage(r, title), templates.BrandFormView{
				IsNew: true,
				Brand: b,
				Error: core.FormatUserError(err),
			}))
			return
		}
	} else if _, err := s.admin.GetBrand(ctx, b.Name); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	if _, err := s.admin.SaveBrand(ctx, b); err != nil {
		if formError(err) {
			renderHTML(w, r, statusFor(err), templates.AdminBrandForm(adminPage(r, title), templates.BrandFormView{
				IsNew: isNew,
				Brand: b,
				Error: core.FormatUserError(err),
			}))
			return
		}
		s.respondError(w, r, err, statusFor(err))
		return
	}

	redirect(w, r, "/admin/brands/?saved=%s", url.QueryEscape(b.Name))
}

func (s *Server) handleAdminBrandDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := adminContext(r)
	defer cancel()

	name := urlParam(r, "name")
	if err := s.admin.DeleteBrand(ctx, name); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	redirect(w, r, "/admin/brands/?deleted=%s", url.QueryEscape(name))
}

// formError reports whether err should be shown on the form rather than
// as an error page.
func formError(err error) bool {
	return errors.Is(err, core.ErrInvalidInput) || errors.Is(err, core.ErrAlreadyExists)
}
