package core

import (
	"strings"
	"time"
)

// Field length limits shared by validation and the SQL schemas.
const (
	MaxBrandNameLength = 50
	MaxCodeLength      = 20
	MaxTitleLength     = 200
)

// Brand is a robot manufacturer. Inactive brands render as "coming soon".
type Brand struct {
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

func (b Brand) String() string {
	return b.Name
}

// ErrorCodeFields are the mutable columns of an error code.
// They are everything an upsert writes; Code and CreatedAt are not included.
type ErrorCodeFields struct {
	Title    string `json:"title"`
	CauseEN  string `json:"cause_en"`
	RemedyEN string `json:"remedy_en"`
	CauseFR  string `json:"cause_fr"`
	RemedyFR string `json:"remedy_fr"`
}

// ErrorCode is one controller alarm with bilingual cause and remedy text.
type ErrorCode struct {
	Code string `json:"code"`
	ErrorCodeFields
	CreatedAt time.Time `json:"created_at"`
}

// String renders the record the way list views label it: "SRVO-001 - Servo Error".
func (e ErrorCode) String() string {
	return e.Code + " - " + e.Title
}

// SearchField names a text column that can take part in a substring filter.
type SearchField string

const (
	FieldCode     SearchField = "code"
	FieldTitle    SearchField = "title"
	FieldCauseEN  SearchField = "cause_en"
	FieldRemedyEN SearchField = "remedy_en"
	FieldCauseFR  SearchField = "cause_fr"
	FieldRemedyFR SearchField = "remedy_fr"
)

// SearchFields are the columns matched by public search and the admin search box.
var SearchFields = []SearchField{FieldCode, FieldTitle, FieldCauseEN, FieldCauseFR}

// Valid reports whether f is a known error-code column.
func (f SearchField) Valid() bool {
	switch f {
	case FieldCode, FieldTitle, FieldCauseEN, FieldRemedyEN, FieldCauseFR, FieldRemedyFR:
		return true
	}
	return false
}

// Value returns the column value of e named by f.
func (f SearchField) Value(e ErrorCode) string {
	switch f {
	case FieldCode:
		return e.Code
	case FieldTitle:
		return e.Title
	case FieldCauseEN:
		return e.CauseEN
	case FieldRemedyEN:
		return e.RemedyEN
	case FieldCauseFR:
		return e.CauseFR
	case FieldRemedyFR:
		return e.RemedyFR
	}
	return ""
}

// ErrorCodeFilter is the predicate accepted by Store.FindErrorCodes.
//
// A row matches when Text is empty or is a case-insensitive substring of at
// least one of Fields (SearchFields when Fields is empty), and, when CreatedSince is set, it was created at or
// after CreatedSince. Results are ordered by code. Limit <= 0 means no limit.
type ErrorCodeFilter struct {
	Text         string
	Fields       []SearchField
	CreatedSince time.Time
	Limit        int
}

// Matches evaluates the filter against a single record.
// In-process stores use it directly; SQL stores translate the same rules.
func (f ErrorCodeFilter) Matches(e ErrorCode) bool {
	if !f.CreatedSince.IsZero() && e.CreatedAt.Before(f.CreatedSince) {
		return false
	}
	if f.Text == "" {
		return true
	}
	needle := strings.ToLower(f.Text)
	for _, field := range f.MatchFields() {
		if strings.Contains(strings.ToLower(field.Value(e)), needle) {
			return true
		}
	}
	return false
}

// MatchFields returns the valid columns the text filter applies to.
func (f ErrorCodeFilter) MatchFields() []SearchField {
	if len(f.Fields) == 0 {
		return SearchFields
	}
	out := make([]SearchField, 0, len(f.Fields))
	for _, field := range f.Fields {
		if field.Valid() {
			out = append(out, field)
		}
	}
	return out
}

// Columns returns MatchFields as column names for SQL stores.
func (f ErrorCodeFilter) Columns() []string {
	fields := f.MatchFields()
	cols := make([]string, len(fields))
	for i, field := range fields {
		cols[i] = string(field)
	}
	return cols
}

// BrandFilter is the predicate accepted by Store.FindBrands.
// Text is a case-insensitive substring of the name; Active, when non-nil,
// restricts to brands with that flag. Results are ordered by name.
type BrandFilter struct {
	Text   string
	Active *bool
	Limit  int
}

// Matches evaluates the filter against a single brand.
func (f BrandFilter) Matches(b Brand) bool {
	if f.Active != nil && b.IsActive != *f.Active {
		return false
	}
	if f.Text == "" {
		return true
	}
	return strings.Contains(strings.ToLower(b.Name), strings.ToLower(f.Text))
}
