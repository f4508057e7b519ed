package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodeString(t *testing.T) {
	e := ErrorCode{Code: "SRVO-001", ErrorCodeFields: ErrorCodeFields{Title: "Servo Error"}}
	assert.Equal(t, "SRVO-001 - Servo Error", e.String())
}

func TestErrorCodeFilterMatches(t *testing.T) {
	created := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	e := ErrorCode{
		Code:            "SRVO-001",
		ErrorCodeFields: ErrorCodeFields{Title: "Servo Error", RemedyFR: "Vérifier moteur"},
		CreatedAt:       created,
	}

	tests := []struct {
		name   string
		filter ErrorCodeFilter
		want   bool
	}{
		{name: "empty filter", filter: ErrorCodeFilter{}, want: true},
		{name: "code substring", filter: ErrorCodeFilter{Text: "vo-0"}, want: true},
		{name: "remedy not searched by default", filter: ErrorCodeFilter{Text: "vérifier"}, want: false},
		{name: "remedy when asked", filter: ErrorCodeFilter{Text: "VÉRIFIER", Fields: []SearchField{FieldRemedyFR}}, want: true},
		{name: "unknown field ignored", filter: ErrorCodeFilter{Text: "srvo", Fields: []SearchField{"password"}}, want: false},
		{name: "created before since", filter: ErrorCodeFilter{CreatedSince: created.Add(time.Second)}, want: false},
		{name: "created at since", filter: ErrorCodeFilter{CreatedSince: created}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(e))
		})
	}
}

func TestErrorCodeFilterColumns(t *testing.T) {
	assert.Equal(t, []string{"code", "title", "cause_en", "cause_fr"}, ErrorCodeFilter{}.Columns())
	assert.Equal(t, []string{"remedy_en"}, ErrorCodeFilter{Fields: []SearchField{"bogus", FieldRemedyEN}}.Columns())
}

func TestBrandFilterMatches(t *testing.T) {
	inactive := false
	b := Brand{Name: "Kuka"}

	assert.True(t, BrandFilter{}.Matches(b))
	assert.True(t, BrandFilter{Text: "KU"}.Matches(b))
	assert.True(t, BrandFilter{Active: &inactive}.Matches(b))
	assert.False(t, BrandFilter{Text: "fanuc"}.Matches(b))
}
