package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseResultLanguage(t *testing.T) {
	tests := []struct {
		in   string
		want ResultLanguage
	}{
		{in: "en", want: LangEN},
		{in: "fr", want: LangFR},
		{in: " FR ", want: LangFR},
		{in: "", want: LangEN},
		{in: "de", want: LangEN},
		{in: "fr-CA", want: LangEN},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseResultLanguage(tt.in), "input %q", tt.in)
	}
}

func TestLocalize(t *testing.T) {
	e := ErrorCode{Code: "SRVO-001", ErrorCodeFields: ErrorCodeFields{
		Title: "Servo Error", CauseEN: "Motor overload", RemedyEN: "Check motor",
		CauseFR: "Surcharge moteur", RemedyFR: "Vérifier moteur",
	}}

	fr := Localize(e, LangFR)
	assert.Equal(t, DisplayRecord{Code: "SRVO-001", Title: "Servo Error", Cause: "Surcharge moteur", Remedy: "Vérifier moteur", Language: LangFR}, fr)

	en := Localize(e, "")
	assert.Equal(t, LangEN, en.Language)
	assert.Equal(t, "Motor overload", en.Cause)
	assert.Equal(t, "Check motor", en.Remedy)
}
