package core

import "strings"

// ResultLanguage selects which translation of cause and remedy is displayed.
// It is independent of the UI language.
type ResultLanguage string

const (
	LangEN ResultLanguage = "en"
	LangFR ResultLanguage = "fr"
)

// DefaultResultLanguage is used when the request does not name one.
const DefaultResultLanguage = LangEN

// ResultLanguages lists the selectable result languages in display order.
var ResultLanguages = []ResultLanguage{LangEN, LangFR}

// ParseResultLanguage maps a request value to a result language.
// Unknown and empty values fall back to English.
func ParseResultLanguage(s string) ResultLanguage {
	switch ResultLanguage(strings.ToLower(strings.TrimSpace(s))) {
	case LangFR:
		return LangFR
	default:
		return DefaultResultLanguage
	}
}

// DisplayRecord is an error code reduced to the text shown in one language.
type DisplayRecord struct {
	Code     string         `json:"code"`
	Title    string         `json:"title"`
	Cause    string         `json:"cause"`
	Remedy   string         `json:"remedy"`
	Language ResultLanguage `json:"language"`
}

// Localize selects the cause and remedy text of e for lang.
func Localize(e ErrorCode, lang ResultLanguage) DisplayRecord {
	rec := DisplayRecord{
		Code:     e.Code,
		Title:    e.Title,
		Language: lang,
	}
	if lang == LangFR {
		rec.Cause, rec.Remedy = e.CauseFR, e.RemedyFR
	} else {
		rec.Language = LangEN
		rec.Cause, rec.Remedy = e.CauseEN, e.RemedyEN
	}
	return rec
}
