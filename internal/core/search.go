package core

import (
	"context"
	"fmt"
)

// SearchResultLimit caps the number of rows a search returns.
const SearchResultLimit = 10

// SearchResult is the outcome of one lookup.
type SearchResult struct {
	Query    string
	Language ResultLanguage
	Records  []ErrorCode
}

// Display returns the records with cause and remedy in the result language.
func (r SearchResult) Display() []DisplayRecord {
	out := make([]DisplayRecord, len(r.Records))
	for i, rec := range r.Records {
		out[i] = Localize(rec, r.Language)
	}
	return out
}

// Empty reports whether the search produced no rows.
func (r SearchResult) Empty() bool {
	return len(r.Records) == 0
}

// SearchService runs read-only lookups against the store.
type SearchService struct {
	store Store
}

// NewSearchService creates a SearchService backed by store.
func NewSearchService(store Store) *SearchService {
	return &SearchService{store: store}
}

// Search returns up to SearchResultLimit error codes, ordered by code, whose
// code, title, English cause or French cause contains query case-insensitively.
// An empty query returns an empty result without querying the store.
// lang only affects SearchResult.Display, never which rows match.
func (s *SearchService) Search(ctx context.Context, query string, lang ResultLanguage) (SearchResult, error) {
	result := SearchResult{
		Query:    query,
		Language: lang,
		Records:  []ErrorCode{},
	}
	if lang == "" {
		result.Language = DefaultResultLanguage
	}
	if query == "" {
		return result, nil
	}

	records, err := s.store.FindErrorCodes(ctx, ErrorCodeFilter{
		Text:   query,
		Fields: SearchFields,
		Limit:  SearchResultLimit,
	})
	if err != nil {
		return result, fmt.Errorf("search error codes: %w", err)
	}
	if len(records) > SearchResultLimit {
		records = records[:SearchResultLimit]
	}
	if records != nil {
		result.Records = records
	}
	return result, nil
}
