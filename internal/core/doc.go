// Package core provides the business logic for the robot error-code lookup.
//
// This package holds the domain model and every operation on it, independent
// of any storage engine or transport. It can be used by web handlers, the
// import CLI, or tests without modification.
//
// # Architecture
//
// The package is organized around a few concepts:
//
//   - Records: [ErrorCode] (bilingual cause/remedy text keyed by code) and
//     [Brand] (manufacturer metadata gating which search pages are live).
//   - Store: the [Store] interface is the only way records are read or
//     written. Backends live under internal/store.
//   - Search: [SearchService] runs the case-insensitive substring lookup
//     capped at [SearchResultLimit] rows.
//   - Import: [Importer] upserts error codes from a fixture file keyed by code.
//   - Brands: manufacturers are registered at init time with [RegisterBrand].
//
// # Result Language
//
// The language used for cause/remedy text is chosen per request with
// [ParseResultLanguage] and is independent of the UI language. It never
// changes which rows match a query; [SearchResult.Display] applies it.
//
// # Error Handling
//
// Store lookups return [ErrNotFound] and [ErrAlreadyExists]. Import failures
// are reported as [*ImportError] with one of three kinds. Technical errors
// are mapped to user-friendly messages using [MapError]:
//
//   - DB001-DB005: Database errors (duplicates, connections, timeouts)
//   - VAL001-VAL003: Validation errors (required, length, invalid input)
//   - IMP001-IMP003: Import errors (missing file, malformed data, row failure)
//   - REQ001-REQ002: Request errors (cancelled, timed out)
package core
