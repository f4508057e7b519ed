package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ErrorCodeModel is the fixture model tag of records the importer loads.
const ErrorCodeModel = "errors.errorcodefanuc"

// fixtureFieldNames are the keys every error-code record must carry.
var fixtureFieldNames = []string{"code", "title", "cause_en", "remedy_en", "cause_fr", "remedy_fr"}

// FixtureFormat is the encoding of an import file.
type FixtureFormat string

const (
	FormatJSON FixtureFormat = "json"
	FormatYAML FixtureFormat = "yaml"
)

// FormatForPath picks the fixture format from a file extension.
// .yaml and .yml are YAML; everything else is read as JSON.
func FormatForPath(path string) FixtureFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// FixtureRecord is one tagged record of a data file.
type FixtureRecord struct {
	Model  *string        `json:"model" yaml:"model"` // nil when the key is absent
	PK     any            `json:"pk,omitempty" yaml:"pk,omitempty"`
	Fields map[string]any `json:"fields" yaml:"fields"`
}

// ImportResult counts what an import run did.
type ImportResult struct {
	Created int
	Updated int
	Skipped int
}

func (r ImportResult) String() string {
	return fmt.Sprintf("%d created, %d updated", r.Created, r.Updated)
}

// Importer loads error codes from fixture files into a store.
type Importer struct {
	store  Store
	logger *slog.Logger
}

// NewImporter creates an Importer writing to store.
func NewImporter(store Store) *Importer {
	return &Importer{store: store, logger: slog.Default()}
}

// WithLogger returns a copy of the importer that logs to logger.
func (im *Importer) WithLogger(logger *slog.Logger) *Importer {
	cp := *im
	cp.logger = logger
	return &cp
}

// ImportFile reads the file at path and imports it.
// The format is chosen with FormatForPath. Any failure is an *ImportError.
func (im *Importer) ImportFile(ctx context.Context, path string) (ImportResult, error) {
	format := FormatForPath(path)

	data, err := os.ReadFile(path)
	if err != nil {
		kind := KindGenericFailure
		if errors.Is(err, fs.ErrNotExist) {
			kind = KindFileNotFound
		}
		return ImportResult{}, &ImportError{Kind: kind, Path: path, Format: format, Err: err}
	}

	result, err := im.importBytes(ctx, data, format)
	var ie *ImportError
	if errors.As(err, &ie) {
		ie.Path = path
	}
	return result, err
}

// Import reads a fixture from r and imports it.
func (im *Importer) Import(ctx context.Context, r io.Reader, format FixtureFormat) (ImportResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return ImportResult{}, &ImportError{Kind: KindGenericFailure, Format: format, Err: err}
	}
	return im.importBytes(ctx, data, format)
}

// importBytes decodes the whole fixture before writing anything, then
// upserts error-code records one by one. It stops at the first failing
// record; earlier upserts stay committed.
func (im *Importer) importBytes(ctx context.Context, data []byte, format FixtureFormat) (ImportResult, error) {
	var result ImportResult

	records, err := DecodeFixture(data, format)
	if err != nil {
		return result, &ImportError{Kind: KindMalformedInput, Format: format, Err: err}
	}

	logger := im.logger.With("import_id", uuid.NewString(), "format", string(format))
	logger.Debug("import started", "records", len(records))

	for i, rec := range records {
		if rec.Model == nil {
			return im.fail(logger, result, format, fmt.Errorf("record %d: missing model tag", i))
		}
		if *rec.Model != ErrorCodeModel {
			result.Skipped++
			continue
		}

		code, fields, err := errorCodeFromFixture(rec)
		if err != nil {
			return im.fail(logger, result, format, fmt.Errorf("record %d: %w", i, err))
		}

		created, err := im.store.UpsertErrorCode(ctx, code, fields)
		if err != nil {
			return im.fail(logger, result, format, fmt.Errorf("record %d (%s): %w", i, code, err))
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	logger.Info("import completed",
		"created", result.Created,
		"updated", result.Updated,
		"skipped", result.Skipped,
	)
	return result, nil
}

func (im *Importer) fail(logger *slog.Logger, result ImportResult, format FixtureFormat, err error) (ImportResult, error) {
	logger.Warn("import stopped",
		"created", result.Created,
		"updated", result.Updated,
		"error", err,
	)
	return result, &ImportError{Kind: KindGenericFailure, Format: format, Err: err}
}

// DecodeFixture parses a fixture document into its records.
// The document must be a sequence of records.
func DecodeFixture(data []byte, format FixtureFormat) ([]FixtureRecord, error) {
	var records []FixtureRecord
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &records); err != nil {
			return nil, err
		}
	case FormatJSON, "":
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported fixture format %q", format)
	}
	if records == nil {
		return nil, errors.New("document is not a sequence of records")
	}
	return records, nil
}

// errorCodeFromFixture extracts and validates the error-code fields of rec.
func errorCodeFromFixture(rec FixtureRecord) (string, ErrorCodeFields, error) {
	if rec.Fields == nil {
		return "", ErrorCodeFields{}, errors.New("missing fields")
	}

	values := make(map[string]string, len(fixtureFieldNames))
	for _, name := range fixtureFieldNames {
		raw, ok := rec.Fields[name]
		if !ok {
			return "", ErrorCodeFields{}, fmt.Errorf("missing field %q", name)
		}
		s, err := fixtureString(raw)
		if err != nil {
			return "", ErrorCodeFields{}, fmt.Errorf("field %q: %w", name, err)
		}
		values[name] = s
	}

	code := values["code"]
	fields := ErrorCodeFields{
		Title:    values["title"],
		CauseEN:  values["cause_en"],
		RemedyEN: values["remedy_en"],
		CauseFR:  values["cause_fr"],
		RemedyFR: values["remedy_fr"],
	}
	if err := ValidateErrorCode(code, fields); err != nil {
		return "", ErrorCodeFields{}, err
	}
	return code, fields, nil
}

// fixtureString accepts scalar field values; YAML in particular decodes
// bare numbers such as 1001 as ints.
func fixtureString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case nil:
		return "", errors.New("value is null")
	case bool, int, int64, uint64, float64:
		return fmt.Sprint(t), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}
