package core_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/helprobot/internal/core"
	"github.com/JonMunkholm/helprobot/internal/store/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const servoFixture = `[
  {
    "model": "errors.errorcodefanuc",
    "pk": 1,
    "fields": {
      "code": "SRVO-001",
      "title": "Servo Error",
      "cause_en": "Motor overload",
      "remedy_en": "Check motor",
      "cause_fr": "Surcharge moteur",
      "remedy_fr": "Vérifier moteur"
    }
  }
]`

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newImporter(s core.Store) *core.Importer {
	return core.NewImporter(s).WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestImportFileCreatesThenUpdates(t *testing.T) {
	s := memstore.New()
	im := newImporter(s)
	path := writeFixture(t, "fanuc.json", servoFixture)
	ctx := context.Background()

	res, err := im.ImportFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "1 created, 0 updated", res.String())

	rec, err := s.GetErrorCode(ctx, "SRVO-001")
	require.NoError(t, err)
	assert.Equal(t, servo, rec.ErrorCodeFields)

	res, err = im.ImportFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "0 created, 1 updated", res.String())

	n, err := s.CountErrorCodes(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestImportFileNotFound(t *testing.T) {
	s := memstore.New()
	path := filepath.Join(t.TempDir(), "missing.json")

	_, err := newImporter(s).ImportFile(context.Background(), path)
	require.Error(t, err)
	assert.Equal(t, core.KindFileNotFound, core.ImportErrorKindOf(err))

	var ie *core.ImportError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "File "+path+" not found", ie.Message())

	n, _ := s.CountErrorCodes(context.Background())
	assert.Zero(t, n)
}

func TestImportFileMalformed(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantMsg string
	}{
		{name: "truncated json", file: "bad.json", content: `[{"model": `, wantMsg: "Invalid JSON in file "},
		{name: "object instead of list", file: "obj.json", content: `{"model": "errors.errorcodefanuc"}`, wantMsg: "Invalid JSON in file "},
		{name: "broken yaml", file: "bad.yaml", content: "- model: [unclosed\n", wantMsg: "Invalid YAML in file "},
		{name: "null json", file: "null.json", content: "null", wantMsg: "Invalid JSON in file "},
		{name: "empty yaml", file: "empty.yaml", content: "", wantMsg: "Invalid YAML in file "},
		{name: "yaml scalar null", file: "tilde.yml", content: "~\n", wantMsg: "Invalid YAML in file "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := memstore.New()
			path := writeFixture(t, tt.file, tt.content)

			_, err := newImporter(s).ImportFile(context.Background(), path)
			require.Error(t, err)
			assert.Equal(t, core.KindMalformedInput, core.ImportErrorKindOf(err))

			var ie *core.ImportError
			require.ErrorAs(t, err, &ie)
			assert.Equal(t, tt.wantMsg+path, ie.Message())

			n, _ := s.CountErrorCodes(context.Background())
			assert.Zero(t, n)
		})
	}
}

func TestImportSkipsOtherModels(t *testing.T) {
	s := memstore.New()
	data := `[
  {"model": "auth.user", "pk": 1, "fields": {"username": "admin"}},
  {"model": "errors.brand", "pk": 1, "fields": {"name": "Fanuc", "is_active": true}},
  {"model": "errors.errorcodefanuc", "pk": 7, "fields": {"code": "MOTN-017", "title": "Limit error", "cause_en": "", "remedy_en": "", "cause_fr": "", "remedy_fr": ""}}
]`

	res, err := newImporter(s).Import(context.Background(), strings.NewReader(data), core.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, core.ImportResult{Created: 1, Skipped: 2}, res)
}

func TestImportSkipsEmptyModelTag(t *testing.T) {
	s := memstore.New()
	data := `[
  {"model": "", "fields": {}},
  {"model": "errors.errorcodefanuc", "fields": {"code": "X1", "title": "t", "cause_en": "", "remedy_en": "", "cause_fr": "", "remedy_fr": ""}}
]`

	res, err := newImporter(s).Import(context.Background(), strings.NewReader(data), core.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, core.ImportResult{Created: 1, Skipped: 1}, res)

	_, err = s.GetErrorCode(context.Background(), "X1")
	assert.NoError(t, err)
}

func TestImportEmptyList(t *testing.T) {
	res, err := newImporter(memstore.New()).Import(context.Background(), strings.NewReader("[]"), core.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, core.ImportResult{}, res)
}

func TestImportStopsAtFailingRecord(t *testing.T) {
	s := memstore.New()
	data := `[
  {"model": "errors.errorcodefanuc", "fields": {"code": "A-1", "title": "a", "cause_en": "", "remedy_en": "", "cause_fr": "", "remedy_fr": ""}},
  {"model": "errors.errorcodefanuc", "fields": {"code": "A-2", "title": "b"}},
  {"model": "errors.errorcodefanuc", "fields": {"code": "A-3", "title": "c", "cause_en": "", "remedy_en": "", "cause_fr": "", "remedy_fr": ""}}
]`

	res, err := newImporter(s).Import(context.Background(), strings.NewReader(data), core.FormatJSON)
	require.Error(t, err)
	assert.Equal(t, core.KindGenericFailure, core.ImportErrorKindOf(err))
	assert.Equal(t, 1, res.Created)

	var ie *core.ImportError
	require.ErrorAs(t, err, &ie)
	assert.True(t, strings.HasPrefix(ie.Message(), "Error importing data: "), ie.Message())

	_, err = s.GetErrorCode(context.Background(), "A-1")
	assert.NoError(t, err, "records before the failure stay committed")
	_, err = s.GetErrorCode(context.Background(), "A-3")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestImportRejectsInvalidRecords(t *testing.T) {
	const rest = `"cause_en": "", "remedy_en": "", "cause_fr": "", "remedy_fr": ""`
	tests := []struct {
		name string
		data string
	}{
		{name: "absent model key", data: `[{"fields": {"code": "X-1", "title": "t", ` + rest + `}}]`},
		{name: "missing fields", data: `[{"model": "errors.errorcodefanuc"}]`},
		{name: "missing remedy", data: `[{"model": "errors.errorcodefanuc", "fields": {"code": "X-1", "title": "t"}}]`},
		{name: "code too long", data: `[{"model": "errors.errorcodefanuc", "fields": {"code": "THIS-CODE-IS-WAY-TOO-LONG", "title": "t", ` + rest + `}}]`},
		{name: "empty code", data: `[{"model": "errors.errorcodefanuc", "fields": {"code": "", "title": "t", ` + rest + `}}]`},
		{name: "null title", data: `[{"model": "errors.errorcodefanuc", "fields": {"code": "X-1", "title": null, ` + rest + `}}]`},
		{name: "nested title", data: `[{"model": "errors.errorcodefanuc", "fields": {"code": "X-1", "title": {"en": "t"}, ` + rest + `}}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := memstore.New()
			_, err := newImporter(s).Import(context.Background(), strings.NewReader(tt.data), core.FormatJSON)
			require.Error(t, err)
			assert.Equal(t, core.KindGenericFailure, core.ImportErrorKindOf(err))

			n, _ := s.CountErrorCodes(context.Background())
			assert.Zero(t, n)
		})
	}
}

func TestImportYAML(t *testing.T) {
	s := memstore.New()
	path := writeFixture(t, "fanuc.yml", `
- model: errors.errorcodefanuc
  pk: 1
  fields:
    code: 1001
    title: Battery alarm
    cause_en: Low battery
    remedy_en: Replace battery
    cause_fr: Batterie faible
    remedy_fr: Remplacer la batterie
`)

	res, err := newImporter(s).ImportFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)

	rec, err := s.GetErrorCode(context.Background(), "1001")
	require.NoError(t, err)
	assert.Equal(t, "Batterie faible", rec.CauseFR)
}

func TestImportStoreFailure(t *testing.T) {
	_, err := newImporter(failingStore{Store: memstore.New()}).
		Import(context.Background(), strings.NewReader(servoFixture), core.FormatJSON)
	require.Error(t, err)
	assert.Equal(t, core.KindGenericFailure, core.ImportErrorKindOf(err))
	assert.ErrorIs(t, err, errStoreDown)
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, core.FormatJSON, core.FormatForPath("fanuc.json"))
	assert.Equal(t, core.FormatYAML, core.FormatForPath("fanuc.YAML"))
	assert.Equal(t, core.FormatYAML, core.FormatForPath("dir/fanuc.yml"))
	assert.Equal(t, core.FormatJSON, core.FormatForPath("fixture"))
}

func TestImportErrorMessageWithoutPath(t *testing.T) {
	err := &core.ImportError{Kind: core.KindMalformedInput, Format: core.FormatYAML}
	assert.Equal(t, "Invalid YAML in file <input>", err.Message())
}
