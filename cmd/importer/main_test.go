package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `[
  {"model": "errors.errorcodefanuc", "pk": 1, "fields": {"code": "SRVO-001", "title": "Operator panel E-stop", "cause_en": "E-stop pressed", "remedy_en": "Release E-stop", "cause_fr": "Arret d'urgence", "remedy_fr": "Relacher"}},
  {"model": "errors.brand", "pk": 1, "fields": {"name": "Fanuc", "is_active": true}}
]`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runImporter(t *testing.T, dbURL string, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("DATABASE_URL", dbURL)
	t.Setenv("LOG_LEVEL", "error")
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunImportsThenUpdates(t *testing.T) {
	path := writeFile(t, "errors.json", fixture)
	dbURL := "sqlite://" + filepath.Join(t.TempDir(), "import.db")

	code, stdout, _ := runImporter(t, dbURL, path)
	require.Equal(t, 0, code)
	assert.Equal(t, "Successfully imported 1 new errors and updated 0 existing errors\n", stdout)

	code, stdout, _ = runImporter(t, dbURL, path)
	require.Equal(t, 0, code)
	assert.Equal(t, "Successfully imported 0 new errors and updated 1 existing errors\n", stdout)
}

func TestRunYAML(t *testing.T) {
	path := writeFile(t, "errors.yaml", `
- model: errors.errorcodefanuc
  fields:
    code: MOTN-017
    title: Limit error
    cause_en: Joint limit reached
    remedy_en: Jog back
    cause_fr: Limite atteinte
    remedy_fr: Reculer
`)
	code, stdout, _ := runImporter(t, "memory://", path)
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Successfully imported 1 new errors")
}

func TestRunFailures(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr string
	}{
		{
			name: "missing file",
			path: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "absent.json")
			},
			wantErr: "not found",
		},
		{
			name: "malformed json",
			path: func(t *testing.T) string {
				return writeFile(t, "bad.json", `[{"model": `)
			},
			wantErr: "Invalid JSON in file",
		},
		{
			name: "invalid record",
			path: func(t *testing.T) string {
				return writeFile(t, "bad.json", `[{"model": "errors.errorcodefanuc", "fields": {"title": "no code"}}]`)
			},
			wantErr: "Error importing data:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runImporter(t, "memory://", tt.path(t))
			assert.Equal(t, 1, code)
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, tt.wantErr)
		})
	}
}

func TestRunUsage(t *testing.T) {
	code, _, stderr := runImporter(t, "memory://")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "usage: importer <data-file>")
}

func TestRunBadDatabaseURL(t *testing.T) {
	path := writeFile(t, "errors.json", fixture)
	code, _, stderr := runImporter(t, "mysql://nope", path)
	assert.Equal(t, 1, code)
	assert.NotEmpty(t, stderr)
}
