package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned by stores when a keyed lookup has no row.
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyExists is returned when creating a record whose key is taken.
	ErrAlreadyExists = errors.New("record already exists")

	// ErrInvalidInput wraps validation failures on user-supplied records.
	ErrInvalidInput = errors.New("invalid input")
)

// ImportErrorKind classifies why an import stopped.
type ImportErrorKind int

const (
	// KindFileNotFound means the data file does not exist. Nothing was written.
	KindFileNotFound ImportErrorKind = iota + 1
	// KindMalformedInput means the file could not be decoded. Nothing was written.
	KindMalformedInput
	// KindGenericFailure means processing stopped on a record. Records
	// upserted before it remain committed.
	KindGenericFailure
)

func (k ImportErrorKind) String() string {
	switch k {
	case KindFileNotFound:
		return "file not found"
	case KindMalformedInput:
		return "malformed input"
	case KindGenericFailure:
		return "import failure"
	default:
		return "unknown"
	}
}

// ImportError is returned by Importer for every failed run.
type ImportError struct {
	Kind   ImportErrorKind
	Path   string
	Format FixtureFormat
	Err    error
}

func (e *ImportError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("import %s: %s: %v", e.Path, e.Kind, e.Err)
	}
	return fmt.Sprintf("import: %s: %v", e.Kind, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// Message renders the console text shown to the operator.
func (e *ImportError) Message() string {
	path := e.Path
	if path == "" {
		path = "<input>"
	}
	switch e.Kind {
	case KindFileNotFound:
		return fmt.Sprintf("File %s not found", path)
	case KindMalformedInput:
		return fmt.Sprintf("Invalid %s in file %s", strings.ToUpper(string(e.Format)), path)
	default:
		return fmt.Sprintf("Error importing data: %v", e.Err)
	}
}

// ImportErrorKindOf returns the kind of an import error, or 0 if err is not one.
func ImportErrorKindOf(err error) ImportErrorKind {
	var ie *ImportError
	if errors.As(err, &ie) {
		return ie.Kind
	}
	return 0
}
