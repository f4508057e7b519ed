package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "duplicate key maps correctly",
			err:         errors.New("ERROR: duplicate key value violates unique constraint"),
			wantCode:    "DB001",
			wantMessage: "A record with this key already exists",
		},
		{
			name:        "sqlite unique constraint maps correctly",
			err:         errors.New("constraint failed: UNIQUE constraint failed: error_codes.code"),
			wantCode:    "DB001",
			wantMessage: "A record with this key already exists",
		},
		{
			name:        "wrapped ErrAlreadyExists maps correctly",
			err:         fmt.Errorf("create SRVO-001: %w", ErrAlreadyExists),
			wantCode:    "DB001",
			wantMessage: "A record with this key already exists",
		},
		{
			name:        "wrapped ErrNotFound maps correctly",
			err:         fmt.Errorf("get SRVO-001: %w", ErrNotFound),
			wantCode:    "DB002",
			wantMessage: "The requested record does not exist",
		},
		{
			name:        "connection refused maps correctly",
			err:         errors.New("dial tcp: connection refused"),
			wantCode:    "DB003",
			wantMessage: "Unable to connect to database",
		},
		{
			name:        "sqlite busy maps correctly",
			err:         errors.New("database is locked (5) (SQLITE_BUSY)"),
			wantCode:    "DB005",
			wantMessage: "Database was busy with conflicting operations",
		},
		{
			name:        "required field maps correctly",
			err:         fmt.Errorf("%w: code: code is required.", ErrInvalidInput),
			wantCode:    "VAL001",
			wantMessage: "A required field is empty",
		},
		{
			name:        "length violation maps correctly",
			err:         fmt.Errorf("%w: title: title must be at most 200 characters.", ErrInvalidInput),
			wantCode:    "VAL002",
			wantMessage: "A field exceeds its maximum length",
		},
		{
			name:        "deadline exceeded maps correctly",
			err:         fmt.Errorf("search: %w", context.DeadlineExceeded),
			wantCode:    "REQ002",
			wantMessage: "Request timed out",
		},
		{
			name:        "missing import file maps correctly",
			err:         &ImportError{Kind: KindFileNotFound, Path: "fanuc.json"},
			wantCode:    "IMP001",
			wantMessage: "File fanuc.json not found",
		},
		{
			name:        "malformed import file maps correctly",
			err:         &ImportError{Kind: KindMalformedInput, Path: "fanuc.json", Format: FormatJSON},
			wantCode:    "IMP002",
			wantMessage: "Invalid JSON in file fanuc.json",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("DUPLICATE KEY value violates"),
			wantCode:    "DB001",
			wantMessage: "A record with this key already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	err := errors.New("duplicate key value violates")
	result := FormatUserError(err)

	expected := "A record with this key already exists (Code: DB001). Edit the existing record instead"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error is not user facing",
			err:  nil,
			want: false,
		},
		{
			name: "known error is user facing",
			err:  errors.New("duplicate key"),
			want: true,
		},
		{
			name: "unknown error is not user facing",
			err:  errors.New("random internal error xyz"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsUserFacing(tt.err)
			if got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewUserError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if got := NewUserError(nil); got != nil {
			t.Errorf("NewUserError(nil) = %v, want nil", got)
		}
	})

	t.Run("wraps technical error with user message", func(t *testing.T) {
		techErr := fmt.Errorf("delete brand: %w", ErrNotFound)
		userErr := NewUserError(techErr)

		if userErr.Error() != "The requested record does not exist" {
			t.Errorf("Error() = %q, want user message", userErr.Error())
		}

		if !errors.Is(userErr, ErrNotFound) {
			t.Error("Unwrap() should return original error")
		}
	})
}
