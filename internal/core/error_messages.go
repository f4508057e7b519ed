// Package core provides the business logic for the robot error-code lookup.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support
// reference. Operators can quote the code when reporting a problem.
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate key: A record with this key already exists
//	        Patterns: "duplicate key", "unique constraint", ErrAlreadyExists
//
//	DB002 - Not found: The requested record does not exist
//	        Patterns: "record not found", ErrNotFound
//
//	DB003 - Connection refused: Unable to connect to database
//	        Patterns: "connection refused"
//
//	DB004 - Connection reset: Database connection was interrupted
//	        Patterns: "connection reset"
//
//	DB005 - Busy: Database was busy with conflicting operations
//	        Patterns: "deadlock", "database is locked"
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Required field: A required field is empty
//	         Patterns: "is required"
//
//	VAL002 - Too long: A field exceeds its maximum length
//	         Patterns: "must be at most"
//
//	VAL003 - Invalid input: The submitted values are not valid
//	         Patterns: "invalid input", ErrInvalidInput
//
// # Import Errors (IMP001-IMP099)
//
//	IMP001 - File not found: The data file does not exist
//	IMP002 - Malformed data: The data file could not be parsed
//	IMP003 - Import failed: A record could not be imported
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled
//	         Patterns: "context canceled"
//
//	REQ002 - Request timeout
//	         Patterns: "context deadline exceeded", "timeout"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//
// # Pattern Matching
//
// Typed errors (sentinels and *ImportError) are resolved first with
// errors.Is / errors.As. Remaining errors are matched case-insensitively
// using strings.Contains; the first matching pattern wins, so more specific
// patterns are listed before general ones.
package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

var (
	msgDuplicate = UserMessage{
		Message: "A record with this key already exists",
		Action:  "Edit the existing record instead",
		Code:    "DB001",
	}
	msgNotFound = UserMessage{
		Message: "The requested record does not exist",
		Action:  "Check the code or name and try again",
		Code:    "DB002",
	}
	msgInvalid = UserMessage{
		Message: "The submitted values are not valid",
		Action:  "Correct the highlighted fields",
		Code:    "VAL003",
	}
	msgCancelled = UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "REQ001",
	}
	msgTimeout = UserMessage{
		Message: "Request timed out",
		Action:  "Please try again in a few moments",
		Code:    "REQ002",
	}
)

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
var errorPatterns = []errorPattern{
	// Database
	{pattern: "duplicate key", msg: msgDuplicate},
	{pattern: "unique constraint", msg: msgDuplicate},
	{pattern: "record not found", msg: msgNotFound},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB003",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB004",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "Database was busy with conflicting operations",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},
	{
		pattern: "database is locked",
		msg: UserMessage{
			Message: "Database was busy with conflicting operations",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},

	// Validation
	{
		pattern: "is required",
		msg: UserMessage{
			Message: "A required field is empty",
			Action:  "Fill in every required field",
			Code:    "VAL001",
		},
	},
	{
		pattern: "must be at most",
		msg: UserMessage{
			Message: "A field exceeds its maximum length",
			Action:  "Shorten the value and try again",
			Code:    "VAL002",
		},
	},
	{pattern: "invalid input", msg: msgInvalid},

	// Request lifecycle
	{pattern: "context canceled", msg: msgCancelled},
	{pattern: "context deadline exceeded", msg: msgTimeout},
	{pattern: "timeout", msg: msgTimeout},
}

// defaultMessage is returned when no specific pattern matches.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error into a user-friendly message.
// Returns an empty UserMessage for a nil error.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var ie *ImportError
	switch {
	case errors.As(err, &ie):
		return importMessage(ie)
	case errors.Is(err, ErrAlreadyExists):
		return msgDuplicate
	case errors.Is(err, ErrNotFound):
		return msgNotFound
	case errors.Is(err, context.Canceled):
		return msgCancelled
	case errors.Is(err, context.DeadlineExceeded):
		return msgTimeout
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

func importMessage(ie *ImportError) UserMessage {
	switch ie.Kind {
	case KindFileNotFound:
		return UserMessage{
			Message: ie.Message(),
			Action:  "Check the path of the data file",
			Code:    "IMP001",
		}
	case KindMalformedInput:
		return UserMessage{
			Message: ie.Message(),
			Action:  "Validate the file syntax and try again",
			Code:    "IMP002",
		}
	default:
		return UserMessage{
			Message: ie.Message(),
			Action:  "Fix the reported record and run the import again",
			Code:    "IMP003",
		}
	}
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the generic ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	UserMessage
	Err error
}

// NewUserError wraps err with the message MapError resolves for it.
// Returns nil for a nil error.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{UserMessage: MapError(err), Err: err}
}

func (e *UserError) Error() string {
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}
