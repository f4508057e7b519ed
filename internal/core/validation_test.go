package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateErrorCode(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		title   string
		wantErr string
	}{
		{name: "valid", code: "SRVO-001", title: "Servo Error"},
		{name: "empty title allowed", code: "SRVO-001"},
		{name: "max length code", code: strings.Repeat("A", MaxCodeLength)},
		{name: "missing code", code: "", wantErr: "code is required"},
		{name: "code too long", code: strings.Repeat("A", MaxCodeLength+1), wantErr: "must be at most 20"},
		{name: "padded code", code: " SRVO-001", wantErr: "whitespace"},
		{name: "title too long", code: "X", title: strings.Repeat("t", MaxTitleLength+1), wantErr: "must be at most 200"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateErrorCode(tt.code, ErrorCodeFields{Title: tt.title})
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateBrand(t *testing.T) {
	assert.NoError(t, ValidateBrand(Brand{Name: "Fanuc"}))

	err := ValidateBrand(Brand{})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "name is required")

	err = ValidateBrand(Brand{Name: strings.Repeat("b", MaxBrandNameLength+1)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Error(t, ValidateBrand(Brand{Name: "Fanuc "}))
}
