package core

// validation.go holds the field rules shared by the importer and the admin
// forms. Rules mirror the column limits of the SQL schemas so that a record
// accepted here never fails on a length constraint in the store.

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ValidateErrorCode checks an error code key and its fields before an upsert.
// The returned error wraps ErrInvalidInput.
func ValidateErrorCode(code string, fields ErrorCodeFields) error {
	rec := ErrorCode{Code: code, ErrorCodeFields: fields}
	err := validation.ValidateStruct(&rec,
		validation.Field(&rec.Code,
			validation.Required.Error("code is required"),
			validation.RuneLength(1, MaxCodeLength).Error(fmt.Sprintf("code must be at most %d characters", MaxCodeLength)),
			validation.By(noSurroundingSpace),
		),
	)
	if err == nil {
		err = validation.ValidateStruct(&rec.ErrorCodeFields,
			validation.Field(&rec.ErrorCodeFields.Title,
				validation.RuneLength(0, MaxTitleLength).Error(fmt.Sprintf("title must be at most %d characters", MaxTitleLength)),
			),
		)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// ValidateBrand checks a brand before an upsert.
// The returned error wraps ErrInvalidInput.
func ValidateBrand(b Brand) error {
	err := validation.ValidateStruct(&b,
		validation.Field(&b.Name,
			validation.Required.Error("name is required"),
			validation.RuneLength(1, MaxBrandNameLength).Error(fmt.Sprintf("name must be at most %d characters", MaxBrandNameLength)),
			validation.By(noSurroundingSpace),
		),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

func noSurroundingSpace(value any) error {
	s, _ := value.(string)
	if s != strings.TrimSpace(s) {
		return validation.NewError("validation_surrounding_space", "must not start or end with whitespace")
	}
	return nil
}
