package errors

import (
	"errors"
)

// As is a wrapper around errors.As that works with our Error type
func As(err error, target **Error) bool {
	return errors.As(err, target)
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// GetCode extracts the error code from an error
func GetCode(err error) Code {
	if err == nil {
		return CodeOK
	}

	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.Code
	}

	return CodeInternal
}

// GetMessage extracts the user-friendly message from an error
func GetMessage(err error) string {
	if err == nil {
		return ""
	}

	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.Message
	}

	return err.Error()
}

// FieldErrors returns the per-field messages carried by a validation error.
func FieldErrors(err error) map[string][]string {
	var customErr *Error
	if !errors.As(err, &customErr) || customErr.Meta == nil {
		return nil
	}
	fields, _ := customErr.Meta[metaValidationErrors].(map[string][]string)
	return fields
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return GetCode(err) == CodeNotFound
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return GetCode(err) == CodeValidation
}

// IsConflict checks if an error is a conflict or already exists error
func IsConflict(err error) bool {
	code := GetCode(err)
	return code == CodeConflict || code == CodeAlreadyExists
}

// IsPermissionDenied checks if an error is a permission denied error
func IsPermissionDenied(err error) bool {
	return GetCode(err) == CodePermissionDenied
}
