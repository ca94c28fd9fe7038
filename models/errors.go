package models

import (
	"errors"
	"fmt"
)

// ErrDataValidation matches every *DataValidationError via errors.Is.
var ErrDataValidation = errors.New("data validation error")

// DataValidationError is the single error kind returned by the promotion
// model and its repository: bad input on Deserialize, an unknown enum name,
// or a failed write that has already been rolled back.
type DataValidationError struct {
	Message string
	// Fields maps a dictionary key to a user-facing message, when the
	// failure can be attributed to one or more fields.
	Fields map[string]string
	Err    error
}

func (e *DataValidationError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	}
	return ErrDataValidation.Error()
}

func (e *DataValidationError) Unwrap() error {
	return e.Err
}

func (e *DataValidationError) Is(target error) bool {
	return target == ErrDataValidation
}

// NewDataValidationError builds an error with a formatted message and no cause.
func NewDataValidationError(format string, args ...any) *DataValidationError {
	return &DataValidationError{Message: fmt.Sprintf(format, args...)}
}

// WrapDataValidationError wraps a persistence or decoding failure.
func WrapDataValidationError(err error, format string, args ...any) *DataValidationError {
	msg := fmt.Sprintf(format, args...)
	return &DataValidationError{
		Message: fmt.Sprintf("%s: %v", msg, err),
		Err:     err,
	}
}

func fieldError(key string, err error) *DataValidationError {
	return &DataValidationError{
		Message: fmt.Sprintf("invalid %s: %v", key, err),
		Fields:  map[string]string{key: err.Error()},
		Err:     err,
	}
}
