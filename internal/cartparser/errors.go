package cartparser

import (
	"errors"
	"fmt"
)

// ErrorType classifies a ParseError.
type ErrorType string

const (
	ErrorTypeHeader ErrorType = "header"
	ErrorTypeRow    ErrorType = "row"
	ErrorTypeCell   ErrorType = "cell"
)

var (
	// ErrEmptyPath is returned by Parse when no path is given.
	ErrEmptyPath = errors.New("path must not be empty")

	// ErrValidationFailed matches any *ValidationError via errors.Is.
	ErrValidationFailed = errors.New("Validation failed!")
)

// ParseError describes one schema violation. Row 0 is the header, body rows
// start at 1. Column is -1 when the error concerns a whole row.
type ParseError struct {
	Type    ErrorType `json:"type"`
	Row     int       `json:"row"`
	Column  int       `json:"column"`
	Message string    `json:"message"`
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%s error at row %d, column %d: %s", e.Type, e.Row, e.Column, e.Message)
}

// ValidationError is returned when a cart file fails validation. It carries
// every collected ParseError.
type ValidationError struct {
	Errors []ParseError
}

func (e *ValidationError) Error() string {
	return ErrValidationFailed.Error()
}

// Is reports whether target is ErrValidationFailed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// First returns the first collected error.
func (e *ValidationError) First() (ParseError, bool) {
	if len(e.Errors) == 0 {
		return ParseError{}, false
	}
	return e.Errors[0], true
}
