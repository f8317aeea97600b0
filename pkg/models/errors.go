package models

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingColumn is matched by every SchemaError
	ErrMissingColumn = errors.New("missing required column")
	// ErrUnparseable is matched by every ParseError
	ErrUnparseable = errors.New("unparseable value")
	// ErrUnknownCurrency is returned when the currency policy rejects a code
	ErrUnknownCurrency = errors.New("unknown currency")
	// ErrNonFiniteScore is returned when a classifier input is NaN or infinite
	ErrNonFiniteScore = errors.New("non-finite score")
)

// SchemaError reports a required column absent from an input table
type SchemaError struct {
	Table  string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("table %q: missing required column %q", e.Table, e.Column)
}

// Is lets errors.Is match ErrMissingColumn
func (e *SchemaError) Is(target error) bool {
	return target == ErrMissingColumn
}

// ParseError reports a cell that could not be converted to its column type
type ParseError struct {
	Table  string
	Column string
	Row    int
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("table %q: column %q row %d: cannot parse %q", e.Table, e.Column, e.Row, e.Value)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying conversion error
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match ErrUnparseable
func (e *ParseError) Is(target error) bool {
	return target == ErrUnparseable
}
