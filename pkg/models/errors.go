package models

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingField marks a data row without one of the required fields.
	ErrMissingField = errors.New("missing required field")
	// ErrMissingColumn marks a header without one of the required columns.
	ErrMissingColumn = errors.New("missing required column")
	// ErrUnreadableSource marks a source that could not be opened or parsed.
	ErrUnreadableSource = errors.New("unreadable input source")
)

// InputFormatError reports input that cannot be turned into a graph.
// Row is 1-based for data rows and 0 for the header or the source as a whole.
type InputFormatError struct {
	Row   int
	Field string
	Err   error
}

func (e *InputFormatError) Error() string {
	switch {
	case e.Row > 0 && e.Field != "":
		return fmt.Sprintf("input row %d: field %q: %v", e.Row, e.Field, e.Err)
	case e.Row > 0:
		return fmt.Sprintf("input row %d: %v", e.Row, e.Err)
	case e.Field != "":
		return fmt.Sprintf("input header: field %q: %v", e.Field, e.Err)
	default:
		return fmt.Sprintf("input: %v", e.Err)
	}
}

func (e *InputFormatError) Unwrap() error {
	return e.Err
}

// SerializationError reports a graph value that cannot be encoded.
type SerializationError struct {
	Value string
	Err   error
}

func (e *SerializationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("serialize graph: value %q: %v", e.Value, e.Err)
	}
	return fmt.Sprintf("serialize graph: %v", e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}
