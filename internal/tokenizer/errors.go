package tokenizer

import (
	"errors"
	"fmt"
)

// Structural errors. All of them end the tokenizing session.
var (
	// ErrUnterminatedQuotedField indicates end of input inside a quoted field.
	ErrUnterminatedQuotedField = errors.New("unterminated quoted field")

	// ErrMalformedEscape indicates an escape character with nothing after it.
	ErrMalformedEscape = errors.New("escape character at end of input")

	// ErrBareQuote indicates a quote inside an unquoted field.
	ErrBareQuote = errors.New("bare quote in non-quoted field")

	// ErrCharAfterQuote indicates content between a closing quote and the
	// next delimiter or line end.
	ErrCharAfterQuote = errors.New("unexpected character after closing quote")
)

// ParseError reports a structural error with its position in the input.
type ParseError struct {
	// StartLine is the physical line the logical line began on (1-indexed).
	StartLine int
	// Line is the physical line where the error was detected (1-indexed).
	Line int
	// Column is the character position on Line (1-indexed).
	Column int
	// Field is the index of the cell being read (0-indexed).
	Field int
	// Err is the underlying error.
	Err error
}

// Error returns a formatted error message with position information.
func (e *ParseError) Error() string {
	if e.StartLine == e.Line {
		return fmt.Sprintf("parse error on line %d, column %d (field %d): %v",
			e.Line, e.Column, e.Field, e.Err)
	}
	return fmt.Sprintf("parse error on line %d (started line %d), column %d (field %d): %v",
		e.Line, e.StartLine, e.Column, e.Field, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
