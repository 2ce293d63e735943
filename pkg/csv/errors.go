package csv

import (
	"errors"
	"fmt"

	"github.com/shapestone/shape-csvtok/internal/tokenizer"
)

// ParseError represents a structural parsing error with position information.
// It is returned by Reader.Read and ends the session.
type ParseError = tokenizer.ParseError

// Structural errors. They are fatal to the reading session.
var (
	// ErrUnterminatedQuotedField indicates end of input inside a quoted field.
	ErrUnterminatedQuotedField = tokenizer.ErrUnterminatedQuotedField

	// ErrMalformedEscape indicates an escape character at end of input
	// under TrailingEscapeError.
	ErrMalformedEscape = tokenizer.ErrMalformedEscape

	// ErrBareQuote indicates a quote inside an unquoted field.
	ErrBareQuote = tokenizer.ErrBareQuote

	// ErrCharAfterQuote indicates content after a closing quote.
	ErrCharAfterQuote = tokenizer.ErrCharAfterQuote

	// ErrDuplicateHeaderName indicates a repeated header name under DuplicateReject.
	ErrDuplicateHeaderName = errors.New("duplicate header name")
)

// Lookup and mapping errors. They concern a single call and leave the
// session usable.
var (
	// ErrColumnOutOfBounds indicates an index beyond the row's cells.
	ErrColumnOutOfBounds = errors.New("column out of bounds")

	// ErrUnknownHeaderName indicates a name absent from the header.
	ErrUnknownHeaderName = errors.New("unknown header name")

	// ErrNoHeader indicates a name lookup on a session without a header.
	ErrNoHeader = errors.New("no header")

	// ErrRequiredField indicates an empty cell bound to a required property.
	ErrRequiredField = errors.New("required field is empty")
)

// HeaderError reports a header row that cannot be turned into a Header.
type HeaderError struct {
	// Line is the physical line of the header row (1-indexed, 0 if unknown).
	Line int
	// Name is the offending header name.
	Name string
	// First and Second are the column indexes that share Name.
	First, Second int
	// Err is the underlying error.
	Err error
}

// Error returns a formatted error message.
func (e *HeaderError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("header on line %d: %v %q (columns %d and %d)",
			e.Line, e.Err, e.Name, e.First, e.Second)
	}
	return fmt.Sprintf("header: %v %q (columns %d and %d)", e.Err, e.Name, e.First, e.Second)
}

// Unwrap returns the underlying error.
func (e *HeaderError) Unwrap() error {
	return e.Err
}

// AccessError reports a failed cell lookup on a Row.
type AccessError struct {
	// Line is the physical line the row started on.
	Line int
	// Index is the requested column index, or -1 for a name lookup.
	Index int
	// Name is the requested header name, empty for an index lookup.
	Name string
	// Len is the number of cells in the row.
	Len int
	// Err is ErrColumnOutOfBounds, ErrUnknownHeaderName or ErrNoHeader.
	Err error
}

// Error returns a formatted error message.
func (e *AccessError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("row on line %d: %v %q", e.Line, e.Err, e.Name)
	}
	return fmt.Sprintf("row on line %d: %v: index %d, row has %d cells", e.Line, e.Err, e.Index, e.Len)
}

// Unwrap returns the underlying error.
func (e *AccessError) Unwrap() error {
	return e.Err
}

// MappingError reports a cell that could not be assigned to a property.
type MappingError struct {
	// Line is the physical line the row started on.
	Line int
	// Column is the column of the offending cell.
	Column Column
	// Property is the name of the property the cell was bound to.
	Property string
	// Cell is the raw cell value.
	Cell string
	// Err is ErrRequiredField or the conversion error.
	Err error
}

// Error returns a formatted error message.
func (e *MappingError) Error() string {
	if e.Property != "" {
		return fmt.Sprintf("row on line %d: %s [%s] to %s: %v", e.Line, e.Column, e.Cell, e.Property, e.Err)
	}
	return fmt.Sprintf("row on line %d: %s [%s]: %v", e.Line, e.Column, e.Cell, e.Err)
}

// Unwrap returns the underlying error.
func (e *MappingError) Unwrap() error {
	return e.Err
}

// OptionsError represents an invalid dialect configuration.
type OptionsError struct {
	Field   string
	Message string
}

func (e *OptionsError) Error() string {
	return "csv: invalid " + e.Field + ": " + e.Message
}

// ErrorKind classifies errors returned by this package.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindUnterminatedQuotedField
	KindMalformedEscape
	KindBareQuote
	KindCharAfterQuote
	KindDuplicateHeaderName
	KindColumnOutOfBounds
	KindUnknownHeaderName
	KindNoHeader
	KindRequiredField
	KindConversion
	KindOptions
)

// String returns the string representation of ErrorKind.
func (k ErrorKind) String() string {
	switch k {
	case KindUnterminatedQuotedField:
		return "UnterminatedQuotedField"
	case KindMalformedEscape:
		return "MalformedEscape"
	case KindBareQuote:
		return "BareQuote"
	case KindCharAfterQuote:
		return "CharAfterQuote"
	case KindDuplicateHeaderName:
		return "DuplicateHeaderName"
	case KindColumnOutOfBounds:
		return "ColumnOutOfBounds"
	case KindUnknownHeaderName:
		return "UnknownHeaderName"
	case KindNoHeader:
		return "NoHeader"
	case KindRequiredField:
		return "RequiredField"
	case KindConversion:
		return "Conversion"
	case KindOptions:
		return "Options"
	default:
		return "Unknown"
	}
}

// KindOf returns the kind of err, or KindUnknown.
func KindOf(err error) ErrorKind {
	sentinels := []struct {
		err  error
		kind ErrorKind
	}{
		{ErrUnterminatedQuotedField, KindUnterminatedQuotedField},
		{ErrMalformedEscape, KindMalformedEscape},
		{ErrBareQuote, KindBareQuote},
		{ErrCharAfterQuote, KindCharAfterQuote},
		{ErrDuplicateHeaderName, KindDuplicateHeaderName},
		{ErrColumnOutOfBounds, KindColumnOutOfBounds},
		{ErrUnknownHeaderName, KindUnknownHeaderName},
		{ErrNoHeader, KindNoHeader},
		{ErrRequiredField, KindRequiredField},
	}
	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			return s.kind
		}
	}

	var optErr *OptionsError
	if errors.As(err, &optErr) {
		return KindOptions
	}
	var mapErr *MappingError
	if errors.As(err, &mapErr) {
		return KindConversion
	}
	return KindUnknown
}
