package csv

import (
	"fmt"
	"unicode/utf8"

	"github.com/shapestone/shape-csvtok/internal/tokenizer"
)

// NoChar disables an optional dialect character. Setting Quote to NoChar
// turns quoting off; Comment defaults to NoChar.
const NoChar rune = 0

// DuplicatePolicy controls what happens when a header row repeats a name.
type DuplicatePolicy int

const (
	// DuplicateReject fails the session with ErrDuplicateHeaderName (default).
	DuplicateReject DuplicatePolicy = iota
	// DuplicateRename renames later occurrences to name_2, name_3, ...
	DuplicateRename
)

// String returns the string representation of DuplicatePolicy.
func (p DuplicatePolicy) String() string {
	switch p {
	case DuplicateReject:
		return "reject"
	case DuplicateRename:
		return "rename"
	default:
		return fmt.Sprintf("DuplicatePolicy(%d)", p)
	}
}

// EscapePolicy controls an escape character left dangling at end of input.
type EscapePolicy int

const (
	// TrailingEscapeError fails with ErrMalformedEscape (default).
	TrailingEscapeError EscapePolicy = iota
	// TrailingEscapeLiteral keeps the escape character as field content.
	TrailingEscapeLiteral
)

// String returns the string representation of EscapePolicy.
func (p EscapePolicy) String() string {
	switch p {
	case TrailingEscapeError:
		return "error"
	case TrailingEscapeLiteral:
		return "literal"
	default:
		return fmt.Sprintf("EscapePolicy(%d)", p)
	}
}

// Dialect configures how raw text is tokenized.
type Dialect struct {
	// Delimiter separates fields.
	// It must be a valid rune and not \r, \n, or the Unicode replacement character.
	// Default: ','
	Delimiter rune

	// Quote encloses fields that contain delimiters, quotes or line breaks.
	// NoChar disables quoting entirely.
	// Default: '"'
	Quote rune

	// Escape makes the following character literal. When it equals Quote,
	// a doubled quote inside a quoted field stands for one quote.
	// NoChar means "same as Quote".
	// Default: '"'
	Escape rune

	// Comment, if not NoChar, marks lines to ignore when it is the first
	// character of the line.
	// Default: NoChar
	Comment rune

	// SkipEmptyLines discards lines holding only a line terminator.
	// Default: true
	SkipEmptyLines bool

	// TrimUnquotedWhitespace strips spaces and tabs around unquoted fields.
	// Whitespace inside quotes is always kept.
	// Default: false
	TrimUnquotedWhitespace bool

	// HeaderPresent designates the first non-ignored line as the header.
	// Default: false
	HeaderPresent bool

	// DuplicateHeaders is the policy for repeated header names.
	// Default: DuplicateReject
	DuplicateHeaders DuplicatePolicy

	// SkipLines is the number of leading physical lines to discard before
	// tokenizing starts.
	// Default: 0
	SkipLines int

	// LazyQuotes allows a quote to appear inside an unquoted field.
	// Default: false
	LazyQuotes bool

	// TrailingEscape is the policy for an escape character at end of input.
	// Default: TrailingEscapeError
	TrailingEscape EscapePolicy
}

// DefaultDialect returns RFC 4180 settings with blank lines skipped.
func DefaultDialect() Dialect {
	return Dialect{
		Delimiter:      ',',
		Quote:          '"',
		Escape:         '"',
		Comment:        NoChar,
		SkipEmptyLines: true,
	}
}

// TSV returns a tab-separated dialect with quoting disabled.
func TSV() Dialect {
	d := DefaultDialect()
	d.Delimiter = '\t'
	d.Quote = NoChar
	d.Escape = NoChar
	return d
}

// Excel returns the semicolon-separated dialect common in European locales.
func Excel() Dialect {
	d := DefaultDialect()
	d.Delimiter = ';'
	d.HeaderPresent = true
	return d
}

// escape returns the effective escape character.
func (d Dialect) escape() rune {
	if d.Escape == NoChar {
		return d.Quote
	}
	return d.Escape
}

// config converts the dialect into tokenizer settings.
func (d Dialect) config() tokenizer.Config {
	return tokenizer.Config{
		Delimiter:             d.Delimiter,
		Quote:                 d.Quote,
		Escape:                d.escape(),
		Comment:               d.Comment,
		SkipEmptyLines:        d.SkipEmptyLines,
		Trim:                  d.TrimUnquotedWhitespace,
		LazyQuotes:            d.LazyQuotes,
		LiteralTrailingEscape: d.TrailingEscape == TrailingEscapeLiteral,
		SkipLines:             d.SkipLines,
	}
}

// validChar reports whether r may be used as a dialect character.
func validChar(r rune) bool {
	return r != 0 && r != '\r' && r != '\n' && utf8.ValidRune(r) && r != utf8.RuneError
}

// Validate checks if the dialect is usable.
// Returns an *OptionsError describing the first problem found.
func (d Dialect) Validate() error {
	if !validChar(d.Delimiter) {
		return &OptionsError{Field: "Delimiter", Message: "invalid delimiter"}
	}
	if d.Quote != NoChar {
		if !validChar(d.Quote) {
			return &OptionsError{Field: "Quote", Message: "invalid quote character"}
		}
		if d.Quote == d.Delimiter {
			return &OptionsError{Field: "Quote", Message: "quote character same as delimiter"}
		}
	}
	if esc := d.escape(); esc != NoChar {
		if !validChar(esc) {
			return &OptionsError{Field: "Escape", Message: "invalid escape character"}
		}
		if esc == d.Delimiter {
			return &OptionsError{Field: "Escape", Message: "escape character same as delimiter"}
		}
	}
	if d.Comment != NoChar {
		if !validChar(d.Comment) {
			return &OptionsError{Field: "Comment", Message: "invalid comment character"}
		}
		switch d.Comment {
		case d.Delimiter:
			return &OptionsError{Field: "Comment", Message: "comment character same as delimiter"}
		case d.Quote, d.escape():
			return &OptionsError{Field: "Comment", Message: "comment character same as quote or escape"}
		}
	}
	if d.SkipLines < 0 {
		return &OptionsError{Field: "SkipLines", Message: "must not be negative"}
	}
	switch d.DuplicateHeaders {
	case DuplicateReject, DuplicateRename:
	default:
		return &OptionsError{Field: "DuplicateHeaders", Message: "unknown policy " + d.DuplicateHeaders.String()}
	}
	switch d.TrailingEscape {
	case TrailingEscapeError, TrailingEscapeLiteral:
	default:
		return &OptionsError{Field: "TrailingEscape", Message: "unknown policy " + d.TrailingEscape.String()}
	}
	return nil
}
