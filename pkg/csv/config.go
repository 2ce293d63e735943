package csv

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// noneChar is the YAML spelling of NoChar.
const noneChar = "none"

// dialectFile is the YAML form of a Dialect. Characters are one-character
// strings; pointers distinguish "absent" from the zero value so absent keys
// keep their DefaultDialect values.
type dialectFile struct {
	Delimiter        string `yaml:"delimiter,omitempty"`
	Quote            string `yaml:"quote,omitempty"`
	Escape           string `yaml:"escape,omitempty"`
	Comment          string `yaml:"comment,omitempty"`
	SkipEmptyLines   *bool  `yaml:"skip-empty-lines,omitempty"`
	Trim             *bool  `yaml:"trim-unquoted-whitespace,omitempty"`
	Header           *bool  `yaml:"header,omitempty"`
	DuplicateHeaders string `yaml:"duplicate-headers,omitempty"`
	SkipLines        int    `yaml:"skip-lines,omitempty"`
	LazyQuotes       *bool  `yaml:"lazy-quotes,omitempty"`
	TrailingEscape   string `yaml:"trailing-escape,omitempty"`
}

// LoadDialect parses a YAML dialect document. Absent keys keep their
// DefaultDialect values, "none" disables quote, escape or comment, and
// unknown keys are rejected.
//
// Example:
//
//	d, err := csv.LoadDialect([]byte("delimiter: \";\"\nheader: true\ncomment: \"#\"\n"))
func LoadDialect(data []byte) (Dialect, error) {
	var f dialectFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return Dialect{}, fmt.Errorf("failed to parse dialect: %w", err)
	}

	d, err := f.dialect()
	if err != nil {
		return Dialect{}, err
	}
	if err := d.Validate(); err != nil {
		return Dialect{}, err
	}
	return d, nil
}

// WriteDialect encodes d as YAML to w.
func WriteDialect(w io.Writer, d Dialect) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return err
	}
	return enc.Close()
}

// MarshalYAML implements yaml.Marshaler.
func (d Dialect) MarshalYAML() (interface{}, error) {
	f := dialectFile{
		Delimiter:        charString(d.Delimiter),
		Quote:            charString(d.Quote),
		Comment:          charString(d.Comment),
		SkipEmptyLines:   &d.SkipEmptyLines,
		Trim:             &d.TrimUnquotedWhitespace,
		Header:           &d.HeaderPresent,
		DuplicateHeaders: d.DuplicateHeaders.String(),
		SkipLines:        d.SkipLines,
		LazyQuotes:       &d.LazyQuotes,
		TrailingEscape:   d.TrailingEscape.String(),
	}
	if esc := d.escape(); esc != d.Quote {
		f.Escape = charString(esc)
	}
	return f, nil
}

func (f dialectFile) dialect() (Dialect, error) {
	d := DefaultDialect()
	var err error

	if f.Delimiter != "" {
		if d.Delimiter, err = parseChar("delimiter", f.Delimiter); err != nil {
			return Dialect{}, err
		}
	}
	if f.Quote != "" {
		if d.Quote, err = parseChar("quote", f.Quote); err != nil {
			return Dialect{}, err
		}
		d.Escape = d.Quote
	}
	if f.Escape != "" {
		if d.Escape, err = parseChar("escape", f.Escape); err != nil {
			return Dialect{}, err
		}
	}
	if f.Comment != "" {
		if d.Comment, err = parseChar("comment", f.Comment); err != nil {
			return Dialect{}, err
		}
	}

	if f.SkipEmptyLines != nil {
		d.SkipEmptyLines = *f.SkipEmptyLines
	}
	if f.Trim != nil {
		d.TrimUnquotedWhitespace = *f.Trim
	}
	if f.Header != nil {
		d.HeaderPresent = *f.Header
	}
	if f.LazyQuotes != nil {
		d.LazyQuotes = *f.LazyQuotes
	}
	d.SkipLines = f.SkipLines

	switch f.DuplicateHeaders {
	case "", DuplicateReject.String():
		d.DuplicateHeaders = DuplicateReject
	case DuplicateRename.String():
		d.DuplicateHeaders = DuplicateRename
	default:
		return Dialect{}, &OptionsError{Field: "duplicate-headers", Message: fmt.Sprintf("unknown policy %q", f.DuplicateHeaders)}
	}

	switch f.TrailingEscape {
	case "", TrailingEscapeError.String():
		d.TrailingEscape = TrailingEscapeError
	case TrailingEscapeLiteral.String():
		d.TrailingEscape = TrailingEscapeLiteral
	default:
		return Dialect{}, &OptionsError{Field: "trailing-escape", Message: fmt.Sprintf("unknown policy %q", f.TrailingEscape)}
	}

	return d, nil
}

// parseChar decodes a one-character YAML value. "none" yields NoChar and
// "tab" is accepted for readability.
func parseChar(field, s string) (rune, error) {
	switch s {
	case noneChar:
		return NoChar, nil
	case "tab":
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) || r == utf8.RuneError {
		return NoChar, &OptionsError{Field: field, Message: fmt.Sprintf("%q is not a single character", s)}
	}
	return r, nil
}

func charString(r rune) string {
	if r == NoChar {
		return noneChar
	}
	return string(r)
}
