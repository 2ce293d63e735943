// Package tokenizer implements the character-level CSV state machine.
//
// Characters are pulled from a Shape stream, classified into symbols against
// the active dialect, and fed one at a time to a finite-state machine whose
// states carry the side effects (buffer, pop, finish line, ignore line) the
// driver must perform.
package tokenizer

import "fmt"

// Kind classifies a single input character against a dialect.
type Kind uint8

// Symbol kinds.
const (
	KindPlain Kind = iota
	KindDelimiter
	KindQuote
	KindEscape
	KindCommentMarker
	KindCarriageReturn
	KindLineFeed
	KindEndOfInput
	// KindWhitespace is only produced when unquoted whitespace is trimmed.
	// Otherwise spaces and tabs are plain characters.
	KindWhitespace
)

var kindNames = [...]string{
	KindPlain:          "PLAIN",
	KindDelimiter:      "DELIMITER",
	KindQuote:          "QUOTE",
	KindEscape:         "ESCAPE",
	KindCommentMarker:  "COMMENT_MARKER",
	KindCarriageReturn: "CARRIAGE_RETURN",
	KindLineFeed:       "LINE_FEED",
	KindEndOfInput:     "END_OF_INPUT",
	KindWhitespace:     "WHITESPACE",
}

// String returns the symbol kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IsTerminator reports whether the kind ends a physical line.
func (k Kind) IsTerminator() bool {
	return k == KindCarriageReturn || k == KindLineFeed
}

// Symbol is one classified input unit.
type Symbol struct {
	Char rune
	Kind Kind
	// CRLF is set when a carriage return and the line feed that followed it
	// were folded into a single terminator.
	CRLF bool
}

// Text returns the raw input the symbol was read from.
func (s Symbol) Text() string {
	switch {
	case s.Kind == KindEndOfInput:
		return ""
	case s.CRLF:
		return "\r\n"
	default:
		return string(s.Char)
	}
}

// EndOfInput is the synthetic symbol appended after the last character.
var EndOfInput = Symbol{Kind: KindEndOfInput}
