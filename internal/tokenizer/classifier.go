package tokenizer

// NoChar disables an optional dialect character (quote, escape or comment).
const NoChar rune = 0

// Config is the dialect as seen by the tokenizer.
// Callers resolve defaults before building one; the zero value of an optional
// character means the feature is off.
type Config struct {
	Delimiter rune
	Quote     rune
	Escape    rune
	Comment   rune

	// SkipEmptyLines discards lines holding only a terminator.
	SkipEmptyLines bool
	// Trim strips leading and trailing whitespace from unquoted fields.
	Trim bool
	// LazyQuotes allows a quote inside an unquoted field.
	LazyQuotes bool
	// LiteralTrailingEscape keeps an escape character dangling at end of
	// input as field content instead of failing with ErrMalformedEscape.
	LiteralTrailingEscape bool
	// SkipLines is the number of leading physical lines discarded unread.
	SkipLines int
}

// DefaultConfig returns RFC 4180 settings with blank lines skipped.
func DefaultConfig() Config {
	return Config{
		Delimiter:      ',',
		Quote:          '"',
		Escape:         '"',
		SkipEmptyLines: true,
	}
}

// Classifier maps characters to symbol kinds for one dialect.
type Classifier struct {
	delimiter rune
	quote     rune
	escape    rune
	comment   rune
	trim      bool
}

// NewClassifier creates a classifier for cfg.
func NewClassifier(cfg Config) Classifier {
	return Classifier{
		delimiter: cfg.Delimiter,
		quote:     cfg.Quote,
		escape:    cfg.Escape,
		comment:   cfg.Comment,
		trim:      cfg.Trim,
	}
}

// Classify returns the kind of r.
//
// A character equal to both the quote and the escape classifies as a quote;
// the state machine decides whether a doubled quote escapes.
func (c Classifier) Classify(r rune) Kind {
	switch {
	case r == '\r':
		return KindCarriageReturn
	case r == '\n':
		return KindLineFeed
	case r == c.delimiter:
		return KindDelimiter
	case c.quote != NoChar && r == c.quote:
		return KindQuote
	case c.escape != NoChar && r == c.escape:
		return KindEscape
	case c.comment != NoChar && r == c.comment:
		return KindCommentMarker
	case c.trim && isSpace(r):
		return KindWhitespace
	default:
		return KindPlain
	}
}

// EscapeIsQuote reports whether doubled quotes are the escape convention.
func (c Classifier) EscapeIsQuote() bool {
	return c.quote != NoChar && c.escape == c.quote
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t'
}
