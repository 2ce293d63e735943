package tokenizer

import "fmt"

// ParseState is one state of the CSV line automaton.
type ParseState uint8

// Parse states. StateStartOfLine begins every line; StateFinished is
// terminal once the input is exhausted.
const (
	StateSkipLine ParseState = iota
	StateSkipLineFinished
	StateCommentLine
	StateCommentLineFinished
	StateStartOfLine
	StateOutsideBeforeField
	StateOutsideAfterField
	StateInsideField
	StateFirstCharInsideQuotedField
	StateInsideQuotedField
	StateEscaping
	StateSeparator
	StateLineFinished
	StateFinished
	numStates
)

// facets are the side effects the driver performs on entering a state.
type facets struct {
	name                 string
	tokenize             bool
	lineFinished         bool
	popToken             bool
	upgradeQuoteToEscape bool
	ignore               bool
}

var stateFacets = [numStates]facets{
	StateSkipLine:                   {name: "SKIP_LINE", ignore: true},
	StateSkipLineFinished:           {name: "SKIP_LINE_FINISHED", lineFinished: true, ignore: true},
	StateCommentLine:                {name: "COMMENT_LINE", ignore: true},
	StateCommentLineFinished:        {name: "COMMENT_LINE_FINISHED", lineFinished: true, ignore: true},
	StateStartOfLine:                {name: "START_OF_LINE"},
	StateOutsideBeforeField:         {name: "OUTSIDE_BEFORE_FIELD"},
	StateOutsideAfterField:          {name: "OUTSIDE_AFTER_FIELD"},
	StateInsideField:                {name: "INSIDE_FIELD", tokenize: true},
	StateFirstCharInsideQuotedField: {name: "FIRST_CHAR_INSIDE_QUOTED_FIELD", upgradeQuoteToEscape: true},
	StateInsideQuotedField:          {name: "INSIDE_QUOTED_FIELD", tokenize: true, upgradeQuoteToEscape: true},
	StateEscaping:                   {name: "ESCAPING"},
	StateSeparator:                  {name: "SEPARATOR", popToken: true},
	StateLineFinished:               {name: "LINE_FINISHED", lineFinished: true, popToken: true},
	StateFinished:                   {name: "FINISHED", lineFinished: true, popToken: true},
}

// String returns the state name.
func (s ParseState) String() string {
	if s < numStates {
		return stateFacets[s].name
	}
	return fmt.Sprintf("ParseState(%d)", s)
}

// Tokenize reports whether the symbol that led here belongs to the token.
func (s ParseState) Tokenize() bool { return s < numStates && stateFacets[s].tokenize }

// LineFinished reports whether the logical line is complete.
func (s ParseState) LineFinished() bool { return s < numStates && stateFacets[s].lineFinished }

// PopToken reports whether the buffered token must be pushed into the row.
func (s ParseState) PopToken() bool { return s < numStates && stateFacets[s].popToken }

// UpgradeQuoteToEscape reports whether a quote seen here may be the lead-in
// of a doubled quote rather than a terminator.
func (s ParseState) UpgradeQuoteToEscape() bool {
	return s < numStates && stateFacets[s].upgradeQuoteToEscape
}

// Ignore reports whether the whole line is discarded.
func (s ParseState) Ignore() bool { return s < numStates && stateFacets[s].ignore }

// Trim reports whether content gathered in this state is subject to
// whitespace trimming. Only unquoted field content is.
func (s ParseState) Trim() bool { return s == StateInsideField }

// Quoted reports whether the state is inside a quoted field.
func (s ParseState) Quoted() bool {
	return s == StateFirstCharInsideQuotedField || s == StateInsideQuotedField
}

// Machine selects the next state for each symbol. It performs no buffering;
// callers act on the facets of the state it returns.
type Machine struct {
	escapeIsQuote         bool
	skipEmptyLines        bool
	lazyQuotes            bool
	literalTrailingEscape bool

	state ParseState
	// resume is the field state to return to after ESCAPING.
	resume ParseState
}

// NewMachine returns a machine at the start of a line.
func NewMachine(cfg Config) *Machine {
	return &Machine{
		escapeIsQuote:         cfg.Quote != NoChar && cfg.Escape == cfg.Quote,
		skipEmptyLines:        cfg.SkipEmptyLines,
		lazyQuotes:            cfg.LazyQuotes,
		literalTrailingEscape: cfg.LiteralTrailingEscape,
		state:                 StateStartOfLine,
		resume:                StateInsideField,
	}
}

// State returns the active state.
func (m *Machine) State() ParseState { return m.state }

// Reset starts a new line in the given state.
func (m *Machine) Reset(s ParseState) {
	m.state = s
	m.resume = StateInsideField
}

// Step consumes one symbol kind and makes the resulting state active.
// On error the active state is left unchanged.
func (m *Machine) Step(k Kind) (ParseState, error) {
	if m.state.UpgradeQuoteToEscape() && k == KindQuote && m.escapeIsQuote {
		k = KindEscape
	}
	next, err := m.Transition(m.state, k)
	if err != nil {
		return m.state, err
	}
	if next == StateEscaping {
		m.resume = escapeResume(m.state)
	}
	m.state = next
	return next, nil
}

// escapeResume is the state a field returns to after an escaped character.
func escapeResume(from ParseState) ParseState {
	if from.Quoted() {
		return StateInsideQuotedField
	}
	return StateInsideField
}

// Transition computes the successor of from on symbol k. It depends only on
// its arguments, the fixed dialect flags and the pending escape resume state.
func (m *Machine) Transition(from ParseState, k Kind) (ParseState, error) {
	switch from {
	case StateSkipLine, StateSkipLineFinished:
		if k.IsTerminator() || k == KindEndOfInput {
			return StateSkipLineFinished, nil
		}
		return StateSkipLine, nil

	case StateCommentLine, StateCommentLineFinished:
		if k.IsTerminator() || k == KindEndOfInput {
			return StateCommentLineFinished, nil
		}
		return StateCommentLine, nil

	case StateStartOfLine, StateLineFinished:
		switch {
		case k == KindCommentMarker:
			return StateCommentLine, nil
		case k.IsTerminator() && m.skipEmptyLines:
			return StateSkipLineFinished, nil
		}
		return m.fieldStart(k)

	case StateSeparator, StateOutsideBeforeField:
		return m.fieldStart(k)

	case StateInsideField:
		switch k {
		case KindDelimiter:
			return StateSeparator, nil
		case KindCarriageReturn, KindLineFeed:
			return StateLineFinished, nil
		case KindEndOfInput:
			return StateFinished, nil
		case KindEscape:
			return StateEscaping, nil
		case KindQuote:
			if m.lazyQuotes {
				return StateInsideField, nil
			}
			return from, ErrBareQuote
		}
		return StateInsideField, nil

	case StateFirstCharInsideQuotedField, StateInsideQuotedField:
		switch k {
		case KindQuote:
			return StateOutsideAfterField, nil
		case KindEscape:
			return StateEscaping, nil
		case KindEndOfInput:
			return from, ErrUnterminatedQuotedField
		}
		return StateInsideQuotedField, nil

	case StateEscaping:
		if m.escapeIsQuote {
			if k == KindQuote {
				return StateInsideQuotedField, nil
			}
			// The quote before this symbol closed the field.
			return afterField(k)
		}
		if k == KindEndOfInput {
			if m.resume.Quoted() {
				return from, ErrUnterminatedQuotedField
			}
			if m.literalTrailingEscape {
				return StateFinished, nil
			}
			return from, ErrMalformedEscape
		}
		return m.resume, nil

	case StateOutsideAfterField:
		return afterField(k)

	case StateFinished:
		return StateFinished, nil
	}
	return from, fmt.Errorf("tokenizer: unknown state %v", from)
}

// fieldStart handles the first symbol of a field.
func (m *Machine) fieldStart(k Kind) (ParseState, error) {
	switch k {
	case KindDelimiter:
		return StateSeparator, nil
	case KindQuote:
		return StateFirstCharInsideQuotedField, nil
	case KindEscape:
		return StateEscaping, nil
	case KindCarriageReturn, KindLineFeed:
		return StateLineFinished, nil
	case KindEndOfInput:
		return StateFinished, nil
	case KindWhitespace:
		return StateOutsideBeforeField, nil
	}
	return StateInsideField, nil
}

// afterField handles symbols following a closing quote.
func afterField(k Kind) (ParseState, error) {
	switch k {
	case KindDelimiter:
		return StateSeparator, nil
	case KindCarriageReturn, KindLineFeed:
		return StateLineFinished, nil
	case KindEndOfInput:
		return StateFinished, nil
	case KindWhitespace:
		return StateOutsideAfterField, nil
	}
	return StateOutsideAfterField, ErrCharAfterQuote
}
