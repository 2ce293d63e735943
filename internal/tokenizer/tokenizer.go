package tokenizer

import (
	"io"
	"strings"

	"github.com/shapestone/shape-core/pkg/tokenizer"
)

// Line is one logical CSV line.
type Line struct {
	// Cells holds the field values in column order.
	Cells []string
	// Number is the physical line the logical line started on (1-indexed).
	Number int
	// EndLine is the physical line the logical line ended on. It differs
	// from Number when a quoted field spans line terminators.
	EndLine int
	// Offset is the character offset of the first character of the line.
	Offset int
}

// DiscardFunc is notified about lines the dialect discards unread.
// state is StateCommentLineFinished or StateSkipLineFinished.
type DiscardFunc func(line int, state ParseState)

// Tokenizer drives the state machine over a character stream and assembles
// logical lines. It is not safe for concurrent use; independent tokenizers
// share nothing.
type Tokenizer struct {
	stream     tokenizer.Stream
	cfg        Config
	classifier Classifier
	machine    *Machine

	token strings.Builder
	cells []string
	// escaped bounds the escaped characters of the current token; trimming
	// stops at them. escaped[0] < 0 when the token has none.
	escaped [2]int

	line      int // current physical line
	column    int // characters consumed on the current physical line
	offset    int // characters consumed overall
	startLine int
	startOff  int

	done bool
	err  error

	onDiscard DiscardFunc
}

// New creates a tokenizer reading from stream.
func New(stream tokenizer.Stream, cfg Config) *Tokenizer {
	t := &Tokenizer{
		stream:     stream,
		cfg:        cfg,
		classifier: NewClassifier(cfg),
		machine:    NewMachine(cfg),
		line:       1,
	}
	t.beginLine()
	return t
}

// NewFromString creates a tokenizer over an in-memory string.
func NewFromString(input string, cfg Config) *Tokenizer {
	return New(tokenizer.NewStream(input), cfg)
}

// NewFromReader creates a tokenizer over r.
func NewFromReader(r io.Reader, cfg Config) *Tokenizer {
	return New(tokenizer.NewStreamFromReader(r), cfg)
}

// OnDiscard registers fn to be told about comment and skipped lines.
func (t *Tokenizer) OnDiscard(fn DiscardFunc) {
	t.onDiscard = fn
}

// PhysicalLine returns the current physical line number (1-indexed).
func (t *Tokenizer) PhysicalLine() int {
	return t.line
}

// NextLine returns the next logical line that is not discarded by the
// dialect. It returns io.EOF once the input is exhausted. Structural errors
// are *ParseError values; after one, every call returns the same error.
func (t *Tokenizer) NextLine() (Line, error) {
	if t.err != nil {
		return Line{}, t.err
	}
	if t.done {
		return Line{}, io.EOF
	}

	for {
		sym := t.read()
		prev := t.machine.State()
		next, err := t.machine.Step(sym.Kind)
		if err != nil {
			t.fail(err)
			return Line{}, t.err
		}

		if next.Tokenize() {
			if prev == StateEscaping {
				t.markEscaped(sym.Text())
			} else {
				t.token.WriteString(sym.Text())
			}
		}
		if prev == StateEscaping && next == StateFinished && !t.classifier.EscapeIsQuote() {
			t.markEscaped(string(t.cfg.Escape))
		}
		emptyTail := prev == StateStartOfLine && next == StateFinished
		if next.PopToken() && !emptyTail {
			t.popToken(prev.Trim())
		}

		endLine := t.line
		t.advance(sym)

		if !next.LineFinished() {
			continue
		}
		if next == StateFinished {
			t.done = true
		}

		if next.Ignore() {
			if t.onDiscard != nil {
				t.onDiscard(t.startLine, next)
			}
			if t.done {
				return Line{}, io.EOF
			}
			t.beginLine()
			continue
		}
		if emptyTail {
			return Line{}, io.EOF
		}

		out := Line{
			Cells:   t.cells,
			Number:  t.startLine,
			EndLine: endLine,
			Offset:  t.startOff,
		}
		if !t.done {
			t.beginLine()
		}
		return out, nil
	}
}

// read pulls the next symbol, folding CRLF into one terminator.
func (t *Tokenizer) read() Symbol {
	r, ok := t.stream.NextChar()
	if !ok {
		return EndOfInput
	}
	kind := t.classifier.Classify(r)
	if kind == KindCarriageReturn {
		if next, ok := t.stream.PeekChar(); ok && next == '\n' {
			t.stream.NextChar()
			return Symbol{Char: '\n', Kind: KindLineFeed, CRLF: true}
		}
	}
	return Symbol{Char: r, Kind: kind}
}

// advance moves the position counters past sym.
func (t *Tokenizer) advance(sym Symbol) {
	switch {
	case sym.Kind == KindEndOfInput:
	case sym.Kind.IsTerminator():
		t.line++
		t.column = 0
		if sym.CRLF {
			t.offset += 2
		} else {
			t.offset++
		}
	default:
		t.column++
		t.offset++
	}
}

// markEscaped appends text taken literally after an escape character.
func (t *Tokenizer) markEscaped(text string) {
	if t.escaped[0] < 0 {
		t.escaped[0] = t.token.Len()
	}
	t.token.WriteString(text)
	t.escaped[1] = t.token.Len()
}

func (t *Tokenizer) popToken(trim bool) {
	cell := t.token.String()
	if trim && t.cfg.Trim {
		cell = trimUnescaped(cell, t.escaped)
	}
	t.cells = append(t.cells, cell)
	t.resetToken()
}

// trimUnescaped strips spaces and tabs from both ends of cell without
// cutting into the escaped span.
func trimUnescaped(cell string, escaped [2]int) string {
	if escaped[0] < 0 {
		return strings.Trim(cell, " \t")
	}
	return strings.TrimLeft(cell[:escaped[0]], " \t") +
		cell[escaped[0]:escaped[1]] +
		strings.TrimRight(cell[escaped[1]:], " \t")
}

func (t *Tokenizer) resetToken() {
	t.token.Reset()
	t.escaped = [2]int{-1, -1}
}

// beginLine resets per-line state. The cell slice is handed to the caller
// with each line, so a fresh one is allocated.
func (t *Tokenizer) beginLine() {
	t.resetToken()
	t.cells = make([]string, 0, cap(t.cells))
	t.startLine = t.line
	t.startOff = t.offset
	if t.line <= t.cfg.SkipLines {
		t.machine.Reset(StateSkipLine)
	} else {
		t.machine.Reset(StateStartOfLine)
	}
}

func (t *Tokenizer) fail(err error) {
	t.err = &ParseError{
		StartLine: t.startLine,
		Line:      t.line,
		Column:    t.column + 1,
		Field:     len(t.cells),
		Err:       err,
	}
	t.resetToken()
	t.cells = nil
}
