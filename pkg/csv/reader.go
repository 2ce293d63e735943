package csv

import (
	"errors"
	"io"
	"iter"

	"github.com/charmbracelet/log"
	"github.com/shapestone/shape-core/pkg/ast"

	"github.com/shapestone/shape-csvtok/internal/logging"
	"github.com/shapestone/shape-csvtok/internal/tokenizer"
)

// Reader is one tokenizing session. It pulls characters from its source
// only when a row is requested and yields rows strictly forward.
//
// A Reader is not safe for concurrent use. Separate Readers share no
// mutable state and may run on separate goroutines.
type Reader struct {
	tok     *tokenizer.Tokenizer
	dialect Dialect
	logger  *log.Logger

	header     *Header
	headerRead bool
	rows       int
	err        error
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithLogger sets the logger used for debug output about discarded lines
// and session errors. The default is the package-level logger.
func WithLogger(logger *log.Logger) ReaderOption {
	return func(r *Reader) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewReader creates a session reading from src.
// Returns an *OptionsError if the dialect is invalid.
//
// Example:
//
//	d := csv.DefaultDialect()
//	d.HeaderPresent = true
//	r, err := csv.NewReader(file, d)
//	for row, err := range r.Rows() {
//	    if err != nil {
//	        // handle error
//	    }
//	    name, _ := row.GetByName("name")
//	}
func NewReader(src io.Reader, d Dialect, opts ...ReaderOption) (*Reader, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return newReader(tokenizer.NewFromReader(src, d.config()), d, opts), nil
}

// NewStringReader creates a session over an in-memory string.
func NewStringReader(input string, d Dialect, opts ...ReaderOption) (*Reader, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return newReader(tokenizer.NewFromString(input, d.config()), d, opts), nil
}

func newReader(tok *tokenizer.Tokenizer, d Dialect, opts []ReaderOption) *Reader {
	r := &Reader{
		tok:     tok,
		dialect: d,
		logger:  logging.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	tok.OnDiscard(r.logDiscard)
	return r
}

func (r *Reader) logDiscard(line int, state tokenizer.ParseState) {
	reason := "skipped"
	if state == tokenizer.StateCommentLineFinished {
		reason = "comment"
	}
	r.logger.Debug("discarded line",
		logging.FieldLine, line,
		logging.FieldReason, reason,
		logging.FieldState, state,
	)
}

// Dialect returns the session dialect.
func (r *Reader) Dialect() Dialect {
	return r.dialect
}

// Header returns the session header, reading the header row first if no
// row has been read yet. It returns ErrNoHeader when the dialect has no
// header row and io.EOF when the input holds no lines at all.
func (r *Reader) Header() (*Header, error) {
	if !r.dialect.HeaderPresent {
		return nil, ErrNoHeader
	}
	if err := r.readHeader(); err != nil {
		return nil, err
	}
	if r.header == nil {
		return nil, io.EOF
	}
	return r.header, nil
}

func (r *Reader) readHeader() error {
	if r.headerRead || !r.dialect.HeaderPresent {
		return r.err
	}
	r.headerRead = true

	line, err := r.tok.NextLine()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return r.fail(err)
	}

	header, err := newHeader(line.Cells, r.dialect.DuplicateHeaders, line.Number)
	if err != nil {
		return r.fail(err)
	}
	r.header = header
	return nil
}

// Read returns the next row. It returns io.EOF at the end of input.
// Structural errors are returned as *ParseError or *HeaderError and every
// later call returns the same error.
func (r *Reader) Read() (*Row, error) {
	if r.err != nil {
		return nil, r.err
	}
	if err := r.readHeader(); err != nil {
		return nil, err
	}

	line, err := r.tok.NextLine()
	if errors.Is(err, io.EOF) {
		return nil, io.EOF
	}
	if err != nil {
		return nil, r.fail(err)
	}

	r.rows++
	return &Row{
		cells:   line.Cells,
		line:    line.Number,
		endLine: line.EndLine,
		offset:  line.Offset,
		header:  r.header,
	}, nil
}

func (r *Reader) fail(err error) error {
	r.err = err
	r.logger.Debug("tokenizing stopped", logging.FieldError, err, logging.FieldRows, r.rows)
	return err
}

// Rows iterates over the remaining rows. Iteration stops after the first
// error, which is yielded with a nil row.
func (r *Reader) Rows() iter.Seq2[*Row, error] {
	return func(yield func(*Row, error) bool) {
		for {
			row, err := r.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(row, err) || err != nil {
				return
			}
		}
	}
}

// ReadAll reads the remaining rows. A successful call returns err == nil,
// not io.EOF. On error no rows are returned.
func (r *Reader) ReadAll() ([]*Row, error) {
	var rows []*Row
	for row, err := range r.Rows() {
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ReadAST reads the remaining rows into an AST ArrayDataNode of records.
// The header row, if any, comes first.
func (r *Reader) ReadAST() (*ast.ArrayDataNode, error) {
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	records := make([]ast.SchemaNode, 0, len(rows)+1)
	if r.header != nil {
		names := make([]ast.SchemaNode, r.header.Len())
		pos := ast.NewPosition(0, r.header.Line(), 1)
		for i, name := range r.header.names {
			names[i] = ast.NewLiteralNode(name, pos)
		}
		records = append(records, ast.NewArrayDataNode(names, pos))
	}
	for _, row := range rows {
		records = append(records, row.ToAST())
	}
	return ast.NewArrayDataNode(records, ast.ZeroPosition()), nil
}

// PhysicalLine returns the physical line the session will read next.
func (r *Reader) PhysicalLine() int {
	return r.tok.PhysicalLine()
}
