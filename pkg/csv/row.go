package csv

import (
	"iter"

	"github.com/shapestone/shape-core/pkg/ast"
)

// Row is one logical CSV line: its cells in column order, where it came
// from, and the session header it shares with every other row.
type Row struct {
	cells   []string
	line    int
	endLine int
	offset  int
	header  *Header
}

// NewRow creates a row outside of a reading session, mostly for tests and
// callers that assemble rows themselves.
func NewRow(cells []string, line int, header *Header) *Row {
	return &Row{cells: cells, line: line, endLine: line, header: header}
}

// Get returns the cell at index i (0-based).
// Lookups beyond the row fail with an *AccessError wrapping ErrColumnOutOfBounds.
func (r *Row) Get(i int) (string, error) {
	if i < 0 || i >= len(r.cells) {
		return "", &AccessError{Line: r.line, Index: i, Len: len(r.cells), Err: ErrColumnOutOfBounds}
	}
	return r.cells[i], nil
}

// GetByName returns the cell in the column called name.
//
// Example:
//
//	name, err := row.GetByName("name")
//	if errors.Is(err, csv.ErrUnknownHeaderName) {
//	    // no such column
//	}
func (r *Row) GetByName(name string) (string, error) {
	if r.header == nil {
		return "", &AccessError{Line: r.line, Index: -1, Name: name, Len: len(r.cells), Err: ErrNoHeader}
	}
	i, ok := r.header.index[name]
	if !ok {
		return "", &AccessError{Line: r.line, Index: -1, Name: name, Len: len(r.cells), Err: ErrUnknownHeaderName}
	}
	return r.Get(i)
}

// Column returns column i of the row.
func (r *Row) Column(i int) (Column, error) {
	if i < 0 || i >= len(r.cells) {
		return Column{}, &AccessError{Line: r.line, Index: i, Len: len(r.cells), Err: ErrColumnOutOfBounds}
	}
	return Column{index: i, header: r.header}, nil
}

// All iterates over the row's columns and cells in order.
func (r *Row) All() iter.Seq2[Column, string] {
	return func(yield func(Column, string) bool) {
		col := Column{index: 0, header: r.header}
		for _, cell := range r.cells {
			if !yield(col, cell) {
				return
			}
			col = col.Next()
		}
	}
}

// Len returns the number of cells.
func (r *Row) Len() int {
	return len(r.cells)
}

// Cells returns a copy of the cell values.
func (r *Row) Cells() []string {
	cells := make([]string, len(r.cells))
	copy(cells, r.cells)
	return cells
}

// Line returns the physical line the row started on (1-indexed).
func (r *Row) Line() int {
	return r.line
}

// EndLine returns the physical line the row ended on. It is greater than
// Line when a quoted field spans line breaks.
func (r *Row) EndLine() int {
	return r.endLine
}

// Header returns the session header, or nil when the dialect has none.
func (r *Row) Header() *Header {
	return r.header
}

// ToAST converts the row to an AST ArrayDataNode of LiteralNodes.
// This is useful for integration with other Shape parsers.
func (r *Row) ToAST() *ast.ArrayDataNode {
	pos := ast.NewPosition(r.offset, r.line, 1)
	fields := make([]ast.SchemaNode, len(r.cells))
	for i, cell := range r.cells {
		fields[i] = ast.NewLiteralNode(cell, pos)
	}
	return ast.NewArrayDataNode(fields, pos)
}
