// Package csv provides a streaming, dialect-configurable CSV tokenizer.
//
// Raw text is turned into rows of cells by a table-driven state machine
// that reads one character at a time. Every behavior of the machine is
// controlled by a Dialect: delimiter, quote, escape and comment characters,
// empty-line handling, whitespace trimming, header handling and the number
// of leading lines to skip.
//
// # Sessions
//
// A Reader is one tokenizing session. It reads its source lazily and yields
// rows strictly forward. Structural errors (an unterminated quoted field,
// a malformed escape, a duplicate header name) end the session; lookup
// errors on a Row only fail that call.
//
//	d := csv.DefaultDialect()
//	d.HeaderPresent = true
//	r, err := csv.NewStringReader("name,age\nAlice,30\n", d)
//	if err != nil {
//	    // invalid dialect
//	}
//	for row, err := range r.Rows() {
//	    if err != nil {
//	        // handle error
//	    }
//	    age, _ := row.GetByName("age")
//	}
//
// # Thread Safety
//
// A Reader is not safe for concurrent use. Separate Readers share no
// mutable state, so separate sessions may run on separate goroutines;
// TokenizeAll does exactly that on a worker pool.
//
// # Mapping
//
// Mapper binds header names or column indexes to properties of a Go value
// and converts each row into one. Decode runs a Mapper over a Reader.
//
// # AST
//
// Parse, ParseReader and Reader.ReadAST return Shape's unified AST:
// an *ast.ArrayDataNode of records, each an *ast.ArrayDataNode of
// *ast.LiteralNode cells.
package csv

import (
	"io"

	"github.com/shapestone/shape-core/pkg/ast"
)

// Parse tokenizes a complete CSV document held in a string and returns
// its rows.
//
// Example:
//
//	rows, err := csv.Parse("a,b\n1,2\n", csv.DefaultDialect())
//	// rows[0].Cells() == []string{"a", "b"}
func Parse(input string, d Dialect) ([]*Row, error) {
	r, err := NewStringReader(input, d)
	if err != nil {
		return nil, err
	}
	return r.ReadAll()
}

// ParseReader tokenizes every row readable from src.
// For large inputs prefer NewReader and Reader.Rows, which keep memory
// use independent of the input size.
func ParseReader(src io.Reader, d Dialect) ([]*Row, error) {
	r, err := NewReader(src, d)
	if err != nil {
		return nil, err
	}
	return r.ReadAll()
}

// ParseAST tokenizes input into an AST.
//
// Returns an *ast.ArrayDataNode representing the document:
//   - each record is an *ast.ArrayDataNode of fields
//   - each field is an *ast.LiteralNode containing a string value
//   - with HeaderPresent, the header row is the first record
//
// Example:
//
//	node, err := csv.ParseAST("name,age\nAlice,30", csv.DefaultDialect())
//	records := node.Elements()
func ParseAST(input string, d Dialect) (*ast.ArrayDataNode, error) {
	r, err := NewStringReader(input, d)
	if err != nil {
		return nil, err
	}
	return r.ReadAST()
}

// Validate checks whether input tokenizes cleanly under d without keeping
// any rows.
//
// This is the idiomatic Go approach - check the error:
//
//	if err := csv.Validate(input, csv.DefaultDialect()); err != nil {
//	    fmt.Println("Invalid CSV:", err)
//	}
func Validate(input string, d Dialect) error {
	r, err := NewStringReader(input, d)
	if err != nil {
		return err
	}
	return drain(r)
}

// ValidateReader is Validate for an io.Reader. It reads src to the end or
// to the first error.
func ValidateReader(src io.Reader, d Dialect) error {
	r, err := NewReader(src, d)
	if err != nil {
		return err
	}
	return drain(r)
}

func drain(r *Reader) error {
	for _, err := range r.Rows() {
		if err != nil {
			return err
		}
	}
	return nil
}

// Format returns the format identifier for this package.
func Format() string {
	return "CSV"
}
