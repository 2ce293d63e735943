package csv

import (
	"errors"
	"io"
)

// Scanner provides a bufio.Scanner style interface over a Reader.
// Rows are tokenized one at a time as Scan is called, so memory use does
// not grow with the input.
//
// Example usage:
//
//	file, _ := os.Open("data.csv")
//	defer file.Close()
//
//	scanner := csv.NewScanner(file).SetHasHeaders(true)
//	for scanner.Scan() {
//	    row := scanner.Row()
//	    name, _ := row.GetByName("name")
//	    fmt.Println(name)
//	}
//	if err := scanner.Err(); err != nil {
//	    // handle error
//	}
type Scanner struct {
	src     io.Reader
	dialect Dialect
	opts    []ReaderOption

	reader *Reader
	row    *Row
	err    error
}

// NewScanner creates a new Scanner that reads CSV from src using
// DefaultDialect. The dialect can be changed until the first call to Scan.
func NewScanner(src io.Reader, opts ...ReaderOption) *Scanner {
	return &Scanner{
		src:     src,
		dialect: DefaultDialect(),
		opts:    opts,
	}
}

// SetDialect replaces the scanner's dialect.
// Returns the Scanner for method chaining. It has no effect after Scan.
func (s *Scanner) SetDialect(d Dialect) *Scanner {
	s.dialect = d
	return s
}

// SetHasHeaders sets whether the first row should be treated as the header.
// Returns the Scanner for method chaining. It has no effect after Scan.
//
// Example:
//
//	scanner := csv.NewScanner(reader).SetHasHeaders(true)
func (s *Scanner) SetHasHeaders(hasHeaders bool) *Scanner {
	s.dialect.HeaderPresent = hasHeaders
	return s
}

// Scan advances the scanner to the next row.
// It returns false at end of input or on the first error; Err reports
// which one it was.
func (s *Scanner) Scan() bool {
	if s.err != nil {
		return false
	}
	if s.reader == nil {
		r, err := NewReader(s.src, s.dialect, s.opts...)
		if err != nil {
			s.err = err
			return false
		}
		s.reader = r
	}

	row, err := s.reader.Read()
	if err != nil {
		s.row = nil
		if !errors.Is(err, io.EOF) {
			s.err = err
		}
		return false
	}
	s.row = row
	return true
}

// Row returns the row produced by the last successful Scan, or nil.
func (s *Scanner) Row() *Row {
	return s.row
}

// Err returns the first error encountered by Scan. It returns nil at
// end of input.
func (s *Scanner) Err() error {
	return s.err
}

// Headers returns the header names once the first Scan has run, or nil
// when the dialect has no header.
func (s *Scanner) Headers() []string {
	if s.reader == nil {
		return nil
	}
	return s.reader.header.Names()
}

// Line returns the physical line the scanner will read next.
func (s *Scanner) Line() int {
	if s.reader == nil {
		return 1
	}
	return s.reader.PhysicalLine()
}
