package csv

import "fmt"

// Column is a position in a row, resolved against the session's header.
// Next advances without consulting the header's name index.
type Column struct {
	index  int
	header *Header
}

// Index returns the 0-based column index.
func (c Column) Index() int { return c.index }

// Name returns the header name of the column, or "" when there is no
// header or the header is shorter than the row.
func (c Column) Name() string {
	if c.header == nil || c.index < 0 || c.index >= len(c.header.names) {
		return ""
	}
	return c.header.names[c.index]
}

// Next returns the following column.
func (c Column) Next() Column {
	return Column{index: c.index + 1, header: c.header}
}

// String describes the column for error messages, 1-based like a spreadsheet.
func (c Column) String() string {
	if name := c.Name(); name != "" {
		return fmt.Sprintf("column %d (%s)", c.index+1, name)
	}
	return fmt.Sprintf("column %d", c.index+1)
}
