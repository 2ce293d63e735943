package csv

import (
	"strconv"
)

// Header maps column names to indexes. It is immutable once built and is
// shared by every Row of a session.
type Header struct {
	names []string
	index map[string]int
	line  int
}

// NewHeader builds a header from names.
// Under DuplicateReject a repeated name fails with a *HeaderError wrapping
// ErrDuplicateHeaderName; under DuplicateRename later occurrences become
// name_2, name_3 and so on.
func NewHeader(names []string, policy DuplicatePolicy) (*Header, error) {
	return newHeader(names, policy, 0)
}

func newHeader(names []string, policy DuplicatePolicy, line int) (*Header, error) {
	h := &Header{
		names: make([]string, len(names)),
		index: make(map[string]int, len(names)),
		line:  line,
	}
	for i, name := range names {
		if first, dup := h.index[name]; dup {
			if policy != DuplicateRename {
				return nil, &HeaderError{
					Line:   line,
					Name:   name,
					First:  first,
					Second: i,
					Err:    ErrDuplicateHeaderName,
				}
			}
			name = h.disambiguate(name)
		}
		h.names[i] = name
		h.index[name] = i
	}
	return h, nil
}

// disambiguate returns the first free name of the form name_N, N >= 2.
func (h *Header) disambiguate(name string) string {
	for n := 2; ; n++ {
		candidate := name + "_" + strconv.Itoa(n)
		if _, taken := h.index[candidate]; !taken {
			return candidate
		}
	}
}

// Index returns the column index of name.
func (h *Header) Index(name string) (int, error) {
	if h == nil {
		return -1, &AccessError{Index: -1, Name: name, Err: ErrNoHeader}
	}
	i, ok := h.index[name]
	if !ok {
		return -1, &AccessError{Line: h.line, Index: -1, Name: name, Len: len(h.names), Err: ErrUnknownHeaderName}
	}
	return i, nil
}

// Name returns the name of column i.
func (h *Header) Name(i int) (string, error) {
	if h == nil {
		return "", &AccessError{Index: i, Err: ErrNoHeader}
	}
	if i < 0 || i >= len(h.names) {
		return "", &AccessError{Line: h.line, Index: i, Len: len(h.names), Err: ErrColumnOutOfBounds}
	}
	return h.names[i], nil
}

// Len returns the number of columns.
func (h *Header) Len() int {
	if h == nil {
		return 0
	}
	return len(h.names)
}

// Names returns a copy of the column names in order.
func (h *Header) Names() []string {
	if h == nil {
		return nil
	}
	names := make([]string, len(h.names))
	copy(names, h.names)
	return names
}

// Line returns the physical line the header was read from, 0 if it was
// built directly.
func (h *Header) Line() int {
	if h == nil {
		return 0
	}
	return h.line
}
