package csv

import (
	"errors"
	"fmt"
	"io"
)

// BindOption configures one column binding.
type BindOption func(*binding)

type binding struct {
	required bool
}

// Required rejects empty or missing cells with ErrRequiredField.
func Required() BindOption {
	return func(b *binding) {
		b.required = true
	}
}

type nameBinding[T any] struct {
	name string
	prop Property[T]
	opts binding
}

type indexBinding[T any] struct {
	index int
	prop  Property[T]
	opts  binding
}

// Mapper describes how rows convert into values of type T. Columns are
// bound by header name or by index. A Mapper is configured once and may be
// bound to any number of sessions.
//
// Example:
//
//	type Person struct {
//	    Name string
//	    Age  int64
//	}
//
//	m := csv.NewMapper[Person]().
//	    Column("name", csv.Text("Name", func(p *Person, v string) { p.Name = v }), csv.Required()).
//	    Column("age", csv.Int("Age", func(p *Person, v int64) { p.Age = v }))
//	people, err := csv.Decode(reader, m)
type Mapper[T any] struct {
	byName  []nameBinding[T]
	byIndex []indexBinding[T]
	extra   func(dst *T, col Column, cell string) error
	dynamic *dynamicColumns[T]
}

type dynamicColumns[T any] struct {
	from  int
	name  Property[T]
	value Property[T]
}

// NewMapper creates an empty mapper.
func NewMapper[T any]() *Mapper[T] {
	return &Mapper[T]{}
}

// Column binds the header column called name to p.
// Returns the Mapper for method chaining.
func (m *Mapper[T]) Column(name string, p Property[T], opts ...BindOption) *Mapper[T] {
	nb := nameBinding[T]{name: name, prop: p}
	for _, opt := range opts {
		opt(&nb.opts)
	}
	m.byName = append(m.byName, nb)
	return m
}

// Index binds column i (0-based) to p. Index bindings need no header.
// Returns the Mapper for method chaining.
func (m *Mapper[T]) Index(i int, p Property[T], opts ...BindOption) *Mapper[T] {
	ib := indexBinding[T]{index: i, prop: p}
	for _, opt := range opts {
		opt(&ib.opts)
	}
	m.byIndex = append(m.byIndex, ib)
	return m
}

// Extra registers fn to receive every cell whose column is not bound.
// Returns the Mapper for method chaining.
func (m *Mapper[T]) Extra(fn func(dst *T, col Column, cell string) error) *Mapper[T] {
	m.extra = fn
	return m
}

// Dynamic treats every column from index from onwards as a data point of
// its own: MapDynamic yields one value per such column, with name receiving
// the column's header name and value receiving the cell. Columns before
// from are mapped into each value as usual.
// Returns the Mapper for method chaining.
func (m *Mapper[T]) Dynamic(from int, name, value Property[T]) *Mapper[T] {
	m.dynamic = &dynamicColumns[T]{from: from, name: name, value: value}
	return m
}

// boundProperty is a property resolved to a column index.
type boundProperty[T any] struct {
	prop     Property[T]
	required bool
}

// Binding is a Mapper resolved against one session header.
type Binding[T any] struct {
	header  *Header
	props   map[int]boundProperty[T]
	maxCol  int
	extra   func(dst *T, col Column, cell string) error
	dynamic *dynamicColumns[T]
}

// Bind verifies the mapper against header and resolves every name binding
// to a column index. A header may be nil when the mapper binds only by
// index. Name bindings missing from the header fail with an *AccessError
// wrapping ErrUnknownHeaderName, or ErrNoHeader when there is no header.
func (m *Mapper[T]) Bind(header *Header) (*Binding[T], error) {
	b := &Binding[T]{
		header:  header,
		props:   make(map[int]boundProperty[T], len(m.byName)+len(m.byIndex)),
		maxCol:  -1,
		extra:   m.extra,
		dynamic: m.dynamic,
	}
	for _, nb := range m.byName {
		i, err := header.Index(nb.name)
		if err != nil {
			return nil, fmt.Errorf("bind %s: %w", nb.prop.Name(), err)
		}
		b.add(i, nb.prop, nb.opts)
	}
	for _, ib := range m.byIndex {
		if ib.index < 0 {
			return nil, &OptionsError{Field: "Index", Message: fmt.Sprintf("negative column index %d for %s", ib.index, ib.prop.Name())}
		}
		b.add(ib.index, ib.prop, ib.opts)
	}
	if m.dynamic != nil && m.dynamic.from < 0 {
		return nil, &OptionsError{Field: "Dynamic", Message: fmt.Sprintf("negative start column %d", m.dynamic.from)}
	}
	return b, nil
}

func (b *Binding[T]) add(i int, p Property[T], opts binding) {
	b.props[i] = boundProperty[T]{prop: p, required: opts.required}
	if i > b.maxCol {
		b.maxCol = i
	}
}

// Header returns the header the binding was resolved against.
func (b *Binding[T]) Header() *Header {
	return b.header
}

// Map converts row into a new T.
func (b *Binding[T]) Map(row *Row) (T, error) {
	var v T
	err := b.MapInto(&v, row)
	return v, err
}

// MapInto converts row into dst. Cells of unbound columns go to the Extra
// function if one is registered and are ignored otherwise.
// Failures are *MappingError values wrapping ErrRequiredField or the
// converter's error.
func (b *Binding[T]) MapInto(dst *T, row *Row) error {
	limit := row.Len()
	if b.dynamic != nil && b.dynamic.from < limit {
		limit = b.dynamic.from
	}
	for col, cell := range row.All() {
		if col.Index() >= limit {
			break
		}
		if err := b.assign(dst, row, col, cell); err != nil {
			return err
		}
	}

	// Required columns the row is too short to hold.
	for i := limit; i <= b.maxCol; i++ {
		bp, ok := b.props[i]
		if ok && bp.required {
			return &MappingError{
				Line:     row.Line(),
				Column:   Column{index: i, header: b.header},
				Property: bp.prop.Name(),
				Err:      ErrRequiredField,
			}
		}
	}
	return nil
}

func (b *Binding[T]) assign(dst *T, row *Row, col Column, cell string) error {
	bp, ok := b.props[col.Index()]
	if !ok {
		if b.extra == nil {
			return nil
		}
		if err := b.extra(dst, col, cell); err != nil {
			return &MappingError{Line: row.Line(), Column: col, Cell: cell, Err: err}
		}
		return nil
	}
	if bp.required && cell == "" {
		return &MappingError{
			Line:     row.Line(),
			Column:   col,
			Property: bp.prop.Name(),
			Err:      ErrRequiredField,
		}
	}
	return setProperty(dst, row, col, cell, bp.prop)
}

func setProperty[T any](dst *T, row *Row, col Column, cell string, p Property[T]) error {
	if err := p.Assign(dst, cell); err != nil {
		return &MappingError{
			Line:     row.Line(),
			Column:   col,
			Property: p.Name(),
			Cell:     cell,
			Err:      err,
		}
	}
	return nil
}

// MapDynamic converts row into one T per dynamic column. Each value gets
// the regular columns mapped first, then the dynamic column's header name
// and cell. Without a Dynamic registration it returns a single value.
func (b *Binding[T]) MapDynamic(row *Row) ([]T, error) {
	if b.dynamic == nil {
		v, err := b.Map(row)
		if err != nil {
			return nil, err
		}
		return []T{v}, nil
	}

	var base T
	if err := b.MapInto(&base, row); err != nil {
		return nil, err
	}

	var out []T
	for col, cell := range row.All() {
		if col.Index() < b.dynamic.from {
			continue
		}
		v := base
		if err := setProperty(&v, row, col, col.Name(), b.dynamic.name); err != nil {
			return nil, err
		}
		if err := setProperty(&v, row, col, cell, b.dynamic.value); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Decode reads every remaining row of r and maps it with m. The header is
// verified once, before the first row is mapped.
func Decode[T any](r *Reader, m *Mapper[T]) ([]T, error) {
	var out []T
	err := DecodeEach(r, m, func(v T) error {
		out = append(out, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeEach maps the remaining rows of r one at a time and hands each
// value to fn. It stops at the first error from the session, the mapping
// or fn.
func DecodeEach[T any](r *Reader, m *Mapper[T], fn func(T) error) error {
	header, err := r.Header()
	switch {
	case errors.Is(err, ErrNoHeader):
		header = nil
	case errors.Is(err, io.EOF):
		return nil
	case err != nil:
		return err
	}

	b, err := m.Bind(header)
	if err != nil {
		return err
	}
	for row, err := range r.Rows() {
		if err != nil {
			return err
		}
		values, err := b.MapDynamic(row)
		if err != nil {
			return err
		}
		for _, v := range values {
			if err := fn(v); err != nil {
				return err
			}
		}
	}
	return nil
}
