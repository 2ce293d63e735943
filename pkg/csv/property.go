package csv

import "time"

// Property assigns a cell to one field of a T.
type Property[T any] interface {
	// Name identifies the property in error messages.
	Name() string
	// Assign converts cell and stores it in dst.
	Assign(dst *T, cell string) error
}

type funcProperty[T any] struct {
	name string
	fn   func(dst *T, cell string) error
}

func (p funcProperty[T]) Name() string { return p.name }

func (p funcProperty[T]) Assign(dst *T, cell string) error { return p.fn(dst, cell) }

// Func returns a property backed by fn.
func Func[T any](name string, fn func(dst *T, cell string) error) Property[T] {
	return funcProperty[T]{name: name, fn: fn}
}

// Convert returns a property that runs conv and passes the result to set.
// Empty cells are left unassigned so the field keeps its zero value; use
// Required to reject them.
//
// Example:
//
//	csv.Convert("Price", csv.FloatConverter(), func(p *Product, v float64) { p.Price = v })
func Convert[T, V any](name string, conv Converter[V], set func(dst *T, v V)) Property[T] {
	return Func(name, func(dst *T, cell string) error {
		if cell == "" {
			return nil
		}
		v, err := conv(cell)
		if err != nil {
			return err
		}
		set(dst, v)
		return nil
	})
}

// Text returns a property storing the cell as is, empty cells included.
func Text[T any](name string, set func(dst *T, v string)) Property[T] {
	return Func(name, func(dst *T, cell string) error {
		set(dst, cell)
		return nil
	})
}

// Int returns a property parsing base 10 integers.
func Int[T any](name string, set func(dst *T, v int64)) Property[T] {
	return Convert(name, IntConverter(10), set)
}

// Float returns a property parsing floating point numbers.
func Float[T any](name string, set func(dst *T, v float64)) Property[T] {
	return Convert(name, FloatConverter(), set)
}

// Bool returns a property parsing booleans as BoolConverter does.
func Bool[T any](name string, set func(dst *T, v bool)) Property[T] {
	return Convert(name, BoolConverter(), set)
}

// Time returns a property parsing times with layout in UTC.
func Time[T any](name, layout string, set func(dst *T, v time.Time)) Property[T] {
	return Convert(name, TimeConverter(layout, nil), set)
}
