package csv

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Converter transforms a cell value into a typed Go value.
// Converters receive the cell exactly as tokenized; surrounding spaces are
// trimmed before numeric, boolean and time parsing.
type Converter[V any] func(cell string) (V, error)

// Default layouts for TimeConverter.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// TextConverter returns the cell unchanged.
func TextConverter() Converter[string] {
	return func(cell string) (string, error) {
		return cell, nil
	}
}

// IntConverter parses integers in the given base.
// Default: base 10 when base is 0.
func IntConverter(base int) Converter[int64] {
	if base == 0 {
		base = 10
	}
	return func(cell string) (int64, error) {
		return strconv.ParseInt(strings.TrimSpace(cell), base, 64)
	}
}

// FloatConverter parses 64-bit floating point numbers.
func FloatConverter() Converter[float64] {
	return func(cell string) (float64, error) {
		return strconv.ParseFloat(strings.TrimSpace(cell), 64)
	}
}

// BoolConverter recognizes true/false, 1/0, yes/no, y/n, on/off and t/f,
// case-insensitively.
func BoolConverter() Converter[bool] {
	return func(cell string) (bool, error) {
		switch strings.ToLower(strings.TrimSpace(cell)) {
		case "true", "1", "yes", "y", "on", "t":
			return true, nil
		case "false", "0", "no", "n", "off", "f":
			return false, nil
		default:
			return false, fmt.Errorf("cannot convert %q to bool", cell)
		}
	}
}

// TimeConverter parses times with layout in loc.
// Default: DateLayout when layout is empty, UTC when loc is nil.
//
// Example:
//
//	conv := csv.TimeConverter(csv.DateTimeLayout, nil)
//	t, err := conv("2024-03-01 12:30:00")
func TimeConverter(layout string, loc *time.Location) Converter[time.Time] {
	if layout == "" {
		layout = DateLayout
	}
	if loc == nil {
		loc = time.UTC
	}
	return func(cell string) (time.Time, error) {
		return time.ParseInLocation(layout, strings.TrimSpace(cell), loc)
	}
}

// DurationConverter parses values accepted by time.ParseDuration.
func DurationConverter() Converter[time.Duration] {
	return func(cell string) (time.Duration, error) {
		return time.ParseDuration(strings.TrimSpace(cell))
	}
}
