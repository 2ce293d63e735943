package cli

import (
	"fmt"
	"unicode/utf8"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"

	"github.com/shapestone/shape-csvtok/pkg/csv"
)

// dialectFlags are the tokenizer settings accepted on the command line.
// Only flags the user set override the dialect loaded from --dialect or
// detected by --sniff.
type dialectFlags struct {
	file  string
	sniff bool

	delimiter string
	quote     string
	escape    string
	comment   string

	header           bool
	trim             bool
	keepEmpty        bool
	lazyQuotes       bool
	renameDuplicates bool
	literalEscape    bool
	skipLines        int
}

func (f *dialectFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&f.file, "dialect", "", "load the dialect from a YAML file")
	flags.BoolVar(&f.sniff, "sniff", false, "detect delimiter, header and comments from the input")

	flags.StringVarP(&f.delimiter, "delimiter", "d", ",", "field delimiter (a character or \"tab\")")
	flags.StringVar(&f.quote, "quote", "\"", "quote character, or \"none\" to disable quoting")
	flags.StringVar(&f.escape, "escape", "", "escape character (default: same as quote)")
	flags.StringVar(&f.comment, "comment", "none", "comment marker at the start of a line")

	flags.BoolVar(&f.header, "header", false, "treat the first row as the header")
	flags.BoolVar(&f.trim, "trim", false, "trim spaces and tabs around unquoted fields")
	flags.BoolVar(&f.keepEmpty, "keep-empty", false, "keep blank lines as rows with one empty cell")
	flags.BoolVar(&f.lazyQuotes, "lazy-quotes", false, "allow quotes inside unquoted fields")
	flags.BoolVar(&f.renameDuplicates, "rename-duplicates", false, "rename repeated header names instead of failing")
	flags.BoolVar(&f.literalEscape, "literal-escape", false, "keep an escape character at end of input as content")
	flags.IntVar(&f.skipLines, "skip-lines", 0, "number of leading lines to skip")
}

// resolve builds the dialect: defaults, then the --dialect file, then the
// sniffed settings, then every flag set explicitly.
func (f *dialectFlags) resolve(flags *pflag.FlagSet, fs afero.Fs, sample func() (string, error)) (csv.Dialect, error) {
	d := csv.DefaultDialect()

	if f.file != "" {
		data, err := afero.ReadFile(fs, f.file)
		if err != nil {
			return csv.Dialect{}, fmt.Errorf("failed to read dialect file: %w", err)
		}
		if d, err = csv.LoadDialect(data); err != nil {
			return csv.Dialect{}, fmt.Errorf("dialect file %s: %w", f.file, err)
		}
	}

	if f.sniff {
		s, err := sample()
		if err != nil {
			return csv.Dialect{}, fmt.Errorf("failed to read sample: %w", err)
		}
		sniffed := csv.Sniff(s)
		d.Delimiter = sniffed.Delimiter
		d.HeaderPresent = sniffed.HeaderPresent
		if sniffed.Comment != csv.NoChar {
			d.Comment = sniffed.Comment
		}
	}

	quote := d.Quote
	chars := []struct {
		name  string
		value string
		dst   *rune
	}{
		{"delimiter", f.delimiter, &d.Delimiter},
		{"quote", f.quote, &d.Quote},
		{"escape", f.escape, &d.Escape},
		{"comment", f.comment, &d.Comment},
	}
	for _, c := range chars {
		if !flags.Changed(c.name) {
			continue
		}
		r, err := parseCharFlag(c.name, c.value)
		if err != nil {
			return csv.Dialect{}, err
		}
		*c.dst = r
	}
	// An escape that followed the old quote follows the new one; a distinct
	// escape stays.
	if flags.Changed("quote") && !flags.Changed("escape") && (d.Escape == quote || d.Escape == csv.NoChar) {
		d.Escape = csv.NoChar
	}

	if flags.Changed("header") {
		d.HeaderPresent = f.header
	}
	if flags.Changed("trim") {
		d.TrimUnquotedWhitespace = f.trim
	}
	if flags.Changed("keep-empty") {
		d.SkipEmptyLines = !f.keepEmpty
	}
	if flags.Changed("lazy-quotes") {
		d.LazyQuotes = f.lazyQuotes
	}
	if flags.Changed("rename-duplicates") && f.renameDuplicates {
		d.DuplicateHeaders = csv.DuplicateRename
	}
	if flags.Changed("literal-escape") && f.literalEscape {
		d.TrailingEscape = csv.TrailingEscapeLiteral
	}
	if flags.Changed("skip-lines") {
		d.SkipLines = f.skipLines
	}

	if err := d.Validate(); err != nil {
		return csv.Dialect{}, err
	}
	return d, nil
}

// parseCharFlag accepts one character, "tab", "none", or the two-character
// escape \t.
func parseCharFlag(name, s string) (rune, error) {
	switch s {
	case "none", "":
		return csv.NoChar, nil
	case "tab", `\t`:
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) || r == utf8.RuneError {
		return csv.NoChar, fmt.Errorf("--%s: %q is not a single character", name, s)
	}
	return r, nil
}
