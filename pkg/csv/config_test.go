package csv_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shapestone/shape-csvtok/pkg/csv"
)

func TestLoadDialect(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		modify  func(*csv.Dialect)
		wantErr string
	}{
		{
			name:   "empty document keeps defaults",
			yaml:   "",
			modify: func(*csv.Dialect) {},
		},
		{
			name: "semicolon with header and comments",
			yaml: "delimiter: \";\"\nheader: true\ncomment: \"#\"\n",
			modify: func(d *csv.Dialect) {
				d.Delimiter = ';'
				d.HeaderPresent = true
				d.Comment = '#'
			},
		},
		{
			name: "tab without quoting",
			yaml: "delimiter: tab\nquote: none\n",
			modify: func(d *csv.Dialect) {
				d.Delimiter = '\t'
				d.Quote = csv.NoChar
				d.Escape = csv.NoChar
			},
		},
		{
			name: "backslash escape and policies",
			yaml: "escape: \"\\\\\"\nduplicate-headers: rename\ntrailing-escape: literal\nskip-lines: 2\n" +
				"skip-empty-lines: false\ntrim-unquoted-whitespace: true\nlazy-quotes: true\n",
			modify: func(d *csv.Dialect) {
				d.Escape = '\\'
				d.DuplicateHeaders = csv.DuplicateRename
				d.TrailingEscape = csv.TrailingEscapeLiteral
				d.SkipLines = 2
				d.SkipEmptyLines = false
				d.TrimUnquotedWhitespace = true
				d.LazyQuotes = true
			},
		},
		{name: "unknown key", yaml: "separator: \";\"\n", wantErr: "separator"},
		{name: "multi character", yaml: "delimiter: \";;\"\n", wantErr: "not a single character"},
		{name: "unknown policy", yaml: "duplicate-headers: merge\n", wantErr: "unknown policy"},
		{name: "invalid combination", yaml: "quote: \",\"\n", wantErr: "quote character same as delimiter"},
		{name: "malformed yaml", yaml: "delimiter: [\n", wantErr: "failed to parse dialect"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := csv.LoadDialect([]byte(tt.yaml))
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			want := csv.DefaultDialect()
			tt.modify(&want)
			assert.Equal(t, want, d)
		})
	}
}

func TestWriteDialect_RoundTrip(t *testing.T) {
	backslash := csv.DefaultDialect()
	backslash.Escape = '\\'
	backslash.Comment = '#'
	backslash.SkipLines = 3
	backslash.DuplicateHeaders = csv.DuplicateRename

	for name, d := range map[string]csv.Dialect{
		"default":   csv.DefaultDialect(),
		"tsv":       csv.TSV(),
		"excel":     csv.Excel(),
		"backslash": backslash,
	} {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, csv.WriteDialect(&buf, d))

			got, err := csv.LoadDialect(buf.Bytes())
			require.NoError(t, err, buf.String())
			assert.Equal(t, d, got)
		})
	}
}
