package csv_test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shapestone/shape-csvtok/internal/logging"
	"github.com/shapestone/shape-csvtok/pkg/csv"
)

func headerDialect() csv.Dialect {
	d := csv.DefaultDialect()
	d.HeaderPresent = true
	return d
}

func cellsOf(rows []*csv.Row) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = row.Cells()
	}
	return out
}

// TestReader_EndToEnd tests a header, a quoted delimiter, a comment line
// and a quoted line break in one document.
func TestReader_EndToEnd(t *testing.T) {
	d := headerDialect()
	d.Comment = '#'
	input := "name,age\n\"Doe, John\",30\n# comment\n\"Smith\nJane\",41"

	r, err := csv.NewStringReader(input, d)
	require.NoError(t, err)

	header, err := r.Header()
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "age"}, header.Names())
	assert.Equal(t, 1, header.Line())
	i, err := header.Index("name")
	require.NoError(t, err)
	assert.Equal(t, 0, i)
	i, err = header.Index("age")
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	row, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"Doe, John", "30"}, row.Cells())
	assert.Equal(t, 2, row.Line())
	assert.Equal(t, 2, row.EndLine())
	assert.Same(t, header, row.Header())

	row, err = r.Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"Smith\nJane", "41"}, row.Cells())
	assert.Equal(t, 4, row.Line())
	assert.Equal(t, 5, row.EndLine())
	age, err := row.GetByName("age")
	require.NoError(t, err)
	assert.Equal(t, "41", age)

	_, err = r.Read()
	assert.ErrorIs(t, err, io.EOF)
	_, err = r.Read()
	assert.ErrorIs(t, err, io.EOF, "EOF repeats")
}

// TestReader_Properties covers the tokenizing properties every dialect
// must keep.
func TestReader_Properties(t *testing.T) {
	t.Run("embedded delimiter", func(t *testing.T) {
		rows, err := csv.Parse(`"a,b",c`, csv.DefaultDialect())
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"a,b", "c"}}, cellsOf(rows))
	})

	t.Run("embedded terminator advances line counter", func(t *testing.T) {
		rows, err := csv.Parse("\"x\r\ny\",1\nnext,2\n", csv.DefaultDialect())
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, []string{"x\r\ny", "1"}, rows[0].Cells())
		assert.Equal(t, 1, rows[0].Line())
		assert.Equal(t, 2, rows[0].EndLine())
		assert.Equal(t, 3, rows[1].Line())
	})

	t.Run("comment line does not become the header", func(t *testing.T) {
		d := headerDialect()
		d.Comment = '#'
		r, err := csv.NewStringReader("# generated\nid,name\n1,a\n", d)
		require.NoError(t, err)

		header, err := r.Header()
		require.NoError(t, err)
		assert.Equal(t, []string{"id", "name"}, header.Names())
		assert.Equal(t, 2, header.Line())

		rows, err := r.ReadAll()
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"1", "a"}}, cellsOf(rows))
	})

	t.Run("idempotent", func(t *testing.T) {
		input := "a,\"b\"\"c\"\n\n# x\n\"d\ne\",f"
		d := csv.DefaultDialect()
		d.Comment = '#'
		first, err := csv.Parse(input, d)
		require.NoError(t, err)
		second, err := csv.Parse(input, d)
		require.NoError(t, err)
		assert.Equal(t, cellsOf(first), cellsOf(second))
	})

	t.Run("unterminated quote emits no partial row", func(t *testing.T) {
		r, err := csv.NewStringReader("ok,1\nbad,\"open\n", csv.DefaultDialect())
		require.NoError(t, err)

		row, err := r.Read()
		require.NoError(t, err)
		assert.Equal(t, []string{"ok", "1"}, row.Cells())

		row, err = r.Read()
		assert.Nil(t, row)
		assert.ErrorIs(t, err, csv.ErrUnterminatedQuotedField)
		assert.Equal(t, csv.KindUnterminatedQuotedField, csv.KindOf(err))

		var perr *csv.ParseError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, 2, perr.StartLine)
	})

	t.Run("empty input", func(t *testing.T) {
		rows, err := csv.Parse("", csv.DefaultDialect())
		require.NoError(t, err)
		assert.Empty(t, rows)

		r, err := csv.NewStringReader("", headerDialect())
		require.NoError(t, err)
		_, err = r.Header()
		assert.ErrorIs(t, err, io.EOF)
		_, err = r.Read()
		assert.ErrorIs(t, err, io.EOF)
	})
}

// TestReader_RoundTrip tests that encoded cells tokenize back unchanged
// under several dialects.
func TestReader_RoundTrip(t *testing.T) {
	rows := [][]string{
		{"plain", "with space", ""},
		{"comma,inside", "semi;colon", "pipe|bar"},
		{`quote"inside`, `""`, "line\nbreak"},
		{"crlf\r\ninside", "tab\tinside", "end"},
		{"#hash", "it's", `back\slash`},
	}

	single := csv.DefaultDialect()
	single.Delimiter = ';'
	single.Quote = '\''
	single.Escape = csv.NoChar

	backslash := csv.TSV()
	backslash.Quote = '"'
	backslash.Escape = '\\'

	comments := csv.DefaultDialect()
	comments.Delimiter = '|'
	comments.Comment = '#'

	dialects := map[string]csv.Dialect{
		"default":          csv.DefaultDialect(),
		"excel":            csv.Excel(),
		"single quote":     single,
		"backslash escape": backslash,
		"comments":         comments,
	}

	for name, d := range dialects {
		t.Run(name, func(t *testing.T) {
			var buf strings.Builder
			if d.HeaderPresent {
				buf.WriteString(encodeRow([]string{"a", "b", "c"}, d))
			}
			for _, row := range rows {
				buf.WriteString(encodeRow(row, d))
			}

			got, err := csv.Parse(buf.String(), d)
			require.NoError(t, err)
			assert.Equal(t, rows, cellsOf(got))
		})
	}
}

// encodeRow writes one CRLF-terminated row in dialect d.
func encodeRow(row []string, d csv.Dialect) string {
	escape := d.Escape
	if escape == csv.NoChar {
		escape = d.Quote
	}

	var sb strings.Builder
	for i, cell := range row {
		if i > 0 {
			sb.WriteRune(d.Delimiter)
		}
		special := string(d.Delimiter) + string(d.Quote) + string(escape) + "\r\n"
		if cell != "" && !strings.ContainsAny(cell, special) &&
			(d.Comment == csv.NoChar || !strings.HasPrefix(cell, string(d.Comment))) {
			sb.WriteString(cell)
			continue
		}
		sb.WriteRune(d.Quote)
		for _, r := range cell {
			if r == d.Quote || (r == escape && escape != d.Quote) {
				sb.WriteRune(escape)
			}
			sb.WriteRune(r)
		}
		sb.WriteRune(d.Quote)
	}
	sb.WriteString("\r\n")
	return sb.String()
}

// TestReader_Errors tests session error handling.
func TestReader_Errors(t *testing.T) {
	t.Run("errors are sticky", func(t *testing.T) {
		r, err := csv.NewStringReader("a\"b\nc\n", csv.DefaultDialect())
		require.NoError(t, err)

		_, err = r.Read()
		require.ErrorIs(t, err, csv.ErrBareQuote)
		_, again := r.Read()
		assert.Same(t, err, again)

		_, err = r.ReadAll()
		assert.ErrorIs(t, err, csv.ErrBareQuote)
	})

	t.Run("duplicate header rejected", func(t *testing.T) {
		r, err := csv.NewStringReader("id,name,id\n1,a,2\n", headerDialect())
		require.NoError(t, err)

		_, err = r.Read()
		require.ErrorIs(t, err, csv.ErrDuplicateHeaderName)
		var herr *csv.HeaderError
		require.ErrorAs(t, err, &herr)
		assert.Equal(t, "id", herr.Name)
		assert.Equal(t, 0, herr.First)
		assert.Equal(t, 2, herr.Second)
		assert.Equal(t, 1, herr.Line)
		assert.Equal(t, csv.KindDuplicateHeaderName, csv.KindOf(err))

		_, err = r.Header()
		assert.ErrorIs(t, err, csv.ErrDuplicateHeaderName)
	})

	t.Run("duplicate header renamed", func(t *testing.T) {
		d := headerDialect()
		d.DuplicateHeaders = csv.DuplicateRename
		r, err := csv.NewStringReader("id,name,id\n1,a,2\n", d)
		require.NoError(t, err)

		row, err := r.Read()
		require.NoError(t, err)
		v, err := row.GetByName("id_2")
		require.NoError(t, err)
		assert.Equal(t, "2", v)
	})

	t.Run("access errors leave the session usable", func(t *testing.T) {
		r, err := csv.NewStringReader("name\nAlice\nBob\n", headerDialect())
		require.NoError(t, err)

		row, err := r.Read()
		require.NoError(t, err)

		_, err = row.Get(3)
		assert.ErrorIs(t, err, csv.ErrColumnOutOfBounds)
		_, err = row.GetByName("email")
		assert.ErrorIs(t, err, csv.ErrUnknownHeaderName)
		assert.Equal(t, csv.KindUnknownHeaderName, csv.KindOf(err))

		row, err = r.Read()
		require.NoError(t, err)
		assert.Equal(t, []string{"Bob"}, row.Cells())
	})

	t.Run("no header", func(t *testing.T) {
		r, err := csv.NewStringReader("a,b\n", csv.DefaultDialect())
		require.NoError(t, err)

		_, err = r.Header()
		assert.ErrorIs(t, err, csv.ErrNoHeader)

		row, err := r.Read()
		require.NoError(t, err)
		assert.Nil(t, row.Header())
		_, err = row.GetByName("a")
		assert.ErrorIs(t, err, csv.ErrNoHeader)
	})

	t.Run("invalid dialect", func(t *testing.T) {
		d := csv.DefaultDialect()
		d.Delimiter = '\n'
		_, err := csv.NewStringReader("a", d)
		var optErr *csv.OptionsError
		require.ErrorAs(t, err, &optErr)
		assert.Equal(t, "Delimiter", optErr.Field)
		assert.Equal(t, csv.KindOptions, csv.KindOf(err))
	})
}

// TestReader_Rows tests the iterator form.
func TestReader_Rows(t *testing.T) {
	r, err := csv.NewReader(strings.NewReader("a\nb\nc\n"), csv.DefaultDialect())
	require.NoError(t, err)

	var got []string
	for row, err := range r.Rows() {
		require.NoError(t, err)
		got = append(got, row.Cells()[0])
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 3, r.PhysicalLine())

	rest, err := r.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"c"}}, cellsOf(rest))

	r, err = csv.NewStringReader("ok\n\"bad", csv.DefaultDialect())
	require.NoError(t, err)
	var errs []error
	for _, err := range r.Rows() {
		errs = append(errs, err)
	}
	require.Len(t, errs, 2)
	assert.NoError(t, errs[0])
	assert.ErrorIs(t, errs[1], csv.ErrUnterminatedQuotedField)
}

// TestReader_ReadAST tests AST export with header and positions.
func TestReader_ReadAST(t *testing.T) {
	r, err := csv.NewStringReader("name,age\nAlice,30\n", headerDialect())
	require.NoError(t, err)

	node, err := r.ReadAST()
	require.NoError(t, err)
	assert.Equal(t, 2, node.Len())

	records, err := csv.NodeToRecords(node)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"name", "age"}, {"Alice", "30"}}, records)
}

// TestReader_WithLogger tests debug logging of discarded lines.
func TestReader_WithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, "debug")

	d := csv.DefaultDialect()
	d.Comment = '#'
	d.SkipLines = 1
	r, err := csv.NewStringReader("title\n# note\na\n", d, csv.WithLogger(logger))
	require.NoError(t, err)

	rows, err := r.ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Contains(t, buf.String(), "discarded line")
	assert.Contains(t, buf.String(), "reason=comment")
	assert.Contains(t, buf.String(), "reason=skipped")
	assert.Contains(t, buf.String(), "state=COMMENT_LINE_FINISHED")
	assert.Contains(t, buf.String(), "state=SKIP_LINE_FINISHED")
}

// TestReader_LargeInput tests that a reader-backed session handles many rows.
func TestReader_LargeInput(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("id,value\n")
	for i := 0; i < 2000; i++ {
		sb.WriteString("1,\"multi\nline\"\n")
	}

	r, err := csv.NewReader(strings.NewReader(sb.String()), headerDialect())
	require.NoError(t, err)

	count := 0
	last := 0
	for row, err := range r.Rows() {
		require.NoError(t, err)
		count++
		last = row.Line()
	}
	assert.Equal(t, 2000, count)
	assert.Equal(t, 2+2*1999, last)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, csv.KindUnknown, csv.KindOf(errors.New("other")))
	assert.Equal(t, csv.KindUnknown, csv.KindOf(nil))
	assert.Equal(t, "BareQuote", csv.KindBareQuote.String())
	assert.Equal(t, "Unknown", csv.ErrorKind(99).String())
}
