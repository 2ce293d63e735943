package csv_test

import (
	"strings"
	"testing"

	"github.com/shapestone/shape-core/pkg/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shapestone/shape-csvtok/pkg/csv"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    [][]string
		wantErr error
	}{
		{name: "simple csv", input: "name,age\nAlice,30\nBob,25", want: [][]string{{"name", "age"}, {"Alice", "30"}, {"Bob", "25"}}},
		{name: "quoted fields", input: "\"name\",\"age\"\n", want: [][]string{{"name", "age"}}},
		{name: "single field", input: "value", want: [][]string{{"value"}}},
		{name: "escaped quotes", input: `"field with ""quotes"" inside"`, want: [][]string{{`field with "quotes" inside`}}},
		{name: "empty fields", input: "a,,c\n,b,", want: [][]string{{"a", "", "c"}, {"", "b", ""}}},
		{name: "newlines in quoted fields", input: "\"field\nwith\nnewlines\",normal", want: [][]string{{"field\nwith\nnewlines", "normal"}}},
		{name: "blank lines skipped", input: "a\n\n\nb\n", want: [][]string{{"a"}, {"b"}}},
		{name: "lone carriage returns", input: "a\rb\r", want: [][]string{{"a"}, {"b"}}},
		{name: "unclosed quote", input: `"unclosed`, wantErr: csv.ErrUnterminatedQuotedField},
		{name: "text after closing quote", input: `"a"b`, wantErr: csv.ErrCharAfterQuote},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := csv.Parse(tt.input, csv.DefaultDialect())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, rows)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cellsOf(rows))
		})
	}
}

func TestParseReader(t *testing.T) {
	rows, err := csv.ParseReader(strings.NewReader("a;b\r\nc;d\r\n"), csv.Excel())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"c", "d"}, rows[0].Cells())
	assert.Equal(t, []string{"a", "b"}, rows[0].Header().Names())
}

func TestParseAST(t *testing.T) {
	node, err := csv.ParseAST("a,b\nc,d", csv.DefaultDialect())
	require.NoError(t, err)
	require.Equal(t, 2, node.Len())

	record, ok := node.Elements()[1].(*ast.ArrayDataNode)
	require.True(t, ok)
	lit, ok := record.Elements()[0].(*ast.LiteralNode)
	require.True(t, ok)
	assert.Equal(t, "c", lit.Value())

	_, err = csv.ParseAST(`"x`, csv.DefaultDialect())
	assert.ErrorIs(t, err, csv.ErrUnterminatedQuotedField)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "a,b\nc,d", false},
		{"empty", "", false},
		{"quoted newline", "\"a\nb\"", false},
		{"unclosed", `"a`, true},
		{"bare quote", `a"b`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := csv.Validate(tt.input, csv.DefaultDialect())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			readerErr := csv.ValidateReader(strings.NewReader(tt.input), csv.DefaultDialect())
			assert.Equal(t, err != nil, readerErr != nil)
		})
	}
}

func TestNodeToRecords(t *testing.T) {
	records := [][]string{{"a", "b"}, {"", "c,d"}}
	got, err := csv.NodeToRecords(csv.RecordsToNode(records))
	require.NoError(t, err)
	assert.Equal(t, records, got)

	_, err = csv.NodeToRecords(ast.NewLiteralNode("x", ast.ZeroPosition()))
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "CSV", csv.Format())
}
