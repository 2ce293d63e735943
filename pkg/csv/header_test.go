package csv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shapestone/shape-csvtok/pkg/csv"
)

func TestNewHeader(t *testing.T) {
	tests := []struct {
		name    string
		names   []string
		policy  csv.DuplicatePolicy
		want    []string
		wantErr error
	}{
		{name: "unique", names: []string{"a", "b"}, want: []string{"a", "b"}},
		{name: "empty", names: nil, want: []string{}},
		{name: "reject", names: []string{"a", "b", "a"}, wantErr: csv.ErrDuplicateHeaderName},
		{name: "rename", names: []string{"a", "a", "a"}, policy: csv.DuplicateRename, want: []string{"a", "a_2", "a_3"}},
		{name: "rename skips taken", names: []string{"a", "a_2", "a"}, policy: csv.DuplicateRename, want: []string{"a", "a_2", "a_3"}},
		{name: "empty names collide", names: []string{"", ""}, policy: csv.DuplicateRename, want: []string{"", "_2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := csv.NewHeader(tt.names, tt.policy)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, h)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, h.Names())
			assert.Equal(t, len(tt.want), h.Len())
		})
	}
}

func TestHeader_Lookup(t *testing.T) {
	h, err := csv.NewHeader([]string{"id", "name"}, csv.DuplicateReject)
	require.NoError(t, err)

	i, err := h.Index("name")
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	_, err = h.Index("email")
	assert.ErrorIs(t, err, csv.ErrUnknownHeaderName)

	name, err := h.Name(0)
	require.NoError(t, err)
	assert.Equal(t, "id", name)

	_, err = h.Name(2)
	assert.ErrorIs(t, err, csv.ErrColumnOutOfBounds)
	var accErr *csv.AccessError
	require.ErrorAs(t, err, &accErr)
	assert.Equal(t, 2, accErr.Index)
	assert.Equal(t, 2, accErr.Len)

	names := h.Names()
	names[0] = "changed"
	assert.Equal(t, []string{"id", "name"}, h.Names(), "Names returns a copy")
}

func TestHeader_Nil(t *testing.T) {
	var h *csv.Header
	assert.Equal(t, 0, h.Len())
	assert.Nil(t, h.Names())
	assert.Equal(t, 0, h.Line())
	_, err := h.Index("a")
	assert.ErrorIs(t, err, csv.ErrNoHeader)
	_, err = h.Name(0)
	assert.ErrorIs(t, err, csv.ErrNoHeader)
}

func TestRow(t *testing.T) {
	h, err := csv.NewHeader([]string{"id", "name"}, csv.DuplicateReject)
	require.NoError(t, err)
	row := csv.NewRow([]string{"7", "Ada", "extra"}, 3, h)

	v, err := row.Get(2)
	require.NoError(t, err)
	assert.Equal(t, "extra", v)

	_, err = row.Get(-1)
	assert.ErrorIs(t, err, csv.ErrColumnOutOfBounds)
	assert.EqualError(t, err, "row on line 3: column out of bounds: index -1, row has 3 cells")

	_, err = row.GetByName("email")
	assert.EqualError(t, err, `row on line 3: unknown header name "email"`)

	col, err := row.Column(1)
	require.NoError(t, err)
	assert.Equal(t, "name", col.Name())
	assert.Equal(t, "column 2 (name)", col.String())
	assert.Equal(t, "column 3", col.Next().String(), "beyond the header")

	var cols []string
	for col, cell := range row.All() {
		cols = append(cols, col.Name()+"="+cell)
	}
	assert.Equal(t, []string{"id=7", "name=Ada", "=extra"}, cols)

	cells := row.Cells()
	cells[0] = "changed"
	v, _ = row.Get(0)
	assert.Equal(t, "7", v, "Cells returns a copy")

	node := row.ToAST()
	assert.Equal(t, 3, node.Len())
}
