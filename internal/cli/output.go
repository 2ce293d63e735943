package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shapestone/shape-csvtok/pkg/csv"
)

const cellSeparator = " | "

// writeText prints every row as its line number followed by its cells.
// Cells that would be ambiguous in this layout are Go-quoted.
func writeText(w io.Writer, results []csv.Result, st *styles) error {
	for i, res := range results {
		if len(results) > 1 {
			if i > 0 {
				if _, err := fmt.Fprintln(w); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintln(w, st.File.Render(res.Name)); err != nil {
				return err
			}
		}
		if res.Err != nil {
			if _, err := fmt.Fprintln(w, st.Error.Render("error: "+res.Err.Error())); err != nil {
				return err
			}
			continue
		}

		if res.Header != nil {
			names := make([]string, res.Header.Len())
			for j, name := range res.Header.Names() {
				names[j] = st.Header.Render(displayCell(name))
			}
			if err := writeLine(w, st, res.Header.Line(), names); err != nil {
				return err
			}
		}
		for _, row := range res.Rows {
			cells := row.Cells()
			for j, cell := range cells {
				cells[j] = displayCell(cell)
			}
			if err := writeLine(w, st, row.Line(), cells); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeLine(w io.Writer, st *styles, line int, cells []string) error {
	_, err := fmt.Fprintf(w, "%s  %s\n",
		st.Line.Render(fmt.Sprintf("%4d", line)),
		strings.Join(cells, st.Sep.Render(cellSeparator)))
	return err
}

// displayCell quotes cells that are empty, contain line breaks or the
// separator, or carry surrounding whitespace.
func displayCell(cell string) string {
	if cell == "" ||
		strings.ContainsAny(cell, "\r\n\t") ||
		strings.Contains(cell, cellSeparator) ||
		strings.TrimSpace(cell) != cell {
		return strconv.Quote(cell)
	}
	return cell
}

type yamlRow struct {
	Line  int      `yaml:"line"`
	Cells []string `yaml:"cells,flow"`
}

type yamlResult struct {
	Input  string    `yaml:"input"`
	Header []string  `yaml:"header,omitempty,flow"`
	Rows   []yamlRow `yaml:"rows,omitempty"`
	Error  string    `yaml:"error,omitempty"`
}

// writeYAML prints results as a YAML sequence, one document entry per input.
func writeYAML(w io.Writer, results []csv.Result) error {
	docs := make([]yamlResult, len(results))
	for i, res := range results {
		docs[i] = yamlResult{Input: res.Name, Header: res.Header.Names()}
		if res.Err != nil {
			docs[i].Error = res.Err.Error()
			continue
		}
		docs[i].Rows = make([]yamlRow, len(res.Rows))
		for j, row := range res.Rows {
			docs[i].Rows[j] = yamlRow{Line: row.Line(), Cells: row.Cells()}
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(docs); err != nil {
		return err
	}
	return enc.Close()
}
