package csv

import (
	"fmt"

	"github.com/shapestone/shape-core/pkg/ast"
)

// NodeToRecords converts a document AST, as returned by ParseAST or
// Reader.ReadAST, back into cell slices.
//
// Example:
//
//	node, _ := csv.ParseAST("name,age\nAlice,30\n", csv.DefaultDialect())
//	records, _ := csv.NodeToRecords(node)
//	// records is [][]string{{"name","age"}, {"Alice","30"}}
func NodeToRecords(node ast.SchemaNode) ([][]string, error) {
	doc, ok := node.(*ast.ArrayDataNode)
	if !ok {
		return nil, fmt.Errorf("expected document array node, got %T", node)
	}

	records := make([][]string, 0, doc.Len())
	for i, elem := range doc.Elements() {
		record, ok := elem.(*ast.ArrayDataNode)
		if !ok {
			return nil, fmt.Errorf("record %d: expected array node, got %T", i, elem)
		}
		cells, err := recordCells(record)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, cells)
	}
	return records, nil
}

func recordCells(record *ast.ArrayDataNode) ([]string, error) {
	cells := make([]string, 0, record.Len())
	for j, elem := range record.Elements() {
		lit, ok := elem.(*ast.LiteralNode)
		if !ok {
			return nil, fmt.Errorf("field %d: expected literal node, got %T", j, elem)
		}
		if s, ok := lit.Value().(string); ok {
			cells = append(cells, s)
		} else {
			cells = append(cells, fmt.Sprintf("%v", lit.Value()))
		}
	}
	return cells, nil
}

// RecordsToNode builds a document AST from cell slices. Positions are
// zero since the records did not come from a source.
func RecordsToNode(records [][]string) *ast.ArrayDataNode {
	pos := ast.ZeroPosition()
	elems := make([]ast.SchemaNode, len(records))
	for i, record := range records {
		fields := make([]ast.SchemaNode, len(record))
		for j, cell := range record {
			fields[j] = ast.NewLiteralNode(cell, pos)
		}
		elems[i] = ast.NewArrayDataNode(fields, pos)
	}
	return ast.NewArrayDataNode(elems, pos)
}
