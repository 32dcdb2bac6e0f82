// Package export renders document tables as plain text grids.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/iw2rmb/tessera/model"
	"github.com/iw2rmb/tessera/tables"
)

// Grid flattens table into rows of cell text. A first row made only of
// header cells is returned separately. A spanning cell puts its text in
// the top-left grid slot it covers and leaves the others empty.
func Grid(table *model.Node) (header []string, rows [][]string) {
	tm := tables.TableMapFor(table)
	grid := make([][]string, tm.Height)
	for row := range grid {
		grid[row] = make([]string, tm.Width)
	}
	seen := make(map[int]bool, len(tm.Map))
	for i, pos := range tm.Map {
		if seen[pos] {
			continue
		}
		seen[pos] = true
		grid[i/tm.Width][i%tm.Width] = cellText(table.NodeAt(pos))
	}
	if tm.Height > 0 && tables.RowIsHeader(tm, table, 0) {
		return grid[0], grid[1:]
	}
	return nil, grid
}

func cellText(cell *model.Node) string {
	var parts []string
	cell.Descendants(func(n *model.Node, _ int, _ *model.Node, _ int) bool {
		if n.IsTextblock() {
			parts = append(parts, n.TextContent())
			return false
		}
		return true
	})
	return strings.Join(parts, " ")
}

// Table writes table to w as a bordered text grid.
func Table(w io.Writer, table *model.Node) error {
	header, rows := Grid(table)
	tw := tablewriter.NewWriter(w)
	if header != nil {
		cols := make([]any, len(header))
		for i, h := range header {
			cols[i] = h
		}
		tw.Header(cols...)
	}
	for _, row := range rows {
		if err := tw.Append(row); err != nil {
			return fmt.Errorf("export: append row: %w", err)
		}
	}
	if err := tw.Render(); err != nil {
		return fmt.Errorf("export: render: %w", err)
	}
	return nil
}

// String is Table rendered into a string.
func String(table *model.Node) (string, error) {
	var sb strings.Builder
	if err := Table(&sb, table); err != nil {
		return "", err
	}
	return sb.String(), nil
}
