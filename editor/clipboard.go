package editor

import (
	"strings"

	"github.com/iw2rmb/tessera/model"
)

// Clipboard provides editor-level clipboard integration.
//
// Errors must not crash the UI; failures are ignored.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(s string) error
}

// plainText renders nodes as text: one line per textblock or table row,
// with row cells separated by tabs.
func plainText(n *model.Node) string {
	var lines []string
	n.Content().ForEach(func(child *model.Node, _, _ int) {
		lines = append(lines, blockLines(child)...)
	})
	return strings.Join(lines, "\n")
}

func blockLines(n *model.Node) []string {
	switch n.Role() {
	case model.RoleTable:
		var lines []string
		n.Content().ForEach(func(row *model.Node, _, _ int) {
			lines = append(lines, blockLines(row)...)
		})
		return lines
	case model.RoleRow:
		cells := make([]string, 0, n.ChildCount())
		n.Content().ForEach(func(cell *model.Node, _, _ int) {
			cells = append(cells, strings.Join(blockLines(cell), " "))
		})
		return []string{strings.Join(cells, "\t")}
	}
	if n.IsTextblock() {
		return []string{n.TextContent()}
	}
	if n.IsLeaf() {
		return []string{""}
	}
	var lines []string
	n.Content().ForEach(func(child *model.Node, _, _ int) {
		lines = append(lines, blockLines(child)...)
	})
	return lines
}

// sliceText renders the content of a copied slice like plainText.
func sliceText(slice model.Slice) string {
	var lines []string
	slice.Content.ForEach(func(child *model.Node, _, _ int) {
		if child.IsText() {
			lines = append(lines, child.Text())
			return
		}
		lines = append(lines, blockLines(child)...)
	})
	return strings.Join(lines, "\n")
}

// normalizeNewlines converts external line endings to \n.
func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// tsvSlice turns tab-separated text into a slice holding one table, so
// that the table handlers paste it as cells. It reports false for text
// without tabs.
func tsvSlice(schema *model.Schema, text string) (model.Slice, bool) {
	text = strings.TrimSuffix(normalizeNewlines(text), "\n")
	if !strings.Contains(text, "\t") {
		return model.Slice{}, false
	}
	types := schema.TableTypes()
	block := schema.DefaultTextblock()
	var rows []*model.Node
	for _, line := range strings.Split(text, "\n") {
		var cells []*model.Node
		for _, field := range strings.Split(line, "\t") {
			var content []*model.Node
			if field != "" {
				content = append(content, schema.Text(field))
			}
			cells = append(cells, types.Cell.Create(nil, model.FragmentFrom(block.Create(nil, model.FragmentFrom(content...)))))
		}
		rows = append(rows, types.Row.Create(nil, model.FragmentFrom(cells...)))
	}
	table := types.Table.Create(nil, model.FragmentFrom(rows...))
	return model.NewSlice(model.FragmentFrom(table), 0, 0), true
}
