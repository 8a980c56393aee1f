package output

import (
	"fmt"
	"io"
	"strings"
)

// columnGap separates table columns.
const columnGap = "  "

// Table renders left-aligned columns for text output.
type Table struct {
	headers []string
	rows    [][]string
}

// NewTable creates a table. Without headers only rows are rendered.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers}
}

// NewKeyValueTable creates a headerless two-column table for label/value pairs.
func NewKeyValueTable() *Table {
	return NewTable()
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// AddPair adds a label/value row, appending a colon to the label.
func (t *Table) AddPair(label, value string) {
	t.AddRow(label+":", value)
}

// Render writes the table to w. A header row is followed by a dashed rule.
func (t *Table) Render(w io.Writer) error {
	if len(t.headers) == 0 && len(t.rows) == 0 {
		return nil
	}

	widths := t.widths()
	lines := make([]string, 0, len(t.rows)+2)
	if len(t.headers) > 0 {
		lines = append(lines, joinCells(t.headers, widths))
		rule := make([]string, len(widths))
		for i, n := range widths {
			rule[i] = strings.Repeat("-", n)
		}
		lines = append(lines, strings.Join(rule, columnGap))
	}
	for _, row := range t.rows {
		lines = append(lines, joinCells(row, widths))
	}

	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}

// String returns the rendered table.
func (t *Table) String() string {
	var sb strings.Builder
	_ = t.Render(&sb)
	return sb.String()
}

func (t *Table) widths() []int {
	n := len(t.headers)
	for _, row := range t.rows {
		n = max(n, len(row))
	}

	widths := make([]int, n)
	for _, row := range append([][]string{t.headers}, t.rows...) {
		for i, cell := range row {
			widths[i] = max(widths[i], len(cell))
		}
	}
	return widths
}

// joinCells pads cells to widths. Trailing padding is trimmed.
func joinCells(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, width := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		parts[i] = fmt.Sprintf("%-*s", width, cell)
	}
	return strings.TrimRight(strings.Join(parts, columnGap), " ")
}
