package display

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shamank/spheron-storage-go/pkg/model"
)

// Column widths of the key/value table, padding included.
const (
	KeyColumnWidth   = 30
	ValueColumnWidth = 110
)

// Table prints fields as a two-column Key/Value table.
func (p *Printer) Table(fields model.Fields) {
	fmt.Fprintln(p.out, p.RenderTable(fields))
}

// RenderTable renders one row per field, in the order given. Long values
// wrap inside their column.
func (p *Printer) RenderTable(fields model.Fields) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(p.styles.Border).
		Headers("Key", "Value").
		StyleFunc(func(row, col int) lipgloss.Style {
			var s lipgloss.Style
			if row == table.HeaderRow {
				s = p.styles.TableHeader
			} else {
				s = p.styles.TableCell
			}
			if col == 0 {
				return s.Width(KeyColumnWidth)
			}
			return s.Width(ValueColumnWidth)
		})

	for _, f := range fields {
		t.Row(f.Key, f.Value)
	}
	return t.String()
}
