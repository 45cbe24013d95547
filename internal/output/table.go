package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/rodaine/table"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)

// RenderTable writes rows as an aligned table.
// Cells are cut to the column width; styled adds emphasis to the header row.
func RenderTable(w io.Writer, columns []Column, rows []map[string]string, styled bool) {
	if len(rows) == 0 {
		return
	}

	headers := make([]any, len(columns))
	for i, col := range columns {
		headers[i] = col.Name
	}

	tbl := table.New(headers...).WithWriter(w)
	if styled {
		tbl = tbl.WithHeaderFormatter(func(format string, vals ...any) string {
			return headerStyle.Render(fmt.Sprintf(format, vals...))
		})
	}

	for _, row := range rows {
		cells := make([]any, len(columns))
		for i, col := range columns {
			cells[i] = TruncateString(row[col.Key], col.Width)
		}
		tbl.AddRow(cells...)
	}

	tbl.Print()
}

// TruncateString shortens s to maxLen runes, ending in "..." when there is room.
// maxLen <= 0 leaves s untouched.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}

	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
