package extract

import (
	"strings"

	"github.com/olekukonko/tablewriter"
)

// renderTable lays rows out as aligned plain-text columns:
//
//	City   | Price
//	-------+-----------
//	Lekki  | 50,000,000
//
// Short rows are padded with empty cells; extra cells widen the table.
func renderTable(header []string, rows [][]string) string {
	cols := len(header)
	for _, row := range rows {
		cols = max(cols, len(row))
	}
	if cols == 0 {
		return ""
	}

	var sb strings.Builder
	table := tablewriter.NewWriter(&sb)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderLine(true)
	table.SetCenterSeparator("+")
	table.SetColumnSeparator("|")
	table.SetRowSeparator("-")
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	align := make([]int, cols)
	for i := range align {
		align[i] = tablewriter.ALIGN_LEFT
	}
	table.SetColumnAlignment(align)

	table.SetHeader(cleanRow(header, cols))
	for _, row := range rows {
		table.Append(cleanRow(row, cols))
	}
	table.Render()

	// Without borders tablewriter still indents every line by a two-column margin.
	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	for i, line := range lines {
		if i == 1 {
			line = strings.TrimSuffix(strings.TrimPrefix(line, "--"), "--")
		} else {
			line = strings.TrimPrefix(line, "  ")
		}
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.Join(lines, "\n")
}

// cleanRow pads row to cols cells, each kept on one line.
func cleanRow(row []string, cols int) []string {
	out := make([]string, cols)
	for i := 0; i < cols && i < len(row); i++ {
		out[i] = clean(row[i])
	}
	return out
}

// clean keeps a cell on one line.
func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
