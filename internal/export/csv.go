package export

import "strings"

// SerializeRows quotes every cell, doubling embedded quotes, joins cells
// with commas and rows with newlines. There is no trailing newline.
func SerializeRows(rows []Row) string {
	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, cell := range row {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
			b.WriteByte('"')
		}
	}
	return b.String()
}
