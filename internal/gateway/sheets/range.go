package sheets

import (
	"fmt"
	"strings"
)

// Range is a rectangular block of cells. Columns are zero-based offsets,
// rows are 1-based sheet rows; ToRow == 0 leaves the range open downwards.
type Range struct {
	Sheet   string
	FromCol int
	ToCol   int
	FromRow int
	ToRow   int
}

// Cell addresses a single cell.
func Cell(sheet string, col, row int) Range {
	return Range{Sheet: sheet, FromCol: col, ToCol: col, FromRow: row, ToRow: row}
}

// Columns addresses [fromCol, toCol] from fromRow to the end of the sheet.
func Columns(sheet string, fromCol, toCol, fromRow int) Range {
	return Range{Sheet: sheet, FromCol: fromCol, ToCol: toCol, FromRow: fromRow}
}

// Row addresses [fromCol, toCol] on a single row.
func Row(sheet string, fromCol, toCol, row int) Range {
	return Range{Sheet: sheet, FromCol: fromCol, ToCol: toCol, FromRow: row, ToRow: row}
}

// CellUpdate is one block written by a batch update.
type CellUpdate struct {
	Range  Range
	Values [][]string
}

// A1 renders the range in A1 notation, e.g. Hoja1!A2:AD or 'My sheet'!AC7.
func (r Range) A1() string {
	from := fmt.Sprintf("%s%d", ColumnLetter(r.FromCol), r.FromRow)
	var to string
	switch {
	case r.ToRow == 0:
		to = ColumnLetter(r.ToCol)
	case r.ToRow == r.FromRow && r.ToCol == r.FromCol:
		return quoteSheet(r.Sheet) + "!" + from
	default:
		to = fmt.Sprintf("%s%d", ColumnLetter(r.ToCol), r.ToRow)
	}
	return quoteSheet(r.Sheet) + "!" + from + ":" + to
}

func (r Range) String() string { return r.A1() }

// ColumnLetter converts a zero-based offset to a column name: 0 -> A, 26 -> AA.
func ColumnLetter(offset int) string {
	if offset < 0 {
		return ""
	}
	var b []byte
	for n := offset + 1; n > 0; n = (n - 1) / 26 {
		b = append([]byte{byte('A' + (n-1)%26)}, b...)
	}
	return string(b)
}

func quoteSheet(name string) string {
	plain := name != ""
	for _, r := range name {
		if !(r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			plain = false
			break
		}
	}
	if plain {
		return name
	}
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
