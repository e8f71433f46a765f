// Package sheet reconstructs a typed table from the measurement workbook.
// The source file carries a placeholder header row; the real Macedonian
// column labels live in the first data row and are promoted on load.
package sheet

import (
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"radiosignals/internal/normalize"
)

// Table is the rebuilt sheet: canonical header labels plus normalized cell
// rows aligned to those labels.
type Table struct {
	Headers []string
	Rows    [][]string

	index map[string]int
}

// Load opens an xlsx workbook and rebuilds sheet 0 into a Table.
func Load(path string, logger *slog.Logger) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	grid, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(grid) < 2 {
		return nil, fmt.Errorf("sheet %q has no data rows", sheets[0])
	}

	if logger != nil {
		logger.Info("workbook loaded",
			slog.String("sheet", sheets[0]),
			slog.Int("raw_rows", len(grid)))
	}

	// grid[0] is the degraded placeholder header; the true labels are the
	// first data row.
	return Rebuild(grid[1:])
}

// Rebuild promotes row 0 of an untyped grid to column labels, drops columns
// whose label is blank, and normalizes every header and cell.
func Rebuild(grid [][]string) (*Table, error) {
	if len(grid) == 0 {
		return nil, fmt.Errorf("empty grid")
	}

	header := grid[0]
	keep := make([]int, 0, len(header))
	labels := make([]string, 0, len(header))
	for i, h := range header {
		h = normalize.Text(h)
		if h == "" {
			continue
		}
		keep = append(keep, i)
		labels = append(labels, h)
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("header row has no labeled columns")
	}

	t := &Table{
		Headers: labels,
		index:   make(map[string]int, len(labels)),
	}
	for pos, label := range labels {
		// First occurrence wins; the coordinate block repeats labels.
		if _, dup := t.index[label]; !dup {
			t.index[label] = pos
		}
	}

	for _, row := range grid[1:] {
		cells := make([]string, len(keep))
		for pos, src := range keep {
			if src < len(row) {
				cells[pos] = normalize.Text(row[src])
			}
		}
		t.Rows = append(t.Rows, cells)
	}
	return t, nil
}

// Column returns the position of the named column.
func (t *Table) Column(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// ColumnAny returns the position of the first name that resolves. Used for
// headers with known encoding variants, such as the micro sign in the
// field-strength label.
func (t *Table) ColumnAny(names ...string) (int, bool) {
	for _, n := range names {
		if i, ok := t.index[n]; ok {
			return i, ok
		}
	}
	return 0, false
}

// Cell returns the normalized cell at (row, col), or "" when the row is
// ragged.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	cells := t.Rows[row]
	if col < 0 || col >= len(cells) {
		return ""
	}
	return cells[col]
}

// Span returns the cells of one row between columns [start, end).
func (t *Table) Span(row, start, end int) []string {
	if row < 0 || row >= len(t.Rows) || start < 0 || end <= start {
		return nil
	}
	cells := t.Rows[row]
	if start >= len(cells) {
		return nil
	}
	if end > len(cells) {
		end = len(cells)
	}
	return cells[start:end]
}
