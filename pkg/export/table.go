// Package export renders tabular data into downloadable formats.
package export

import "fmt"

// Table is the exportable form of a dataset. Every row carries one cell
// per column.
type Table struct {
	Title   string
	Columns []string
	Rows    [][]string
}

// Validate checks the table shape.
func (t Table) Validate() error {
	if len(t.Columns) == 0 {
		return fmt.Errorf("table requires at least one column")
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(t.Columns))
		}
	}
	return nil
}
