// Package query defines the query pipeline's value types and error taxonomy.
package query

// Table is an ephemeral tabular result set. Row order is preserved exactly
// as produced by the executor until normalization applies its own
// ordering and deduplication rules.
type Table struct {
	columns []string
	rows    [][]any
}

// NewTable creates a Table from column names and rows. Each row must have
// one value per column.
func NewTable(columns []string, rows [][]any) Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	copied := make([][]any, len(rows))
	for i, row := range rows {
		copied[i] = make([]any, len(row))
		copy(copied[i], row)
	}
	return Table{columns: cols, rows: copied}
}

// Columns returns the column names in result order.
func (t Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Rows returns the rows in result order.
func (t Table) Rows() [][]any {
	out := make([][]any, len(t.rows))
	for i, row := range t.rows {
		out[i] = make([]any, len(row))
		copy(out[i], row)
	}
	return out
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.rows) }

// Empty reports whether the table has no rows.
func (t Table) Empty() bool { return len(t.rows) == 0 }

// ColumnIndex returns the index of the named column, or -1 if absent.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.columns {
		if c == name {
			return i
		}
	}
	return -1
}

// RowMaps returns the rows as column→value mappings. Missing and NULL
// cells are carried as explicit nils, never omitted.
func (t Table) RowMaps() []map[string]any {
	out := make([]map[string]any, len(t.rows))
	for i, row := range t.rows {
		m := make(map[string]any, len(t.columns))
		for j, col := range t.columns {
			if j < len(row) {
				m[col] = row[j]
			} else {
				m[col] = nil
			}
		}
		out[i] = m
	}
	return out
}
