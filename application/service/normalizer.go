package service

import (
	"log/slog"
	"strconv"

	"github.com/startuplens/startuplens/domain/query"
)

// identifierColumns are the result columns recognized as company
// identifiers, in preference order.
var identifierColumns = []string{"id", "company_id"}

// Normalized is the outcome of shaping a raw result table: either an
// ordered deduplicated identifier sequence, or the degraded row-mapping
// form when no identifier column is present.
type Normalized struct {
	companyIDs []int64
	rows       []map[string]any
	degraded   bool
}

// CompanyIDs returns the identifier sequence. Never nil.
func (n Normalized) CompanyIDs() []int64 { return n.companyIDs }

// Rows returns the degraded row mappings, or nil.
func (n Normalized) Rows() []map[string]any { return n.rows }

// Degraded reports whether the result lacked an identifier column.
func (n Normalized) Degraded() bool { return n.degraded }

// Normalizer shapes executor output into the canonical response form.
type Normalizer struct {
	logger *slog.Logger
}

// NewNormalizer creates a Normalizer.
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger}
}

// Normalize extracts the company identifier sequence from the table.
// The identifier column is "id", or "company_id" when "id" is absent.
// Duplicates keep their first occurrence; NULL identifier cells are
// dropped. A table with neither column degrades to row mappings, with
// the shape mismatch logged. An empty table is an empty sequence, not a
// degraded result.
func (n *Normalizer) Normalize(table query.Table) Normalized {
	if table.Empty() {
		return Normalized{companyIDs: []int64{}}
	}

	column := -1
	for _, name := range identifierColumns {
		if idx := table.ColumnIndex(name); idx >= 0 {
			column = idx
			break
		}
	}

	if column < 0 {
		n.logger.Warn("result has no identifier column, returning raw rows", "columns", table.Columns())
		return Normalized{companyIDs: []int64{}, rows: table.RowMaps(), degraded: true}
	}

	seen := make(map[int64]bool)
	ids := []int64{}
	for _, row := range table.Rows() {
		id, ok := coerceID(row[column])
		if !ok {
			continue
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return Normalized{companyIDs: ids}
}

// coerceID converts an identifier cell to int64. NULLs and values that
// are not whole numbers are dropped.
func coerceID(v any) (int64, bool) {
	switch value := v.(type) {
	case int64:
		return value, true
	case int:
		return int64(value), true
	case float64:
		if value != float64(int64(value)) {
			return 0, false
		}
		return int64(value), true
	case string:
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, false
		}
		return id, true
	default:
		return 0, false
	}
}
