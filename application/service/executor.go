package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/startuplens/startuplens/domain/query"
	"github.com/startuplens/startuplens/internal/database"
)

// readOnlyKeywords are the statement-leading keywords the executor will
// run. Everything else is rejected before touching the engine.
var readOnlyKeywords = map[string]bool{
	"select":  true,
	"with":    true,
	"pragma":  true,
	"explain": true,
}

// Executor runs translated statements against the relational store under
// a per-statement timeout. It enforces the read-only contract.
type Executor struct {
	db      database.Database
	timeout time.Duration
}

// NewExecutor creates an Executor with the given statement timeout.
func NewExecutor(db database.Database, timeout time.Duration) *Executor {
	return &Executor{db: db, timeout: timeout}
}

// Execute runs the statement and materializes the full result set.
// Non-read and stacked statements are ErrWriteRejected; engine failures,
// including statements that reference unknown identifiers, are
// ErrDataAccess.
func (e *Executor) Execute(ctx context.Context, sql string) (query.Table, error) {
	if err := checkReadOnly(sql); err != nil {
		return query.Table{}, err
	}
	if err := checkSingleStatement(sql); err != nil {
		return query.Table{}, err
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	rows, err := e.db.Session(ctx).Raw(sql).Rows()
	if err != nil {
		return query.Table{}, fmt.Errorf("%w: %v", query.ErrDataAccess, err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return query.Table{}, fmt.Errorf("%w: read columns: %v", query.ErrDataAccess, err)
	}

	var result [][]any
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return query.Table{}, fmt.Errorf("%w: scan row: %v", query.ErrDataAccess, err)
		}
		for i, v := range values {
			values[i] = normalizeCell(v)
		}
		result = append(result, values)
	}
	if err := rows.Err(); err != nil {
		return query.Table{}, fmt.Errorf("%w: %v", query.ErrDataAccess, err)
	}

	return query.NewTable(columns, result), nil
}

// checkReadOnly gates on the first keyword of the statement. The gate is
// deliberately coarse: it exists to refuse obvious writes early with a
// clear error, while the engine remains the authority on validity.
func checkReadOnly(sql string) error {
	trimmed := strings.TrimSpace(sql)
	if trimmed == "" {
		return fmt.Errorf("%w: empty statement", query.ErrTranslation)
	}

	fields := strings.FieldsFunc(trimmed, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '(' || r == ';'
	})
	if len(fields) == 0 {
		return fmt.Errorf("%w: empty statement", query.ErrTranslation)
	}

	first := strings.ToLower(fields[0])
	if !readOnlyKeywords[first] {
		return fmt.Errorf("%w: statement must start with SELECT, got %q", query.ErrWriteRejected, first)
	}
	return nil
}

// checkSingleStatement rejects stacked statements. The sqlite driver
// executes everything it is handed, so a read statement with a write
// stacked after a semicolon would slip past the keyword gate. Semicolons
// inside quoted literals and identifiers do not terminate a statement.
func checkSingleStatement(sql string) error {
	var quote rune
	runes := []rune(sql)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case quote != 0:
			if r == quote {
				// A doubled quote is an escape, not a terminator.
				if i+1 < len(runes) && runes[i+1] == quote {
					i++
					continue
				}
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == ';':
			if strings.TrimSpace(string(runes[i+1:])) != "" {
				return fmt.Errorf("%w: multiple statements are not allowed", query.ErrWriteRejected)
			}
			return nil
		}
	}
	return nil
}

// normalizeCell converts driver-specific values to plain JSON-safe Go
// values: byte slices become strings, non-finite floats become nil.
func normalizeCell(v any) any {
	switch value := v.(type) {
	case []byte:
		return string(value)
	case float64:
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return nil
		}
		return value
	default:
		return v
	}
}
