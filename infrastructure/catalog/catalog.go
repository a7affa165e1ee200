// Package catalog extracts structural metadata from the relational store.
// The extracted definitions are the ground truth for which identifiers and
// joins a translation may legally use.
package catalog

import (
	"context"
	"fmt"

	"github.com/startuplens/startuplens/domain/corpus"
	"github.com/startuplens/startuplens/domain/query"
	"github.com/startuplens/startuplens/internal/database"
)

// Definition is one structural element of the relational store.
type Definition struct {
	name string
	kind string
	ddl  string
}

// Name returns the element name.
func (d Definition) Name() string { return d.name }

// Kind returns the element kind (table, view, or index).
func (d Definition) Kind() string { return d.kind }

// DDL returns the literal defining statement.
func (d Definition) DDL() string { return d.ddl }

// Item converts the definition to a corpus schema fact.
func (d Definition) Item() corpus.Item {
	return corpus.NewSchemaFact(d.ddl)
}

// Catalog reads schema definitions from the relational store.
type Catalog struct {
	db database.Database
}

// NewCatalog creates a Catalog over the given store.
func NewCatalog(db database.Database) Catalog {
	return Catalog{db: db}
}

type masterRow struct {
	Type string
	Name string
	SQL  string `gorm:"column:sql"`
}

// ExtractSchema returns one Definition per user-defined structural element.
// Engine-internal elements (sqlite_ prefix) are excluded. A store with
// zero user tables is a configuration error, not an empty success.
func (c Catalog) ExtractSchema(ctx context.Context) ([]Definition, error) {
	if !c.db.IsSQLite() {
		return nil, fmt.Errorf("%w: schema extraction supports sqlite stores only", query.ErrDataAccess)
	}

	var rows []masterRow
	err := c.db.Session(ctx).Raw(
		`SELECT type, name, sql FROM sqlite_master
		 WHERE sql IS NOT NULL AND name NOT LIKE 'sqlite\_%' ESCAPE '\'
		 ORDER BY rowid`,
	).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: read sqlite_master: %v", query.ErrDataAccess, err)
	}

	definitions := make([]Definition, 0, len(rows))
	hasTable := false
	for _, row := range rows {
		if row.Type == "table" {
			hasTable = true
		}
		definitions = append(definitions, Definition{
			name: row.Name,
			kind: row.Type,
			ddl:  row.SQL,
		})
	}

	if !hasTable {
		return nil, fmt.Errorf("%w: relational store has no user tables", query.ErrDataAccess)
	}

	return definitions, nil
}
