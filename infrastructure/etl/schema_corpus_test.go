package etl

import (
	"context"
	"testing"

	"github.com/startuplens/startuplens/domain/corpus"
	"github.com/startuplens/startuplens/internal/testdb"
	"github.com/stretchr/testify/require"
)

// The embedded corpus definition is versioned against the relational
// schema. Every exemplar must be executable against a freshly created
// schema, otherwise the few-shot examples teach the model invalid SQL.
func TestEmbeddedExemplarsExecuteAgainstSchema(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	require.NoError(t, CreateSchema(ctx, db))

	for _, exemplar := range corpus.DefaultDefinition().Exemplars() {
		rows, err := db.Session(ctx).Raw(exemplar.SQL()).Rows()
		require.NoError(t, err, "exemplar %q", exemplar.Question())
		require.NoError(t, rows.Err())
		require.NoError(t, rows.Close())
	}
}
