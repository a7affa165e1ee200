package service

import (
	"context"
	"testing"

	"github.com/startuplens/startuplens/domain/corpus"
	"github.com/startuplens/startuplens/domain/query"
	"github.com/startuplens/startuplens/infrastructure/catalog"
	"github.com/startuplens/startuplens/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDefinition(t *testing.T) corpus.Definition {
	t.Helper()
	def, err := corpus.ParseDefinition([]byte(`
version: 1
documentation:
  - "Company results must select only company ids."
exemplars:
  - question: "companies in San Francisco"
    sql: "SELECT id FROM companies WHERE city = 'San Francisco';"
`))
	require.NoError(t, err)
	return def
}

func TestRebuildIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := testdb.WithSchema(t,
		`CREATE TABLE companies (id INTEGER PRIMARY KEY, city TEXT)`,
		`CREATE TABLE founders (profileId INTEGER PRIMARY KEY)`,
	)
	store := &fakeStore{}
	trainer := NewTrainer(catalog.NewCatalog(db), store, testDefinition(t), nil)

	report, err := trainer.Rebuild(ctx)
	require.NoError(t, err)
	// 2 schema facts + 1 documentation + 1 exemplar.
	assert.Equal(t, int64(4), report.ItemsTrained())

	again, err := trainer.Rebuild(ctx)
	require.NoError(t, err)
	assert.Equal(t, report.ItemsTrained(), again.ItemsTrained())
}

func TestRebuildRequiresUserTables(t *testing.T) {
	trainer := NewTrainer(catalog.NewCatalog(testdb.New(t)), &fakeStore{}, testDefinition(t), nil)

	_, err := trainer.Rebuild(context.Background())
	require.ErrorIs(t, err, query.ErrDataAccess)
}

func TestRebuildRefusesConcurrentRun(t *testing.T) {
	db := testdb.WithSchema(t, `CREATE TABLE companies (id INTEGER PRIMARY KEY)`)
	trainer := NewTrainer(catalog.NewCatalog(db), &fakeStore{}, testDefinition(t), nil)

	trainer.mu.Lock()
	defer trainer.mu.Unlock()

	_, err := trainer.Rebuild(context.Background())
	require.ErrorIs(t, err, ErrTrainingInProgress)
}

func TestStatusReportsCorpusSize(t *testing.T) {
	ctx := context.Background()
	db := testdb.WithSchema(t, `CREATE TABLE companies (id INTEGER PRIMARY KEY)`)
	store := &fakeStore{}
	trainer := NewTrainer(catalog.NewCatalog(db), store, testDefinition(t), nil)

	count, err := trainer.Status(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = trainer.Rebuild(ctx)
	require.NoError(t, err)

	count, err = trainer.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
