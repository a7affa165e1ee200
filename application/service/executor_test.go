package service

import (
	"context"
	"testing"
	"time"

	"github.com/startuplens/startuplens/domain/query"
	"github.com/startuplens/startuplens/internal/database"
	"github.com/startuplens/startuplens/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func companiesDB(t *testing.T) database.Database {
	t.Helper()
	return testdb.WithSchema(t,
		`CREATE TABLE companies (id INTEGER PRIMARY KEY, name TEXT, city TEXT, team_size INTEGER)`,
		`INSERT INTO companies VALUES (1, 'Acme', 'San Francisco', 12)`,
		`INSERT INTO companies VALUES (2, 'Globex', 'Boston', NULL)`,
	)
}

func TestExecuteSelect(t *testing.T) {
	executor := NewExecutor(companiesDB(t), time.Second)

	table, err := executor.Execute(context.Background(), `SELECT id, name FROM companies ORDER BY id`)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, table.Columns())
	require.Equal(t, 2, table.Len())
	assert.Equal(t, int64(1), table.Rows()[0][0])
	assert.Equal(t, "Acme", table.Rows()[0][1])
}

func TestExecuteEmptyResultIsNotAnError(t *testing.T) {
	executor := NewExecutor(companiesDB(t), time.Second)

	table, err := executor.Execute(context.Background(), `SELECT id FROM companies WHERE city = 'Nowhere'`)
	require.NoError(t, err)
	assert.True(t, table.Empty())
}

func TestExecutePreservesNulls(t *testing.T) {
	executor := NewExecutor(companiesDB(t), time.Second)

	table, err := executor.Execute(context.Background(), `SELECT id, team_size FROM companies WHERE id = 2`)
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Nil(t, table.Rows()[0][1])

	maps := table.RowMaps()
	value, present := maps[0]["team_size"]
	assert.True(t, present)
	assert.Nil(t, value)
}

func TestExecuteRejectsWrites(t *testing.T) {
	executor := NewExecutor(companiesDB(t), time.Second)

	for _, sql := range []string{
		`INSERT INTO companies VALUES (3, 'Evil', 'X', 1)`,
		`UPDATE companies SET name = 'x'`,
		`DELETE FROM companies`,
		`DROP TABLE companies`,
		`  drop table companies`,
	} {
		_, err := executor.Execute(context.Background(), sql)
		assert.ErrorIs(t, err, query.ErrWriteRejected, "sql: %q", sql)
	}

	// The gate must not have let anything through.
	table, err := executor.Execute(context.Background(), `SELECT COUNT(*) AS n FROM companies`)
	require.NoError(t, err)
	assert.Equal(t, int64(2), table.Rows()[0][0])
}

func TestExecuteRejectsStackedStatements(t *testing.T) {
	executor := NewExecutor(companiesDB(t), time.Second)

	for _, sql := range []string{
		`SELECT id FROM companies; DROP TABLE companies;`,
		`SELECT id FROM companies;DELETE FROM companies`,
		`;; SELECT id FROM companies`,
	} {
		_, err := executor.Execute(context.Background(), sql)
		assert.ErrorIs(t, err, query.ErrWriteRejected, "sql: %q", sql)
	}

	// The stacked write must not have executed.
	table, err := executor.Execute(context.Background(), `SELECT COUNT(*) AS n FROM companies`)
	require.NoError(t, err)
	assert.Equal(t, int64(2), table.Rows()[0][0])
}

func TestExecuteAllowsSemicolonsInLiterals(t *testing.T) {
	executor := NewExecutor(companiesDB(t), time.Second)

	for _, sql := range []string{
		`SELECT id FROM companies WHERE name = 'a;b'`,
		`SELECT id FROM companies WHERE name = 'it''s; fine';`,
		`SELECT id FROM companies;`,
		"SELECT id FROM companies;\n  ",
	} {
		_, err := executor.Execute(context.Background(), sql)
		assert.NoError(t, err, "sql: %q", sql)
	}
}

func TestExecuteEmptyStatementIsTranslationError(t *testing.T) {
	executor := NewExecutor(companiesDB(t), time.Second)

	for _, sql := range []string{``, `   `, ";;"} {
		_, err := executor.Execute(context.Background(), sql)
		assert.ErrorIs(t, err, query.ErrTranslation, "sql: %q", sql)
	}
}

func TestExecuteAllowsReadKeywords(t *testing.T) {
	executor := NewExecutor(companiesDB(t), time.Second)

	for _, sql := range []string{
		`SELECT 1`,
		`WITH x AS (SELECT 1 AS v) SELECT v FROM x`,
		`EXPLAIN SELECT 1`,
	} {
		_, err := executor.Execute(context.Background(), sql)
		assert.NoError(t, err, "sql: %q", sql)
	}
}

func TestExecuteUnknownIdentifierIsDataAccessError(t *testing.T) {
	executor := NewExecutor(companiesDB(t), time.Second)

	_, err := executor.Execute(context.Background(), `SELECT id FROM no_such_table`)
	require.ErrorIs(t, err, query.ErrDataAccess)
}
