package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDatabaseSQLiteMemory(t *testing.T) {
	ctx := context.Background()

	db, err := NewDatabase(ctx, "sqlite:///:memory:")
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	assert.True(t, db.IsSQLite())

	var one int
	err = db.Session(ctx).Raw("SELECT 1").Scan(&one).Error
	require.NoError(t, err)
	assert.Equal(t, 1, one)
}

func TestNewDatabaseUnsupportedDriver(t *testing.T) {
	_, err := NewDatabase(context.Background(), "mysql://localhost/db")
	require.ErrorIs(t, err, ErrUnsupportedDriver)
}
