package service

import (
	"testing"

	"github.com/startuplens/startuplens/domain/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDeduplicatesFirstOccurrence(t *testing.T) {
	table := query.NewTable([]string{"id"}, [][]any{
		{int64(5)}, {int64(3)}, {int64(5)}, {int64(7)},
	})

	normalized := NewNormalizer(nil).Normalize(table)
	assert.False(t, normalized.Degraded())
	assert.Equal(t, []int64{5, 3, 7}, normalized.CompanyIDs())
}

func TestNormalizeIsIdempotent(t *testing.T) {
	normalizer := NewNormalizer(nil)
	table := query.NewTable([]string{"id"}, [][]any{
		{int64(5)}, {int64(3)}, {int64(5)}, {int64(7)},
	})

	first := normalizer.Normalize(table)

	rows := make([][]any, len(first.CompanyIDs()))
	for i, id := range first.CompanyIDs() {
		rows[i] = []any{id}
	}
	second := normalizer.Normalize(query.NewTable([]string{"id"}, rows))
	assert.Equal(t, first.CompanyIDs(), second.CompanyIDs())
}

func TestNormalizePrefersIDOverCompanyID(t *testing.T) {
	table := query.NewTable([]string{"company_id", "id"}, [][]any{
		{int64(99), int64(1)},
	})

	normalized := NewNormalizer(nil).Normalize(table)
	assert.Equal(t, []int64{1}, normalized.CompanyIDs())
}

func TestNormalizeFallsBackToCompanyID(t *testing.T) {
	table := query.NewTable([]string{"company_id", "name"}, [][]any{
		{int64(4), "Acme"},
		{int64(4), "Acme"},
		{int64(9), "Globex"},
	})

	normalized := NewNormalizer(nil).Normalize(table)
	assert.Equal(t, []int64{4, 9}, normalized.CompanyIDs())
}

func TestNormalizeEmptyTableIsEmptySequence(t *testing.T) {
	normalized := NewNormalizer(nil).Normalize(query.NewTable([]string{"id"}, nil))
	assert.False(t, normalized.Degraded())
	assert.NotNil(t, normalized.CompanyIDs())
	assert.Empty(t, normalized.CompanyIDs())
}

func TestNormalizeDegradesWithoutIdentifierColumn(t *testing.T) {
	table := query.NewTable([]string{"name", "city"}, [][]any{
		{"Acme", "San Francisco"},
		{"Globex", nil},
	})

	normalized := NewNormalizer(nil).Normalize(table)
	require.True(t, normalized.Degraded())
	assert.Empty(t, normalized.CompanyIDs())
	require.Len(t, normalized.Rows(), 2)
	assert.Equal(t, "Acme", normalized.Rows()[0]["name"])

	// NULL cells stay present as explicit nils.
	city, present := normalized.Rows()[1]["city"]
	assert.True(t, present)
	assert.Nil(t, city)
}

func TestNormalizeDropsNullAndNonNumericIdentifiers(t *testing.T) {
	table := query.NewTable([]string{"id"}, [][]any{
		{int64(1)}, {nil}, {"2"}, {"abc"}, {float64(3)}, {float64(3.5)},
	})

	normalized := NewNormalizer(nil).Normalize(table)
	assert.Equal(t, []int64{1, 2, 3}, normalized.CompanyIDs())
}
