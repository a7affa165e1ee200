package corpus

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemHashStableAcrossEquivalentItems(t *testing.T) {
	a := NewExemplar("companies in Boston", "SELECT id FROM companies WHERE city = 'Boston';")
	b := NewExemplar("companies in Boston", "SELECT id FROM companies WHERE city = 'Boston';")
	c := NewExemplar("companies in Boston", "SELECT id FROM companies WHERE city = 'Berlin';")

	assert.Equal(t, a.Hash(), b.Hash())
	assert.NotEqual(t, a.Hash(), c.Hash())
}

func TestItemHashDistinguishesKinds(t *testing.T) {
	doc := NewDocumentation("some text")
	ddl := NewSchemaFact("some text")

	assert.NotEqual(t, doc.Hash(), ddl.Hash())
}

func TestExemplarEmbeddingTextIsQuestion(t *testing.T) {
	ex := NewExemplar("companies in Boston", "SELECT id FROM companies WHERE city = 'Boston';")
	assert.Equal(t, "companies in Boston", ex.EmbeddingText())

	doc := NewDocumentation("join path rule")
	assert.Equal(t, "join path rule", doc.EmbeddingText())
}

func TestParseDefinition(t *testing.T) {
	data := []byte(`
version: 2
documentation:
  - first passage
exemplars:
  - question: companies in Boston
    sql: SELECT id FROM companies WHERE city = 'Boston';
`)
	def, err := ParseDefinition(data)
	require.NoError(t, err)

	assert.Equal(t, 2, def.Version())
	assert.Equal(t, []string{"first passage"}, def.Documentation())
	require.Len(t, def.Exemplars(), 1)
	assert.Equal(t, "companies in Boston", def.Exemplars()[0].Question())

	items := def.Items()
	require.Len(t, items, 2)
	assert.Equal(t, KindDocumentation, items[0].Kind())
	assert.Equal(t, KindExemplar, items[1].Kind())
}

func TestParseDefinitionRejectsIncompleteExemplar(t *testing.T) {
	data := []byte(`
exemplars:
  - question: missing sql
`)
	_, err := ParseDefinition(data)
	require.Error(t, err)
}

func TestDefaultDefinitionIsValid(t *testing.T) {
	def := DefaultDefinition()

	assert.NotEmpty(t, def.Documentation())
	assert.NotEmpty(t, def.Exemplars())

	// Every multi-table exemplar must traverse the bridge table rather
	// than joining a founder detail table straight to companies.
	for _, ex := range def.Exemplars() {
		sql := ex.SQL()
		if strings.Contains(sql, "founder_experience") ||
			strings.Contains(sql, "founder_education") ||
			strings.Contains(sql, "founder_skills") {
			assert.Contains(t, sql, "company_founders", "exemplar %q skips the bridge table", ex.Question())
			assert.Contains(t, sql, "cf.founder_id", "exemplar %q joins on the wrong column", ex.Question())
		}
	}
}

func TestDefaultDefinitionExemplarsSelectCompanyIDs(t *testing.T) {
	for _, ex := range DefaultDefinition().Exemplars() {
		upper := strings.ToUpper(ex.SQL())
		assert.True(t, strings.HasPrefix(upper, "SELECT ID") || strings.HasPrefix(upper, "SELECT DISTINCT C.ID"),
			"exemplar %q does not select the company identifier column: %s", ex.Question(), ex.SQL())
		assert.NotContains(t, upper, "SELECT *")
	}
}
