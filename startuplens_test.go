package startuplens_test

import (
	"context"
	"crypto/sha256"
	"testing"

	"github.com/startuplens/startuplens"
	"github.com/startuplens/startuplens/infrastructure/etl"
	"github.com/startuplens/startuplens/infrastructure/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// deterministicEmbedder maps identical texts to identical vectors, so
// exact question matches retrieve their exemplars with similarity 1.
type deterministicEmbedder struct{}

func (deterministicEmbedder) Embed(_ context.Context, req provider.EmbeddingRequest) (provider.EmbeddingResponse, error) {
	texts := req.Texts()
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		sum := sha256.Sum256([]byte(text))
		vec := make([]float64, 8)
		for j := range vec {
			vec[j] = float64(sum[j]) + 1
		}
		vectors[i] = vec
	}
	return provider.NewEmbeddingResponse(vectors, provider.Usage{}), nil
}

// echoExemplarGenerator answers with the SQL of the first few-shot
// exemplar whose question matches the live question, simulating a model
// that follows its examples exactly.
type echoExemplarGenerator struct{}

func (echoExemplarGenerator) ChatCompletion(_ context.Context, req provider.ChatCompletionRequest) (provider.ChatCompletionResponse, error) {
	messages := req.Messages()
	question := messages[len(messages)-1].Content()
	for i := 0; i+1 < len(messages); i++ {
		if messages[i].Role() == "user" && messages[i].Content() == question {
			return provider.NewChatCompletionResponse(messages[i+1].Content(), "stop", provider.Usage{}), nil
		}
	}
	return provider.NewChatCompletionResponse("SELECT id FROM companies;", "stop", provider.Usage{}), nil
}

func newTestClient(t *testing.T) *startuplens.Client {
	t.Helper()
	client, err := startuplens.New(
		startuplens.WithDBURL("sqlite:///:memory:"),
		startuplens.WithCorpusURL("sqlite:///:memory:"),
		startuplens.WithTextGenerator(echoExemplarGenerator{}),
		startuplens.WithEmbedder(deterministicEmbedder{}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestClientRequiresProvider(t *testing.T) {
	_, err := startuplens.New(startuplens.WithDBURL("sqlite:///:memory:"))
	require.ErrorIs(t, err, startuplens.ErrNoProvider)
}

func TestClientEndToEnd(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	require.NoError(t, etl.CreateSchema(ctx, client.DB()))
	session := client.DB().Session(ctx)
	for _, stmt := range []string{
		`INSERT INTO companies (id, name, city) VALUES (1, 'Acme', 'San Francisco')`,
		`INSERT INTO companies (id, name, city) VALUES (2, 'Globex', 'Boston')`,
	} {
		require.NoError(t, session.Exec(stmt).Error)
	}

	report, err := client.Trainer.Rebuild(ctx)
	require.NoError(t, err)
	assert.Greater(t, report.ItemsTrained(), int64(0))

	// Rebuilding again must not grow the corpus.
	again, err := client.Trainer.Rebuild(ctx)
	require.NoError(t, err)
	assert.Equal(t, report.ItemsTrained(), again.ItemsTrained())

	resp := client.Queries.Query(ctx, "companies in San Francisco")
	require.False(t, resp.Failed(), "error: %s", resp.Err())
	assert.Equal(t, "SELECT id FROM companies WHERE city = 'San Francisco';", resp.SQL())
	assert.Equal(t, []int64{1}, resp.CompanyIDs())
}

func TestClientCloseIsIdempotent(t *testing.T) {
	client := newTestClient(t)
	require.NoError(t, client.Close())
	require.NoError(t, client.Close())
}
