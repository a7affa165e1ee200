package provider

import (
	"errors"
	"net/http"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRetryable(t *testing.T) {
	p := NewOpenAIProviderFromConfig(OpenAIConfig{APIKey: "sk-test"})

	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{
			name:      "rate limited",
			err:       &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests},
			retryable: true,
		},
		{
			name:      "server error",
			err:       &openai.APIError{HTTPStatusCode: http.StatusServiceUnavailable},
			retryable: true,
		},
		{
			name:      "bad request",
			err:       &openai.APIError{HTTPStatusCode: http.StatusBadRequest},
			retryable: false,
		},
		{
			name:      "embedding count mismatch",
			err:       errEmbeddingCountMismatch,
			retryable: true,
		},
		{
			name:      "plain error",
			err:       errors.New("boom"),
			retryable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, p.isRetryable(tt.err))
		})
	}
}

func TestWrapErrorPreservesAPIDetail(t *testing.T) {
	p := NewOpenAIProviderFromConfig(OpenAIConfig{APIKey: "sk-test"})

	apiErr := &openai.APIError{HTTPStatusCode: http.StatusUnauthorized, Message: "bad key"}
	err := p.wrapError("chat_completion", apiErr)

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "chat_completion", provErr.Operation())
	assert.Equal(t, http.StatusUnauthorized, provErr.StatusCode())
	assert.Contains(t, provErr.Error(), "bad key")
}

func TestConfigDefaults(t *testing.T) {
	p := NewOpenAIProviderFromConfig(OpenAIConfig{APIKey: "sk-test"})

	assert.Equal(t, "gpt-4-turbo", p.chatModel)
	assert.Equal(t, "text-embedding-3-small", p.embeddingModel)
	assert.Equal(t, 5, p.maxRetries)
	assert.Equal(t, 2*time.Second, p.initialDelay)
	assert.Equal(t, 2.0, p.backoffFactor)
}

func TestMessageConstructors(t *testing.T) {
	assert.Equal(t, "system", SystemMessage("x").Role())
	assert.Equal(t, "user", UserMessage("x").Role())
	assert.Equal(t, "assistant", AssistantMessage("x").Role())
}
