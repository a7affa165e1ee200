package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppConfigDefaults(t *testing.T) {
	cfg := NewAppConfig()

	assert.Equal(t, DefaultHost, cfg.Host())
	assert.Equal(t, DefaultPort, cfg.Port())
	assert.Equal(t, DefaultChatModel, cfg.ChatModel())
	assert.Equal(t, DefaultEmbeddingModel, cfg.EmbeddingModel())
	assert.Equal(t, DefaultRetrievalLimit, cfg.RetrievalLimit())
	assert.Equal(t, DefaultExecTimeout, cfg.ExecTimeout())
}

func TestAppConfigStoreURLDefaults(t *testing.T) {
	cfg := NewAppConfig()
	opt := WithDataDir("/tmp/lens")
	opt(&cfg)

	assert.Equal(t, "sqlite:///"+filepath.Join("/tmp/lens", CompaniesDBFile), cfg.DBURL())
	assert.Equal(t, "sqlite:///"+filepath.Join("/tmp/lens", CorpusDBFile), cfg.CorpusURL())

	override := WithDBURL("postgres://localhost/lens")
	override(&cfg)
	assert.Equal(t, "postgres://localhost/lens", cfg.DBURL())
}

func TestAppConfigValidateRequiresAPIKey(t *testing.T) {
	cfg := NewAppConfig()
	err := cfg.Validate()
	require.ErrorIs(t, err, ErrMissingAPIKey)

	opt := WithAPIKey("sk-test")
	opt(&cfg)
	require.NoError(t, cfg.Validate())
}

func TestEnvConfigToAppConfig(t *testing.T) {
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("PORT", "9090")
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("RETRIEVAL_LIMIT", "3")
	t.Setenv("EXEC_TIMEOUT_SECONDS", "2.5")

	envCfg, err := LoadFromEnv()
	require.NoError(t, err)

	cfg := envCfg.ToAppConfig()
	assert.Equal(t, "127.0.0.1:9090", cfg.Addr())
	assert.Equal(t, "sk-env", cfg.APIKey())
	assert.Equal(t, "gpt-4o", cfg.ChatModel())
	assert.Equal(t, LogFormatJSON, cfg.LogFormat())
	assert.Equal(t, 3, cfg.RetrievalLimit())
	assert.Equal(t, 2500*time.Millisecond, cfg.ExecTimeout())
}
