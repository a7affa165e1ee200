package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration.
// Field names map directly to environment variables.
type EnvConfig struct {
	// Host is the server host to bind to.
	// Env: HOST (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// Port is the server port to listen on.
	// Env: PORT (default: 8080)
	Port int `envconfig:"PORT" default:"8080"`

	// DataDir is the data directory path.
	// Env: DATA_DIR
	// Default: ~/.startuplens
	DataDir string `envconfig:"DATA_DIR"`

	// DBURL overrides the relational store URL.
	// Env: DB_URL
	// Default: sqlite:///{data_dir}/companies.db
	DBURL string `envconfig:"DB_URL"`

	// CorpusURL overrides the knowledge corpus store URL.
	// Env: CORPUS_URL
	// Default: sqlite:///{data_dir}/corpus.db
	CorpusURL string `envconfig:"CORPUS_URL"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// OpenAIAPIKey is the credential for the translation capability.
	// Env: OPENAI_API_KEY (required to serve or train)
	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`

	// OpenAIBaseURL is an optional OpenAI-compatible base URL.
	// Env: OPENAI_BASE_URL
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL"`

	// OpenAIModel is the chat completion model.
	// Env: OPENAI_MODEL (default: gpt-4-turbo)
	OpenAIModel string `envconfig:"OPENAI_MODEL" default:"gpt-4-turbo"`

	// OpenAIEmbeddingModel is the embedding model.
	// Env: OPENAI_EMBEDDING_MODEL (default: text-embedding-3-small)
	OpenAIEmbeddingModel string `envconfig:"OPENAI_EMBEDDING_MODEL" default:"text-embedding-3-small"`

	// RetrievalLimit is the retrieval width per item kind.
	// Env: RETRIEVAL_LIMIT (default: 10)
	RetrievalLimit int `envconfig:"RETRIEVAL_LIMIT" default:"10"`

	// ExecTimeoutSeconds is the SQL execution ceiling in seconds.
	// Env: EXEC_TIMEOUT_SECONDS (default: 5)
	ExecTimeoutSeconds float64 `envconfig:"EXEC_TIMEOUT_SECONDS" default:"5"`

	// CorpusFile is an external corpus definition file path. When empty
	// the embedded default definition is used.
	// Env: CORPUS_FILE
	CorpusFile string `envconfig:"CORPUS_FILE"`
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// ToAppConfig converts EnvConfig to AppConfig.
func (e EnvConfig) ToAppConfig() AppConfig {
	cfg := NewAppConfig()

	if e.Host != "" {
		cfg = applyOption(cfg, WithHost(e.Host))
	}
	if e.Port != 0 {
		cfg = applyOption(cfg, WithPort(e.Port))
	}
	if e.DataDir != "" {
		cfg = applyOption(cfg, WithDataDir(e.DataDir))
	}
	if e.DBURL != "" {
		cfg = applyOption(cfg, WithDBURL(e.DBURL))
	}
	if e.CorpusURL != "" {
		cfg = applyOption(cfg, WithCorpusURL(e.CorpusURL))
	}
	if e.LogLevel != "" {
		cfg = applyOption(cfg, WithLogLevel(e.LogLevel))
	}
	if e.LogFormat != "" {
		cfg = applyOption(cfg, WithLogFormat(parseLogFormat(e.LogFormat)))
	}
	if e.OpenAIAPIKey != "" {
		cfg = applyOption(cfg, WithAPIKey(e.OpenAIAPIKey))
	}
	if e.OpenAIBaseURL != "" {
		cfg = applyOption(cfg, WithBaseURL(e.OpenAIBaseURL))
	}
	if e.OpenAIModel != "" {
		cfg = applyOption(cfg, WithChatModel(e.OpenAIModel))
	}
	if e.OpenAIEmbeddingModel != "" {
		cfg = applyOption(cfg, WithEmbeddingModel(e.OpenAIEmbeddingModel))
	}
	if e.RetrievalLimit > 0 {
		cfg = applyOption(cfg, WithRetrievalLimit(e.RetrievalLimit))
	}
	if e.ExecTimeoutSeconds > 0 {
		cfg = applyOption(cfg, WithExecTimeout(time.Duration(e.ExecTimeoutSeconds*float64(time.Second))))
	}
	if e.CorpusFile != "" {
		cfg = applyOption(cfg, WithCorpusFile(e.CorpusFile))
	}

	return cfg
}

// applyOption applies an option to the config.
func applyOption(cfg AppConfig, opt AppConfigOption) AppConfig {
	opt(&cfg)
	return cfg
}

// parseLogFormat parses a log format string.
func parseLogFormat(s string) LogFormat {
	switch strings.ToLower(s) {
	case "json":
		return LogFormatJSON
	default:
		return LogFormatPretty
	}
}
