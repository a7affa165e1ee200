// Package config provides application configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Default configuration values.
const (
	DefaultHost            = "0.0.0.0"
	DefaultPort            = 8080
	DefaultLogLevel        = "INFO"
	DefaultChatModel       = "gpt-4-turbo"
	DefaultEmbeddingModel  = "text-embedding-3-small"
	DefaultRetrievalLimit  = 10
	DefaultExecTimeout     = 5 * time.Second
	DefaultProviderTimeout = 60 * time.Second
)

// Database file names inside the data directory.
const (
	CompaniesDBFile = "companies.db"
	CorpusDBFile    = "corpus.db"
)

// ErrMissingAPIKey indicates the OpenAI API key was not configured.
// Translation cannot work without it, so startup must abort.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY not configured")

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// AppConfig holds the resolved application configuration.
type AppConfig struct {
	host           string
	port           int
	dataDir        string
	dbURL          string
	corpusURL      string
	logLevel       string
	logFormat      LogFormat
	apiKey         string
	baseURL        string
	chatModel      string
	embeddingModel string
	retrievalLimit int
	execTimeout    time.Duration
	corpusFile     string
}

// NewAppConfig creates an AppConfig with defaults.
func NewAppConfig() AppConfig {
	return AppConfig{
		host:           DefaultHost,
		port:           DefaultPort,
		dataDir:        DefaultDataDir(),
		logLevel:       DefaultLogLevel,
		logFormat:      LogFormatPretty,
		chatModel:      DefaultChatModel,
		embeddingModel: DefaultEmbeddingModel,
		retrievalLimit: DefaultRetrievalLimit,
		execTimeout:    DefaultExecTimeout,
	}
}

// DefaultDataDir returns the default data directory (~/.startuplens).
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".startuplens"
	}
	return filepath.Join(home, ".startuplens")
}

// AppConfigOption configures an AppConfig.
type AppConfigOption func(*AppConfig)

// WithHost sets the server host.
func WithHost(host string) AppConfigOption {
	return func(c *AppConfig) { c.host = host }
}

// WithPort sets the server port.
func WithPort(port int) AppConfigOption {
	return func(c *AppConfig) { c.port = port }
}

// WithDataDir sets the data directory.
func WithDataDir(dir string) AppConfigOption {
	return func(c *AppConfig) { c.dataDir = dir }
}

// WithDBURL sets the relational store URL.
func WithDBURL(url string) AppConfigOption {
	return func(c *AppConfig) { c.dbURL = url }
}

// WithCorpusURL sets the knowledge corpus store URL.
func WithCorpusURL(url string) AppConfigOption {
	return func(c *AppConfig) { c.corpusURL = url }
}

// WithLogLevel sets the log level.
func WithLogLevel(level string) AppConfigOption {
	return func(c *AppConfig) { c.logLevel = level }
}

// WithLogFormat sets the log format.
func WithLogFormat(format LogFormat) AppConfigOption {
	return func(c *AppConfig) { c.logFormat = format }
}

// WithAPIKey sets the OpenAI API key.
func WithAPIKey(key string) AppConfigOption {
	return func(c *AppConfig) { c.apiKey = key }
}

// WithBaseURL sets a custom OpenAI-compatible base URL.
func WithBaseURL(url string) AppConfigOption {
	return func(c *AppConfig) { c.baseURL = url }
}

// WithChatModel sets the chat completion model.
func WithChatModel(model string) AppConfigOption {
	return func(c *AppConfig) { c.chatModel = model }
}

// WithEmbeddingModel sets the embedding model.
func WithEmbeddingModel(model string) AppConfigOption {
	return func(c *AppConfig) { c.embeddingModel = model }
}

// WithRetrievalLimit sets the per-kind retrieval width.
func WithRetrievalLimit(k int) AppConfigOption {
	return func(c *AppConfig) { c.retrievalLimit = k }
}

// WithExecTimeout sets the statement execution ceiling.
func WithExecTimeout(d time.Duration) AppConfigOption {
	return func(c *AppConfig) { c.execTimeout = d }
}

// WithCorpusFile sets an external corpus definition file.
func WithCorpusFile(path string) AppConfigOption {
	return func(c *AppConfig) { c.corpusFile = path }
}

// Host returns the server host.
func (c AppConfig) Host() string { return c.host }

// Port returns the server port.
func (c AppConfig) Port() int { return c.port }

// Addr returns the host:port address to bind to.
func (c AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.host, c.port)
}

// DataDir returns the data directory.
func (c AppConfig) DataDir() string { return c.dataDir }

// DBURL returns the relational store URL, defaulting to a sqlite file
// inside the data directory.
func (c AppConfig) DBURL() string {
	if c.dbURL != "" {
		return c.dbURL
	}
	return "sqlite:///" + filepath.Join(c.dataDir, CompaniesDBFile)
}

// CorpusURL returns the knowledge corpus store URL. The corpus index is
// kept in its own file, independent of the relational store.
func (c AppConfig) CorpusURL() string {
	if c.corpusURL != "" {
		return c.corpusURL
	}
	return "sqlite:///" + filepath.Join(c.dataDir, CorpusDBFile)
}

// LogLevel returns the log level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// APIKey returns the OpenAI API key.
func (c AppConfig) APIKey() string { return c.apiKey }

// BaseURL returns the custom OpenAI-compatible base URL, if any.
func (c AppConfig) BaseURL() string { return c.baseURL }

// ChatModel returns the chat completion model.
func (c AppConfig) ChatModel() string { return c.chatModel }

// EmbeddingModel returns the embedding model.
func (c AppConfig) EmbeddingModel() string { return c.embeddingModel }

// RetrievalLimit returns the per-kind retrieval width.
func (c AppConfig) RetrievalLimit() int { return c.retrievalLimit }

// ExecTimeout returns the statement execution ceiling.
func (c AppConfig) ExecTimeout() time.Duration { return c.execTimeout }

// CorpusFile returns the external corpus definition path, if any.
func (c AppConfig) CorpusFile() string { return c.corpusFile }

// Validate checks the configuration for fatal startup conditions.
func (c AppConfig) Validate() error {
	if c.apiKey == "" {
		return ErrMissingAPIKey
	}
	if c.retrievalLimit <= 0 {
		return fmt.Errorf("retrieval limit must be positive, got %d", c.retrievalLimit)
	}
	return nil
}

// EnsureDataDir creates the data directory if it does not exist.
func (c AppConfig) EnsureDataDir() error {
	return os.MkdirAll(c.dataDir, 0o750)
}
