package startuplens

import (
	"log/slog"
	"time"

	domaincorpus "github.com/startuplens/startuplens/domain/corpus"
	"github.com/startuplens/startuplens/infrastructure/provider"
	"github.com/startuplens/startuplens/internal/config"
)

// clientConfig holds configuration for Client construction.
type clientConfig struct {
	appConfig    config.AppConfig
	openAI       *provider.OpenAIConfig
	textProvider provider.TextGenerator
	embedder     provider.Embedder
	definition   *domaincorpus.Definition
	logger       *slog.Logger
}

func newClientConfig() *clientConfig {
	return &clientConfig{appConfig: config.NewAppConfig()}
}

// providers resolves the text generation and embedding providers:
// injected instances win, otherwise both come from one OpenAI provider.
func (c *clientConfig) providers() (provider.TextGenerator, provider.Embedder, error) {
	text := c.textProvider
	embedder := c.embedder
	if text != nil && embedder != nil {
		return text, embedder, nil
	}

	if c.openAI == nil {
		return nil, nil, ErrNoProvider
	}
	openAI := provider.NewOpenAIProviderFromConfig(*c.openAI)
	if text == nil {
		text = openAI
	}
	if embedder == nil {
		embedder = openAI
	}
	return text, embedder, nil
}

// Option configures the Client.
type Option func(*clientConfig)

// WithConfig applies a resolved application configuration wholesale.
// Provider settings in the configuration take effect only when no
// provider was injected.
func WithConfig(cfg config.AppConfig) Option {
	return func(c *clientConfig) {
		c.appConfig = cfg
		if cfg.APIKey() != "" {
			c.openAI = &provider.OpenAIConfig{
				APIKey:         cfg.APIKey(),
				BaseURL:        cfg.BaseURL(),
				ChatModel:      cfg.ChatModel(),
				EmbeddingModel: cfg.EmbeddingModel(),
				Timeout:        config.DefaultProviderTimeout,
			}
		}
	}
}

// WithDataDir sets the data directory holding the default database files.
func WithDataDir(dir string) Option {
	return func(c *clientConfig) { c.apply(config.WithDataDir(dir)) }
}

// WithDBURL sets the relational store URL (sqlite:/// or postgres://).
func WithDBURL(url string) Option {
	return func(c *clientConfig) { c.apply(config.WithDBURL(url)) }
}

// WithCorpusURL sets the knowledge corpus store URL.
func WithCorpusURL(url string) Option {
	return func(c *clientConfig) { c.apply(config.WithCorpusURL(url)) }
}

// WithOpenAI configures an OpenAI provider with default models.
func WithOpenAI(apiKey string) Option {
	return WithOpenAIConfig(provider.OpenAIConfig{APIKey: apiKey})
}

// WithOpenAIConfig configures an OpenAI-compatible provider.
func WithOpenAIConfig(cfg provider.OpenAIConfig) Option {
	return func(c *clientConfig) { c.openAI = &cfg }
}

// WithTextGenerator injects a text generation provider, replacing the
// OpenAI default. Intended for tests and custom backends.
func WithTextGenerator(p provider.TextGenerator) Option {
	return func(c *clientConfig) { c.textProvider = p }
}

// WithEmbedder injects an embedding provider, replacing the OpenAI
// default.
func WithEmbedder(p provider.Embedder) Option {
	return func(c *clientConfig) { c.embedder = p }
}

// WithCorpusDefinition replaces the embedded corpus definition.
func WithCorpusDefinition(def domaincorpus.Definition) Option {
	return func(c *clientConfig) { c.definition = &def }
}

// WithRetrievalLimit sets the per-kind retrieval width.
func WithRetrievalLimit(k int) Option {
	return func(c *clientConfig) { c.apply(config.WithRetrievalLimit(k)) }
}

// WithExecTimeout sets the statement execution ceiling.
func WithExecTimeout(d time.Duration) Option {
	return func(c *clientConfig) { c.apply(config.WithExecTimeout(d)) }
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) { c.logger = logger }
}

func (c *clientConfig) apply(opt config.AppConfigOption) {
	opt(&c.appConfig)
}
