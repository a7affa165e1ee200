// Package startuplens provides a natural-language query service over a
// startup companies dataset.
//
// Questions are translated to SQL by an LLM, grounded by a knowledge
// corpus of schema facts, documentation, and question/SQL exemplars
// retrieved by embedding similarity. Statements run read-only and
// results normalize to deduplicated company identifier sequences.
//
// Basic usage:
//
//	client, err := startuplens.New(
//	    startuplens.WithDataDir(".startuplens"),
//	    startuplens.WithOpenAI(os.Getenv("OPENAI_API_KEY")),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Build the corpus from the live schema and the curated definition.
//	report, err := client.Trainer.Rebuild(ctx)
//
//	// Ask a question.
//	resp := client.Queries.Query(ctx, "companies in San Francisco")
//	for _, id := range resp.CompanyIDs() {
//	    fmt.Println(id)
//	}
package startuplens

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/startuplens/startuplens/application/service"
	domaincorpus "github.com/startuplens/startuplens/domain/corpus"
	"github.com/startuplens/startuplens/infrastructure/catalog"
	infracorpus "github.com/startuplens/startuplens/infrastructure/corpus"
	"github.com/startuplens/startuplens/internal/database"
)

// ErrNoProvider indicates neither an API key nor injected providers were
// configured.
var ErrNoProvider = errors.New("no AI provider configured: set an OpenAI API key or inject providers")

// Client is the main entry point for the startuplens library.
//
// Access the pipeline via struct fields:
//
//	client.Queries.Query(ctx, "companies in San Francisco")
//	client.Trainer.Rebuild(ctx)
type Client struct {
	// Public service fields (direct access)
	Queries *service.QueryService
	Trainer *service.Trainer

	db       database.Database
	corpusDB database.Database
	corpus   *infracorpus.Store
	logger   *slog.Logger
	closed   atomic.Bool
}

// New creates a new Client with the given options.
func New(opts ...Option) (*Client, error) {
	cfg := newClientConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	textProvider, embedder, err := cfg.providers()
	if err != nil {
		return nil, err
	}

	ctx := context.Background()

	db, err := database.NewDatabase(ctx, cfg.appConfig.DBURL())
	if err != nil {
		return nil, fmt.Errorf("open relational store: %w", err)
	}

	corpusDB, err := database.NewDatabase(ctx, cfg.appConfig.CorpusURL())
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open corpus store: %w", err)
	}

	store := infracorpus.NewStore(corpusDB, embedder, logger)

	definition := cfg.definition
	if definition == nil {
		def := domaincorpus.DefaultDefinition()
		definition = &def
	}

	translator := service.NewTranslator(store, textProvider, cfg.appConfig.RetrievalLimit(), logger)
	executor := service.NewExecutor(db, cfg.appConfig.ExecTimeout())
	normalizer := service.NewNormalizer(logger)

	return &Client{
		Queries:  service.NewQueryService(translator, executor, normalizer, logger),
		Trainer:  service.NewTrainer(catalog.NewCatalog(db), store, *definition, logger),
		db:       db,
		corpusDB: corpusDB,
		corpus:   store,
		logger:   logger,
	}, nil
}

// DB returns the relational store.
func (c *Client) DB() database.Database { return c.db }

// Corpus returns the knowledge corpus store.
func (c *Client) Corpus() *infracorpus.Store { return c.corpus }

// Logger returns the client logger.
func (c *Client) Logger() *slog.Logger { return c.logger }

// Close releases the client's database connections. Close is idempotent.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return errors.Join(c.db.Close(), c.corpusDB.Close())
}
