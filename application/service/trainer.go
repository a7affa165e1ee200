package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/startuplens/startuplens/domain/corpus"
	"github.com/startuplens/startuplens/infrastructure/catalog"
)

// ErrTrainingInProgress indicates a corpus rebuild is already running.
var ErrTrainingInProgress = errors.New("training already in progress")

// BuildReport summarizes a completed corpus rebuild.
type BuildReport struct {
	itemsTrained int64
}

// NewBuildReport creates a BuildReport.
func NewBuildReport(itemsTrained int64) BuildReport {
	return BuildReport{itemsTrained: itemsTrained}
}

// ItemsTrained returns the total number of items in the corpus after the
// rebuild.
func (r BuildReport) ItemsTrained() int64 { return r.itemsTrained }

// Trainer rebuilds the knowledge corpus from the live relational schema
// and the curated corpus definition. At most one rebuild runs at a time.
type Trainer struct {
	catalog    catalog.Catalog
	store      corpus.Store
	definition corpus.Definition
	logger     *slog.Logger
	mu         sync.Mutex
}

// NewTrainer creates a Trainer.
func NewTrainer(cat catalog.Catalog, store corpus.Store, definition corpus.Definition, logger *slog.Logger) *Trainer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Trainer{
		catalog:    cat,
		store:      store,
		definition: definition,
		logger:     logger,
	}
}

// Rebuild extracts schema facts from the relational store and upserts
// them together with the definition's documentation and exemplars.
// Content hashing makes the rebuild idempotent: repeating it with
// unchanged inputs leaves the corpus unchanged. A rebuild already in
// flight is ErrTrainingInProgress.
func (t *Trainer) Rebuild(ctx context.Context) (BuildReport, error) {
	if !t.mu.TryLock() {
		return BuildReport{}, ErrTrainingInProgress
	}
	defer t.mu.Unlock()

	definitions, err := t.catalog.ExtractSchema(ctx)
	if err != nil {
		return BuildReport{}, fmt.Errorf("rebuild corpus: %w", err)
	}

	items := make([]corpus.Item, 0, len(definitions)+len(t.definition.Items()))
	for _, def := range definitions {
		items = append(items, def.Item())
	}
	items = append(items, t.definition.Items()...)

	for _, item := range items {
		if _, err := t.store.Upsert(ctx, item); err != nil {
			return BuildReport{}, fmt.Errorf("rebuild corpus: %w", err)
		}
	}

	count, err := t.store.Count(ctx)
	if err != nil {
		return BuildReport{}, fmt.Errorf("rebuild corpus: %w", err)
	}

	t.logger.Info("corpus rebuilt",
		"schema_facts", len(definitions),
		"definition_items", len(items)-len(definitions),
		"corpus_size", count,
	)
	return NewBuildReport(count), nil
}

// Status returns the current corpus size. A zero count means the service
// has not been trained yet.
func (t *Trainer) Status(ctx context.Context) (int64, error) {
	return t.store.Count(ctx)
}
