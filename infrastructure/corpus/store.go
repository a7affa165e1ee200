// Package corpus provides the persistent, similarity-indexed knowledge
// corpus store. Embeddings are kept as JSON columns and cosine top-k is
// computed in memory, which is plenty for a corpus of tens of items.
package corpus

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	domaincorpus "github.com/startuplens/startuplens/domain/corpus"
	"github.com/startuplens/startuplens/infrastructure/provider"
	"github.com/startuplens/startuplens/internal/database"
	"gorm.io/gorm/clause"
)

// ErrStoreInitializationFailed indicates the corpus table could not be created.
var ErrStoreInitializationFailed = errors.New("failed to initialize corpus store")

// Float64Slice is a custom type for JSON serialization of []float64.
type Float64Slice []float64

// Scan implements sql.Scanner for reading JSON from the database.
func (f *Float64Slice) Scan(value any) error {
	if value == nil {
		*f = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Float64Slice", value)
	}

	return json.Unmarshal(data, f)
}

// Value implements driver.Valuer for writing JSON to the database.
func (f Float64Slice) Value() (driver.Value, error) {
	if f == nil {
		return nil, nil
	}
	return json.Marshal(f)
}

// ItemModel is the persisted form of a corpus item. The autoincrement id
// records insertion order; the content hash makes rebuilds idempotent.
type ItemModel struct {
	ID        int64        `gorm:"column:id;primaryKey;autoIncrement"`
	Hash      string       `gorm:"column:hash;uniqueIndex;size:64"`
	Kind      string       `gorm:"column:kind;index"`
	Question  string       `gorm:"column:question"`
	Content   string       `gorm:"column:content"`
	Embedding Float64Slice `gorm:"column:embedding;type:json"`
}

// TableName sets the corpus items table name.
func (ItemModel) TableName() string { return "corpus_items" }

func (m ItemModel) toDomain() domaincorpus.Item {
	switch domaincorpus.Kind(m.Kind) {
	case domaincorpus.KindExemplar:
		return domaincorpus.NewExemplar(m.Question, m.Content)
	case domaincorpus.KindDocumentation:
		return domaincorpus.NewDocumentation(m.Content)
	default:
		return domaincorpus.NewSchemaFact(m.Content)
	}
}

// Store is a gorm-backed corpus.Store that indexes items by embedding.
type Store struct {
	db          database.Database
	embedder    provider.Embedder
	logger      *slog.Logger
	initialized bool
	mu          sync.Mutex
}

// NewStore creates a new Store.
func NewStore(db database.Database, embedder provider.Embedder, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		db:       db,
		embedder: embedder,
		logger:   logger,
	}
}

func (s *Store) initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}

	if err := s.db.Session(ctx).AutoMigrate(&ItemModel{}); err != nil {
		return errors.Join(ErrStoreInitializationFailed, err)
	}

	s.initialized = true
	return nil
}

// Upsert indexes the item for retrieval and returns its content hash as
// the stable identifier. Content-identical items are not duplicated.
func (s *Store) Upsert(ctx context.Context, item domaincorpus.Item) (string, error) {
	if err := s.initialize(ctx); err != nil {
		return "", err
	}

	hash := item.Hash()

	// Skip the embedding call when the item is already indexed.
	var count int64
	if err := s.db.Session(ctx).Model(&ItemModel{}).Where("hash = ?", hash).Count(&count).Error; err != nil {
		return "", fmt.Errorf("check corpus item: %w", err)
	}
	if count > 0 {
		return hash, nil
	}

	resp, err := s.embedder.Embed(ctx, provider.NewEmbeddingRequest([]string{item.EmbeddingText()}))
	if err != nil {
		return "", fmt.Errorf("embed corpus item: %w", err)
	}
	embeddings := resp.Embeddings()
	if len(embeddings) != 1 {
		return "", fmt.Errorf("embed corpus item: got %d vectors for 1 text", len(embeddings))
	}

	model := ItemModel{
		Hash:      hash,
		Kind:      string(item.Kind()),
		Question:  item.Question(),
		Content:   item.Content(),
		Embedding: embeddings[0],
	}

	result := s.db.Session(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "hash"}}, DoNothing: true}).
		Create(&model)
	if result.Error != nil {
		return "", fmt.Errorf("insert corpus item: %w", result.Error)
	}

	return hash, nil
}

// Retrieve returns up to k items per kind ranked descending by cosine
// similarity to the query, ties broken by insertion order.
func (s *Store) Retrieve(ctx context.Context, query string, k int) ([]domaincorpus.Item, error) {
	if err := s.initialize(ctx); err != nil {
		return nil, err
	}
	if k <= 0 {
		return []domaincorpus.Item{}, nil
	}

	resp, err := s.embedder.Embed(ctx, provider.NewEmbeddingRequest([]string{query}))
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	embeddings := resp.Embeddings()
	if len(embeddings) != 1 {
		return nil, fmt.Errorf("embed query: got %d vectors for 1 text", len(embeddings))
	}
	queryEmbedding := embeddings[0]

	var models []ItemModel
	if err := s.db.Session(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("load corpus items: %w", err)
	}

	byID := make(map[int64]ItemModel, len(models))
	vectorsByKind := make(map[domaincorpus.Kind][]StoredVector)
	for _, m := range models {
		if len(m.Embedding) == 0 {
			s.logger.Warn("skipping corpus item with empty embedding", "hash", m.Hash)
			continue
		}
		byID[m.ID] = m
		kind := domaincorpus.Kind(m.Kind)
		vectorsByKind[kind] = append(vectorsByKind[kind], NewStoredVector(m.ID, m.Embedding))
	}

	kinds := []domaincorpus.Kind{
		domaincorpus.KindSchemaFact,
		domaincorpus.KindDocumentation,
		domaincorpus.KindExemplar,
	}

	var items []domaincorpus.Item
	for _, kind := range kinds {
		for _, match := range TopKSimilar(queryEmbedding, vectorsByKind[kind], k) {
			items = append(items, byID[match.RowID()].toDomain())
		}
	}

	return items, nil
}

// Count returns the number of items in the corpus.
func (s *Store) Count(ctx context.Context) (int64, error) {
	if err := s.initialize(ctx); err != nil {
		return 0, err
	}
	var count int64
	if err := s.db.Session(ctx).Model(&ItemModel{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count corpus items: %w", err)
	}
	return count, nil
}

// Clear removes all items.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.initialize(ctx); err != nil {
		return err
	}
	if err := s.db.Session(ctx).Where("1 = 1").Delete(&ItemModel{}).Error; err != nil {
		return fmt.Errorf("clear corpus: %w", err)
	}
	return nil
}

// Ensure Store implements the domain contract.
var _ domaincorpus.Store = (*Store)(nil)
