package corpus

import "context"

// Store is the retrievable knowledge corpus. Implementations index item
// content for similarity retrieval and assign each item a stable
// content-derived identifier.
type Store interface {
	// Upsert indexes the item and returns its stable identifier.
	// Re-upserting a content-identical item is a no-op.
	Upsert(ctx context.Context, item Item) (string, error)

	// Retrieve returns up to k items per kind whose indexed content is
	// most semantically similar to the query, ranked descending by
	// similarity. Ties are broken by insertion order, earliest first.
	Retrieve(ctx context.Context, query string, k int) ([]Item, error)

	// Count returns the number of items in the corpus.
	Count(ctx context.Context) (int64, error)

	// Clear removes all items.
	Clear(ctx context.Context) error
}
