package vectorstore

import "context"

// Record is one chunk plus its precomputed embedding. The embedding is always
// computed by the caller so that stored vectors and query vectors come from
// the same model.
type Record struct {
	ID         string
	Content    string
	Vector     []float32
	DocumentID string
	Filename   string
	ChunkIndex int
}

// SearchResult is a retrieved chunk with a normalized relevance score:
// cosine similarity, higher means more relevant.
type SearchResult struct {
	Content  string
	Score    float64
	Filename string
}

// Store persists chunk vectors and supports similarity search. Backends must
// make EnsureReady idempotent and treat DeleteAll on an absent collection as
// success.
type Store interface {
	EnsureReady(ctx context.Context) error
	Store(ctx context.Context, records []Record) error
	Search(ctx context.Context, vector []float32, topK int) ([]SearchResult, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}
