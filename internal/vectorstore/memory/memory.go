package memory

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"

	"docqa/internal/vectorstore"
)

// Store is an in-process vector store using brute-force cosine similarity.
// It backs local development and tests; the production backend is chroma.
type Store struct {
	mu      sync.RWMutex
	records []vectorstore.Record
}

func NewStore() *Store { return &Store{} }

func (s *Store) EnsureReady(ctx context.Context) error { return nil }

func (s *Store) Store(ctx context.Context, records []vectorstore.Record) error {
	for _, r := range records {
		if len(r.Vector) == 0 {
			return errors.New("record has empty vector")
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, records...)
	return nil
}

func (s *Store) Search(ctx context.Context, vector []float32, topK int) ([]vectorstore.SearchResult, error) {
	if topK <= 0 {
		topK = 3
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]vectorstore.SearchResult, 0, len(s.records))
	for _, r := range s.records {
		results = append(results, vectorstore.SearchResult{
			Content:  r.Content,
			Score:    cosineSimilarity(vector, r.Vector),
			Filename: r.Filename,
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if topK > len(results) {
		topK = len(results)
	}
	return results[:topK], nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

func (s *Store) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	return nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA <= 0 || normB <= 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
