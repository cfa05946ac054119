package chroma

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"

	"docqa/internal/vectorstore"
)

// Store adapts a ChromaDB collection to the vectorstore.Store interface.
// The collection is created with cosine distance, and search scores are
// reported as 1 - distance so that higher means more relevant.
type Store struct {
	client     chromago.Client
	collection string
	batchSize  int

	mu  sync.Mutex
	col chromago.Collection
}

func NewStore(baseURL, collection string, batchSize int) (*Store, error) {
	client, err := chromago.NewHTTPClient(chromago.WithBaseURL(baseURL))
	if err != nil {
		return nil, fmt.Errorf("create chroma client failed: %w", err)
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Store{
		client:     client,
		collection: collection,
		batchSize:  batchSize,
	}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// EnsureReady gets or creates the target collection. Safe to call repeatedly;
// an existing collection is reused as-is.
func (s *Store) EnsureReady(ctx context.Context) error {
	_, err := s.ensureCollection(ctx)
	return err
}

func (s *Store) ensureCollection(ctx context.Context) (chromago.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.col != nil {
		return s.col, nil
	}
	// Embeddings are always supplied by the caller, so the collection gets a
	// cheap deterministic function instead of the client's ONNX default.
	col, err := s.client.GetOrCreateCollection(
		ctx,
		s.collection,
		chromago.WithCollectionMetadataCreate(
			chromago.NewMetadata(
				chromago.NewStringAttribute("hnsw:space", "cosine"),
			),
		),
		chromago.WithEmbeddingFunctionCreate(embeddings.NewConsistentHashEmbeddingFunction()),
	)
	if err != nil {
		return nil, fmt.Errorf("get or create collection failed: %w", err)
	}
	s.col = col
	return col, nil
}

// Store writes records in batches. Each record carries its chunk text, the
// caller-computed embedding, and source document metadata.
func (s *Store) Store(ctx context.Context, records []vectorstore.Record) error {
	col, err := s.ensureCollection(ctx)
	if err != nil {
		return err
	}

	for start := 0; start < len(records); start += s.batchSize {
		end := start + s.batchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]

		ids := make([]chromago.DocumentID, len(batch))
		texts := make([]string, len(batch))
		embs := make([]embeddings.Embedding, len(batch))
		metas := make([]chromago.DocumentMetadata, len(batch))
		for i, r := range batch {
			ids[i] = chromago.DocumentID(r.ID)
			texts[i] = r.Content
			embs[i] = embeddings.NewEmbeddingFromFloat32(r.Vector)
			metas[i] = chromago.NewDocumentMetadata(
				chromago.NewStringAttribute("document_id", r.DocumentID),
				chromago.NewStringAttribute("filename", r.Filename),
				chromago.NewIntAttribute("chunk_index", int64(r.ChunkIndex)),
			)
		}

		if err := col.Add(ctx,
			chromago.WithIDs(ids...),
			chromago.WithTexts(texts...),
			chromago.WithEmbeddings(embs...),
			chromago.WithMetadatas(metas...),
		); err != nil {
			return fmt.Errorf("add records to chroma failed: %w", err)
		}
	}
	return nil
}

func (s *Store) Search(ctx context.Context, vector []float32, topK int) ([]vectorstore.SearchResult, error) {
	col, err := s.ensureCollection(ctx)
	if err != nil {
		return nil, err
	}
	if topK <= 0 {
		topK = 3
	}

	results, err := col.Query(ctx,
		chromago.WithQueryEmbeddings(embeddings.NewEmbeddingFromFloat32(vector)),
		chromago.WithNResults(topK),
		chromago.WithIncludeQuery(chromago.IncludeDocuments, chromago.IncludeMetadatas, chromago.Include("distances")),
	)
	if err != nil {
		return nil, fmt.Errorf("query chroma failed: %w", err)
	}

	docGroups := results.GetDocumentsGroups()
	distGroups := results.GetDistancesGroups()
	metaGroups := results.GetMetadatasGroups()
	if len(docGroups) == 0 {
		return nil, nil
	}

	out := make([]vectorstore.SearchResult, 0, len(docGroups[0]))
	for i, doc := range docGroups[0] {
		if doc.ContentString() == "" {
			continue
		}
		score := 0.0
		if len(distGroups) > 0 && i < len(distGroups[0]) {
			// Cosine distance in [0,2]; similarity = 1 - distance.
			score = 1 - float64(distGroups[0][i])
		}
		filename := ""
		if len(metaGroups) > 0 && i < len(metaGroups[0]) {
			filename = metadataFilename(metaGroups[0][i])
		}
		out = append(out, vectorstore.SearchResult{
			Content:  doc.ContentString(),
			Score:    score,
			Filename: filename,
		})
	}
	return out, nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	col, err := s.ensureCollection(ctx)
	if err != nil {
		return 0, err
	}
	count, err := col.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count chroma records failed: %w", err)
	}
	return int(count), nil
}

// DeleteAll drops the collection. Getting-or-creating first makes a repeat
// call succeed even when nothing is stored.
func (s *Store) DeleteAll(ctx context.Context) error {
	if _, err := s.ensureCollection(ctx); err != nil {
		return err
	}
	if err := s.client.DeleteCollection(ctx, s.collection); err != nil {
		return fmt.Errorf("delete collection failed: %w", err)
	}
	s.mu.Lock()
	s.col = nil
	s.mu.Unlock()
	return nil
}

// DocumentMetadata has no public accessor for arbitrary keys; a JSON
// round-trip is the supported way to read attributes back.
func metadataFilename(meta chromago.DocumentMetadata) string {
	if meta == nil {
		return ""
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return ""
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return ""
	}
	name, _ := m["filename"].(string)
	return name
}
