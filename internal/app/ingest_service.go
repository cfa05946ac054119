package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"docqa/internal/extract"
	"docqa/internal/model"
	"docqa/internal/textproc"
	"docqa/internal/vectorstore"
)

var ErrNoFiles = errors.New("no files provided")

const defaultEmbedBatchSize = 10

// Embedder converts text into embedding vectors. The same implementation
// must serve both ingestion and query so scores stay comparable.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// AuditPublisher records that a file was processed. Publishing is
// best-effort; an audit failure never fails the upload.
type AuditPublisher interface {
	Publish(ctx context.Context, record model.UploadRecord) error
}

type IngestService struct {
	store          vectorstore.Store
	embedder       Embedder
	chunker        *textproc.Chunker
	publisher      AuditPublisher
	embedBatchSize int
}

type UploadedFile struct {
	Filename string
	Data     []byte
}

type ProcessedFile struct {
	Filename    string         `json:"filename"`
	ProcessedAt time.Time      `json:"processed_at"`
	Metadata    textproc.Stats `json:"metadata"`
}

func NewIngestService(
	store vectorstore.Store,
	embedder Embedder,
	chunker *textproc.Chunker,
	publisher AuditPublisher,
	embedBatchSize int,
) *IngestService {
	if embedBatchSize <= 0 {
		embedBatchSize = defaultEmbedBatchSize
	}
	return &IngestService{
		store:          store,
		embedder:       embedder,
		chunker:        chunker,
		publisher:      publisher,
		embedBatchSize: embedBatchSize,
	}
}

// Ingest processes each file independently: extract, normalize, chunk,
// embed, store. Chunks never span files, and every chunk is tagged with its
// source document. A failure aborts the batch but leaves already completed
// files stored.
func (s *IngestService) Ingest(ctx context.Context, uploadedBy string, files []UploadedFile) ([]ProcessedFile, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	// Reject the whole request before touching the store if any file has an
	// unsupported extension.
	for _, f := range files {
		if !extract.Supported(f.Filename) {
			return nil, fmt.Errorf("%w: %s", extract.ErrUnsupportedType, f.Filename)
		}
	}

	if err := s.store.EnsureReady(ctx); err != nil {
		return nil, err
	}

	processed := make([]ProcessedFile, 0, len(files))
	for _, f := range files {
		result, err := s.ingestFile(ctx, f)
		if err != nil {
			return nil, err
		}
		processed = append(processed, result.file)

		if s.publisher != nil {
			record := model.UploadRecord{
				Filename:      f.Filename,
				UploadedBy:    uploadedBy,
				NumSentences:  result.file.Metadata.NumSentences,
				NumWords:      result.file.Metadata.NumWords,
				NumCharacters: result.file.Metadata.NumCharacters,
				ChunkCount:    result.chunkCount,
				ProcessedAt:   result.file.ProcessedAt,
			}
			if err := s.publisher.Publish(ctx, record); err != nil {
				log.Printf("publish upload audit for %s failed: %v", f.Filename, err)
			}
		}
	}
	return processed, nil
}

type ingestFileResult struct {
	file       ProcessedFile
	chunkCount int
}

func (s *IngestService) ingestFile(ctx context.Context, f UploadedFile) (*ingestFileResult, error) {
	text, err := extract.Text(f.Filename, f.Data)
	if err != nil {
		return nil, err
	}

	normalized, stats := textproc.Preprocess(text)
	chunks, err := s.chunker.Split(normalized)
	if err != nil {
		return nil, fmt.Errorf("chunk %s failed: %w", f.Filename, err)
	}

	documentID := uuid.New().String()
	records := make([]vectorstore.Record, 0, len(chunks))
	for start := 0; start < len(chunks); start += s.embedBatchSize {
		end := start + s.embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		vectors, err := s.embedder.EmbedBatch(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("embed chunks of %s failed: %w", f.Filename, err)
		}
		if len(vectors) != len(batch) {
			return nil, fmt.Errorf("embed chunks of %s failed: got %d vectors for %d chunks", f.Filename, len(vectors), len(batch))
		}

		for i, chunk := range batch {
			index := start + i
			records = append(records, vectorstore.Record{
				ID:         fmt.Sprintf("%s-chunk%d", documentID, index),
				Content:    chunk,
				Vector:     vectors[i],
				DocumentID: documentID,
				Filename:   f.Filename,
				ChunkIndex: index,
			})
		}
	}

	if len(records) > 0 {
		if err := s.store.Store(ctx, records); err != nil {
			return nil, fmt.Errorf("store chunks of %s failed: %w", f.Filename, err)
		}
	}

	return &ingestFileResult{
		file: ProcessedFile{
			Filename:    f.Filename,
			ProcessedAt: time.Now().UTC(),
			Metadata:    stats,
		},
		chunkCount: len(records),
	}, nil
}

// DeleteAll drops every stored chunk. Irreversible, and not partitioned per
// user. Safe to repeat; an already empty store is success.
func (s *IngestService) DeleteAll(ctx context.Context) error {
	return s.store.DeleteAll(ctx)
}
