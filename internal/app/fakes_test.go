package app

import (
	"context"
	"errors"
	"strings"

	"docqa/internal/ai"
	"docqa/internal/model"
	"docqa/internal/vectorstore"
)

type fakeUserStore struct {
	users map[string]*model.User
}

func (f *fakeUserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	return nil, nil
}

// fakeEmbedder maps text onto a fixed 3-dimensional space so cosine
// similarity between related strings is deterministic in tests.
type fakeEmbedder struct {
	vectors    map[string][]float32
	embedCalls int
	batchCalls [][]string
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.embedCalls++
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return []float32{1, 0, 0}, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	f.batchCalls = append(f.batchCalls, texts)
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if v, ok := f.vectors[t]; ok {
			out[i] = v
		} else {
			out[i] = []float32{1, 0, 0}
		}
	}
	return out, nil
}

type fakeChat struct {
	response string
	calls    int
	messages []ai.ChatMessage
}

func (f *fakeChat) Complete(ctx context.Context, messages []ai.ChatMessage) (string, error) {
	f.calls++
	f.messages = messages
	if f.response == "" {
		return "stub answer", nil
	}
	return f.response, nil
}

type fakeCache struct {
	entries map[string]*model.QueryAnswer
	gets    int
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]*model.QueryAnswer{}}
}

func (f *fakeCache) Get(ctx context.Context, query string) (*model.QueryAnswer, bool, error) {
	f.gets++
	a, ok := f.entries[strings.ToLower(query)]
	return a, ok, nil
}

func (f *fakeCache) Set(ctx context.Context, query string, answer *model.QueryAnswer) error {
	f.sets++
	f.entries[strings.ToLower(query)] = answer
	return nil
}

type fakePublisher struct {
	records []model.UploadRecord
	err     error
}

func (f *fakePublisher) Publish(ctx context.Context, record model.UploadRecord) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, record)
	return nil
}

// failingStore errors on every operation, for exercising failure paths.
type failingStore struct{}

var errStoreDown = errors.New("vector store unavailable")

func (failingStore) EnsureReady(ctx context.Context) error { return errStoreDown }
func (failingStore) Store(ctx context.Context, records []vectorstore.Record) error {
	return errStoreDown
}
func (failingStore) Search(ctx context.Context, vector []float32, topK int) ([]vectorstore.SearchResult, error) {
	return nil, errStoreDown
}
func (failingStore) Count(ctx context.Context) (int, error) { return 0, errStoreDown }
func (failingStore) DeleteAll(ctx context.Context) error    { return errStoreDown }
