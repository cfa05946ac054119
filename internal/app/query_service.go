package app

import (
	"context"
	"errors"
	"log"
	"strings"

	"docqa/internal/ai"
	"docqa/internal/model"
	"docqa/internal/vectorstore"
)

var ErrEmptyQuery = errors.New("query is empty")

const (
	defaultTopK = 3

	// NoContextResponse is returned verbatim when retrieval finds nothing;
	// the chat model is not invoked in that case.
	NoContextResponse = "No relevant information found in the document database."

	systemPrompt = "You are a helpful assistant. Answer the user's question using only the provided context. " +
		"If the context does not contain enough information to answer, say that you do not have enough information. " +
		"Do not make up facts."
)

// ChatCompleter produces an answer from a chat-model conversation.
type ChatCompleter interface {
	Complete(ctx context.Context, messages []ai.ChatMessage) (string, error)
}

// AnswerCache memoizes full answers keyed by the question text.
type AnswerCache interface {
	Get(ctx context.Context, query string) (*model.QueryAnswer, bool, error)
	Set(ctx context.Context, query string, answer *model.QueryAnswer) error
}

type QueryService struct {
	store    vectorstore.Store
	embedder Embedder
	chat     ChatCompleter
	cache    AnswerCache
	topK     int
}

func NewQueryService(
	store vectorstore.Store,
	embedder Embedder,
	chat ChatCompleter,
	cache AnswerCache,
	topK int,
) *QueryService {
	if topK <= 0 {
		topK = defaultTopK
	}
	return &QueryService{
		store:    store,
		embedder: embedder,
		chat:     chat,
		cache:    cache,
		topK:     topK,
	}
}

// Answer runs the retrieval-augmented pipeline: embed the question, fetch
// the top-k most similar chunks, and condition the chat model on them.
func (s *QueryService) Answer(ctx context.Context, query string) (*model.QueryAnswer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	if s.cache != nil {
		cached, hit, err := s.cache.Get(ctx, query)
		if err != nil {
			log.Printf("answer cache get failed: %v", err)
		} else if hit {
			return cached, nil
		}
	}

	queryVector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	results, err := s.store.Search(ctx, queryVector, s.topK)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return &model.QueryAnswer{
			Response: NoContextResponse,
			Context:  []model.ContextItem{},
		}, nil
	}

	answer, err := s.chat.Complete(ctx, buildMessages(query, results))
	if err != nil {
		return nil, err
	}

	contextItems := make([]model.ContextItem, len(results))
	for i, r := range results {
		contextItems[i] = model.ContextItem{
			Content:        r.Content,
			RelevanceScore: r.Score,
		}
	}

	result := &model.QueryAnswer{
		Response: strings.TrimSpace(answer),
		Context:  contextItems,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, query, result); err != nil {
			log.Printf("answer cache set failed: %v", err)
		}
	}
	return result, nil
}

func buildMessages(query string, results []vectorstore.SearchResult) []ai.ChatMessage {
	var contextBlock strings.Builder
	for _, r := range results {
		contextBlock.WriteString("\n---\n")
		contextBlock.WriteString(r.Content)
	}
	contextBlock.WriteString("\n---")

	userContent := "Context:" + contextBlock.String() + "\n\nQuestion: " + query + "\n\nAnswer:"

	return []ai.ChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userContent},
	}
}
