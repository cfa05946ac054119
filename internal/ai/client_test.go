package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStubServer(t *testing.T) (*httptest.Server, *[]*http.Request, *[]map[string]interface{}) {
	t.Helper()
	var requests []*http.Request
	var bodies []map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		requests = append(requests, r)
		bodies = append(bodies, body)

		switch r.URL.Path {
		case "/v1/chat/completions":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"choices": []map[string]interface{}{
					{"message": map[string]string{"content": "a model answer"}},
				},
			})
		case "/v1/embeddings":
			input := body["input"].([]interface{})
			data := make([]map[string]interface{}, len(input))
			for i := range input {
				data[i] = map[string]interface{}{"embedding": []float32{0.1, 0.2, 0.3}}
			}
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"data": data})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server, &requests, &bodies
}

func newTestClient(server *httptest.Server) *Client {
	return NewClient(Config{
		BaseURL:        server.URL + "/v1",
		APIKey:         "test-key",
		ChatModel:      "chat-model",
		EmbeddingModel: "embed-model",
		Temperature:    0.7,
	})
}

func TestClientComplete(t *testing.T) {
	server, requests, bodies := newStubServer(t)
	client := newTestClient(server)

	answer, err := client.Complete(context.Background(), []ChatMessage{
		{Role: "system", Content: "be helpful"},
		{Role: "user", Content: "a question"},
	})
	require.NoError(t, err)
	assert.Equal(t, "a model answer", answer)

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, "Bearer test-key", req.Header.Get("Authorization"))

	body := (*bodies)[0]
	assert.Equal(t, "chat-model", body["model"])
	assert.InDelta(t, 0.7, body["temperature"].(float64), 1e-9)
	assert.Equal(t, false, body["stream"])
}

func TestClientComplete_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(server)
	_, err := client.Complete(context.Background(), []ChatMessage{{Role: "user", Content: "q"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestClientEmbed(t *testing.T) {
	server, _, bodies := newStubServer(t)
	client := newTestClient(server)

	vector, err := client.Embed(context.Background(), "some text")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vector)

	body := (*bodies)[0]
	assert.Equal(t, "embed-model", body["model"])
}

func TestClientEmbed_EmptyInput(t *testing.T) {
	server, _, _ := newStubServer(t)
	client := newTestClient(server)

	_, err := client.Embed(context.Background(), "   ")
	assert.Error(t, err)
}

func TestClientEmbedBatch(t *testing.T) {
	server, requests, _ := newStubServer(t)
	client := newTestClient(server)

	vectors, err := client.EmbedBatch(context.Background(), []string{"one", "two", "three"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)
	assert.Len(t, *requests, 1, "a batch embeds in a single request")
}

func TestClientEmbedBatch_Empty(t *testing.T) {
	server, requests, _ := newStubServer(t)
	client := newTestClient(server)

	vectors, err := client.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, vectors)
	assert.Empty(t, *requests)
}
