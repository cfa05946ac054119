package model

// ContextItem is one retrieved chunk returned alongside an answer.
// RelevanceScore is cosine similarity, higher means more relevant.
type ContextItem struct {
	Content        string  `json:"content"`
	RelevanceScore float64 `json:"relevance_score"`
}

// QueryAnswer is the result of one retrieval-augmented query. It is also the
// payload cached in Redis, keyed by a hash of the normalized question.
type QueryAnswer struct {
	Response string        `json:"response"`
	Context  []ContextItem `json:"context"`
}
