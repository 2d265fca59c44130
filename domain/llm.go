package domain

import "context"

// Llm abstracts any chat/LLM provider.
type Llm interface {
	// Generate takes a single prompt and returns the model's reply.
	Generate(ctx context.Context, prompt string) (string, error)

	// StreamCompletion starts a streaming completion over a message
	// history with a system instruction. The caller consumes the stream
	// sequentially until io.EOF.
	StreamCompletion(ctx context.Context, req CompletionRequest) (CompletionStream, error)
}

// CompletionRequest carries everything one completion call needs.
type CompletionRequest struct {
	System      string
	Messages    []ChatMessage
	Temperature float32
	TopP        float32
	MaxTokens   int32
}

// CompletionStream yields generated text chunks. Next returns io.EOF when
// the stream is exhausted; any other error is a transport failure.
type CompletionStream interface {
	Next() (string, error)
}

// Embedder turns query text into a vector for retrieval.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// VectorIndex is a nearest-neighbor search over embedded documents.
type VectorIndex interface {
	Query(ctx context.Context, vector []float32, topK int) ([]IndexMatch, error)
}

// IndexMatch is one retrieved record with its metadata text.
type IndexMatch struct {
	ID    string
	Score float64
	Text  string
}

// SpeechSynthesizer renders text as encoded audio bytes.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
