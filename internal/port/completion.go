package port

import "context"

// CompletionRequest is a single two-message chat exchange.
type CompletionRequest struct {
	Model        string
	SystemPrompt string
	UserPrompt   string
	Temperature  float64
}

// CompletionResponse carries the model's text reply.
type CompletionResponse struct {
	Text         string
	Model        string
	FinishReason string
}

// CompletionClient abstracts an LLM chat-completion provider.
type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}
