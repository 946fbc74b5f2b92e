package services

import "context"

// Message roles understood by the completion provider.
const (
	MessageRoleSystem    = "system"
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
)

// Message is one entry of the ordered conversation sent to the provider.
type Message struct {
	Role    string
	Content string
}

// ModelParams are the externally configured provider parameters.
type ModelParams struct {
	Model       string
	MaxTokens   int64
	Temperature float64
}

// CompletionClient wraps the external LLM endpoint. Generate makes a single
// attempt; failures surface as ErrRateLimited (provider throttling) or
// ErrUpstream (any other provider or transport failure, including an empty
// completion).
type CompletionClient interface {
	Generate(ctx context.Context, messages []Message, params ModelParams) (string, error)
}
