package core

import "context"

// Options controls model behavior; fields are optional per provider.
type Options struct {
	Model           string
	Temperature     float64
	MaxTokens       int
	SystemPrompt    string
	EnableWebSearch bool
	// Images carries base64-encoded image payloads for providers that
	// accept multimodal input. Providers without image support ignore it.
	Images []string
}

// Result is a provider response. Citations is only populated by providers
// that perform their own web search.
type Result struct {
	Text      string
	Citations []string
}

// Client is a provider-agnostic interface for the LLM operations the
// verification pipeline needs.
type Client interface {
	// Complete returns free-form model text for the given input.
	Complete(ctx context.Context, input string, opts Options) (*Result, error)
	// CompleteJSON constrains the response to the given JSON schema and
	// returns the raw JSON bytes for the caller to unmarshal.
	CompleteJSON(ctx context.Context, input string, schema map[string]interface{}, opts Options) ([]byte, error)
}
