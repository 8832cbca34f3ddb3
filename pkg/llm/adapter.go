package llm

import "context"

// Message is one chat turn sent to the model.
type Message struct {
	Role    string
	Content string
}

type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Context is the vendor-agnostic request for a completion.
// ForceJSON asks the provider to constrain output to a JSON object when the
// vendor supports it; providers that cannot must still return plain text.
type Context struct {
	Messages  []Message
	ForceJSON bool
}

type Response struct {
	Text         string
	Usage        Usage
	FinishReason string
}

// Adapter is the contract for any chat-completion vendor.
type Adapter interface {
	Generate(ctx context.Context, input Context) (Response, error)
	Name() string
}
