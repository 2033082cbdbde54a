package pipe

import "context"

// Request is the chat request body handed to a pipe by the host.
type Request struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	TopP        *float64      `json:"top_p,omitempty"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
	Stream      bool          `json:"stream,omitempty"`
}

// Stream exposes a streaming response interface. It is a single-consumer
// pull: the caller drives consumption with Next and stops by calling Close.
type Stream interface {
	Next() bool
	Content() string
	Err() error
	Close() error
}

// Result is a pipe's answer: plain text for non-streaming requests,
// an incremental Stream otherwise. Exactly one of the two is set.
type Result struct {
	Text   string
	Stream Stream
}

// ModelInfo describes one model a pipe serves, for the host's model picker.
type ModelInfo struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	ContextLength  int    `json:"context_length"`
	SupportsVision bool   `json:"supports_vision"`
	Description    string `json:"description"`
}

// Pipe is a request/response adapter between the host's chat format and one
// upstream API. Run never fails: every error is folded into a descriptive
// text result or error chunk so a chat session always gets an answer.
type Pipe interface {
	ID() string
	Models() []ModelInfo
	Run(ctx context.Context, req Request, report StatusReporter) Result
}
