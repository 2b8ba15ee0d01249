package models

import "errors"

// ErrMissingAPIKey is returned before any network I/O when no credential is
// configured.
var ErrMissingAPIKey = errors.New("API key is not configured, set API_KEY or ai_provider_config.api_key")

// StreamResponse is one event of a streamed chat completion.
//
// Frame carries the canonical SSE record ("data: <payload>\n\n") for relaying
// to web clients; Content carries extracted answer text for terminal
// rendering, buffered up to the next newline. Either may be empty on a given
// event. Done marks the vendor's completion signal, Err a terminal failure.
type StreamResponse struct {
	Frame   string
	Content string
	Done    bool
	Err     error
}

// Message is one chat turn sent to the completion endpoint.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionRequest is the JSON payload of a chat completion call.
type ChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Stream      bool      `json:"stream"`
	Temperature *float32  `json:"temperature,omitempty"`
}

// ChatCompletionResponse is a non-streaming completion response; for stream
// chunks the delta field holds the incremental content instead.
type ChatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// AIError is the error envelope returned by the vendor on non-2xx responses.
type AIError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}
