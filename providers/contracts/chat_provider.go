package contracts

import (
	"context"

	"docai/providers/models"
)

// IChatAIProvider relays an assembled prompt to a chat completion endpoint.
//
// Complete waits for the full answer; ChatCompletionRequest streams it as it
// arrives. Neither retries: a failed call terminates and the caller re-invokes.
type IChatAIProvider interface {
	Complete(ctx context.Context, prompt string) (string, error)
	ChatCompletionRequest(ctx context.Context, prompt string) <-chan models.StreamResponse
}
