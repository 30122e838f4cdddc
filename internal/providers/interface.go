package providers

import "context"

// Provider is the narrow contract the generation pipeline consumes: one
// system instruction, one user message, one raw content string back. A
// single attempt per call; retry policy belongs to the caller.
type Provider interface {
	// Complete sends the prompt pair and returns the raw model output.
	Complete(ctx context.Context, systemPrompt, userText string) (string, error)

	// Name returns the provider name for logging.
	Name() string
}
