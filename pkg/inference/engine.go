package inference

import "context"

// Engine is a text-generation backend. Implementations handle
// provider-specific transport for services like Ollama or OpenAI-compatible
// endpoints; callers only ever see the generated text or an error.
type Engine interface {
	// Generate produces a completion for the prompt. An empty model falls
	// back to the engine's configured default.
	Generate(ctx context.Context, prompt string, model string) (string, error)

	// Ping checks backend connectivity without generating anything.
	Ping(ctx context.Context) error
}
