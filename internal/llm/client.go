package llm

import (
	"context"
)

// LLMClient is the reasoning oracle capability: a prompt in, free text out.
// No format compliance is guaranteed beyond what the prompt asks for.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// EmbedderClient embeds a single text into a dense vector.
type EmbedderClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
