// Package llm wraps the generative backends that can propose code
// rewrites. Backends are selected by environment, constructed once at
// startup, and treated as best-effort collaborators everywhere else.
package llm

import (
	"context"
	"fmt"
	"os"
)

// GenerationParams carries per-request sampling controls. A nil field
// means "use the backend default".
type GenerationParams struct {
	Temperature *float32 `json:"temperature"`
	TopK        *int     `json:"top_k"`
	TopP        *float32 `json:"top_p"`
	MaxTokens   *int     `json:"max_tokens"`
	Stop        []string `json:"stop"`
}

// LLMClient defines the standard interface for any LLM backend
type LLMClient interface {
	Generate(ctx context.Context, prompt string, params GenerationParams) (string, error)
}

// NewClientFromEnv constructs the backend named by LLM_BACKEND_TYPE.
//
// An unset or empty variable returns ErrBackendNotConfigured; callers
// treat that as "rewrites disabled", not as a startup fault.
func NewClientFromEnv() (LLMClient, error) {
	backend := os.Getenv("LLM_BACKEND_TYPE")
	switch backend {
	case "":
		return nil, ErrBackendNotConfigured
	case "openai":
		return NewOpenAIClient()
	case "ollama":
		return NewOllamaClient()
	case "claude", "anthropic":
		return NewAnthropicClient()
	case "local":
		return NewLocalLlamaCppClient()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
