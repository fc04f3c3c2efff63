package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// rewriteTemperature and rewriteMaxTokens are fixed for rewrite calls;
// the collaborator contract has no per-request tuning surface.
const (
	rewriteTemperature = float32(0.2)
	rewriteMaxTokens   = 4096
)

// Rewriter adapts a generative backend to the review service's rewrite
// contract: given a submission, produce a cleaned-up replacement or
// nothing.
//
// One call makes exactly one backend attempt. There are no retries and no
// timeout beyond what the backend itself enforces; cancellation arrives
// through ctx. Failures are for the caller to absorb.
type Rewriter struct {
	client LLMClient
}

// NewRewriter wraps an LLM backend.
func NewRewriter(client LLMClient) *Rewriter {
	return &Rewriter{client: client}
}

// RewriteCode asks the backend for a rewritten version of code.
//
// The returned string is the bare replacement with any wrapping markdown
// fence removed. A blank completion is reported as ErrEmptyCompletion so
// callers never mistake it for a real rewrite.
func (r *Rewriter) RewriteCode(ctx context.Context, code, language string) (string, error) {
	temperature := rewriteTemperature
	maxTokens := rewriteMaxTokens

	completion, err := r.client.Generate(ctx, buildRewritePrompt(code, language), GenerationParams{
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("rewrite generation failed: %w", err)
	}

	cleaned := stripCodeFence(completion)
	if strings.TrimSpace(cleaned) == "" {
		slog.Warn("Rewrite backend returned an empty completion")
		return "", ErrEmptyCompletion
	}
	return cleaned, nil
}

// buildRewritePrompt frames the submission for a single-shot rewrite.
func buildRewritePrompt(code, language string) string {
	var b strings.Builder
	b.WriteString("Rewrite the following ")
	b.WriteString(language)
	b.WriteString(" code so it resolves TODO comments, keeps every line at 100 characters or fewer, ")
	b.WriteString("uses strict equality where the language distinguishes it, and removes leftover debug statements. ")
	b.WriteString("Preserve the behavior. Reply with only the rewritten code and no explanation.\n\n")
	b.WriteString(code)
	return b.String()
}

// stripCodeFence unwraps a completion of the form ```lang\n...\n``` while
// leaving unfenced completions untouched.
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return s
	}

	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return s
	}
	if strings.TrimSpace(lines[len(lines)-1]) != "```" {
		return s
	}
	return strings.Join(lines[1:len(lines)-1], "\n")
}
