package llm

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// openaiSystemRole frames every completion. Task-specific instructions
// travel in the prompt, not here.
const openaiSystemRole = "You are a precise coding assistant."

// openaiKeySecretPath is where the container runtime mounts the API key
// when it is supplied as a secret instead of an environment variable.
const openaiKeySecretPath = "/run/secrets/openai_api_key"

type OpenAIClient struct {
	client *openai.Client
	model  string
}

// resolveOpenAIKey prefers the environment variable and falls back to the
// mounted container secret.
func resolveOpenAIKey() (string, error) {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key, nil
	}
	raw, err := os.ReadFile(openaiKeySecretPath)
	if err != nil {
		slog.Error("OPENAI_API_KEY environment variable not set and secret not found", "path", openaiKeySecretPath)
		return "", fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	slog.Info("Read the OpenAI API key from container secrets")
	return strings.TrimSpace(string(raw)), nil
}

func NewOpenAIClient() (*OpenAIClient, error) {
	apiKey, err := resolveOpenAIKey()
	if err != nil {
		return nil, err
	}
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
		slog.Warn("OPENAI_MODEL not set, defaulting to gpt-4o-mini")
	}
	slog.Info("Initializing OpenAI client", "model", model)
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}, nil
}

// Generate implements the LLMClient interface
func (o *OpenAIClient) Generate(ctx context.Context, prompt string, params GenerationParams) (string, error) {
	slog.Debug("Generating text via OpenAI", "model", o.model)
	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: openaiSystemRole},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if params.Temperature != nil {
		req.Temperature = *params.Temperature
	}
	if params.MaxTokens != nil {
		req.MaxCompletionTokens = *params.MaxTokens
	}
	if params.TopP != nil {
		req.TopP = *params.TopP
	}
	if len(params.Stop) > 0 {
		req.Stop = params.Stop
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		slog.Error("OpenAI API call failed", "error", err)
		return "", fmt.Errorf("OpenAI API call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		slog.Warn("OpenAI returned no choices")
		return "", fmt.Errorf("OpenAI returned no choices")
	}
	slog.Debug("Received response from OpenAI", "finish_reason", resp.Choices[0].FinishReason)
	return resp.Choices[0].Message.Content, nil
}
