package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	anthropicAPIVersion = "2023-06-01"
	anthropicBaseURL    = "https://api.anthropic.com/v1/messages"

	// anthropicKeySecretPath is where the container runtime mounts the
	// API key when it is supplied as a secret instead of an env var.
	anthropicKeySecretPath = "/run/secrets/anthropic_api_key"

	anthropicDefaultMaxTokens = 4096
)

type anthropicRequest struct {
	Model     string             `json:"model"`
	Messages  []anthropicMessage `json:"messages"`
	MaxTokens int                `json:"max_tokens"`

	Temperature *float32 `json:"temperature,omitempty"`
	TopP        *float32 `json:"top_p,omitempty"`
	TopK        *int     `json:"top_k,omitempty"`
	StopSeqs    []string `json:"stop_sequences,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []anthropicContent `json:"content"`
	Error   *anthropicError    `json:"error,omitempty"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type AnthropicClient struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string
}

// resolveAnthropicKey prefers the environment variable and falls back to
// the mounted container secret.
func resolveAnthropicKey() (string, error) {
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		return key, nil
	}
	raw, err := os.ReadFile(anthropicKeySecretPath)
	if err != nil {
		slog.Error("ANTHROPIC_API_KEY environment variable not set and secret not found", "path", anthropicKeySecretPath)
		return "", fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
	}
	slog.Info("Read the Anthropic API key from container secrets")
	return strings.TrimSpace(string(raw)), nil
}

func NewAnthropicClient() (*AnthropicClient, error) {
	apiKey, err := resolveAnthropicKey()
	if err != nil {
		return nil, err
	}
	model := os.Getenv("CLAUDE_MODEL")
	if model == "" {
		model = "claude-3-5-sonnet-20240620"
		slog.Warn("CLAUDE_MODEL not set, defaulting to claude-3-5-sonnet-20240620")
	}
	baseURL := os.Getenv("ANTHROPIC_BASE_URL")
	if baseURL == "" {
		baseURL = anthropicBaseURL
	}
	slog.Info("Initializing Anthropic client", "model", model)
	return &AnthropicClient{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		apiKey:     apiKey,
		model:      model,
		baseURL:    baseURL,
	}, nil
}

// Generate implements the LLMClient interface
func (a *AnthropicClient) Generate(ctx context.Context, prompt string, params GenerationParams) (string, error) {
	payload := anthropicRequest{
		Model:       a.model,
		Messages:    []anthropicMessage{{Role: "user", Content: prompt}},
		MaxTokens:   anthropicDefaultMaxTokens,
		Temperature: params.Temperature,
		TopP:        params.TopP,
		TopK:        params.TopK,
		StopSeqs:    params.Stop,
	}
	if params.MaxTokens != nil {
		payload.MaxTokens = *params.MaxTokens
	}

	reqBodyBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request to Anthropic: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL, bytes.NewBuffer(reqBodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request to Anthropic: %w", err)
	}
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", anthropicAPIVersion)
	req.Header.Set("content-type", "application/json")

	slog.Debug("Generating text via Anthropic", "model", a.model)
	resp, err := a.httpClient.Do(req)
	if err != nil {
		slog.Error("Anthropic API call failed", "error", err)
		return "", fmt.Errorf("Anthropic API call failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body from Anthropic: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		slog.Error("Anthropic returned an error", "status_code", resp.StatusCode, "response", string(bodyBytes))
		return "", fmt.Errorf("anthropic API returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var apiResp anthropicResponse
	if err := json.Unmarshal(bodyBytes, &apiResp); err != nil {
		return "", fmt.Errorf("failed to parse Anthropic response: %w", err)
	}
	if apiResp.Error != nil {
		return "", fmt.Errorf("anthropic API error: %s - %s", apiResp.Error.Type, apiResp.Error.Message)
	}
	if len(apiResp.Content) == 0 {
		return "", fmt.Errorf("received empty content from Anthropic")
	}

	finalText := ""
	for _, block := range apiResp.Content {
		if block.Type == "text" {
			finalText += block.Text
		}
	}
	if finalText == "" {
		return "", fmt.Errorf("received content but no text block found")
	}

	slog.Debug("Received response from Anthropic")
	return finalText, nil
}
