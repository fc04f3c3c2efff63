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

type LocalLlamaCppClient struct {
	httpClient *http.Client
	baseURL    string
}

type llamaCppCompletionRequest struct {
	Prompt      string   `json:"prompt"`
	NPredict    int      `json:"n_predict"`
	Temperature *float32 `json:"temperature,omitempty"`
	TopK        *int     `json:"top_k,omitempty"`
	TopP        *float32 `json:"top_p,omitempty"`
	Stop        []string `json:"stop,omitempty"`
}

type llamaCppCompletionResponse struct {
	Content string `json:"content"`
}

func NewLocalLlamaCppClient() (*LocalLlamaCppClient, error) {
	baseURL := os.Getenv("LLM_SERVICE_URL_BASE")
	if baseURL == "" {
		return nil, fmt.Errorf("LLM_SERVICE_URL_BASE environment variable not set")
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	slog.Info("Initializing local llama.cpp client", "base_url", baseURL)
	return &LocalLlamaCppClient{
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		baseURL:    baseURL,
	}, nil
}

// Generate implements the LLMClient interface
func (l *LocalLlamaCppClient) Generate(ctx context.Context, prompt string,
	params GenerationParams) (string, error) {

	payload := llamaCppCompletionRequest{
		Prompt:      prompt,
		NPredict:    2048,
		Temperature: params.Temperature,
		TopK:        params.TopK,
		TopP:        params.TopP,
		Stop:        params.Stop,
	}
	if params.MaxTokens != nil {
		payload.NPredict = *params.MaxTokens
	}

	reqBodyBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request to llama.cpp: %w", err)
	}

	completionURL := l.baseURL + "/completion"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, completionURL, bytes.NewBuffer(reqBodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request to llama.cpp: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	slog.Debug("Generating text via llama.cpp", "url", completionURL)
	resp, err := l.httpClient.Do(req)
	if err != nil {
		slog.Error("llama.cpp API call failed", "error", err)
		return "", fmt.Errorf("llama.cpp API call failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body from llama.cpp: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		slog.Error("llama.cpp returned an error", "status_code", resp.StatusCode, "response", string(body))
		return "", fmt.Errorf("llama.cpp failed with status %d: %s", resp.StatusCode, string(body))
	}

	var completion llamaCppCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", fmt.Errorf("failed to parse llama.cpp response: %w", err)
	}

	slog.Debug("Received response from llama.cpp")
	return completion.Content, nil
}
