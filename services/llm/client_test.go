package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientFromEnv_NotConfigured(t *testing.T) {
	t.Setenv("LLM_BACKEND_TYPE", "")

	client, err := NewClientFromEnv()
	assert.Nil(t, client)
	assert.ErrorIs(t, err, ErrBackendNotConfigured)
}

func TestNewClientFromEnv_UnknownBackend(t *testing.T) {
	t.Setenv("LLM_BACKEND_TYPE", "watsonx")

	_, err := NewClientFromEnv()
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestNewClientFromEnv_Ollama(t *testing.T) {
	t.Setenv("LLM_BACKEND_TYPE", "ollama")
	t.Setenv("OLLAMA_BASE_URL", "http://localhost:11434/")
	t.Setenv("OLLAMA_MODEL", "test-model")

	client, err := NewClientFromEnv()
	require.NoError(t, err)
	ollama, ok := client.(*OllamaClient)
	require.True(t, ok, "expected an *OllamaClient, got %T", client)
	assert.Equal(t, "http://localhost:11434", ollama.baseURL)
	assert.Equal(t, "test-model", ollama.model)
}

func TestNewClientFromEnv_OllamaMissingBaseURL(t *testing.T) {
	t.Setenv("LLM_BACKEND_TYPE", "ollama")
	t.Setenv("OLLAMA_BASE_URL", "")

	_, err := NewClientFromEnv()
	require.Error(t, err)
}

func TestNewClientFromEnv_OpenAI(t *testing.T) {
	t.Setenv("LLM_BACKEND_TYPE", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_MODEL", "gpt-4o-mini")

	client, err := NewClientFromEnv()
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, client)
}

func TestOllamaClient_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req ollamaGenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.False(t, req.Stream)
		assert.Contains(t, req.Prompt, "rewrite me")

		_ = json.NewEncoder(w).Encode(ollamaGenerateResponse{
			Model:    req.Model,
			Response: "rewritten",
			Done:     true,
		})
	}))
	defer server.Close()

	t.Setenv("OLLAMA_BASE_URL", server.URL)
	t.Setenv("OLLAMA_MODEL", "test-model")
	client, err := NewOllamaClient()
	require.NoError(t, err)

	out, err := client.Generate(context.Background(), "rewrite me", GenerationParams{})
	require.NoError(t, err)
	assert.Equal(t, "rewritten", out)
}

func TestOllamaClient_GenerateModelNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": "model 'missing' not found"}`))
	}))
	defer server.Close()

	t.Setenv("OLLAMA_BASE_URL", server.URL)
	t.Setenv("OLLAMA_MODEL", "missing")
	client, err := NewOllamaClient()
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "prompt", GenerationParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ollama pull")
}

func TestOllamaClient_GenerateServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("overloaded"))
	}))
	defer server.Close()

	t.Setenv("OLLAMA_BASE_URL", server.URL)
	t.Setenv("OLLAMA_MODEL", "test-model")
	client, err := NewOllamaClient()
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "prompt", GenerationParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestNewClientFromEnv_Anthropic(t *testing.T) {
	for _, backend := range []string{"claude", "anthropic"} {
		t.Run(backend, func(t *testing.T) {
			t.Setenv("LLM_BACKEND_TYPE", backend)
			t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")
			t.Setenv("CLAUDE_MODEL", "test-model")

			client, err := NewClientFromEnv()
			require.NoError(t, err)
			assert.IsType(t, &AnthropicClient{}, client)
		})
	}
}

func TestNewClientFromEnv_Local(t *testing.T) {
	t.Setenv("LLM_BACKEND_TYPE", "local")
	t.Setenv("LLM_SERVICE_URL_BASE", "http://localhost:8080/")

	client, err := NewClientFromEnv()
	require.NoError(t, err)
	local, ok := client.(*LocalLlamaCppClient)
	require.True(t, ok, "expected a *LocalLlamaCppClient, got %T", client)
	assert.Equal(t, "http://localhost:8080", local.baseURL)
}

func TestAnthropicClient_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sk-ant-test", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicAPIVersion, r.Header.Get("anthropic-version"))

		var req anthropicRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Contains(t, req.Messages[0].Content, "rewrite me")

		_ = json.NewEncoder(w).Encode(anthropicResponse{
			Content: []anthropicContent{{Type: "text", Text: "rewritten"}},
		})
	}))
	defer server.Close()

	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")
	t.Setenv("CLAUDE_MODEL", "test-model")
	t.Setenv("ANTHROPIC_BASE_URL", server.URL)
	client, err := NewAnthropicClient()
	require.NoError(t, err)

	out, err := client.Generate(context.Background(), "rewrite me", GenerationParams{})
	require.NoError(t, err)
	assert.Equal(t, "rewritten", out)
}

func TestAnthropicClient_GenerateServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"type": "rate_limit_error", "message": "slow down"}}`))
	}))
	defer server.Close()

	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")
	t.Setenv("ANTHROPIC_BASE_URL", server.URL)
	client, err := NewAnthropicClient()
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "prompt", GenerationParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestAnthropicClient_GenerateNoTextBlock(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(anthropicResponse{Content: []anthropicContent{}})
	}))
	defer server.Close()

	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")
	t.Setenv("ANTHROPIC_BASE_URL", server.URL)
	client, err := NewAnthropicClient()
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "prompt", GenerationParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty content")
}

func TestLocalLlamaCppClient_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/completion", r.URL.Path)

		var req llamaCppCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Prompt, "rewrite me")
		assert.Equal(t, 128, req.NPredict)

		_ = json.NewEncoder(w).Encode(llamaCppCompletionResponse{Content: "rewritten"})
	}))
	defer server.Close()

	t.Setenv("LLM_SERVICE_URL_BASE", server.URL)
	client, err := NewLocalLlamaCppClient()
	require.NoError(t, err)

	maxTokens := 128
	out, err := client.Generate(context.Background(), "rewrite me", GenerationParams{MaxTokens: &maxTokens})
	require.NoError(t, err)
	assert.Equal(t, "rewritten", out)
}
