package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-matcher/internal/types"
)

func newTestOpenRouterClient(serverURL, apiKey string) *openRouterClient {
	c := newOpenRouterClient("meta-llama/llama-3.3-70b-instruct:free", apiKey, nil)
	c.baseURL = serverURL
	return c
}

func TestOpenRouterSendPrompt_Success(t *testing.T) {
	var captured chatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"model": "meta-llama/llama-3.3-70b-instruct:free",
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "hello"}},
			},
			"usage": map[string]int{"prompt_tokens": 20, "completion_tokens": 4},
		})
	}))
	defer server.Close()

	client := newTestOpenRouterClient(server.URL, "secret-key")
	messages := []types.AIMessage{
		{Role: types.RoleSystem, Content: "You are terse."},
		{Role: types.RoleUser, Content: "Say hello."},
	}

	resp, err := client.SendPrompt(context.Background(), messages, SendOptions{MaxTokens: 50})
	require.NoError(t, err)

	assert.Equal(t, "hello", resp.Content)
	assert.Equal(t, types.ProviderOpenRouter, resp.Provider)
	require.NotNil(t, resp.Usage)
	assert.Equal(t, 20, resp.Usage.InputTokens)
	assert.Equal(t, 4, resp.Usage.OutputTokens)

	// System messages travel in the conversation for the OpenAI-style API.
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, types.RoleSystem, captured.Messages[0].Role)
	assert.Equal(t, 50, captured.MaxTokens)
}

func TestOpenRouterSendPrompt_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		kind   ErrorKind
	}{
		{"unauthorized maps to invalid key", http.StatusUnauthorized, KindInvalidKey},
		{"payment required maps to insufficient funds", http.StatusPaymentRequired, KindInsufficientFunds},
		{"too many requests maps to rate limited", http.StatusTooManyRequests, KindRateLimited},
		{"server error maps to provider error", http.StatusBadGateway, KindProviderError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := newTestOpenRouterClient(server.URL, "secret-key")

			_, err := client.SendPrompt(context.Background(), []types.AIMessage{
				{Role: types.RoleUser, Content: "hi"},
			}, SendOptions{MaxTokens: 10})

			require.True(t, IsKind(err, tt.kind), "got %v", err)
			var pe *ProviderError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.status, pe.Status)
			assert.Equal(t, types.ProviderOpenRouter, pe.Provider)
		})
	}
}

func TestOpenRouterSendPrompt_MissingKeySkipsNetwork(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
	}))
	defer server.Close()

	client := newTestOpenRouterClient(server.URL, "")

	_, err := client.SendPrompt(context.Background(), []types.AIMessage{
		{Role: types.RoleUser, Content: "hi"},
	}, SendOptions{MaxTokens: 10})

	assert.True(t, IsKind(err, KindMissingCredential))
	assert.Zero(t, requests)
}

func TestOpenRouterSendPrompt_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer server.Close()

	client := newTestOpenRouterClient(server.URL, "secret-key")

	_, err := client.SendPrompt(context.Background(), []types.AIMessage{
		{Role: types.RoleUser, Content: "hi"},
	}, SendOptions{MaxTokens: 10})

	assert.True(t, IsKind(err, KindProviderError))
}

func TestNewClient(t *testing.T) {
	client, err := NewClient(types.ProviderConfig{Provider: types.ProviderAnthropic}, "key")
	require.NoError(t, err)
	assert.Equal(t, types.ProviderAnthropic, client.Provider())

	client, err = NewClient(types.ProviderConfig{Provider: types.ProviderOpenRouter, Model: "custom"}, "key")
	require.NoError(t, err)
	assert.Equal(t, types.ProviderOpenRouter, client.Provider())

	_, err = NewClient(types.ProviderConfig{Provider: "gemini"}, "key")
	assert.Error(t, err)
}

func TestDefaultModel(t *testing.T) {
	assert.Equal(t, DefaultAnthropicModel, DefaultModel(types.ProviderAnthropic))
	assert.Equal(t, DefaultOpenRouterModel, DefaultModel(types.ProviderOpenRouter))
}
