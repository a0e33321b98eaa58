package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jonathan/job-matcher/internal/types"
)

const (
	openRouterBaseURL = "https://openrouter.ai/api/v1"
	// Free-tier OpenRouter models can be slow, so the ceiling is higher
	// than the Anthropic one.
	openRouterTimeout = 60 * time.Second
)

// openRouterClient implements Client over OpenRouter's OpenAI-compatible
// chat-completions endpoint
type openRouterClient struct {
	model   string
	apiKey  string
	baseURL string
	timeout time.Duration
	http    httpDoer
}

func newOpenRouterClient(model, apiKey string, doer httpDoer) *openRouterClient {
	if doer == nil {
		doer = &http.Client{}
	}
	return &openRouterClient{
		model:   model,
		apiKey:  apiKey,
		baseURL: openRouterBaseURL,
		timeout: openRouterTimeout,
		http:    doer,
	}
}

func (c *openRouterClient) Provider() types.Provider {
	return types.ProviderOpenRouter
}

// OpenAI-compatible chat-completion request/response shapes

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature *float64      `json:"temperature,omitempty"`
}

type chatCompletionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// SendPrompt sends a conversation to OpenRouter. System messages are passed
// through in the conversation, which the OpenAI-compatible API supports.
func (c *openRouterClient) SendPrompt(ctx context.Context, messages []types.AIMessage, opts SendOptions) (*types.AIResponse, error) {
	if c.apiKey == "" {
		return nil, &ProviderError{
			Kind:     KindMissingCredential,
			Provider: types.ProviderOpenRouter,
			Message:  "no API key configured for openrouter",
		}
	}

	reqBody := chatCompletionRequest{
		Model:       c.model,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}
	for _, m := range messages {
		reqBody.Messages = append(reqBody.Messages, chatMessage{Role: m.Role, Content: m.Content})
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &ProviderError{
			Kind:     KindProviderError,
			Provider: types.ProviderOpenRouter,
			Message:  "failed to marshal request",
			Cause:    err,
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, &ProviderError{
			Kind:     KindProviderError,
			Provider: types.ProviderOpenRouter,
			Message:  "failed to create request",
			Cause:    err,
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &ProviderError{
				Kind:     KindTimeout,
				Provider: types.ProviderOpenRouter,
				Message:  fmt.Sprintf("request timed out after %s", c.timeout),
				Cause:    err,
			}
		}
		return nil, &ProviderError{
			Kind:     KindProviderError,
			Provider: types.ProviderOpenRouter,
			Message:  "request failed",
			Cause:    err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProviderError{
			Kind:     KindProviderError,
			Provider: types.ProviderOpenRouter,
			Message:  "failed to read response body",
			Cause:    err,
		}
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return nil, &ProviderError{
			Kind:     KindInvalidKey,
			Provider: types.ProviderOpenRouter,
			Status:   resp.StatusCode,
			Message:  "openrouter rejected the API key",
		}
	case http.StatusPaymentRequired:
		return nil, &ProviderError{
			Kind:     KindInsufficientFunds,
			Provider: types.ProviderOpenRouter,
			Status:   resp.StatusCode,
			Message:  "insufficient credits on openrouter account",
		}
	case http.StatusTooManyRequests:
		return nil, &ProviderError{
			Kind:     KindRateLimited,
			Provider: types.ProviderOpenRouter,
			Status:   resp.StatusCode,
			Message:  "rate limited by openrouter",
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ProviderError{
			Kind:     KindProviderError,
			Provider: types.ProviderOpenRouter,
			Status:   resp.StatusCode,
			Message:  fmt.Sprintf("openrouter returned %d: %s", resp.StatusCode, truncateBody(body)),
		}
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &ProviderError{
			Kind:     KindProviderError,
			Provider: types.ProviderOpenRouter,
			Message:  "failed to decode response",
			Cause:    err,
		}
	}
	if len(parsed.Choices) == 0 {
		return nil, &ProviderError{
			Kind:     KindProviderError,
			Provider: types.ProviderOpenRouter,
			Message:  "empty response from openrouter",
		}
	}

	model := parsed.Model
	if model == "" {
		model = c.model
	}

	return &types.AIResponse{
		Content:  parsed.Choices[0].Message.Content,
		Model:    model,
		Provider: types.ProviderOpenRouter,
		Usage: &types.TokenUsage{
			InputTokens:  parsed.Usage.PromptTokens,
			OutputTokens: parsed.Usage.CompletionTokens,
		},
	}, nil
}
