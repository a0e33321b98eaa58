package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/job-matcher/internal/types"
)

const (
	anthropicBaseURL = "https://api.anthropic.com"
	anthropicVersion = "2023-06-01"
	// Anthropic responses are usually fast; a 30s ceiling covers large prompts.
	anthropicTimeout = 30 * time.Second
)

// anthropicClient implements Client over the Anthropic Messages API
type anthropicClient struct {
	model   string
	apiKey  string
	baseURL string
	timeout time.Duration
	http    httpDoer
}

func newAnthropicClient(model, apiKey string, doer httpDoer) *anthropicClient {
	if doer == nil {
		doer = &http.Client{}
	}
	return &anthropicClient{
		model:   model,
		apiKey:  apiKey,
		baseURL: anthropicBaseURL,
		timeout: anthropicTimeout,
		http:    doer,
	}
}

func (c *anthropicClient) Provider() types.Provider {
	return types.ProviderAnthropic
}

// Anthropic Messages API request/response shapes

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Temperature *float64           `json:"temperature,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Model string `json:"model"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// SendPrompt sends a conversation to the Anthropic Messages API.
// A leading system-role message becomes the request's system parameter;
// the rest are passed as the conversation.
func (c *anthropicClient) SendPrompt(ctx context.Context, messages []types.AIMessage, opts SendOptions) (*types.AIResponse, error) {
	if c.apiKey == "" {
		return nil, &ProviderError{
			Kind:     KindMissingCredential,
			Provider: types.ProviderAnthropic,
			Message:  "no API key configured for anthropic",
		}
	}

	reqBody := anthropicRequest{
		Model:       c.model,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}
	for i, m := range messages {
		if i == 0 && m.Role == types.RoleSystem {
			reqBody.System = m.Content
			continue
		}
		reqBody.Messages = append(reqBody.Messages, anthropicMessage{Role: m.Role, Content: m.Content})
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &ProviderError{
			Kind:     KindProviderError,
			Provider: types.ProviderAnthropic,
			Message:  "failed to marshal request",
			Cause:    err,
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, &ProviderError{
			Kind:     KindProviderError,
			Provider: types.ProviderAnthropic,
			Message:  "failed to create request",
			Cause:    err,
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &ProviderError{
				Kind:     KindTimeout,
				Provider: types.ProviderAnthropic,
				Message:  fmt.Sprintf("request timed out after %s", c.timeout),
				Cause:    err,
			}
		}
		return nil, &ProviderError{
			Kind:     KindProviderError,
			Provider: types.ProviderAnthropic,
			Message:  "request failed",
			Cause:    err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProviderError{
			Kind:     KindProviderError,
			Provider: types.ProviderAnthropic,
			Message:  "failed to read response body",
			Cause:    err,
		}
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &ProviderError{
			Kind:     KindRateLimited,
			Provider: types.ProviderAnthropic,
			Status:   resp.StatusCode,
			Message:  "rate limited by anthropic",
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ProviderError{
			Kind:     KindProviderError,
			Provider: types.ProviderAnthropic,
			Status:   resp.StatusCode,
			Message:  fmt.Sprintf("anthropic returned %d: %s", resp.StatusCode, truncateBody(body)),
		}
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &ProviderError{
			Kind:     KindProviderError,
			Provider: types.ProviderAnthropic,
			Message:  "failed to decode response",
			Cause:    err,
		}
	}

	var parts []string
	for _, block := range parsed.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	if len(parts) == 0 {
		return nil, &ProviderError{
			Kind:     KindProviderError,
			Provider: types.ProviderAnthropic,
			Message:  "empty response from anthropic",
		}
	}

	model := parsed.Model
	if model == "" {
		model = c.model
	}

	return &types.AIResponse{
		Content:  strings.Join(parts, ""),
		Model:    model,
		Provider: types.ProviderAnthropic,
		Usage: &types.TokenUsage{
			InputTokens:  parsed.Usage.InputTokens,
			OutputTokens: parsed.Usage.OutputTokens,
		},
	}, nil
}

// truncateBody keeps error messages readable when upstream returns a long body
func truncateBody(body []byte) string {
	const maxLen = 500
	s := string(body)
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
