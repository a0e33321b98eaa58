package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonathan/job-matcher/internal/types"
)

// catalogTTL is how long a fetched model list is considered fresh
const catalogTTL = time.Hour

// anthropicModels is the compiled-in Anthropic catalog. Anthropic's model
// lineup changes rarely and the list endpoint requires a key, so the
// catalog ships with the binary.
var anthropicModels = []types.ModelInfo{
	{ID: "claude-3-5-haiku-latest", Name: "Claude 3.5 Haiku"},
	{ID: "claude-3-5-sonnet-latest", Name: "Claude 3.5 Sonnet"},
	{ID: "claude-sonnet-4-20250514", Name: "Claude Sonnet 4"},
	{ID: "claude-opus-4-20250514", Name: "Claude Opus 4"},
}

type catalogEntry struct {
	models    []types.ModelInfo
	fetchedAt time.Time
}

// Catalog caches provider model lists in process with a TTL.
// It is the one piece of process-wide mutable state in the llm package;
// reads and refreshes are guarded by a mutex, and concurrent refreshes of
// the same provider are collapsed with singleflight.
type Catalog struct {
	mu      sync.Mutex
	entries map[types.Provider]catalogEntry

	group singleflight.Group
	http  httpDoer
	ttl   time.Duration
	now   func() time.Time
}

// NewCatalog creates a model catalog with the default TTL
func NewCatalog() *Catalog {
	return &Catalog{
		entries: make(map[types.Provider]catalogEntry),
		http:    &http.Client{Timeout: 15 * time.Second},
		ttl:     catalogTTL,
		now:     time.Now,
	}
}

// Models returns the model list for a provider. Fresh cache entries are
// served directly unless forceRefresh is set. When an upstream fetch fails,
// a stale cache entry is served if one exists; otherwise the call fails
// with KindCatalogUnavailable.
func (c *Catalog) Models(ctx context.Context, provider types.Provider, forceRefresh bool) ([]types.ModelInfo, error) {
	if provider == types.ProviderAnthropic {
		return anthropicModels, nil
	}
	if provider != types.ProviderOpenRouter {
		return nil, &ProviderError{
			Kind:     KindCatalogUnavailable,
			Provider: provider,
			Message:  fmt.Sprintf("no model catalog for provider %q", provider),
		}
	}

	c.mu.Lock()
	entry, cached := c.entries[provider]
	c.mu.Unlock()

	if cached && !forceRefresh && c.now().Sub(entry.fetchedAt) < c.ttl {
		return entry.models, nil
	}

	models, err, _ := c.group.Do(string(provider), func() (any, error) {
		fetched, err := c.fetchOpenRouterModels(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[provider] = catalogEntry{models: fetched, fetchedAt: c.now()}
		c.mu.Unlock()
		return fetched, nil
	})
	if err != nil {
		// Serve stale on upstream failure rather than leaving the UI empty.
		if cached {
			return entry.models, nil
		}
		return nil, &ProviderError{
			Kind:     KindCatalogUnavailable,
			Provider: provider,
			Message:  "failed to fetch model catalog",
			Cause:    err,
		}
	}

	return models.([]types.ModelInfo), nil
}

type openRouterModelList struct {
	Data []struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
	} `json:"data"`
}

func (c *Catalog) fetchOpenRouterModels(ctx context.Context) ([]types.ModelInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, openRouterBaseURL+"/models", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("catalog request returned %d: %s", resp.StatusCode, truncateBody(body))
	}

	var list openRouterModelList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}

	models := make([]types.ModelInfo, 0, len(list.Data))
	for _, m := range list.Data {
		models = append(models, types.ModelInfo{ID: m.ID, Name: m.Name, Description: m.Description})
	}
	return models, nil
}
