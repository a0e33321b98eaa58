// Package settings resolves the active provider configuration and API keys
// from the persisted settings and secret stores. It is pure configuration
// lookup: no network calls, no validation side effects.
package settings

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/job-matcher/internal/llm"
	"github.com/jonathan/job-matcher/internal/types"
)

// Settings keys for the persisted provider selection
const (
	keyProvider = "ai.provider"
	keyModel    = "ai.model"
)

// Store is the settings/secret collaborator. Implementations return empty
// strings for absent values rather than errors.
type Store interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	GetAPIKey(ctx context.Context, provider string) (string, error)
	SaveAPIKey(ctx context.Context, provider, key string) error
}

// ConfigUpdate is a partial provider configuration update. Empty fields
// leave the persisted value untouched.
type ConfigUpdate struct {
	Provider string `validate:"omitempty,oneof=anthropic openrouter"`
	Model    string
}

// Resolver reads and writes provider configuration through a Store
type Resolver struct {
	store    Store
	validate *validator.Validate
}

// NewResolver creates a resolver over the given settings store
func NewResolver(store Store) *Resolver {
	return &Resolver{
		store:    store,
		validate: validator.New(),
	}
}

// ProviderConfig returns the active provider and model. An absent or
// unrecognized provider setting falls back to anthropic; an absent model
// falls back to the provider's compiled-in default, so Model is always
// non-empty.
func (r *Resolver) ProviderConfig(ctx context.Context) (types.ProviderConfig, error) {
	providerSetting, err := r.store.GetSetting(ctx, keyProvider)
	if err != nil {
		return types.ProviderConfig{}, fmt.Errorf("failed to read provider setting: %w", err)
	}

	provider := types.Provider(providerSetting)
	if !provider.IsValid() {
		provider = types.ProviderAnthropic
	}

	model, err := r.store.GetSetting(ctx, keyModel)
	if err != nil {
		return types.ProviderConfig{}, fmt.Errorf("failed to read model setting: %w", err)
	}
	if model == "" {
		model = llm.DefaultModel(provider)
	}

	return types.ProviderConfig{Provider: provider, Model: model}, nil
}

// SaveProviderConfig upserts the provider and/or model selection.
// When the provider changes and no model was given, the persisted model is
// reset so the new provider's default applies.
func (r *Resolver) SaveProviderConfig(ctx context.Context, update ConfigUpdate) error {
	if err := r.validate.Struct(update); err != nil {
		return fmt.Errorf("invalid provider config: %w", err)
	}

	if update.Provider != "" {
		current, err := r.store.GetSetting(ctx, keyProvider)
		if err != nil {
			return fmt.Errorf("failed to read provider setting: %w", err)
		}
		if err := r.store.SetSetting(ctx, keyProvider, update.Provider); err != nil {
			return fmt.Errorf("failed to save provider setting: %w", err)
		}
		if update.Model == "" && current != update.Provider {
			if err := r.store.SetSetting(ctx, keyModel, ""); err != nil {
				return fmt.Errorf("failed to reset model setting: %w", err)
			}
		}
	}

	if update.Model != "" {
		if err := r.store.SetSetting(ctx, keyModel, update.Model); err != nil {
			return fmt.Errorf("failed to save model setting: %w", err)
		}
	}

	return nil
}

// APIKey returns the stored key for a provider, or "" when none is saved
func (r *Resolver) APIKey(ctx context.Context, provider types.Provider) (string, error) {
	key, err := r.store.GetAPIKey(ctx, string(provider))
	if err != nil {
		return "", fmt.Errorf("failed to read API key for %s: %w", provider, err)
	}
	return key, nil
}

// SaveAPIKey stores a key for a provider
func (r *Resolver) SaveAPIKey(ctx context.Context, provider types.Provider, key string) error {
	if !provider.IsValid() {
		return fmt.Errorf("unsupported provider: %q", provider)
	}
	if err := r.store.SaveAPIKey(ctx, string(provider), key); err != nil {
		return fmt.Errorf("failed to save API key for %s: %w", provider, err)
	}
	return nil
}

// HasKeyFor reports whether a non-empty key is stored for the provider
func (r *Resolver) HasKeyFor(ctx context.Context, provider types.Provider) bool {
	key, err := r.APIKey(ctx, provider)
	return err == nil && key != ""
}
