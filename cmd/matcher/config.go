package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-matcher/internal/settings"
	"github.com/jonathan/job-matcher/internal/types"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the provider configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active provider, model, and key status",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change the provider and/or model",
	RunE:  runConfigSet,
}

var configSetKeyCmd = &cobra.Command{
	Use:   "set-key",
	Short: "Save an API key for a provider",
	RunE:  runConfigSetKey,
}

var (
	configProvider string
	configModel    string
	configKey      string
)

func init() {
	configSetCmd.Flags().StringVar(&configProvider, "provider", "", "Provider to use (anthropic or openrouter)")
	configSetCmd.Flags().StringVar(&configModel, "model", "", "Model to use")

	configSetKeyCmd.Flags().StringVar(&configProvider, "provider", "", "Provider the key belongs to (default: the active provider)")
	configSetKeyCmd.Flags().StringVar(&configKey, "key", "", "API key to save (required)")
	_ = configSetKeyCmd.MarkFlagRequired("key")

	configCmd.AddCommand(configShowCmd, configSetCmd, configSetKeyCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	resolver := settings.NewResolver(store)
	cfg, err := resolver.ProviderConfig(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Provider: %s\n", cfg.Provider)
	fmt.Fprintf(os.Stdout, "Model:    %s\n", cfg.Model)
	for _, provider := range []types.Provider{types.ProviderAnthropic, types.ProviderOpenRouter} {
		status := "not set"
		if resolver.HasKeyFor(ctx, provider) {
			status = "set"
		}
		fmt.Fprintf(os.Stdout, "Key for %s: %s\n", provider, status)
	}
	return nil
}

func runConfigSet(_ *cobra.Command, _ []string) error {
	if configProvider == "" && configModel == "" {
		return fmt.Errorf("nothing to change: pass --provider and/or --model")
	}

	ctx := context.Background()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	resolver := settings.NewResolver(store)
	if err := resolver.SaveProviderConfig(ctx, settings.ConfigUpdate{
		Provider: configProvider,
		Model:    configModel,
	}); err != nil {
		return err
	}

	cfg, err := resolver.ProviderConfig(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Provider: %s\nModel:    %s\n", cfg.Provider, cfg.Model)
	return nil
}

func runConfigSetKey(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	resolver := settings.NewResolver(store)

	provider := types.Provider(configProvider)
	if configProvider == "" {
		cfg, err := resolver.ProviderConfig(ctx)
		if err != nil {
			return err
		}
		provider = cfg.Provider
	}

	if err := resolver.SaveAPIKey(ctx, provider, configKey); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Saved API key for %s\n", provider)
	return nil
}
