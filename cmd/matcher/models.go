package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-matcher/internal/llm"
	"github.com/jonathan/job-matcher/internal/settings"
	"github.com/jonathan/job-matcher/internal/types"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models available for a provider",
	RunE:  runModels,
}

var (
	modelsProvider string
	modelsRefresh  bool
)

func init() {
	modelsCmd.Flags().StringVar(&modelsProvider, "provider", "", "Provider to list models for (default: the active provider)")
	modelsCmd.Flags().BoolVar(&modelsRefresh, "refresh", false, "Bypass the cached catalog")

	rootCmd.AddCommand(modelsCmd)
}

func runModels(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	provider := types.Provider(modelsProvider)
	if modelsProvider == "" {
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		cfg, err := settings.NewResolver(store).ProviderConfig(ctx)
		if err != nil {
			return err
		}
		provider = cfg.Provider
	} else if !provider.IsValid() {
		return fmt.Errorf("unsupported provider: %q", modelsProvider)
	}

	models, err := llm.NewCatalog().Models(ctx, provider, modelsRefresh)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Models for %s:\n", provider)
	for _, model := range models {
		if model.Name != "" && model.Name != model.ID {
			fmt.Fprintf(os.Stdout, "  %s  (%s)\n", model.ID, model.Name)
		} else {
			fmt.Fprintf(os.Stdout, "  %s\n", model.ID)
		}
	}
	return nil
}
