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

var testConnectionCmd = &cobra.Command{
	Use:   "test-connection",
	Short: "Verify that a provider key and model work",
	Long:  "Perform a minimal ten-token round trip against a provider. Uses the stored key unless --key is given.",
	RunE:  runTestConnection,
}

var (
	testProvider string
	testKey      string
	testModel    string
)

func init() {
	testConnectionCmd.Flags().StringVar(&testProvider, "provider", "", "Provider to test (default: the active provider)")
	testConnectionCmd.Flags().StringVar(&testKey, "key", "", "API key to test (default: the stored key)")
	testConnectionCmd.Flags().StringVar(&testModel, "model", "", "Model to test (default: the provider default)")

	rootCmd.AddCommand(testConnectionCmd)
}

func runTestConnection(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	provider := types.Provider(testProvider)
	key := testKey

	if testProvider == "" || key == "" {
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		resolver := settings.NewResolver(store)
		if testProvider == "" {
			cfg, err := resolver.ProviderConfig(ctx)
			if err != nil {
				return err
			}
			provider = cfg.Provider
		}
		if key == "" {
			key, err = resolver.APIKey(ctx, provider)
			if err != nil {
				return err
			}
		}
	}
	if !provider.IsValid() {
		return fmt.Errorf("unsupported provider: %q", testProvider)
	}

	result := llm.TestConnection(ctx, provider, key, testModel)
	if result.OK {
		fmt.Fprintf(os.Stdout, "OK: %s (%s)\n", result.Provider, result.Model)
	} else {
		fmt.Fprintf(os.Stdout, "FAILED: %s (%s): %s\n", result.Provider, result.Model, result.Message)
	}
	return nil
}
