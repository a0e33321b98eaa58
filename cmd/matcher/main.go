// Package main provides the job-matcher CLI: AI-assisted scoring of stored
// job postings against the user's skill profile.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "matcher",
	Short: "AI-assisted job matching",
	Long:  "matcher scores stored job postings against your skill profile using an LLM provider (Anthropic or OpenRouter) and keeps an append-only history of every match.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
