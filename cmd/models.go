/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/longkey1/healthbot/internal/anthropic"
	"github.com/longkey1/healthbot/internal/gemini"
	"github.com/longkey1/healthbot/internal/healthbot"
	"github.com/longkey1/healthbot/internal/healthbot/config"
	"github.com/longkey1/healthbot/internal/openai"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var defaultModels = map[string]string{
	gemini.ProviderName:    gemini.DefaultModel,
	openai.ProviderName:    openai.DefaultModel,
	anthropic.ProviderName: anthropic.DefaultModel,
}

var supportedProviders = []string{gemini.ProviderName, openai.ProviderName, anthropic.ProviderName}

// modelsCmd represents the models command
var modelsCmd = &cobra.Command{
	Use:   "models [provider]",
	Short: "List available models for the specified provider(s)",
	Long: `List all available models for the specified provider.
Fetches the latest model information directly from the provider's API.

Supported providers: gemini, openai, anthropic

If no provider is specified, lists models from every provider with a token.

Example:
  healthbot models           # List models from all providers
  healthbot models gemini    # List Gemini models`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		providers := supportedProviders
		if len(args) > 0 {
			if !slices.Contains(supportedProviders, args[0]) {
				return fmt.Errorf("unsupported provider '%s'\nSupported providers: %s", args[0], strings.Join(supportedProviders, ", "))
			}
			providers = []string{args[0]}
		}

		log := newCLILogger()
		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout)
		defer cancel()

		successCount := 0
		var failures []string
		for _, name := range providers {
			if verbose {
				fmt.Fprintf(os.Stderr, "Listing models for provider: %s\n", name)
			}

			models, err := listModels(ctx, *cfg, name, &log)
			if err != nil {
				failures = append(failures, fmt.Sprintf("Warning: Skipping %s - %v", name, err))
				continue
			}

			if successCount > 0 {
				fmt.Println() // Add blank line between providers
			}
			successCount++
			printModels(os.Stdout, name, models)
		}

		for _, f := range failures {
			fmt.Fprintln(os.Stderr, f)
		}
		return nil
	},
}

// listModels queries one provider, using a copy of cfg pointed at it.
func listModels(ctx context.Context, cfg config.Config, name string, logger *zerolog.Logger) ([]healthbot.ModelInfo, error) {
	cfg.Model = healthbot.FormatModelString(name, defaultModels[name])
	if _, err := cfg.GetToken(name); err != nil {
		return nil, fmt.Errorf("failed to get token: %w", err)
	}

	provider, err := newProvider(&cfg, logger)
	if err != nil {
		return nil, err
	}

	models, err := provider.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	if len(models) == 0 {
		return nil, fmt.Errorf("no models returned from API")
	}
	return models, nil
}

func printModels(w io.Writer, provider string, models []healthbot.ModelInfo) {
	fmt.Fprintf(w, "Available models for %s:\n\n", provider)

	// Calculate column widths
	maxModelWidth := 15
	maxModelIDWidth := 15
	for _, model := range models {
		modelName := healthbot.FormatModelString(provider, model.ID)
		if len(modelName) > maxModelWidth {
			maxModelWidth = len(modelName)
		}
		if len(model.ID) > maxModelIDWidth {
			maxModelIDWidth = len(model.ID)
		}
	}

	fmt.Fprintf(w, "%-*s  %-*s  %-10s  %s\n", maxModelWidth, "MODEL", maxModelIDWidth, "MODEL ID", "DEFAULT", "DESCRIPTION")
	fmt.Fprintf(w, "%s  %s  %s  %s\n",
		strings.Repeat("-", maxModelWidth),
		strings.Repeat("-", maxModelIDWidth),
		strings.Repeat("-", 10),
		strings.Repeat("-", 50))

	for _, model := range models {
		defaultMark := ""
		if model.IsDefault {
			defaultMark = "Yes"
		}
		fmt.Fprintf(w, "%-*s  %-*s  %-10s  %s\n",
			maxModelWidth,
			healthbot.FormatModelString(provider, model.ID),
			maxModelIDWidth,
			model.ID,
			defaultMark,
			model.Description)
	}

	fmt.Fprintf(w, "\nUse a model with: healthbot chat --model <model> [message]\n")
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
