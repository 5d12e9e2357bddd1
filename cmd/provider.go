package cmd

import (
	"fmt"
	"net/http"

	"github.com/longkey1/healthbot/internal/anthropic"
	"github.com/longkey1/healthbot/internal/gemini"
	"github.com/longkey1/healthbot/internal/healthbot"
	"github.com/longkey1/healthbot/internal/healthbot/assistant"
	"github.com/longkey1/healthbot/internal/healthbot/config"
	"github.com/longkey1/healthbot/internal/healthbot/prompt"
	"github.com/longkey1/healthbot/internal/healthbot/relay"
	"github.com/longkey1/healthbot/internal/healthbot/safety"
	"github.com/longkey1/healthbot/internal/openai"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// httpClient is shared by all providers. It has no timeout of its own; every
// request is bounded by the relay's context.
var httpClient = &http.Client{}

// newProvider creates a new provider instance based on the configuration.
// Raw responses are logged to logger at debug level under --verbose.
func newProvider(cfg *config.Config, logger *zerolog.Logger) (healthbot.Provider, error) {
	provider, err := cfg.GetProvider()
	if err != nil {
		return nil, err
	}

	var p healthbot.Provider
	switch provider {
	case openai.ProviderName:
		p = openai.NewProvider(cfg, httpClient, logger)
	case gemini.ProviderName:
		p = gemini.NewProvider(cfg, httpClient, logger)
	case anthropic.ProviderName:
		p = anthropic.NewProvider(cfg, httpClient, logger)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
	p.SetDebug(verbose)
	return p, nil
}

// loadConfig loads and validates configuration, applying a --model flag when
// the command has one and it was set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}

	if f := cmd.Flags().Lookup("model"); f != nil && f.Changed {
		cfg.Model = f.Value.String()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newAssistant wires the safety filter, the relay and the configured provider.
func newAssistant(cfg *config.Config, logger *zerolog.Logger) (*assistant.Assistant, error) {
	provider, err := newProvider(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("creating provider: %w", err)
	}

	systemPrompt, err := prompt.Resolve(cfg.SystemPromptFile)
	if err != nil {
		return nil, &healthbot.ConfigurationError{Key: "system_prompt_file", Reason: err.Error()}
	}

	relayClient := relay.NewClient(provider, relay.Options{
		SystemPrompt: systemPrompt,
		Timeout:      cfg.RequestTimeout,
		MaxRetries:   cfg.MaxRetries,
	}, logger)

	return assistant.New(safety.NewFilter(safety.DefaultTable()), relayClient, logger), nil
}
