package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/longkey1/healthbot/internal/healthbot"
	"github.com/spf13/viper"
)

// expandEnvVar expands environment variable references in the given value
// Supports both $VAR and ${VAR} syntax
// If the environment variable is not set, returns empty string.
func expandEnvVar(value string) string {
	if !strings.HasPrefix(value, "$") {
		return value
	}

	var envVarName string
	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		envVarName = value[2 : len(value)-1]
	} else {
		envVarName = strings.TrimPrefix(value, "$")
	}

	return os.Getenv(envVarName)
}

// GetBaseURL returns the base URL for the specified provider
// Environment variables are already expanded by Load()
func (c *Config) GetBaseURL(provider string) (string, error) {
	var baseURLValue string
	switch provider {
	case ProviderGemini:
		baseURLValue = c.GeminiBaseURL
	case ProviderOpenAI:
		baseURLValue = c.OpenAIBaseURL
	case ProviderAnthropic:
		baseURLValue = c.AnthropicBaseURL
	default:
		return "", &healthbot.ConfigurationError{Key: "model", Reason: fmt.Sprintf("unsupported provider: %s", provider)}
	}

	if baseURLValue == "" {
		return "", &healthbot.ConfigurationError{
			Key:    provider + "_base_url",
			Reason: fmt.Sprintf("%s base URL is not configured. Set it in config file (%s_base_url) or environment variable (HEALTHBOT_%s_BASE_URL)", provider, provider, strings.ToUpper(provider)),
		}
	}

	return baseURLValue, nil
}

// GetToken returns the API credential for the specified provider
// Environment variables are already expanded by Load()
func (c *Config) GetToken(provider string) (string, error) {
	var tokenValue string
	switch provider {
	case ProviderGemini:
		tokenValue = c.GeminiToken
	case ProviderOpenAI:
		tokenValue = c.OpenAIToken
	case ProviderAnthropic:
		tokenValue = c.AnthropicToken
	default:
		return "", &healthbot.ConfigurationError{Key: "model", Reason: fmt.Sprintf("unsupported provider: %s", provider)}
	}

	if strings.TrimSpace(tokenValue) == "" {
		return "", &healthbot.ConfigurationError{
			Key:    provider + "_token",
			Reason: fmt.Sprintf("%s API key is not set. Export %s or set it in config file (%s_token)", provider, defaultTokenEnv(provider), provider),
		}
	}

	return tokenValue, nil
}

func defaultTokenEnv(provider string) string {
	return strings.ToUpper(provider) + "_API_KEY"
}

// ResolvePath converts a relative path to absolute path if needed.
// Relative paths are resolved against the directory of the config file in use,
// or the current working directory when no file was read.
func ResolvePath(v *viper.Viper, path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}

	configFile := v.ConfigFileUsed()
	if configFile == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("error getting current working directory: %w", err)
		}
		return filepath.Join(cwd, path), nil
	}

	configDir := filepath.Dir(configFile)
	if !filepath.IsAbs(configDir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("error getting current working directory: %w", err)
		}
		configDir = filepath.Join(cwd, configDir)
	}

	return filepath.Join(configDir, path), nil
}
