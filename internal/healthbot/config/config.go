package config

import (
	"fmt"
	"time"

	"github.com/longkey1/healthbot/internal/healthbot"
	"github.com/spf13/viper"
)

// Supported provider names.
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// MaxRetriesLimit bounds max_retries so a misconfiguration cannot turn into
// an unbounded retry loop.
const MaxRetriesLimit = 5

// Config holds the configuration for the health assistant
type Config struct {
	Model              string        `toml:"model" mapstructure:"model"` // Format: "provider:model" (e.g., "gemini:gemini-2.5-flash")
	GeminiBaseURL      string        `toml:"gemini_base_url" mapstructure:"gemini_base_url"`
	GeminiToken        string        `toml:"gemini_token" mapstructure:"gemini_token"`
	OpenAIBaseURL      string        `toml:"openai_base_url" mapstructure:"openai_base_url"`
	OpenAIToken        string        `toml:"openai_token" mapstructure:"openai_token"`
	AnthropicBaseURL   string        `toml:"anthropic_base_url" mapstructure:"anthropic_base_url"`
	AnthropicToken     string        `toml:"anthropic_token" mapstructure:"anthropic_token"`
	SystemPromptFile   string        `toml:"system_prompt_file" mapstructure:"system_prompt_file"` // Empty = built-in instruction
	RequestTimeout     time.Duration `toml:"request_timeout" mapstructure:"request_timeout"`
	MaxRetries         int           `toml:"max_retries" mapstructure:"max_retries"`
	ListenAddr         string        `toml:"listen_addr" mapstructure:"listen_addr"`
	LogLevel           string        `toml:"log_level" mapstructure:"log_level"`
	LogFormat          string        `toml:"log_format" mapstructure:"log_format"` // "console" or "json"
	SessionIdleTimeout time.Duration `toml:"session_idle_timeout" mapstructure:"session_idle_timeout"`
	AllowedOrigins     []string      `toml:"allowed_origins" mapstructure:"allowed_origins"`
}

// fileConfig mirrors Config with durations as strings so `init` writes a
// readable TOML file.
type fileConfig struct {
	Model              string   `toml:"model"`
	GeminiBaseURL      string   `toml:"gemini_base_url"`
	GeminiToken        string   `toml:"gemini_token"`
	OpenAIBaseURL      string   `toml:"openai_base_url"`
	OpenAIToken        string   `toml:"openai_token"`
	AnthropicBaseURL   string   `toml:"anthropic_base_url"`
	AnthropicToken     string   `toml:"anthropic_token"`
	SystemPromptFile   string   `toml:"system_prompt_file"`
	RequestTimeout     string   `toml:"request_timeout"`
	MaxRetries         int      `toml:"max_retries"`
	ListenAddr         string   `toml:"listen_addr"`
	LogLevel           string   `toml:"log_level"`
	LogFormat          string   `toml:"log_format"`
	SessionIdleTimeout string   `toml:"session_idle_timeout"`
	AllowedOrigins     []string `toml:"allowed_origins"`
}

// GetModel returns the model in "provider:model" format
func (c *Config) GetModel() string {
	return c.Model
}

// GetProvider extracts provider name from the model string
func (c *Config) GetProvider() (string, error) {
	provider, _, err := healthbot.ParseModelString(c.Model)
	return provider, err
}

// NewDefaultConfig returns a new Config with default values
func NewDefaultConfig() *Config {
	return &Config{
		Model:              "gemini:gemini-2.5-flash",
		GeminiBaseURL:      "https://generativelanguage.googleapis.com/v1beta",
		GeminiToken:        "$GEMINI_API_KEY", // Default to env var
		OpenAIBaseURL:      "https://api.openai.com/v1",
		OpenAIToken:        "$OPENAI_API_KEY",
		AnthropicBaseURL:   "https://api.anthropic.com/v1",
		AnthropicToken:     "$ANTHROPIC_API_KEY",
		SystemPromptFile:   "",
		RequestTimeout:     30 * time.Second,
		MaxRetries:         2,
		ListenAddr:         ":8501",
		LogLevel:           "info",
		LogFormat:          "console",
		SessionIdleTimeout: 30 * time.Minute,
		AllowedOrigins:     []string{"*"},
	}
}

// EnvPrefix is the prefix of environment variables that override config keys
// (e.g. HEALTHBOT_MODEL).
const EnvPrefix = "HEALTHBOT"

// Setup registers defaults and environment bindings on v.
func Setup(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	SetDefaults(v)
}

// SetDefaults registers the default values with viper.
func SetDefaults(v *viper.Viper) {
	d := NewDefaultConfig()
	v.SetDefault("model", d.Model)
	v.SetDefault("gemini_base_url", d.GeminiBaseURL)
	v.SetDefault("gemini_token", d.GeminiToken)
	v.SetDefault("openai_base_url", d.OpenAIBaseURL)
	v.SetDefault("openai_token", d.OpenAIToken)
	v.SetDefault("anthropic_base_url", d.AnthropicBaseURL)
	v.SetDefault("anthropic_token", d.AnthropicToken)
	v.SetDefault("system_prompt_file", d.SystemPromptFile)
	v.SetDefault("request_timeout", d.RequestTimeout)
	v.SetDefault("max_retries", d.MaxRetries)
	v.SetDefault("listen_addr", d.ListenAddr)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("session_idle_timeout", d.SessionIdleTimeout)
	v.SetDefault("allowed_origins", d.AllowedOrigins)
}

// FileContents returns the config in the shape written to config.toml.
func (c *Config) FileContents() any {
	return fileConfig{
		Model:              c.Model,
		GeminiBaseURL:      c.GeminiBaseURL,
		GeminiToken:        c.GeminiToken,
		OpenAIBaseURL:      c.OpenAIBaseURL,
		OpenAIToken:        c.OpenAIToken,
		AnthropicBaseURL:   c.AnthropicBaseURL,
		AnthropicToken:     c.AnthropicToken,
		SystemPromptFile:   c.SystemPromptFile,
		RequestTimeout:     c.RequestTimeout.String(),
		MaxRetries:         c.MaxRetries,
		ListenAddr:         c.ListenAddr,
		LogLevel:           c.LogLevel,
		LogFormat:          c.LogFormat,
		SessionIdleTimeout: c.SessionIdleTimeout.String(),
		AllowedOrigins:     c.AllowedOrigins,
	}
}

// LoadConfig loads configuration from viper and validates it. Any problem is
// reported as a *healthbot.ConfigurationError, so callers can abort startup
// before serving a single request.
func LoadConfig(v *viper.Viper) (*Config, error) {
	config, err := Load(v)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Load reads configuration from viper and expands environment variable
// references without validating it.
func Load(v *viper.Viper) (*Config, error) {
	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, &healthbot.ConfigurationError{Reason: fmt.Sprintf("error unmarshaling config: %v", err)}
	}

	for _, field := range []*string{
		&config.GeminiBaseURL, &config.GeminiToken,
		&config.OpenAIBaseURL, &config.OpenAIToken,
		&config.AnthropicBaseURL, &config.AnthropicToken,
	} {
		*field = expandEnvVar(*field)
	}

	if config.SystemPromptFile != "" {
		absPath, err := ResolvePath(v, config.SystemPromptFile)
		if err != nil {
			return nil, &healthbot.ConfigurationError{
				Key:    "system_prompt_file",
				Reason: fmt.Sprintf("error resolving path '%s': %v", config.SystemPromptFile, err),
			}
		}
		config.SystemPromptFile = absPath
	}

	return config, nil
}

// Validate checks that the selected provider is usable: a well-formed model,
// a base URL and a credential, plus sane timeout and retry settings.
func (c *Config) Validate() error {
	provider, err := c.GetProvider()
	if err != nil {
		return &healthbot.ConfigurationError{Key: "model", Reason: err.Error()}
	}
	if _, err := c.GetBaseURL(provider); err != nil {
		return err
	}
	if _, err := c.GetToken(provider); err != nil {
		return err
	}
	if c.RequestTimeout <= 0 {
		return &healthbot.ConfigurationError{Key: "request_timeout", Reason: "must be greater than zero"}
	}
	if c.MaxRetries < 0 || c.MaxRetries > MaxRetriesLimit {
		return &healthbot.ConfigurationError{
			Key:    "max_retries",
			Reason: fmt.Sprintf("must be between 0 and %d (got %d)", MaxRetriesLimit, c.MaxRetries),
		}
	}
	return nil
}
