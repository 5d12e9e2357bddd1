package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/longkey1/healthbot/internal/healthbot"
	"github.com/spf13/viper"
)

func newViper() *viper.Viper {
	v := viper.New()
	Setup(v)
	return v
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := LoadConfig(newViper())
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Model != "gemini:gemini-2.5-flash" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.GeminiToken != "test-key" {
		t.Errorf("GeminiToken = %q, want expanded env value", cfg.GeminiToken)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.RequestTimeout)
	}
	if cfg.MaxRetries != 2 {
		t.Errorf("MaxRetries = %d", cfg.MaxRetries)
	}
	if cfg.SessionIdleTimeout != 30*time.Minute {
		t.Errorf("SessionIdleTimeout = %v", cfg.SessionIdleTimeout)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
}

func TestLoadConfig_MissingCredential(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := LoadConfig(newViper())
	if err == nil {
		t.Fatal("expected configuration error")
	}

	var cfgErr *healthbot.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error type = %T, want *healthbot.ConfigurationError", err)
	}
	if cfgErr.Key != "gemini_token" {
		t.Errorf("Key = %q, want gemini_token", cfgErr.Key)
	}
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("HEALTHBOT_MODEL", "openai:gpt-4.1-mini")
	t.Setenv("HEALTHBOT_REQUEST_TIMEOUT", "45s")
	t.Setenv("HEALTHBOT_MAX_RETRIES", "1")

	cfg, err := LoadConfig(newViper())
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Model != "openai:gpt-4.1-mini" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.RequestTimeout != 45*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.RequestTimeout)
	}
	if cfg.MaxRetries != 1 {
		t.Errorf("MaxRetries = %d", cfg.MaxRetries)
	}
	token, err := cfg.GetToken(ProviderOpenAI)
	if err != nil || token != "sk-test" {
		t.Errorf("GetToken() = %q, %v", token, err)
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	t.Setenv("MY_CUSTOM_KEY", "custom-secret")

	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.toml")
	content := `
model = "anthropic:claude-sonnet-4-5"
anthropic_token = "${MY_CUSTOM_KEY}"
system_prompt_file = "prompts/system.toml"
request_timeout = "10s"
`
	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	v := newViper()
	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig() error = %v", err)
	}

	cfg, err := LoadConfig(v)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.AnthropicToken != "custom-secret" {
		t.Errorf("AnthropicToken = %q", cfg.AnthropicToken)
	}
	if want := filepath.Join(dir, "prompts", "system.toml"); cfg.SystemPromptFile != want {
		t.Errorf("SystemPromptFile = %q, want %q", cfg.SystemPromptFile, want)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.RequestTimeout)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := NewDefaultConfig()
		cfg.GeminiToken = "key"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantKey string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "bad model", mutate: func(c *Config) { c.Model = "gemini" }, wantKey: "model"},
		{name: "unknown provider", mutate: func(c *Config) { c.Model = "mistral:large" }, wantKey: "model"},
		{name: "missing base url", mutate: func(c *Config) { c.GeminiBaseURL = "" }, wantKey: "gemini_base_url"},
		{name: "blank token", mutate: func(c *Config) { c.GeminiToken = "  " }, wantKey: "gemini_token"},
		{name: "zero timeout", mutate: func(c *Config) { c.RequestTimeout = 0 }, wantKey: "request_timeout"},
		{name: "negative retries", mutate: func(c *Config) { c.MaxRetries = -1 }, wantKey: "max_retries"},
		{name: "too many retries", mutate: func(c *Config) { c.MaxRetries = MaxRetriesLimit + 1 }, wantKey: "max_retries"},
		{name: "other provider token unused", mutate: func(c *Config) { c.OpenAIToken = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantKey == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}

			var cfgErr *healthbot.ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("Validate() error = %v, want ConfigurationError", err)
			}
			if cfgErr.Key != tt.wantKey {
				t.Errorf("Key = %q, want %q", cfgErr.Key, tt.wantKey)
			}
		})
	}
}

func TestExpandEnvVar(t *testing.T) {
	t.Setenv("HB_TEST_VAR", "value")

	tests := []struct {
		in   string
		want string
	}{
		{in: "plain", want: "plain"},
		{in: "$HB_TEST_VAR", want: "value"},
		{in: "${HB_TEST_VAR}", want: "value"},
		{in: "$HB_UNSET_VAR", want: ""},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		if got := expandEnvVar(tt.in); got != tt.want {
			t.Errorf("expandEnvVar(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFileContents_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(NewDefaultConfig().FileContents()); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	v := newViper()
	v.SetConfigType("toml")
	if err := v.ReadConfig(&buf); err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}
	t.Setenv("GEMINI_API_KEY", "key")

	cfg, err := LoadConfig(v)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.RequestTimeout != 30*time.Second || cfg.SessionIdleTimeout != 30*time.Minute {
		t.Errorf("durations not preserved: %v, %v", cfg.RequestTimeout, cfg.SessionIdleTimeout)
	}
}
