package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/longkey1/healthbot/internal/healthbot/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const configFields = "configfile, model, gemini_base_url, gemini_token, openai_base_url, openai_token, anthropic_base_url, anthropic_token, system_prompt_file, request_timeout, max_retries, listen_addr, log_level, log_format, session_idle_timeout, allowed_origins"

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config [field]",
	Short: "Display current configuration",
	Long: `Display the current configuration values.
This command shows all configuration values loaded from the config file and environment variables.
Tokens are masked.

If a field name is specified, only that field's value is displayed.
Available fields: ` + configFields + `

Examples:
  healthbot config                  # Show all configuration
  healthbot config model            # Show only model
  healthbot config gemini_token     # Show only Gemini token (masked)
  healthbot config request_timeout  # Show only request timeout`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Not validated: this command is how a broken config gets inspected.
		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		if len(args) > 0 {
			value, ok := configField(cfg, strings.ToLower(args[0]))
			if !ok {
				return fmt.Errorf("unknown field: %s\nAvailable fields: %s", args[0], configFields)
			}
			fmt.Println(value)
			return nil
		}

		printConfig(os.Stdout, cfg)
		return nil
	},
}

func configField(cfg *config.Config, field string) (string, bool) {
	switch field {
	case "configfile":
		return viper.ConfigFileUsed(), true
	case "model":
		return cfg.Model, true
	case "gemini_base_url", "geminibaseurl":
		return cfg.GeminiBaseURL, true
	case "gemini_token", "geminitoken":
		return maskToken(cfg.GeminiToken), true
	case "openai_base_url", "openaibaseurl":
		return cfg.OpenAIBaseURL, true
	case "openai_token", "openaitoken":
		return maskToken(cfg.OpenAIToken), true
	case "anthropic_base_url", "anthropicbaseurl":
		return cfg.AnthropicBaseURL, true
	case "anthropic_token", "anthropictoken":
		return maskToken(cfg.AnthropicToken), true
	case "system_prompt_file", "systempromptfile":
		return cfg.SystemPromptFile, true
	case "request_timeout", "requesttimeout":
		return cfg.RequestTimeout.String(), true
	case "max_retries", "maxretries":
		return fmt.Sprint(cfg.MaxRetries), true
	case "listen_addr", "listenaddr":
		return cfg.ListenAddr, true
	case "log_level", "loglevel":
		return cfg.LogLevel, true
	case "log_format", "logformat":
		return cfg.LogFormat, true
	case "session_idle_timeout", "sessionidletimeout":
		return cfg.SessionIdleTimeout.String(), true
	case "allowed_origins", "allowedorigins":
		return strings.Join(cfg.AllowedOrigins, ","), true
	}
	return "", false
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintf(w, "ConfigFile: %s\n", viper.ConfigFileUsed())
	fmt.Fprintf(w, "Model: %s\n", cfg.Model)
	fmt.Fprintf(w, "GeminiBaseURL: %s\n", cfg.GeminiBaseURL)
	fmt.Fprintf(w, "GeminiToken: %s\n", maskToken(cfg.GeminiToken))
	fmt.Fprintf(w, "OpenAIBaseURL: %s\n", cfg.OpenAIBaseURL)
	fmt.Fprintf(w, "OpenAIToken: %s\n", maskToken(cfg.OpenAIToken))
	fmt.Fprintf(w, "AnthropicBaseURL: %s\n", cfg.AnthropicBaseURL)
	fmt.Fprintf(w, "AnthropicToken: %s\n", maskToken(cfg.AnthropicToken))
	fmt.Fprintf(w, "SystemPromptFile: %s\n", cfg.SystemPromptFile)
	fmt.Fprintf(w, "RequestTimeout: %s\n", cfg.RequestTimeout)
	fmt.Fprintf(w, "MaxRetries: %d\n", cfg.MaxRetries)
	fmt.Fprintf(w, "ListenAddr: %s\n", cfg.ListenAddr)
	fmt.Fprintf(w, "LogLevel: %s\n", cfg.LogLevel)
	fmt.Fprintf(w, "LogFormat: %s\n", cfg.LogFormat)
	fmt.Fprintf(w, "SessionIdleTimeout: %s\n", cfg.SessionIdleTimeout)
	fmt.Fprintf(w, "AllowedOrigins: %s\n", strings.Join(cfg.AllowedOrigins, ","))
}

// maskToken returns a masked version of the token for security
func maskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 8 {
		return "********"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

func init() {
	rootCmd.AddCommand(configCmd)
}
