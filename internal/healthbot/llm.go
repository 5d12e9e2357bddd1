// Package healthbot provides the core abstractions shared by the health assistant:
// the Provider interface that every LLM backend (gemini, openai, anthropic)
// implements, the Message type exchanged with it, and the error taxonomy used
// to tell transport failures apart from malformed replies.
package healthbot

//go:generate mockgen -source=llm.go -destination=mocks/mock_provider.go -package=mocks Provider

import (
	"context"
	"fmt"
	"strings"
)

// ModelInfo represents information about an available model from a provider.
type ModelInfo struct {
	ID          string // Model identifier (e.g., "gemini-2.5-flash")
	Description string // Human-readable description of the model
	IsDefault   bool   // Whether this is the default model for the provider
}

// Provider defines the interface for LLM providers.
//
// Example usage:
//
//	provider := gemini.NewProvider(cfg, nil, &logger)
//	reply, err := provider.ChatWithHistory(ctx, prompt.Default, history, "What causes a sore throat?")
type Provider interface {
	// ChatWithHistory sends a message with conversation history.
	// The systemPrompt is sent as the provider's system instruction.
	// messages contains the prior conversation (user and assistant messages) in order.
	// newMessage is the new user message to send.
	ChatWithHistory(ctx context.Context, systemPrompt string, messages []Message, newMessage string) (string, error)

	// ListModels returns a list of available models for the provider.
	ListModels(ctx context.Context) ([]ModelInfo, error)

	// SetDebug enables or disables debug output.
	SetDebug(enabled bool)
}

// ParseModelString parses a model string in "provider:model" format.
// Returns (provider, model, error).
//
// Example:
//
//	provider, model, err := ParseModelString("gemini:gemini-2.5-flash")
//	// provider = "gemini", model = "gemini-2.5-flash"
func ParseModelString(modelStr string) (string, string, error) {
	parts := strings.SplitN(modelStr, ":", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid model format: %s (expected format: provider:model, e.g., gemini:gemini-2.5-flash)", modelStr)
	}

	provider := strings.TrimSpace(parts[0])
	model := strings.TrimSpace(parts[1])

	if provider == "" || model == "" {
		return "", "", fmt.Errorf("provider and model cannot be empty")
	}

	return provider, model, nil
}

// FormatModelString formats provider and model into "provider:model" format.
func FormatModelString(provider, model string) string {
	return fmt.Sprintf("%s:%s", provider, model)
}
