package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/longkey1/healthbot/internal/healthbot"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog"
)

const (
	ProviderName   = "openai"
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4.1-mini"

	// GeminiCompatibleBaseURL serves Gemini models through the Chat Completions
	// wire format; pair it with a Gemini API key.
	GeminiCompatibleBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
)

// Config defines the configuration interface for OpenAI provider
type Config interface {
	GetModel() string
	GetBaseURL(provider string) (string, error)
	GetToken(provider string) (string, error)
}

// Provider implements the healthbot.Provider interface for any endpoint that
// speaks the OpenAI Chat Completions API.
type Provider struct {
	config     Config
	httpClient *http.Client
	logger     *zerolog.Logger
	debug      bool
}

// NewProvider creates a new OpenAI provider instance.
// A nil client means http.DefaultClient; a nil logger discards debug output.
func NewProvider(config Config, client *http.Client, logger *zerolog.Logger) *Provider {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Provider{
		config:     config,
		httpClient: client,
		logger:     logger,
	}
}

// SetDebug enables or disables debug mode
func (p *Provider) SetDebug(enabled bool) {
	p.debug = enabled
}

// newClient builds an SDK client. SDK retries are disabled; the relay decides
// whether a failed call is repeated.
func (p *Provider) newClient() (openai.Client, error) {
	token, err := p.config.GetToken(ProviderName)
	if err != nil {
		return openai.Client{}, fmt.Errorf("failed to get token: %w", err)
	}

	baseURL, err := p.config.GetBaseURL(ProviderName)
	if err != nil {
		return openai.Client{}, fmt.Errorf("failed to get base URL: %w", err)
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return openai.NewClient(
		option.WithAPIKey(token),
		option.WithBaseURL(baseURL),
		option.WithHTTPClient(p.httpClient),
		option.WithMaxRetries(0),
	), nil
}

// ChatWithHistory sends a conversation history with a new message to the Chat Completions API
func (p *Provider) ChatWithHistory(ctx context.Context, systemPrompt string, messages []healthbot.Message, newMessage string) (string, error) {
	_, modelName, err := healthbot.ParseModelString(p.config.GetModel())
	if err != nil {
		return "", fmt.Errorf("invalid model format: %w", err)
	}

	client, err := p.newClient()
	if err != nil {
		return "", err
	}

	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)+2)
	if systemPrompt != "" {
		params = append(params, openai.SystemMessage(systemPrompt))
	}
	for _, msg := range messages {
		switch msg.Role {
		case healthbot.RoleAssistant:
			params = append(params, openai.AssistantMessage(msg.Content))
		case healthbot.RoleSystem:
			params = append(params, openai.SystemMessage(msg.Content))
		default:
			params = append(params, openai.UserMessage(msg.Content))
		}
	}
	params = append(params, openai.UserMessage(newMessage))

	output, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: params,
		Model:    openai.ChatModel(modelName),
	})
	if err != nil {
		return "", mapError(err)
	}

	if p.debug {
		p.logger.Debug().
			Str("provider", ProviderName).
			Str("body", output.RawJSON()).
			Msg("raw API response")
	}

	if len(output.Choices) == 0 {
		return "", &healthbot.UnexpectedResponseError{Provider: ProviderName, Reason: "no choices in response"}
	}

	content := output.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", &healthbot.UnexpectedResponseError{
			Provider: ProviderName,
			Reason:   fmt.Sprintf("choice has no text (finish reason %s)", output.Choices[0].FinishReason),
			Err:      healthbot.ErrEmptyResponse,
		}
	}

	return content, nil
}

// ListModels returns the list of models from the API
func (p *Provider) ListModels(ctx context.Context) ([]healthbot.ModelInfo, error) {
	client, err := p.newClient()
	if err != nil {
		return nil, err
	}

	page, err := client.Models.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	models := make([]healthbot.ModelInfo, 0, len(page.Data))
	for _, model := range page.Data {
		description := ""
		if model.OwnedBy != "" {
			description = "Owned by " + model.OwnedBy
		}
		models = append(models, healthbot.ModelInfo{
			ID:          strings.TrimPrefix(model.ID, "models/"),
			Description: description,
		})
	}

	// Sort models by ID (descending order)
	sort.Slice(models, func(i, j int) bool {
		return models[i].ID > models[j].ID
	})

	return models, nil
}

func mapError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		message := apiErr.Message
		if message == "" {
			message = http.StatusText(apiErr.StatusCode)
		}
		return &healthbot.APIError{
			Provider:   ProviderName,
			StatusCode: apiErr.StatusCode,
			Message:    message,
		}
	}
	return &healthbot.TransportError{Op: ProviderName + ": send request", Err: err}
}
