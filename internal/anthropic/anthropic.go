package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/longkey1/healthbot/internal/healthbot"
	"github.com/rs/zerolog"
)

const (
	ProviderName     = "anthropic"
	DefaultBaseURL   = "https://api.anthropic.com/v1"
	DefaultModel     = "claude-sonnet-4-5"
	AnthropicVersion = "2023-06-01"

	// DefaultMaxTokens caps a reply; answers are meant to be short.
	DefaultMaxTokens = 1024
)

// ModelsAPIResponse represents the response from Anthropic's models endpoint
type ModelsAPIResponse struct {
	Data []ModelData `json:"data"`
}

// ModelData represents a single model in the API response
type ModelData struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// MessagesAPIRequest represents the request body for Anthropic's Messages API
type MessagesAPIRequest struct {
	Model     string         `json:"model"`
	MaxTokens int            `json:"max_tokens"`
	System    string         `json:"system,omitempty"`
	Messages  []MessageInput `json:"messages"`
}

// MessageInput represents a message in the conversation
type MessageInput struct {
	Role    string    `json:"role"` // "user" or "assistant"
	Content []Content `json:"content"`
}

// Content represents a text content block
type Content struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// MessagesAPIResponse represents the response from Anthropic's Messages API
type MessagesAPIResponse struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Role       string    `json:"role"`
	Content    []Content `json:"content"`
	Model      string    `json:"model"`
	StopReason string    `json:"stop_reason"`
	Usage      Usage     `json:"usage"`
}

// Usage represents token usage information
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// ErrorResponse is the body of a non-200 answer
type ErrorResponse struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Config defines the configuration interface for Anthropic provider
type Config interface {
	GetModel() string
	GetBaseURL(provider string) (string, error)
	GetToken(provider string) (string, error)
}

// Provider implements the healthbot.Provider interface for Anthropic
type Provider struct {
	config Config
	client *http.Client
	logger *zerolog.Logger
	debug  bool
}

// NewProvider creates a new Anthropic provider instance.
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
		config: config,
		client: client,
		logger: logger,
	}
}

// SetDebug enables or disables debug mode
func (p *Provider) SetDebug(enabled bool) {
	p.debug = enabled
}

// ListModels returns the list of supported models from the API
func (p *Provider) ListModels(ctx context.Context) ([]healthbot.ModelInfo, error) {
	req, err := p.newRequest(ctx, http.MethodGet, "/models", nil)
	if err != nil {
		return nil, err
	}

	body, err := p.do(req)
	if err != nil {
		return nil, err
	}

	var result ModelsAPIResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &healthbot.UnexpectedResponseError{Provider: ProviderName, Reason: "undecodable models list", Err: err}
	}

	models := make([]healthbot.ModelInfo, 0, len(result.Data))
	for _, model := range result.Data {
		models = append(models, healthbot.ModelInfo{
			ID:          model.ID,
			Description: model.DisplayName,
		})
	}

	// Sort models by ID (descending order)
	sort.Slice(models, func(i, j int) bool {
		return models[i].ID > models[j].ID
	})

	return models, nil
}

// ChatWithHistory sends a conversation history with a new message to Anthropic's Messages API
func (p *Provider) ChatWithHistory(ctx context.Context, systemPrompt string, messages []healthbot.Message, newMessage string) (string, error) {
	_, modelName, err := healthbot.ParseModelString(p.config.GetModel())
	if err != nil {
		return "", fmt.Errorf("invalid model format: %w", err)
	}

	inputs := make([]MessageInput, 0, len(messages)+1)
	for _, msg := range messages {
		// the Messages API takes the system prompt separately
		if msg.Role == healthbot.RoleSystem {
			continue
		}
		inputs = append(inputs, MessageInput{
			Role:    string(msg.Role),
			Content: []Content{{Type: "text", Text: msg.Content}},
		})
	}
	inputs = append(inputs, MessageInput{
		Role:    string(healthbot.RoleUser),
		Content: []Content{{Type: "text", Text: newMessage}},
	})

	jsonData, err := json.Marshal(MessagesAPIRequest{
		Model:     modelName,
		MaxTokens: DefaultMaxTokens,
		System:    systemPrompt,
		Messages:  inputs,
	})
	if err != nil {
		return "", fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := p.newRequest(ctx, http.MethodPost, "/messages", jsonData)
	if err != nil {
		return "", err
	}

	body, err := p.do(req)
	if err != nil {
		return "", err
	}

	var result MessagesAPIResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", &healthbot.UnexpectedResponseError{Provider: ProviderName, Reason: "undecodable response body", Err: err}
	}

	var text strings.Builder
	for _, c := range result.Content {
		if c.Type == "text" {
			text.WriteString(c.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return "", &healthbot.UnexpectedResponseError{
			Provider: ProviderName,
			Reason:   fmt.Sprintf("no text content (stop reason %s)", result.StopReason),
			Err:      healthbot.ErrEmptyResponse,
		}
	}

	return text.String(), nil
}

func (p *Provider) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	token, err := p.config.GetToken(ProviderName)
	if err != nil {
		return nil, fmt.Errorf("failed to get token: %w", err)
	}

	baseURL, err := p.config.GetBaseURL(ProviderName)
	if err != nil {
		return nil, fmt.Errorf("failed to get base URL: %w", err)
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(baseURL, "/")+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("x-api-key", token)
	req.Header.Set("anthropic-version", AnthropicVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// do sends req and returns the body of a 200 answer.
func (p *Provider) do(req *http.Request) ([]byte, error) {
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &healthbot.TransportError{Op: ProviderName + ": send request", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &healthbot.TransportError{Op: ProviderName + ": read response", Err: err}
	}

	if p.debug {
		p.logger.Debug().
			Str("provider", ProviderName).
			Int("status", resp.StatusCode).
			Str("body", string(body)).
			Msg("raw API response")
	}

	if resp.StatusCode != http.StatusOK {
		message := strings.TrimSpace(string(body))
		var errResp ErrorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
			message = errResp.Error.Message
		}
		return nil, &healthbot.APIError{
			Provider:   ProviderName,
			StatusCode: resp.StatusCode,
			Message:    message,
		}
	}
	return body, nil
}
