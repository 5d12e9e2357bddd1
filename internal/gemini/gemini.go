package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/longkey1/healthbot/internal/healthbot"
	"github.com/rs/zerolog"
)

const (
	ProviderName   = "gemini"
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.5-flash"
)

// ModelsAPIResponse represents the response from Gemini's models endpoint
type ModelsAPIResponse struct {
	Models []GeminiModelData `json:"models"`
}

// GeminiModelData represents a single model in the API response
type GeminiModelData struct {
	Name                       string   `json:"name"`
	DisplayName                string   `json:"displayName"`
	Description                string   `json:"description"`
	SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
}

// GeminiRequest represents the request body for Gemini's generate content API
type GeminiRequest struct {
	Contents          []GeminiContent          `json:"contents"`
	SystemInstruction *GeminiSystemInstruction `json:"system_instruction,omitempty"`
}

// GeminiSystemInstruction represents system instruction for Gemini
type GeminiSystemInstruction struct {
	Parts []GeminiPart `json:"parts"`
}

// GeminiContent represents a content item in the Gemini request format
type GeminiContent struct {
	Role  string       `json:"role,omitempty"` // "user" or "model"
	Parts []GeminiPart `json:"parts"`
}

// GeminiPart represents a part of the content in the Gemini request format
type GeminiPart struct {
	Text string `json:"text"`
}

// GeminiResponse represents the full response from Gemini API
type GeminiResponse struct {
	Candidates     []GeminiCandidate     `json:"candidates"`
	PromptFeedback *GeminiPromptFeedback `json:"promptFeedback,omitempty"`
}

// GeminiCandidate represents a candidate response
type GeminiCandidate struct {
	Content      GeminiContent `json:"content"`
	FinishReason string        `json:"finishReason,omitempty"`
}

// GeminiPromptFeedback is set when the prompt itself was blocked
type GeminiPromptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

// GeminiErrorResponse is the body of a non-200 answer
type GeminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Config defines the configuration interface for Gemini provider
type Config interface {
	GetModel() string
	GetBaseURL(provider string) (string, error)
	GetToken(provider string) (string, error)
}

// Provider implements the healthbot.Provider interface for Gemini
type Provider struct {
	config Config
	client *http.Client
	logger *zerolog.Logger
	debug  bool
}

// NewProvider creates a new Gemini provider instance.
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

// ListModels returns the models that support generateContent
func (p *Provider) ListModels(ctx context.Context) ([]healthbot.ModelInfo, error) {
	baseURL, token, err := p.endpoint()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/models?key="+url.QueryEscape(token), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	body, err := p.do(req)
	if err != nil {
		return nil, err
	}

	var result ModelsAPIResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &healthbot.UnexpectedResponseError{Provider: ProviderName, Reason: "undecodable models list", Err: err}
	}

	models := make([]healthbot.ModelInfo, 0, len(result.Models))
	for _, model := range result.Models {
		if !contains(model.SupportedGenerationMethods, "generateContent") {
			continue
		}

		description := model.Description
		if description == "" {
			description = model.DisplayName
		}

		models = append(models, healthbot.ModelInfo{
			ID:          strings.TrimPrefix(model.Name, "models/"),
			Description: description,
		})
	}

	// Sort models by ID (descending order)
	sort.Slice(models, func(i, j int) bool {
		return models[i].ID > models[j].ID
	})

	return models, nil
}

// contains checks if a string slice contains a specific string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// ChatWithHistory sends a conversation history with a new message to Gemini's API
func (p *Provider) ChatWithHistory(ctx context.Context, systemPrompt string, messages []healthbot.Message, newMessage string) (string, error) {
	contents := make([]GeminiContent, 0, len(messages)+1)
	for _, msg := range messages {
		role := string(msg.Role)
		// Gemini uses "model" instead of "assistant"
		if msg.Role == healthbot.RoleAssistant {
			role = "model"
		}
		contents = append(contents, GeminiContent{
			Role:  role,
			Parts: []GeminiPart{{Text: msg.Content}},
		})
	}
	contents = append(contents, GeminiContent{
		Role:  "user",
		Parts: []GeminiPart{{Text: newMessage}},
	})

	reqBody := GeminiRequest{Contents: contents}
	if systemPrompt != "" {
		reqBody.SystemInstruction = &GeminiSystemInstruction{
			Parts: []GeminiPart{{Text: systemPrompt}},
		}
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("error marshaling request: %w", err)
	}

	_, modelName, err := healthbot.ParseModelString(p.config.GetModel())
	if err != nil {
		return "", fmt.Errorf("invalid model format: %w", err)
	}

	baseURL, token, err := p.endpoint()
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", baseURL, url.PathEscape(modelName), url.QueryEscape(token))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := p.do(req)
	if err != nil {
		return "", err
	}

	var result GeminiResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", &healthbot.UnexpectedResponseError{Provider: ProviderName, Reason: "undecodable response body", Err: err}
	}

	if p.debug {
		p.logger.Debug().Str("provider", ProviderName).Int("candidates", len(result.Candidates)).Msg("response decoded")
	}

	if len(result.Candidates) == 0 {
		reason := "no candidates"
		if result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "" {
			reason = "prompt blocked: " + result.PromptFeedback.BlockReason
		}
		return "", &healthbot.UnexpectedResponseError{Provider: ProviderName, Reason: reason}
	}

	var text strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	if strings.TrimSpace(text.String()) == "" {
		reason := "candidate has no text"
		if fr := result.Candidates[0].FinishReason; fr != "" {
			reason += " (finish reason " + fr + ")"
		}
		return "", &healthbot.UnexpectedResponseError{Provider: ProviderName, Reason: reason, Err: healthbot.ErrEmptyResponse}
	}

	return text.String(), nil
}

func (p *Provider) endpoint() (baseURL, token string, err error) {
	token, err = p.config.GetToken(ProviderName)
	if err != nil {
		return "", "", fmt.Errorf("failed to get token: %w", err)
	}

	baseURL, err = p.config.GetBaseURL(ProviderName)
	if err != nil {
		return "", "", fmt.Errorf("failed to get base URL: %w", err)
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return strings.TrimRight(baseURL, "/"), token, nil
}

// do sends req and returns the body of a 200 answer.
func (p *Provider) do(req *http.Request) ([]byte, error) {
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &healthbot.TransportError{Op: ProviderName + ": send request", Err: redact(err)}
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
		return nil, &healthbot.APIError{
			Provider:   ProviderName,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body),
		}
	}
	return body, nil
}

func errorMessage(body []byte) string {
	var errResp GeminiErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		return errResp.Error.Message
	}
	return strings.TrimSpace(string(body))
}

// redact strips the query string, which carries the API key, from URL errors.
func redact(err error) error {
	if urlErr, ok := err.(*url.Error); ok {
		if u, parseErr := url.Parse(urlErr.URL); parseErr == nil {
			u.RawQuery = ""
			urlErr.URL = u.String()
		}
		return urlErr
	}
	return err
}
