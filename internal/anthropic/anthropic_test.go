package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/longkey1/healthbot/internal/healthbot"
	"github.com/rs/zerolog"
)

type stubConfig struct {
	baseURL string
}

func (c stubConfig) GetModel() string { return "anthropic:claude-sonnet-4-5" }
func (c stubConfig) GetBaseURL(string) (string, error) { return c.baseURL, nil }
func (c stubConfig) GetToken(string) (string, error) { return "ant-key", nil }

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewProvider(stubConfig{baseURL: srv.URL}, srv.Client(), nil)
}

func TestChatWithHistory(t *testing.T) {
	var got MessagesAPIRequest
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "ant-key" {
			t.Errorf("x-api-key = %q", r.Header.Get("x-api-key"))
		}
		if r.Header.Get("anthropic-version") != AnthropicVersion {
			t.Errorf("anthropic-version = %q", r.Header.Get("anthropic-version"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","content":[{"type":"text","text":"Try warm tea."}],"stop_reason":"end_turn"}`))
	})

	history := []healthbot.Message{
		healthbot.NewMessage(healthbot.RoleUser, "My throat hurts"),
		healthbot.NewMessage(healthbot.RoleAssistant, "Sorry to hear that."),
	}
	reply, err := provider.ChatWithHistory(context.Background(), "be careful", history, "What helps?")
	if err != nil {
		t.Fatalf("ChatWithHistory() error = %v", err)
	}
	if reply != "Try warm tea." {
		t.Errorf("reply = %q", reply)
	}
	if got.System != "be careful" || got.Model != "claude-sonnet-4-5" || got.MaxTokens != DefaultMaxTokens {
		t.Errorf("request = %+v", got)
	}
	if len(got.Messages) != 3 || got.Messages[1].Role != "assistant" || got.Messages[2].Content[0].Text != "What helps?" {
		t.Errorf("messages = %+v", got.Messages)
	}
}

func TestChatWithHistory_Errors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
	}{
		{name: "overloaded", status: 529, body: `{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`, wantStatus: 529},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`, wantStatus: 401},
		{name: "empty content", status: http.StatusOK, body: `{"content":[],"stop_reason":"end_turn"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := provider.ChatWithHistory(context.Background(), "", nil, "hello")
			if tt.wantStatus == 0 {
				if !errors.Is(err, healthbot.ErrEmptyResponse) {
					t.Errorf("error = %v, want ErrEmptyResponse", err)
				}
				return
			}

			var apiErr *healthbot.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error = %v, want APIError", err)
			}
			if apiErr.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestListModels(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[
			{"id":"claude-haiku-4-5","type":"model","display_name":"Claude Haiku 4.5","created_at":"2025-10-01T00:00:00Z"},
			{"id":"claude-sonnet-4-5","type":"model","display_name":"Claude Sonnet 4.5","created_at":"2025-09-29T00:00:00Z"}
		]}`))
	})

	models, err := provider.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels() error = %v", err)
	}
	if len(models) != 2 || models[0].ID != "claude-sonnet-4-5" || models[1].Description != "Claude Haiku 4.5" {
		t.Errorf("models = %+v", models)
	}
}

func TestChatWithHistory_DebugGoesToLogger(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","content":[{"type":"text","text":"Rest."}],"stop_reason":"end_turn"}`))
	}))
	t.Cleanup(srv.Close)

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	provider := NewProvider(stubConfig{baseURL: srv.URL}, srv.Client(), &logger)
	provider.SetDebug(true)

	if _, err := provider.ChatWithHistory(context.Background(), "", nil, "hello"); err != nil {
		t.Fatalf("ChatWithHistory() error = %v", err)
	}

	var entry struct {
		Level    string `json:"level"`
		Provider string `json:"provider"`
		Status   int    `json:"status"`
		Body     string `json:"body"`
		Message  string `json:"message"`
	}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("log output is not one JSON event: %v (%q)", err, buf.String())
	}
	if entry.Level != "debug" || entry.Provider != ProviderName || entry.Status != http.StatusOK {
		t.Errorf("log entry = %+v", entry)
	}
	if !strings.Contains(entry.Body, "msg_1") {
		t.Errorf("body = %q", entry.Body)
	}
}
