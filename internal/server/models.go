package server

import (
	"strings"
	"time"

	"github.com/longkey1/healthbot/internal/healthbot/session"
)

type HealthResponse struct {
	Status  string `json:"status" description:"Service status"`
	Version string `json:"version" description:"Build version"`
}

type SessionResponse struct {
	SessionID string    `json:"session_id" description:"Session identifier"`
	Model     string    `json:"model" description:"Model in provider:model format"`
	CreatedAt time.Time `json:"created_at" description:"Creation time"`
}

type MessageRequest struct {
	Message string `json:"message" description:"User input"`
}

func (m *MessageRequest) Validate() error {
	if strings.TrimSpace(m.Message) == "" {
		return ErrEmptyMessage
	}
	return nil
}

type MessageResponse struct {
	SessionID string `json:"session_id" description:"Session identifier"`
	Reply     string `json:"reply" description:"Text to show the user"`
	Outcome   string `json:"outcome" description:"answered or flagged"`
	Flagged   bool   `json:"flagged" description:"Whether the safety filter intercepted the input"`
	Category  string `json:"category,omitempty" description:"Risk category of a flagged input"`
}

type HistoryResponse struct {
	SessionID string          `json:"session_id" description:"Session identifier"`
	Messages  []session.Entry `json:"messages" description:"Exchanges shown to the user, in order; flagged ones are not model context"`
}
