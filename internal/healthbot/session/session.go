package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/longkey1/healthbot/internal/healthbot"
)

// Conversation is an ordered, append-only log of messages.
// It is owned by exactly one session and written by one turn at a time.
type Conversation struct {
	messages []healthbot.Message
}

// Append adds a message to the end of the conversation.
func (c *Conversation) Append(msg healthbot.Message) {
	c.messages = append(c.messages, msg)
}

// History returns the messages in the order they were appended.
// The returned slice is a copy; callers may keep or modify it freely.
func (c *Conversation) History() []healthbot.Message {
	out := make([]healthbot.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of messages in the conversation.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// Entry is one line of what the user was shown. Flagged marks the fixed
// emergency notice and the input that triggered it; neither is part of the
// model context.
type Entry struct {
	Role      healthbot.Role `json:"role"`
	Content   string         `json:"content"`
	Timestamp time.Time      `json:"timestamp"`
	Flagged   bool           `json:"flagged,omitempty"`
}

// Transcript is the display log of a session. Unlike Conversation it has its
// own lock, so it can be read while a turn is in flight.
type Transcript struct {
	mu      sync.RWMutex
	entries []Entry
}

// Record appends entries in order.
func (t *Transcript) Record(entries ...Entry) {
	t.mu.Lock()
	t.entries = append(t.entries, entries...)
	t.mu.Unlock()
}

// Entries returns a copy of the recorded entries.
func (t *Transcript) Entries() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Session represents one isolated conversation lifetime
type Session struct {
	ID        string    `json:"id"`         // UUID v4 (e.g., "550e8400-e29b-41d4-a716-446655440000")
	Model     string    `json:"model"`      // Model in "provider:model" format
	CreatedAt time.Time `json:"created_at"` // Creation time
	UpdatedAt time.Time `json:"updated_at"` // Last turn or lookup

	conversation Conversation
	transcript   Transcript
	mu           sync.Mutex // serialises turns
}

// NewSession creates a new session for the given model
func NewSession(model string) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.New().String(),
		Model:     model,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Conversation returns the session's conversation store.
func (s *Session) Conversation() *Conversation {
	return &s.conversation
}

// Transcript returns what has been shown to the user, flagged exchanges
// included.
func (s *Session) Transcript() *Transcript {
	return &s.transcript
}

// GetShortID returns the shortened session ID (first 8 characters)
func (s *Session) GetShortID() string {
	if len(s.ID) >= 8 {
		return s.ID[:8]
	}
	return s.ID
}

// MessageCount returns the number of messages in the session
func (s *Session) MessageCount() int {
	return s.conversation.Len()
}
