// Package assistant runs one conversational turn: safety filter first, then
// the model relay, then the conversation update. Both the CLI and the web
// server go through HandleTurn.
package assistant

//go:generate mockgen -source=assistant.go -destination=mocks/mock_relay.go -package=mocks Relay

import (
	"context"
	"errors"
	"strings"

	"github.com/longkey1/healthbot/internal/healthbot"
	"github.com/longkey1/healthbot/internal/healthbot/safety"
	"github.com/longkey1/healthbot/internal/healthbot/session"
	"github.com/rs/zerolog"
)

// Fixed notices shown to the user.
const (
	EmergencyMessage = "⚠️ This may require immediate medical attention. Please contact a doctor."
	FailureMessage   = "Sorry, I couldn't get an answer right now. Please try again in a moment."
	TimeoutMessage   = "Sorry, the assistant took too long to respond. Please try again."
)

// Relay sends a conversation to the model and returns its reply.
type Relay interface {
	Respond(ctx context.Context, history []healthbot.Message, newMessage healthbot.Message) (healthbot.Message, error)
}

// Kind classifies the result of a turn.
type Kind string

const (
	Answered Kind = "answered"
	Flagged  Kind = "flagged"
	Failed   Kind = "failed"
	Empty    Kind = "empty"
)

// Outcome is what an adapter renders after a turn.
type Outcome struct {
	Kind    Kind
	Text    string
	Verdict safety.Verdict
	Err     error // relay error, for logging only; never shown to the user
}

// TimedOut reports whether a failed turn ran out of time.
func (o Outcome) TimedOut() bool {
	return o.Kind == Failed && errors.Is(o.Err, healthbot.ErrTimeout)
}

// Assistant wires the safety filter to the relay.
type Assistant struct {
	filter *safety.Filter
	relay  Relay
	logger *zerolog.Logger
}

// New creates an Assistant.
func New(filter *safety.Filter, relay Relay, logger *zerolog.Logger) *Assistant {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Assistant{
		filter: filter,
		relay:  relay,
		logger: logger,
	}
}

// HandleTurn processes one user input against conv.
//
// Only an answered turn changes conv: the user message and the reply are
// appended together. Flagged input never reaches the relay.
// The caller must hold exclusive access to conv for the duration of the call.
func (a *Assistant) HandleTurn(ctx context.Context, conv *session.Conversation, raw string) Outcome {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Outcome{Kind: Empty}
	}

	verdict := a.filter.Evaluate(text)
	if verdict.Flagged {
		// user text stays out of the log
		a.logger.Info().Str("category", string(verdict.Category)).Msg("input flagged by safety filter")
		return Outcome{Kind: Flagged, Text: EmergencyMessage, Verdict: verdict}
	}

	userMsg := healthbot.NewMessage(healthbot.RoleUser, text)
	reply, err := a.relay.Respond(ctx, conv.History(), userMsg)
	if err != nil {
		outcome := Outcome{Kind: Failed, Text: FailureMessage, Verdict: verdict, Err: err}
		if outcome.TimedOut() {
			outcome.Text = TimeoutMessage
		}
		a.logger.Error().Err(err).Int("history", conv.Len()).Msg("turn failed")
		return outcome
	}

	conv.Append(userMsg)
	conv.Append(reply)

	a.logger.Debug().Int("history", conv.Len()).Msg("turn answered")
	return Outcome{Kind: Answered, Text: reply.Content, Verdict: verdict}
}
