// Package relay sends a conversation to the configured model provider and
// returns its reply, bounding each turn by a timeout and retrying transient
// failures with exponential backoff.
package relay

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/longkey1/healthbot/internal/healthbot"
	"github.com/rs/zerolog"
)

const (
	DefaultTimeout        = 30 * time.Second
	DefaultMaxRetries     = 2
	DefaultInitialBackoff = 500 * time.Millisecond
	DefaultMaxBackoff     = 4 * time.Second
)

// Options configures a Client. Zero values fall back to the defaults above,
// except MaxRetries where zero means a single attempt.
type Options struct {
	SystemPrompt   string
	Timeout        time.Duration
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Client relays user messages to a healthbot.Provider.
// It holds no per-conversation state and is safe for concurrent use.
type Client struct {
	provider healthbot.Provider
	opts     Options
	logger   *zerolog.Logger
}

// NewClient creates a relay client over provider.
func NewClient(provider healthbot.Provider, opts Options, logger *zerolog.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.InitialBackoff <= 0 {
		opts.InitialBackoff = DefaultInitialBackoff
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = DefaultMaxBackoff
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &Client{
		provider: provider,
		opts:     opts,
		logger:   logger,
	}
}

// Respond sends history plus newMessage to the model and returns the
// assistant's reply. history is not modified.
//
// Errors are a *healthbot.TransportError (wrapping healthbot.ErrTimeout when
// the turn ran out of time), a *healthbot.APIError, or a
// *healthbot.UnexpectedResponseError.
func (c *Client) Respond(ctx context.Context, history []healthbot.Message, newMessage healthbot.Message) (healthbot.Message, error) {
	if newMessage.Role != healthbot.RoleUser {
		return healthbot.Message{}, fmt.Errorf("relay: new message must have role %q, got %q", healthbot.RoleUser, newMessage.Role)
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	var lastErr error
	for attempt := 0; attempt <= c.opts.MaxRetries; attempt++ {
		start := time.Now()
		text, err := c.provider.ChatWithHistory(ctx, c.opts.SystemPrompt, history, newMessage.Content)
		if err == nil {
			if strings.TrimSpace(text) == "" {
				return healthbot.Message{}, &healthbot.UnexpectedResponseError{
					Provider: "model",
					Reason:   "reply contains no text",
					Err:      healthbot.ErrEmptyResponse,
				}
			}
			c.logger.Debug().
				Int("attempt", attempt+1).
				Dur("duration", time.Since(start)).
				Int("history", len(history)).
				Msg("model replied")
			return healthbot.NewMessage(healthbot.RoleAssistant, text), nil
		}

		if ctxErr := c.contextError(ctx); ctxErr != nil {
			return healthbot.Message{}, ctxErr
		}

		lastErr = err
		if !healthbot.IsTransient(err) {
			return healthbot.Message{}, wrap(err)
		}
		if attempt == c.opts.MaxRetries {
			break
		}

		delay := calculateBackoff(attempt, c.opts.InitialBackoff, c.opts.MaxBackoff)
		c.logger.Warn().
			Err(err).
			Int("attempt", attempt+1).
			Dur("backoff", delay).
			Msg("transient model error, retrying")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return healthbot.Message{}, c.contextError(ctx)
		case <-timer.C:
		}
	}

	return healthbot.Message{}, wrap(fmt.Errorf("giving up after %d attempts: %w", c.opts.MaxRetries+1, lastErr))
}

// contextError maps an expired or cancelled turn context to the relay's
// error taxonomy. It returns nil while ctx is still live.
func (c *Client) contextError(ctx context.Context) error {
	switch err := ctx.Err(); {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		c.logger.Warn().Dur("timeout", c.opts.Timeout).Msg("model request timed out")
		return &healthbot.TransportError{Op: "relay", Err: healthbot.ErrTimeout}
	default:
		return &healthbot.TransportError{Op: "relay", Err: err}
	}
}

// wrap leaves the typed provider errors untouched and marks anything else as
// a transport failure.
func wrap(err error) error {
	var (
		transportErr  *healthbot.TransportError
		apiErr        *healthbot.APIError
		unexpectedErr *healthbot.UnexpectedResponseError
	)
	if errors.As(err, &transportErr) || errors.As(err, &apiErr) || errors.As(err, &unexpectedErr) {
		return err
	}
	return &healthbot.TransportError{Op: "relay", Err: err}
}

// calculateBackoff returns initial*2^attempt capped at max, with ±20% jitter.
func calculateBackoff(attempt int, initial, max time.Duration) time.Duration {
	backoff := float64(initial) * math.Pow(2, float64(attempt))
	if backoff > float64(max) {
		backoff = float64(max)
	}

	jitter := backoff * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(backoff + jitter)
}
