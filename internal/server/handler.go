package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/emicklei/go-restful/v3"
	"github.com/longkey1/healthbot/internal/healthbot"
	"github.com/longkey1/healthbot/internal/healthbot/assistant"
	"github.com/longkey1/healthbot/internal/healthbot/session"
	"github.com/longkey1/healthbot/internal/version"
	"github.com/rs/zerolog"
)

type Handler struct {
	assistant *assistant.Assistant
	registry  *session.Registry
	model     string
	logger    *zerolog.Logger
}

func NewHandler(assistant *assistant.Assistant, registry *session.Registry, model string, logger *zerolog.Logger) *Handler {
	return &Handler{
		assistant: assistant,
		registry:  registry,
		model:     model,
		logger:    logger,
	}
}

// Health handler GET /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	resp.WriteHeaderAndEntity(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: version.Short(),
	})
}

// CreateSession handles POST /api/v1/sessions
func (h *Handler) CreateSession(req *restful.Request, resp *restful.Response) {
	s := h.registry.Create(h.model)

	h.logger.Info().Str("session", s.GetShortID()).Int("live", h.registry.Len()).Msg("session created")

	resp.WriteHeaderAndEntity(http.StatusCreated, SessionResponse{
		SessionID: s.ID,
		Model:     s.Model,
		CreatedAt: s.CreatedAt,
	})
}

// History handles GET /api/v1/sessions/{session_id}/messages
func (h *Handler) History(req *restful.Request, resp *restful.Response) {
	sessionID := req.PathParameter("session_id")

	entries, err := h.registry.Transcript(sessionID)
	if err != nil {
		h.sessionError(resp, err)
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, HistoryResponse{
		SessionID: sessionID,
		Messages:  entries,
	})
}

// SendMessage handles POST /api/v1/sessions/{session_id}/messages
func (h *Handler) SendMessage(req *restful.Request, resp *restful.Response) {
	sessionID := req.PathParameter("session_id")

	var msgRequest MessageRequest
	if err := req.ReadEntity(&msgRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		HandleError(resp, err, http.StatusBadRequest)
		return
	}
	if err := msgRequest.Validate(); err != nil {
		HandleError(resp, err, http.StatusBadRequest)
		return
	}

	ctx := req.Request.Context()

	var outcome assistant.Outcome
	err := h.registry.With(sessionID, func(s *session.Session) error {
		outcome = h.assistant.HandleTurn(ctx, s.Conversation(), msgRequest.Message)
		recordTurn(s.Transcript(), msgRequest.Message, outcome)
		return nil
	})
	if err != nil {
		h.sessionError(resp, err)
		return
	}

	switch outcome.Kind {
	case assistant.Failed:
		status := http.StatusBadGateway
		if outcome.TimedOut() {
			status = http.StatusGatewayTimeout
		}
		// outcome.Text is the user-facing notice, never the raw error
		HandleError(resp, errors.New(outcome.Text), status)
		return
	case assistant.Empty:
		HandleError(resp, ErrEmptyMessage, http.StatusBadRequest)
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, MessageResponse{
		SessionID: sessionID,
		Reply:     outcome.Text,
		Outcome:   string(outcome.Kind),
		Flagged:   outcome.Verdict.Flagged,
		Category:  string(outcome.Verdict.Category),
	})
}

// DeleteSession handles DELETE /api/v1/sessions/{session_id}
func (h *Handler) DeleteSession(req *restful.Request, resp *restful.Response) {
	sessionID := req.PathParameter("session_id")

	if err := h.registry.Delete(sessionID); err != nil {
		h.sessionError(resp, err)
		return
	}

	h.logger.Info().Int("live", h.registry.Len()).Msg("session deleted")
	resp.WriteHeader(http.StatusNoContent)
}

// recordTurn adds a shown exchange to the transcript. Failed and empty turns
// show nothing worth restoring.
func recordTurn(t *session.Transcript, input string, outcome assistant.Outcome) {
	var flagged bool
	switch outcome.Kind {
	case assistant.Answered:
	case assistant.Flagged:
		flagged = true
	default:
		return
	}
	now := time.Now()
	t.Record(
		session.Entry{Role: healthbot.RoleUser, Content: strings.TrimSpace(input), Timestamp: now, Flagged: flagged},
		session.Entry{Role: healthbot.RoleAssistant, Content: outcome.Text, Timestamp: now, Flagged: flagged},
	)
}

func (h *Handler) sessionError(resp *restful.Response, err error) {
	if errors.Is(err, session.ErrNotFound) {
		HandleError(resp, session.ErrNotFound, http.StatusNotFound)
		return
	}
	h.logger.Error().Err(err).Msg("session operation failed")
	HandleError(resp, ErrInternal, http.StatusInternalServerError)
}
