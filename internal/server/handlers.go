// Package server provides HTTP handlers and server setup for the relay.
package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"gemrelay/internal/core"
	"gemrelay/internal/observability"
	"gemrelay/internal/prompt"
)

// sdkName is reported by the health endpoint.
const sdkName = "google.golang.org/genai"

// Handler holds the HTTP handlers
type Handler struct {
	upstream     core.Upstream
	builder      *prompt.Builder
	defaultModel string
}

// NewHandler creates a new handler relaying requests to upstream.
func NewHandler(upstream core.Upstream, builder *prompt.Builder, defaultModel string) *Handler {
	return &Handler{
		upstream:     upstream,
		builder:      builder,
		defaultModel: defaultModel,
	}
}

// Generate handles POST /v1/generate
func (h *Handler) Generate(c echo.Context) error {
	var req core.GenerateRequest
	if err := c.Bind(&req); err != nil {
		return handleError(c, core.NewInvalidRequestError("invalid request body: "+err.Error(), err))
	}

	if len(req.Contents) == 0 {
		return handleError(c, core.NewInvalidRequestError("contents must be a non-empty array", nil))
	}

	if h.upstream == nil {
		return handleError(c, core.NewConfigurationError("upstream API key is not configured", nil))
	}

	ctx := c.Request().Context()

	parts, err := h.builder.Build(ctx, req.Contents)
	if err != nil {
		return handleError(c, err)
	}

	model := req.Model
	if model == "" {
		model = h.defaultModel
	}

	var stream core.ChunkSeq
	switch mode := core.SelectMode(req.Contents, req.History); mode {
	case core.ModeMultiTurn:
		text, ok := firstTextPart(parts)
		if !ok {
			return handleError(c, core.NewInvalidRequestError("multi-turn requests require a text content item", nil))
		}
		stream, err = h.upstream.StreamChat(ctx, model, req.History, req.Config, text)
	default:
		stream, err = h.upstream.StreamGenerate(ctx, model, parts, req.Config)
	}
	if err != nil {
		return handleError(c, err)
	}

	if err := relayStream(c, stream); err != nil {
		observability.GenerateRequests.WithLabelValues("stream_error").Inc()
		return nil
	}
	observability.GenerateRequests.WithLabelValues("ok").Inc()
	return nil
}

// Health handles GET /health
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":   "gemini relay is running",
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"sdk":       sdkName,
	})
}

// firstTextPart returns the text of the first literal-text part.
func firstTextPart(parts []core.Part) (string, bool) {
	for _, p := range parts {
		if !p.IsFile() {
			return p.Text, true
		}
	}
	return "", false
}

// handleError converts relay errors to the wire-level error envelope
func handleError(c echo.Context, err error) error {
	var relayErr *core.RelayError
	if errors.As(err, &relayErr) {
		status := relayErr.HTTPStatusCode()
		if status >= http.StatusInternalServerError {
			slog.Error("request failed", "type", relayErr.Type, "error", relayErr)
			observability.GenerateRequests.WithLabelValues("server_error").Inc()
		} else {
			observability.GenerateRequests.WithLabelValues("client_error").Inc()
		}
		return c.JSON(status, relayErr.ToJSON())
	}

	// Fallback for unexpected errors
	slog.Error("request failed", "error", err)
	observability.GenerateRequests.WithLabelValues("server_error").Inc()
	return c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"error": err.Error(),
	})
}
