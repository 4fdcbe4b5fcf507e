package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"gemrelay/internal/core"
	"gemrelay/internal/observability"
)

type textEvent struct {
	Text string `json:"text"`
}

type endEvent struct {
	FinishReason string `json:"finishReason"`
}

type errorEvent struct {
	Error string `json:"error"`
}

// relayStream forwards the upstream chunk sequence to the caller as an
// event stream: one data record per non-empty text delta, in upstream
// order, flushed as received. A drain failure emits an error event frame
// (the response status is already committed by then) and is returned so
// the caller can account for it; normal exhaustion emits exactly one
// terminal end event and returns nil. A nil sequence closes the stream
// immediately with no records.
func relayStream(c echo.Context, stream core.ChunkSeq) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)

	if stream == nil {
		res.Flush()
		return nil
	}

	for chunk, err := range stream {
		if err != nil {
			slog.Error("upstream stream failed mid-relay", "error", err)
			writeErrorEvent(res, err)
			return err
		}
		if chunk == nil || chunk.Text == "" {
			continue
		}
		if err := writeTextEvent(res, chunk.Text); err != nil {
			// Caller went away; nothing left to relay to.
			return err
		}
		observability.StreamChunks.Inc()
	}

	writeEndEvent(res)
	return nil
}

func writeTextEvent(res *echo.Response, text string) error {
	payload, err := json.Marshal(textEvent{Text: text})
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(res, "data: %s\n\n", payload); err != nil {
		return err
	}
	res.Flush()
	return nil
}

func writeEndEvent(res *echo.Response) {
	payload, _ := json.Marshal(endEvent{FinishReason: "STOP"}) //nolint:errcheck
	_, _ = fmt.Fprintf(res, "event: end\ndata: %s\n\n", payload)
	res.Flush()
}

func writeErrorEvent(res *echo.Response, err error) {
	message := err.Error()
	var relayErr *core.RelayError
	if errors.As(err, &relayErr) {
		message = relayErr.Message
	}
	payload, _ := json.Marshal(errorEvent{Error: message}) //nolint:errcheck
	_, _ = fmt.Fprintf(res, "event: error\ndata: %s\n\n", payload)
	res.Flush()
}
