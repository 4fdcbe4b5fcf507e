// Package observability defines the Prometheus collectors for the relay.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GenerateRequests counts handled generate requests by outcome
	// (ok, client_error, server_error).
	GenerateRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gemrelay_generate_requests_total",
		Help: "Generate requests handled, labeled by outcome.",
	}, []string{"outcome"})

	// StreamChunks counts text deltas relayed to callers.
	StreamChunks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gemrelay_stream_chunks_total",
		Help: "Text chunks relayed to callers.",
	})

	// AttachmentUploads counts attachments registered with the upstream
	// file service.
	AttachmentUploads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gemrelay_attachment_uploads_total",
		Help: "Attachments uploaded to the upstream file service.",
	})

	// AttachmentPolls counts file-status checks issued while waiting for
	// uploads to become usable.
	AttachmentPolls = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gemrelay_attachment_polls_total",
		Help: "File-status polls issued against the upstream file service.",
	})
)
