package prompt

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"gemrelay/internal/core"
	"gemrelay/internal/httpclient"
	"gemrelay/internal/observability"
)

// DefaultPollInterval is the fixed wait between file-status checks while
// the upstream reports an attachment as still processing.
const DefaultPollInterval = 5 * time.Second

// Resolver retrieves attachment payloads, registers them with the
// upstream file service, and polls until they are usable in a prompt.
type Resolver struct {
	upstream     core.Upstream
	client       *http.Client
	pollInterval time.Duration
}

// NewResolver creates a resolver. A nil client falls back to the shared
// default; a non-positive interval falls back to DefaultPollInterval.
func NewResolver(upstream core.Upstream, client *http.Client, pollInterval time.Duration) *Resolver {
	if client == nil {
		client = httpclient.New(nil)
	}
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &Resolver{
		upstream:     upstream,
		client:       client,
		pollInterval: pollInterval,
	}
}

// Resolve fetches the referenced payload, uploads it tagged with mimeType,
// and polls the file status until it leaves the processing state. Returns
// a prompt part referencing the uploaded file, or nil (with nil error)
// when the upstream reports no usable locator for it. There is no poll
// timeout; a caller disconnect cancels the wait through ctx.
func (r *Resolver) Resolve(ctx context.Context, ref, mimeType string) (*core.Part, error) {
	data, err := r.fetch(ctx, ref)
	if err != nil {
		return nil, err
	}

	file, err := r.upstream.UploadFile(ctx, data, mimeType)
	if err != nil {
		return nil, err
	}
	observability.AttachmentUploads.Inc()

	if file.Name == "" {
		file.Name = "files/" + uuid.NewString()
	}

	for file.State == core.FileStateProcessing {
		if err := sleepContext(ctx, r.pollInterval); err != nil {
			return nil, core.NewUpstreamError("attachment processing interrupted: "+err.Error(), err)
		}
		observability.AttachmentPolls.Inc()
		file, err = r.upstream.GetFile(ctx, file.Name)
		if err != nil {
			return nil, err
		}
	}

	if file.URI == "" || file.MimeType == "" {
		slog.Warn("uploaded file has no usable locator, dropping item",
			"file", file.Name, "state", file.State)
		return nil, nil
	}

	part := core.FilePart(file.URI, file.MimeType)
	return &part, nil
}

// fetch retrieves the binary payload behind a content reference. Remote
// URLs are downloaded; data: URIs are decoded in place.
func (r *Resolver) fetch(ctx context.Context, ref string) ([]byte, error) {
	switch {
	case strings.HasPrefix(ref, "data:"):
		data, err := decodeDataURI(ref)
		if err != nil {
			return nil, core.NewInvalidRequestError("invalid data URI: "+err.Error(), err)
		}
		return data, nil

	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
		if err != nil {
			return nil, core.NewInvalidRequestError("invalid attachment URL: "+err.Error(), err)
		}
		resp, err := r.client.Do(req)
		if err != nil {
			return nil, core.NewUpstreamError("failed to fetch attachment: "+err.Error(), err)
		}
		defer func() {
			_ = resp.Body.Close() //nolint:errcheck
		}()
		if resp.StatusCode != http.StatusOK {
			return nil, core.NewUpstreamError(
				fmt.Sprintf("attachment fetch returned status %d", resp.StatusCode), nil)
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, core.NewUpstreamError("failed to read attachment body: "+err.Error(), err)
		}
		return data, nil

	default:
		return nil, core.NewInvalidRequestError("attachment data must be an http(s) URL or data URI", nil)
	}
}

// decodeDataURI decodes "data:<mediatype>[;base64],<payload>". Plain
// payloads are percent-encoded per RFC 2397.
func decodeDataURI(uri string) ([]byte, error) {
	meta, payload, found := strings.Cut(uri, ",")
	if !found {
		return nil, fmt.Errorf("missing payload separator")
	}
	if strings.HasSuffix(meta, ";base64") {
		return base64.StdEncoding.DecodeString(payload)
	}
	decoded, err := url.PathUnescape(payload)
	if err != nil {
		return nil, err
	}
	return []byte(decoded), nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
