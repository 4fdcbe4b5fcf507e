// Package prompt turns the inbound content list into upstream prompt
// parts, resolving binary attachments through the upstream file service.
package prompt

import (
	"context"
	"fmt"

	"gemrelay/internal/core"
)

// allowedMimeTypes is the fixed allow-list of media types accepted per
// binary content kind, matching what the Gemini file service ingests.
var allowedMimeTypes = map[core.ContentKind]map[string]struct{}{
	core.KindImage: toSet(
		"image/jpeg", "image/png", "image/webp", "image/heic", "image/heif",
	),
	core.KindAudio: toSet(
		"audio/mpeg", "audio/mp3", "audio/wav", "audio/ogg", "audio/flac", "audio/aac",
	),
	core.KindVideo: toSet(
		"video/mp4", "video/mpeg", "video/webm", "video/quicktime", "video/3gpp", "video/x-flv",
	),
	core.KindPDF: toSet(
		"application/pdf",
	),
}

func toSet(values ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// Builder assembles prompt parts from a validated content list.
type Builder struct {
	resolver *Resolver
}

// NewBuilder creates a builder that resolves attachments through resolver.
func NewBuilder(resolver *Resolver) *Builder {
	return &Builder{resolver: resolver}
}

// Build validates each content item and produces the ordered prompt part
// list. Attachments are resolved sequentially, one item fully uploaded and
// polled to readiness before the next begins. Fails if the resulting part
// list would be empty.
func (b *Builder) Build(ctx context.Context, items []core.ContentItem) ([]core.Part, error) {
	if len(items) == 0 {
		return nil, core.NewInvalidRequestError("contents must be a non-empty array", nil)
	}

	parts := make([]core.Part, 0, len(items))
	for _, item := range items {
		switch item.Type {
		case core.KindText:
			parts = append(parts, core.TextPart(item.Data))

		case core.KindImage, core.KindAudio, core.KindVideo, core.KindPDF:
			if item.Data == "" || item.MimeType == "" {
				return nil, core.NewInvalidRequestError(
					fmt.Sprintf("%s content requires both data and mimeType", item.Type), nil)
			}
			if _, ok := allowedMimeTypes[item.Type][item.MimeType]; !ok {
				return nil, core.NewInvalidRequestError(
					fmt.Sprintf("unsupported mime type %q for %s content", item.MimeType, item.Type), nil)
			}
			part, err := b.resolver.Resolve(ctx, item.Data, item.MimeType)
			if err != nil {
				return nil, err
			}
			// A nil part means the upload came back without usable
			// metadata; the item is dropped and the rest proceed.
			if part != nil {
				parts = append(parts, *part)
			}

		default:
			return nil, core.NewInvalidRequestError(
				fmt.Sprintf("unsupported content type %q", item.Type), nil)
		}
	}

	if len(parts) == 0 {
		return nil, core.NewInvalidRequestError("no usable content parts after attachment resolution", nil)
	}
	return parts, nil
}
