package prompt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gemrelay/internal/core"
)

func newTestBuilder(stub *stubUpstream) *Builder {
	return NewBuilder(NewResolver(stub, nil, 5*time.Millisecond))
}

func TestBuild_Validation(t *testing.T) {
	tests := []struct {
		name    string
		items   []core.ContentItem
		wantMsg string
	}{
		{
			name:    "nil contents",
			items:   nil,
			wantMsg: "contents must be a non-empty array",
		},
		{
			name:    "empty contents",
			items:   []core.ContentItem{},
			wantMsg: "contents must be a non-empty array",
		},
		{
			name:    "image missing mime type",
			items:   []core.ContentItem{{Type: core.KindImage, Data: "https://example.com/a.png"}},
			wantMsg: "image content requires both data and mimeType",
		},
		{
			name:    "audio missing data",
			items:   []core.ContentItem{{Type: core.KindAudio, MimeType: "audio/mpeg"}},
			wantMsg: "audio content requires both data and mimeType",
		},
		{
			name:    "video missing data",
			items:   []core.ContentItem{{Type: core.KindVideo, MimeType: "video/mp4"}},
			wantMsg: "video content requires both data and mimeType",
		},
		{
			name:    "pdf missing mime type",
			items:   []core.ContentItem{{Type: core.KindPDF, Data: "https://example.com/a.pdf"}},
			wantMsg: "pdf content requires both data and mimeType",
		},
		{
			name:    "mime type outside allow-list",
			items:   []core.ContentItem{{Type: core.KindImage, Data: pngDataURI, MimeType: "image/tiff"}},
			wantMsg: `unsupported mime type "image/tiff" for image content`,
		},
		{
			name:    "unsupported content type",
			items:   []core.ContentItem{{Type: "markdown", Data: "# hi"}},
			wantMsg: `unsupported content type "markdown"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubUpstream{}
			b := newTestBuilder(stub)

			_, err := b.Build(context.Background(), tt.items)
			require.Error(t, err)

			var relayErr *core.RelayError
			require.ErrorAs(t, err, &relayErr)
			assert.Equal(t, core.ErrorTypeInvalidRequest, relayErr.Type)
			assert.Equal(t, tt.wantMsg, relayErr.Message)
			assert.Equal(t, 0, stub.uploadCalls, "invalid items must not reach the upstream")
		})
	}
}

func TestBuild_TextItems(t *testing.T) {
	stub := &stubUpstream{}
	b := newTestBuilder(stub)

	parts, err := b.Build(context.Background(), []core.ContentItem{
		{Type: core.KindText, Data: "first"},
		{Type: core.KindText, Data: "second"},
	})
	require.NoError(t, err)
	require.Len(t, parts, 2)
	assert.Equal(t, "first", parts[0].Text)
	assert.Equal(t, "second", parts[1].Text)
	assert.Equal(t, 0, stub.uploadCalls)
}

func TestBuild_MixedTextAndAttachment(t *testing.T) {
	stub := &stubUpstream{
		uploadResult: &core.UploadedFile{
			Name:     "files/abc",
			URI:      "https://files.example/abc",
			MimeType: "image/png",
			State:    core.FileStateActive,
		},
	}
	b := newTestBuilder(stub)

	parts, err := b.Build(context.Background(), []core.ContentItem{
		{Type: core.KindText, Data: "describe this"},
		{Type: core.KindImage, Data: pngDataURI, MimeType: "image/png"},
	})
	require.NoError(t, err)
	require.Len(t, parts, 2)
	assert.False(t, parts[0].IsFile())
	assert.True(t, parts[1].IsFile())
	assert.Equal(t, "https://files.example/abc", parts[1].FileURI)
	assert.Equal(t, 1, stub.uploadCalls)
}

func TestBuild_DroppedAttachmentStillSucceedsWithText(t *testing.T) {
	stub := &stubUpstream{
		// Upload succeeds but the upstream never reports a locator.
		uploadResult: &core.UploadedFile{Name: "files/abc", State: core.FileStateActive},
	}
	b := newTestBuilder(stub)

	parts, err := b.Build(context.Background(), []core.ContentItem{
		{Type: core.KindText, Data: "fallback text"},
		{Type: core.KindImage, Data: pngDataURI, MimeType: "image/png"},
	})
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, "fallback text", parts[0].Text)
}

func TestBuild_AllItemsDropped(t *testing.T) {
	stub := &stubUpstream{
		uploadResult: &core.UploadedFile{Name: "files/abc", State: core.FileStateActive},
	}
	b := newTestBuilder(stub)

	_, err := b.Build(context.Background(), []core.ContentItem{
		{Type: core.KindImage, Data: pngDataURI, MimeType: "image/png"},
	})
	require.Error(t, err)

	var relayErr *core.RelayError
	require.ErrorAs(t, err, &relayErr)
	assert.Equal(t, core.ErrorTypeInvalidRequest, relayErr.Type)
	assert.Equal(t, "no usable content parts after attachment resolution", relayErr.Message)
}

func TestBuild_ResolverErrorPropagates(t *testing.T) {
	stub := &stubUpstream{
		uploadErr: core.NewUpstreamError("failed to upload file", nil),
	}
	b := newTestBuilder(stub)

	_, err := b.Build(context.Background(), []core.ContentItem{
		{Type: core.KindImage, Data: pngDataURI, MimeType: "image/png"},
	})
	require.Error(t, err)

	var relayErr *core.RelayError
	require.ErrorAs(t, err, &relayErr)
	assert.Equal(t, core.ErrorTypeUpstream, relayErr.Type)
}
