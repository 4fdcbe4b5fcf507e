package core

import "context"

// Upstream is the surface of the generative-language API the relay needs.
// The gemini provider implements it over the genai SDK; tests substitute
// stub implementations.
type Upstream interface {
	// StreamGenerate issues a single-turn streamed generation call with the
	// full assembled prompt as one user-role content block.
	StreamGenerate(ctx context.Context, model string, parts []Part, cfg *GenerationConfig) (ChunkSeq, error)

	// StreamChat opens a conversational session seeded with history and
	// streams the reply to one new user message.
	StreamChat(ctx context.Context, model string, history []Turn, cfg *GenerationConfig, message string) (ChunkSeq, error)

	// UploadFile registers a binary payload with the upstream file service.
	UploadFile(ctx context.Context, data []byte, mimeType string) (*UploadedFile, error)

	// GetFile returns the current state of an uploaded file.
	GetFile(ctx context.Context, name string) (*UploadedFile, error)
}
