// Package gemini implements core.Upstream over the Google genai SDK.
package gemini

import (
	"bytes"
	"context"
	"fmt"
	"iter"

	"google.golang.org/genai"

	"gemrelay/internal/core"
)

// Client wraps a genai.Client configured for the Gemini API backend.
type Client struct {
	genai *genai.Client
}

// New creates a new Gemini client. The API key is required.
func New(ctx context.Context, apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Client{genai: c}, nil
}

// StreamGenerate issues a single-turn streamed generation call with all
// parts packed into one user-role content block.
func (c *Client) StreamGenerate(ctx context.Context, model string, parts []core.Part, cfg *core.GenerationConfig) (core.ChunkSeq, error) {
	content := &genai.Content{
		Role:  genai.RoleUser,
		Parts: toGenaiParts(parts),
	}

	stream := c.genai.Models.GenerateContentStream(ctx, model, []*genai.Content{content}, toGenaiConfig(cfg))
	return adaptStream(stream), nil
}

// StreamChat opens a chat session seeded with the supplied history and
// streams the reply to one new user message.
func (c *Client) StreamChat(ctx context.Context, model string, history []core.Turn, cfg *core.GenerationConfig, message string) (core.ChunkSeq, error) {
	chat, err := c.genai.Chats.Create(ctx, model, toGenaiConfig(cfg), toGenaiHistory(history))
	if err != nil {
		return nil, core.NewUpstreamError("failed to open chat session: "+err.Error(), err)
	}

	return adaptStream(chat.SendMessageStream(ctx, genai.Part{Text: message})), nil
}

// UploadFile registers a binary payload with the Gemini file service.
func (c *Client) UploadFile(ctx context.Context, data []byte, mimeType string) (*core.UploadedFile, error) {
	f, err := c.genai.Files.Upload(ctx, bytes.NewReader(data), &genai.UploadFileConfig{
		MIMEType: mimeType,
	})
	if err != nil {
		return nil, core.NewUpstreamError("failed to upload file: "+err.Error(), err)
	}

	return fromGenaiFile(f), nil
}

// GetFile returns the current state of an uploaded file.
func (c *Client) GetFile(ctx context.Context, name string) (*core.UploadedFile, error) {
	f, err := c.genai.Files.Get(ctx, name, nil)
	if err != nil {
		return nil, core.NewUpstreamError("failed to get file status: "+err.Error(), err)
	}

	return fromGenaiFile(f), nil
}

// adaptStream converts the SDK's response sequence into the relay's chunk
// sequence. An SDK error ends the sequence.
func adaptStream(stream iter.Seq2[*genai.GenerateContentResponse, error]) core.ChunkSeq {
	return func(yield func(*core.Chunk, error) bool) {
		for resp, err := range stream {
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(&core.Chunk{Text: resp.Text()}, nil) {
				return
			}
		}
	}
}

func toGenaiParts(parts []core.Part) []*genai.Part {
	out := make([]*genai.Part, 0, len(parts))
	for _, p := range parts {
		if p.IsFile() {
			out = append(out, genai.NewPartFromURI(p.FileURI, p.MimeType))
			continue
		}
		out = append(out, genai.NewPartFromText(p.Text))
	}
	return out
}

func toGenaiHistory(history []core.Turn) []*genai.Content {
	out := make([]*genai.Content, 0, len(history))
	for _, turn := range history {
		parts := make([]*genai.Part, 0, len(turn.Parts))
		for _, p := range turn.Parts {
			parts = append(parts, genai.NewPartFromText(p.Text))
		}
		out = append(out, &genai.Content{Role: turn.Role, Parts: parts})
	}
	return out
}

func toGenaiConfig(cfg *core.GenerationConfig) *genai.GenerateContentConfig {
	if cfg == nil {
		return nil
	}

	out := &genai.GenerateContentConfig{
		Temperature:      cfg.Temperature,
		TopP:             cfg.TopP,
		TopK:             cfg.TopK,
		CandidateCount:   cfg.CandidateCount,
		MaxOutputTokens:  cfg.MaxOutputTokens,
		StopSequences:    cfg.StopSequences,
		PresencePenalty:  cfg.PresencePenalty,
		FrequencyPenalty: cfg.FrequencyPenalty,
		Seed:             cfg.Seed,
		ResponseLogprobs: cfg.ResponseLogprobs,
		Logprobs:         cfg.Logprobs,
		ResponseMIMEType: cfg.ResponseMIMEType,
	}
	if cfg.SystemInstruction != "" {
		out.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(cfg.SystemInstruction)},
		}
	}
	return out
}

func fromGenaiFile(f *genai.File) *core.UploadedFile {
	if f == nil {
		return &core.UploadedFile{}
	}
	return &core.UploadedFile{
		Name:     f.Name,
		URI:      f.URI,
		MimeType: f.MIMEType,
		State:    fromGenaiFileState(f.State),
	}
}

func fromGenaiFileState(state genai.FileState) core.FileState {
	switch state {
	case genai.FileStateProcessing:
		return core.FileStateProcessing
	case genai.FileStateActive:
		return core.FileStateActive
	case genai.FileStateFailed:
		return core.FileStateFailed
	default:
		return core.FileStateUnspecified
	}
}
