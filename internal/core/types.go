package core

import "iter"

// ContentKind identifies the kind of a single content item in a request.
type ContentKind string

const (
	KindText  ContentKind = "text"
	KindImage ContentKind = "image"
	KindAudio ContentKind = "audio"
	KindVideo ContentKind = "video"
	KindPDF   ContentKind = "pdf"
)

// ContentItem is one unit of the inbound multi-modal content list.
// For KindText, Data is the literal prompt text. For all other kinds,
// Data references a binary payload (https URL or data: URI) and MimeType
// is mandatory.
type ContentItem struct {
	Type     ContentKind `json:"type"`
	Data     string      `json:"data"`
	MimeType string      `json:"mimeType,omitempty"`
}

// IsText reports whether the item carries literal prompt text.
func (c ContentItem) IsText() bool {
	return c.Type == KindText
}

// TurnPart is one part of a prior conversation turn.
type TurnPart struct {
	Text string `json:"text"`
}

// Turn is one prior conversation turn, supplied verbatim by the caller in
// the upstream's content format. The relay passes turns through without
// validating their semantics.
type Turn struct {
	Role  string     `json:"role"`
	Parts []TurnPart `json:"parts"`
}

// GenerationConfig carries generation parameters passed through to the
// upstream, plus an optional system instruction. It mirrors the full
// scalar parameter set of the upstream's generation config so caller
// knobs survive the relay unchanged.
type GenerationConfig struct {
	Temperature       *float32 `json:"temperature,omitempty"`
	TopP              *float32 `json:"topP,omitempty"`
	TopK              *float32 `json:"topK,omitempty"`
	CandidateCount    int32    `json:"candidateCount,omitempty"`
	MaxOutputTokens   int32    `json:"maxOutputTokens,omitempty"`
	StopSequences     []string `json:"stopSequences,omitempty"`
	PresencePenalty   *float32 `json:"presencePenalty,omitempty"`
	FrequencyPenalty  *float32 `json:"frequencyPenalty,omitempty"`
	Seed              *int32   `json:"seed,omitempty"`
	ResponseLogprobs  bool     `json:"responseLogprobs,omitempty"`
	Logprobs          *int32   `json:"logprobs,omitempty"`
	ResponseMIMEType  string   `json:"responseMimeType,omitempty"`
	SystemInstruction string   `json:"systemInstruction,omitempty"`
}

// GenerateRequest is the inbound request body for the relay endpoint.
type GenerateRequest struct {
	Contents []ContentItem     `json:"contents"`
	History  []Turn            `json:"history,omitempty"`
	Config   *GenerationConfig `json:"config,omitempty"`
	Model    string            `json:"model,omitempty"`
}

// Part is one unit of an assembled prompt: either literal text or a
// reference to a file registered with the upstream file service.
type Part struct {
	Text     string
	FileURI  string
	MimeType string
}

// TextPart builds a literal-text prompt part.
func TextPart(text string) Part {
	return Part{Text: text}
}

// FilePart builds a prompt part referencing an uploaded file.
func FilePart(uri, mimeType string) Part {
	return Part{FileURI: uri, MimeType: mimeType}
}

// IsFile reports whether the part references an uploaded file.
func (p Part) IsFile() bool {
	return p.FileURI != ""
}

// FileState is the processing state of a file registered with the
// upstream file service.
type FileState string

const (
	FileStateUnspecified FileState = "STATE_UNSPECIFIED"
	FileStateProcessing  FileState = "PROCESSING"
	FileStateActive      FileState = "ACTIVE"
	FileStateFailed      FileState = "FAILED"
)

// UploadedFile is a transient handle for a binary attachment registered
// with the upstream file service. It lives for the duration of one
// attachment resolution and is discarded once converted into a Part.
type UploadedFile struct {
	Name     string
	URI      string
	MimeType string
	State    FileState
}

// Chunk is one unit of streamed model output. Text may be empty for
// chunks that carry no text delta.
type Chunk struct {
	Text string
}

// ChunkSeq is an ordered, finite sequence of streamed chunks. Iteration
// yields either a chunk or an error; an error terminates the sequence.
type ChunkSeq = iter.Seq2[*Chunk, error]
