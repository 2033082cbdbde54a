package gemini

import (
	"encoding/json"
	"fmt"
)

// Part is one atomic content unit in a Gemini conversation turn. Exactly one
// of Text, InlineData, or FileData is set. The API accepts both snake_case
// and camelCase field names; snake_case matches the wire bytes the host's
// other integrations produce.
type Part struct {
	Text          *string        `json:"text,omitempty"`
	InlineData    *InlineData    `json:"inline_data,omitempty"`
	FileData      *FileData      `json:"file_data,omitempty"`
	VideoMetadata map[string]any `json:"video_metadata,omitempty"`
}

// InlineData is a base64 payload embedded directly in the request body.
type InlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

// FileData references externally hosted content the API fetches itself,
// e.g. a YouTube URL.
type FileData struct {
	FileURI string `json:"file_uri"`
}

// TextPart builds a text part.
func TextPart(text string) Part {
	return Part{Text: &text}
}

// InlineDataPart builds an inline base64 data part.
func InlineDataPart(mimeType, data string) Part {
	return Part{InlineData: &InlineData{MimeType: mimeType, Data: data}}
}

// FileDataPart builds a by-reference file part.
func FileDataPart(uri string) Part {
	return Part{FileData: &FileData{FileURI: uri}}
}

// Content is one role-tagged turn in the conversation sent to the API.
type Content struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

// GenerationConfig tunes the generation request.
type GenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// generateRequest is the request body for both generate methods.
type generateRequest struct {
	Contents         []Content        `json:"contents"`
	GenerationConfig GenerationConfig `json:"generationConfig"`
}

// generateResponse mirrors both the complete and the streamed response shape.
type generateResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content candidateContent `json:"content"`
}

type candidateContent struct {
	Parts []Part `json:"parts"`
}

// text concatenates every text part of the first candidate, in order.
func (r generateResponse) text() (string, bool) {
	if len(r.Candidates) == 0 {
		return "", false
	}
	parts := r.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return "", false
	}
	out := ""
	for _, part := range parts {
		if part.Text != nil {
			out += *part.Text
		}
	}
	return out, true
}

// PartsShape tags the three shapes formatted content can take on the wire.
type PartsShape int

const (
	ShapeEmpty PartsShape = iota
	ShapeSingle
	ShapeMany
)

// FormattedParts is the result of formatting one message's content. The
// shape is kept explicit internally; flattening to the upstream's
// "bare part or array" convention happens only at the JSON boundary.
type FormattedParts struct {
	Shape PartsShape
	parts []Part
}

// NewFormattedParts tags a part slice with its wire shape.
func NewFormattedParts(parts []Part) FormattedParts {
	switch len(parts) {
	case 0:
		return FormattedParts{Shape: ShapeEmpty}
	case 1:
		return FormattedParts{Shape: ShapeSingle, parts: parts}
	default:
		return FormattedParts{Shape: ShapeMany, parts: parts}
	}
}

// Parts returns the content as a parts sequence suitable for a conversation
// turn: a bare part is wrapped, and empty content becomes one empty text part.
func (f FormattedParts) Parts() []Part {
	if f.Shape == ShapeEmpty {
		return []Part{TextPart("")}
	}
	return f.parts
}

// MarshalJSON flattens to the upstream's accepted shapes: a bare part object
// for a single part, an array for several, and an empty text part otherwise.
func (f FormattedParts) MarshalJSON() ([]byte, error) {
	switch f.Shape {
	case ShapeEmpty:
		return json.Marshal(TextPart(""))
	case ShapeSingle:
		return json.Marshal(f.parts[0])
	case ShapeMany:
		return json.Marshal(f.parts)
	default:
		return nil, fmt.Errorf("unknown parts shape: %d", f.Shape)
	}
}
