package dodo

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// ContentMeta carries the metadata shared by every content variant.
type ContentMeta struct {
	// Tag labels content for filtering (e.g. "observation", "context").
	Tag string `json:"tag,omitempty"`
	// Lifespan is how many iterations the content stays visible, counted
	// back from the newest pair. Zero means no limit.
	Lifespan int `json:"lifespan,omitempty"`
}

// Meta returns the shared metadata envelope.
func (m *ContentMeta) Meta() *ContentMeta { return m }

// Content is one part of a message. Variants: [*Text], [*Image],
// [*ToolCall], [*ToolResult].
type Content interface {
	Meta() *ContentMeta
}

// Text is a plain text content part.
type Text struct {
	ContentMeta
	Text string `json:"text"`
}

// NewText creates a Text content part.
func NewText(s string) *Text { return &Text{Text: s} }

// ImageMime identifies a supported image MIME type.
type ImageMime string

const (
	MimePNG  ImageMime = "image/png"
	MimeJPEG ImageMime = "image/jpeg"
	MimeWebP ImageMime = "image/webp"
	MimeGIF  ImageMime = "image/gif"
)

// Image is a base64-encoded image content part.
type Image struct {
	ContentMeta
	Data string    `json:"data"`
	Mime ImageMime `json:"mime_type"`
}

// NewImage creates an Image from raw bytes, detecting the MIME type from
// the magic bytes. Unrecognized data defaults to PNG.
func NewImage(raw []byte) *Image {
	mime, ok := DetectImageMime(raw)
	if !ok {
		mime = MimePNG
	}
	return &Image{Data: base64.StdEncoding.EncodeToString(raw), Mime: mime}
}

// DetectImageMime inspects the magic bytes of raw image data.
func DetectImageMime(raw []byte) (ImageMime, bool) {
	switch {
	case bytes.HasPrefix(raw, []byte("\x89PNG\r\n\x1a\n")):
		return MimePNG, true
	case bytes.HasPrefix(raw, []byte{0xFF, 0xD8, 0xFF}):
		return MimeJPEG, true
	case bytes.HasPrefix(raw, []byte("GIF87a")) || bytes.HasPrefix(raw, []byte("GIF89a")):
		return MimeGIF, true
	case len(raw) >= 12 && bytes.Equal(raw[:4], []byte("RIFF")) && bytes.Equal(raw[8:12], []byte("WEBP")):
		return MimeWebP, true
	}
	return "", false
}

// ToolCall is a model-emitted request to invoke a tool.
type ToolCall struct {
	ContentMeta
	// ID is set by providers that assign call IDs; Gemini does not.
	ID        string         `json:"id,omitempty"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

func (c *ToolCall) String() string {
	args, _ := json.Marshal(c.Arguments)
	return fmt.Sprintf("ToolCall(%s, %s)", c.Name, truncate(string(args), 100))
}

// ToolResultStatus is the outcome class of a tool execution.
type ToolResultStatus string

const (
	StatusSuccess ToolResultStatus = "success"
	StatusError   ToolResultStatus = "error"
	StatusSkipped ToolResultStatus = "skipped"
)

// ToolResult is the outcome of a tool call. It is included in the user
// message that follows the model message carrying the call.
type ToolResult struct {
	ContentMeta
	ToolCallID string           `json:"tool_call_id,omitempty"`
	Name       string           `json:"name"`
	Status     ToolResultStatus `json:"status"`
	Error      string           `json:"error,omitempty"`
	// Description is a human-readable account of the action taken.
	Description string `json:"description,omitempty"`
	// Terminal stops the current tool batch after this result.
	Terminal bool `json:"terminal,omitempty"`
}

func (r *ToolResult) String() string {
	s := fmt.Sprintf("ToolResult(%s: %s", r.Name, r.Status)
	if r.Error != "" {
		s += ", error=" + r.Error
	}
	if r.Terminal {
		s += ", terminal"
	}
	return s + ")"
}

// --- JSON codec ---
//
// Content values marshal with a "type" discriminator so Runs can be
// serialized and read back by external callers.

type contentKind struct {
	Type string `json:"type"`
}

// MarshalContent encodes a content part with its type discriminator.
func MarshalContent(c Content) ([]byte, error) {
	switch v := c.(type) {
	case *Text:
		return json.Marshal(struct {
			Type string `json:"type"`
			*Text
		}{"text", v})
	case *Image:
		return json.Marshal(struct {
			Type string `json:"type"`
			*Image
		}{"image", v})
	case *ToolCall:
		return json.Marshal(struct {
			Type string `json:"type"`
			*ToolCall
		}{"tool_call", v})
	case *ToolResult:
		return json.Marshal(struct {
			Type string `json:"type"`
			*ToolResult
		}{"tool_result", v})
	}
	return nil, fmt.Errorf("unknown content type %T", c)
}

// UnmarshalContent decodes a content part written by MarshalContent.
func UnmarshalContent(data []byte) (Content, error) {
	var kind contentKind
	if err := json.Unmarshal(data, &kind); err != nil {
		return nil, err
	}
	switch kind.Type {
	case "text":
		var v Text
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return &v, nil
	case "image":
		var v Image
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return &v, nil
	case "tool_call":
		var v ToolCall
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return &v, nil
	case "tool_result":
		var v ToolResult
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return &v, nil
	}
	return nil, fmt.Errorf("unknown content type %q", kind.Type)
}

// truncate shortens a string to n runes for display.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
