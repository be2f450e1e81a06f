package dodo

import (
	"encoding/base64"
	"testing"
)

func TestDetectImageMime(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want ImageMime
		ok   bool
	}{
		{"png", []byte("\x89PNG\r\n\x1a\n rest"), MimePNG, true},
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00}, MimeJPEG, true},
		{"gif87", []byte("GIF87a...."), MimeGIF, true},
		{"gif89", []byte("GIF89a...."), MimeGIF, true},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), MimeWebP, true},
		{"unknown", []byte("plain text"), "", false},
		{"short", []byte("RIFF"), "", false},
		{"empty", nil, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := DetectImageMime(tc.data)
			if got != tc.want || ok != tc.ok {
				t.Errorf("DetectImageMime = %q, %v; want %q, %v", got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestNewImage(t *testing.T) {
	raw := []byte("\x89PNG\r\n\x1a\npixels")
	img := NewImage(raw)
	if img.Mime != MimePNG {
		t.Errorf("mime = %s", img.Mime)
	}
	decoded, err := base64.StdEncoding.DecodeString(img.Data)
	if err != nil || string(decoded) != string(raw) {
		t.Errorf("data round trip failed: %v", err)
	}
}

func TestNewImageUnknownDefaultsPNG(t *testing.T) {
	img := NewImage([]byte("mystery"))
	if img.Mime != MimePNG {
		t.Errorf("mime = %s", img.Mime)
	}
}

func TestContentJSONRoundTrip(t *testing.T) {
	ephemeral := NewText("observation")
	ephemeral.Tag = "observation"
	ephemeral.Lifespan = 2

	parts := []Content{
		ephemeral,
		&Image{Data: "aGk=", Mime: MimeJPEG},
		&ToolCall{ID: "c1", Name: "add", Arguments: map[string]any{"a": float64(1)}},
		&ToolResult{ToolCallID: "c1", Name: "add", Status: StatusSuccess, Description: "added", Terminal: true},
	}

	for _, part := range parts {
		data, err := MarshalContent(part)
		if err != nil {
			t.Fatal(err)
		}
		back, err := UnmarshalContent(data)
		if err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		switch v := back.(type) {
		case *Text:
			if v.Text != "observation" || v.Tag != "observation" || v.Lifespan != 2 {
				t.Errorf("text round trip = %+v", v)
			}
		case *Image:
			if v.Mime != MimeJPEG || v.Data != "aGk=" {
				t.Errorf("image round trip = %+v", v)
			}
		case *ToolCall:
			if v.ID != "c1" || v.Name != "add" || v.Arguments["a"] != float64(1) {
				t.Errorf("tool call round trip = %+v", v)
			}
		case *ToolResult:
			if v.ToolCallID != "c1" || v.Status != StatusSuccess || !v.Terminal {
				t.Errorf("tool result round trip = %+v", v)
			}
		}
	}
}

func TestUnmarshalContentUnknownType(t *testing.T) {
	if _, err := UnmarshalContent([]byte(`{"type":"video"}`)); err == nil {
		t.Fatal("expected error for unknown content type")
	}
}
