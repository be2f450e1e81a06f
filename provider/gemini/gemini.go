// Package gemini implements the dodo model adapter for Google Gemini.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/steve-z-wang/dodo"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Gemini implements dodo.LLM against the Gemini REST API. Function
// calls are returned to the engine for dispatch; Gemini never executes
// tools itself.
type Gemini struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	temperature float64
	topP        float64
}

// New creates a Gemini adapter with functional options.
func New(apiKey, model string, opts ...Option) *Gemini {
	g := &Gemini{
		apiKey:      apiKey,
		model:       model,
		baseURL:     defaultBaseURL,
		httpClient:  &http.Client{},
		logger:      slog.New(slog.DiscardHandler),
		temperature: 0.5,
		topP:        0.9,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// CallTools implements dodo.LLM.
func (g *Gemini) CallTools(ctx context.Context, messages []dodo.Message, tools []dodo.Tool) (dodo.Message, error) {
	body, err := g.buildBody(messages, tools)
	if err != nil {
		return dodo.Message{}, g.wrapErr("build body: " + err.Error())
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)

	payload, err := json.Marshal(body)
	if err != nil {
		return dodo.Message{}, g.wrapErr("marshal body: " + err.Error())
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(payload)))
	if err != nil {
		return dodo.Message{}, g.wrapErr("create request: " + err.Error())
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return dodo.Message{}, g.wrapErr("request failed: " + err.Error())
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return dodo.Message{}, g.wrapErr("failed to read response body: " + err.Error())
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return dodo.Message{}, httpErr(resp, string(respBody))
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return dodo.Message{}, g.wrapErr("failed to parse response JSON: " + err.Error())
	}

	if parsed.UsageMetadata != nil {
		g.logger.Info("token usage",
			"prompt", parsed.UsageMetadata.PromptTokenCount,
			"response", parsed.UsageMetadata.CandidatesTokenCount,
			"total", parsed.UsageMetadata.TotalTokenCount)
	}

	var parts []dodo.Content
	if len(parsed.Candidates) > 0 {
		for _, part := range parsed.Candidates[0].Content.Parts {
			// Thinking parts are not conversation content.
			if part.Thought {
				continue
			}
			if part.Text != nil && *part.Text != "" {
				parts = append(parts, dodo.NewText(*part.Text))
			}
			if part.FunctionCall != nil {
				args := part.FunctionCall.Args
				if args == nil {
					args = map[string]any{}
				}
				parts = append(parts, &dodo.ToolCall{
					Name:      part.FunctionCall.Name,
					Arguments: args,
				})
			}
		}
	}

	return dodo.NewModelMessage(parts...), nil
}

// buildBody constructs the generateContent request from the
// conversation and tool declarations.
func (g *Gemini) buildBody(messages []dodo.Message, tools []dodo.Tool) (map[string]any, error) {
	var systemParts []string
	var contents []map[string]any

	for _, m := range messages {
		switch m.Role {
		case dodo.RoleSystem:
			for _, c := range m.Content {
				if t, ok := c.(*dodo.Text); ok && t.Text != "" {
					systemParts = append(systemParts, t.Text)
				}
			}

		case dodo.RoleUser:
			var parts []map[string]any
			for _, c := range m.Content {
				switch v := c.(type) {
				case *dodo.Text:
					parts = append(parts, map[string]any{"text": v.Text})
				case *dodo.Image:
					parts = append(parts, map[string]any{
						"inlineData": map[string]any{
							"mimeType": string(v.Mime),
							"data":     v.Data,
						},
					})
				case *dodo.ToolResult:
					// Results are matched to their calls by function name;
					// Gemini does not assign call IDs.
					response := map[string]any{"status": string(v.Status)}
					if v.Description != "" {
						response["description"] = v.Description
					}
					if v.Error != "" {
						response["error"] = v.Error
					}
					parts = append(parts, map[string]any{
						"functionResponse": map[string]any{
							"name":     v.Name,
							"response": response,
						},
					})
				}
			}
			if len(parts) > 0 {
				contents = append(contents, map[string]any{"role": "user", "parts": parts})
			}

		case dodo.RoleModel:
			var parts []map[string]any
			for _, c := range m.Content {
				switch v := c.(type) {
				case *dodo.Text:
					parts = append(parts, map[string]any{"text": v.Text})
				case *dodo.Image:
					parts = append(parts, map[string]any{
						"inlineData": map[string]any{
							"mimeType": string(v.Mime),
							"data":     v.Data,
						},
					})
				case *dodo.ToolCall:
					args := any(v.Arguments)
					if v.Arguments == nil {
						args = map[string]any{}
					}
					parts = append(parts, map[string]any{
						"functionCall": map[string]any{
							"name": v.Name,
							"args": args,
						},
					})
				}
			}
			if len(parts) > 0 {
				contents = append(contents, map[string]any{"role": "model", "parts": parts})
			}
		}
	}

	body := map[string]any{
		"contents": contents,
	}

	if len(systemParts) > 0 {
		body["systemInstruction"] = map[string]any{
			"parts": []map[string]any{
				{"text": strings.Join(systemParts, "\n\n")},
			},
		}
	}

	if len(tools) > 0 {
		declarations := make([]map[string]any, 0, len(tools))
		for _, t := range tools {
			decl := map[string]any{
				"name":        t.Name(),
				"description": t.Description(),
			}
			if params := t.Params(); params != nil {
				var schema map[string]any
				if err := json.Unmarshal(params.JSON(), &schema); err != nil {
					return nil, fmt.Errorf("tool %q schema: %w", t.Name(), err)
				}
				decl["parameters"] = cleanSchema(schema)
			}
			declarations = append(declarations, decl)
		}
		body["tools"] = []map[string]any{
			{"functionDeclarations": declarations},
		}
	}

	body["generationConfig"] = map[string]any{
		"temperature": g.temperature,
		"topP":        g.topP,
	}

	return body, nil
}

func (g *Gemini) wrapErr(msg string) error {
	return &dodo.ErrLLM{Provider: "gemini", Message: msg}
}

// httpErr creates an ErrHTTP from a non-2xx response, extracting the
// retry delay from the Retry-After header or from the Gemini-specific
// google.rpc.RetryInfo detail in the JSON error body.
func httpErr(resp *http.Response, body string) *dodo.ErrHTTP {
	ra := dodo.ParseRetryAfter(resp.Header.Get("Retry-After"))
	if ra == 0 {
		ra = parseRetryInfo(body)
	}
	return &dodo.ErrHTTP{
		Status:     resp.StatusCode,
		Body:       body,
		RetryAfter: ra,
	}
}

// parseRetryInfo extracts the retryDelay from a Gemini error body
// containing a google.rpc.RetryInfo detail. Returns 0 if not found.
func parseRetryInfo(body string) time.Duration {
	var envelope struct {
		Error struct {
			Details []json.RawMessage `json:"details"`
		} `json:"error"`
	}
	if json.Unmarshal([]byte(body), &envelope) != nil {
		return 0
	}
	for _, raw := range envelope.Error.Details {
		var detail struct {
			Type       string `json:"@type"`
			RetryDelay string `json:"retryDelay"`
		}
		if json.Unmarshal(raw, &detail) != nil {
			continue
		}
		if detail.Type == "type.googleapis.com/google.rpc.RetryInfo" && detail.RetryDelay != "" {
			if d, err := time.ParseDuration(detail.RetryDelay); err == nil {
				return d
			}
		}
	}
	return 0
}

// ---- Response types ----

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	UsageMetadata *geminiUsage `json:"usageMetadata"`
}

type geminiPart struct {
	Text         *string `json:"text"`
	Thought      bool    `json:"thought"`
	FunctionCall *struct {
		Name string         `json:"name"`
		Args map[string]any `json:"args"`
	} `json:"functionCall"`
}

type geminiUsage struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

// compile-time check
var _ dodo.LLM = (*Gemini)(nil)
