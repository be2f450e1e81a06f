package gemini

import (
	"log/slog"
	"net/http"
)

// Option configures a Gemini adapter.
type Option func(*Gemini)

// WithTemperature sets the sampling temperature (default 0.5).
func WithTemperature(t float64) Option {
	return func(g *Gemini) { g.temperature = t }
}

// WithTopP sets nucleus sampling (default 0.9).
func WithTopP(p float64) Option {
	return func(g *Gemini) { g.topP = p }
}

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gemini) {
		if c != nil {
			g.httpClient = c
		}
	}
}

// WithBaseURL overrides the API endpoint. Used for testing and proxies.
func WithBaseURL(url string) Option {
	return func(g *Gemini) { g.baseURL = url }
}

// WithLogger routes token-usage logging to l.
func WithLogger(l *slog.Logger) Option {
	return func(g *Gemini) {
		if l != nil {
			g.logger = l
		}
	}
}
