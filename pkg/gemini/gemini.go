// Package gemini implements the content adapter between the host's chat
// message format and Google's Gemini v1beta REST API: outbound conversion of
// messages into role-tagged parts (text, inline data, file references with
// YouTube auto-detection) and inbound decoding of both the complete JSON
// response and the SSE stream into plain text.
package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"gemini_pipes/pkg/pipe"
)

const (
	// DefaultBaseURL is the native Gemini API endpoint.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

	defaultModel       = "gemini-1.5-flash"
	defaultTemperature = 0.7
	defaultMaxTokens   = 2048
	defaultTimeout     = 60 * time.Second
)

// Options configures the pipe. Values are read once at construction and are
// immutable for the pipe's lifetime.
type Options struct {
	APIKey       string
	BaseURL      string
	DefaultModel string
	Temperature  float64
	MaxTokens    int
	Timeout      time.Duration

	// EnableVision forwards image/video content; when off, binary items
	// become text placeholders.
	EnableVision bool
	// AutoDetectYouTube scans text for YouTube URLs and converts them to
	// by-reference video parts.
	AutoDetectYouTube bool
	// VideoFPS is attached as video metadata when it differs from the
	// API default of 1.0 frames per second.
	VideoFPS float64

	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// DefaultOptions returns the pipe defaults; the API key must still be set.
func DefaultOptions() Options {
	return Options{
		BaseURL:           DefaultBaseURL,
		DefaultModel:      defaultModel,
		Temperature:       defaultTemperature,
		MaxTokens:         defaultMaxTokens,
		Timeout:           defaultTimeout,
		EnableVision:      true,
		AutoDetectYouTube: true,
		VideoFPS:          1.0,
	}
}

// Pipe adapts host chat requests to the native Gemini API.
type Pipe struct {
	opts   Options
	client *Client
}

// New creates the Gemini pipe. Missing option values fall back to defaults.
func New(opts Options) *Pipe {
	defaults := DefaultOptions()
	if opts.BaseURL == "" {
		opts.BaseURL = defaults.BaseURL
	}
	if opts.DefaultModel == "" {
		opts.DefaultModel = defaults.DefaultModel
	}
	if opts.Temperature == 0 {
		opts.Temperature = defaults.Temperature
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = defaults.MaxTokens
	}
	if opts.Timeout == 0 {
		opts.Timeout = defaults.Timeout
	}
	if opts.VideoFPS == 0 {
		opts.VideoFPS = defaults.VideoFPS
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}

	return &Pipe{
		opts:   opts,
		client: NewClient(opts.APIKey, opts.BaseURL, opts.HTTPClient),
	}
}

// ID identifies the pipe in the registry and in model ID prefixes.
func (p *Pipe) ID() string { return "gemini" }

// Models returns the static model catalog.
func (p *Pipe) Models() []pipe.ModelInfo { return Models() }

// Run processes one host request. It never returns an unhandled failure:
// errors become a descriptive text result (or error chunk in streaming mode)
// so the host session always receives an answer.
func (p *Pipe) Run(ctx context.Context, req pipe.Request, report pipe.StatusReporter) pipe.Result {
	if report == nil {
		report = pipe.NopReporter{}
	}

	if strings.TrimSpace(p.opts.APIKey) == "" {
		err := &ConfigError{Reason: "GEMINI_API_KEY is required. Please set your Gemini API key in the pipe settings."}
		report.Report(pipe.Status{Description: err.Error(), Done: true})
		return pipe.Result{Text: err.Error()}
	}

	report.Report(pipe.Status{Description: "Processing request with native Gemini API..."})

	model, payload := p.buildRequest(req)
	if model == "" {
		model = p.opts.DefaultModel
	}

	report.Report(pipe.Status{Description: fmt.Sprintf("Sending request to Gemini %s...", model)})

	if req.Stream {
		return pipe.Result{Stream: p.runStream(ctx, model, payload, report)}
	}
	return pipe.Result{Text: p.runComplete(ctx, model, payload, report)}
}

func (p *Pipe) runComplete(ctx context.Context, model string, payload generateRequest, report pipe.StatusReporter) string {
	text, err := p.client.Generate(ctx, model, payload)
	if err != nil {
		msg := errorText(err)
		slog.Error("gemini request failed", "model", model, "error", err)
		report.Report(pipe.Status{Description: msg, Done: true})
		return msg
	}

	report.Report(pipe.Status{Description: "Request completed successfully", Done: true})
	return text
}

func (p *Pipe) runStream(ctx context.Context, model string, payload generateRequest, report pipe.StatusReporter) pipe.Stream {
	stream, err := p.client.Stream(ctx, model, payload)
	if err != nil {
		msg := errorText(err)
		slog.Error("gemini streaming request failed", "model", model, "error", err)
		report.Report(pipe.Status{Description: msg, Done: true})
		return pipe.ErrorStream(msg)
	}

	stream.onDone = func(err error) {
		if err != nil {
			slog.Error("gemini stream failed mid-read", "model", model, "error", err)
			report.Report(pipe.Status{Description: fmt.Sprintf("Stream error: %v", err), Done: true})
			return
		}
		report.Report(pipe.Status{Description: "Streaming completed successfully", Done: true})
	}
	return stream
}

// errorText renders an error as the user-visible chat answer.
func errorText(err error) string {
	switch err.(type) {
	case *UpstreamError, *ConfigError:
		return err.Error()
	default:
		return fmt.Sprintf("Request error: %v", err)
	}
}
