// Package openaicompat adapts host chat requests to Gemini's OpenAI-compatible
// chat completions endpoint. It is the text-only sibling of the native pipe:
// multimodal items are flattened to text, which is what the compatibility
// layer is used for here (tool prompts, summaries).
package openaicompat

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"gemini_pipes/pkg/pipe"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/ssestream"
)

const (
	// DefaultBaseURL is Gemini's OpenAI compatibility endpoint.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"

	defaultModel       = "gemini-2.5-flash-preview-05-20"
	defaultTemperature = 0.7
	defaultMaxTokens   = 2048
	defaultTimeout     = 60 * time.Second
)

// Options configures the pipe; values are read once at construction.
type Options struct {
	APIKey       string
	BaseURL      string
	DefaultModel string
	Temperature  float64
	MaxTokens    int
	Timeout      time.Duration

	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// Pipe adapts host chat requests to the OpenAI-compatible endpoint.
type Pipe struct {
	client       openai.Client
	apiKey       string
	defaultModel string
	temperature  float64
	maxTokens    int
}

// New creates the compatibility pipe. The API key is validated at request
// time, not here, so a keyless pipe still serves its model catalog.
func New(opts Options) *Pipe {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.DefaultModel == "" {
		opts.DefaultModel = defaultModel
	}
	if opts.Temperature == 0 {
		opts.Temperature = defaultTemperature
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = defaultMaxTokens
	}
	if opts.Timeout == 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}

	client := openai.NewClient(
		option.WithAPIKey(opts.APIKey),
		option.WithBaseURL(opts.BaseURL),
		option.WithHTTPClient(opts.HTTPClient),
	)

	return &Pipe{
		client:       client,
		apiKey:       opts.APIKey,
		defaultModel: opts.DefaultModel,
		temperature:  opts.Temperature,
		maxTokens:    opts.MaxTokens,
	}
}

// ID identifies the pipe in the registry and in model ID prefixes.
func (p *Pipe) ID() string { return "openai" }

// Models returns the catalog served through the compatibility endpoint.
func (p *Pipe) Models() []pipe.ModelInfo {
	return []pipe.ModelInfo{
		{
			ID:             "openai/gemini-2.5-flash-preview-05-20",
			Name:           "gemini-2.5-flash-preview-05-20 (OpenAI-compatible)",
			ContextLength:  1048576,
			SupportsVision: false,
			Description:    "Gemini 2.5 preview through the OpenAI compatibility layer",
		},
		{
			ID:             "openai/gemini-1.5-flash",
			Name:           "gemini-1.5-flash (OpenAI-compatible)",
			ContextLength:  1048576,
			SupportsVision: false,
			Description:    "Gemini 1.5 Flash through the OpenAI compatibility layer",
		},
	}
}

// Run processes one host request, folding every failure into a descriptive
// text answer or error chunk.
func (p *Pipe) Run(ctx context.Context, req pipe.Request, report pipe.StatusReporter) pipe.Result {
	if report == nil {
		report = pipe.NopReporter{}
	}

	if strings.TrimSpace(p.apiKey) == "" {
		msg := "Error: GEMINI_API_KEY is required. Please set your Gemini API key in the pipe settings."
		report.Report(pipe.Status{Description: msg, Done: true})
		return pipe.Result{Text: msg}
	}

	report.Report(pipe.Status{Description: "Processing request with OpenAI-compatible API..."})

	params := p.buildParams(req)

	report.Report(pipe.Status{Description: fmt.Sprintf("Sending request to %s...", params.Model)})

	if req.Stream {
		return pipe.Result{Stream: p.runStream(ctx, params, report)}
	}
	return pipe.Result{Text: p.runComplete(ctx, params, report)}
}

func (p *Pipe) buildParams(req pipe.Request) openai.ChatCompletionNewParams {
	model := resolveModel(req.Model)
	if model == "" {
		model = p.defaultModel
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, msg := range req.Messages {
		text := msg.Content.PlainText()
		switch msg.Role {
		case "system":
			messages = append(messages, openai.SystemMessage(text))
		case "assistant":
			messages = append(messages, openai.AssistantMessage(text))
		default:
			messages = append(messages, openai.UserMessage(text))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: messages,
	}

	temperature := p.temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	params.Temperature = openai.Float(temperature)

	maxTokens := p.maxTokens
	if req.MaxTokens != nil {
		maxTokens = *req.MaxTokens
	}
	if maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(maxTokens))
	}

	return params
}

func (p *Pipe) runComplete(ctx context.Context, params openai.ChatCompletionNewParams, report pipe.StatusReporter) string {
	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		msg := fmt.Sprintf("Request error: %v", err)
		slog.Error("openai-compatible request failed", "model", string(params.Model), "error", err)
		report.Report(pipe.Status{Description: msg, Done: true})
		return msg
	}

	content := ""
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}
	if content == "" {
		content = "No response generated"
	}

	report.Report(pipe.Status{Description: "Request completed successfully", Done: true})
	return content
}

func (p *Pipe) runStream(ctx context.Context, params openai.ChatCompletionNewParams, report pipe.StatusReporter) pipe.Stream {
	stream := p.client.Chat.Completions.NewStreaming(ctx, params)
	if err := stream.Err(); err != nil {
		msg := fmt.Sprintf("Stream error: %v", err)
		slog.Error("openai-compatible streaming request failed", "model", string(params.Model), "error", err)
		report.Report(pipe.Status{Description: msg, Done: true})
		return pipe.ErrorStream(msg)
	}

	return &compatStream{stream: stream, report: report}
}

// resolveModel strips any "provider/" prefix segment from a model identifier.
func resolveModel(model string) string {
	segments := strings.Split(model, "/")
	return segments[len(segments)-1]
}

type compatStream struct {
	stream  *ssestream.Stream[openai.ChatCompletionChunk]
	report  pipe.StatusReporter
	errText string
	done    bool
}

// Next advances to the next delta. A mid-stream failure is delivered as one
// final "Stream error: ..." delta so the chat session still gets an answer.
func (s *compatStream) Next() bool {
	if s.done {
		return false
	}
	for s.stream.Next() {
		chunk := s.stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		return true
	}

	s.done = true
	if err := s.stream.Err(); err != nil {
		s.errText = fmt.Sprintf("Stream error: %v", err)
		s.report.Report(pipe.Status{Description: s.errText, Done: true})
		return true
	}
	s.report.Report(pipe.Status{Description: "Streaming completed successfully", Done: true})
	return false
}

func (s *compatStream) Content() string {
	if s.errText != "" {
		return s.errText
	}
	chunk := s.stream.Current()
	if len(chunk.Choices) == 0 {
		return ""
	}
	return chunk.Choices[0].Delta.Content
}

func (s *compatStream) Err() error {
	return s.stream.Err()
}

func (s *compatStream) Close() error {
	return s.stream.Close()
}
