package openaicompat

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"gemini_pipes/pkg/pipe"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newHTTPResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

const completionBody = `{
	"id": "chatcmpl-1",
	"object": "chat.completion",
	"model": "gemini-1.5-flash",
	"choices": [{"index": 0, "message": {"role": "assistant", "content": "Hi there"}, "finish_reason": "stop"}]
}`

func TestPipe_Complete(t *testing.T) {
	var captured *http.Request
	var capturedBody []byte

	p := New(Options{
		APIKey: "test-key",
		HTTPClient: &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			captured = req
			capturedBody, _ = io.ReadAll(req.Body)
			return newHTTPResponse(http.StatusOK, completionBody), nil
		})},
	})

	result := p.Run(context.Background(), pipe.Request{
		Model: "openai/gemini-1.5-flash",
		Messages: []pipe.ChatMessage{
			{Role: "system", Content: pipe.TextContent("be brief")},
			{Role: "user", Content: pipe.TextContent("hello")},
		},
	}, nil)

	if result.Text != "Hi there" {
		t.Errorf("expected completion text, got %q", result.Text)
	}

	if captured == nil {
		t.Fatal("no request was sent")
	}
	if !strings.HasSuffix(captured.URL.Path, "/chat/completions") {
		t.Errorf("unexpected request path: %q", captured.URL.Path)
	}
	if got := captured.Header.Get("Authorization"); got != "Bearer test-key" {
		t.Errorf("unexpected Authorization header: %q", got)
	}

	var payload struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(capturedBody, &payload); err != nil {
		t.Fatalf("decode request body: %v", err)
	}
	if payload.Model != "gemini-1.5-flash" {
		t.Errorf("expected provider prefix stripped, got %q", payload.Model)
	}
	if len(payload.Messages) != 2 || payload.Messages[0].Role != "system" || payload.Messages[1].Content != "hello" {
		t.Errorf("unexpected messages: %+v", payload.Messages)
	}
}

func TestPipe_CompleteFlattensItems(t *testing.T) {
	var capturedBody []byte

	p := New(Options{
		APIKey: "test-key",
		HTTPClient: &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			capturedBody, _ = io.ReadAll(req.Body)
			return newHTTPResponse(http.StatusOK, completionBody), nil
		})},
	})

	p.Run(context.Background(), pipe.Request{
		Messages: []pipe.ChatMessage{{
			Role: "user",
			Content: pipe.ItemsContent(
				pipe.TextItem("describe"),
				pipe.ImageItem("data:image/png;base64,AAAA"),
				pipe.TextItem("this"),
			),
		}},
	}, nil)

	if !bytes.Contains(capturedBody, []byte(`"content":"describe\nthis"`)) {
		t.Errorf("expected multimodal content flattened to text, got %s", capturedBody)
	}
}

func TestPipe_CompleteEmptyChoices(t *testing.T) {
	p := New(Options{
		APIKey: "test-key",
		HTTPClient: &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			return newHTTPResponse(http.StatusOK, `{"id":"chatcmpl-2","object":"chat.completion","choices":[]}`), nil
		})},
	})

	result := p.Run(context.Background(), pipe.Request{
		Messages: []pipe.ChatMessage{{Role: "user", Content: pipe.TextContent("hi")}},
	}, nil)

	if result.Text != "No response generated" {
		t.Errorf("expected sentinel text, got %q", result.Text)
	}
}

func TestPipe_CompleteUpstreamError(t *testing.T) {
	p := New(Options{
		APIKey: "test-key",
		HTTPClient: &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			return newHTTPResponse(http.StatusForbidden, `{"error":{"message":"denied"}}`), nil
		})},
	})

	result := p.Run(context.Background(), pipe.Request{
		Messages: []pipe.ChatMessage{{Role: "user", Content: pipe.TextContent("hi")}},
	}, nil)

	if !strings.HasPrefix(result.Text, "Request error:") {
		t.Errorf("expected folded error text, got %q", result.Text)
	}
	if result.Stream != nil {
		t.Errorf("non-streaming request must not return a stream")
	}
}

func TestPipe_MissingAPIKey(t *testing.T) {
	calls := 0
	p := New(Options{
		HTTPClient: &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			calls++
			return newHTTPResponse(http.StatusOK, completionBody), nil
		})},
	})

	var statuses []pipe.Status
	report := pipe.ReporterFunc(func(s pipe.Status) {
		statuses = append(statuses, s)
	})

	result := p.Run(context.Background(), pipe.Request{
		Messages: []pipe.ChatMessage{{Role: "user", Content: pipe.TextContent("hi")}},
	}, report)

	want := "Error: GEMINI_API_KEY is required. Please set your Gemini API key in the pipe settings."
	if result.Text != want {
		t.Errorf("got %q, want %q", result.Text, want)
	}
	if calls != 0 {
		t.Errorf("expected no network calls, got %d", calls)
	}
	if len(statuses) != 1 || !statuses[0].Done {
		t.Errorf("expected a single terminal status, got %+v", statuses)
	}
}

func TestPipe_Models(t *testing.T) {
	p := New(Options{APIKey: "k"})
	models := p.Models()
	if len(models) == 0 {
		t.Fatal("expected a non-empty catalog")
	}
	for _, m := range models {
		if !strings.HasPrefix(m.ID, "openai/") {
			t.Errorf("model ID %q lacks the openai/ prefix", m.ID)
		}
		if m.SupportsVision {
			t.Errorf("compatibility models are text-only, got vision on %q", m.ID)
		}
	}
}
