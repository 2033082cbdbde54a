package gemini

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// noResponseSentinel is returned instead of an error when the API answers
// 200 with no usable candidates, so the chat session stays alive.
const noResponseSentinel = "No response generated"

// Client issues generateContent and streamGenerateContent calls against the
// Gemini v1beta REST API. The API key travels as a query parameter.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the given base URL, e.g.
// "https://generativelanguage.googleapis.com/v1beta/models".
func NewClient(apiKey, baseURL string, httpClient *http.Client) *Client {
	return &Client{apiKey: apiKey, baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (c *Client) post(ctx context.Context, model, method string, body generateRequest, stream bool) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	query := url.Values{"key": {c.apiKey}}
	if stream {
		query.Set("alt", "sse")
	}
	endpoint := fmt.Sprintf("%s/%s:%s?%s", c.baseURL, model, method, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "call " + method, Err: err}
	}
	return resp, nil
}

// Generate issues one non-streaming generateContent call and concatenates
// every text part of the first candidate into a single string.
func (c *Client) Generate(ctx context.Context, model string, body generateRequest) (string, error) {
	slog.Info("making gemini request", "model", model, "method", "generateContent")

	resp, err := c.post(ctx, model, "generateContent", body, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Op: "read response", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &UpstreamError{Status: resp.StatusCode, Body: string(raw)}
	}

	var decoded generateResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", &DecodeError{Err: err}
	}

	text, ok := decoded.text()
	if !ok {
		return noResponseSentinel, nil
	}
	return text, nil
}

// Stream issues one streamGenerateContent call with alt=sse and returns an
// incremental text-delta stream over the response body.
func (c *Client) Stream(ctx context.Context, model string, body generateRequest) (*SSEStream, error) {
	slog.Info("making gemini streaming request", "model", model, "method", "streamGenerateContent")

	resp, err := c.post(ctx, model, "streamGenerateContent", body, true)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &UpstreamError{Status: resp.StatusCode, Body: string(raw)}
	}

	return &SSEStream{
		reader: bufio.NewReader(resp.Body),
		body:   resp.Body,
	}, nil
}

// SSEStream decodes a streamGenerateContent SSE response into text deltas.
// It is a finite, non-restartable single-consumer stream; cancellation is
// closing it (which closes the underlying connection).
type SSEStream struct {
	reader    *bufio.Reader
	body      io.ReadCloser
	pending   []string
	current   string
	err       error
	exhausted bool
	done      bool
	onDone    func(error)
}

// Next advances to the next text delta. A mid-read transport failure is
// delivered as one final "Stream error: ..." delta so the chat session still
// gets an answer; undecodable lines are a tolerated SSE framing artifact and
// are skipped silently.
func (s *SSEStream) Next() bool {
	if len(s.pending) > 0 {
		s.current, s.pending = s.pending[0], s.pending[1:]
		return true
	}
	if s.exhausted {
		s.finish()
		return false
	}

	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			s.exhausted = true
			if err != io.EOF {
				s.err = &TransportError{Op: "read stream", Err: err}
				s.current = fmt.Sprintf("Stream error: %v", s.err)
				return true
			}
			// A non-empty line at EOF is the residual tail of the buffer;
			// give it one final decode under the same rule.
			if deltas := decodeSSELine(line); len(deltas) > 0 {
				s.current = deltas[0]
				s.pending = deltas[1:]
				return true
			}
			s.finish()
			return false
		}

		deltas := decodeSSELine(line)
		if len(deltas) == 0 {
			continue
		}
		s.current = deltas[0]
		s.pending = deltas[1:]
		return true
	}
}

// Content returns the current text delta.
func (s *SSEStream) Content() string {
	return s.current
}

// Err returns the transport error that ended the stream, if any.
func (s *SSEStream) Err() error {
	return s.err
}

// Close releases the underlying connection.
func (s *SSEStream) Close() error {
	s.finish()
	return s.body.Close()
}

func (s *SSEStream) finish() {
	if s.done {
		return
	}
	s.done = true
	if s.onDone != nil {
		s.onDone(s.err)
	}
}

// decodeSSELine strips the optional "data: " prefix, decodes the JSON
// payload, and returns the text of every part in order. Lines that are
// blank or fail to decode yield nothing.
func decodeSSELine(line string) []string {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	line = strings.TrimPrefix(line, "data: ")

	var decoded generateResponse
	if err := json.Unmarshal([]byte(line), &decoded); err != nil {
		return nil
	}
	if len(decoded.Candidates) == 0 {
		return nil
	}

	var deltas []string
	for _, part := range decoded.Candidates[0].Content.Parts {
		if part.Text != nil {
			deltas = append(deltas, *part.Text)
		}
	}
	return deltas
}
