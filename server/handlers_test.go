package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gemini_pipes/pkg/pipe"
	"gemini_pipes/pkg/tools/shuttle"
	"gemini_pipes/pkg/tools/weather"
)

// fakePipe answers with fixed text, or a chunked stream when the request
// asks for one.
type fakePipe struct {
	id     string
	models []pipe.ModelInfo
	text   string
	chunks []string
}

func (f *fakePipe) ID() string               { return f.id }
func (f *fakePipe) Models() []pipe.ModelInfo { return f.models }
func (f *fakePipe) Run(_ context.Context, req pipe.Request, report pipe.StatusReporter) pipe.Result {
	report.Report(pipe.Status{Description: "working"})
	if req.Stream {
		return pipe.Result{Stream: &sliceStream{chunks: f.chunks}}
	}
	return pipe.Result{Text: f.text}
}

type sliceStream struct {
	chunks []string
	pos    int
}

func (s *sliceStream) Next() bool {
	if s.pos >= len(s.chunks) {
		return false
	}
	s.pos++
	return true
}

func (s *sliceStream) Content() string { return s.chunks[s.pos-1] }
func (s *sliceStream) Err() error      { return nil }
func (s *sliceStream) Close() error    { return nil }

func newTestServer(pipes ...pipe.Pipe) *Server {
	registry := pipe.NewRegistry()
	for _, p := range pipes {
		registry.Register(p)
	}
	return New(registry, nil, nil, nil)
}

func TestHandleModels(t *testing.T) {
	srv := newTestServer(
		&fakePipe{id: "gemini", models: []pipe.ModelInfo{{ID: "gemini/gemini-1.5-flash", Name: "Flash"}}},
		&fakePipe{id: "openai", models: []pipe.ModelInfo{{ID: "openai/gemini-1.5-flash"}}},
	)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/models", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Data []pipe.ModelInfo `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data) != 2 || resp.Data[0].ID != "gemini/gemini-1.5-flash" {
		t.Errorf("unexpected catalog: %+v", resp.Data)
	}
}

func TestHandleModels_Empty(t *testing.T) {
	srv := newTestServer()

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/models", nil))

	if body := strings.TrimSpace(rec.Body.String()); body != `{"data":[]}` {
		t.Errorf("expected empty data array, got %s", body)
	}
}

func TestHandleChat(t *testing.T) {
	srv := newTestServer(&fakePipe{id: "gemini", text: "Hello!"})

	body := `{"model":"gemini/gemini-1.5-flash","messages":[{"role":"user","content":"hi"}]}`
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/chat/completions", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}

	var resp struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Content != "Hello!" {
		t.Errorf("unexpected content: %q", resp.Content)
	}
}

func TestHandleChat_RoutesByPrefix(t *testing.T) {
	srv := newTestServer(
		&fakePipe{id: "gemini", text: "from gemini"},
		&fakePipe{id: "openai", text: "from openai"},
	)

	body := `{"model":"openai/gemini-1.5-flash","messages":[{"role":"user","content":"hi"}]}`
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/chat/completions", strings.NewReader(body)))

	if !strings.Contains(rec.Body.String(), "from openai") {
		t.Errorf("expected openai pipe to answer, got %s", rec.Body)
	}
}

func TestHandleChat_BadRequests(t *testing.T) {
	srv := newTestServer(&fakePipe{id: "gemini"})

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{`},
		{"no messages", `{"model":"gemini/x","messages":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/chat/completions", strings.NewReader(tt.body)))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestHandleChat_NoPipes(t *testing.T) {
	srv := newTestServer()

	body := `{"messages":[{"role":"user","content":"hi"}]}`
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/chat/completions", strings.NewReader(body)))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
}

func TestHandleChat_Streaming(t *testing.T) {
	srv := newTestServer(&fakePipe{id: "gemini", chunks: []string{"Hel", "lo"}})

	body := `{"model":"gemini/gemini-1.5-flash","stream":true,"messages":[{"role":"user","content":"hi"}]}`
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/chat/completions", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Errorf("unexpected content type: %q", got)
	}

	want := "data: {\"delta\":\"Hel\"}\n\ndata: {\"delta\":\"lo\"}\n\ndata: [DONE]\n\n"
	if rec.Body.String() != want {
		t.Errorf("unexpected event stream:\n got %q\nwant %q", rec.Body.String(), want)
	}
}

func TestHandleWeather(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Seoul: +23°C\n"))
	}))
	defer upstream.Close()

	srv := New(pipe.NewRegistry(), weather.NewClient(upstream.URL, upstream.Client()), nil, nil)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/tools/weather?city=Seoul", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "Seoul: +23°C" {
		t.Errorf("unexpected report: %q", got)
	}
}

func TestHandleWeather_MissingCity(t *testing.T) {
	srv := New(pipe.NewRegistry(), weather.NewClient("http://unused", nil), nil, nil)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/tools/weather", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleShuttle(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"bus":"at main gate"}`))
	}))
	defer upstream.Close()

	srv := New(pipe.NewRegistry(), nil, shuttle.NewClient(upstream.URL, upstream.Client()), nil)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/tools/shuttle", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "at main gate") {
		t.Errorf("unexpected body: %q", rec.Body.String())
	}
}

func TestHandleShuttle_UpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer upstream.Close()

	srv := New(pipe.NewRegistry(), nil, shuttle.NewClient(upstream.URL, upstream.Client()), nil)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/tools/shuttle", nil))

	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", rec.Code)
	}
}

func TestToolRoutes_NotMountedWithoutClients(t *testing.T) {
	srv := newTestServer(&fakePipe{id: "gemini"})

	for _, path := range []string{"/v1/tools/weather?city=Seoul", "/v1/tools/shuttle", "/v1/tools/youtube?url=x"} {
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", path, rec.Code)
		}
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer()

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Errorf("unexpected health response: %d %q", rec.Code, rec.Body.String())
	}
}
