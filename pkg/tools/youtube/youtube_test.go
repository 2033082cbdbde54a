package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		url    string
		wantID string
		wantOK bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/watch?list=PL123&v=abc_def-123", "abc_def-123", true},
		{"https://www.youtube.com/watch?v=abc123&t=42s", "abc123", true},
		{"https://vimeo.com/12345", "", false},
		{"not a url", "", false},
	}

	for _, tt := range tests {
		id, ok := ExtractVideoID(tt.url)
		if ok != tt.wantOK || id != tt.wantID {
			t.Errorf("ExtractVideoID(%q) = (%q, %v), want (%q, %v)", tt.url, id, ok, tt.wantID, tt.wantOK)
		}
	}
}

func TestMetadata(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("format"); got != "json" {
			t.Errorf("expected format=json, got %q", got)
		}
		if got := r.URL.Query().Get("url"); !strings.Contains(got, "dQw4w9WgXcQ") {
			t.Errorf("expected video URL in query, got %q", got)
		}
		w.Write([]byte(`{"title":"Some Video","author_name":"Some Channel","thumbnail_url":"https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg"}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, ts.Client())
	meta, err := client.Metadata(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("Metadata() error: %v", err)
	}

	if meta.Title != "Some Video" || meta.Author != "Some Channel" {
		t.Errorf("unexpected metadata: %+v", meta)
	}
}

func TestMetadata_FallbackOnUpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer ts.Close()

	client := NewClient(ts.URL, ts.Client())
	meta, err := client.Metadata(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("expected fallback metadata, got error: %v", err)
	}

	if meta.Title != "YouTube Video" || meta.Author != "Unknown Channel" {
		t.Errorf("unexpected fallback metadata: %+v", meta)
	}
	if meta.ThumbnailURL != "https://img.youtube.com/vi/dQw4w9WgXcQ/maxresdefault.jpg" {
		t.Errorf("unexpected fallback thumbnail: %q", meta.ThumbnailURL)
	}
}

func TestMetadata_NoFallbackWithoutVideoID(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer ts.Close()

	client := NewClient(ts.URL, ts.Client())
	if _, err := client.Metadata(context.Background(), "https://example.com/video"); err == nil {
		t.Fatalf("expected error when no video ID can be extracted")
	}
}

func TestThumbnailDataURI(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte{0x89, 0x50, 0x4e, 0x47})
	}))
	defer ts.Close()

	client := NewClient("", ts.Client())
	uri, err := client.ThumbnailDataURI(context.Background(), ts.URL+"/thumb.png")
	if err != nil {
		t.Fatalf("ThumbnailDataURI() error: %v", err)
	}

	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Errorf("expected png data URI, got %q", uri)
	}
}

func TestThumbnailDataURI_DefaultsToJPEG(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write([]byte("bytes"))
	}))
	defer ts.Close()

	client := NewClient("", ts.Client())
	uri, err := client.ThumbnailDataURI(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("ThumbnailDataURI() error: %v", err)
	}

	if !strings.HasPrefix(uri, "data:image/jpeg;base64,") {
		t.Errorf("expected jpeg default, got %q", uri)
	}
}
