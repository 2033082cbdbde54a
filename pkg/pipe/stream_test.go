package pipe

import "testing"

func TestErrorStream(t *testing.T) {
	s := ErrorStream("Gemini API Error: HTTP 403: denied")

	if !s.Next() {
		t.Fatal("expected one chunk")
	}
	if got := s.Content(); got != "Gemini API Error: HTTP 403: denied" {
		t.Errorf("unexpected chunk: %q", got)
	}
	if s.Next() {
		t.Error("expected the stream to end after one chunk")
	}
	if s.Err() != nil {
		t.Errorf("folded errors must not surface via Err, got %v", s.Err())
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}
