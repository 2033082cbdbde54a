package pipe

// ErrorStream yields msg as a single chunk and then ends. Pipes use it to
// fold a failed streaming request into the one answer the host expects.
func ErrorStream(msg string) Stream {
	return &errorStream{chunk: msg}
}

type errorStream struct {
	chunk    string
	consumed bool
}

func (s *errorStream) Next() bool {
	if s.consumed {
		return false
	}
	s.consumed = true
	return true
}

func (s *errorStream) Content() string { return s.chunk }
func (s *errorStream) Err() error      { return nil }
func (s *errorStream) Close() error    { return nil }
