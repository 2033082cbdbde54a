package pipe

// Status is one progress report emitted while a pipe handles a request.
type Status struct {
	Description string `json:"description"`
	Done        bool   `json:"done"`
}

// StatusEvent is the wire shape the host expects for status callbacks.
type StatusEvent struct {
	Type string `json:"type"`
	Data Status `json:"data"`
}

// Event wraps the status in the host's event envelope.
func (s Status) Event() StatusEvent {
	return StatusEvent{Type: "status", Data: s}
}

// StatusReporter receives progress updates from a running pipe. Implementations
// must be safe to call from the goroutine running the pipe.
type StatusReporter interface {
	Report(Status)
}

// NopReporter discards all status updates. Pipes take it instead of a nil
// reporter so callers never have to branch.
type NopReporter struct{}

func (NopReporter) Report(Status) {}

// ReporterFunc adapts a function to the StatusReporter interface.
type ReporterFunc func(Status)

func (f ReporterFunc) Report(s Status) { f(s) }
