package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"gemini_pipes/pkg/pipe"

	"github.com/google/uuid"
)

type modelsResponse struct {
	Data []pipe.ModelInfo `json:"data"`
}

type chatResponse struct {
	Content string `json:"content"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("write response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// handleModels serves the combined model catalog for the host's model picker.
func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	models := s.registry.Models()
	if models == nil {
		models = []pipe.ModelInfo{}
	}
	writeJSON(w, http.StatusOK, modelsResponse{Data: models})
}

// handleChat routes a host chat request to the pipe selected by the model's
// prefix. Streaming requests are answered as an SSE delta stream.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req pipe.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, "messages are required")
		return
	}

	target, ok := s.registry.Resolve(req.Model)
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "no pipes registered")
		return
	}

	requestID := uuid.NewString()
	reporter := pipe.ReporterFunc(func(st pipe.Status) {
		slog.Info("pipe status", "request_id", requestID, "pipe", target.ID(), "description", st.Description, "done", st.Done)
	})

	result := target.Run(r.Context(), req, reporter)
	if result.Stream == nil {
		writeJSON(w, http.StatusOK, chatResponse{Content: result.Text})
		return
	}
	s.streamChat(w, requestID, result.Stream)
}

type chatDelta struct {
	Delta string `json:"delta"`
}

// streamChat forwards pipe deltas to the client as server-sent events,
// ending with a "[DONE]" marker.
func (s *Server) streamChat(w http.ResponseWriter, requestID string, stream pipe.Stream) {
	defer stream.Close()

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	for stream.Next() {
		payload, err := json.Marshal(chatDelta{Delta: stream.Content()})
		if err != nil {
			slog.Error("marshal delta failed", "request_id", requestID, "error", err)
			continue
		}
		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
	}
	if err := stream.Err(); err != nil {
		slog.Error("stream ended with error", "request_id", requestID, "error", err)
	}

	fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}

// handleWeather serves the city-to-temperature tool.
func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	if city == "" {
		writeError(w, http.StatusBadRequest, "city query parameter is required")
		return
	}

	report, err := s.weather.Current(r.Context(), city)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(report))
}

// handleShuttle serves the raw shuttle location feed.
func (s *Server) handleShuttle(w http.ResponseWriter, r *http.Request) {
	location, err := s.shuttle.Location(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(location))
}

// handleYouTube serves the video summarizer. The summarizer itself never
// fails; its degraded answers still come back with status 200.
func (s *Server) handleYouTube(w http.ResponseWriter, r *http.Request) {
	videoURL := r.URL.Query().Get("url")
	if videoURL == "" {
		writeError(w, http.StatusBadRequest, "url query parameter is required")
		return
	}

	summary := s.summarizer.Summarize(r.Context(), videoURL)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(summary))
}
