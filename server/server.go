// Package server exposes the registered pipes and auxiliary tools over HTTP,
// standing in for the chat host during development and integration tests.
package server

import (
	"net/http"

	"gemini_pipes/pkg/pipe"
	"gemini_pipes/pkg/tools/shuttle"
	"gemini_pipes/pkg/tools/weather"
	"gemini_pipes/pkg/tools/youtube"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server routes host-style chat and tool requests to the pipes.
type Server struct {
	registry   *pipe.Registry
	weather    *weather.Client
	shuttle    *shuttle.Client
	summarizer *youtube.Summarizer
}

// New creates a server. Tool clients may be nil; their endpoints then
// respond 404.
func New(registry *pipe.Registry, weatherClient *weather.Client, shuttleClient *shuttle.Client, summarizer *youtube.Summarizer) *Server {
	return &Server{
		registry:   registry,
		weather:    weatherClient,
		shuttle:    shuttleClient,
		summarizer: summarizer,
	}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/models", s.handleModels)
		r.Post("/chat/completions", s.handleChat)

		r.Route("/tools", func(r chi.Router) {
			if s.weather != nil {
				r.Get("/weather", s.handleWeather)
			}
			if s.shuttle != nil {
				r.Get("/shuttle", s.handleShuttle)
			}
			if s.summarizer != nil {
				r.Get("/youtube", s.handleYouTube)
			}
		})
	})

	return r
}
