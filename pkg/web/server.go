package web

// Package web exposes the conversation tree operations over a JSON HTTP
// API, including the ghost branch endpoints.

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/arbor/pkg/conversation"
	"github.com/go-go-golems/arbor/pkg/inference"
)

// MaxMessageLength caps incoming chat messages.
const MaxMessageLength = 5000

const statusProbeTimeout = 5 * time.Second

type Server struct {
	manager  conversation.Manager
	engine   inference.Engine
	settings *inference.Settings
}

func NewServer(manager conversation.Manager, engine inference.Engine, settings *inference.Settings) *Server {
	return &Server{
		manager:  manager,
		engine:   engine,
		settings: settings,
	}
}

// Routes builds the API mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat", s.ChatHandler)
	mux.HandleFunc("/api/tree", s.TreeHandler)
	mux.HandleFunc("/api/tree/reset", s.ResetHandler)
	mux.HandleFunc("/api/node/", s.NodeHandler)
	mux.HandleFunc("/api/ghosts", s.GhostsHandler)
	mux.HandleFunc("/api/ghosts/", s.GhostHandler)
	mux.HandleFunc("/api/status", s.StatusHandler)
	mux.HandleFunc("/api/health", s.HealthHandler)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

type errorResponse struct {
	Error      string `json:"error"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, conversation.ErrNoSuchNode), errors.Is(err, conversation.ErrNoSuchGhost):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, conversation.ErrInvalidState):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, conversation.ErrGeneration):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{
			Error:      err.Error(),
			Suggestion: "Please check that the generation backend is running and accessible",
		})
	default:
		log.Error().Err(err).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
}

// Run serves the API until the context is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:    addr,
		Handler: s.Routes(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", addr).Msg("starting web server")
	err := server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
