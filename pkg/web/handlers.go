package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/arbor/pkg/conversation"
)

type chatRequest struct {
	Message  string `json:"message"`
	ParentID string `json:"parent_id,omitempty"`
}

type chatResponse struct {
	NodeID    string    `json:"node_id"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Server) ChatHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "message cannot be empty"})
		return
	}
	if len(message) > MaxMessageLength {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "message too long (max 5000 characters)"})
		return
	}

	parentID := conversation.NullNode
	if req.ParentID != "" {
		var err error
		parentID, err = conversation.ParseNodeID(req.ParentID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid parent_id"})
			return
		}
	}

	log.Info().Str("remote", r.RemoteAddr).Msg("processing chat request")

	node, err := s.manager.Chat(r.Context(), parentID, message)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		NodeID:    node.ID.String(),
		Response:  node.AIResponse,
		Timestamp: node.Time,
	})
}

func (s *Server) TreeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, s.manager.GetTree())
}

type resetResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (s *Server) ResetHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if err := s.manager.ResetTree(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resetResponse{Success: true, Message: "Tree reset successfully"})
}

type editRequest struct {
	UserInput  *string `json:"userInput,omitempty"`
	AIResponse *string `json:"aiResponse,omitempty"`
	Preserve   bool    `json:"preserve"`
}

type editResponse struct {
	GhostID string `json:"ghost_id,omitempty"`
}

// NodeHandler serves /api/node/{id} (GET) and /api/node/{id}/edit (POST).
func (s *Server) NodeHandler(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/node/")
	idPart, action, _ := strings.Cut(rest, "/")

	id, err := conversation.ParseNodeID(idPart)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid node id"})
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		node, err := s.manager.GetNode(id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, node)

	case action == "edit" && r.Method == http.MethodPost:
		var req editRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
			return
		}
		if req.UserInput == nil && req.AIResponse == nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "no fields to update"})
			return
		}
		ghostID, err := s.manager.EditNode(id, req.UserInput, req.AIResponse, req.Preserve)
		if err != nil {
			writeError(w, err)
			return
		}
		resp := editResponse{}
		if !ghostID.IsNull() {
			resp.GhostID = ghostID.String()
		}
		writeJSON(w, http.StatusOK, resp)

	default:
		methodNotAllowed(w)
	}
}

func (s *Server) GhostsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, s.manager.ListGhosts())
}

// GhostHandler serves /api/ghosts/{id} (GET, DELETE) and
// /api/ghosts/{id}/restore (POST).
func (s *Server) GhostHandler(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/ghosts/")
	idPart, action, _ := strings.Cut(rest, "/")

	id, err := conversation.ParseGhostID(idPart)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid ghost id"})
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		branch, err := s.manager.GetGhost(id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, branch)

	case action == "" && r.Method == http.MethodDelete:
		if err := s.manager.DeleteGhost(id); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resetResponse{Success: true, Message: "Ghost branch deleted"})

	case action == "restore" && r.Method == http.MethodPost:
		if err := s.manager.RestoreGhost(id); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resetResponse{Success: true, Message: "Ghost branch restored"})

	default:
		methodNotAllowed(w)
	}
}

type statusResponse struct {
	Status    string    `json:"status"`
	Connected bool      `json:"connected"`
	Model     string    `json:"model"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Server) StatusHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	connected := false
	if s.engine != nil {
		ctx, cancel := context.WithTimeout(r.Context(), statusProbeTimeout)
		defer cancel()
		connected = s.engine.Ping(ctx) == nil
	}

	model := ""
	if s.settings != nil {
		model = s.settings.Model
	}

	writeJSON(w, http.StatusOK, statusResponse{
		Status:    "running",
		Connected: connected,
		Model:     model,
		Timestamp: time.Now().UTC(),
	})
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   "1.0.0",
	})
}
