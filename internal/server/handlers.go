package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aristath/quantdash/internal/session"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":  "healthy",
		"version": "1.0.0",
		"service": "quantdash",
	}

	s.writeJSON(w, http.StatusOK, response)
}

// handleCreateSession handles POST /api/session
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Secret string `json:"secret"`
	}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			s.writeError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
			return
		}
	}

	sess, err := s.container.Sessions.Issue(request.Secret)
	if errors.Is(err, session.ErrInvalidSecret) {
		s.log.Warn().Str("remote", r.RemoteAddr).Msg("Rejected session request")
		s.writeError(w, http.StatusUnauthorized, "INVALID_SECRET", err.Error())
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}

	s.writeJSON(w, http.StatusCreated, map[string]interface{}{"data": sess})
}

// handleGetSession handles GET /api/session
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"data": sess})
}

// handleDeleteSession handles DELETE /api/session
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if sess, ok := session.FromContext(r.Context()); ok && sess.Token != "" {
		s.container.Sessions.Revoke(sess.Token)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeError(w http.ResponseWriter, status int, code, message string) {
	s.writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": message,
			"code":    code,
		},
	})
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
