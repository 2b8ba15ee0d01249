package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"docai/providers/models"
)

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// httpStatus maps relay failures to response codes: missing credential is a
// server configuration problem, everything else is an upstream failure.
func httpStatus(err error) int {
	if errors.Is(err, models.ErrMissingAPIKey) {
		return http.StatusInternalServerError
	}
	return http.StatusBadGateway
}

// handleAsk answers one question with a complete JSON response.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Question == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "No question provided"})
		return
	}

	answer, err := s.assistant.Ask(r.Context(), req.Question)
	if err != nil {
		writeJSON(w, httpStatus(err), errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, askResponse{Question: req.Question, Answer: answer})
}

// handleAskStream answers one question as a text/event-stream relay of the
// provider's canonical frames. Failures truncate the stream with one final
// error event rather than silently closing.
func (s *Server) handleAskStream(w http.ResponseWriter, r *http.Request) {
	sse, err := NewSSEWriter(w)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Question == "" {
		sse.WriteRaw("data: Error: No question provided\n\n")
		return
	}

	for event := range s.assistant.AskStream(r.Context(), req.Question) {
		if event.Err != nil {
			sse.WriteRaw(fmt.Sprintf("data: Error: %s\n\n", event.Err))
			return
		}
		if event.Frame != "" {
			sse.WriteRaw(event.Frame)
		}
	}
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
