package server

import (
	"encoding/json"
	"net/http"

	"github.com/mkoba/remindbot/internal/database"
	"github.com/mkoba/remindbot/internal/reminder"
)

// livenessResponse is the body of GET /. last_sent_date is null until the
// first confirmed send.
type livenessResponse struct {
	Status       string  `json:"status"`
	Enabled      bool    `json:"enabled"`
	LastSentDate *string `json:"last_sent_date"`
}

// tickResponse is the body of POST /tick, mirroring the dispatch result.
type tickResponse struct {
	OK     bool   `json:"ok"`
	Sent   bool   `json:"sent"`
	Reason string `json:"reason"`
}

// handleLiveness reports process health and current reminder state. It
// answers 200 even when the store is unreachable, substituting the default
// state, so platform health checks never flap on a store outage.
func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	state, err := s.store.Get(r.Context())
	if err != nil {
		s.logger.WarnContext(r.Context(), "Liveness check falling back to default state", "error", err)
		state = database.DefaultReminderState()
	}

	resp := livenessResponse{
		Status:  "active",
		Enabled: state.Enabled,
	}
	if state.LastSentDate.Valid {
		resp.LastSentDate = &state.LastSentDate.String
	}

	s.writeJSON(w, r, http.StatusOK, resp)
}

// handleTick is the manual trigger: it runs one dispatch and reports what
// happened. Duplicate triggers are safe; the dispatch guards and the
// compare-and-set make the operation idempotent per calendar day.
func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	result := s.dispatcher.Dispatch(r.Context())

	s.writeJSON(w, r, http.StatusOK, tickResponse{
		OK:     result.Reason != reminder.ReasonSendFailed,
		Sent:   result.Sent,
		Reason: result.Reason,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to write JSON response", "error", err)
	}
}
