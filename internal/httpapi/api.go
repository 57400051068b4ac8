package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Anand38913/voice-outbound/internal/artifact"
	"github.com/Anand38913/voice-outbound/internal/observe"
)

// handleAudio serves a stored reply artifact to the signaling provider.
func (s *Server) handleAudio(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	data, art, err := s.artifacts.Get(id)
	if errors.Is(err, artifact.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		observe.Logger(r.Context()).Error("could not read artifact", "id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", art.Format.MIMEType())
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

// callRequest is the body of POST /call.
type callRequest struct {
	// To is the E.164 number to dial.
	To string `json:"to"`
}

// callResponse reports the placed call.
type callResponse struct {
	Sid    string `json:"sid"`
	Status string `json:"status"`
}

// handleCall places an outbound call that enters the same support flow as an
// inbound one. The number comes from a JSON body or a form/query "to" value.
func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	if s.telephony == nil || !s.cfg.Telephony.Enabled() {
		http.Error(w, "outbound calling is not configured", http.StatusServiceUnavailable)
		return
	}

	var req callRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
	} else {
		req.To = r.FormValue("to")
	}
	if req.To == "" {
		http.Error(w, `missing "to" number`, http.StatusBadRequest)
		return
	}

	sid, status, err := s.telephony.PlaceCall(r.Context(), req.To, s.webhookURL("/twilio/voice"))
	if err != nil {
		s.metrics.RecordUpstreamError(r.Context(), "telephony")
		observe.Logger(r.Context()).Error("could not place call", "to", req.To, "error", err)
		http.Error(w, "could not place call", http.StatusBadGateway)
		return
	}
	s.metrics.RecordCallStarted(r.Context(), "outbound")

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(callResponse{Sid: sid, Status: status}); err != nil {
		observe.Logger(r.Context()).Error("could not encode call response", "error", err)
	}
}
