package http

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

type analyzeRequest struct {
	Query       string         `json:"query"`
	VehicleData map[string]any `json:"vehicle_data"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "AutoSync System Online",
		"version": "2.0.0",
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query is required"})
		return
	}

	result := s.agent.Analyze(r.Context(), req.Query, req.VehicleData)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleServiceHistory(w http.ResponseWriter, r *http.Request) {
	reg := r.PathValue("reg")
	records, err := s.booker.History(r.Context(), reg)
	if err != nil {
		s.log.Error("history lookup failed", zap.String("vehicle_reg", reg), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "history lookup failed"})
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// handleManualBook runs one booking cycle, the same find-then-book sequence
// the replay engine uses when it escalates.
func (s *Server) handleManualBook(w http.ResponseWriter, r *http.Request) {
	slot, err := s.booker.FindAvailableSlot(r.Context())
	if err != nil {
		s.log.Error("slot lookup failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "slot lookup failed"})
		return
	}
	if slot == nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": false,
			"message": "No service slots available immediately.",
		})
		return
	}

	booked, err := s.booker.BookSlot(r.Context(), slot.SlotID, s.vehicleReg)
	if err != nil {
		s.log.Error("slot booking failed", zap.String("slot_id", slot.SlotID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "booking failed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": booked,
		"slot":    slot,
	})
}

func (s *Server) handleVoiceTest(w http.ResponseWriter, r *http.Request) {
	s.log.Info("manual voice test triggered")
	delivered, err := s.alerter.SendAlert(r.Context(),
		"Hello. This is AutoSync Assist. We detected a manual request for support. Connecting you now.")
	if err != nil {
		s.log.Warn("voice test delivery failed", zap.Error(err))
		delivered = false
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "calling",
		"success": delivered,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
