package handlers

import (
	"encoding/json"
	"net/http"
	"time"
)

// HealthResponse represents the health probe body
// swagger:model HealthResponse
type HealthResponse struct {
	// Process status
	// default: OK
	Status string `json:"status"`

	// Human-readable message
	// default: Service is up and running
	Message string `json:"message"`

	// Current server time, RFC 3339
	Timestamp string `json:"timestamp"`
}

// NewHealthHandler returns the no-auth health probe handler.
// @Summary Health probe
// @Tags health
// @Produce json
// @Success 200 {object} handlers.HealthResponse "Process status"
// @Router /health [get]
func NewHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(HealthResponse{
			Status:    "OK",
			Message:   "Service is up and running",
			Timestamp: time.Now().Format(time.RFC3339),
		})
	}
}
