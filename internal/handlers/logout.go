package handlers

import (
	"encoding/json"
	"net/http"
)

// LogoutResponse represents a successful logout response
// swagger:model LogoutResponse
type LogoutResponse struct {
	// Success message
	// default: Logout successful
	Message string `json:"message"`
}

// NewLogoutHandler returns an HTTP handler for user logout. Tokens are
// stateless bearer JWTs, so logout is an acknowledgment: the client
// discards its token and the server keeps no session to tear down.
// @Summary User logout
// @Tags auth
// @Produce json
// @Success 200 {object} handlers.LogoutResponse "Logout acknowledged"
// @Router /auth/logout [post]
func NewLogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(LogoutResponse{
			Message: "Logout successful",
		})
	}
}
