package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mgarciadev/gw-fitness-routine/internal/logger"
	"github.com/mgarciadev/gw-fitness-routine/internal/middlewares"
	"github.com/mgarciadev/gw-fitness-routine/internal/models"
	"github.com/mgarciadev/gw-fitness-routine/internal/services"
)

// ProfileGetter defines the interface that the service must implement.
type ProfileGetter interface {
	GetProfile(ctx context.Context, userID int64) (*models.UserProfileDB, error)
}

// GetProfileResponse represents a successful profile fetch response
// swagger:model GetProfileResponse
type GetProfileResponse struct {
	// Success message
	// default: User profile retrieved successfully
	Message string `json:"message"`

	// Stored profile
	Profile *models.UserProfileDB `json:"profile"`
}

// GetProfileErrorResponse represents an error response for profile fetch
// swagger:model GetProfileErrorResponse
type GetProfileErrorResponse struct {
	// Error message
	// default: User not found
	Message string `json:"message"`
}

// NewGetProfileHandler returns an HTTP handler for fetching the caller's profile.
// @Summary Get the user's fitness profile
// @Tags user
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} handlers.GetProfileResponse "Stored profile"
// @Failure 401 {object} handlers.GetProfileErrorResponse "Unauthenticated"
// @Failure 403 {object} handlers.GetProfileErrorResponse "Caller is not the profile owner"
// @Failure 404 {object} handlers.GetProfileErrorResponse "User not found"
// @Router /user/userProfile/{id} [get]
// @Security BearerAuth
func NewGetProfileHandler(svc ProfileGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		ctx := r.Context()

		targetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(GetProfileErrorResponse{
				Message: "Invalid user id",
			})
			return
		}

		subjectID, ok := middlewares.UserIDFromContext(ctx)
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(GetProfileErrorResponse{
				Message: "User not authenticated",
			})
			return
		}

		if targetID != subjectID {
			logger.Log.Errorw("profile fetch forbidden", "subject", subjectID, "target", targetID)
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(GetProfileErrorResponse{
				Message: "User not allowed",
			})
			return
		}

		profile, err := svc.GetProfile(ctx, targetID)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrProfileNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(GetProfileErrorResponse{
					Message: "User not found",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(GetProfileErrorResponse{
					Message: "Internal server error",
				})
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(GetProfileResponse{
			Message: "User profile retrieved successfully",
			Profile: profile,
		})
	}
}
