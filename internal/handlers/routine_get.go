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

// RoutineGetter defines the interface that the service must implement.
type RoutineGetter interface {
	GetRoutine(ctx context.Context, userID int64) (*models.RoutineDocument, error)
}

// GetRoutineResponse represents a successful routine fetch response.
// The document is returned under `profile`, matching the profile endpoints.
// swagger:model GetRoutineResponse
type GetRoutineResponse struct {
	// Success message
	// default: User routines retrieved successfully
	Message string `json:"message"`

	// Stored routine document
	Profile *models.RoutineDocument `json:"profile"`
}

// GetRoutineErrorResponse represents an error response for routine fetch
// swagger:model GetRoutineErrorResponse
type GetRoutineErrorResponse struct {
	// Error message
	// default: User routines not found
	Message string `json:"message"`
}

// NewGetRoutineHandler returns an HTTP handler for fetching the caller's routine.
// @Summary Get the user's generated workout routine
// @Tags user
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} handlers.GetRoutineResponse "Stored routine"
// @Failure 401 {object} handlers.GetRoutineErrorResponse "Unauthenticated"
// @Failure 403 {object} handlers.GetRoutineErrorResponse "Caller is not the routine owner"
// @Failure 404 {object} handlers.GetRoutineErrorResponse "No routine stored for the user"
// @Router /user/userRoutines/{id} [get]
// @Security BearerAuth
func NewGetRoutineHandler(svc RoutineGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		ctx := r.Context()

		targetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(GetRoutineErrorResponse{
				Message: "Invalid user id",
			})
			return
		}

		subjectID, ok := middlewares.UserIDFromContext(ctx)
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(GetRoutineErrorResponse{
				Message: "User not authenticated",
			})
			return
		}

		if targetID != subjectID {
			logger.Log.Errorw("routine fetch forbidden", "subject", subjectID, "target", targetID)
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(GetRoutineErrorResponse{
				Message: "User not allowed",
			})
			return
		}

		routine, err := svc.GetRoutine(ctx, targetID)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrRoutineNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(GetRoutineErrorResponse{
					Message: "User routines not found",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(GetRoutineErrorResponse{
					Message: "Internal server error",
				})
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(GetRoutineResponse{
			Message: "User routines retrieved successfully",
			Profile: routine,
		})
	}
}
