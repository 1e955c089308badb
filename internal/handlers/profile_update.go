package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/mgarciadev/gw-fitness-routine/internal/facades"
	"github.com/mgarciadev/gw-fitness-routine/internal/logger"
	"github.com/mgarciadev/gw-fitness-routine/internal/middlewares"
	"github.com/mgarciadev/gw-fitness-routine/internal/models"
	"github.com/mgarciadev/gw-fitness-routine/internal/services"
)

// ProfileUpdater defines the interface that the service must implement.
type ProfileUpdater interface {
	UpdateProfile(ctx context.Context, userID int64, params services.UpdateProfileParams) (*models.UserProfileDB, *models.RoutineDocument, error)
}

// UpdateProfileRequest represents the JSON body for a profile update
// swagger:model UpdateProfileRequest
type UpdateProfileRequest struct {
	// Username
	// required: true
	// default: john_doe
	Username string `json:"username" validate:"required,min=3"`

	// Age in years
	// required: true
	// default: 30
	Age int `json:"age" validate:"gt=0"`

	// Weight in kg
	// required: true
	// default: 70
	Weight float64 `json:"weight" validate:"gt=0"`

	// Height in cm
	// required: true
	// default: 175
	Height float64 `json:"height" validate:"gt=0"`

	// Training objective
	// required: true
	// default: lose fat
	Objective string `json:"objective" validate:"required"`

	// Training days per week
	// required: true
	// default: 4
	TrainingDays int `json:"training_days" validate:"gt=0"`

	// Profiling form completion flag
	// required: true
	// default: 1
	ProfilingForm *int `json:"profiling_form" validate:"required,gte=0,lte=1"`
}

// UpdateProfileResponse represents a successful profile update response
// swagger:model UpdateProfileResponse
type UpdateProfileResponse struct {
	// Success message
	// default: User profile updated successfully
	Message string `json:"message"`

	// Persisted profile
	Profile *models.UserProfileDB `json:"profile"`

	// Generated routine document
	Routine *models.RoutineDocument `json:"routine"`
}

// UpdateProfileErrorResponse represents an error response for profile update
// swagger:model UpdateProfileErrorResponse
type UpdateProfileErrorResponse struct {
	// Error message
	// default: User not found
	Message string `json:"message"`
}

// NewUpdateProfileHandler returns an HTTP handler for the profile-update
// pipeline: ownership check, payload validation, profile upsert, routine
// generation and routine persistence.
// @Summary Update the user's fitness profile and regenerate their routine
// @Description Persists the profile, derives a multi-day routine from the generation service and stores it. The caller must be the user named in the path.
// @Tags user
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param updateProfileRequest body handlers.UpdateProfileRequest true "Profile update request"
// @Success 200 {object} handlers.UpdateProfileResponse "Profile updated and routine generated"
// @Failure 400 {object} handlers.ValidationErrorResponse "Validation failure"
// @Failure 401 {object} handlers.UpdateProfileErrorResponse "Unauthenticated"
// @Failure 403 {object} handlers.UpdateProfileErrorResponse "Caller is not the profile owner"
// @Failure 404 {object} handlers.UpdateProfileErrorResponse "User not found / routine not generated"
// @Router /user/userProfile/{id} [post]
// @Security BearerAuth
func NewUpdateProfileHandler(svc ProfileUpdater, validate *validator.Validate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		ctx := r.Context()

		targetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(UpdateProfileErrorResponse{
				Message: "Invalid user id",
			})
			return
		}

		subjectID, ok := middlewares.UserIDFromContext(ctx)
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(UpdateProfileErrorResponse{
				Message: "User not authenticated",
			})
			return
		}

		// Ownership is a hard gate: a mismatch stops the pipeline here,
		// before any validation or store call.
		if targetID != subjectID {
			logger.Log.Errorw("profile update forbidden", "subject", subjectID, "target", targetID)
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(UpdateProfileErrorResponse{
				Message: "User not allowed",
			})
			return
		}

		var req UpdateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(UpdateProfileErrorResponse{
				Message: "Invalid request body",
			})
			return
		}

		if err := validate.Struct(req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ValidationErrorResponse{
				Errors: fieldErrors(err),
			})
			return
		}

		profile, routine, err := svc.UpdateProfile(ctx, targetID, services.UpdateProfileParams{
			Username:      req.Username,
			Age:           req.Age,
			Weight:        req.Weight,
			Height:        req.Height,
			Objective:     req.Objective,
			TrainingDays:  req.TrainingDays,
			ProfilingForm: *req.ProfilingForm,
		})
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(UpdateProfileErrorResponse{
					Message: "User not found",
				})
			case errors.Is(err, facades.ErrGenerationUnavailable):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(UpdateProfileErrorResponse{
					Message: "Routine generation service unavailable",
				})
			case errors.Is(err, facades.ErrGenerationEmpty):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(UpdateProfileErrorResponse{
					Message: "Routines not found",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(UpdateProfileErrorResponse{
					Message: "Internal server error",
				})
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(UpdateProfileResponse{
			Message: "User profile updated successfully",
			Profile: profile,
			Routine: routine,
		})
	}
}
