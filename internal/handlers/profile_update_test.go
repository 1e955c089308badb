package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/mgarciadev/gw-fitness-routine/internal/facades"
	"github.com/mgarciadev/gw-fitness-routine/internal/middlewares"
	"github.com/mgarciadev/gw-fitness-routine/internal/models"
	"github.com/mgarciadev/gw-fitness-routine/internal/services"
)

// routeWithSubject mounts the handler on a chi router so URL params
// resolve, optionally injecting an authenticated user ID the way the
// auth middleware would.
func routeWithSubject(method, pattern string, h http.HandlerFunc, subjectID *int64) http.Handler {
	r := chi.NewRouter()
	r.Method(method, pattern, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if subjectID != nil {
			req = req.WithContext(middlewares.SetUserIDToContext(req.Context(), *subjectID))
		}
		h(w, req)
	}))
	return r
}

func int64Ptr(v int64) *int64 { return &v }

const validUpdateBody = `{"username":"alice","age":30,"weight":70,"height":175,"objective":"lose fat","training_days":4,"profiling_form":1}`

func TestUpdateProfileHandler(t *testing.T) {
	validate := NewValidator()

	persisted := &models.UserProfileDB{
		ProfileID:    10,
		UserID:       1,
		Age:          30,
		Weight:       70,
		Height:       175,
		Objective:    "lose fat",
		TrainingDays: 4,
	}
	doc := &models.RoutineDocument{
		Routines: []models.DayRoutine{
			{Exercise: []models.Exercise{{
				Exercise: "Squats",
				Duration: "15 minutes",
				Calories: 120,
				Sets:     4,
				Reps:     12,
				ImgURL:   "https://example.com/squats.png",
				VideoURL: "https://example.com/squats.mp4",
			}}},
		},
	}

	tests := []struct {
		name         string
		target       string
		subjectID    *int64
		body         string
		setupMock    func(svc *MockProfileUpdater)
		wantStatus   int
		wantContains string
	}{
		{
			name:      "Success",
			target:    "/user/userProfile/1",
			subjectID: int64Ptr(1),
			body:      validUpdateBody,
			setupMock: func(svc *MockProfileUpdater) {
				svc.EXPECT().
					UpdateProfile(gomock.Any(), int64(1), services.UpdateProfileParams{
						Username:      "alice",
						Age:           30,
						Weight:        70,
						Height:        175,
						Objective:     "lose fat",
						TrainingDays:  4,
						ProfilingForm: 1,
					}).
					Return(persisted, doc, nil)
			},
			wantStatus:   http.StatusOK,
			wantContains: "User profile updated successfully",
		},
		{
			name:         "InvalidUserID",
			target:       "/user/userProfile/abc",
			subjectID:    int64Ptr(1),
			body:         validUpdateBody,
			setupMock:    func(svc *MockProfileUpdater) {},
			wantStatus:   http.StatusBadRequest,
			wantContains: "Invalid user id",
		},
		{
			name:         "Unauthenticated",
			target:       "/user/userProfile/1",
			subjectID:    nil,
			body:         validUpdateBody,
			setupMock:    func(svc *MockProfileUpdater) {},
			wantStatus:   http.StatusUnauthorized,
			wantContains: "User not authenticated",
		},
		{
			name:         "ForbiddenForOtherUser",
			target:       "/user/userProfile/2",
			subjectID:    int64Ptr(1),
			body:         validUpdateBody,
			setupMock:    func(svc *MockProfileUpdater) {},
			wantStatus:   http.StatusForbidden,
			wantContains: "User not allowed",
		},
		{
			name:         "InvalidBody",
			target:       "/user/userProfile/1",
			subjectID:    int64Ptr(1),
			body:         `{not json`,
			setupMock:    func(svc *MockProfileUpdater) {},
			wantStatus:   http.StatusBadRequest,
			wantContains: "Invalid request body",
		},
		{
			name:         "ValidationFailure",
			target:       "/user/userProfile/1",
			subjectID:    int64Ptr(1),
			body:         `{"username":"alice","age":0,"weight":-1,"height":175,"objective":"","training_days":4,"profiling_form":3}`,
			setupMock:    func(svc *MockProfileUpdater) {},
			wantStatus:   http.StatusBadRequest,
			wantContains: "age",
		},
		{
			name:      "UserNotFound",
			target:    "/user/userProfile/1",
			subjectID: int64Ptr(1),
			body:      validUpdateBody,
			setupMock: func(svc *MockProfileUpdater) {
				svc.EXPECT().
					UpdateProfile(gomock.Any(), int64(1), gomock.Any()).
					Return(nil, nil, services.ErrUserNotFound)
			},
			wantStatus:   http.StatusNotFound,
			wantContains: "User not found",
		},
		{
			name:      "GenerationUnavailable",
			target:    "/user/userProfile/1",
			subjectID: int64Ptr(1),
			body:      validUpdateBody,
			setupMock: func(svc *MockProfileUpdater) {
				svc.EXPECT().
					UpdateProfile(gomock.Any(), int64(1), gomock.Any()).
					Return(persisted, nil, facades.ErrGenerationUnavailable)
			},
			wantStatus:   http.StatusNotFound,
			wantContains: "Routine generation service unavailable",
		},
		{
			name:      "GenerationEmpty",
			target:    "/user/userProfile/1",
			subjectID: int64Ptr(1),
			body:      validUpdateBody,
			setupMock: func(svc *MockProfileUpdater) {
				svc.EXPECT().
					UpdateProfile(gomock.Any(), int64(1), gomock.Any()).
					Return(persisted, nil, facades.ErrGenerationEmpty)
			},
			wantStatus:   http.StatusNotFound,
			wantContains: "Routines not found",
		},
		{
			name:      "InternalError",
			target:    "/user/userProfile/1",
			subjectID: int64Ptr(1),
			body:      validUpdateBody,
			setupMock: func(svc *MockProfileUpdater) {
				svc.EXPECT().
					UpdateProfile(gomock.Any(), int64(1), gomock.Any()).
					Return(nil, nil, errors.New("db down"))
			},
			wantStatus:   http.StatusInternalServerError,
			wantContains: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc := NewMockProfileUpdater(ctrl)
			tt.setupMock(svc)

			router := routeWithSubject(http.MethodPost, "/user/userProfile/{id}", NewUpdateProfileHandler(svc, validate), tt.subjectID)

			req := httptest.NewRequest(http.MethodPost, tt.target, strings.NewReader(tt.body))
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.wantContains)
		})
	}
}
