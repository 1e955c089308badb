package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/mgarciadev/gw-fitness-routine/internal/models"
	"github.com/mgarciadev/gw-fitness-routine/internal/services"
)

func TestGetProfileHandler(t *testing.T) {
	persisted := &models.UserProfileDB{
		ProfileID:    10,
		UserID:       1,
		Age:          30,
		Weight:       70,
		Height:       175,
		Objective:    "lose fat",
		TrainingDays: 4,
	}

	tests := []struct {
		name         string
		target       string
		subjectID    *int64
		setupMock    func(svc *MockProfileGetter)
		wantStatus   int
		wantContains string
	}{
		{
			name:      "Success",
			target:    "/user/userProfile/1",
			subjectID: int64Ptr(1),
			setupMock: func(svc *MockProfileGetter) {
				svc.EXPECT().
					GetProfile(gomock.Any(), int64(1)).
					Return(persisted, nil)
			},
			wantStatus:   http.StatusOK,
			wantContains: "User profile retrieved successfully",
		},
		{
			name:         "InvalidUserID",
			target:       "/user/userProfile/abc",
			subjectID:    int64Ptr(1),
			setupMock:    func(svc *MockProfileGetter) {},
			wantStatus:   http.StatusBadRequest,
			wantContains: "Invalid user id",
		},
		{
			name:         "Unauthenticated",
			target:       "/user/userProfile/1",
			subjectID:    nil,
			setupMock:    func(svc *MockProfileGetter) {},
			wantStatus:   http.StatusUnauthorized,
			wantContains: "User not authenticated",
		},
		{
			name:         "ForbiddenForOtherUser",
			target:       "/user/userProfile/2",
			subjectID:    int64Ptr(1),
			setupMock:    func(svc *MockProfileGetter) {},
			wantStatus:   http.StatusForbidden,
			wantContains: "User not allowed",
		},
		{
			name:      "ProfileNotFound",
			target:    "/user/userProfile/1",
			subjectID: int64Ptr(1),
			setupMock: func(svc *MockProfileGetter) {
				svc.EXPECT().
					GetProfile(gomock.Any(), int64(1)).
					Return(nil, services.ErrProfileNotFound)
			},
			wantStatus:   http.StatusNotFound,
			wantContains: "User not found",
		},
		{
			name:      "InternalError",
			target:    "/user/userProfile/1",
			subjectID: int64Ptr(1),
			setupMock: func(svc *MockProfileGetter) {
				svc.EXPECT().
					GetProfile(gomock.Any(), int64(1)).
					Return(nil, errors.New("db down"))
			},
			wantStatus:   http.StatusInternalServerError,
			wantContains: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc := NewMockProfileGetter(ctrl)
			tt.setupMock(svc)

			router := routeWithSubject(http.MethodGet, "/user/userProfile/{id}", NewGetProfileHandler(svc), tt.subjectID)

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.wantContains)
		})
	}
}
