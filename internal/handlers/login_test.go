package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/mgarciadev/gw-fitness-routine/internal/services"
)

func TestLoginHandler(t *testing.T) {
	validate := NewValidator()

	tests := []struct {
		name         string
		body         string
		setupMock    func(svc *MockLoginer)
		wantStatus   int
		wantContains string
	}{
		{
			name: "Success",
			body: `{"email":"alice@example.com","password":"secret123"}`,
			setupMock: func(svc *MockLoginer) {
				svc.EXPECT().
					Login(gomock.Any(), "alice@example.com", "secret123").
					Return("signed-token", nil)
			},
			wantStatus:   http.StatusOK,
			wantContains: "Login successful",
		},
		{
			name:         "InvalidBody",
			body:         `{not json`,
			setupMock:    func(svc *MockLoginer) {},
			wantStatus:   http.StatusBadRequest,
			wantContains: "Invalid request body",
		},
		{
			name:         "MissingPassword",
			body:         `{"email":"alice@example.com"}`,
			setupMock:    func(svc *MockLoginer) {},
			wantStatus:   http.StatusBadRequest,
			wantContains: "password",
		},
		{
			name: "InvalidCredentials",
			body: `{"email":"alice@example.com","password":"wrong"}`,
			setupMock: func(svc *MockLoginer) {
				svc.EXPECT().
					Login(gomock.Any(), "alice@example.com", "wrong").
					Return("", services.ErrInvalidCredentials)
			},
			wantStatus:   http.StatusUnauthorized,
			wantContains: "Invalid credentials",
		},
		{
			name: "UnknownUser",
			body: `{"email":"ghost@example.com","password":"secret123"}`,
			setupMock: func(svc *MockLoginer) {
				svc.EXPECT().
					Login(gomock.Any(), "ghost@example.com", "secret123").
					Return("", services.ErrUserDoesNotExist)
			},
			wantStatus:   http.StatusUnauthorized,
			wantContains: "Invalid credentials",
		},
		{
			name: "InternalError",
			body: `{"email":"alice@example.com","password":"secret123"}`,
			setupMock: func(svc *MockLoginer) {
				svc.EXPECT().
					Login(gomock.Any(), "alice@example.com", "secret123").
					Return("", errors.New("db down"))
			},
			wantStatus:   http.StatusInternalServerError,
			wantContains: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc := NewMockLoginer(ctrl)
			tt.setupMock(svc)

			handler := NewLoginHandler(svc, validate)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.wantContains)
		})
	}
}
