package register

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/quiz-backend/internal/services/auth"
)

// Мок сервиса с методом Register
type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Register(ctx context.Context, name, email, password, dob string) error {
	args := m.Called(ctx, name, email, password, dob)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRegisterHandler_ServeHTTP(t *testing.T) {
	serviceMock := new(ServiceMock)
	logger := newNoopLogger()

	handler := New(logger, serviceMock)

	tests := []struct {
		name           string
		requestBody    interface{}
		mockErr        error
		mockCalled     bool
		wantStatusCode int
		wantSuccess    bool
		wantMessage    string
	}{
		{
			name: "valid registration",
			requestBody: Request{
				Name:     "User One",
				Email:    "user1@example.com",
				Password: "password123",
				DOB:      "01-01-1990",
			},
			mockCalled:     true,
			wantStatusCode: http.StatusOK,
			wantSuccess:    true,
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    "invalid request body",
		},
		{
			name: "validation error - missing password",
			requestBody: Request{
				Name:  "User One",
				Email: "user1@example.com",
				DOB:   "01-01-1990",
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantMessage:    "field Password is a required field",
		},
		{
			name: "validation error - malformed email",
			requestBody: Request{
				Name:     "User One",
				Email:    "not-an-email",
				Password: "password123",
				DOB:      "01-01-1990",
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantMessage:    "field Email must be a valid email",
		},
		{
			name: "duplicate email",
			requestBody: Request{
				Name:     "User One",
				Email:    "user1@example.com",
				Password: "password123",
				DOB:      "01-01-1990",
			},
			mockErr:        auth.ErrUserExists,
			mockCalled:     true,
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    "user already exists",
		},
		{
			name: "service failure",
			requestBody: Request{
				Name:     "User One",
				Email:    "user1@example.com",
				Password: "password123",
				DOB:      "01-01-1990",
			},
			mockErr:        errors.New("storage error"),
			mockCalled:     true,
			wantStatusCode: http.StatusInternalServerError,
			wantMessage:    "registration failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock.ExpectedCalls = nil
			serviceMock.Calls = nil

			if tt.mockCalled {
				serviceMock.On("Register", mock.Anything,
					mock.Anything, mock.Anything, mock.Anything, mock.Anything,
				).Return(tt.mockErr).Once()
			}

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			assert.Equal(t, tt.wantSuccess, got["success"])

			if tt.wantMessage != "" {
				msg, ok := got["message"].(string)
				assert.True(t, ok)
				assert.Equal(t, tt.wantMessage, msg)
			} else {
				assert.Nil(t, got["message"])
			}

			serviceMock.AssertExpectations(t)
		})
	}
}
