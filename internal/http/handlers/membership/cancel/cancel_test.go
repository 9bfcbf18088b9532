package cancel

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/membership-fund/internal/http/middlewarectx"
	"github.com/magabrotheeeer/membership-fund/internal/models"
	"github.com/magabrotheeeer/membership-fund/internal/storage"
)

type MembershipServiceMock struct {
	mock.Mock
}

func (m *MembershipServiceMock) Cancel(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCancelHandler_ServeHTTP(t *testing.T) {
	serviceMock := new(MembershipServiceMock)
	logger := newNoopLogger()

	handler := New(logger, serviceMock)

	user := &models.User{ID: "user-1", Role: models.RoleUser}

	tests := []struct {
		name           string
		withUser       bool
		mockCall       bool
		mockErr        error
		wantStatusCode int
		wantStatus     string
		wantError      string
		wantMessage    string
	}{
		{
			name:           "valid cancel",
			withUser:       true,
			mockCall:       true,
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
			wantMessage:    "membership cancelled successfully",
		},
		{
			name:           "no user in context",
			withUser:       false,
			wantStatusCode: http.StatusUnauthorized,
			wantStatus:     "Error",
			wantError:      "unauthorized",
		},
		{
			name:           "no active membership",
			withUser:       true,
			mockCall:       true,
			mockErr:        storage.ErrNoActiveMembership,
			wantStatusCode: http.StatusNotFound,
			wantStatus:     "Error",
			wantError:      "no active membership found",
		},
		{
			name:           "storage failure",
			withUser:       true,
			mockCall:       true,
			mockErr:        errors.New("db down"),
			wantStatusCode: http.StatusInternalServerError,
			wantStatus:     "Error",
			wantError:      "failed to cancel membership",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock.ExpectedCalls = nil
			serviceMock.Calls = nil

			if tt.mockCall {
				serviceMock.On("Cancel", mock.Anything, user).Return(tt.mockErr).Once()
			}

			req := httptest.NewRequest(http.MethodPost, "/memberships/cancel", nil)
			if tt.withUser {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.CurrentUser, user))
			}

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err := json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				errStr, ok := got["error"].(string)
				assert.True(t, ok)
				assert.Equal(t, tt.wantError, errStr)
			}

			if tt.wantMessage != "" {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, tt.wantMessage, data["message"])
			}

			if tt.mockCall {
				serviceMock.AssertExpectations(t)
			}
		})
	}
}
