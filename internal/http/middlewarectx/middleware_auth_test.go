package middlewarectx

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

	"github.com/magabrotheeeer/membership-fund/internal/models"
)

type SessionResolverMock struct {
	mock.Mock
}

func (m *SessionResolverMock) ResolveSession(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestSessionMiddleware(t *testing.T) {
	user := &models.User{ID: "user-1", Role: models.RoleUser}

	tests := []struct {
		name           string
		authHeader     string
		mockUser       *models.User
		mockErr        error
		wantStatusCode int
		wantNextCalled bool
		wantError      string
	}{
		{
			name:           "valid token",
			authHeader:     "Bearer tok",
			mockUser:       user,
			wantStatusCode: http.StatusOK,
			wantNextCalled: true,
		},
		{
			name:           "missing header",
			authHeader:     "",
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "missing or invalid authorization header",
		},
		{
			name:           "wrong scheme",
			authHeader:     "Basic dXNlcjpwYXNz",
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "missing or invalid authorization header",
		},
		{
			name:           "expired token",
			authHeader:     "Bearer expired",
			mockErr:        errors.New("token is expired"),
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "invalid or expired token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := new(SessionResolverMock)
			if tt.mockUser != nil || tt.mockErr != nil {
				resolver.On("ResolveSession", mock.Anything, mock.AnythingOfType("string")).
					Return(tt.mockUser, tt.mockErr).Once()
			}

			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				got, ok := UserFromContext(r.Context())
				assert.True(t, ok)
				assert.Equal(t, tt.mockUser, got)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/memberships/my", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			SessionMiddleware(resolver, newNoopLogger())(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantNextCalled, nextCalled)

			if tt.wantError != "" {
				var got map[string]any
				err := json.NewDecoder(rec.Body).Decode(&got)
				assert.NoError(t, err)
				assert.Equal(t, tt.wantError, got["error"])
			}
		})
	}
}

func TestAdminMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		user           *models.User
		wantStatusCode int
		wantNextCalled bool
	}{
		{
			name:           "admin passes",
			user:           &models.User{ID: "admin-1", Role: models.RoleAdmin},
			wantStatusCode: http.StatusOK,
			wantNextCalled: true,
		},
		{
			name:           "regular user rejected",
			user:           &models.User{ID: "user-1", Role: models.RoleUser},
			wantStatusCode: http.StatusForbidden,
		},
		{
			name:           "no user in context",
			wantStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
			if tt.user != nil {
				req = req.WithContext(context.WithValue(req.Context(), CurrentUser, tt.user))
			}
			rec := httptest.NewRecorder()

			AdminMiddleware(newNoopLogger())(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantNextCalled, nextCalled)
		})
	}
}
