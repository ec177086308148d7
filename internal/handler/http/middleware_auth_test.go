package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledskov/openwall/internal/service"
	"github.com/ledskov/openwall/internal/utils"
	"github.com/ledskov/openwall/models"
)

func subjectToken(email string) models.Token {
	return models.Token{
		RegisteredClaims: jwt.RegisteredClaims{Subject: email},
	}
}

// nextCapture records whether the wrapped handler ran and which email the
// middleware stored in the context.
func nextCapture(ran *bool, email *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*ran = true
		if e, ok := utils.GetUserEmailFromContext(r.Context()); ok {
			*email = e
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	auth := &mockAuthService{
		parseTokenFn: func(_ context.Context, tokenString string) (models.Token, error) {
			assert.Equal(t, "signed.jwt.token", tokenString)
			return subjectToken("alice@example.com"), nil
		},
	}
	h := newTestHandler(t, service.Services{AuthService: auth})

	var ran bool
	var email string
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer signed.jwt.token")
	rec := httptest.NewRecorder()

	h.auth(nextCapture(&ran, &email)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ran)
	assert.Equal(t, "alice@example.com", email)
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"scheme only", "Bearer"},
		{"empty token", "Bearer "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, service.Services{AuthService: &mockAuthService{}})

			var ran bool
			var email string
			req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			h.auth(nextCapture(&ran, &email)).ServeHTTP(rec, req)

			require.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, ran, "downstream handler must not run")
		})
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	auth := &mockAuthService{
		parseTokenFn: func(_ context.Context, _ string) (models.Token, error) {
			return models.Token{}, service.ErrTokenIsExpiredOrInvalid
		},
	}
	h := newTestHandler(t, service.Services{AuthService: auth})

	var ran bool
	var email string
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer expired.jwt.token")
	rec := httptest.NewRecorder()

	h.auth(nextCapture(&ran, &email)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid or expired token", decodeErrorBody(t, rec.Body.Bytes()))
	assert.False(t, ran)
}

func TestAuthMiddleware_TokenWithoutSubject(t *testing.T) {
	auth := &mockAuthService{
		parseTokenFn: func(_ context.Context, _ string) (models.Token, error) {
			return subjectToken(""), nil
		},
	}
	h := newTestHandler(t, service.Services{AuthService: auth})

	var ran bool
	var email string
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer signed.jwt.token")
	rec := httptest.NewRecorder()

	h.auth(nextCapture(&ran, &email)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, ran)
}
