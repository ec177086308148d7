// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Openwall Authors

package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledskov/openwall/internal/service"
	"github.com/ledskov/openwall/internal/store"
	"github.com/ledskov/openwall/models"
)

var validSignupBody = models.SignupRequest{
	Username:    "johndoe",
	DisplayName: "John Doe",
	Email:       "john@example.com",
	Password:    "secret123",
}

func TestSignup_Success(t *testing.T) {
	auth := &mockAuthService{
		registerFn: func(_ context.Context, signup models.SignupRequest) (models.Token, models.User, error) {
			assert.Equal(t, validSignupBody, signup)
			return models.Token{SignedString: "signed.jwt.token"}, models.User{ID: 1, Username: signup.Username, Email: signup.Email}, nil
		},
	}
	h := newTestHandler(t, service.Services{AuthService: auth})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(jsonBody(t, validSignupBody)))
	rec := httptest.NewRecorder()

	h.signup(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "signed.jwt.token", resp.Token)
	assert.Equal(t, int64(1), resp.User.ID)
}

func TestSignup_InvalidJSON(t *testing.T) {
	h := newTestHandler(t, service.Services{AuthService: &mockAuthService{}})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	h.signup(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid JSON was passed", decodeErrorBody(t, rec.Body.Bytes()))
}

func TestSignup_Conflicts(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantMessage string
	}{
		{"username taken", store.ErrUsernameAlreadyExists, "Username is already taken!"},
		{"email in use", store.ErrEmailAlreadyExists, "Email is already in use!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &mockAuthService{
				registerFn: func(_ context.Context, _ models.SignupRequest) (models.Token, models.User, error) {
					return models.Token{}, models.User{}, tt.err
				},
			}
			h := newTestHandler(t, service.Services{AuthService: auth})

			req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(jsonBody(t, validSignupBody)))
			rec := httptest.NewRecorder()

			h.signup(rec, req)

			require.Equal(t, http.StatusConflict, rec.Code)
			assert.Equal(t, tt.wantMessage, decodeErrorBody(t, rec.Body.Bytes()))
		})
	}
}

func TestSignup_ValidationError(t *testing.T) {
	auth := &mockAuthService{
		registerFn: func(_ context.Context, _ models.SignupRequest) (models.Token, models.User, error) {
			return models.Token{}, models.User{}, service.ErrValidationPasswordTooShort
		},
	}
	h := newTestHandler(t, service.Services{AuthService: auth})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(jsonBody(t, validSignupBody)))
	rec := httptest.NewRecorder()

	h.signup(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Password must be at least 6 characters", decodeErrorBody(t, rec.Body.Bytes()))
}

func TestLogin_Success(t *testing.T) {
	auth := &mockAuthService{
		loginFn: func(_ context.Context, login models.LoginRequest) (models.Token, models.User, error) {
			assert.Equal(t, "john@example.com", login.Email)
			return models.Token{SignedString: "signed.jwt.token"}, models.User{ID: 1, Email: login.Email}, nil
		},
	}
	h := newTestHandler(t, service.Services{AuthService: auth})

	body := jsonBody(t, models.LoginRequest{Email: "john@example.com", Password: "secret123"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "signed.jwt.token", resp.Token)
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"unknown user", store.ErrNoUserWasFound, http.StatusNotFound, "User not found"},
		{"wrong password", service.ErrWrongPassword, http.StatusUnauthorized, "Invalid password"},
		{"deactivated", service.ErrAccountDeactivated, http.StatusForbidden, "Account is deactivated. Please contact administrator."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &mockAuthService{
				loginFn: func(_ context.Context, _ models.LoginRequest) (models.Token, models.User, error) {
					return models.Token{}, models.User{}, tt.err
				},
			}
			h := newTestHandler(t, service.Services{AuthService: auth})

			body := jsonBody(t, models.LoginRequest{Email: "john@example.com", Password: "x"})
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
			rec := httptest.NewRecorder()

			h.login(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMessage, decodeErrorBody(t, rec.Body.Bytes()))
		})
	}
}

func TestMe_Success(t *testing.T) {
	auth := &mockAuthService{
		currentUserFn: func(_ context.Context, authHeader string) (models.User, error) {
			assert.Equal(t, "Bearer signed.jwt.token", authHeader)
			return models.User{ID: 7, Email: "john@example.com"}, nil
		},
	}
	h := newTestHandler(t, service.Services{AuthService: auth})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer signed.jwt.token")
	rec := httptest.NewRecorder()

	h.me(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, int64(7), user.ID)
}

func TestMe_InvalidToken(t *testing.T) {
	auth := &mockAuthService{
		currentUserFn: func(_ context.Context, _ string) (models.User, error) {
			return models.User{}, service.ErrTokenIsExpiredOrInvalid
		},
	}
	h := newTestHandler(t, service.Services{AuthService: auth})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rec := httptest.NewRecorder()

	h.me(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid or expired token", decodeErrorBody(t, rec.Body.Bytes()))
}
