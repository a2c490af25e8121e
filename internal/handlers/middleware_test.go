package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/credon/authserver/internal/auth"
	"github.com/credon/authserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signupUser(t *testing.T, env *testEnv, email string) AuthResponse {
	t.Helper()

	recorder := env.do(t, http.MethodPost, "/auth/signup", SignupRequest{
		Name: "Ann", Email: email, Password: "Secret123!",
	}, nil)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var parsed AuthResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&parsed))
	return parsed
}

func TestAuthenticateRejections(t *testing.T) {
	env := newTestEnv()
	signedUp := signupUser(t, env, "ann@x.com")

	expiredCodec := auth.NewTokenCodec("test-secret", time.Millisecond)
	expiredToken, err := expiredCodec.Issue(signedUp.User)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)

	staleToken, err := env.codec.Issue(types.User{ID: "gone", Email: "gone@x.com", Role: types.RoleUser})
	require.NoError(t, err)

	tests := []struct {
		name        string
		header      http.Header
		wantMessage string
	}{
		{
			name:        "no header",
			header:      nil,
			wantMessage: "access token is required",
		},
		{
			name:        "malformed scheme",
			header:      http.Header{"Authorization": []string{"Token " + signedUp.Token}},
			wantMessage: "access token is required",
		},
		{
			name:        "bearer without token",
			header:      http.Header{"Authorization": []string{"Bearer "}},
			wantMessage: "access token is required",
		},
		{
			name:        "tampered token",
			header:      bearer(signedUp.Token + "x"),
			wantMessage: "invalid or expired token",
		},
		{
			name:        "expired token",
			header:      bearer(expiredToken),
			wantMessage: "invalid or expired token",
		},
		{
			name:        "token for removed user",
			header:      bearer(staleToken),
			wantMessage: "invalid token - user not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := env.do(t, http.MethodGet, "/auth/me", nil, tt.header)
			assert.Equal(t, http.StatusUnauthorized, recorder.Code)
			assert.Equal(t, tt.wantMessage, errorMessage(t, recorder))
		})
	}
}

func TestAuthorizeRoleEnforcement(t *testing.T) {
	env := newTestEnv()
	signedUp := signupUser(t, env, "ann@x.com")

	// the me route authenticates but does not enforce a role
	recorder := env.do(t, http.MethodGet, "/auth/me", nil, bearer(signedUp.Token))
	assert.Equal(t, http.StatusOK, recorder.Code)

	// a USER principal is rejected from the admin route
	recorder = env.do(t, http.MethodGet, "/auth/admin/users", nil, bearer(signedUp.Token))
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Equal(t, "insufficient permissions", errorMessage(t, recorder))

	// promote and re-issue; the ADMIN principal passes
	user := env.repo.users[signedUp.User.ID]
	user.Role = types.RoleAdmin
	env.repo.users[user.ID] = user

	adminToken, err := env.codec.Issue(user)
	require.NoError(t, err)

	recorder = env.do(t, http.MethodGet, "/auth/admin/users", nil, bearer(adminToken))
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestAuthorizeFailsClosedWithoutPrincipal(t *testing.T) {
	env := newTestEnv()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gate := NewAccessGate(env.codec, env.service, logger)

	// Authorize invoked without Authenticate ahead of it must reject.
	handler := gate.Authorize(types.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/auth/admin/users", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
