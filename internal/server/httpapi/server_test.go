package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doJSON(t *testing.T, handler http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodePair(t *testing.T, rec *httptest.ResponseRecorder) tokenPairResponse {
	t.Helper()
	var pair tokenPairResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))
	return pair
}

func TestRegisterLoginRefreshAndAccessProtectedEndpoint(t *testing.T) {
	env := newTestEnv(t)
	h := env.server.Handler()

	// Register.
	rec := doJSON(t, h, http.MethodPost, "/api/auth/register", map[string]string{
		"email": "user@example.com", "password": "password123", "display_name": "Test User",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	pair := decodePair(t, rec)
	assert.Equal(t, "Bearer", pair.TokenType)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, int64(900), pair.AccessTokenExpiresIn)
	assert.Equal(t, int64(604800), pair.RefreshTokenExpiresIn)

	// Protected route with the access token.
	rec = doJSON(t, h, http.MethodGet, "/api/me", nil, map[string]string{
		"Authorization": "Bearer " + pair.AccessToken,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"email":"user@example.com"}`, rec.Body.String())

	// Refresh rotates the pair.
	rec = doJSON(t, h, http.MethodPost, "/api/auth/refresh", map[string]string{
		"refresh_token": pair.RefreshToken,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rotated := decodePair(t, rec)
	require.NotEmpty(t, rotated.AccessToken)
	require.NotEmpty(t, rotated.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, rotated.AccessToken)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// The rotated access token authenticates as the same identity.
	rec = doJSON(t, h, http.MethodGet, "/api/me", nil, map[string]string{
		"Authorization": "Bearer " + rotated.AccessToken,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"email":"user@example.com"}`, rec.Body.String())
}

func TestRegister_Conflict(t *testing.T) {
	env := newTestEnv(t)
	h := env.server.Handler()

	body := map[string]string{"email": "user@example.com", "password": "password123", "display_name": "U"}

	rec := doJSON(t, h, http.MethodPost, "/api/auth/register", body, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Same identity under case/whitespace variants.
	rec = doJSON(t, h, http.MethodPost, "/api/auth/register", map[string]string{
		"email": "User@Example.com", "password": "password123", "display_name": "U",
	}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegister_Validation(t *testing.T) {
	env := newTestEnv(t)
	h := env.server.Handler()

	tests := []struct {
		name string
		body map[string]string
	}{
		{name: "missing email", body: map[string]string{"password": "password123", "display_name": "U"}},
		{name: "bad email", body: map[string]string{"email": "nope", "password": "password123", "display_name": "U"}},
		{name: "short password", body: map[string]string{"email": "a@b.com", "password": "short", "display_name": "U"}},
		{name: "missing display name", body: map[string]string{"email": "a@b.com", "password": "password123"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPost, "/api/auth/register", tc.body, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	h := env.server.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/auth/register", map[string]string{
		"email": "a@b.com", "password": "password123", "display_name": "A",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	t.Run("correct password", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/auth/login", map[string]string{
			"email": "a@b.com", "password": "password123",
		}, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/auth/login", map[string]string{
			"email": "a@b.com", "password": "wrongpassword",
		}, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown identity gets the same status", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/auth/login", map[string]string{
			"email": "ghost@b.com", "password": "password123",
		}, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRefresh_Unauthorized(t *testing.T) {
	env := newTestEnv(t)
	h := env.server.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/auth/refresh", map[string]string{
		"refresh_token": "not.a.jwt",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMe_RequiresPrincipal(t *testing.T) {
	env := newTestEnv(t)
	h := env.server.Handler()

	rec := doJSON(t, h, http.MethodGet, "/api/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSilentRenewal_EndToEnd(t *testing.T) {
	env := newTestEnv(t)
	h := env.server.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/auth/register", map[string]string{
		"email": "a@b.com", "password": "password123", "display_name": "A",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	pair := decodePair(t, rec)

	t.Run("expired access token with refresh header", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/api/me", nil, map[string]string{
			"Authorization":    "Bearer " + expiredAccessToken(t, "a@b.com"),
			RefreshTokenHeader: pair.RefreshToken,
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"email":"a@b.com"}`, rec.Body.String())

		renewed := rec.Header().Get("Authorization")
		require.True(t, strings.HasPrefix(renewed, "Bearer "), "renewed token must be echoed in the Authorization response header")

		subject, ok := env.tokens.VerifyAccessToken(strings.TrimPrefix(renewed, "Bearer "))
		require.True(t, ok)
		assert.Equal(t, "a@b.com", subject)
	})

	t.Run("absent access token with refresh header", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/api/me", nil, map[string]string{
			RefreshTokenHeader: pair.RefreshToken,
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("Authorization"))
	})

	t.Run("no refresh header proceeds unauthenticated", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/api/me", nil, map[string]string{
			"Authorization": "Bearer " + expiredAccessToken(t, "a@b.com"),
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, rec.Header().Get("Authorization"))
	})
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)

	rec := doJSON(t, env.server.Handler(), http.MethodGet, "/api/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
