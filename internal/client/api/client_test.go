package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoronkov/authcore/internal/common"
)

func newStubServer(t *testing.T) *httptest.Server {
	t.Helper()

	pair := TokenPair{
		TokenType:             "Bearer",
		AccessToken:           "access-token",
		AccessTokenExpiresIn:  900,
		RefreshToken:          "refresh-token",
		RefreshTokenExpiresIn: 604800,
	}

	mux := http.NewServeMux()

	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}

	mux.HandleFunc("POST /api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["email"] == "taken@example.com" {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "account already exists"})
			return
		}
		writeJSON(w, http.StatusOK, pair)
	})

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "password123" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, pair)
	})

	mux.HandleFunc("POST /api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["refresh_token"] != "refresh-token" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid refresh token"})
			return
		}
		writeJSON(w, http.StatusOK, pair)
	})

	mux.HandleFunc("GET /api/me", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Header.Get("Authorization") == "Bearer access-token":
			writeJSON(w, http.StatusOK, map[string]string{"email": "a@b.com"})
		case r.Header.Get(RefreshTokenHeader) == "refresh-token":
			w.Header().Set("Authorization", "Bearer renewed-token")
			writeJSON(w, http.StatusOK, map[string]string{"email": "a@b.com"})
		default:
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		}
	})

	mux.HandleFunc("GET /api/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	return NewClient(newStubServer(t).URL, 5*time.Second)
}

func TestRegister(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		pair, err := c.Register(ctx, "a@b.com", []byte("password123"), "A")
		require.NoError(t, err)
		assert.Equal(t, "access-token", pair.AccessToken)
		assert.Equal(t, "refresh-token", pair.RefreshToken)
	})

	t.Run("conflict", func(t *testing.T) {
		_, err := c.Register(ctx, "taken@example.com", []byte("password123"), "A")
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrAlreadyExists)
		assert.Contains(t, err.Error(), "account already exists")
	})
}

func TestLogin(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		pair, err := c.Login(ctx, "a@b.com", []byte("password123"))
		require.NoError(t, err)
		assert.Equal(t, "Bearer", pair.TokenType)
		assert.Equal(t, int64(900), pair.AccessTokenExpiresIn)
	})

	t.Run("bad credentials", func(t *testing.T) {
		_, err := c.Login(ctx, "a@b.com", []byte("wrong"))
		assert.ErrorIs(t, err, common.ErrUnauthorized)
	})
}

func TestRefresh(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		pair, err := c.Refresh(ctx, "refresh-token")
		require.NoError(t, err)
		assert.Equal(t, "access-token", pair.AccessToken)
	})

	t.Run("rejected", func(t *testing.T) {
		_, err := c.Refresh(ctx, "garbage")
		assert.ErrorIs(t, err, common.ErrUnauthorized)
	})
}

func TestMe(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	t.Run("with access token", func(t *testing.T) {
		email, renewed, err := c.Me(ctx, "access-token", "")
		require.NoError(t, err)
		assert.Equal(t, "a@b.com", email)
		assert.Empty(t, renewed)
	})

	t.Run("silent renewal surfaces new token", func(t *testing.T) {
		email, renewed, err := c.Me(ctx, "", "refresh-token")
		require.NoError(t, err)
		assert.Equal(t, "a@b.com", email)
		assert.Equal(t, "renewed-token", renewed)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		_, _, err := c.Me(ctx, "", "")
		assert.ErrorIs(t, err, common.ErrUnauthorized)
	})
}

func TestPing(t *testing.T) {
	c := newTestClient(t)
	assert.NoError(t, c.Ping(context.Background()))
}
