// Package api implements the HTTP client for the authcore server. It
// mirrors the server's JSON contract and maps HTTP statuses back to the
// shared sentinel errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avoronkov/authcore/internal/common"
)

// RefreshTokenHeader carries the refresh token on authenticated requests
// so the server can renew an expired access token silently.
const RefreshTokenHeader = "X-Refresh-Token"

const bearerPrefix = "Bearer "

// TokenPair is the token bundle returned by register, login and refresh.
type TokenPair struct {
	TokenType             string `json:"token_type"`
	AccessToken           string `json:"access_token"`
	AccessTokenExpiresIn  int64  `json:"access_token_expires_in"`
	RefreshToken          string `json:"refresh_token"`
	RefreshTokenExpiresIn int64  `json:"refresh_token_expires_in"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Client talks to the authcore HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Register creates an account and returns its first token pair.
func (c *Client) Register(ctx context.Context, email string, password []byte, displayName string) (*TokenPair, error) {
	body := map[string]string{
		"email":        email,
		"password":     string(password),
		"display_name": displayName,
	}
	return c.postForPair(ctx, "/api/auth/register", body)
}

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, email string, password []byte) (*TokenPair, error) {
	body := map[string]string{
		"email":    email,
		"password": string(password),
	}
	return c.postForPair(ctx, "/api/auth/login", body)
}

// Refresh rotates the pair using a refresh token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	body := map[string]string{"refresh_token": refreshToken}
	return c.postForPair(ctx, "/api/auth/refresh", body)
}

// Me returns the authenticated email. The refresh token is passed along
// so the server can renew an expired access token; when that happens the
// renewed access token is returned too and the caller should store it.
func (c *Client) Me(ctx context.Context, accessToken, refreshToken string) (email, renewedAccess string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/me", nil)
	if err != nil {
		return "", "", err
	}
	if accessToken != "" {
		req.Header.Set("Authorization", bearerPrefix+accessToken)
	}
	if refreshToken != "" {
		req.Header.Set(RefreshTokenHeader, refreshToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", c.apiError(resp)
	}

	var me struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&me); err != nil {
		return "", "", fmt.Errorf("decode error: %w", err)
	}

	if auth := resp.Header.Get("Authorization"); strings.HasPrefix(auth, bearerPrefix) {
		renewedAccess = strings.TrimPrefix(auth, bearerPrefix)
	}

	return me.Email, renewedAccess, nil
}

// Ping checks server reachability via the health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/healthz", nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) postForPair(ctx context.Context, path string, body map[string]string) (*TokenPair, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.apiError(resp)
	}

	var pair TokenPair
	if err := json.NewDecoder(resp.Body).Decode(&pair); err != nil {
		return nil, fmt.Errorf("decode error: %w", err)
	}

	return &pair, nil
}

// apiError maps an error response to a sentinel where the status has a
// well-known meaning and wraps the server message otherwise.
func (c *Client) apiError(resp *http.Response) error {
	var er errorResponse
	_ = json.NewDecoder(resp.Body).Decode(&er)
	msg := er.Error
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", common.ErrAlreadyExists, msg)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", common.ErrUnauthorized, msg)
	default:
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, msg)
	}
}
