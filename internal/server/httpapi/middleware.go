package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// RefreshTokenHeader carries the refresh token on requests; it is
	// consulted only when the access token is missing or invalid.
	RefreshTokenHeader = "X-Refresh-Token"

	bearerPrefix = "Bearer "

	principalKey = "authcore.principal"
)

// authnResult is what one authentication pass decides: the principal to
// attach (empty for an unauthenticated request) and a freshly minted
// access token to surface to the client (empty when no renewal happened).
// Keeping this a plain value keeps the pipeline testable without a live
// HTTP context.
type authnResult struct {
	principal    string
	renewedToken string
}

// authenticate runs the per-request authentication pipeline. It never
// fails: requests it cannot authenticate simply carry no principal, and
// the reject decision is left to route-level guards.
func (s *Server) authenticate(ctx context.Context, authHeader, refreshHeader string) authnResult {
	if tok, ok := bearerToken(authHeader); ok {
		if subject, ok := s.tokens.VerifyAccessToken(tok); ok {
			if _, err := s.accounts.FindByEmail(ctx, subject); err == nil {
				return authnResult{principal: subject}
			}
			return authnResult{}
		}
	}

	// Access token absent or invalid: try silent renewal.
	refreshToken := strings.TrimSpace(refreshHeader)
	if refreshToken == "" {
		return authnResult{}
	}

	renewed, ok := s.auth.RegenerateAccessToken(ctx, refreshToken)
	if !ok {
		return authnResult{}
	}

	subject, ok := s.tokens.VerifyAccessToken(renewed)
	if !ok {
		return authnResult{}
	}

	return authnResult{principal: subject, renewedToken: renewed}
}

// authenticator is the per-request gate. It attaches the authenticated
// identity (if any) and, on silent renewal, sets the new access token on
// the response before any handler can start writing the body. It never
// terminates the request itself.
func (s *Server) authenticator() gin.HandlerFunc {
	return func(c *gin.Context) {
		res := s.authenticate(
			c.Request.Context(),
			c.GetHeader("Authorization"),
			c.GetHeader(RefreshTokenHeader),
		)

		if res.renewedToken != "" {
			c.Header("Authorization", bearerPrefix+res.renewedToken)
		}
		if res.principal != "" {
			c.Set(principalKey, res.principal)
		}

		c.Next()
	}
}

// requireAuth guards routes that need an authenticated identity. The
// authenticator never rejects; this is where unauthenticated requests
// are turned away.
func requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := Principal(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
			return
		}
		c.Next()
	}
}

// Principal returns the authenticated identity attached to the request,
// if any.
func Principal(c *gin.Context) (string, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return "", false
	}
	principal, ok := v.(string)
	return principal, ok && principal != ""
}

func bearerToken(value string) (string, bool) {
	if !strings.HasPrefix(value, bearerPrefix) {
		return "", false
	}
	token := value[len(bearerPrefix):]
	if token == "" {
		return "", false
	}
	return token, true
}
