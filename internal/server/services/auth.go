package services

import (
	"context"
	"errors"

	"github.com/avoronkov/authcore/internal/common"
	"github.com/avoronkov/authcore/internal/server/token"
)

// TokenPair is the issuance response sent to clients: both tokens plus
// their lifetimes in whole seconds, so clients know when to refresh
// pre-emptively.
type TokenPair struct {
	TokenType             string
	AccessToken           string
	AccessTokenExpiresIn  int64
	RefreshToken          string
	RefreshTokenExpiresIn int64
}

// AuthService composes the account service and the token manager into the
// register/login/refresh flows. It holds no state of its own; a register
// that succeeds but fails to mint leaves the account persisted
// (at-least-once creation, no cross-component transaction).
type AuthService struct {
	accounts *AccountService
	tokens   *token.Manager
}

func NewAuthService(accounts *AccountService, tokens *token.Manager) *AuthService {
	return &AuthService{accounts: accounts, tokens: tokens}
}

// Register creates an account and issues a fresh token pair for it.
func (s *AuthService) Register(ctx context.Context, email, password, displayName string) (*TokenPair, error) {
	account, err := s.accounts.Register(ctx, email, password, displayName)
	if err != nil {
		return nil, err
	}
	return s.issuePair(account.Email)
}

// Login authenticates the credentials and issues a fresh token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	account, err := s.accounts.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.issuePair(account.Email)
}

// Refresh verifies the refresh token and issues a new access and refresh
// pair for its subject (rotation, not reuse). Invalid, expired, or
// wrong-kind tokens, and subjects that no longer resolve to an account,
// all yield common.ErrUnauthorized.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	subject, ok := s.tokens.VerifyRefreshToken(refreshToken)
	if !ok {
		return nil, common.ErrUnauthorized
	}

	// The account may have disappeared since the token was issued.
	if _, err := s.accounts.FindByEmail(ctx, subject); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, common.ErrInternal
	}

	return s.issuePair(subject)
}

// RegenerateAccessToken is the narrow silent-renew path used by the
// request authenticator: it mints a single new access token from a valid
// refresh token without rotating the refresh token. It never returns an
// error; any failure yields ok == false because this path runs inline in
// request processing and must not abort the request.
func (s *AuthService) RegenerateAccessToken(ctx context.Context, refreshToken string) (string, bool) {
	subject, ok := s.tokens.VerifyRefreshToken(refreshToken)
	if !ok {
		return "", false
	}
	if _, err := s.accounts.FindByEmail(ctx, subject); err != nil {
		return "", false
	}

	accessToken, err := s.tokens.NewAccessToken(subject)
	if err != nil {
		return "", false
	}

	return accessToken, true
}

func (s *AuthService) issuePair(subject string) (*TokenPair, error) {
	accessToken, err := s.tokens.NewAccessToken(subject)
	if err != nil {
		return nil, common.ErrInternal
	}
	refreshToken, err := s.tokens.NewRefreshToken(subject)
	if err != nil {
		return nil, common.ErrInternal
	}

	return &TokenPair{
		TokenType:             "Bearer",
		AccessToken:           accessToken,
		AccessTokenExpiresIn:  int64(s.tokens.AccessTokenTTL().Seconds()),
		RefreshToken:          refreshToken,
		RefreshTokenExpiresIn: int64(s.tokens.RefreshTokenTTL().Seconds()),
	}, nil
}
