package httpapi

import "github.com/avoronkov/authcore/internal/server/services"

// Request bodies use gin's binding validation; password length mirrors the
// registration policy enforced at the edge, not in the services.
type registerRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type tokenPairResponse struct {
	TokenType             string `json:"token_type"`
	AccessToken           string `json:"access_token"`
	AccessTokenExpiresIn  int64  `json:"access_token_expires_in"`
	RefreshToken          string `json:"refresh_token"`
	RefreshTokenExpiresIn int64  `json:"refresh_token_expires_in"`
}

type meResponse struct {
	Email string `json:"email"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func newTokenPairResponse(pair *services.TokenPair) tokenPairResponse {
	return tokenPairResponse{
		TokenType:             pair.TokenType,
		AccessToken:           pair.AccessToken,
		AccessTokenExpiresIn:  pair.AccessTokenExpiresIn,
		RefreshToken:          pair.RefreshToken,
		RefreshTokenExpiresIn: pair.RefreshTokenExpiresIn,
	}
}
