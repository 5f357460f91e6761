package auth

import (
	"github.com/stockflowhq/stockflow-backend/internal/profiles"
)

// LoginRequest carries raw credentials from the login form.
type LoginRequest struct {
	Username string
	Password string
}

// LoginResponse returns the minted token pair plus the profile.
type LoginResponse struct {
	AccessToken  string              `json:"access_token"`
	RefreshToken string              `json:"refresh_token"`
	Profile      profiles.ProfileDTO `json:"profile"`
}

// TokenPair is returned by a refresh rotation.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
