package domain

import "errors"

var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrRefreshTokenInvalid = errors.New("refresh token invalid")

// User-facing failure messages carried inside AuthResult. Login failures are
// deliberately generic so callers cannot probe which emails are registered.
const (
	MsgUserExists         = "User already exists"
	MsgInvalidCredentials = "Invalid credentials"
	MsgUnauthorized       = "Unauthorized"
)

// AuthResult is the outcome of Register, Login, or Refresh. Exactly one of
// {Success with both tokens, failure with at least one error} holds.
type AuthResult struct {
	Success      bool     `json:"success"`
	Token        string   `json:"token,omitempty"`
	RefreshToken string   `json:"refreshToken,omitempty"`
	Errors       []string `json:"errors,omitempty"`
}

// AuthSuccess builds a successful result carrying a token pair.
func AuthSuccess(token, refreshToken string) *AuthResult {
	return &AuthResult{Success: true, Token: token, RefreshToken: refreshToken}
}

// AuthFailure builds a failed result carrying human-readable error messages.
func AuthFailure(msgs ...string) *AuthResult {
	if len(msgs) == 0 {
		msgs = []string{"authentication failed"}
	}
	return &AuthResult{Errors: msgs}
}
