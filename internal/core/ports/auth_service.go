package ports

import (
	"context"

	"github.com/shopworks/auth-system/internal/core/domain"
)

// AuthService orchestrates registration, login, and refresh-token exchange.
// The error return is reserved for infrastructure failures; every expected
// authentication outcome (conflict, bad credentials, replayed refresh token)
// rides inside the AuthResult.
type AuthService interface {
	Register(ctx context.Context, email, password, firstName, lastName string) (*domain.AuthResult, error)
	Login(ctx context.Context, email, password string) (*domain.AuthResult, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (*domain.AuthResult, error)
}
