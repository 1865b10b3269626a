package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shopworks/auth-system/internal/core/domain"
	"github.com/shopworks/auth-system/internal/core/ports"
	"github.com/shopworks/auth-system/internal/core/token"
)

const defaultRefreshTTL = 7 * 24 * time.Hour

// AuthService implements registration, login, and refresh-token rotation.
type AuthService struct {
	store       ports.CredentialStore
	tokens      ports.RefreshTokenStore
	signer      *token.Signer
	defaultRole string
	refreshTTL  time.Duration
	log         zerolog.Logger
}

func NewAuthService(
	store ports.CredentialStore,
	tokens ports.RefreshTokenStore,
	signer *token.Signer,
	defaultRole string,
	refreshTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if defaultRole == "" {
		defaultRole = domain.RoleCustomer
	}
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}
	return &AuthService{
		store:       store,
		tokens:      tokens,
		signer:      signer,
		defaultRole: defaultRole,
		refreshTTL:  refreshTTL,
		log:         log,
	}
}

// Register creates a user under the deployment's default role and issues a
// token pair. The existence pre-check is an optimization only: the store's
// uniqueness constraint is the authoritative guard, so a lost race still
// surfaces as a conflict failure.
func (s *AuthService) Register(ctx context.Context, email, password, firstName, lastName string) (*domain.AuthResult, error) {
	email = domain.NormalizeEmail(email)

	existing, err := s.store.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}
	if existing != nil {
		return domain.AuthFailure(domain.MsgUserExists), nil
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:        uuid.NewString(),
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.store.CreateUser(ctx, user, password)
	if errors.Is(err, domain.ErrUserExists) {
		return domain.AuthFailure(domain.MsgUserExists), nil
	}
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	if err := s.store.AddRole(ctx, created, s.defaultRole); err != nil {
		return nil, fmt.Errorf("register: assign default role: %w", err)
	}

	s.log.Info().Str("user_id", created.ID).Msg("user registered")
	return s.issuePair(ctx, created)
}

// Login verifies credentials and issues a fresh token pair. Unknown email
// and wrong password produce the same generic failure so the endpoint cannot
// be used to enumerate accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	user, err := s.store.FindByEmail(ctx, domain.NormalizeEmail(email))
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.AuthFailure(domain.MsgInvalidCredentials), nil
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.store.VerifyPassword(user, password) {
		return domain.AuthFailure(domain.MsgInvalidCredentials), nil
	}

	return s.issuePair(ctx, user)
}

// Refresh exchanges a refresh token for a new token pair, consuming the old
// refresh token in the same step. The access token may be expired; its
// signature must still verify to prove which user the refresh token was
// issued to. Rotation is atomic in the store, so a replayed or concurrently
// spent token fails here.
func (s *AuthService) Refresh(ctx context.Context, accessToken, refreshToken string) (*domain.AuthResult, error) {
	claims, err := s.signer.Identity(accessToken)
	if err != nil {
		return domain.AuthFailure(domain.MsgUnauthorized), nil
	}

	next, err := token.NewRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}

	if err := s.tokens.Rotate(ctx, refreshToken, next, claims.Subject, s.refreshTTL); err != nil {
		if errors.Is(err, domain.ErrRefreshTokenInvalid) {
			return domain.AuthFailure(domain.MsgUnauthorized), nil
		}
		return nil, fmt.Errorf("refresh: %w", err)
	}

	user, err := s.store.FindByEmail(ctx, claims.Email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.AuthFailure(domain.MsgUnauthorized), nil
	}
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}
	if user.ID != claims.Subject {
		return domain.AuthFailure(domain.MsgUnauthorized), nil
	}

	roles, err := s.store.RolesOf(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}

	access, err := s.signer.Issue(user, roles)
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}

	s.log.Debug().Str("user_id", user.ID).Msg("refresh token rotated")
	return domain.AuthSuccess(access, next), nil
}

// issuePair signs an access token over the user's current roles, generates a
// refresh token, and persists it.
func (s *AuthService) issuePair(ctx context.Context, user *domain.User) (*domain.AuthResult, error) {
	roles, err := s.store.RolesOf(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}

	access, err := s.signer.Issue(user, roles)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}

	refresh, err := token.NewRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}

	if err := s.tokens.Save(ctx, refresh, user.ID, s.refreshTTL); err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}

	return domain.AuthSuccess(access, refresh), nil
}
