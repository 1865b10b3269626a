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
)

// Seeder establishes the initial trust state at process start: the required
// role set and a single administrative account. It runs before the service
// accepts traffic and is safe to run on every start.
type Seeder struct {
	store         ports.CredentialStore
	adminEmail    string
	adminPassword string
	log           zerolog.Logger
}

func NewSeeder(store ports.CredentialStore, adminEmail, adminPassword string, log zerolog.Logger) *Seeder {
	return &Seeder{
		store:         store,
		adminEmail:    domain.NormalizeEmail(adminEmail),
		adminPassword: adminPassword,
		log:           log,
	}
}

// Seed creates each required role only if absent, then the admin account only
// if absent. An existing admin is never touched: repeated runs must not reset
// its password or roles.
func (s *Seeder) Seed(ctx context.Context) error {
	for _, role := range domain.RequiredRoles {
		exists, err := s.store.RoleExists(ctx, role)
		if err != nil {
			return fmt.Errorf("seed: check role %q: %w", role, err)
		}
		if exists {
			continue
		}
		if err := s.store.CreateRole(ctx, role); err != nil {
			return fmt.Errorf("seed: create role %q: %w", role, err)
		}
		s.log.Info().Str("role", role).Msg("role created")
	}

	_, err := s.store.FindByEmail(ctx, s.adminEmail)
	if err == nil {
		s.log.Debug().Msg("admin account already present")
		return nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("seed: find admin: %w", err)
	}

	now := time.Now().UTC()
	admin := &domain.User{
		ID:             uuid.NewString(),
		Email:          s.adminEmail,
		EmailConfirmed: true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := s.store.CreateUser(ctx, admin, s.adminPassword)
	if errors.Is(err, domain.ErrUserExists) {
		// Another instance won the race; its admin is as good as ours.
		return nil
	}
	if err != nil {
		return fmt.Errorf("seed: create admin: %w", err)
	}

	if err := s.store.AddRole(ctx, created, domain.RoleAdmin); err != nil {
		return fmt.Errorf("seed: grant admin role: %w", err)
	}

	s.log.Info().Str("user_id", created.ID).Msg("admin account created")
	return nil
}
