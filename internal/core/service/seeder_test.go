package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopworks/auth-system/internal/core/domain"
)

func TestSeeder_CreatesRolesAndAdmin(t *testing.T) {
	store := newFakeStore()
	seeder := NewSeeder(store, "admin@ecommerce.com", "Admin@123", zerolog.Nop())

	if err := seeder.Seed(context.Background()); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	for _, role := range domain.RequiredRoles {
		exists, err := store.RoleExists(context.Background(), role)
		if err != nil {
			t.Fatalf("RoleExists: %v", err)
		}
		if !exists {
			t.Fatalf("expected role %q to exist", role)
		}
	}

	admin, err := store.FindByEmail(context.Background(), "admin@ecommerce.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if !admin.EmailConfirmed {
		t.Fatalf("expected admin email to be pre-confirmed")
	}
	roles, err := store.RolesOf(context.Background(), admin)
	if err != nil {
		t.Fatalf("RolesOf: %v", err)
	}
	if len(roles) != 1 || roles[0] != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %v", roles)
	}
	if !store.VerifyPassword(admin, "Admin@123") {
		t.Fatalf("admin password does not verify")
	}
}

func TestSeeder_Idempotent(t *testing.T) {
	store := newFakeStore()
	seeder := NewSeeder(store, "admin@ecommerce.com", "Admin@123", zerolog.Nop())

	if err := seeder.Seed(context.Background()); err != nil {
		t.Fatalf("first Seed: %v", err)
	}
	if err := seeder.Seed(context.Background()); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	if len(store.users) != 1 {
		t.Fatalf("expected exactly one admin user, got %d", len(store.users))
	}
	if len(store.roles) != len(domain.RequiredRoles) {
		t.Fatalf("expected %d roles, got %d", len(domain.RequiredRoles), len(store.roles))
	}
}

func TestSeeder_NeverOverwritesExistingAdmin(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()

	now := time.Now().UTC()
	existing := &domain.User{ID: "admin-0", Email: "admin@ecommerce.com", CreatedAt: now, UpdatedAt: now}
	created, err := store.CreateUser(ctx, existing, "OriginalPass1")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := store.AddRole(ctx, created, domain.RoleCustomer); err != nil {
		t.Fatalf("AddRole: %v", err)
	}

	seeder := NewSeeder(store, "admin@ecommerce.com", "Admin@123", zerolog.Nop())
	if err := seeder.Seed(ctx); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	admin, err := store.FindByEmail(ctx, "admin@ecommerce.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if !store.VerifyPassword(admin, "OriginalPass1") {
		t.Fatalf("existing admin password was overwritten")
	}
	roles, err := store.RolesOf(ctx, admin)
	if err != nil {
		t.Fatalf("RolesOf: %v", err)
	}
	if len(roles) != 1 || roles[0] != domain.RoleCustomer {
		t.Fatalf("existing admin roles were modified: %v", roles)
	}
}
