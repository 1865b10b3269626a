package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/shopworks/auth-system/internal/core/domain"
)

func capabilityContext(roles []string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(CtxRoles, roles)
	return c, rec
}

func TestRequireCapability_AdminManagesUsers(t *testing.T) {
	c, rec := capabilityContext([]string{domain.RoleAdmin})

	called := false
	handler := RequireCapability(CapabilityManageUsers)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireCapability_CustomerForbidden(t *testing.T) {
	c, rec := capabilityContext([]string{domain.RoleCustomer})

	handler := RequireCapability(CapabilityManageUsers)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRequireCapability_CustomerPlacesOrders(t *testing.T) {
	c, rec := capabilityContext([]string{domain.RoleCustomer})

	handler := RequireCapability(CapabilityPlaceOrders)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireCapability_NoRoles(t *testing.T) {
	c, rec := capabilityContext(nil)

	handler := RequireCapability(CapabilityPlaceOrders)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRequireCapability_UnknownRole(t *testing.T) {
	c, rec := capabilityContext([]string{"Auditor"})

	handler := RequireCapability(CapabilityPlaceOrders)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
