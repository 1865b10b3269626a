package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopworks/auth-system/internal/api/metrics"
	"github.com/shopworks/auth-system/internal/core/domain"
	"github.com/shopworks/auth-system/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	emails      ports.EmailQueue
}

// NewAuthHandler wires the auth endpoints. emails may be nil when no
// notification queue is configured.
func NewAuthHandler(authService ports.AuthService, emails ports.EmailQueue) *AuthHandler {
	return &AuthHandler{authService: authService, emails: emails}
}

type registerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	Token        string `json:"token" validate:"required"`
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type tokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type errorsResponse struct {
	Errors []string `json:"errors"`
}

// Register creates a new user account and returns a token pair.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  tokenResponse
// @Failure      400   {object}  errorsResponse
// @Failure      500   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return c.JSON(http.StatusBadRequest, errorsResponse{Errors: []string{"invalid payload"}})
	}
	if err := c.Validate(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return c.JSON(http.StatusBadRequest, errorsResponse{Errors: []string{err.Error()}})
	}

	res, err := h.authService.Register(c.Request().Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		return err
	}
	if !res.Success {
		metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
		return c.JSON(http.StatusBadRequest, errorsResponse{Errors: res.Errors})
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	h.sendWelcome(req.Email, req.FirstName)

	return c.JSON(http.StatusCreated, tokenResponse{Token: res.Token, RefreshToken: res.RefreshToken})
}

// Login authenticates a user and returns a token pair.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  errorsResponse
// @Failure      401   {object}  errorsResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorsResponse{Errors: []string{"invalid payload"}})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorsResponse{Errors: []string{err.Error()}})
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	if !res.Success {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return c.JSON(http.StatusUnauthorized, errorsResponse{Errors: res.Errors})
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, tokenResponse{Token: res.Token, RefreshToken: res.RefreshToken})
}

// Refresh exchanges a refresh token for a new token pair. The old refresh
// token is consumed; replaying it fails.
//
// @Summary      Refresh tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Current token pair"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  errorsResponse
// @Failure      401   {object}  errorsResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorsResponse{Errors: []string{"invalid payload"}})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorsResponse{Errors: []string{err.Error()}})
	}

	res, err := h.authService.Refresh(c.Request().Context(), req.Token, req.RefreshToken)
	if err != nil {
		return err
	}
	if !res.Success {
		metrics.TokenRefreshesTotal.WithLabelValues("unauthorized").Inc()
		return c.JSON(http.StatusUnauthorized, errorsResponse{Errors: res.Errors})
	}

	metrics.TokenRefreshesTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, tokenResponse{Token: res.Token, RefreshToken: res.RefreshToken})
}

// sendWelcome enqueues the post-registration email. Fire-and-forget: the
// registration response never waits on, or fails with, email delivery.
func (h *AuthHandler) sendWelcome(email, firstName string) {
	if h.emails == nil {
		return
	}
	greeting := firstName
	if greeting == "" {
		greeting = "there"
	}
	h.emails.Enqueue(ports.EmailNotification{
		To:      domain.NormalizeEmail(email),
		Subject: "Welcome to Shopworks",
		Body:    fmt.Sprintf("<p>Hi %s, your account is ready.</p>", greeting),
	})
}
