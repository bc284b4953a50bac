package auth

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/devpalette/internal/apperror"
)

// SessionCookieName is the HTTP cookie used to store the session token.
const SessionCookieName = "devpalette_session"

// Handler handles HTTP requests for authentication and account management.
// Handlers are thin: they bind the request, call the service, and write the
// response. No business logic lives here.
type Handler struct {
	service      AuthService
	sessionTTL   time.Duration
	secureCookie bool
}

// NewHandler creates a new auth handler. secureCookie forces the Secure flag
// on the session cookie even when the request itself arrived over plain HTTP
// from a TLS-terminating proxy.
func NewHandler(service AuthService, sessionTTL time.Duration, secureCookie bool) *Handler {
	return &Handler{service: service, sessionTTL: sessionTTL, secureCookie: secureCookie}
}

// bindAndValidate binds the JSON body into req and runs the registered
// validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	return c.Validate(req)
}

// Register creates an account and signs it in (POST /api/v1/auth/register).
func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.service.Register(c.Request().Context(), RegisterInput(req))
	if err != nil {
		return err
	}

	h.setSessionCookie(c, result.Token)
	return c.JSON(http.StatusCreated, result)
}

// Login authenticates with email and password (POST /api/v1/auth/login).
// Accounts with two-factor login get a challenge instead of a session.
func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.service.Login(c.Request().Context(), LoginInput(req))
	if err != nil {
		return err
	}

	if result.Token != "" {
		h.setSessionCookie(c, result.Token)
	}
	return c.JSON(http.StatusOK, result)
}

// LoginTwoFactor completes a challenged login (POST /api/v1/auth/login/2fa).
func (h *Handler) LoginTwoFactor(c echo.Context) error {
	var req TwoFactorLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.service.LoginTwoFactor(c.Request().Context(), req.Challenge, req.Code)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, result.Token)
	return c.JSON(http.StatusOK, result)
}

// Logout destroys the current session (POST /api/v1/auth/logout).
func (h *Handler) Logout(c echo.Context) error {
	if token := getSessionToken(c); token != "" {
		if err := h.service.DestroySession(c.Request().Context(), token); err != nil {
			return err
		}
	}
	clearSessionCookie(c)
	return c.NoContent(http.StatusNoContent)
}

// ForgotPassword emails a reset code (POST /api/v1/auth/forgot-password).
// Always answers 202 so the response does not reveal whether the account
// exists.
func (h *Handler) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.service.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, map[string]string{
		"message": "If an account exists for that email, a reset code is on its way.",
	})
}

// ResetPassword sets a new password with an emailed code
// (POST /api/v1/auth/reset-password).
func (h *Handler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.service.ResetPassword(c.Request().Context(), ResetPasswordInput(req)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// --- Account ---

// GetAccount returns the signed-in user (GET /api/v1/account).
func (h *Handler) GetAccount(c echo.Context) error {
	user, err := h.service.GetAccount(c.Request().Context(), GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateAccount edits name and profile picture (PATCH /api/v1/account).
func (h *Handler) UpdateAccount(c echo.Context) error {
	var req UpdateAccountRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.UpdateAccount(c.Request().Context(), GetUserID(c), UpdateAccountInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteAccount removes the account and its collections (DELETE /api/v1/account).
func (h *Handler) DeleteAccount(c echo.Context) error {
	if err := h.service.DeleteAccount(c.Request().Context(), GetUserID(c)); err != nil {
		return err
	}
	clearSessionCookie(c)
	return c.NoContent(http.StatusNoContent)
}

// SetupTwoFactor starts enabling two-factor login
// (POST /api/v1/account/2fa/setup).
func (h *Handler) SetupTwoFactor(c echo.Context) error {
	setup, err := h.service.BeginTwoFactorSetup(c.Request().Context(), GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, setup)
}

// EnableTwoFactor confirms the pending setup (POST /api/v1/account/2fa/enable).
func (h *Handler) EnableTwoFactor(c echo.Context) error {
	var req TwoFactorCodeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.service.EnableTwoFactor(c.Request().Context(), GetUserID(c), req.Code); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DisableTwoFactor turns two-factor login off (DELETE /api/v1/account/2fa).
func (h *Handler) DisableTwoFactor(c echo.Context) error {
	if err := h.service.DisableTwoFactor(c.Request().Context(), GetUserID(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// --- Cookie helpers ---

// setSessionCookie sets the session cookie on the response. The cookie is
// HttpOnly (JS can't read it), Secure behind TLS, and SameSite=Lax.
func (h *Handler) setSessionCookie(c echo.Context, token string) {
	req := c.Request()
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie || req.TLS != nil || req.Header.Get("X-Forwarded-Proto") == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.sessionTTL.Seconds()),
	})
}

// clearSessionCookie removes the session cookie by setting MaxAge to -1.
func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
