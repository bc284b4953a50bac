package auth

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/devpalette/internal/middleware"
)

// RegisterRoutes sets up auth and account routes under the given API group.
//
// POST endpoints that take credentials are rate-limited per IP to slow down
// brute-force and credential stuffing: 10 per minute for login and the
// two-factor step, 5 for register and the password reset pair.
func RegisterRoutes(api *echo.Group, h *Handler, service AuthService) {
	a := api.Group("/auth")
	a.POST("/register", h.Register, middleware.RateLimit(5, time.Minute))
	a.POST("/login", h.Login, middleware.RateLimit(10, time.Minute))
	a.POST("/login/2fa", h.LoginTwoFactor, middleware.RateLimit(10, time.Minute))
	a.POST("/logout", h.Logout)
	a.POST("/forgot-password", h.ForgotPassword, middleware.RateLimit(5, time.Minute))
	a.POST("/reset-password", h.ResetPassword, middleware.RateLimit(5, time.Minute))

	acct := api.Group("/account", RequireAuth(service))
	acct.GET("", h.GetAccount)
	acct.PATCH("", h.UpdateAccount)
	acct.DELETE("", h.DeleteAccount)
	acct.POST("/2fa/setup", h.SetupTwoFactor)
	acct.POST("/2fa/enable", h.EnableTwoFactor)
	acct.DELETE("/2fa", h.DisableTwoFactor)
}
