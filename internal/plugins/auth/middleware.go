package auth

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/devpalette/internal/apperror"
	"github.com/keyxmakerx/devpalette/internal/middleware"
)

// contextKeySession is where the validated session is stored in the Echo
// context. The user ID goes under middleware.UserIDContextKey so request
// logging can include it.
const contextKeySession = "auth_session"

// RequireAuth returns middleware that validates the session token from the
// session cookie or an Authorization: Bearer header and injects the session
// into the request context. Missing or invalid sessions get a 401.
func RequireAuth(service AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := getSessionToken(c)
			if token == "" {
				return apperror.NewUnauthorized("authentication required")
			}

			session, err := service.ValidateSession(c.Request().Context(), token)
			if err != nil {
				if _, cookieErr := c.Cookie(SessionCookieName); cookieErr == nil {
					clearSessionCookie(c)
				}
				return err
			}

			setSession(c, session)
			return next(c)
		}
	}
}

// OptionalAuth loads the session when one is present but never rejects the
// request. Used on HTML pages that greet signed-in users.
func OptionalAuth(service AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token := getSessionToken(c); token != "" {
				if session, err := service.ValidateSession(c.Request().Context(), token); err == nil {
					setSession(c, session)
				}
			}
			return next(c)
		}
	}
}

func setSession(c echo.Context, session *Session) {
	c.Set(contextKeySession, session)
	c.Set(middleware.UserIDContextKey, session.UserID)
}

// --- Exported getters for other plugins ---

// GetSession retrieves the authenticated session from the Echo context.
// Returns nil if the request is not authenticated (middleware not applied).
func GetSession(c echo.Context) *Session {
	session, ok := c.Get(contextKeySession).(*Session)
	if !ok {
		return nil
	}
	return session
}

// GetUserID retrieves the authenticated user's ID from the Echo context.
// Returns empty string if the request is not authenticated.
func GetUserID(c echo.Context) string {
	id, ok := c.Get(middleware.UserIDContextKey).(string)
	if !ok {
		return ""
	}
	return id
}

// getSessionToken prefers the Authorization header over the cookie so API
// clients are never affected by a stale browser cookie.
func getSessionToken(c echo.Context) string {
	if h := c.Request().Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := c.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}
