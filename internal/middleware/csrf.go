package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/devpalette/internal/apperror"
)

// csrfTokenLength is the number of random bytes in a CSRF token (32 bytes = 64 hex chars).
const csrfTokenLength = 32

// csrfCookieName is the name of the cookie that stores the CSRF token.
const csrfCookieName = "devpalette_csrf"

// csrfHeaderName is the header the front end echoes the cookie value in.
const csrfHeaderName = "X-CSRF-Token"

// CSRF returns middleware implementing the double-submit cookie pattern for
// requests authenticated by the session cookie named sessionCookie.
//
//  1. Every response without a CSRF cookie gets one (readable by JS).
//  2. A mutating request that carries the session cookie must echo the CSRF
//     cookie value in the X-CSRF-Token header, or it is rejected with 403.
//
// Requests authenticated with an Authorization: Bearer header, and requests
// with no session cookie at all, have no ambient credential to forge and
// pass through.
func CSRF(sessionCookie string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			cookieToken := ""
			if cookie, err := req.Cookie(csrfCookieName); err == nil && cookie.Value != "" {
				cookieToken = cookie.Value
			} else {
				token, genErr := generateCSRFToken()
				if genErr != nil {
					return apperror.NewInternal(genErr)
				}
				c.SetCookie(&http.Cookie{
					Name:     csrfCookieName,
					Value:    token,
					Path:     "/",
					HttpOnly: false, // Must be readable by JS to echo it back.
					Secure:   req.TLS != nil || req.Header.Get("X-Forwarded-Proto") == "https",
					SameSite: http.SameSiteLaxMode,
				})
			}

			if isSafeMethod(req.Method) || strings.HasPrefix(req.Header.Get("Authorization"), "Bearer ") {
				return next(c)
			}
			if _, err := req.Cookie(sessionCookie); err != nil {
				return next(c)
			}

			submitted := req.Header.Get(csrfHeaderName)
			if submitted == "" || cookieToken == "" ||
				subtle.ConstantTimeCompare([]byte(submitted), []byte(cookieToken)) != 1 {
				return apperror.NewForbidden("invalid or missing CSRF token")
			}

			return next(c)
		}
	}
}

// isSafeMethod returns true for HTTP methods that should not change state.
func isSafeMethod(method string) bool {
	return method == http.MethodGet ||
		method == http.MethodHead ||
		method == http.MethodOptions
}

// generateCSRFToken generates a cryptographically random hex-encoded token.
func generateCSRFToken() (string, error) {
	b := make([]byte, csrfTokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
