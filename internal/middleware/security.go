package middleware

import (
	"github.com/labstack/echo/v4"
)

// SecurityHeaders returns middleware that sets security-related HTTP headers
// on every response.
//
// DevPalette runs behind a TLS-terminating reverse proxy; these headers are
// the application-layer half of that setup.
func SecurityHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()

			// Content-Security-Policy: same-origin resources only.
			// 'unsafe-inline' styles are needed for swatch backgrounds.
			// data: and blob: images cover exported PNGs and profile images.
			h.Set("Content-Security-Policy",
				"default-src 'self'; "+
					"script-src 'self'; "+
					"style-src 'self' 'unsafe-inline'; "+
					"img-src 'self' data: blob:; "+
					"connect-src 'self'; "+
					"frame-ancestors 'none'; "+
					"base-uri 'self'; "+
					"form-action 'self'",
			)

			// Strict-Transport-Security: HTTPS for 1 year including subdomains.
			// TLS terminates at the reverse proxy.
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")

			// X-Content-Type-Options: no MIME sniffing, so a JSON export or a
			// PNG is never reinterpreted as HTML.
			h.Set("X-Content-Type-Options", "nosniff")

			// X-Frame-Options: no framing. Older browsers ignore CSP
			// frame-ancestors.
			h.Set("X-Frame-Options", "DENY")

			// Referrer-Policy: send only the origin to other sites.
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

			// Permissions-Policy: the clipboard is the only browser feature
			// the UI needs (copying color codes).
			h.Set("Permissions-Policy",
				"camera=(), microphone=(), geolocation=(), payment=(), clipboard-write=(self)",
			)

			return next(c)
		}
	}
}
