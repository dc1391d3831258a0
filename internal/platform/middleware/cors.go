package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// CORSConfig controls cross-origin access. AllowOrigins is an exact-match
// allow list. WildcardDomain, when set, additionally admits any https origin
// whose host is the domain itself or a subdomain of it.
type CORSConfig struct {
	AllowOrigins   []string
	WildcardDomain string
}

const (
	corsAllowMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	corsAllowHeaders = "Authorization, Content-Type, X-Request-ID"
)

// CORS returns middleware enforcing the configured origin allow list.
// Requests without an Origin header (same-origin, curl, server-to-server)
// pass through untouched. Browser requests from a disallowed origin are
// rejected with 403 rather than answered without CORS headers, so the
// failure is visible in the network log instead of surfacing as an opaque
// browser error.
func CORS(cfg CORSConfig) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(cfg.AllowOrigins))
	for _, o := range cfg.AllowOrigins {
		allowed[strings.TrimSuffix(o, "/")] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			origin := c.Request().Header.Get(echo.HeaderOrigin)
			if origin == "" {
				return next(c)
			}

			if !originAllowed(origin, allowed, cfg.WildcardDomain) {
				return echo.NewHTTPError(http.StatusForbidden, "origin not allowed")
			}

			h := c.Response().Header()
			h.Set(echo.HeaderAccessControlAllowOrigin, origin)
			h.Set(echo.HeaderVary, echo.HeaderOrigin)
			h.Set(echo.HeaderAccessControlAllowMethods, corsAllowMethods)
			h.Set(echo.HeaderAccessControlAllowHeaders, corsAllowHeaders)

			if c.Request().Method == http.MethodOptions {
				return c.NoContent(http.StatusNoContent)
			}
			return next(c)
		}
	}
}

func originAllowed(origin string, allowed map[string]bool, wildcardDomain string) bool {
	origin = strings.TrimSuffix(origin, "/")
	if allowed[origin] {
		return true
	}
	if wildcardDomain == "" {
		return false
	}
	host, ok := strings.CutPrefix(origin, "https://")
	if !ok {
		return false
	}
	return host == wildcardDomain || strings.HasSuffix(host, "."+wildcardDomain)
}
