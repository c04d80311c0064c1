package auth

import (
	"github.com/labstack/echo/v4"
)

// publicPaths lists URL paths that should bypass authentication. These are
// the patient-facing pages and infrastructure endpoints that must remain
// accessible without credentials.
var publicPaths = map[string]bool{
	"/":                             true,
	"/health":                       true,
	"/health/db":                    true,
	"/login":                        true,
	"/logout":                       true,
	"/patient-registration":         true,
	"/registration-success":         true,
	"/dashboard/patient":            true,
	"/api/opd-queue":                true,
	"/api/queue-status-by-token":    true,
	"/api/all-beds":                 true,
	"/api/dashboard/summary-public": true,
}

// AuthSkipper returns true for requests whose path should skip authentication.
func AuthSkipper(c echo.Context) bool {
	return IsPublicPath(c.Path())
}

// IsPublicPath reports whether the given path is accessible without
// credentials.
func IsPublicPath(path string) bool {
	return publicPaths[path]
}
