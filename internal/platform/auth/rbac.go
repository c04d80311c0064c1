package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Staff roles recognized by the front desk application.
const (
	RoleAdmin        = "admin"
	RoleDoctor       = "doctor"
	RoleReceptionist = "receptionist"
)

var staffRoles = map[string]bool{
	RoleAdmin:        true,
	RoleDoctor:       true,
	RoleReceptionist: true,
}

// IsStaffRole reports whether the given role name is a recognized staff role.
// Matching is case-insensitive.
func IsStaffRole(role string) bool {
	return staffRoles[strings.ToLower(strings.TrimSpace(role))]
}

// HasStaffRole reports whether any of the given roles is a staff role.
func HasStaffRole(roles []string) bool {
	for _, r := range roles {
		if IsStaffRole(r) {
			return true
		}
	}
	return false
}

// RequireStaff returns middleware that rejects requests from callers without
// a staff role. API requests get a 401 JSON error; browser page requests are
// redirected to the login page instead.
func RequireStaff() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			roles := RolesFromContext(c.Request().Context())
			if HasStaffRole(roles) {
				return next(c)
			}
			if wantsJSON(c) {
				return echo.NewHTTPError(http.StatusUnauthorized, "staff access required")
			}
			return c.Redirect(http.StatusFound, "/login")
		}
	}
}

// RequireRole returns middleware that checks if the user has at least one of
// the specified roles. Admins pass every role check.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userRoles := RolesFromContext(c.Request().Context())
			for _, required := range roles {
				for _, has := range userRoles {
					if has == required || has == RoleAdmin {
						return next(c)
					}
				}
			}
			return echo.NewHTTPError(http.StatusForbidden,
				fmt.Sprintf("required role: %s", strings.Join(roles, " or ")))
		}
	}
}

// wantsJSON reports whether the request expects a JSON response rather than
// an HTML page. API-prefixed paths and JSON Accept headers both qualify.
func wantsJSON(c echo.Context) bool {
	if strings.HasPrefix(c.Request().URL.Path, "/api/") {
		return true
	}
	accept := c.Request().Header.Get("Accept")
	return strings.Contains(accept, "application/json")
}
