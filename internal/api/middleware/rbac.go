package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopworks/auth-system/internal/core/domain"
)

// Capabilities guardable at the route boundary. Authorization is an explicit
// role → capability table rather than per-route role lists, so a route names
// what it needs and the table decides who has it.
const (
	CapabilityManageUsers   = "users:manage"
	CapabilityManageCatalog = "catalog:manage"
	CapabilityPlaceOrders   = "orders:place"
)

var rolePermissions = map[string][]string{
	domain.RoleAdmin: {
		CapabilityManageUsers,
		CapabilityManageCatalog,
		CapabilityPlaceOrders,
	},
	domain.RoleCustomer: {
		CapabilityPlaceOrders,
	},
}

// RequireCapability rejects requests whose token roles do not grant the
// capability. Must run after Auth.
func RequireCapability(capability string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			roles, _ := c.Get(CtxRoles).([]string)
			for _, role := range roles {
				for _, granted := range rolePermissions[role] {
					if granted == capability {
						return next(c)
					}
				}
			}
			return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
		}
	}
}
