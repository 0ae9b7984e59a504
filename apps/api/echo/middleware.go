package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/trezcool/proctor/core/user"
)

// roleMiddleware lets through the sessions holding one of roles.
func roleMiddleware(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			sess, ok := contextSession(ctx)
			if !ok {
				return fail(errUnauthenticated)
			}
			role := user.Roles.Normalize(sess.User.Role)
			for _, r := range roles {
				if role == r {
					return next(ctx)
				}
			}
			return fail(errForbidden)
		}
	}
}

func adminMiddleware() echo.MiddlewareFunc {
	return roleMiddleware(user.RoleAdmin)
}
