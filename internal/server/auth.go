package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware creates an Echo middleware that validates the shared
// proxy secret. Auth passes only when the configured secret is non-empty
// and the Authorization header equals "Bearer <secret>" exactly; an empty
// secret rejects all traffic. Paths in skipPaths bypass the check.
func AuthMiddleware(secretKey string, skipPaths []string) echo.MiddlewareFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := skip[c.Request().URL.Path]; ok {
				return next(c)
			}

			authHeader := c.Request().Header.Get("Authorization")
			if secretKey == "" || authHeader != "Bearer "+secretKey {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"error": "unauthorized",
				})
			}

			return next(c)
		}
	}
}
