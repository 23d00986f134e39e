package middleware

import (
	"net/http"
	"strings"

	"github.com/anonto42/nano-midea/forum/internal/logger"
	"github.com/anonto42/nano-midea/forum/internal/models"
	"github.com/anonto42/nano-midea/forum/internal/session"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// UserContextKey is where the authenticated claims are stored on the echo context.
const UserContextKey = "user"

// JWTAuthMiddleware checks for a valid JWT and extracts user claims.
func JWTAuthMiddleware(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
			}

			// Expecting "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
			}

			claims, err := session.Verify(jwtSecret, parts[1])
			if err != nil {
				logger.For(c.Request().Context()).WithError(err).Debug("rejected token")
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			c.Set(UserContextKey, claims)
			ctx := logger.NewContextWithFields(c.Request().Context(), logrus.Fields{"user_id": claims.UserID})
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// Claims returns the claims stored by JWTAuthMiddleware, if any.
func Claims(c echo.Context) (*models.JwtCustomClaims, bool) {
	claims, ok := c.Get(UserContextKey).(*models.JwtCustomClaims)
	return claims, ok
}
