package middleware

import (
	"net/http"
	"strings"

	"github.com/anonto42/proconnect/backend/internal/models"
	"github.com/labstack/echo/v4"
)

const claimsKey = "claims"

// TokenParser validates an access token.
type TokenParser interface {
	Parse(token string) (*models.JwtCustomClaims, error)
}

// JWTAuthMiddleware checks for a valid bearer token and stores its claims.
func JWTAuthMiddleware(parser TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
			}

			// Expecting "Bearer <token>"
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
			}

			claims, err := parser.Parse(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

// CurrentAccount returns the authenticated account.
func CurrentAccount(c echo.Context) (models.AccountRef, bool) {
	claims, ok := c.Get(claimsKey).(*models.JwtCustomClaims)
	if !ok || claims == nil {
		return models.AccountRef{}, false
	}
	return claims.Ref(), true
}
