package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var jwtSecret []byte

// SetSecret installs the signing key used to verify staff tokens.
func SetSecret(secret string) {
	jwtSecret = []byte(secret)
}

// Secret returns the active signing key (used by auth to issue tokens).
func Secret() []byte {
	return jwtSecret
}

// JWTMiddleware verifies the Bearer token and stores staff_id and role in context.
func JWTMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "missing bearer token"})
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "invalid token"})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "invalid token claims"})
		}

		staffID, _ := claims["staff_id"].(string)
		role, _ := claims["role"].(string)
		if staffID == "" {
			return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "invalid token claims"})
		}

		c.Set("staff_id", staffID)
		c.Set("role", role)
		return next(c)
	}
}
