package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/rajasaad7/linkboard/internal/db"
	"github.com/rajasaad7/linkboard/internal/logging"
	"github.com/rajasaad7/linkboard/internal/middleware"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// POST /auth/login
func Login(c echo.Context) error {
	req := new(LoginRequest)
	if err := c.Bind(req); err != nil || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "email and password required"})
	}

	ctx := context.Background()

	var (
		staffID  string
		password string
		role     string
		isActive bool
	)
	err := db.Conn.QueryRow(ctx, `
		SELECT id, password, role, COALESCE(is_active, TRUE) FROM staff_users WHERE email = $1
	`, req.Email).Scan(&staffID, &password, &role, &isActive)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "invalid credentials"})
	}
	if !isActive {
		return c.JSON(http.StatusForbidden, echo.Map{"success": false, "error": "account suspended"})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(password), []byte(req.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "invalid credentials"})
	}

	claims := jwt.MapClaims{
		"staff_id": staffID,
		"role":     role,
		"exp":      time.Now().Add(72 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(middleware.Secret())
	if err != nil {
		logging.L.Error("token signing failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "token generation failed"})
	}

	return c.JSON(http.StatusOK, LoginResponse{Success: true, Token: signed})
}
