package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rajasaad7/linkboard/internal/db"
)

type StaffUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// GET /api/auth/me
func Me(c echo.Context) error {
	staffID, ok := c.Get("staff_id").(string)
	if !ok || staffID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "unauthorized"})
	}

	var u StaffUser
	err := db.Conn.QueryRow(context.Background(), `
		SELECT id, email, name, role, created_at FROM staff_users WHERE id = $1
	`, staffID).Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.CreatedAt)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "staff user not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "staff": u})
}
