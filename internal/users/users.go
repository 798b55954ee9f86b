package users

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/rajasaad7/linkboard/internal/db"
	"github.com/rajasaad7/linkboard/internal/logging"
)

type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Plan        string    `json:"plan"`
	IsActive    bool      `json:"is_active"`
	IsPublisher bool      `json:"is_publisher"`
	CreatedAt   time.Time `json:"created_at"`

	LinkCount    int `json:"link_count"`
	ProjectCount int `json:"project_count"`
}

// GET /api/users?search=&filter=
func ListUsers(c echo.Context) error {
	ctx := context.Background()

	query := `
		SELECT id, email, name, plan, COALESCE(is_active, TRUE), is_publisher, created_at
		FROM users WHERE 1=1`
	args := []any{}
	if search := c.QueryParam("search"); search != "" {
		args = append(args, "%"+search+"%")
		query += fmt.Sprintf(` AND (email ILIKE $%d OR name ILIKE $%d)`, len(args), len(args))
	}
	switch c.QueryParam("filter") {
	case "active":
		query += ` AND COALESCE(is_active, TRUE)`
	case "suspended":
		query += ` AND NOT COALESCE(is_active, TRUE)`
	case "subscribed":
		query += ` AND plan <> 'free'`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.Conn.Query(ctx, query, args...)
	if err != nil {
		logging.L.Error("user query failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "could not fetch users"})
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Plan, &u.IsActive, &u.IsPublisher, &u.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to read user record"})
		}
		users = append(users, u)
	}

	// Per-user link/project counts merged in memory.
	linkCounts := groupCounts(ctx, `SELECT user_id, COUNT(*) FROM links GROUP BY user_id`)
	projectCounts := groupCounts(ctx, `SELECT user_id, COUNT(*) FROM projects GROUP BY user_id`)
	for i := range users {
		users[i].LinkCount = linkCounts[users[i].ID]
		users[i].ProjectCount = projectCounts[users[i].ID]
	}

	stats := echo.Map{"total": len(users)}
	var active, suspended, subscribed int
	for _, u := range users {
		if u.IsActive {
			active++
		} else {
			suspended++
		}
		if u.Plan != "free" {
			subscribed++
		}
	}
	stats["active"] = active
	stats["suspended"] = suspended
	stats["subscribed"] = subscribed

	return c.JSON(http.StatusOK, echo.Map{"success": true, "users": users, "stats": stats})
}

func groupCounts(ctx context.Context, query string) map[string]int {
	counts := map[string]int{}
	rows, err := db.Conn.Query(ctx, query)
	if err != nil {
		logging.L.Error("count query failed", zap.Error(err))
		return counts
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err == nil {
			counts[id] = n
		}
	}
	return counts
}

// POST /api/users/:id/suspend
func SuspendUser(c echo.Context) error {
	return setActive(c, false, "user suspended")
}

// POST /api/users/:id/activate
func ActivateUser(c echo.Context) error {
	return setActive(c, true, "user activated")
}

func setActive(c echo.Context, active bool, message string) error {
	userID := c.Param("id")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "user id required"})
	}
	tag, err := db.Conn.Exec(context.Background(),
		`UPDATE users SET is_active = $1 WHERE id = $2`, active, userID)
	if err != nil {
		logging.L.Error("user status update failed", zap.Error(err), zap.String("user_id", userID))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to update user"})
	}
	if tag.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "user not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": message, "user_id": userID})
}

// DELETE /api/users/:id
func DeleteUser(c echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "user id required"})
	}
	tag, err := db.Conn.Exec(context.Background(), `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		logging.L.Error("user delete failed", zap.Error(err), zap.String("user_id", userID))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to delete user"})
	}
	if tag.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "user not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "user deleted", "user_id": userID})
}
