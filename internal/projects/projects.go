package projects

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

type Project struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	SiteURL   string    `json:"site_url"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// GET /api/projects?search=&status=
func ListProjects(c echo.Context) error {
	query := `SELECT id, user_id, name, site_url, status, created_at FROM projects WHERE 1=1`
	args := []any{}
	if search := c.QueryParam("search"); search != "" {
		args = append(args, "%"+search+"%")
		query += fmt.Sprintf(` AND (name ILIKE $%d OR site_url ILIKE $%d)`, len(args), len(args))
	}
	if status := c.QueryParam("status"); status != "" {
		args = append(args, status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.Conn.Query(context.Background(), query, args...)
	if err != nil {
		logging.L.Error("project query failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "could not fetch projects"})
	}
	defer rows.Close()

	var items []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.SiteURL, &p.Status, &p.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to read project record"})
		}
		items = append(items, p)
	}

	disabled := 0
	for _, p := range items {
		if p.Status == "disabled" {
			disabled++
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"projects": items,
		"stats": echo.Map{
			"total":    len(items),
			"active":   len(items) - disabled,
			"disabled": disabled,
		},
	})
}

// POST /api/projects/:id/disable
func DisableProject(c echo.Context) error {
	return setStatus(c, "disabled", "project disabled")
}

// POST /api/projects/:id/enable
func EnableProject(c echo.Context) error {
	return setStatus(c, "active", "project enabled")
}

func setStatus(c echo.Context, status, message string) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "project id required"})
	}
	tag, err := db.Conn.Exec(context.Background(),
		`UPDATE projects SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		logging.L.Error("project status update failed", zap.Error(err), zap.String("project_id", id))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to update project"})
	}
	if tag.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "project not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": message, "project_id": id})
}

// DELETE /api/projects/:id
func DeleteProject(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "project id required"})
	}
	tag, err := db.Conn.Exec(context.Background(), `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		logging.L.Error("project delete failed", zap.Error(err), zap.String("project_id", id))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to delete project"})
	}
	if tag.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "project not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "project deleted", "project_id": id})
}
