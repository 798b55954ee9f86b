package projects

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/rajasaad7/linkboard/internal/db"
	"github.com/rajasaad7/linkboard/internal/logging"
)

const linkPageSize = 50

type Link struct {
	ID            string     `json:"id"`
	ProjectID     string     `json:"project_id"`
	UserID        string     `json:"user_id"`
	URL           string     `json:"url"`
	TargetURL     string     `json:"target_url"`
	Status        string     `json:"status"`
	LastCheckedAt *time.Time `json:"last_checked_at"`
	CreatedAt     time.Time  `json:"created_at"`
}

// GET /api/links?projectId=&status=&page=
func ListLinks(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}

	query := `
		SELECT id, project_id, user_id, url, target_url, status, last_checked_at, created_at
		FROM links WHERE 1=1`
	args := []any{}
	if projectID := c.QueryParam("projectId"); projectID != "" {
		args = append(args, projectID)
		query += fmt.Sprintf(` AND project_id = $%d`, len(args))
	}
	if status := c.QueryParam("status"); status != "" {
		args = append(args, status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d OFFSET %d`, linkPageSize, (page-1)*linkPageSize)

	rows, err := db.Conn.Query(context.Background(), query, args...)
	if err != nil {
		logging.L.Error("link query failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "could not fetch links"})
	}
	defer rows.Close()

	var items []Link
	for rows.Next() {
		var l Link
		if err := rows.Scan(&l.ID, &l.ProjectID, &l.UserID, &l.URL, &l.TargetURL, &l.Status, &l.LastCheckedAt, &l.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to read link record"})
		}
		items = append(items, l)
	}

	var total int
	_ = db.Conn.QueryRow(context.Background(), `SELECT COUNT(*) FROM links`).Scan(&total)

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"links":   items,
		"pagination": echo.Map{
			"page":     page,
			"pageSize": linkPageSize,
			"total":    total,
		},
	})
}

// DELETE /api/links/:id
func DeleteLink(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "link id required"})
	}
	tag, err := db.Conn.Exec(context.Background(), `DELETE FROM links WHERE id = $1`, id)
	if err != nil {
		logging.L.Error("link delete failed", zap.Error(err), zap.String("link_id", id))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to delete link"})
	}
	if tag.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "link not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "link deleted", "link_id": id})
}
