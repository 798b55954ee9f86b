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

type Keyword struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	UserID    string    `json:"user_id"`
	Phrase    string    `json:"phrase"`
	Position  *int      `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// GET /api/keywords?projectId=
func ListKeywords(c echo.Context) error {
	query := `SELECT id, project_id, user_id, phrase, position, created_at FROM keywords WHERE 1=1`
	args := []any{}
	if projectID := c.QueryParam("projectId"); projectID != "" {
		args = append(args, projectID)
		query += fmt.Sprintf(` AND project_id = $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.Conn.Query(context.Background(), query, args...)
	if err != nil {
		logging.L.Error("keyword query failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "could not fetch keywords"})
	}
	defer rows.Close()

	var items []Keyword
	for rows.Next() {
		var k Keyword
		if err := rows.Scan(&k.ID, &k.ProjectID, &k.UserID, &k.Phrase, &k.Position, &k.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to read keyword record"})
		}
		items = append(items, k)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "keywords": items})
}

// DELETE /api/keywords/:id
func DeleteKeyword(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "keyword id required"})
	}
	tag, err := db.Conn.Exec(context.Background(), `DELETE FROM keywords WHERE id = $1`, id)
	if err != nil {
		logging.L.Error("keyword delete failed", zap.Error(err), zap.String("keyword_id", id))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to delete keyword"})
	}
	if tag.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "keyword not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "keyword deleted", "keyword_id": id})
}
