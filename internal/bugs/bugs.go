package bugs

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/rajasaad7/linkboard/internal/alerts"
	"github.com/rajasaad7/linkboard/internal/db"
	"github.com/rajasaad7/linkboard/internal/logging"
)

var validStatuses = map[string]bool{
	"open":          true,
	"investigating": true,
	"resolved":      true,
	"closed":        true,
}

var validSeverities = map[string]bool{
	"low":      true,
	"medium":   true,
	"high":     true,
	"critical": true,
}

type BugReport struct {
	ID          string    `json:"id"`
	ReporterID  *string   `json:"reporter_id"`
	Email       string    `json:"email"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Severity    string    `json:"severity"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// GET /api/bugs?status=&severity=
func ListBugs(c echo.Context) error {
	query := `SELECT id, reporter_id, email, title, description, severity, status, created_at FROM bug_reports WHERE 1=1`
	args := []any{}
	if status := c.QueryParam("status"); status != "" {
		args = append(args, status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if severity := c.QueryParam("severity"); severity != "" {
		args = append(args, severity)
		query += fmt.Sprintf(` AND severity = $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.Conn.Query(context.Background(), query, args...)
	if err != nil {
		logging.L.Error("bug query failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "could not fetch bug reports"})
	}
	defer rows.Close()

	var items []BugReport
	for rows.Next() {
		var b BugReport
		if err := rows.Scan(&b.ID, &b.ReporterID, &b.Email, &b.Title, &b.Description, &b.Severity, &b.Status, &b.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to read bug record"})
		}
		items = append(items, b)
	}

	byStatus := map[string]int{}
	bySeverity := map[string]int{}
	for _, b := range items {
		byStatus[b.Status]++
		bySeverity[b.Severity]++
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"bugs":    items,
		"stats":   echo.Map{"total": len(items), "byStatus": byStatus, "bySeverity": bySeverity},
	})
}

type updateStatusRequest struct {
	BugID  string `json:"bugId"`
	Status string `json:"status"`
}

// POST /api/bugs/update-status
func UpdateStatus(c echo.Context) error {
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil || req.BugID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "bugId is required"})
	}
	if !validStatuses[req.Status] {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid bug status"})
	}

	tag, err := db.Conn.Exec(context.Background(),
		`UPDATE bug_reports SET status = $1 WHERE id = $2`, req.Status, req.BugID)
	if err != nil {
		logging.L.Error("bug update failed", zap.Error(err), zap.String("bug_id", req.BugID))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to update bug report"})
	}
	if tag.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "bug report not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "bug report updated", "bug_id": req.BugID})
}

type submitRequest struct {
	ReporterID  string `json:"reporterId"`
	Email       string `json:"email"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
}

// POST /bugs
//
// Public intake endpoint. Severity defaults to medium when omitted.
func Submit(c echo.Context) error {
	var req submitRequest
	if err := c.Bind(&req); err != nil || req.Email == "" || req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "email and title are required"})
	}
	if req.Severity == "" {
		req.Severity = "medium"
	}
	if !validSeverities[req.Severity] {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid severity"})
	}

	id := uuid.NewString()
	_, err := db.Conn.Exec(context.Background(), `
		INSERT INTO bug_reports (id, reporter_id, email, title, description, severity, status)
		VALUES ($1, NULLIF($2, '')::uuid, $3, $4, $5, $6, 'open')
	`, id, req.ReporterID, req.Email, req.Title, req.Description, req.Severity)
	if err != nil {
		logging.L.Error("bug insert failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to submit bug report"})
	}

	_ = alerts.EnqueueBugReceived(id, req.Title, req.Severity)

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "message": "bug report received", "bug_id": id})
}
