package contacts

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
	"new":         true,
	"in_progress": true,
	"resolved":    true,
	"archived":    true,
}

type Contact struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	Note      *string   `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

// GET /api/contacts?status=
func ListContacts(c echo.Context) error {
	query := `SELECT id, name, email, subject, message, status, note, created_at FROM contacts WHERE 1=1`
	args := []any{}
	if status := c.QueryParam("status"); status != "" {
		args = append(args, status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.Conn.Query(context.Background(), query, args...)
	if err != nil {
		logging.L.Error("contact query failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "could not fetch contacts"})
	}
	defer rows.Close()

	var items []Contact
	for rows.Next() {
		var ct Contact
		if err := rows.Scan(&ct.ID, &ct.Name, &ct.Email, &ct.Subject, &ct.Message, &ct.Status, &ct.Note, &ct.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to read contact record"})
		}
		items = append(items, ct)
	}

	byStatus := map[string]int{}
	for _, ct := range items {
		byStatus[ct.Status]++
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"contacts": items,
		"stats":    echo.Map{"total": len(items), "byStatus": byStatus},
	})
}

type updateStatusRequest struct {
	ContactID string `json:"contactId"`
	Status    string `json:"status"`
	Note      string `json:"note"`
}

// POST /api/contacts/update-status
func UpdateStatus(c echo.Context) error {
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil || req.ContactID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "contactId is required"})
	}
	if !validStatuses[req.Status] {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid contact status"})
	}

	tag, err := db.Conn.Exec(context.Background(), `
		UPDATE contacts SET status = $1, note = COALESCE(NULLIF($2, ''), note) WHERE id = $3
	`, req.Status, req.Note, req.ContactID)
	if err != nil {
		logging.L.Error("contact update failed", zap.Error(err), zap.String("contact_id", req.ContactID))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to update contact"})
	}
	if tag.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "contact not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "contact updated", "contact_id": req.ContactID})
}

type submitRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// POST /contact
//
// Public intake endpoint. New submissions land as "new" and trigger a
// support alert.
func Submit(c echo.Context) error {
	var req submitRequest
	if err := c.Bind(&req); err != nil || req.Email == "" || req.Message == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "email and message are required"})
	}

	id := uuid.NewString()
	_, err := db.Conn.Exec(context.Background(), `
		INSERT INTO contacts (id, name, email, subject, message, status)
		VALUES ($1, $2, $3, $4, $5, 'new')
	`, id, req.Name, req.Email, req.Subject, req.Message)
	if err != nil {
		logging.L.Error("contact insert failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to submit message"})
	}

	_ = alerts.EnqueueContactReceived(id, req.Email, req.Subject)

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "message": "message received", "contact_id": id})
}
