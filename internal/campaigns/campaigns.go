package campaigns

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

type Campaign struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`

	TotalLinks int `json:"totalLinks"`
	Indexed    int `json:"indexed"`
	Pending    int `json:"pending"`
}

// GET /api/campaigns?status=
func ListCampaigns(c echo.Context) error {
	ctx := context.Background()

	query := `SELECT id, user_id, name, status, created_at FROM indexer_campaigns WHERE 1=1`
	args := []any{}
	if status := c.QueryParam("status"); status != "" {
		args = append(args, status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.Conn.Query(ctx, query, args...)
	if err != nil {
		logging.L.Error("campaign query failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "could not fetch campaigns"})
	}
	defer rows.Close()

	var items []Campaign
	for rows.Next() {
		var cp Campaign
		if err := rows.Scan(&cp.ID, &cp.UserID, &cp.Name, &cp.Status, &cp.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to read campaign record"})
		}
		items = append(items, cp)
	}

	// Per-campaign link progress merged in memory.
	totals, indexed := linkCounts(ctx)
	for i := range items {
		items[i].TotalLinks = totals[items[i].ID]
		items[i].Indexed = indexed[items[i].ID]
		items[i].Pending = items[i].TotalLinks - items[i].Indexed
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "campaigns": items})
}

func linkCounts(ctx context.Context) (totals, indexed map[string]int) {
	totals = map[string]int{}
	indexed = map[string]int{}
	rows, err := db.Conn.Query(ctx, `
		SELECT campaign_id, COUNT(*), COUNT(*) FILTER (WHERE indexed)
		FROM campaign_links GROUP BY campaign_id
	`)
	if err != nil {
		logging.L.Error("campaign link count query failed", zap.Error(err))
		return totals, indexed
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var total, done int
		if err := rows.Scan(&id, &total, &done); err == nil {
			totals[id] = total
			indexed[id] = done
		}
	}
	return totals, indexed
}

// POST /api/campaigns/:id/pause
func PauseCampaign(c echo.Context) error {
	return setStatus(c, "paused", "running", "campaign paused")
}

// POST /api/campaigns/:id/resume
func ResumeCampaign(c echo.Context) error {
	return setStatus(c, "running", "paused", "campaign resumed")
}

func setStatus(c echo.Context, to, from, message string) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "campaign id required"})
	}
	tag, err := db.Conn.Exec(context.Background(),
		`UPDATE indexer_campaigns SET status = $1 WHERE id = $2 AND status = $3`, to, id, from)
	if err != nil {
		logging.L.Error("campaign status update failed", zap.Error(err), zap.String("campaign_id", id))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to update campaign"})
	}
	if tag.RowsAffected() == 0 {
		return c.JSON(http.StatusConflict, echo.Map{"success": false, "error": fmt.Sprintf("campaign is not %s", from)})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": message, "campaign_id": id})
}
