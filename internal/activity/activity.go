package activity

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rajasaad7/linkboard/internal/db"
	"github.com/rajasaad7/linkboard/internal/logging"
)

// GET /api/activity/today
//
// Everything is counted against the database server's current date so
// results do not shift with the API server's timezone.
func Today(c echo.Context) error {
	var (
		signups         int
		newOrders       int
		newPressOrders  int
		completedOrders int
		contactMessages int
		bugReports      int
	)

	g, ctx := errgroup.WithContext(context.Background())

	count := func(dst *int, query string) {
		g.Go(func() error {
			return db.Conn.QueryRow(ctx, query).Scan(dst)
		})
	}

	count(&signups, `SELECT COUNT(*) FROM users WHERE created_at::date = CURRENT_DATE`)
	count(&newOrders, `SELECT COUNT(*) FROM marketplace_orders WHERE created_at::date = CURRENT_DATE`)
	count(&newPressOrders, `SELECT COUNT(*) FROM press_release_orders WHERE created_at::date = CURRENT_DATE`)
	count(&completedOrders, `SELECT COUNT(*) FROM marketplace_orders WHERE completed_at::date = CURRENT_DATE`)
	count(&contactMessages, `SELECT COUNT(*) FROM contacts WHERE created_at::date = CURRENT_DATE`)
	count(&bugReports, `SELECT COUNT(*) FROM bug_reports WHERE created_at::date = CURRENT_DATE`)

	if err := g.Wait(); err != nil {
		logging.L.Error("activity queries failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "could not fetch activity"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"activity": echo.Map{
			"signups":         signups,
			"newOrders":       newOrders,
			"newPressOrders":  newPressOrders,
			"completedOrders": completedOrders,
			"contactMessages": contactMessages,
			"bugReports":      bugReports,
		},
	})
}
