package analytics

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rajasaad7/linkboard/internal/db"
	"github.com/rajasaad7/linkboard/internal/logging"
)

const topLimit = 10

// GET /api/analytics
//
// Counts come straight from the database; rankings and revenue are
// reduced in memory from the full order set.
func Overview(c echo.Context) error {
	var (
		userCount       int
		publisherCount  int
		domainCount     int
		linkCount       int
		keywordCount    int
		activeProjects  int
		disabledProject int
		pressOrderCount int

		orders    []OrderRecord
		pagePaths []string
	)

	g, ctx := errgroup.WithContext(context.Background())

	count := func(dst *int, query string) {
		g.Go(func() error {
			return db.Conn.QueryRow(ctx, query).Scan(dst)
		})
	}

	count(&userCount, `SELECT COUNT(*) FROM users`)
	count(&publisherCount, `SELECT COUNT(*) FROM users WHERE is_publisher`)
	count(&domainCount, `SELECT COUNT(*) FROM domains`)
	count(&linkCount, `SELECT COUNT(*) FROM links`)
	count(&keywordCount, `SELECT COUNT(*) FROM keywords`)
	count(&activeProjects, `SELECT COUNT(*) FROM projects WHERE status = 'active'`)
	count(&disabledProject, `SELECT COUNT(*) FROM projects WHERE status = 'disabled'`)
	count(&pressOrderCount, `SELECT COUNT(*) FROM press_release_orders`)

	g.Go(func() error {
		rows, err := db.Conn.Query(ctx, `
			SELECT o.publisher_id, COALESCE(u.email, ''), o.status, o.total_price, o.publisher_earnings
			FROM marketplace_orders o
			LEFT JOIN users u ON u.id = o.publisher_id
		`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var o OrderRecord
			if err := rows.Scan(&o.PublisherID, &o.PublisherEmail, &o.Status, &o.TotalPrice, &o.PublisherPrice); err != nil {
				return err
			}
			orders = append(orders, o)
		}
		return rows.Err()
	})

	g.Go(func() error {
		rows, err := db.Conn.Query(ctx, `SELECT target_url FROM links ORDER BY created_at`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var p string
			if err := rows.Scan(&p); err != nil {
				return err
			}
			pagePaths = append(pagePaths, p)
		}
		return rows.Err()
	})

	if err := g.Wait(); err != nil {
		logging.L.Error("analytics queries failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "could not fetch analytics"})
	}

	totalRevenue, publisherShare := Revenue(orders)

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"analytics": echo.Map{
			"users":      userCount,
			"publishers": publisherCount,
			"domains":    domainCount,
			"links":      linkCount,
			"keywords":   keywordCount,
			"projects": echo.Map{
				"active":   activeProjects,
				"disabled": disabledProject,
			},
			"pressReleaseOrders": pressOrderCount,
			"orders": echo.Map{
				"total":    len(orders),
				"byStatus": CountByStatus(orders),
			},
			"revenue": echo.Map{
				"total":          totalRevenue,
				"publisherShare": publisherShare,
				"platformShare":  totalRevenue - publisherShare,
			},
			"topPublishers": TopPublishers(orders, topLimit),
			"topPages":      TopPages(pagePaths, topLimit),
		},
	})
}
