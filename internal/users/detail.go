package users

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rajasaad7/linkboard/internal/db"
	"github.com/rajasaad7/linkboard/internal/logging"
)

type subscriptionEntry struct {
	ID        string     `json:"id"`
	Plan      string     `json:"plan"`
	Amount    int64      `json:"amount"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at"`
}

type linkEntry struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	URL       string    `json:"url"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type keywordEntry struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Phrase    string `json:"phrase"`
	Position  *int   `json:"position"`
}

type projectEntry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	SiteURL   string    `json:"site_url"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type orderEntry struct {
	ID         string    `json:"id"`
	Status     string    `json:"status"`
	TotalPrice int64     `json:"total_price"`
	CreatedAt  time.Time `json:"created_at"`
}

type domainEntry struct {
	ID         string `json:"id"`
	DomainName string `json:"domain_name"`
	Status     string `json:"status"`
}

// GET /api/users/:id
//
// The detail envelope is assembled from independent queries run in parallel;
// any single failure fails the whole request.
func GetUserDetails(c echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "user id required"})
	}

	var u User
	err := db.Conn.QueryRow(context.Background(), `
		SELECT id, email, name, plan, COALESCE(is_active, TRUE), is_publisher, created_at
		FROM users WHERE id = $1
	`, userID).Scan(&u.ID, &u.Email, &u.Name, &u.Plan, &u.IsActive, &u.IsPublisher, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "user not found"})
		}
		logging.L.Error("user fetch failed", zap.Error(err), zap.String("user_id", userID))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "could not fetch user"})
	}

	var (
		links        []linkEntry
		keywords     []keywordEntry
		projects     []projectEntry
		history      []subscriptionEntry
		buyerOrders  []orderEntry
		pubOrders    []orderEntry
		ownedDomains []domainEntry
	)

	g, ctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		rows, err := db.Conn.Query(ctx,
			`SELECT id, project_id, url, status, created_at FROM links WHERE user_id = $1 ORDER BY created_at DESC`, userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var l linkEntry
			if err := rows.Scan(&l.ID, &l.ProjectID, &l.URL, &l.Status, &l.CreatedAt); err != nil {
				return err
			}
			links = append(links, l)
		}
		return rows.Err()
	})

	g.Go(func() error {
		rows, err := db.Conn.Query(ctx,
			`SELECT id, project_id, phrase, position FROM keywords WHERE user_id = $1`, userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var k keywordEntry
			if err := rows.Scan(&k.ID, &k.ProjectID, &k.Phrase, &k.Position); err != nil {
				return err
			}
			keywords = append(keywords, k)
		}
		return rows.Err()
	})

	g.Go(func() error {
		rows, err := db.Conn.Query(ctx,
			`SELECT id, name, site_url, status, created_at FROM projects WHERE user_id = $1 ORDER BY created_at DESC`, userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var p projectEntry
			if err := rows.Scan(&p.ID, &p.Name, &p.SiteURL, &p.Status, &p.CreatedAt); err != nil {
				return err
			}
			projects = append(projects, p)
		}
		return rows.Err()
	})

	g.Go(func() error {
		rows, err := db.Conn.Query(ctx,
			`SELECT id, plan, amount, started_at, ended_at FROM subscription_history WHERE user_id = $1 ORDER BY started_at DESC`, userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var s subscriptionEntry
			if err := rows.Scan(&s.ID, &s.Plan, &s.Amount, &s.StartedAt, &s.EndedAt); err != nil {
				return err
			}
			history = append(history, s)
		}
		return rows.Err()
	})

	g.Go(func() error {
		var err error
		buyerOrders, err = fetchOrders(ctx, `buyer_id`, userID)
		return err
	})

	g.Go(func() error {
		var err error
		pubOrders, err = fetchOrders(ctx, `publisher_id`, userID)
		return err
	})

	g.Go(func() error {
		rows, err := db.Conn.Query(ctx,
			`SELECT id, domain_name, status FROM domains WHERE owner_id = $1`, userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var d domainEntry
			if err := rows.Scan(&d.ID, &d.DomainName, &d.Status); err != nil {
				return err
			}
			ownedDomains = append(ownedDomains, d)
		}
		return rows.Err()
	})

	if err := g.Wait(); err != nil {
		logging.L.Error("user detail queries failed", zap.Error(err), zap.String("user_id", userID))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "could not fetch user details"})
	}

	liveLinks := 0
	for _, l := range links {
		if l.Status == "live" {
			liveLinks++
		}
	}
	var spent, earned int64
	for _, o := range buyerOrders {
		spent += o.TotalPrice
	}
	for _, o := range pubOrders {
		earned += o.TotalPrice
	}

	var subscription *subscriptionEntry
	if len(history) > 0 && history[0].EndedAt == nil {
		subscription = &history[0]
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"details": echo.Map{
			"user": u,
			"stats": echo.Map{
				"links":      len(links),
				"liveLinks":  liveLinks,
				"keywords":   len(keywords),
				"projects":   len(projects),
				"totalSpent": spent,
				"earned":     earned,
			},
			"subscription":               subscription,
			"subscriptionHistory":        history,
			"links":                      links,
			"keywords":                   keywords,
			"projects":                   projects,
			"marketplaceOrdersBuyer":     buyerOrders,
			"marketplaceOrdersPublisher": pubOrders,
			"domains":                    ownedDomains,
		},
	})
}

func fetchOrders(ctx context.Context, column, userID string) ([]orderEntry, error) {
	rows, err := db.Conn.Query(ctx,
		`SELECT id, status, total_price, created_at FROM marketplace_orders WHERE `+column+` = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []orderEntry
	for rows.Next() {
		var o orderEntry
		if err := rows.Scan(&o.ID, &o.Status, &o.TotalPrice, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
