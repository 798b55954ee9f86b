package orders

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/rajasaad7/linkboard/internal/alerts"
	"github.com/rajasaad7/linkboard/internal/db"
	"github.com/rajasaad7/linkboard/internal/logging"
)

const pageSize = 25

// GET /api/orders?status=&search=&page=
func ListOrders(c echo.Context) error {
	ctx := context.Background()

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}

	query := `
		SELECT o.id, o.buyer_id, o.publisher_id, o.domain_id,
		       o.total_price, o.platform_fee, o.publisher_earnings,
		       o.status, o.reason, o.refund_amount,
		       o.accepted_at, o.delivered_at, o.completed_at, o.cancelled_at, o.refunded_at,
		       o.created_at, o.updated_at,
		       b.email, p.email, COALESCE(d.domain_name, '')
		FROM marketplace_orders o
		JOIN users b ON b.id = o.buyer_id
		JOIN users p ON p.id = o.publisher_id
		LEFT JOIN domains d ON d.id = o.domain_id
		WHERE 1=1`
	args := []any{}
	if status := c.QueryParam("status"); status != "" {
		args = append(args, status)
		query += fmt.Sprintf(` AND o.status = $%d`, len(args))
	}
	if search := c.QueryParam("search"); search != "" {
		args = append(args, "%"+search+"%")
		query += fmt.Sprintf(` AND (b.email ILIKE $%d OR p.email ILIKE $%d OR d.domain_name ILIKE $%d)`,
			len(args), len(args), len(args))
	}
	query += fmt.Sprintf(` ORDER BY o.created_at DESC LIMIT %d OFFSET %d`, pageSize, (page-1)*pageSize)

	rows, err := db.Conn.Query(ctx, query, args...)
	if err != nil {
		logging.L.Error("order query failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "could not fetch orders"})
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.BuyerID, &o.PublisherID, &o.DomainID,
			&o.TotalPrice, &o.PlatformFee, &o.PublisherEarnings,
			&o.Status, &o.Reason, &o.RefundAmount,
			&o.AcceptedAt, &o.DeliveredAt, &o.CompletedAt, &o.CancelledAt, &o.RefundedAt,
			&o.CreatedAt, &o.UpdatedAt,
			&o.BuyerEmail, &o.PublisherEmail, &o.DomainName); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to read order record"})
		}
		orders = append(orders, o)
	}

	var total int
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM marketplace_orders`).Scan(&total)

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"orders":  orders,
		"stats":   Stats(orders),
		"pagination": echo.Map{
			"page":     page,
			"pageSize": pageSize,
			"total":    total,
		},
	})
}

// Stats sums revenue over an already-fetched order slice.
func Stats(orders []Order) echo.Map {
	var revenue, fees, earnings int64
	byStatus := map[string]int{}
	for _, o := range orders {
		revenue += o.TotalPrice
		fees += o.PlatformFee
		earnings += o.PublisherEarnings
		byStatus[string(o.Status)]++
	}
	return echo.Map{
		"totalRevenue":      revenue,
		"platformFees":      fees,
		"publisherEarnings": earnings,
		"byStatus":          byStatus,
	}
}

type updateStatusRequest struct {
	OrderID      string `json:"orderId"`
	Status       string `json:"status"`
	Reason       string `json:"reason"`
	RefundAmount *int64 `json:"refundAmount"`
}

// POST /api/orders/update-status
func UpdateStatus(c echo.Context) error {
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil || req.OrderID == "" || req.Status == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "orderId and status required"})
	}

	ctx := context.Background()

	var o Order
	err := db.Conn.QueryRow(ctx, `
		SELECT id, buyer_id, publisher_id, status FROM marketplace_orders WHERE id = $1
	`, req.OrderID).Scan(&o.ID, &o.BuyerID, &o.PublisherID, &o.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "order not found"})
		}
		logging.L.Error("order fetch failed", zap.Error(err), zap.String("order_id", req.OrderID))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "could not fetch order"})
	}

	upd, err := Transition(o, Status(req.Status), req.Reason, req.RefundAmount, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingField), errors.Is(err, ErrUnknownStatus):
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": err.Error()})
		case errors.Is(err, ErrNotAllowed):
			return c.JSON(http.StatusConflict, echo.Map{"success": false, "error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": err.Error()})
	}

	cols := make([]string, 0, len(upd.Changes))
	for col := range upd.Changes {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	set := `status = $1, updated_at = NOW()`
	args := []any{string(upd.Status)}
	for _, col := range cols {
		args = append(args, upd.Changes[col])
		set += fmt.Sprintf(", %s = $%d", col, len(args))
	}
	args = append(args, req.OrderID, string(o.Status))

	tag, err := db.Conn.Exec(ctx,
		fmt.Sprintf(`UPDATE marketplace_orders SET %s WHERE id = $%d AND status = $%d`,
			set, len(args)-1, len(args)),
		args...)
	if err != nil {
		logging.L.Error("order update failed", zap.Error(err), zap.String("order_id", req.OrderID))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to update order"})
	}
	if tag.RowsAffected() == 0 {
		return c.JSON(http.StatusConflict, echo.Map{"success": false, "error": "order changed concurrently"})
	}

	if upd.Status == StatusDisputed {
		_ = alerts.EnqueueOrderAttention(req.OrderID, "marketplace", string(upd.Status), req.Reason)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "orderId": req.OrderID, "status": upd.Status})
}
