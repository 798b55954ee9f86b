package pressrelease

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

const orderColumns = `
	id, buyer_id, publisher_id, domain_id, total_price, platform_fee, publisher_earnings,
	status, request_content_writing, article_doc_url, published_url,
	article_revision_count, revision_count, revision_reason, rejection_reason,
	cancel_reason, refund_reason, refunded_amount,
	paid_at, article_started_at, article_submitted_at, article_approved_at,
	submitted_at, completed_at, cancelled_at, refunded_at, rejected_at,
	created_at, updated_at`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.BuyerID, &o.PublisherID, &o.DomainID, &o.TotalPrice, &o.PlatformFee, &o.PublisherEarnings,
		&o.Status, &o.RequestContentWriting, &o.ArticleDocURL, &o.PublishedURL,
		&o.ArticleRevisionCount, &o.RevisionCount, &o.RevisionReason, &o.RejectionReason,
		&o.CancelReason, &o.RefundReason, &o.RefundedAmount,
		&o.PaidAt, &o.ArticleStartedAt, &o.ArticleSubmittedAt, &o.ArticleApprovedAt,
		&o.SubmittedAt, &o.CompletedAt, &o.CancelledAt, &o.RefundedAt, &o.RejectedAt,
		&o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

// GET /api/press-releases/orders?status=&page=
func ListOrders(c echo.Context) error {
	ctx := context.Background()

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	status := c.QueryParam("status")

	query := `SELECT ` + orderColumns + ` FROM press_release_orders`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d OFFSET %d`, pageSize, (page-1)*pageSize)

	rows, err := db.Conn.Query(ctx, query, args...)
	if err != nil {
		logging.L.Error("press release order query failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "could not fetch orders"})
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to read order record"})
		}
		orders = append(orders, o)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM press_release_orders`
	if status != "" {
		countQuery += ` WHERE status = $1`
	}
	_ = db.Conn.QueryRow(ctx, countQuery, args...).Scan(&total)

	// Revenue and status breakdown over the fetched page scope.
	stats := echo.Map{}
	var revenue, earnings int64
	byStatus := map[string]int{}
	for _, o := range orders {
		revenue += o.TotalPrice
		earnings += o.PublisherEarnings
		byStatus[string(o.Status)]++
	}
	stats["totalRevenue"] = revenue
	stats["publisherEarnings"] = earnings
	stats["byStatus"] = byStatus

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"orders":  orders,
		"stats":   stats,
		"pagination": echo.Map{
			"page":     page,
			"pageSize": pageSize,
			"total":    total,
		},
	})
}

type updateRequest struct {
	OrderID string `json:"orderId"`
	Action  string `json:"action"`
	Payload
}

// POST /api/press-releases/orders/update
func UpdateOrder(c echo.Context) error {
	var req updateRequest
	if err := c.Bind(&req); err != nil || req.OrderID == "" || req.Action == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "orderId and action required"})
	}

	ctx := context.Background()

	order, err := scanOrder(db.Conn.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM press_release_orders WHERE id = $1`, req.OrderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "order not found"})
		}
		logging.L.Error("press release order fetch failed", zap.Error(err), zap.String("order_id", req.OrderID))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "could not fetch order"})
	}

	upd, err := Apply(order, Action(req.Action), req.Payload, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingField), errors.Is(err, ErrUnknownAction):
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": err.Error()})
		case errors.Is(err, ErrNotAllowed):
			return c.JSON(http.StatusConflict, echo.Map{"success": false, "error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": err.Error()})
	}

	if err := persistUpdate(ctx, req.OrderID, string(order.Status), upd); err != nil {
		logging.L.Error("press release order update failed", zap.Error(err), zap.String("order_id", req.OrderID))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to update order"})
	}

	// Refund requests and disputes need staff follow-up (best-effort).
	if upd.Status == StatusRefundRequested || upd.Status == StatusDisputed {
		_ = alerts.EnqueueOrderAttention(req.OrderID, "press_release", string(upd.Status), req.Reason)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"orderId": req.OrderID,
		"status":  upd.Status,
	})
}

// persistUpdate writes the transition guarded by the status the decision was
// made against, so two admins racing on the same order cannot both win.
func persistUpdate(ctx context.Context, orderID, fromStatus string, upd Update) error {
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
	args = append(args, orderID, fromStatus)

	tag, err := db.Conn.Exec(ctx,
		fmt.Sprintf(`UPDATE press_release_orders SET %s WHERE id = $%d AND status = $%d`,
			set, len(args)-1, len(args)),
		args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("order changed concurrently")
	}
	return nil
}
