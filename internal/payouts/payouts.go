package payouts

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/rajasaad7/linkboard/internal/alerts"
	"github.com/rajasaad7/linkboard/internal/db"
	"github.com/rajasaad7/linkboard/internal/logging"
)

type Payout struct {
	ID             string     `json:"id"`
	PublisherID    string     `json:"publisher_id"`
	PublisherEmail string     `json:"publisher_email"`
	Amount         int64      `json:"amount"`
	Method         string     `json:"method"`
	Status         string     `json:"status"`
	TransactionRef *string    `json:"transaction_ref"`
	FailureReason  *string    `json:"failure_reason"`
	RequestedAt    time.Time  `json:"requested_at"`
	PaidAt         *time.Time `json:"paid_at"`
	FailedAt       *time.Time `json:"failed_at"`
}

// payoutColumns lists every payouts column the queries below touch; the
// package tests check each one against the table DDL in internal/db.
const payoutColumns = `p.id, p.publisher_id, p.amount, p.method, p.status,
	p.transaction_ref, p.failure_reason, p.requested_at, p.paid_at, p.failed_at`

// GET /api/payouts?status=
func ListPayouts(c echo.Context) error {
	query := `
		SELECT ` + payoutColumns + `, COALESCE(u.email, '')
		FROM payouts p
		LEFT JOIN users u ON u.id = p.publisher_id
		WHERE 1=1`
	args := []any{}
	if status := c.QueryParam("status"); status != "" {
		args = append(args, status)
		query += fmt.Sprintf(` AND p.status = $%d`, len(args))
	}
	query += ` ORDER BY p.requested_at DESC`

	rows, err := db.Conn.Query(context.Background(), query, args...)
	if err != nil {
		logging.L.Error("payout query failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "could not fetch payouts"})
	}
	defer rows.Close()

	var items []Payout
	for rows.Next() {
		var p Payout
		if err := rows.Scan(&p.ID, &p.PublisherID, &p.Amount, &p.Method, &p.Status,
			&p.TransactionRef, &p.FailureReason, &p.RequestedAt, &p.PaidAt, &p.FailedAt,
			&p.PublisherEmail); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to read payout record"})
		}
		items = append(items, p)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"payouts": items,
		"stats":   Stats(items),
	})
}

// Stats sums pending and settled amounts over an already-fetched payout slice.
func Stats(payouts []Payout) echo.Map {
	var pendingTotal, paidTotal int64
	var pendingCount int
	for _, p := range payouts {
		switch p.Status {
		case "pending":
			pendingTotal += p.Amount
			pendingCount++
		case "paid":
			paidTotal += p.Amount
		}
	}
	return echo.Map{
		"total":        len(payouts),
		"pendingCount": pendingCount,
		"pendingTotal": pendingTotal,
		"paidTotal":    paidTotal,
	}
}

type markPaidRequest struct {
	PayoutID       string `json:"payoutId"`
	TransactionRef string `json:"transactionRef"`
}

// POST /api/payouts/mark-paid
//
// Only pending payouts can be settled; the status guard in the UPDATE
// keeps two admins from settling the same payout twice.
func MarkPaid(c echo.Context) error {
	var req markPaidRequest
	if err := c.Bind(&req); err != nil || req.PayoutID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "payoutId is required"})
	}
	if req.TransactionRef == "" {
		req.TransactionRef = uuid.NewString()
	}

	ctx := context.Background()
	var publisherID string
	var amount int64
	err := db.Conn.QueryRow(ctx, `
		UPDATE payouts
		SET status = 'paid', paid_at = NOW(), transaction_ref = $2
		WHERE id = $1 AND status = 'pending'
		RETURNING publisher_id, amount
	`, req.PayoutID, req.TransactionRef).Scan(&publisherID, &amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusConflict, echo.Map{"success": false, "error": "payout is not pending"})
		}
		logging.L.Error("payout settle failed", zap.Error(err), zap.String("payout_id", req.PayoutID))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to settle payout"})
	}

	notifyPublisher(ctx, publisherID, func(email string) {
		_ = alerts.EnqueuePayoutSettled(req.PayoutID, publisherID, email, amount, req.TransactionRef)
	})

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "payout marked as paid", "payout_id": req.PayoutID})
}

type markFailedRequest struct {
	PayoutID string `json:"payoutId"`
	Reason   string `json:"reason"`
}

// POST /api/payouts/mark-failed
func MarkFailed(c echo.Context) error {
	var req markFailedRequest
	if err := c.Bind(&req); err != nil || req.PayoutID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "payoutId is required"})
	}
	if req.Reason == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "a failure reason is required"})
	}

	ctx := context.Background()
	var publisherID string
	var amount int64
	err := db.Conn.QueryRow(ctx, `
		UPDATE payouts
		SET status = 'failed', failed_at = NOW(), failure_reason = $2
		WHERE id = $1 AND status = 'pending'
		RETURNING publisher_id, amount
	`, req.PayoutID, req.Reason).Scan(&publisherID, &amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusConflict, echo.Map{"success": false, "error": "payout is not pending"})
		}
		logging.L.Error("payout fail-mark failed", zap.Error(err), zap.String("payout_id", req.PayoutID))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to update payout"})
	}

	notifyPublisher(ctx, publisherID, func(email string) {
		_ = alerts.EnqueuePayoutFailed(req.PayoutID, publisherID, email, amount, req.Reason)
	})

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "payout marked as failed", "payout_id": req.PayoutID})
}

func notifyPublisher(ctx context.Context, publisherID string, send func(email string)) {
	var email string
	if err := db.Conn.QueryRow(ctx, `SELECT email FROM users WHERE id = $1`, publisherID).Scan(&email); err != nil {
		logging.L.Warn("publisher email lookup failed", zap.Error(err), zap.String("publisher_id", publisherID))
		return
	}
	send(email)
}
