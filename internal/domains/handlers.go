package domains

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rajasaad7/linkboard/internal/db"
	"github.com/rajasaad7/linkboard/internal/logging"
)

const pageSize = 20

type domainRow struct {
	Domain
	ApprovalCounts ApprovalCounts `json:"approvalCounts"`
}

// GET /api/domains?status=&search=&page=
func ListDomains(c echo.Context) error {
	ctx := context.Background()

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}

	query := `
		SELECT id, domain_name, owner_id, status, domain_rating, domain_authority,
		       spam_score, organic_traffic, offerings, created_at, updated_at
		FROM domains WHERE 1=1`
	args := []any{}
	if status := c.QueryParam("status"); status != "" {
		args = append(args, status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if search := c.QueryParam("search"); search != "" {
		args = append(args, "%"+search+"%")
		query += fmt.Sprintf(` AND domain_name ILIKE $%d`, len(args))
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d OFFSET %d`, pageSize, (page-1)*pageSize)

	rows, err := db.Conn.Query(ctx, query, args...)
	if err != nil {
		logging.L.Error("domain query failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "could not fetch domains"})
	}
	defer rows.Close()

	var items []domainRow
	for rows.Next() {
		var d Domain
		var raw []byte
		if err := rows.Scan(&d.ID, &d.DomainName, &d.OwnerID, &d.Status, &d.DomainRating,
			&d.DomainAuth, &d.SpamScore, &d.OrganicTraffic, &raw, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to read domain record"})
		}
		if d.Offerings, err = decodeOfferings(raw); err != nil {
			logging.L.Error("bad offerings payload", zap.Error(err), zap.String("domain_id", d.ID))
			d.Offerings = []Offering{}
		}
		items = append(items, domainRow{Domain: d, ApprovalCounts: CountApprovals(d.Offerings)})
	}

	var total int
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM domains`).Scan(&total)

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"domains": items,
		"pagination": echo.Map{
			"page":     page,
			"pageSize": pageSize,
			"total":    total,
		},
	})
}

func loadOfferings(ctx context.Context, domainID string) ([]Offering, error) {
	var raw []byte
	err := db.Conn.QueryRow(ctx, `SELECT offerings FROM domains WHERE id = $1`, domainID).Scan(&raw)
	if err != nil {
		return nil, err
	}
	return decodeOfferings(raw)
}

func storeOfferings(ctx context.Context, domainID string, offs []Offering) error {
	raw, err := json.Marshal(offs)
	if err != nil {
		return err
	}
	_, err = db.Conn.Exec(ctx,
		`UPDATE domains SET offerings = $1, updated_at = NOW() WHERE id = $2`, raw, domainID)
	return err
}

type offeringRequest struct {
	DomainID      string `json:"domainId"`
	OfferingIndex int    `json:"offeringIndex"`
	Reason        string `json:"reason"`
}

// POST /api/domains/approve-offering
func ApproveOffering(c echo.Context) error {
	var req offeringRequest
	if err := c.Bind(&req); err != nil || req.DomainID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "domainId required"})
	}

	ctx := context.Background()
	offs, err := loadOfferings(ctx, req.DomainID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "domain not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "could not fetch domain"})
	}

	changed, err := ApproveAt(offs, req.OfferingIndex)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": err.Error()})
	}
	if changed {
		if err := storeOfferings(ctx, req.DomainID, offs); err != nil {
			logging.L.Error("offering approve failed", zap.Error(err), zap.String("domain_id", req.DomainID))
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to update offering"})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "domainId": req.DomainID, "offeringIndex": req.OfferingIndex})
}

// POST /api/domains/reject-offering
func RejectOffering(c echo.Context) error {
	var req offeringRequest
	if err := c.Bind(&req); err != nil || req.DomainID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "domainId required"})
	}
	if req.Reason == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "rejection reason required"})
	}

	ctx := context.Background()
	offs, err := loadOfferings(ctx, req.DomainID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "domain not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "could not fetch domain"})
	}

	if err := RejectAt(offs, req.OfferingIndex, req.Reason); err != nil {
		if errors.Is(err, ErrReasonRequired) {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": err.Error()})
		}
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": err.Error()})
	}
	if err := storeOfferings(ctx, req.DomainID, offs); err != nil {
		logging.L.Error("offering reject failed", zap.Error(err), zap.String("domain_id", req.DomainID))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to update offering"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "domainId": req.DomainID, "offeringIndex": req.OfferingIndex})
}

type bulkOfferingRequest struct {
	DomainIDs []string `json:"domainIds"`
	Reason    string   `json:"reason"`
}

// POST /api/domains/bulk-approve
func BulkApproveOfferings(c echo.Context) error {
	return bulkReview(c, true)
}

// POST /api/domains/bulk-reject
func BulkRejectOfferings(c echo.Context) error {
	return bulkReview(c, false)
}

// bulkReview applies approve/reject to every pending offering across the
// selected domains. One write per domain, fired concurrently, no atomicity
// across the batch: partial failure is reported as aggregate counts only.
func bulkReview(c echo.Context, approve bool) error {
	var req bulkOfferingRequest
	if err := c.Bind(&req); err != nil || len(req.DomainIDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "domainIds required"})
	}
	if !approve && req.Reason == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "rejection reason required"})
	}

	var processed, failed atomic.Int64
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(8)

	for _, domainID := range req.DomainIDs {
		domainID := domainID
		g.Go(func() error {
			offs, err := loadOfferings(ctx, domainID)
			if err != nil {
				failed.Add(1)
				return nil
			}
			pending := PendingIndexes(offs)
			if len(pending) == 0 {
				return nil
			}
			for _, idx := range pending {
				if approve {
					_, _ = ApproveAt(offs, idx)
				} else {
					_ = RejectAt(offs, idx, req.Reason)
				}
			}
			if err := storeOfferings(ctx, domainID, offs); err != nil {
				logging.L.Error("bulk review write failed", zap.Error(err), zap.String("domain_id", domainID))
				failed.Add(int64(len(pending)))
				return nil
			}
			processed.Add(int64(len(pending)))
			return nil
		})
	}
	_ = g.Wait()

	return c.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"processed": processed.Load(),
		"failed":    failed.Load(),
	})
}

type bulkUpdateRequest struct {
	Updates []MetricUpdate `json:"updates"`
	Text    string         `json:"text"`
}

// POST /api/domains/bulk-update
func BulkUpdateMetrics(c echo.Context) error {
	var req bulkUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid payload"})
	}

	updates := req.Updates
	if len(updates) == 0 && req.Text != "" {
		updates = ParseMetricRows(req.Text)
	}
	if len(updates) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "no updates provided"})
	}

	ctx := context.Background()
	updated := 0
	var warnings []string

	// Matched domains are patched even when other rows fail: the import is
	// deliberately not transactional.
	for _, u := range updates {
		if u.DomainName == "" {
			continue
		}
		tag, err := db.Conn.Exec(ctx, `
			UPDATE domains SET
				domain_rating = COALESCE($2, domain_rating),
				domain_authority = COALESCE($3, domain_authority),
				spam_score = COALESCE($4, spam_score),
				organic_traffic = COALESCE($5, organic_traffic),
				updated_at = NOW()
			WHERE lower(domain_name) = lower($1)`,
			u.DomainName, u.DomainRating, u.DomainAuth, u.SpamScore, u.OrganicTraffic)
		if err != nil {
			logging.L.Error("metric update failed", zap.Error(err), zap.String("domain", u.DomainName))
			warnings = append(warnings, fmt.Sprintf("update failed: %s", u.DomainName))
			continue
		}
		if tag.RowsAffected() == 0 {
			warnings = append(warnings, fmt.Sprintf("domain not found: %s", u.DomainName))
			continue
		}
		updated++
	}

	resp := echo.Map{"success": true, "updatedCount": updated}
	if len(warnings) > 0 {
		resp["warnings"] = warnings
	}
	return c.JSON(http.StatusOK, resp)
}
