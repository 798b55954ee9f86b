package payouts

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajasaad7/linkboard/internal/db"
)

// Every payouts column the handlers select must exist in the table the app
// bootstraps itself; a rename on either side has to show up here.
func TestPayoutColumnsMatchSchema(t *testing.T) {
	for _, col := range strings.Split(payoutColumns, ",") {
		col = strings.TrimPrefix(strings.TrimSpace(col), "p.")
		assert.Contains(t, db.PayoutTableDDL, col+" ", "column %q missing from payouts DDL", col)
	}
}

func TestPayoutListOrdersByRequestTime(t *testing.T) {
	assert.Contains(t, payoutColumns, "p.requested_at")
	assert.NotContains(t, payoutColumns, "created_at")
}

func postJSON(t *testing.T, path, body string, h echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec
}

// Validation must fail fast, before any lookup.
func TestMarkPaidRequiresPayoutID(t *testing.T) {
	rec := postJSON(t, "/api/payouts/mark-paid", `{"transactionRef":"tx-1"}`, MarkPaid)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "payoutId")
}

func TestMarkFailedRequiresPayoutID(t *testing.T) {
	rec := postJSON(t, "/api/payouts/mark-failed", `{"reason":"bank rejected"}`, MarkFailed)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "payoutId")
}

func TestMarkFailedRequiresReason(t *testing.T) {
	body := `{"payoutId":"7d6ce5a0-0000-0000-0000-000000000001"}`
	rec := postJSON(t, "/api/payouts/mark-failed", body, MarkFailed)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "reason")
}

func TestStats(t *testing.T) {
	payouts := []Payout{
		{Status: "pending", Amount: 5000},
		{Status: "pending", Amount: 2500},
		{Status: "paid", Amount: 10000},
		{Status: "failed", Amount: 9999},
	}

	s := Stats(payouts)
	assert.Equal(t, 4, s["total"])
	assert.Equal(t, 2, s["pendingCount"])
	assert.Equal(t, int64(7500), s["pendingTotal"])
	assert.Equal(t, int64(10000), s["paidTotal"])
}

func TestStatsEmpty(t *testing.T) {
	s := Stats(nil)
	assert.Equal(t, 0, s["total"])
	assert.Equal(t, int64(0), s["pendingTotal"])
}
