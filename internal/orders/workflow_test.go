package orders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func TestTransitionTable(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		reason  string
		allowed bool
	}{
		{StatusPending, StatusInProgress, "", true},
		{StatusPending, StatusDelivered, "", false},
		{StatusPending, StatusCompleted, "", false},
		{StatusInProgress, StatusDelivered, "", true},
		{StatusDelivered, StatusCompleted, "", true},
		{StatusDelivered, StatusInProgress, "", true},
		{StatusCompleted, StatusRefunded, "chargeback", true},
		{StatusCompleted, StatusInProgress, "", false},
		{StatusDisputed, StatusCompleted, "", true},
		{StatusCancelled, StatusInProgress, "", false},
		{StatusRefunded, StatusCompleted, "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			_, err := Transition(Order{Status: tt.from}, tt.to, tt.reason, nil, now)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrNotAllowed)
			}
		})
	}
}

func TestTransitionUnknownStatus(t *testing.T) {
	_, err := Transition(Order{Status: StatusPending}, Status("shipped"), "", nil, now)
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestCancelAndRefundRequireReason(t *testing.T) {
	_, err := Transition(Order{Status: StatusInProgress}, StatusCancelled, "", nil, now)
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = Transition(Order{Status: StatusInProgress}, StatusRefunded, "   ", nil, now)
	assert.ErrorIs(t, err, ErrMissingField)

	upd, err := Transition(Order{Status: StatusInProgress}, StatusCancelled, "publisher unresponsive", nil, now)
	require.NoError(t, err)
	assert.Equal(t, "publisher unresponsive", upd.Changes["reason"])
	assert.Equal(t, now, upd.Changes["cancelled_at"])
}

func TestRefundRecordsAmount(t *testing.T) {
	amount := int64(7500)
	upd, err := Transition(Order{Status: StatusDisputed}, StatusRefunded, "resolution: refund", &amount, now)
	require.NoError(t, err)
	assert.Equal(t, StatusRefunded, upd.Status)
	assert.Equal(t, int64(7500), upd.Changes["refund_amount"])
	assert.Equal(t, now, upd.Changes["refunded_at"])
}

func TestTimestampsStampedPerStage(t *testing.T) {
	upd, err := Transition(Order{Status: StatusPending}, StatusInProgress, "", nil, now)
	require.NoError(t, err)
	assert.Equal(t, now, upd.Changes["accepted_at"])

	upd, err = Transition(Order{Status: StatusInProgress}, StatusDelivered, "", nil, now)
	require.NoError(t, err)
	assert.Equal(t, now, upd.Changes["delivered_at"])

	upd, err = Transition(Order{Status: StatusDelivered}, StatusCompleted, "", nil, now)
	require.NoError(t, err)
	assert.Equal(t, now, upd.Changes["completed_at"])
}

func TestStats(t *testing.T) {
	orders := []Order{
		{Status: StatusCompleted, TotalPrice: 10000, PlatformFee: 2000, PublisherEarnings: 8000},
		{Status: StatusCompleted, TotalPrice: 5000, PlatformFee: 1000, PublisherEarnings: 4000},
		{Status: StatusPending, TotalPrice: 3000, PlatformFee: 600, PublisherEarnings: 2400},
	}

	stats := Stats(orders)
	assert.Equal(t, int64(18000), stats["totalRevenue"])
	assert.Equal(t, int64(3600), stats["platformFees"])
	assert.Equal(t, map[string]int{"completed": 2, "pending": 1}, stats["byStatus"])
}
