package domains

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApprovalStateJSON(t *testing.T) {
	tests := []struct {
		state ApprovalState
		wire  string
	}{
		{ApprovalPending, "null"},
		{ApprovalApproved, "true"},
		{ApprovalRejected, "false"},
	}

	for _, tt := range tests {
		b, err := json.Marshal(tt.state)
		require.NoError(t, err)
		assert.Equal(t, tt.wire, string(b))

		var back ApprovalState
		require.NoError(t, json.Unmarshal([]byte(tt.wire), &back))
		assert.Equal(t, tt.state, back)
	}

	var s ApprovalState
	assert.Error(t, json.Unmarshal([]byte(`"yes"`), &s))
}

func TestOfferingRoundTripKeepsPending(t *testing.T) {
	offs := []Offering{
		{PublisherID: "pub-1", GuestPost: true, GuestPostPrice: 12000},
		{PublisherID: "pub-2", AdminApproved: ApprovalRejected, RejectionReason: "thin content"},
	}

	raw, err := json.Marshal(offs)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"adminApproved":null`)

	back, err := decodeOfferings(raw)
	require.NoError(t, err)
	assert.Equal(t, ApprovalPending, back[0].AdminApproved)
	assert.Equal(t, ApprovalRejected, back[1].AdminApproved)
}

func TestApproveAtIsIdempotent(t *testing.T) {
	offs := []Offering{
		{PublisherID: "pub-1", AdminApproved: ApprovalRejected, RejectionReason: "spammy"},
	}

	changed, err := ApproveAt(offs, 0)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, ApprovalApproved, offs[0].AdminApproved)
	assert.Empty(t, offs[0].RejectionReason, "approval clears stale rejection reason")

	changed, err = ApproveAt(offs, 0)
	require.NoError(t, err)
	assert.False(t, changed, "approving an approved offering is a no-op")
}

func TestApproveAtOutOfRange(t *testing.T) {
	offs := []Offering{{PublisherID: "pub-1"}}

	_, err := ApproveAt(offs, 1)
	assert.ErrorIs(t, err, ErrOfferingNotFound)
	_, err = ApproveAt(offs, -1)
	assert.ErrorIs(t, err, ErrOfferingNotFound)
}

func TestRejectAtRequiresReason(t *testing.T) {
	offs := []Offering{{PublisherID: "pub-1"}}

	err := RejectAt(offs, 0, "  ")
	assert.ErrorIs(t, err, ErrReasonRequired)
	assert.Equal(t, ApprovalPending, offs[0].AdminApproved, "failed reject must not mutate")

	require.NoError(t, RejectAt(offs, 0, "broken outbound links"))
	assert.Equal(t, ApprovalRejected, offs[0].AdminApproved)
	assert.Equal(t, "broken outbound links", offs[0].RejectionReason)
}

func TestPendingIndexes(t *testing.T) {
	offs := []Offering{
		{AdminApproved: ApprovalApproved},
		{AdminApproved: ApprovalPending},
		{AdminApproved: ApprovalRejected},
		{AdminApproved: ApprovalPending},
	}
	assert.Equal(t, []int{1, 3}, PendingIndexes(offs))
}

func TestCountApprovals(t *testing.T) {
	offs := []Offering{
		{AdminApproved: ApprovalApproved},
		{AdminApproved: ApprovalApproved},
		{AdminApproved: ApprovalRejected},
		{},
	}
	c := CountApprovals(offs)
	assert.Equal(t, ApprovalCounts{Approved: 2, Rejected: 1, Pending: 1}, c)
}

// The reject route must fail fast on a missing reason, before any lookup.
func TestRejectOfferingHandlerRequiresReason(t *testing.T) {
	e := echo.New()
	body := `{"domainId":"d0a6de1c-0000-0000-0000-000000000001","offeringIndex":0}`
	req := httptest.NewRequest(http.MethodPost, "/api/domains/reject-offering", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := RejectOffering(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "reason")
}
