package pressrelease

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func paidOrder() Order {
	return Order{
		ID:     "ord-1",
		Status: StatusPaid,
		PaidAt: ptr(now.Add(-time.Hour)),
	}
}

func TestCompleteOrderRequiresPublishedURL(t *testing.T) {
	o := paidOrder()
	o.Status = StatusSubmitted

	_, err := Apply(o, ActionCompleteOrder, Payload{}, now)
	require.ErrorIs(t, err, ErrNotAllowed)

	o.PublishedURL = ptr("https://news.example.com/post")
	upd, err := Apply(o, ActionCompleteOrder, Payload{}, now)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, upd.Status)
	assert.Equal(t, now, upd.Changes["completed_at"])
}

func TestCompleteOrderBlockedStates(t *testing.T) {
	for _, status := range []Status{StatusCompleted, StatusRevisionRequested} {
		o := paidOrder()
		o.Status = status
		o.PublishedURL = ptr("https://news.example.com/post")

		_, err := Apply(o, ActionCompleteOrder, Payload{}, now)
		assert.ErrorIs(t, err, ErrNotAllowed, "status %s", status)
	}
}

func TestSubmitArticleRequiresDocLink(t *testing.T) {
	o := paidOrder()
	o.Status = StatusArticleWriting
	o.RequestContentWriting = true
	o.ArticleStartedAt = ptr(now.Add(-time.Hour))

	upd, err := Apply(o, ActionSubmitArticle, Payload{}, now)
	require.ErrorIs(t, err, ErrMissingField)
	assert.Empty(t, upd.Changes, "failed transition must not produce changes")

	upd, err = Apply(o, ActionSubmitArticle, Payload{ArticleDocURL: "https://docs.example.com/d/1"}, now)
	require.NoError(t, err)
	assert.Equal(t, StatusArticleSubmitted, upd.Status)
	assert.Equal(t, "https://docs.example.com/d/1", upd.Changes["article_doc_url"])
	assert.NotContains(t, upd.Changes, "article_revision_count")
}

func TestSubmitArticleResubmissionIncrementsRevisionCount(t *testing.T) {
	o := paidOrder()
	o.Status = StatusArticleRevisionRequested
	o.RequestContentWriting = true
	o.ArticleStartedAt = ptr(now.Add(-2 * time.Hour))
	o.ArticleSubmittedAt = ptr(now.Add(-time.Hour))
	o.ArticleRevisionCount = 1

	upd, err := Apply(o, ActionSubmitArticle, Payload{ArticleDocURL: "https://docs.example.com/d/2"}, now)
	require.NoError(t, err)
	assert.Equal(t, 2, upd.Changes["article_revision_count"])
}

// The content-writing ladder must be climbed in the literal order
// start_writing -> submit_article -> approve_article.
func TestArticleApprovalSequence(t *testing.T) {
	o := paidOrder()
	o.RequestContentWriting = true

	_, err := Apply(o, ActionApproveArticle, Payload{}, now)
	require.ErrorIs(t, err, ErrNotAllowed, "approve before anything started")

	_, err = Apply(o, ActionSubmitArticle, Payload{ArticleDocURL: "https://docs.example.com/d/1"}, now)
	require.ErrorIs(t, err, ErrNotAllowed, "submit before writing started")

	upd, err := Apply(o, ActionStartWriting, Payload{}, now)
	require.NoError(t, err)
	o.Status = upd.Status
	o.ArticleStartedAt = ptr(now)

	_, err = Apply(o, ActionApproveArticle, Payload{}, now)
	require.ErrorIs(t, err, ErrNotAllowed, "approve before submission")

	upd, err = Apply(o, ActionSubmitArticle, Payload{ArticleDocURL: "https://docs.example.com/d/1"}, now)
	require.NoError(t, err)
	o.Status = upd.Status
	o.ArticleSubmittedAt = ptr(now)

	upd, err = Apply(o, ActionApproveArticle, Payload{}, now)
	require.NoError(t, err)
	assert.Equal(t, StatusArticleApproved, upd.Status)
}

func TestApproveArticleBlockedByOutstandingRevision(t *testing.T) {
	o := paidOrder()
	o.Status = StatusArticleRevisionRequested
	o.ArticleStartedAt = ptr(now)
	o.ArticleSubmittedAt = ptr(now)

	_, err := Apply(o, ActionApproveArticle, Payload{}, now)
	assert.ErrorIs(t, err, ErrNotAllowed)
}

func TestStartWritingPreconditions(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Order)
		wantErr bool
	}{
		{"writing requested and paid", func(o *Order) { o.RequestContentWriting = true }, false},
		{"writing not requested", func(o *Order) {}, true},
		{"already started", func(o *Order) {
			o.RequestContentWriting = true
			o.ArticleStartedAt = ptr(now)
		}, true},
		{"not yet paid", func(o *Order) {
			o.RequestContentWriting = true
			o.Status = StatusPendingPayment
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := paidOrder()
			tt.mutate(&o)
			_, err := Apply(o, ActionStartWriting, Payload{}, now)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNotAllowed)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSubmitPublished(t *testing.T) {
	t.Run("no writing requested, straight to publish", func(t *testing.T) {
		o := paidOrder()
		upd, err := Apply(o, ActionSubmitPublished, Payload{PublishedURL: "https://news.example.com/a"}, now)
		require.NoError(t, err)
		assert.Equal(t, StatusSubmitted, upd.Status)
	})

	t.Run("requires URL", func(t *testing.T) {
		o := paidOrder()
		_, err := Apply(o, ActionSubmitPublished, Payload{}, now)
		assert.ErrorIs(t, err, ErrMissingField)
	})

	t.Run("writing requested but article unapproved", func(t *testing.T) {
		o := paidOrder()
		o.RequestContentWriting = true
		_, err := Apply(o, ActionSubmitPublished, Payload{PublishedURL: "https://news.example.com/a"}, now)
		assert.ErrorIs(t, err, ErrNotAllowed)
	})

	t.Run("resubmission after revision increments counter", func(t *testing.T) {
		o := paidOrder()
		o.Status = StatusRevisionRequested
		o.PublishedURL = ptr("https://news.example.com/a")
		o.RevisionCount = 0

		upd, err := Apply(o, ActionSubmitPublished, Payload{PublishedURL: "https://news.example.com/a-fixed"}, now)
		require.NoError(t, err)
		assert.Equal(t, 1, upd.Changes["revision_count"])
	})

	t.Run("already published without revision request", func(t *testing.T) {
		o := paidOrder()
		o.Status = StatusSubmitted
		o.PublishedURL = ptr("https://news.example.com/a")
		_, err := Apply(o, ActionSubmitPublished, Payload{PublishedURL: "https://news.example.com/b"}, now)
		assert.ErrorIs(t, err, ErrNotAllowed)
	})
}

func TestRequestRevisionOnlyFromSubmitted(t *testing.T) {
	for _, status := range []Status{StatusPaid, StatusCompleted, StatusArticleSubmitted} {
		o := paidOrder()
		o.Status = status
		_, err := Apply(o, ActionRequestRevision, Payload{Reason: "wrong anchor text"}, now)
		assert.ErrorIs(t, err, ErrNotAllowed, "status %s", status)
	}

	o := paidOrder()
	o.Status = StatusSubmitted
	o.PublishedURL = ptr("https://news.example.com/a")
	upd, err := Apply(o, ActionRequestRevision, Payload{Reason: "wrong anchor text"}, now)
	require.NoError(t, err)
	assert.Equal(t, StatusRevisionRequested, upd.Status)
}

func TestReasonRequiredForClosingActions(t *testing.T) {
	o := paidOrder()
	for _, action := range []Action{ActionReject, ActionCancel, ActionRefund, ActionRefundRequest, ActionRequestRevision, ActionRequestArticleRevision} {
		_, err := Apply(o, action, Payload{}, now)
		assert.ErrorIs(t, err, ErrMissingField, "action %s", action)
	}
}

func TestRefundRecordsAmount(t *testing.T) {
	o := paidOrder()
	o.Status = StatusRefundRequested

	upd, err := Apply(o, ActionRefund, Payload{Reason: "buyer request", RefundedAmount: ptr(int64(4900))}, now)
	require.NoError(t, err)
	assert.Equal(t, StatusRefunded, upd.Status)
	assert.Equal(t, int64(4900), upd.Changes["refunded_amount"])
}

func TestTerminalStatesRejectEverything(t *testing.T) {
	actions := []Action{
		ActionStartWriting, ActionSubmitArticle, ActionApproveArticle,
		ActionSubmitPublished, ActionRequestRevision, ActionCompleteOrder,
		ActionReject, ActionCancel, ActionRefund, ActionRefundRequest, ActionDispute,
	}
	payload := Payload{
		ArticleDocURL: "https://docs.example.com/d/1",
		PublishedURL:  "https://news.example.com/a",
		Reason:        "late",
	}

	for _, status := range []Status{StatusCompleted, StatusCancelled, StatusRefunded, StatusRejected} {
		o := paidOrder()
		o.Status = status
		o.PublishedURL = ptr("https://news.example.com/a")
		o.ArticleStartedAt = ptr(now)
		for _, action := range actions {
			if status == StatusCompleted && action == ActionCompleteOrder {
				continue // covered by TestCompleteOrderBlockedStates
			}
			_, err := Apply(o, action, payload, now)
			assert.Error(t, err, "action %s from %s", action, status)
		}
	}
}

func TestUnknownAction(t *testing.T) {
	_, err := Apply(paidOrder(), Action("promote"), Payload{}, now)
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestMarkPaid(t *testing.T) {
	o := paidOrder()
	o.Status = StatusPendingPayment
	o.PaidAt = nil

	upd, err := Apply(o, ActionMarkPaid, Payload{}, now)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, upd.Status)

	_, err = Apply(paidOrder(), ActionMarkPaid, Payload{}, now)
	assert.ErrorIs(t, err, ErrNotAllowed)
}
