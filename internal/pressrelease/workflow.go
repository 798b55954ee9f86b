package pressrelease

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Action is an admin-triggered workflow transition.
type Action string

const (
	ActionMarkPaid               Action = "mark_paid"
	ActionStartWriting           Action = "start_writing"
	ActionSubmitArticle          Action = "submit_article"
	ActionRequestArticleRevision Action = "request_article_revision"
	ActionApproveArticle         Action = "approve_article"
	ActionSubmitPublished        Action = "submit_published"
	ActionRequestRevision        Action = "request_revision"
	ActionCompleteOrder          Action = "complete_order"
	ActionReject                 Action = "reject"
	ActionCancel                 Action = "cancel"
	ActionRefundRequest          Action = "refund_request"
	ActionDispute                Action = "dispute"
	ActionRefund                 Action = "refund"
)

// Payload carries the optional fields an action may require.
type Payload struct {
	ArticleDocURL  string `json:"articleDocUrl"`
	PublishedURL   string `json:"publishedUrl"`
	Reason         string `json:"reason"`
	RefundedAmount *int64 `json:"refundedAmount"`
}

var (
	// ErrMissingField marks a request missing a required payload field.
	ErrMissingField = errors.New("missing required field")
	// ErrNotAllowed marks a transition whose precondition is unmet.
	ErrNotAllowed = errors.New("transition not allowed")
	// ErrUnknownAction marks an action outside the workflow table.
	ErrUnknownAction = errors.New("unknown action")
)

// Update is the set of column changes a transition produces. Nothing is
// persisted when Apply returns an error.
type Update struct {
	Status  Status
	Changes map[string]any
}

// Apply evaluates one admin action against an order snapshot and returns the
// resulting update. Preconditions follow the workflow contract exactly; a
// failed precondition mutates nothing.
func Apply(o Order, action Action, p Payload, now time.Time) (Update, error) {
	switch action {
	case ActionMarkPaid:
		if o.Status != StatusPendingPayment {
			return Update{}, fmt.Errorf("%w: order is not awaiting payment", ErrNotAllowed)
		}
		return update(StatusPaid, "paid_at", now), nil

	case ActionStartWriting:
		if !o.RequestContentWriting {
			return Update{}, fmt.Errorf("%w: content writing was not requested", ErrNotAllowed)
		}
		if o.ArticleStartedAt != nil {
			return Update{}, fmt.Errorf("%w: writing already started", ErrNotAllowed)
		}
		if o.Status != StatusPaid {
			return Update{}, fmt.Errorf("%w: order must be paid before writing starts", ErrNotAllowed)
		}
		return update(StatusArticleWriting, "article_started_at", now), nil

	case ActionSubmitArticle:
		if strings.TrimSpace(p.ArticleDocURL) == "" {
			return Update{}, fmt.Errorf("%w: articleDocUrl", ErrMissingField)
		}
		if o.Status.Terminal() {
			return Update{}, fmt.Errorf("%w: order is closed", ErrNotAllowed)
		}
		if o.ArticleStartedAt == nil {
			return Update{}, fmt.Errorf("%w: writing has not started", ErrNotAllowed)
		}
		if o.ArticleSubmittedAt != nil && o.Status != StatusArticleRevisionRequested {
			return Update{}, fmt.Errorf("%w: article already submitted", ErrNotAllowed)
		}
		u := update(StatusArticleSubmitted,
			"article_submitted_at", now,
			"article_doc_url", p.ArticleDocURL)
		if o.ArticleSubmittedAt != nil {
			u.Changes["article_revision_count"] = o.ArticleRevisionCount + 1
		}
		return u, nil

	case ActionRequestArticleRevision:
		if strings.TrimSpace(p.Reason) == "" {
			return Update{}, fmt.Errorf("%w: reason", ErrMissingField)
		}
		if o.Status != StatusArticleSubmitted {
			return Update{}, fmt.Errorf("%w: no submitted article to revise", ErrNotAllowed)
		}
		return update(StatusArticleRevisionRequested, "revision_reason", p.Reason), nil

	case ActionApproveArticle:
		if o.Status.Terminal() {
			return Update{}, fmt.Errorf("%w: order is closed", ErrNotAllowed)
		}
		if o.ArticleSubmittedAt == nil {
			return Update{}, fmt.Errorf("%w: article has not been submitted", ErrNotAllowed)
		}
		if o.ArticleApprovedAt != nil {
			return Update{}, fmt.Errorf("%w: article already approved", ErrNotAllowed)
		}
		if o.Status == StatusArticleRevisionRequested {
			return Update{}, fmt.Errorf("%w: a revision is outstanding", ErrNotAllowed)
		}
		return update(StatusArticleApproved, "article_approved_at", now), nil

	case ActionSubmitPublished:
		if strings.TrimSpace(p.PublishedURL) == "" {
			return Update{}, fmt.Errorf("%w: publishedUrl", ErrMissingField)
		}
		if o.Status.Terminal() {
			return Update{}, fmt.Errorf("%w: order is closed", ErrNotAllowed)
		}
		if o.RequestContentWriting && o.ArticleApprovedAt == nil {
			return Update{}, fmt.Errorf("%w: article must be approved first", ErrNotAllowed)
		}
		if o.PublishedURL != nil && o.Status != StatusRevisionRequested {
			return Update{}, fmt.Errorf("%w: already published", ErrNotAllowed)
		}
		u := update(StatusSubmitted,
			"submitted_at", now,
			"published_url", p.PublishedURL)
		if o.PublishedURL != nil {
			u.Changes["revision_count"] = o.RevisionCount + 1
		}
		return u, nil

	case ActionRequestRevision:
		if strings.TrimSpace(p.Reason) == "" {
			return Update{}, fmt.Errorf("%w: reason", ErrMissingField)
		}
		if o.Status != StatusSubmitted {
			return Update{}, fmt.Errorf("%w: nothing submitted to revise", ErrNotAllowed)
		}
		return update(StatusRevisionRequested, "revision_reason", p.Reason), nil

	case ActionCompleteOrder:
		if o.PublishedURL == nil {
			return Update{}, fmt.Errorf("%w: no published URL", ErrNotAllowed)
		}
		if o.Status == StatusCompleted || o.Status == StatusRevisionRequested {
			return Update{}, fmt.Errorf("%w: order cannot be completed from %s", ErrNotAllowed, o.Status)
		}
		if o.Status.Terminal() {
			return Update{}, fmt.Errorf("%w: order is closed", ErrNotAllowed)
		}
		return update(StatusCompleted, "completed_at", now), nil

	case ActionReject:
		if strings.TrimSpace(p.Reason) == "" {
			return Update{}, fmt.Errorf("%w: reason", ErrMissingField)
		}
		if o.Status.Terminal() {
			return Update{}, fmt.Errorf("%w: order is closed", ErrNotAllowed)
		}
		return update(StatusRejected,
			"rejected_at", now,
			"rejection_reason", p.Reason), nil

	case ActionCancel:
		if strings.TrimSpace(p.Reason) == "" {
			return Update{}, fmt.Errorf("%w: reason", ErrMissingField)
		}
		if o.Status.Terminal() {
			return Update{}, fmt.Errorf("%w: order is closed", ErrNotAllowed)
		}
		return update(StatusCancelled,
			"cancelled_at", now,
			"cancel_reason", p.Reason), nil

	case ActionRefundRequest:
		if strings.TrimSpace(p.Reason) == "" {
			return Update{}, fmt.Errorf("%w: reason", ErrMissingField)
		}
		if o.Status.Terminal() {
			return Update{}, fmt.Errorf("%w: order is closed", ErrNotAllowed)
		}
		return update(StatusRefundRequested, "refund_reason", p.Reason), nil

	case ActionDispute:
		if o.Status.Terminal() {
			return Update{}, fmt.Errorf("%w: order is closed", ErrNotAllowed)
		}
		return update(StatusDisputed), nil

	case ActionRefund:
		if strings.TrimSpace(p.Reason) == "" {
			return Update{}, fmt.Errorf("%w: reason", ErrMissingField)
		}
		if o.Status.Terminal() {
			return Update{}, fmt.Errorf("%w: order is closed", ErrNotAllowed)
		}
		if o.PaidAt == nil && o.Status == StatusPendingPayment {
			return Update{}, fmt.Errorf("%w: nothing was paid", ErrNotAllowed)
		}
		u := update(StatusRefunded,
			"refunded_at", now,
			"refund_reason", p.Reason)
		if p.RefundedAmount != nil {
			u.Changes["refunded_amount"] = *p.RefundedAmount
		}
		return u, nil
	}

	return Update{}, fmt.Errorf("%w: %s", ErrUnknownAction, action)
}

func update(status Status, kv ...any) Update {
	changes := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		changes[kv[i].(string)] = kv[i+1]
	}
	return Update{Status: status, Changes: changes}
}
