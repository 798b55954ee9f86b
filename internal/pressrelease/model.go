package pressrelease

import "time"

// Status is the closed set of press-release order states.
type Status string

const (
	StatusPendingPayment           Status = "pending_payment"
	StatusPaid                     Status = "paid"
	StatusArticleWriting           Status = "article_writing"
	StatusArticleSubmitted         Status = "article_submitted"
	StatusArticleRevisionRequested Status = "article_revision_requested"
	StatusArticleApproved          Status = "article_approved"
	StatusSubmitted                Status = "submitted"
	StatusRevisionRequested        Status = "revision_requested"
	StatusCompleted                Status = "completed"
	StatusCancelled                Status = "cancelled"
	StatusRefunded                 Status = "refunded"
	StatusRefundRequested          Status = "refund_requested"
	StatusDisputed                 Status = "disputed"
	StatusRejected                 Status = "rejected"
)

// Terminal reports whether no further transitions are allowed from s.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusRefunded, StatusRejected:
		return true
	}
	return false
}

// Order is a press-release order as the workflow sees it. Timestamps are
// append-only: a field set once is never cleared, resubmissions post-date it.
type Order struct {
	ID                    string     `json:"id"`
	BuyerID               string     `json:"buyer_id"`
	PublisherID           *string    `json:"publisher_id"`
	DomainID              *string    `json:"domain_id"`
	TotalPrice            int64      `json:"total_price"`
	PlatformFee           int64      `json:"platform_fee"`
	PublisherEarnings     int64      `json:"publisher_earnings"`
	Status                Status     `json:"status"`
	RequestContentWriting bool       `json:"request_content_writing"`
	ArticleDocURL         *string    `json:"article_doc_url"`
	PublishedURL          *string    `json:"published_url"`
	ArticleRevisionCount  int        `json:"article_revision_count"`
	RevisionCount         int        `json:"revision_count"`
	RevisionReason        *string    `json:"revision_reason"`
	RejectionReason       *string    `json:"rejection_reason"`
	CancelReason          *string    `json:"cancel_reason"`
	RefundReason          *string    `json:"refund_reason"`
	RefundedAmount        *int64     `json:"refunded_amount"`
	PaidAt                *time.Time `json:"paid_at"`
	ArticleStartedAt      *time.Time `json:"article_started_at"`
	ArticleSubmittedAt    *time.Time `json:"article_submitted_at"`
	ArticleApprovedAt     *time.Time `json:"article_approved_at"`
	SubmittedAt           *time.Time `json:"submitted_at"`
	CompletedAt           *time.Time `json:"completed_at"`
	CancelledAt           *time.Time `json:"cancelled_at"`
	RefundedAt            *time.Time `json:"refunded_at"`
	RejectedAt            *time.Time `json:"rejected_at"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}
