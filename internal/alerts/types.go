package alerts

import "time"

// Task type constants
const (
	TaskPayoutSettled   = "email:payout_settled"
	TaskPayoutFailed    = "email:payout_failed"
	TaskOrderAttention  = "email:order_attention"
	TaskContactReceived = "email:contact_received"
	TaskBugReceived     = "email:bug_received"
)

// EmailEnvelope is the common shape for email-like notifications.
type EmailEnvelope struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// PayoutSettledPayload notifies a publisher their payout was sent.
type PayoutSettledPayload struct {
	PayoutID       string        `json:"payout_id"`
	PublisherID    string        `json:"publisher_id"`
	Email          string        `json:"email"`
	Amount         int64         `json:"amount"`
	TransactionRef string        `json:"transaction_ref"`
	Envelope       EmailEnvelope `json:"envelope"`
	SentAt         time.Time     `json:"sent_at"`
}

// PayoutFailedPayload notifies a publisher their payout could not be sent.
type PayoutFailedPayload struct {
	PayoutID    string        `json:"payout_id"`
	PublisherID string        `json:"publisher_id"`
	Email       string        `json:"email"`
	Amount      int64         `json:"amount"`
	Reason      string        `json:"reason"`
	Envelope    EmailEnvelope `json:"envelope"`
	SentAt      time.Time     `json:"sent_at"`
}

// OrderAttentionPayload flags an order needing staff follow-up
// (refund requested, disputed).
type OrderAttentionPayload struct {
	OrderID   string        `json:"order_id"`
	OrderKind string        `json:"order_kind"` // marketplace|press_release
	Status    string        `json:"status"`
	Reason    string        `json:"reason"`
	Envelope  EmailEnvelope `json:"envelope"`
	SentAt    time.Time     `json:"sent_at"`
}

// ContactReceivedPayload acknowledges a contact submission.
type ContactReceivedPayload struct {
	ContactID string        `json:"contact_id"`
	Email     string        `json:"email"`
	Subject   string        `json:"subject"`
	Envelope  EmailEnvelope `json:"envelope"`
	SentAt    time.Time     `json:"sent_at"`
}

// BugReceivedPayload alerts staff about a new bug report.
type BugReceivedPayload struct {
	BugID    string        `json:"bug_id"`
	Title    string        `json:"title"`
	Severity string        `json:"severity"`
	Envelope EmailEnvelope `json:"envelope"`
	SentAt   time.Time     `json:"sent_at"`
}
