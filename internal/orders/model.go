package orders

import "time"

// Status is the closed set of marketplace order states.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusDelivered  Status = "delivered"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusRefunded   Status = "refunded"
	StatusDisputed   Status = "disputed"
)

// Order is a marketplace (guest post / link insertion) order.
type Order struct {
	ID                string     `json:"id"`
	BuyerID           string     `json:"buyer_id"`
	PublisherID       string     `json:"publisher_id"`
	DomainID          *string    `json:"domain_id"`
	TotalPrice        int64      `json:"total_price"`
	PlatformFee       int64      `json:"platform_fee"`
	PublisherEarnings int64      `json:"publisher_earnings"`
	Status            Status     `json:"status"`
	Reason            *string    `json:"reason"`
	RefundAmount      *int64     `json:"refund_amount"`
	AcceptedAt        *time.Time `json:"accepted_at"`
	DeliveredAt       *time.Time `json:"delivered_at"`
	CompletedAt       *time.Time `json:"completed_at"`
	CancelledAt       *time.Time `json:"cancelled_at"`
	RefundedAt        *time.Time `json:"refunded_at"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	// Joined display fields, populated on list queries.
	BuyerEmail     string `json:"buyer_email,omitempty"`
	PublisherEmail string `json:"publisher_email,omitempty"`
	DomainName     string `json:"domain_name,omitempty"`
}
