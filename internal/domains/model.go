package domains

import (
	"encoding/json"
	"fmt"
	"time"
)

// ApprovalState is the admin review state of a publisher offering. The wire
// format stays the platform's nullable boolean: null = pending, true =
// approved, false = rejected.
type ApprovalState int

const (
	ApprovalPending ApprovalState = iota
	ApprovalApproved
	ApprovalRejected
)

func (s ApprovalState) MarshalJSON() ([]byte, error) {
	switch s {
	case ApprovalApproved:
		return []byte("true"), nil
	case ApprovalRejected:
		return []byte("false"), nil
	}
	return []byte("null"), nil
}

func (s *ApprovalState) UnmarshalJSON(b []byte) error {
	switch string(b) {
	case "null":
		*s = ApprovalPending
	case "true":
		*s = ApprovalApproved
	case "false":
		*s = ApprovalRejected
	default:
		return fmt.Errorf("invalid approval state %q", b)
	}
	return nil
}

// Offering is one publisher's terms for a domain, embedded as a JSONB array
// element on the domain row.
type Offering struct {
	PublisherID        string        `json:"publisherId"`
	GuestPost          bool          `json:"guestPost"`
	LinkInsertion      bool          `json:"linkInsertion"`
	GuestPostPrice     int64         `json:"guestPostPrice"`
	LinkInsertionPrice int64         `json:"linkInsertionPrice"`
	TurnaroundDays     int           `json:"turnaroundDays"`
	ContentRules       string        `json:"contentRules,omitempty"`
	AdminApproved      ApprovalState `json:"adminApproved"`
	RejectionReason    string        `json:"rejectionReason,omitempty"`
}

// Domain is a marketplace domain row with its embedded offerings.
type Domain struct {
	ID             string     `json:"id"`
	DomainName     string     `json:"domain_name"`
	OwnerID        *string    `json:"owner_id"`
	Status         string     `json:"status"`
	DomainRating   *int       `json:"domain_rating"`
	DomainAuth     *int       `json:"domain_authority"`
	SpamScore      *int       `json:"spam_score"`
	OrganicTraffic *int64     `json:"organic_traffic"`
	Offerings      []Offering `json:"offerings"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ApprovalCounts is the per-domain aggregate over embedded offerings.
type ApprovalCounts struct {
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Pending  int `json:"pending"`
}

// CountApprovals tallies the review state of a domain's offerings.
func CountApprovals(offs []Offering) ApprovalCounts {
	var c ApprovalCounts
	for _, o := range offs {
		switch o.AdminApproved {
		case ApprovalApproved:
			c.Approved++
		case ApprovalRejected:
			c.Rejected++
		default:
			c.Pending++
		}
	}
	return c
}

func decodeOfferings(raw []byte) ([]Offering, error) {
	if len(raw) == 0 {
		return []Offering{}, nil
	}
	var offs []Offering
	if err := json.Unmarshal(raw, &offs); err != nil {
		return nil, err
	}
	return offs, nil
}
