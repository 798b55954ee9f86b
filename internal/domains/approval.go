package domains

import (
	"errors"
	"strings"
)

var (
	// ErrOfferingNotFound marks an offering index outside the array.
	ErrOfferingNotFound = errors.New("offering not found")
	// ErrReasonRequired marks a rejection without a reason.
	ErrReasonRequired = errors.New("rejection reason required")
)

// ApproveAt marks the offering at idx approved. Approving an already-approved
// offering is a no-op; the bool reports whether anything changed.
func ApproveAt(offs []Offering, idx int) (bool, error) {
	if idx < 0 || idx >= len(offs) {
		return false, ErrOfferingNotFound
	}
	if offs[idx].AdminApproved == ApprovalApproved {
		return false, nil
	}
	offs[idx].AdminApproved = ApprovalApproved
	offs[idx].RejectionReason = ""
	return true, nil
}

// RejectAt marks the offering at idx rejected with the given reason.
func RejectAt(offs []Offering, idx int, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return ErrReasonRequired
	}
	if idx < 0 || idx >= len(offs) {
		return ErrOfferingNotFound
	}
	offs[idx].AdminApproved = ApprovalRejected
	offs[idx].RejectionReason = reason
	return nil
}

// PendingIndexes lists the offerings still awaiting review.
func PendingIndexes(offs []Offering) []int {
	var idxs []int
	for i, o := range offs {
		if o.AdminApproved == ApprovalPending {
			idxs = append(idxs, i)
		}
	}
	return idxs
}
