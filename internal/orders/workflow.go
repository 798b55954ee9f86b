package orders

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotAllowed marks a transition absent from the table.
	ErrNotAllowed = errors.New("transition not allowed")
	// ErrMissingField marks a request missing a required field.
	ErrMissingField = errors.New("missing required field")
	// ErrUnknownStatus marks a target outside the closed status set.
	ErrUnknownStatus = errors.New("unknown status")
)

// transitions is the from-state x target table. A target missing from the
// row is denied; cancelled and refunded are terminal.
var transitions = map[Status][]Status{
	StatusPending:    {StatusInProgress, StatusCancelled, StatusDisputed},
	StatusInProgress: {StatusDelivered, StatusCancelled, StatusRefunded, StatusDisputed},
	StatusDelivered:  {StatusCompleted, StatusInProgress, StatusCancelled, StatusRefunded, StatusDisputed},
	StatusCompleted:  {StatusRefunded, StatusDisputed},
	StatusDisputed:   {StatusCompleted, StatusCancelled, StatusRefunded},
	StatusCancelled:  {},
	StatusRefunded:   {},
}

// timestampColumns maps each entered state to the column stamped on entry.
var timestampColumns = map[Status]string{
	StatusInProgress: "accepted_at",
	StatusDelivered:  "delivered_at",
	StatusCompleted:  "completed_at",
	StatusCancelled:  "cancelled_at",
	StatusRefunded:   "refunded_at",
}

// Update is the column set a valid transition produces.
type Update struct {
	Status  Status
	Changes map[string]any
}

// Transition validates target against the table and returns the update to
// persist. Cancellations and refunds require a reason; refunds may carry an
// explicit refunded amount.
func Transition(o Order, target Status, reason string, refundAmount *int64, now time.Time) (Update, error) {
	if _, ok := transitions[target]; !ok {
		return Update{}, fmt.Errorf("%w: %s", ErrUnknownStatus, target)
	}
	allowed := false
	for _, t := range transitions[o.Status] {
		if t == target {
			allowed = true
			break
		}
	}
	if !allowed {
		return Update{}, fmt.Errorf("%w: %s -> %s", ErrNotAllowed, o.Status, target)
	}

	if (target == StatusCancelled || target == StatusRefunded) && strings.TrimSpace(reason) == "" {
		return Update{}, fmt.Errorf("%w: reason", ErrMissingField)
	}

	changes := map[string]any{}
	if col, ok := timestampColumns[target]; ok {
		changes[col] = now
	}
	if reason != "" {
		changes["reason"] = reason
	}
	if target == StatusRefunded && refundAmount != nil {
		changes["refund_amount"] = *refundAmount
	}
	return Update{Status: target, Changes: changes}, nil
}
