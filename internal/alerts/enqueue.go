package alerts

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

func enqueue(taskType string, payload any, queue string) error {
	if client == nil {
		return errors.New("alerts not initialized")
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = client.Enqueue(asynq.NewTask(taskType, b), asynq.Queue(queue))
	return err
}

// EnqueuePayoutSettled schedules the payout confirmation email to the publisher.
func EnqueuePayoutSettled(payoutID, publisherID, email string, amount int64, transactionRef string) error {
	env := EmailEnvelope{
		To:      email,
		Subject: "Your payout is on its way",
		Body: fmt.Sprintf("Your payout of $%.2f has been sent.\nReference: %s",
			float64(amount)/100, transactionRef),
	}
	return enqueue(TaskPayoutSettled, PayoutSettledPayload{
		PayoutID:       payoutID,
		PublisherID:    publisherID,
		Email:          email,
		Amount:         amount,
		TransactionRef: transactionRef,
		Envelope:       env,
		SentAt:         time.Now(),
	}, "emails")
}

// EnqueuePayoutFailed schedules the payout failure notice to the publisher.
func EnqueuePayoutFailed(payoutID, publisherID, email string, amount int64, reason string) error {
	env := EmailEnvelope{
		To:      email,
		Subject: "Your payout could not be processed",
		Body: fmt.Sprintf("Your payout of $%.2f failed: %s\nOur team will retry after the issue is resolved.",
			float64(amount)/100, reason),
	}
	return enqueue(TaskPayoutFailed, PayoutFailedPayload{
		PayoutID:    payoutID,
		PublisherID: publisherID,
		Email:       email,
		Amount:      amount,
		Reason:      reason,
		Envelope:    env,
		SentAt:      time.Now(),
	}, "emails")
}

// EnqueueOrderAttention flags an order that needs staff follow-up.
func EnqueueOrderAttention(orderID, orderKind, status, reason string) error {
	env := EmailEnvelope{
		To:      "support@linkboard.io",
		Subject: fmt.Sprintf("Order %s needs attention (%s)", orderID, status),
		Body:    fmt.Sprintf("Order kind: %s\nStatus: %s\nReason: %s", orderKind, status, reason),
	}
	return enqueue(TaskOrderAttention, OrderAttentionPayload{
		OrderID:   orderID,
		OrderKind: orderKind,
		Status:    status,
		Reason:    reason,
		Envelope:  env,
		SentAt:    time.Now(),
	}, "alerts")
}

// EnqueueContactReceived acknowledges a contact form submission.
func EnqueueContactReceived(contactID, email, subject string) error {
	env := EmailEnvelope{
		To:      email,
		Subject: "We received your message",
		Body:    fmt.Sprintf("Thanks for reaching out about %q. Our team will get back to you shortly.", subject),
	}
	return enqueue(TaskContactReceived, ContactReceivedPayload{
		ContactID: contactID,
		Email:     email,
		Subject:   subject,
		Envelope:  env,
		SentAt:    time.Now(),
	}, "emails")
}

// EnqueueBugReceived alerts staff about a new bug report.
func EnqueueBugReceived(bugID, title, severity string) error {
	env := EmailEnvelope{
		To:      "bugs@linkboard.io",
		Subject: fmt.Sprintf("[%s] New bug report: %s", severity, title),
		Body:    fmt.Sprintf("Bug %s was filed with severity %s.\nTitle: %s", bugID, severity, title),
	}
	return enqueue(TaskBugReceived, BugReceivedPayload{
		BugID:    bugID,
		Title:    title,
		Severity: severity,
		Envelope: env,
		SentAt:   time.Now(),
	}, "alerts")
}
