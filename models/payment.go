package models

import (
	"regexp"
	"time"

	"ticket-sales/internal/status"
)

// Payment session statuses mirrored into the redis cache.
const (
	PaymentPending = "pending"
	PaymentSettled = "settled"
)

// PendingPayment links a gateway reference to the user and event it was
// initiated for. Persisted at initiation, read back at verification; the
// settled flag and ticket id make repeated verifications idempotent.
type PendingPayment struct {
	Reference string    `json:"reference"`
	UserID    string    `json:"user_id"`
	EventID   string    `json:"event_id"`
	Amount    float64   `json:"amount"`
	Settled   bool      `json:"settled"`
	TicketID  string    `json:"ticket_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// References look like PAY-1756700000-3F9A21BC: a fixed prefix, the
// initiation timestamp and a random code.
var referencePattern = regexp.MustCompile(`^PAY-\d+-[0-9A-F]{8}$`)

// ValidateReference checks the shape of a caller-supplied reference before
// any gateway or store lookup. References are untrusted input.
func ValidateReference(reference string) error {
	if !referencePattern.MatchString(reference) {
		return status.ErrMalformedReference
	}
	return nil
}
