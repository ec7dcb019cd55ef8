package models

import (
	"time"
)

type Ticket struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	EventID     string    `json:"event_id"`
	PurchasedAt time.Time `json:"purchased_at"`
	Used        bool      `json:"used"`
	QRPayload   string    `json:"qr_payload,omitempty"`
}
