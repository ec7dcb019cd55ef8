package services

import (
	"fmt"
	"log/slog"

	pubnub "github.com/pubnub/go"
)

// Notifier pushes payment outcomes to the paying user's channel.
type Notifier interface {
	PaymentSucceeded(userID, reference, ticketID string)
}

// PubNubNotifier publishes notifications over PubNub.
type PubNubNotifier struct {
	pn *pubnub.PubNub
}

func NewPubNubNotifier(pn *pubnub.PubNub) *PubNubNotifier {
	return &PubNubNotifier{pn: pn}
}

func (n *PubNubNotifier) PaymentSucceeded(userID, reference, ticketID string) {
	channel := fmt.Sprintf("user-%s", userID)

	_, _, err := n.pn.Publish().
		Channel(channel).
		Message(map[string]any{
			"type":      "payment_success",
			"reference": reference,
			"ticket_id": ticketID,
		}).
		Execute()
	if err != nil {
		slog.Error("Failed to publish payment notification", "error", err, "user_id", userID, "reference", reference)
	}
}

// NopNotifier drops notifications; used when PubNub is not configured.
type NopNotifier struct{}

func (NopNotifier) PaymentSucceeded(string, string, string) {}
