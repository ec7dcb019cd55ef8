package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// TicketQRPayload builds the text payload embedded in a ticket's QR code.
// The payload carries the ticket and owner ids plus an HMAC so scanners can
// reject tampered codes without a store round trip.
func TicketQRPayload(secret, ticketID, userID string) string {
	payload := fmt.Sprintf("ticket=%s&user=%s", ticketID, userID)
	return payload + "&sig=" + signPayload(secret, payload)
}

// VerifyTicketQRPayload reports whether a scanned payload carries a valid
// signature for its ticket and user ids.
func VerifyTicketQRPayload(secret, payload string) bool {
	idx := strings.LastIndex(payload, "&sig=")
	if idx < 0 {
		return false
	}

	body := payload[:idx]
	sig := payload[idx+len("&sig="):]

	expected := signPayload(secret, body)
	return hmac.Equal([]byte(sig), []byte(expected))
}

func signPayload(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
