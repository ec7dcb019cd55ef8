package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode(4)
	require.NoError(t, err)

	// 4 random bytes encode to 8 uppercase hex characters.
	assert.Len(t, code, 8)
	assert.Regexp(t, regexp.MustCompile(`^[0-9A-F]{8}$`), code)

	other, err := GenerateCode(4)
	require.NoError(t, err)
	assert.NotEqual(t, code, other)
}

func TestTicketQRPayload(t *testing.T) {
	secret := "test-secret"
	payload := TicketQRPayload(secret, "tkt1", "usr1")

	assert.Contains(t, payload, "ticket=tkt1")
	assert.Contains(t, payload, "user=usr1")
	assert.True(t, VerifyTicketQRPayload(secret, payload))
}

func TestVerifyTicketQRPayloadRejectsTampering(t *testing.T) {
	secret := "test-secret"
	payload := TicketQRPayload(secret, "tkt1", "usr1")

	flipped := payload[:len(payload)-1] + "0"
	if payload[len(payload)-1] == '0' {
		flipped = payload[:len(payload)-1] + "1"
	}

	tampered := []string{
		"ticket=tkt2&user=usr1&sig=" + payload[len(payload)-64:],
		flipped,
		"ticket=tkt1&user=usr1",
		"",
	}
	for _, p := range tampered {
		assert.False(t, VerifyTicketQRPayload(secret, p), p)
	}

	// A different signing secret invalidates every payload.
	assert.False(t, VerifyTicketQRPayload("other-secret", payload))
}
