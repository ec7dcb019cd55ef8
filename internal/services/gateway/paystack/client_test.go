package paystack

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transaction/initialize", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_abc", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req TransactionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "alice@example.com", req.Email)
		assert.Equal(t, int64(4999), req.Amount)
		assert.Equal(t, "https://example.com/callback", req.CallbackURL)

		json.NewEncoder(w).Encode(map[string]any{
			"status":  true,
			"message": "Authorization URL created",
			"data": map[string]any{
				"authorization_url": "https://checkout.paystack.com/abc123",
				"access_code":       "abc123",
				"reference":         req.Reference,
			},
		})
	}))
	defer server.Close()

	client := NewClient(&Config{
		SecretKey:   "sk_test_abc",
		BaseURL:     server.URL,
		CallbackURL: "https://example.com/callback",
	})

	tx, err := client.Initialize(context.Background(), &TransactionRequest{
		Email:     "alice@example.com",
		Amount:    4999,
		Reference: "PAY-1756700000-3F9A21BC",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.paystack.com/abc123", tx.AuthorizationURL)
	assert.Equal(t, "PAY-1756700000-3F9A21BC", tx.Reference)
}

func TestVerify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/transaction/verify/PAY-1756700000-3F9A21BC", r.URL.Path)

		json.NewEncoder(w).Encode(map[string]any{
			"status":  true,
			"message": "Verification successful",
			"data": map[string]any{
				"id":        1234,
				"status":    "success",
				"reference": "PAY-1756700000-3F9A21BC",
				"amount":    4999,
				"currency":  "NGN",
			},
		})
	}))
	defer server.Close()

	client := NewClient(&Config{SecretKey: "sk_test_abc", BaseURL: server.URL})

	details, err := client.Verify(context.Background(), "PAY-1756700000-3F9A21BC")
	require.NoError(t, err)
	assert.Equal(t, "success", details.Status)
	assert.Equal(t, int64(4999), details.Amount)
	assert.Equal(t, "NGN", details.Currency)
}

func TestVerifyApiError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{
			"status":  false,
			"message": "Transaction reference not found",
		})
	}))
	defer server.Close()

	client := NewClient(&Config{SecretKey: "sk_test_abc", BaseURL: server.URL})

	_, err := client.Verify(context.Background(), "PAY-9999999999-DEADBEEF")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Transaction reference not found")
}

func TestVerifyNonJSONResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer server.Close()

	client := NewClient(&Config{SecretKey: "sk_test_abc", BaseURL: server.URL})

	_, err := client.Verify(context.Background(), "PAY-1756700000-3F9A21BC")
	assert.Error(t, err)
}

func TestVerifyWebhookSignature(t *testing.T) {
	client := NewClient(&Config{SecretKey: "sk_test_abc"})
	payload := []byte(`{"event":"charge.success"}`)

	mac := hmac.New(sha512.New, []byte("sk_test_abc"))
	mac.Write(payload)
	signature := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, client.VerifyWebhookSignature(payload, signature))
	assert.False(t, client.VerifyWebhookSignature(payload, "deadbeef"))
	assert.False(t, client.VerifyWebhookSignature([]byte("tampered"), signature))
}
