package paystack

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

type Config struct {
	// SecretKey authenticates requests against the Paystack API.
	SecretKey string `json:"secretKey" mapstructure:"secret_key"`

	// BaseURL is the Paystack API endpoint. Defaults to the production URL.
	BaseURL string `json:"baseUrl" mapstructure:"base_url"`

	// CallbackURL is where Paystack redirects the payer after authorization.
	CallbackURL string `json:"callbackUrl" mapstructure:"callback_url"`
}

// Client talks to the Paystack transaction API.
type Client struct {
	// baseURL is the base url of the Paystack API.
	baseURL string

	// secretKey is the bearer key for the Paystack account.
	secretKey string

	// callbackURL is sent along with each initialization.
	callbackURL string

	// hc is the http client.
	hc *http.Client
}

// NewClient creates a new Paystack client. The http client carries a request
// timeout so a hung gateway call returns an error instead of blocking the
// caller indefinitely.
func NewClient(c *Config) *Client {
	baseURL := c.BaseURL
	if baseURL == "" {
		baseURL = "https://api.paystack.co"
	}

	return &Client{
		baseURL:     baseURL,
		secretKey:   c.SecretKey,
		callbackURL: c.CallbackURL,

		hc: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// TransactionRequest is the payload for POST /transaction/initialize.
type TransactionRequest struct {
	Email       string `json:"email"`
	Amount      int64  `json:"amount"` // minor currency units
	Reference   string `json:"reference"`
	CallbackURL string `json:"callback_url,omitempty"`
}

// TransactionData is the data object of a successful initialization.
type TransactionData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// TransactionDetails is the data object of a verification response.
type TransactionDetails struct {
	ID        int64  `json:"id"`
	Status    string `json:"status"`
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"` // minor currency units
	Currency  string `json:"currency"`
	PaidAt    string `json:"paid_at"`
}

type apiEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Initialize opens a transaction and returns the authorization URL and
// reference.
func (c *Client) Initialize(ctx context.Context, req *TransactionRequest) (*TransactionData, error) {
	if req.CallbackURL == "" {
		req.CallbackURL = c.callbackURL
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("initialize: marshal request: %w", err)
	}

	data, err := c.do(ctx, http.MethodPost, "/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}

	var tx TransactionData
	if err := json.Unmarshal(data, &tx); err != nil {
		return nil, fmt.Errorf("initialize: decode response: %w", err)
	}

	slog.Debug("paystack transaction initialized", "reference", tx.Reference)
	return &tx, nil
}

// Verify fetches the settlement status of a transaction by reference.
func (c *Client) Verify(ctx context.Context, reference string) (*TransactionDetails, error) {
	data, err := c.do(ctx, http.MethodGet, "/transaction/verify/"+reference, nil)
	if err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}

	var details TransactionDetails
	if err := json.Unmarshal(data, &details); err != nil {
		return nil, fmt.Errorf("verify: decode response: %w", err)
	}

	return &details, nil
}

// VerifyWebhookSignature checks the x-paystack-signature header against the
// raw webhook payload.
func (c *Client) VerifyWebhookSignature(payload []byte, signature string) bool {
	mac := hmac.New(sha512.New, []byte(c.secretKey))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(signature), []byte(expected))
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, fmt.Errorf("api error (status %d): %s", resp.StatusCode, string(respBody))
	}

	if resp.StatusCode != http.StatusOK || !envelope.Status {
		return nil, fmt.Errorf("api error (status %d): %s", resp.StatusCode, envelope.Message)
	}

	return envelope.Data, nil
}
