package gateway

import (
	"context"

	"github.com/shopspring/decimal"
)

// Provider represents a payment gateway implementation.
type Provider string

const (
	ProviderPaystack Provider = "paystack"
	ProviderFake     Provider = "fake"
)

// Gateway statuses reported for a verified transaction.
const (
	StatusSuccess   = "success"
	StatusFailed    = "failed"
	StatusAbandoned = "abandoned"
	StatusPending   = "pending"
)

// InitiateRequest asks the gateway to open a payment for the given identity
// and amount. Reference is the client-generated reference the gateway will
// echo back; the gateway-returned reference is authoritative.
type InitiateRequest struct {
	Email       string          `json:"email"`
	Amount      decimal.Decimal `json:"amount"`
	Reference   string          `json:"reference"`
	CallbackURL string          `json:"callback_url,omitempty"`
}

// InitiateResult is the outcome of a successful initiation.
type InitiateResult struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code,omitempty"`
	Reference        string `json:"reference"`
}

// VerifyResult is the gateway's view of a payment at verification time.
type VerifyResult struct {
	Reference string          `json:"reference"`
	Status    string          `json:"status"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency,omitempty"`
}

// Gateway is the common interface over payment providers.
type Gateway interface {
	// Provider returns the gateway provider type.
	Provider() Provider

	// Initiate opens a payment and returns the authorization URL and the
	// opaque reference identifying this attempt.
	Initiate(ctx context.Context, req *InitiateRequest) (*InitiateResult, error)

	// Verify reports the settlement status of a previously initiated payment.
	Verify(ctx context.Context, reference string) (*VerifyResult, error)
}
