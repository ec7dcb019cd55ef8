package gateway

import (
	"context"
	"fmt"

	"ticket-sales/internal/services/gateway/paystack"

	"github.com/shopspring/decimal"
)

// paystackAdapter adapts the Paystack client to the Gateway interface.
// Amounts cross the boundary as decimals and reach Paystack in minor
// currency units.
type paystackAdapter struct {
	client *paystack.Client
}

// NewPaystackAdapter creates a Gateway backed by the Paystack API.
func NewPaystackAdapter(config *paystack.Config) (Gateway, error) {
	if config == nil || config.SecretKey == "" {
		return nil, fmt.Errorf("paystack: secret key is required")
	}
	return &paystackAdapter{client: paystack.NewClient(config)}, nil
}

func (a *paystackAdapter) Provider() Provider {
	return ProviderPaystack
}

func (a *paystackAdapter) Initiate(ctx context.Context, req *InitiateRequest) (*InitiateResult, error) {
	tx, err := a.client.Initialize(ctx, &paystack.TransactionRequest{
		Email:       req.Email,
		Amount:      toMinorUnits(req.Amount),
		Reference:   req.Reference,
		CallbackURL: req.CallbackURL,
	})
	if err != nil {
		return nil, err
	}

	return &InitiateResult{
		AuthorizationURL: tx.AuthorizationURL,
		AccessCode:       tx.AccessCode,
		Reference:        tx.Reference,
	}, nil
}

func (a *paystackAdapter) Verify(ctx context.Context, reference string) (*VerifyResult, error) {
	details, err := a.client.Verify(ctx, reference)
	if err != nil {
		return nil, err
	}

	return &VerifyResult{
		Reference: details.Reference,
		Status:    details.Status,
		Amount:    fromMinorUnits(details.Amount),
		Currency:  details.Currency,
	}, nil
}

func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func fromMinorUnits(amount int64) decimal.Decimal {
	return decimal.New(amount, -2)
}
