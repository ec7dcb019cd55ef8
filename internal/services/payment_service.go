package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ticket-sales/internal/services/gateway"
	"ticket-sales/internal/status"
	"ticket-sales/models"
	"ticket-sales/monitoring"
	"ticket-sales/utils"

	"github.com/shopspring/decimal"
)

// PaymentService orchestrates the initiate/verify payment flow. Both
// operations reach the gateway through the same circuit breaker instance, so
// initiation and verification failures share one failure counter.
type PaymentService struct {
	accounts AccountStore
	events   EventStore
	payments PaymentStore
	gateway  gateway.Gateway
	breaker  *utils.CircuitBreaker
	sessions SessionCache
	notify   Notifier
}

func NewPaymentService(
	accounts AccountStore,
	events EventStore,
	payments PaymentStore,
	gw gateway.Gateway,
	breaker *utils.CircuitBreaker,
	sessions SessionCache,
	notify Notifier,
) *PaymentService {
	return &PaymentService{
		accounts: accounts,
		events:   events,
		payments: payments,
		gateway:  gw,
		breaker:  breaker,
		sessions: sessions,
		notify:   notify,
	}
}

// PaymentInitiation is returned to the client so it can redirect the payer.
type PaymentInitiation struct {
	AuthorizationURL string `json:"authorization_url"`
	Reference        string `json:"reference"`
}

// PaymentSettlement is the outcome of a verified payment.
type PaymentSettlement struct {
	TicketID       string `json:"ticket_id"`
	AlreadySettled bool   `json:"-"`
}

// InitiatePayment opens a payment for one ticket to the given event. The
// pending payment row is persisted before the client is answered, so
// verification can resolve the event without trusting the reference contents.
func (s *PaymentService) InitiatePayment(ctx context.Context, userID, eventID string) (*PaymentInitiation, error) {
	user, err := s.accounts.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	event, err := s.events.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	reference, err := newReference()
	if err != nil {
		return nil, fmt.Errorf("initiate payment: %w", err)
	}

	result, err := s.callGateway(ctx, "initiate", func() (any, error) {
		return s.gateway.Initiate(ctx, &gateway.InitiateRequest{
			Email:     user.Email,
			Amount:    decimal.NewFromFloat(event.Price),
			Reference: reference,
		})
	})
	if err != nil {
		return nil, err
	}
	initiated := result.(*gateway.InitiateResult)

	pending := &models.PendingPayment{
		Reference: initiated.Reference,
		UserID:    user.ID,
		EventID:   event.ID,
		Amount:    event.Price,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.payments.CreatePending(ctx, pending); err != nil {
		return nil, fmt.Errorf("initiate payment: %w", err)
	}

	if err := s.sessions.Create(ctx, pending); err != nil {
		// The record store is authoritative; a missing session only degrades
		// status polling.
		slog.Error("Failed to cache payment session", "error", err, "reference", pending.Reference)
	}

	slog.Info("Payment initiated", "reference", pending.Reference, "event_id", event.ID, "user_id", user.ID)

	return &PaymentInitiation{
		AuthorizationURL: initiated.AuthorizationURL,
		Reference:        initiated.Reference,
	}, nil
}

// VerifyPayment confirms a payment with the gateway and settles it into
// exactly one ticket. Verifying an already-settled reference returns the
// ticket created the first time.
func (s *PaymentService) VerifyPayment(ctx context.Context, userID, reference string) (*PaymentSettlement, error) {
	if err := models.ValidateReference(reference); err != nil {
		return nil, err
	}

	result, err := s.callGateway(ctx, "verify", func() (any, error) {
		return s.gateway.Verify(ctx, reference)
	})
	if err != nil {
		return nil, err
	}
	verified := result.(*gateway.VerifyResult)

	if verified.Status != gateway.StatusSuccess {
		slog.Info("Payment rejected by gateway", "reference", reference, "status", verified.Status)
		return nil, fmt.Errorf("verify %s: %w", reference, status.ErrPaymentRejected)
	}

	ticket, alreadySettled, err := s.payments.Settle(ctx, reference, userID)
	if err != nil {
		return nil, err
	}

	if !alreadySettled {
		monitoring.TrackSettlement()
		s.notify.PaymentSucceeded(userID, reference, ticket.ID)

		if err := s.sessions.MarkSettled(ctx, reference, ticket.ID); err != nil {
			slog.Error("Failed to settle payment session", "error", err, "reference", reference)
		}

		slog.Info("Payment settled", "reference", reference, "ticket_id", ticket.ID)
	}

	return &PaymentSettlement{TicketID: ticket.ID, AlreadySettled: alreadySettled}, nil
}

// callGateway runs one gateway call through the breaker and normalizes
// failures: a tripped breaker surfaces as service-unavailable, anything else
// as a generic upstream error. Gateway error details stay in the logs.
func (s *PaymentService) callGateway(ctx context.Context, operation string, call func() (any, error)) (any, error) {
	start := time.Now()
	result, err := s.breaker.Execute(ctx, call)
	monitoring.SetBreakerState(s.breaker.Name(), int(s.breaker.State()))

	switch {
	case err == nil:
		monitoring.TrackGatewayCall(operation, monitoring.OutcomeSuccess, time.Since(start))
		return result, nil

	case errors.Is(err, status.ErrBreakerOpen):
		monitoring.TrackGatewayCall(operation, monitoring.OutcomeShortCircuit, time.Since(start))
		slog.Warn("Payment gateway short-circuited", "operation", operation)
		return nil, fmt.Errorf("%s: %w", operation, status.ErrServiceUnavailable)

	default:
		monitoring.TrackGatewayCall(operation, monitoring.OutcomeError, time.Since(start))
		slog.Error("Payment gateway call failed", "operation", operation, "error", err)
		return nil, fmt.Errorf("%s: %w", operation, status.ErrUpstream)
	}
}

func newReference() (string, error) {
	code, err := utils.GenerateCode(4)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("PAY-%d-%s", time.Now().Unix(), code), nil
}
