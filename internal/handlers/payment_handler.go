package handlers

import (
	"net/http"

	"ticket-sales/internal/services"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

type PaymentHandler struct {
	app            *pocketbase.PocketBase
	paymentService *services.PaymentService
	sessions       *services.PaymentSessionCache
}

func NewPaymentHandler(app *pocketbase.PocketBase, paymentService *services.PaymentService, sessions *services.PaymentSessionCache) *PaymentHandler {
	return &PaymentHandler{
		app:            app,
		paymentService: paymentService,
		sessions:       sessions,
	}
}

// Pay - Initiate a payment for an event ticket
func (h *PaymentHandler) Pay(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var req struct {
		EventID string `json:"event_id"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	if req.EventID == "" {
		return apis.NewBadRequestError("event_id is required", nil)
	}

	initiation, err := h.paymentService.InitiatePayment(e.Request.Context(), e.Auth.Id, req.EventID)
	if err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, initiation)
}

// Verify - Verify a payment and issue the ticket
func (h *PaymentHandler) Verify(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	reference := e.Request.PathValue("reference")

	settlement, err := h.paymentService.VerifyPayment(e.Request.Context(), e.Auth.Id, reference)
	if err != nil {
		return apiError(err)
	}

	message := "Payment verified and ticket generated successfully!"
	if settlement.AlreadySettled {
		message = "Payment already verified."
	}

	return e.JSON(http.StatusOK, map[string]any{
		"message":   message,
		"ticket_id": settlement.TicketID,
	})
}

// Status - Poll the cached payment session status
func (h *PaymentHandler) Status(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	reference := e.Request.PathValue("reference")

	session, err := h.sessions.Get(e.Request.Context(), reference)
	if err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Failed to load payment session", nil)
	}
	if len(session) == 0 {
		return apis.NewNotFoundError("Payment session not found", nil)
	}
	if session["user_id"] != e.Auth.Id {
		return apis.NewForbiddenError("Access denied", nil)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"reference": reference,
		"status":    session["status"],
		"amount":    session["amount"],
		"ticket_id": session["ticket_id"],
	})
}
