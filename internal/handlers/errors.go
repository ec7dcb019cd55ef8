package handlers

import (
	"errors"
	"net/http"

	"ticket-sales/internal/services"
	"ticket-sales/internal/status"

	"github.com/pocketbase/pocketbase/apis"
)

// apiError maps core error kinds to transport errors. Gateway details never
// reach the client; only the normalized kind does.
func apiError(err error) error {
	switch {
	case errors.Is(err, status.ErrNotFound):
		return apis.NewNotFoundError("Record not found", nil)

	case errors.Is(err, status.ErrServiceUnavailable):
		return apis.NewApiError(http.StatusServiceUnavailable,
			"Payment service is temporarily unavailable. Please try again later.", nil)

	case errors.Is(err, status.ErrPaymentRejected):
		return apis.NewBadRequestError("Payment not successful", nil)

	case errors.Is(err, status.ErrMalformedReference):
		return apis.NewBadRequestError("Invalid payment reference format", nil)

	case errors.Is(err, services.ErrTicketAlreadyUsed):
		return apis.NewBadRequestError("Ticket has already been used", nil)

	default:
		return apis.NewApiError(http.StatusInternalServerError,
			"An error occurred with the payment service", nil)
	}
}
