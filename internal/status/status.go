package status

import "errors"

// Error kinds surfaced by the payment core. Callers branch on these with
// errors.Is instead of inspecting gateway-specific failures.
var (
	// ErrNotFound means a user, event or pending payment lookup failed.
	ErrNotFound = errors.New("payment: record not found")

	// ErrBreakerOpen is returned by the circuit breaker when the call is
	// rejected without reaching the gateway.
	ErrBreakerOpen = errors.New("breaker: circuit is open")

	// ErrServiceUnavailable is the client-facing form of ErrBreakerOpen.
	ErrServiceUnavailable = errors.New("payment: payment service temporarily unavailable")

	// ErrUpstream means the gateway was reachable but the call failed.
	ErrUpstream = errors.New("payment: upstream gateway error")

	// ErrPaymentRejected means the gateway explicitly declined the payment.
	// Terminal for that reference.
	ErrPaymentRejected = errors.New("payment: payment not successful")

	// ErrMalformedReference means the supplied reference does not parse.
	ErrMalformedReference = errors.New("payment: malformed payment reference")
)
