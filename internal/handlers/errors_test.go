package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"ticket-sales/internal/services"
	"ticket-sales/internal/status"

	"github.com/pocketbase/pocketbase/tools/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApiErrorMapping(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
	}{
		{status.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("lookup user: %w", status.ErrNotFound), http.StatusNotFound},
		{status.ErrServiceUnavailable, http.StatusServiceUnavailable},
		{status.ErrPaymentRejected, http.StatusBadRequest},
		{status.ErrMalformedReference, http.StatusBadRequest},
		{services.ErrTicketAlreadyUsed, http.StatusBadRequest},
		{status.ErrUpstream, http.StatusInternalServerError},
		{assert.AnError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		apiErr, ok := apiError(tc.err).(*router.ApiError)
		require.True(t, ok, tc.err.Error())
		assert.Equal(t, tc.wantStatus, apiErr.Status, tc.err.Error())
	}
}

func TestApiErrorHidesUpstreamDetails(t *testing.T) {
	wrapped := fmt.Errorf("verify: paystack 502 bad gateway: %w", status.ErrUpstream)

	apiErr := apiError(wrapped).(*router.ApiError)
	assert.NotContains(t, apiErr.Message, "paystack")
	assert.NotContains(t, apiErr.Message, "502")
}
