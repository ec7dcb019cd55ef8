package handlers

import (
	"net/http"

	"ticket-sales/internal/services"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

type TicketHandler struct {
	app     *pocketbase.PocketBase
	tickets services.TicketStore
}

func NewTicketHandler(app *pocketbase.PocketBase, tickets services.TicketStore) *TicketHandler {
	return &TicketHandler{
		app:     app,
		tickets: tickets,
	}
}

// Get - Retrieve one of the caller's tickets, including its QR payload
func (h *TicketHandler) Get(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	ticketID := e.Request.PathValue("ticketId")

	ticket, err := h.tickets.GetTicketByID(e.Request.Context(), ticketID, e.Auth.Id)
	if err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, ticket)
}

// Use - Mark a ticket as used at entry
func (h *TicketHandler) Use(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	ticketID := e.Request.PathValue("ticketId")

	ticket, err := h.tickets.MarkTicketUsed(e.Request.Context(), ticketID, e.Auth.Id)
	if err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, ticket)
}
