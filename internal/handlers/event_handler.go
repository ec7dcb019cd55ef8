package handlers

import (
	"net/http"

	"ticket-sales/internal/services"
	"ticket-sales/models"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

type EventHandler struct {
	app    *pocketbase.PocketBase
	events services.EventStore
}

func NewEventHandler(app *pocketbase.PocketBase, events services.EventStore) *EventHandler {
	return &EventHandler{
		app:    app,
		events: events,
	}
}

// Create - Create a new event
func (h *EventHandler) Create(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var req models.EventCreateRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	if err := req.Validate(); err != nil {
		return apis.NewBadRequestError(err.Error(), nil)
	}

	event, err := h.events.CreateEvent(e.Request.Context(), &req)
	if err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusCreated, event)
}

// List - List events, optionally filtered by category
func (h *EventHandler) List(e *core.RequestEvent) error {
	category := e.Request.URL.Query().Get("category")

	events, err := h.events.ListEvents(e.Request.Context(), category)
	if err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, events)
}

// Get - Retrieve a single event by id
func (h *EventHandler) Get(e *core.RequestEvent) error {
	eventID := e.Request.PathValue("eventId")

	event, err := h.events.GetEventByID(e.Request.Context(), eventID)
	if err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, event)
}
