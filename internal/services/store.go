package services

import (
	"context"

	"ticket-sales/models"
)

// Store ports consumed by the payment core. The PocketBase-backed PBStore
// implements all of them; tests substitute in-memory fakes.

// AccountStore reads user records.
type AccountStore interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// EventStore reads and writes event records.
type EventStore interface {
	GetEventByID(ctx context.Context, id string) (*models.Event, error)
	ListEvents(ctx context.Context, category string) ([]*models.Event, error)
	CreateEvent(ctx context.Context, req *models.EventCreateRequest) (*models.Event, error)
}

// PaymentStore persists pending payments and settles them into tickets.
type PaymentStore interface {
	CreatePending(ctx context.Context, pending *models.PendingPayment) error

	// Settle converts the pending payment identified by reference into a
	// ticket owned by userID. The check-not-settled / create-ticket /
	// mark-settled sequence runs as one transactional unit. If the reference
	// was already settled, Settle returns the previously created ticket and
	// alreadySettled=true instead of minting a second one.
	Settle(ctx context.Context, reference, userID string) (ticket *models.Ticket, alreadySettled bool, err error)
}

// TicketStore reads and updates issued tickets.
type TicketStore interface {
	GetTicketByID(ctx context.Context, id, userID string) (*models.Ticket, error)
	MarkTicketUsed(ctx context.Context, id, userID string) (*models.Ticket, error)
}
