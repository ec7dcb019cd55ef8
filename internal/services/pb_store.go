package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ticket-sales/internal/status"
	"ticket-sales/models"
	"ticket-sales/utils"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
)

// ErrTicketAlreadyUsed is returned when a ticket is scanned a second time.
var ErrTicketAlreadyUsed = errors.New("ticket: ticket already used")

// PBStore backs the store ports with PocketBase collections.
type PBStore struct {
	app      core.App
	qrSecret string
}

func NewPBStore(app core.App, qrSecret string) *PBStore {
	return &PBStore{app: app, qrSecret: qrSecret}
}

func (s *PBStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	record, err := s.app.FindRecordById("users", id)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", id, status.ErrNotFound)
	}

	return &models.User{
		ID:       record.Id,
		Email:    record.GetString("email"),
		Username: record.GetString("username"),
	}, nil
}

func (s *PBStore) GetEventByID(_ context.Context, id string) (*models.Event, error) {
	record, err := s.app.FindRecordById("events", id)
	if err != nil {
		return nil, fmt.Errorf("event %s: %w", id, status.ErrNotFound)
	}
	return eventFromRecord(record), nil
}

func (s *PBStore) ListEvents(_ context.Context, category string) ([]*models.Event, error) {
	var exprs []dbx.Expression
	if category != "" {
		exprs = append(exprs, dbx.HashExp{"category": category})
	}

	records, err := s.app.FindAllRecords("events", exprs...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	events := make([]*models.Event, 0, len(records))
	for _, record := range records {
		events = append(events, eventFromRecord(record))
	}
	return events, nil
}

func (s *PBStore) CreateEvent(ctx context.Context, req *models.EventCreateRequest) (*models.Event, error) {
	collection, err := s.app.FindCollectionByNameOrId("events")
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	record := core.NewRecord(collection)
	record.Set("title", req.Title)
	record.Set("date", req.Date.UTC())
	record.Set("location", req.Location)
	record.Set("price", req.Price)
	record.Set("category", req.Category)

	if err := s.app.SaveWithContext(ctx, record); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return eventFromRecord(record), nil
}

func (s *PBStore) CreatePending(ctx context.Context, pending *models.PendingPayment) error {
	collection, err := s.app.FindCollectionByNameOrId("pending_payments")
	if err != nil {
		return fmt.Errorf("create pending payment: %w", err)
	}

	record := core.NewRecord(collection)
	record.Set("reference", pending.Reference)
	record.Set("user", pending.UserID)
	record.Set("event", pending.EventID)
	record.Set("amount", pending.Amount)
	record.Set("settled", false)

	if err := s.app.SaveWithContext(ctx, record); err != nil {
		return fmt.Errorf("create pending payment: %w", err)
	}
	return nil
}

func (s *PBStore) Settle(ctx context.Context, reference, userID string) (*models.Ticket, bool, error) {
	var ticket *models.Ticket
	var alreadySettled bool

	// The unique index on pending_payments.reference backstops concurrent
	// settles of the same reference; the transaction keeps the read-check-
	// create-mark sequence atomic.
	err := s.app.RunInTransaction(func(txApp core.App) error {
		pending, err := txApp.FindFirstRecordByFilter(
			"pending_payments",
			"reference = {:reference}",
			dbx.Params{"reference": reference},
		)
		if err != nil {
			return fmt.Errorf("pending payment %s: %w", reference, status.ErrNotFound)
		}

		if pending.GetString("user") != userID {
			return fmt.Errorf("pending payment %s: %w", reference, status.ErrNotFound)
		}

		if pending.GetBool("settled") {
			issued, err := txApp.FindRecordById("tickets", pending.GetString("ticket"))
			if err != nil {
				return fmt.Errorf("settled ticket for %s: %w", reference, status.ErrNotFound)
			}
			ticket = ticketFromRecord(issued)
			alreadySettled = true
			return nil
		}

		collection, err := txApp.FindCollectionByNameOrId("tickets")
		if err != nil {
			return fmt.Errorf("settle %s: %w", reference, err)
		}

		record := core.NewRecord(collection)
		record.Set("user", pending.GetString("user"))
		record.Set("event", pending.GetString("event"))
		record.Set("purchased", time.Now().UTC())
		record.Set("used", false)
		if err := txApp.SaveWithContext(ctx, record); err != nil {
			return fmt.Errorf("settle %s: create ticket: %w", reference, err)
		}

		// The QR payload embeds the ticket id, which exists only after the
		// first save.
		record.Set("qr_payload", utils.TicketQRPayload(s.qrSecret, record.Id, userID))
		if err := txApp.SaveWithContext(ctx, record); err != nil {
			return fmt.Errorf("settle %s: sign ticket: %w", reference, err)
		}

		pending.Set("settled", true)
		pending.Set("ticket", record.Id)
		if err := txApp.SaveWithContext(ctx, pending); err != nil {
			return fmt.Errorf("settle %s: mark settled: %w", reference, err)
		}

		ticket = ticketFromRecord(record)
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return ticket, alreadySettled, nil
}

func (s *PBStore) GetTicketByID(_ context.Context, id, userID string) (*models.Ticket, error) {
	record, err := findOwnedTicket(s.app, id, userID)
	if err != nil {
		return nil, err
	}
	return ticketFromRecord(record), nil
}

func (s *PBStore) MarkTicketUsed(ctx context.Context, id, userID string) (*models.Ticket, error) {
	var ticket *models.Ticket

	err := s.app.RunInTransaction(func(txApp core.App) error {
		record, err := findOwnedTicket(txApp, id, userID)
		if err != nil {
			return err
		}

		if record.GetBool("used") {
			return ErrTicketAlreadyUsed
		}

		record.Set("used", true)
		if err := txApp.SaveWithContext(ctx, record); err != nil {
			return fmt.Errorf("mark ticket %s used: %w", id, err)
		}

		ticket = ticketFromRecord(record)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ticket, nil
}

func findOwnedTicket(app core.App, id, userID string) (*core.Record, error) {
	record, err := app.FindRecordById("tickets", id)
	if err != nil {
		return nil, fmt.Errorf("ticket %s: %w", id, status.ErrNotFound)
	}
	if record.GetString("user") != userID {
		return nil, fmt.Errorf("ticket %s: %w", id, status.ErrNotFound)
	}
	return record, nil
}

func eventFromRecord(record *core.Record) *models.Event {
	return &models.Event{
		ID:       record.Id,
		Title:    record.GetString("title"),
		Date:     record.GetDateTime("date").Time(),
		Location: record.GetString("location"),
		Price:    record.GetFloat("price"),
		Category: record.GetString("category"),
	}
}

func ticketFromRecord(record *core.Record) *models.Ticket {
	return &models.Ticket{
		ID:          record.Id,
		UserID:      record.GetString("user"),
		EventID:     record.GetString("event"),
		PurchasedAt: record.GetDateTime("purchased").Time(),
		Used:        record.GetBool("used"),
		QRPayload:   record.GetString("qr_payload"),
	}
}
