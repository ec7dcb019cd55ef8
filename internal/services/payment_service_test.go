package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"ticket-sales/internal/services/gateway"
	"ticket-sales/internal/status"
	"ticket-sales/models"
	"ticket-sales/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory store fakes for the payment orchestration tests.

type fakeAccounts struct {
	users map[string]*models.User
}

func (f *fakeAccounts) GetUserByID(_ context.Context, id string) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, status.ErrNotFound
	}
	return user, nil
}

type fakeEvents struct {
	events map[string]*models.Event
}

func (f *fakeEvents) GetEventByID(_ context.Context, id string) (*models.Event, error) {
	event, ok := f.events[id]
	if !ok {
		return nil, status.ErrNotFound
	}
	return event, nil
}

func (f *fakeEvents) ListEvents(_ context.Context, _ string) ([]*models.Event, error) {
	var out []*models.Event
	for _, e := range f.events {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEvents) CreateEvent(_ context.Context, req *models.EventCreateRequest) (*models.Event, error) {
	event := &models.Event{ID: "evt-new", Title: req.Title, Date: req.Date, Price: req.Price}
	f.events[event.ID] = event
	return event, nil
}

type fakePayments struct {
	mu      sync.Mutex
	pending map[string]*models.PendingPayment
	tickets int
}

func newFakePayments() *fakePayments {
	return &fakePayments{pending: map[string]*models.PendingPayment{}}
}

func (f *fakePayments) CreatePending(_ context.Context, pending *models.PendingPayment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending[pending.Reference] = pending
	return nil
}

func (f *fakePayments) Settle(_ context.Context, reference, userID string) (*models.Ticket, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	pending, ok := f.pending[reference]
	if !ok || pending.UserID != userID {
		return nil, false, status.ErrNotFound
	}

	if pending.Settled {
		return &models.Ticket{ID: pending.TicketID, UserID: pending.UserID, EventID: pending.EventID}, true, nil
	}

	f.tickets++
	ticket := &models.Ticket{
		ID:          "tkt-" + reference,
		UserID:      pending.UserID,
		EventID:     pending.EventID,
		PurchasedAt: time.Now().UTC(),
	}
	pending.Settled = true
	pending.TicketID = ticket.ID
	return ticket, false, nil
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []string
}

func (n *recordingNotifier) PaymentSucceeded(_, reference, _ string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, reference)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

type recordingSessions struct {
	created []string
	settled []string
}

func (s *recordingSessions) Create(_ context.Context, pending *models.PendingPayment) error {
	s.created = append(s.created, pending.Reference)
	return nil
}

func (s *recordingSessions) MarkSettled(_ context.Context, reference, _ string) error {
	s.settled = append(s.settled, reference)
	return nil
}

type serviceFixture struct {
	service  *PaymentService
	gateway  *gateway.Fake
	payments *fakePayments
	sessions *recordingSessions
	notifier *recordingNotifier
}

func newServiceFixture(t *testing.T, failureMax uint32, resetTimeout time.Duration) *serviceFixture {
	t.Helper()

	gw := gateway.NewFake()
	payments := newFakePayments()
	sessions := &recordingSessions{}
	notifier := &recordingNotifier{}

	accounts := &fakeAccounts{users: map[string]*models.User{
		"usr1": {ID: "usr1", Email: "alice@example.com", Username: "alice"},
	}}
	events := &fakeEvents{events: map[string]*models.Event{
		"evt1": {ID: "evt1", Title: "Concert", Price: 49.99},
	}}

	breaker := utils.NewCircuitBreaker("fake", failureMax, resetTimeout)
	service := NewPaymentService(accounts, events, payments, gw, breaker, sessions, notifier)

	return &serviceFixture{
		service:  service,
		gateway:  gw,
		payments: payments,
		sessions: sessions,
		notifier: notifier,
	}
}

// pendingReference seeds a pending payment and returns its reference, as if
// InitiatePayment had run earlier.
func pendingReference(f *serviceFixture) string {
	reference := "PAY-1756700000-3F9A21BC"
	f.payments.pending[reference] = &models.PendingPayment{
		Reference: reference,
		UserID:    "usr1",
		EventID:   "evt1",
		Amount:    49.99,
		CreatedAt: time.Now().UTC(),
	}
	return reference
}

func TestInitiatePayment(t *testing.T) {
	f := newServiceFixture(t, 3, 30*time.Second)
	ctx := context.Background()

	initiation, err := f.service.InitiatePayment(ctx, "usr1", "evt1")
	require.NoError(t, err)

	assert.NoError(t, models.ValidateReference(initiation.Reference))
	assert.Equal(t, "https://checkout.fake/pay/"+initiation.Reference, initiation.AuthorizationURL)

	// The pending payment is persisted before the client is answered.
	pending, ok := f.payments.pending[initiation.Reference]
	require.True(t, ok)
	assert.Equal(t, "usr1", pending.UserID)
	assert.Equal(t, "evt1", pending.EventID)
	assert.Equal(t, 49.99, pending.Amount)
	assert.False(t, pending.Settled)

	assert.Equal(t, []string{initiation.Reference}, f.sessions.created)
}

func TestInitiatePaymentUnknownUser(t *testing.T) {
	f := newServiceFixture(t, 3, 30*time.Second)

	_, err := f.service.InitiatePayment(context.Background(), "ghost", "evt1")
	assert.ErrorIs(t, err, status.ErrNotFound)
	assert.Equal(t, 0, f.gateway.InitiateCalls())
}

func TestInitiatePaymentUnknownEvent(t *testing.T) {
	f := newServiceFixture(t, 3, 30*time.Second)

	_, err := f.service.InitiatePayment(context.Background(), "usr1", "ghost")
	assert.ErrorIs(t, err, status.ErrNotFound)
	assert.Equal(t, 0, f.gateway.InitiateCalls())
}

func TestInitiatePaymentGatewayError(t *testing.T) {
	f := newServiceFixture(t, 3, 30*time.Second)
	f.gateway.ScriptInitiate(nil, assert.AnError)

	_, err := f.service.InitiatePayment(context.Background(), "usr1", "evt1")
	assert.ErrorIs(t, err, status.ErrUpstream)
	assert.Empty(t, f.payments.pending)
	assert.Empty(t, f.sessions.created)
}

func TestInitiatePaymentBreakerOpens(t *testing.T) {
	f := newServiceFixture(t, 3, 30*time.Second)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		f.gateway.ScriptInitiate(nil, assert.AnError)
	}

	for i := 0; i < 3; i++ {
		_, err := f.service.InitiatePayment(ctx, "usr1", "evt1")
		assert.ErrorIs(t, err, status.ErrUpstream)
	}

	// Fourth call fails fast without reaching the gateway.
	_, err := f.service.InitiatePayment(ctx, "usr1", "evt1")
	assert.ErrorIs(t, err, status.ErrServiceUnavailable)
	assert.Equal(t, 3, f.gateway.InitiateCalls())
}

func TestVerifyPayment(t *testing.T) {
	f := newServiceFixture(t, 3, 30*time.Second)
	reference := pendingReference(f)

	settlement, err := f.service.VerifyPayment(context.Background(), "usr1", reference)
	require.NoError(t, err)

	assert.Equal(t, "tkt-"+reference, settlement.TicketID)
	assert.False(t, settlement.AlreadySettled)
	assert.Equal(t, 1, f.notifier.count())
	assert.Equal(t, []string{reference}, f.sessions.settled)
}

func TestVerifyPaymentIdempotent(t *testing.T) {
	f := newServiceFixture(t, 3, 30*time.Second)
	reference := pendingReference(f)
	ctx := context.Background()

	first, err := f.service.VerifyPayment(ctx, "usr1", reference)
	require.NoError(t, err)

	second, err := f.service.VerifyPayment(ctx, "usr1", reference)
	require.NoError(t, err)

	assert.Equal(t, first.TicketID, second.TicketID)
	assert.True(t, second.AlreadySettled)
	assert.Equal(t, 1, f.payments.tickets)

	// Notification and session settle fire only on first settlement.
	assert.Equal(t, 1, f.notifier.count())
	assert.Len(t, f.sessions.settled, 1)
}

func TestVerifyPaymentRejected(t *testing.T) {
	f := newServiceFixture(t, 3, 30*time.Second)
	reference := pendingReference(f)
	f.gateway.ScriptVerify(&gateway.VerifyResult{Reference: reference, Status: gateway.StatusFailed}, nil)

	_, err := f.service.VerifyPayment(context.Background(), "usr1", reference)
	assert.ErrorIs(t, err, status.ErrPaymentRejected)
	assert.Equal(t, 0, f.payments.tickets)
	assert.Equal(t, 0, f.notifier.count())
}

func TestVerifyPaymentMalformedReference(t *testing.T) {
	f := newServiceFixture(t, 3, 30*time.Second)

	for _, reference := range []string{"", "PAY-", "FOO-1756700000-3F9A21BC", "PAY-abc-3F9A21BC"} {
		_, err := f.service.VerifyPayment(context.Background(), "usr1", reference)
		assert.ErrorIs(t, err, status.ErrMalformedReference, reference)
	}

	// Malformed references never reach the gateway.
	assert.Equal(t, 0, f.gateway.VerifyCalls())
}

func TestVerifyPaymentUnknownReference(t *testing.T) {
	f := newServiceFixture(t, 3, 30*time.Second)

	_, err := f.service.VerifyPayment(context.Background(), "usr1", "PAY-1756700000-3F9A21BC")
	assert.ErrorIs(t, err, status.ErrNotFound)
}

func TestVerifyPaymentWrongOwner(t *testing.T) {
	f := newServiceFixture(t, 3, 30*time.Second)
	reference := pendingReference(f)

	_, err := f.service.VerifyPayment(context.Background(), "usr2", reference)
	assert.ErrorIs(t, err, status.ErrNotFound)
	assert.Equal(t, 0, f.payments.tickets)
}

func TestBreakerSharedAcrossOperations(t *testing.T) {
	f := newServiceFixture(t, 2, 30*time.Second)
	reference := pendingReference(f)
	ctx := context.Background()

	// One initiate failure plus one verify failure trip a shared breaker
	// with threshold 2.
	f.gateway.ScriptInitiate(nil, assert.AnError)
	f.gateway.ScriptVerify(nil, assert.AnError)

	_, err := f.service.InitiatePayment(ctx, "usr1", "evt1")
	assert.ErrorIs(t, err, status.ErrUpstream)

	_, err = f.service.VerifyPayment(ctx, "usr1", reference)
	assert.ErrorIs(t, err, status.ErrUpstream)

	_, err = f.service.VerifyPayment(ctx, "usr1", reference)
	assert.ErrorIs(t, err, status.ErrServiceUnavailable)
	assert.Equal(t, 1, f.gateway.VerifyCalls())
}
