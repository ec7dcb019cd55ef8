package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"ticket-sales/models"

	"github.com/redis/go-redis/v9"
)

// SessionCache is the slice of the session store the payment service needs.
type SessionCache interface {
	Create(ctx context.Context, pending *models.PendingPayment) error
	MarkSettled(ctx context.Context, reference, ticketID string) error
}

// PaymentSessionCache mirrors pending payments into redis with a TTL so
// status polls never touch the record store. The pending_payments collection
// stays authoritative; losing a session only degrades polling.
type PaymentSessionCache struct {
	Redis *redis.Client
	ttl   time.Duration
}

func NewPaymentSessionCache(redisClient *redis.Client, ttl time.Duration) *PaymentSessionCache {
	return &PaymentSessionCache{Redis: redisClient, ttl: ttl}
}

func sessionKey(reference string) string {
	return fmt.Sprintf("payment:%s", reference)
}

func (c *PaymentSessionCache) Create(ctx context.Context, pending *models.PendingPayment) error {
	key := sessionKey(pending.Reference)

	// Single HSET with fixed field order keeps the write atomic.
	if err := c.Redis.HSet(ctx, key,
		"user_id", pending.UserID,
		"event_id", pending.EventID,
		"amount", strconv.FormatFloat(pending.Amount, 'f', 2, 64),
		"status", models.PaymentPending,
		"created_at", strconv.FormatInt(pending.CreatedAt.Unix(), 10),
	).Err(); err != nil {
		return fmt.Errorf("create payment session: %w", err)
	}

	if err := c.Redis.Expire(ctx, key, c.ttl).Err(); err != nil {
		return fmt.Errorf("expire payment session: %w", err)
	}

	return nil
}

func (c *PaymentSessionCache) MarkSettled(ctx context.Context, reference, ticketID string) error {
	key := sessionKey(reference)

	if err := c.Redis.HSet(ctx, key,
		"status", models.PaymentSettled,
		"ticket_id", ticketID,
	).Err(); err != nil {
		return fmt.Errorf("settle payment session: %w", err)
	}

	return nil
}

// Get returns the cached session fields, or an empty map when the session
// expired or never existed.
func (c *PaymentSessionCache) Get(ctx context.Context, reference string) (map[string]string, error) {
	fields, err := c.Redis.HGetAll(ctx, sessionKey(reference)).Result()
	if err != nil {
		return nil, fmt.Errorf("get payment session: %w", err)
	}
	return fields, nil
}
