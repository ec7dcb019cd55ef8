package models

import (
	"errors"
	"strings"
	"time"
)

type Event struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Date     time.Time `json:"date"`
	Location string    `json:"location"`
	Price    float64   `json:"price"`
	Category string    `json:"category,omitempty"`
}

type EventCreateRequest struct {
	Title    string    `json:"title"`
	Date     time.Time `json:"date"`
	Location string    `json:"location"`
	Price    float64   `json:"price"`
	Category string    `json:"category"`
}

func (r *EventCreateRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("event title is required")
	}
	if r.Date.IsZero() {
		return errors.New("event date is required")
	}
	if r.Price < 0 {
		return errors.New("event price must not be negative")
	}
	return nil
}
