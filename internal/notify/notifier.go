// Package notify delivers best-effort booking notifications after a booking change has committed.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventBookingConfirmed EventType = "booking.confirmed"
	EventBookingCancelled EventType = "booking.cancelled"
)

// Event describes a committed booking change.
// CancelURL embeds the customer's credential and only ever goes to the customer's inbox.
type Event struct {
	Type          EventType
	BookingID     uuid.UUID
	ServiceName   string
	StaffName     string
	StartTime     time.Time
	EndTime       time.Time
	CustomerName  string
	CustomerEmail string
	CancelURL     string
	OccurredAt    time.Time
}

// Message is the broker payload. It carries no customer contact data and no credential.
type Message struct {
	Type        EventType `json:"type"`
	BookingID   string    `json:"booking_id"`
	ServiceName string    `json:"service_name"`
	StaffName   string    `json:"staff_name"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func (e Event) Message() Message {
	return Message{
		Type:        e.Type,
		BookingID:   e.BookingID.String(),
		ServiceName: e.ServiceName,
		StaffName:   e.StaffName,
		StartTime:   e.StartTime.UTC(),
		EndTime:     e.EndTime.UTC(),
		OccurredAt:  e.OccurredAt.UTC(),
	}
}

type Notifier interface {
	Name() string
	Notify(ctx context.Context, event Event) error
}

// Multi fans an event out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Name() string { return "multi" }

func (m Multi) Notify(ctx context.Context, event Event) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", n.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// Noop is used when no channel is configured.
type Noop struct{}

func (Noop) Name() string { return "noop" }

func (Noop) Notify(context.Context, Event) error { return nil }
