package models

import (
	"time"

	"github.com/google/uuid"
)

type RegistrationStatus string

const (
	RegistrationPending   RegistrationStatus = "PENDING"
	RegistrationConfirmed RegistrationStatus = "CONFIRMED"
	RegistrationFailed    RegistrationStatus = "FAILED"
)

// Registration is a paid ticket purchase, created PENDING when the payment
// intent is created and moved to CONFIRMED or FAILED by the webhook (or the
// verification fallback). PaymentIntentID is the unique external key used to
// correlate provider notifications.
type Registration struct {
	ID              uuid.UUID          `db:"id" json:"id"`
	EventID         uuid.UUID          `db:"event_id" json:"eventId"`
	Email           string             `db:"email" json:"email"`
	Name            string             `db:"name" json:"name"`
	Phone           string             `db:"phone" json:"phone,omitempty"`
	TicketCount     int                `db:"ticket_count" json:"ticketCount"`
	Amount          float64            `db:"amount" json:"amount"`
	PaymentIntentID string             `db:"payment_intent_id" json:"paymentIntentId"`
	Status          RegistrationStatus `db:"status" json:"status"`
	CreatedAt       time.Time          `db:"created_at" json:"createdAt"`

	// EventTitle is populated on lookups that join the owning event.
	EventTitle string `db:"event_title" json:"eventTitle,omitempty"`
}

// Attendee is the free, session-authenticated registration row. The pair
// (EventID, UserID) is unique.
type Attendee struct {
	ID        uuid.UUID `db:"id" json:"id"`
	EventID   uuid.UUID `db:"event_id" json:"eventId"`
	UserID    uuid.UUID `db:"user_id" json:"userId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// TicketIntentRequest is the payload for POST /api/create-payment-intent.
type TicketIntentRequest struct {
	EventID     string `json:"eventId" validate:"required"`
	TicketCount int    `json:"ticketCount" validate:"required,gt=0"`
	Email       string `json:"email" validate:"required,email"`
	Name        string `json:"name" validate:"required"`
	Phone       string `json:"phone"`
}

// RegisterRequest is the payload for POST /api/events/register.
type RegisterRequest struct {
	EventID string `json:"eventId" validate:"required"`
}
