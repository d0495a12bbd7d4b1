package models

import (
	"time"

	"github.com/google/uuid"
)

type DonationStatus string

const (
	DonationPending   DonationStatus = "PENDING"
	DonationCompleted DonationStatus = "COMPLETED"
	DonationFailed    DonationStatus = "FAILED"
)

// Donation mirrors the registration lifecycle: PENDING at intent creation,
// COMPLETED or FAILED via webhook. PaymentID is the unique external key.
type Donation struct {
	ID        uuid.UUID      `db:"id" json:"id"`
	Amount    float64        `db:"amount" json:"amount"`
	Status    DonationStatus `db:"status" json:"status"`
	PaymentID string         `db:"payment_id" json:"paymentId"`
	UserID    *uuid.UUID     `db:"user_id" json:"userId,omitempty"`
	Anonymous bool           `db:"anonymous" json:"anonymous"`
	CreatedAt time.Time      `db:"created_at" json:"createdAt"`
}

// DonationIntentRequest is the payload for POST /api/donations/create-payment-intent.
type DonationIntentRequest struct {
	Amount    float64 `json:"amount" validate:"required,gte=1"`
	Anonymous bool    `json:"anonymous"`
}
