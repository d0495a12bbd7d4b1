package models

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type DonationRepo interface {
	CreateDonation(ctx context.Context, donation *Donation) (*Donation, error)
	GetDonationByID(ctx context.Context, id uuid.UUID) (*Donation, error)
	UpdateDonationStatus(ctx context.Context, paymentID string, status DonationStatus) error
}

func (r *PostgresRepo) CreateDonation(ctx context.Context, donation *Donation) (*Donation, error) {
	_, err := r.db.Exec(ctx,
		`INSERT INTO donations (id, amount, status, payment_id, user_id, anonymous, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		donation.ID, donation.Amount, donation.Status, donation.PaymentID,
		donation.UserID, donation.Anonymous, donation.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert donation: %w", err)
	}
	return donation, nil
}

func (r *PostgresRepo) GetDonationByID(ctx context.Context, id uuid.UUID) (*Donation, error) {
	var d Donation
	err := r.db.QueryRow(ctx,
		`SELECT id, amount, status, payment_id, user_id, anonymous, created_at
		 FROM donations WHERE id = $1`,
		id,
	).Scan(&d.ID, &d.Amount, &d.Status, &d.PaymentID, &d.UserID, &d.Anonymous, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get donation: %w", err)
	}
	return &d, nil
}

// UpdateDonationStatus is keyed by the unique external payment id, same
// idempotent overwrite shape as registrations.
func (r *PostgresRepo) UpdateDonationStatus(ctx context.Context, paymentID string, status DonationStatus) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE donations SET status = $1 WHERE payment_id = $2`,
		status, paymentID,
	)
	if err != nil {
		return fmt.Errorf("update donation status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
