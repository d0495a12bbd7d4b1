package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type RegistrationRepo interface {
	CreateRegistration(ctx context.Context, reg *Registration) (*Registration, error)
	GetRegistrationByIntentID(ctx context.Context, intentID string) (*Registration, error)
	UpdateRegistrationStatus(ctx context.Context, intentID string, status RegistrationStatus) error
	RegisterAttendee(ctx context.Context, eventID, userID uuid.UUID) (*Attendee, error)
}

func (r *PostgresRepo) CreateRegistration(ctx context.Context, reg *Registration) (*Registration, error) {
	_, err := r.db.Exec(ctx,
		`INSERT INTO registrations (id, event_id, email, name, phone, ticket_count, amount,
		  payment_intent_id, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		reg.ID, reg.EventID, reg.Email, reg.Name, reg.Phone, reg.TicketCount, reg.Amount,
		reg.PaymentIntentID, reg.Status, reg.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert registration: %w", err)
	}
	return reg, nil
}

func (r *PostgresRepo) GetRegistrationByIntentID(ctx context.Context, intentID string) (*Registration, error) {
	var reg Registration
	err := r.db.QueryRow(ctx,
		`SELECT r.id, r.event_id, r.email, r.name, r.phone, r.ticket_count, r.amount,
		  r.payment_intent_id, r.status, r.created_at, e.title
		 FROM registrations r
		 JOIN events e ON e.id = r.event_id
		 WHERE r.payment_intent_id = $1`,
		intentID,
	).Scan(
		&reg.ID, &reg.EventID, &reg.Email, &reg.Name, &reg.Phone, &reg.TicketCount,
		&reg.Amount, &reg.PaymentIntentID, &reg.Status, &reg.CreatedAt, &reg.EventTitle,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get registration by intent: %w", err)
	}
	return &reg, nil
}

// UpdateRegistrationStatus is keyed by the unique external intent id, which
// makes webhook replays converge on the same terminal state.
func (r *PostgresRepo) UpdateRegistrationStatus(ctx context.Context, intentID string, status RegistrationStatus) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE registrations SET status = $1 WHERE payment_intent_id = $2`,
		status, intentID,
	)
	if err != nil {
		return fmt.Errorf("update registration status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RegisterAttendee performs the free registration inside a transaction that
// locks the event row. Two concurrent attempts against the last seat
// serialise on the lock, so the capacity check and the insert are atomic and
// the event cannot be overbooked.
func (r *PostgresRepo) RegisterAttendee(ctx context.Context, eventID, userID uuid.UUID) (*Attendee, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin registration: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var capacity int
	var date time.Time
	err = tx.QueryRow(ctx,
		`SELECT capacity, date FROM events WHERE id = $1 FOR UPDATE`,
		eventID,
	).Scan(&capacity, &date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = ErrNotFound
			return nil, err
		}
		return nil, fmt.Errorf("lock event row: %w", err)
	}

	if date.Before(time.Now()) {
		err = ErrPastEvent
		return nil, err
	}

	var dupCount int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM attendees WHERE event_id = $1 AND user_id = $2`,
		eventID, userID,
	).Scan(&dupCount)
	if err != nil {
		return nil, fmt.Errorf("check duplicate registration: %w", err)
	}
	if dupCount > 0 {
		err = ErrAlreadyRegistered
		return nil, err
	}

	var attendeeCount int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM attendees WHERE event_id = $1`,
		eventID,
	).Scan(&attendeeCount)
	if err != nil {
		return nil, fmt.Errorf("count attendees: %w", err)
	}
	if attendeeCount >= capacity {
		err = ErrEventFull
		return nil, err
	}

	attendee := &Attendee{
		ID:        uuid.New(),
		EventID:   eventID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO attendees (id, event_id, user_id, created_at) VALUES ($1, $2, $3, $4)`,
		attendee.ID, attendee.EventID, attendee.UserID, attendee.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert attendee: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit registration: %w", err)
	}
	return attendee, nil
}
