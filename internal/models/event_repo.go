package models

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type EventRepo interface {
	CreateEvent(ctx context.Context, event *Event) (*Event, error)
	ListEvents(ctx context.Context, filters EventFilters, offset, limit int) ([]*Event, int, error)
	GetEventByID(ctx context.Context, id uuid.UUID) (*EventDetail, error)
	UpdateEvent(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*EventDetail, error)
	DeleteEvent(ctx context.Context, id uuid.UUID) error
	CountAttendees(ctx context.Context, eventID uuid.UUID) (int, error)
}

const eventColumns = `id, title, description, image_url, date, location, start_time, end_time,
	category, capacity, registration_fee, organizer_id, status, created_at, updated_at`

func scanEvent(row pgx.Row, e *Event) error {
	return row.Scan(
		&e.ID, &e.Title, &e.Description, &e.ImageURL, &e.Date, &e.Location,
		&e.StartTime, &e.EndTime, &e.Category, &e.Capacity, &e.RegistrationFee,
		&e.OrganizerID, &e.Status, &e.CreatedAt, &e.UpdatedAt,
	)
}

func (r *PostgresRepo) CreateEvent(ctx context.Context, event *Event) (*Event, error) {
	_, err := r.db.Exec(ctx,
		`INSERT INTO events (id, title, description, image_url, date, location, start_time, end_time,
		  category, capacity, registration_fee, organizer_id, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		event.ID, event.Title, event.Description, event.ImageURL, event.Date, event.Location,
		event.StartTime, event.EndTime, event.Category, event.Capacity, event.RegistrationFee,
		event.OrganizerID, event.Status, event.CreatedAt, event.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return event, nil
}

func (r *PostgresRepo) ListEvents(ctx context.Context, filters EventFilters, offset, limit int) ([]*Event, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	arg := 1

	if filters.Category != "" {
		where = append(where, fmt.Sprintf("category = $%d", arg))
		args = append(args, filters.Category)
		arg++
	}
	if filters.Location != "" {
		where = append(where, fmt.Sprintf("location ILIKE $%d", arg))
		args = append(args, "%"+filters.Location+"%")
		arg++
	}
	if filters.Upcoming {
		where = append(where, fmt.Sprintf("date >= $%d", arg))
		args = append(args, time.Now().UTC().Truncate(24*time.Hour))
		arg++
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM events WHERE "+cond, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM events WHERE %s ORDER BY date ASC OFFSET $%d LIMIT $%d",
		eventColumns, cond, arg, arg+1,
	)
	args = append(args, offset, limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	// Non-nil so an empty page serializes as [] rather than null.
	events := []*Event{}
	for rows.Next() {
		var e Event
		if err := scanEvent(rows, &e); err != nil {
			return nil, 0, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, &e)
	}
	return events, total, rows.Err()
}

func (r *PostgresRepo) GetEventByID(ctx context.Context, id uuid.UUID) (*EventDetail, error) {
	var d EventDetail
	err := r.db.QueryRow(ctx,
		`SELECT e.id, e.title, e.description, e.image_url, e.date, e.location, e.start_time,
		  e.end_time, e.category, e.capacity, e.registration_fee, e.organizer_id, e.status,
		  e.created_at, e.updated_at,
		  u.id, u.username, u.email,
		  (SELECT COUNT(*) FROM attendees a WHERE a.event_id = e.id)
		 FROM events e
		 JOIN users u ON u.id = e.organizer_id
		 WHERE e.id = $1`,
		id,
	).Scan(
		&d.ID, &d.Title, &d.Description, &d.ImageURL, &d.Date, &d.Location, &d.StartTime,
		&d.EndTime, &d.Category, &d.Capacity, &d.RegistrationFee, &d.OrganizerID, &d.Status,
		&d.CreatedAt, &d.UpdatedAt,
		&d.Organizer.ID, &d.Organizer.Username, &d.Organizer.Email,
		&d.RegisteredAttendees,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &d, nil
}

// eventUpdateColumns whitelists the columns a PATCH may touch.
var eventUpdateColumns = map[string]bool{
	"title": true, "description": true, "image_url": true, "date": true,
	"location": true, "start_time": true, "end_time": true, "category": true,
	"capacity": true, "registration_fee": true, "status": true, "updated_at": true,
}

func (r *PostgresRepo) UpdateEvent(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*EventDetail, error) {
	if len(fields) == 0 {
		return r.GetEventByID(ctx, id)
	}

	set := make([]string, 0, len(fields))
	args := []interface{}{}
	arg := 1
	for col, val := range fields {
		if !eventUpdateColumns[col] {
			return nil, fmt.Errorf("unknown event column: %s", col)
		}
		set = append(set, fmt.Sprintf("%s = $%d", col, arg))
		args = append(args, val)
		arg++
	}
	args = append(args, id)

	tag, err := r.db.Exec(ctx,
		fmt.Sprintf("UPDATE events SET %s WHERE id = $%d", strings.Join(set, ", "), arg),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.GetEventByID(ctx, id)
}

// DeleteEvent removes the event together with its attendee and registration
// rows in one transaction so no orphans survive a partial failure.
func (r *PostgresRepo) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete event: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `DELETE FROM attendees WHERE event_id = $1`, id); err != nil {
		return fmt.Errorf("delete attendees: %w", err)
	}
	if _, err = tx.Exec(ctx, `DELETE FROM registrations WHERE event_id = $1`, id); err != nil {
		return fmt.Errorf("delete registrations: %w", err)
	}

	var tag pgconn.CommandTag
	tag, err = tx.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		err = ErrNotFound
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete event: %w", err)
	}
	return nil
}

func (r *PostgresRepo) CountAttendees(ctx context.Context, eventID uuid.UUID) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM attendees WHERE event_id = $1`, eventID,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("count attendees: %w", err)
	}
	return n, nil
}
