package models

import (
	"time"

	"github.com/google/uuid"
)

type EventStatus string

const (
	EventUpcoming   EventStatus = "UPCOMING"
	EventInProgress EventStatus = "INPROGRESS"
	EventCompleted  EventStatus = "COMPLETED"
	EventCancelled  EventStatus = "CANCELLED"
)

type Event struct {
	ID              uuid.UUID   `db:"id" json:"id"`
	Title           string      `db:"title" json:"title"`
	Description     string      `db:"description" json:"description"`
	ImageURL        string      `db:"image_url" json:"imageUrl,omitempty"`
	Date            time.Time   `db:"date" json:"date"`
	Location        string      `db:"location" json:"location"`
	StartTime       string      `db:"start_time" json:"startTime"` // "18:00"
	EndTime         string      `db:"end_time" json:"endTime"`     // "21:00"
	Category        string      `db:"category" json:"category"`
	Capacity        int         `db:"capacity" json:"capacity"`
	RegistrationFee float64     `db:"registration_fee" json:"registrationFee"`
	OrganizerID     uuid.UUID   `db:"organizer_id" json:"organizerId"`
	Status          EventStatus `db:"status" json:"status"`
	CreatedAt       time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time   `db:"updated_at" json:"updatedAt"`
}

// IsPast reports whether the event date is strictly before now.
func (e *Event) IsPast(now time.Time) bool {
	return e.Date.Before(now)
}

// EventDetail is an event joined with its organizer and the current
// attendee count. The raw attendee rows are intentionally not exposed.
type EventDetail struct {
	Event
	Organizer           OrganizerSummary `json:"organizer"`
	RegisteredAttendees int              `json:"registeredAttendees"`
}

// CreateEventRequest mirrors the fields an organizer submits for a new
// event. Defaults follow the public form: evening slot, "other" category,
// capacity 100.
type CreateEventRequest struct {
	Title           string  `json:"title" validate:"required,min=1,max=255"`
	Description     string  `json:"description" validate:"required,min=1,max=5000"`
	ImageURL        string  `json:"imageUrl" validate:"omitempty,url"`
	Date            string  `json:"date" validate:"required"`
	Location        string  `json:"location" validate:"required,min=1"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	Category        string  `json:"category"`
	Capacity        int     `json:"capacity" validate:"omitempty,gt=0"`
	RegistrationFee float64 `json:"registrationFee" validate:"omitempty,gte=0"`
	Status          string  `json:"status" validate:"omitempty,oneof=UPCOMING INPROGRESS COMPLETED CANCELLED"`
}

// UpdateEventRequest carries the optional fields of a PATCH. Nil pointers
// are left untouched.
type UpdateEventRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=3"`
	Description *string  `json:"description" validate:"omitempty,min=10"`
	ImageURL    *string  `json:"imageUrl" validate:"omitempty,url"`
	Date        *string  `json:"date" validate:"omitempty,min=1"`
	Location    *string  `json:"location" validate:"omitempty,min=3"`
	StartTime   *string  `json:"startTime" validate:"omitempty,min=1"`
	EndTime     *string  `json:"endTime" validate:"omitempty,min=1"`
	Category    *string  `json:"category" validate:"omitempty,min=1"`
	Capacity    *int     `json:"capacity" validate:"omitempty,gt=0"`
	Status      *string  `json:"status" validate:"omitempty,oneof=UPCOMING INPROGRESS COMPLETED CANCELLED"`
	Fee         *float64 `json:"registrationFee" validate:"omitempty,gte=0"`
}

// EventFilters narrows event listings.
type EventFilters struct {
	Category string
	Location string
	Upcoming bool
}
