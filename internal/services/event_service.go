package services

import (
	"context"
	"fmt"
	"time"

	"github.com/communityhub/server/internal/models"
	"github.com/google/uuid"
)

type EventService struct {
	eventRepo models.EventRepo
	regRepo   models.RegistrationRepo
}

func NewEventService(eventRepo models.EventRepo, regRepo models.RegistrationRepo) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		regRepo:   regRepo,
	}
}

// parseEventDate accepts both bare dates and full timestamps, which is what
// the event form submits depending on the picker used.
func parseEventDate(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date format: %q", value)
}

func (es *EventService) CreateEvent(ctx context.Context, req *models.CreateEventRequest, organizerID uuid.UUID) (*models.Event, error) {
	if err := models.Validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid event data provided: %v", err)
	}

	date, err := parseEventDate(req.Date)
	if err != nil {
		return nil, err
	}

	// Defaults mirror the public event form.
	if req.StartTime == "" {
		req.StartTime = "18:00"
	}
	if req.EndTime == "" {
		req.EndTime = "21:00"
	}
	if req.Category == "" {
		req.Category = "other"
	}
	if req.Capacity == 0 {
		req.Capacity = 100
	}
	status := models.EventUpcoming
	if req.Status != "" {
		status = models.EventStatus(req.Status)
	}

	now := time.Now().UTC()
	event := &models.Event{
		ID:              uuid.New(),
		Title:           req.Title,
		Description:     req.Description,
		ImageURL:        req.ImageURL,
		Date:            date,
		Location:        req.Location,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Category:        req.Category,
		Capacity:        req.Capacity,
		RegistrationFee: req.RegistrationFee,
		OrganizerID:     organizerID,
		Status:          status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	return es.eventRepo.CreateEvent(ctx, event)
}

func (es *EventService) ListEvents(ctx context.Context, filters models.EventFilters, offset, limit int) ([]*models.Event, int, error) {
	if offset < 0 || limit <= 0 {
		return nil, 0, fmt.Errorf("invalid offset or limit")
	}
	return es.eventRepo.ListEvents(ctx, filters, offset, limit)
}

func (es *EventService) GetEvent(ctx context.Context, id uuid.UUID) (*models.EventDetail, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("invalid event ID")
	}
	return es.eventRepo.GetEventByID(ctx, id)
}

// UpdateEvent applies a partial update. Capacity may never drop below the
// number of attendees already registered.
func (es *EventService) UpdateEvent(ctx context.Context, id uuid.UUID, req *models.UpdateEventRequest) (*models.EventDetail, error) {
	if err := models.Validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid event data provided: %v", err)
	}

	fields := map[string]interface{}{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.ImageURL != nil {
		fields["image_url"] = *req.ImageURL
	}
	if req.Date != nil {
		date, err := parseEventDate(*req.Date)
		if err != nil {
			return nil, err
		}
		fields["date"] = date
	}
	if req.Location != nil {
		fields["location"] = *req.Location
	}
	if req.StartTime != nil {
		fields["start_time"] = *req.StartTime
	}
	if req.EndTime != nil {
		fields["end_time"] = *req.EndTime
	}
	if req.Category != nil {
		fields["category"] = *req.Category
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.Fee != nil {
		fields["registration_fee"] = *req.Fee
	}
	if req.Capacity != nil {
		attendees, err := es.eventRepo.CountAttendees(ctx, id)
		if err != nil {
			return nil, err
		}
		if *req.Capacity < attendees {
			return nil, models.ErrCapacityTooLow
		}
		fields["capacity"] = *req.Capacity
	}
	if len(fields) > 0 {
		fields["updated_at"] = time.Now().UTC()
	}

	return es.eventRepo.UpdateEvent(ctx, id, fields)
}

func (es *EventService) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("invalid event ID")
	}
	return es.eventRepo.DeleteEvent(ctx, id)
}

// Register books a free seat for the session user. All checks (existence,
// past date, capacity, duplicate) run inside the repository's row-locked
// transaction.
func (es *EventService) Register(ctx context.Context, eventID, userID uuid.UUID) (*models.Attendee, error) {
	if eventID == uuid.Nil || userID == uuid.Nil {
		return nil, fmt.Errorf("invalid event or user ID")
	}
	return es.regRepo.RegisterAttendee(ctx, eventID, userID)
}
