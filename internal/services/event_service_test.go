package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/communityhub/server/internal/models"
	"github.com/google/uuid"
)

func newTestEventService() (*EventService, *fakeEventRepo, *fakeRegRepo) {
	events := newFakeEventRepo()
	regs := newFakeRegRepo(events)
	return NewEventService(events, regs), events, regs
}

func validCreateRequest() *models.CreateEventRequest {
	return &models.CreateEventRequest{
		Title:       "Neighbourhood Cleanup",
		Description: "Bring gloves and good cheer.",
		Date:        "2027-06-01",
		Location:    "Riverside Park",
	}
}

func TestParseEventDate(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2027-06-01", time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC), true},
		{"2027-06-01T19:30", time.Date(2027, 6, 1, 19, 30, 0, 0, time.UTC), true},
		{"2027-06-01T19:30:00Z", time.Date(2027, 6, 1, 19, 30, 0, 0, time.UTC), true},
		{"June 1st", time.Time{}, false},
		{"", time.Time{}, false},
	}
	for _, tc := range cases {
		got, err := parseEventDate(tc.in)
		if tc.ok != (err == nil) {
			t.Errorf("parseEventDate(%q) err = %v, want ok=%v", tc.in, err, tc.ok)
			continue
		}
		if tc.ok && !got.Equal(tc.want) {
			t.Errorf("parseEventDate(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestCreateEventAppliesFormDefaults(t *testing.T) {
	es, _, _ := newTestEventService()
	organizer := uuid.New()

	event, err := es.CreateEvent(context.Background(), validCreateRequest(), organizer)
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}

	if event.StartTime != "18:00" || event.EndTime != "21:00" {
		t.Errorf("time defaults = %s-%s, want 18:00-21:00", event.StartTime, event.EndTime)
	}
	if event.Category != "other" {
		t.Errorf("category default = %q, want other", event.Category)
	}
	if event.Capacity != 100 {
		t.Errorf("capacity default = %d, want 100", event.Capacity)
	}
	if event.Status != models.EventUpcoming {
		t.Errorf("status default = %s, want UPCOMING", event.Status)
	}
	if event.OrganizerID != organizer {
		t.Errorf("organizer = %s, want %s", event.OrganizerID, organizer)
	}
}

func TestCreateEventRejectsInvalidInput(t *testing.T) {
	es, events, _ := newTestEventService()

	req := validCreateRequest()
	req.Title = ""
	if _, err := es.CreateEvent(context.Background(), req, uuid.New()); err == nil {
		t.Error("missing title should be rejected")
	}

	req = validCreateRequest()
	req.Date = "next tuesday"
	if _, err := es.CreateEvent(context.Background(), req, uuid.New()); err == nil {
		t.Error("unparseable date should be rejected")
	}

	if len(events.events) != 0 {
		t.Error("rejected requests must not persist events")
	}
}

func TestUpdateEventCapacityFloor(t *testing.T) {
	es, events, _ := newTestEventService()
	eventID := seedEvent(events, 0, 50, time.Now().Add(24*time.Hour))
	events.attendees[eventID] = 10

	lower := 5
	_, err := es.UpdateEvent(context.Background(), eventID, &models.UpdateEventRequest{Capacity: &lower})
	if !errors.Is(err, models.ErrCapacityTooLow) {
		t.Fatalf("err = %v, want ErrCapacityTooLow", err)
	}
	if events.events[eventID].Capacity != 50 {
		t.Error("rejected update must leave capacity unchanged")
	}

	higher := 10
	detail, err := es.UpdateEvent(context.Background(), eventID, &models.UpdateEventRequest{Capacity: &higher})
	if err != nil {
		t.Fatalf("UpdateEvent: %v", err)
	}
	if detail.Capacity != 10 {
		t.Errorf("capacity = %d, want 10 (equal to registered attendees is allowed)", detail.Capacity)
	}
}

func TestRegisterLifecycle(t *testing.T) {
	es, events, _ := newTestEventService()
	eventID := seedEvent(events, 0, 2, time.Now().Add(24*time.Hour))

	alice, bob, carol := uuid.New(), uuid.New(), uuid.New()

	if _, err := es.Register(context.Background(), eventID, alice); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if _, err := es.Register(context.Background(), eventID, alice); !errors.Is(err, models.ErrAlreadyRegistered) {
		t.Errorf("duplicate: err = %v, want ErrAlreadyRegistered", err)
	}
	if _, err := es.Register(context.Background(), eventID, bob); err != nil {
		t.Fatalf("second registration: %v", err)
	}
	if _, err := es.Register(context.Background(), eventID, carol); !errors.Is(err, models.ErrEventFull) {
		t.Errorf("over capacity: err = %v, want ErrEventFull", err)
	}
}

func TestRegisterPastAndMissingEvents(t *testing.T) {
	es, events, _ := newTestEventService()

	if _, err := es.Register(context.Background(), uuid.New(), uuid.New()); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("missing event: err = %v, want ErrNotFound", err)
	}

	pastID := seedEvent(events, 0, 10, time.Now().Add(-24*time.Hour))
	if _, err := es.Register(context.Background(), pastID, uuid.New()); !errors.Is(err, models.ErrPastEvent) {
		t.Errorf("past event: err = %v, want ErrPastEvent", err)
	}
}

func TestListEventsRejectsBadPagination(t *testing.T) {
	es, _, _ := newTestEventService()
	if _, _, err := es.ListEvents(context.Background(), models.EventFilters{}, -1, 10); err == nil {
		t.Error("negative offset should be rejected")
	}
	if _, _, err := es.ListEvents(context.Background(), models.EventFilters{}, 0, 0); err == nil {
		t.Error("zero limit should be rejected")
	}
}
