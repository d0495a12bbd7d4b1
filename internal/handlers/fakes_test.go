package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/communityhub/server/internal/models"
	"github.com/communityhub/server/internal/payments"
	"github.com/google/uuid"
)

// In-memory repositories backing the route tests. They follow the same
// contracts as the pgx implementations: sentinel errors, unique keys and
// the ordered registration checks.

type memEventRepo struct {
	events    map[uuid.UUID]*models.EventDetail
	attendees map[uuid.UUID]int
}

func newMemEventRepo() *memEventRepo {
	return &memEventRepo{
		events:    map[uuid.UUID]*models.EventDetail{},
		attendees: map[uuid.UUID]int{},
	}
}

func (m *memEventRepo) CreateEvent(_ context.Context, event *models.Event) (*models.Event, error) {
	m.events[event.ID] = &models.EventDetail{Event: *event}
	return event, nil
}

func (m *memEventRepo) ListEvents(_ context.Context, _ models.EventFilters, _, _ int) ([]*models.Event, int, error) {
	out := []*models.Event{}
	for _, d := range m.events {
		e := d.Event
		out = append(out, &e)
	}
	return out, len(out), nil
}

func (m *memEventRepo) GetEventByID(_ context.Context, id uuid.UUID) (*models.EventDetail, error) {
	d, ok := m.events[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	d.RegisteredAttendees = m.attendees[id]
	return d, nil
}

func (m *memEventRepo) UpdateEvent(_ context.Context, id uuid.UUID, fields map[string]interface{}) (*models.EventDetail, error) {
	d, ok := m.events[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	if capacity, ok := fields["capacity"]; ok {
		d.Capacity = capacity.(int)
	}
	if title, ok := fields["title"]; ok {
		d.Title = title.(string)
	}
	return d, nil
}

func (m *memEventRepo) DeleteEvent(_ context.Context, id uuid.UUID) error {
	if _, ok := m.events[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.events, id)
	return nil
}

func (m *memEventRepo) CountAttendees(_ context.Context, id uuid.UUID) (int, error) {
	return m.attendees[id], nil
}

type memRegRepo struct {
	events        *memEventRepo
	registrations map[string]*models.Registration
	attendeeOf    map[uuid.UUID]map[uuid.UUID]bool
}

func newMemRegRepo(events *memEventRepo) *memRegRepo {
	return &memRegRepo{
		events:        events,
		registrations: map[string]*models.Registration{},
		attendeeOf:    map[uuid.UUID]map[uuid.UUID]bool{},
	}
}

func (m *memRegRepo) CreateRegistration(_ context.Context, reg *models.Registration) (*models.Registration, error) {
	m.registrations[reg.PaymentIntentID] = reg
	return reg, nil
}

func (m *memRegRepo) GetRegistrationByIntentID(_ context.Context, intentID string) (*models.Registration, error) {
	reg, ok := m.registrations[intentID]
	if !ok {
		return nil, models.ErrNotFound
	}
	if event, ok := m.events.events[reg.EventID]; ok {
		reg.EventTitle = event.Title
	}
	return reg, nil
}

func (m *memRegRepo) UpdateRegistrationStatus(_ context.Context, intentID string, status models.RegistrationStatus) error {
	reg, ok := m.registrations[intentID]
	if !ok {
		return models.ErrNotFound
	}
	reg.Status = status
	return nil
}

func (m *memRegRepo) RegisterAttendee(_ context.Context, eventID, userID uuid.UUID) (*models.Attendee, error) {
	event, ok := m.events.events[eventID]
	if !ok {
		return nil, models.ErrNotFound
	}
	if event.Date.Before(time.Now()) {
		return nil, models.ErrPastEvent
	}
	if m.attendeeOf[eventID][userID] {
		return nil, models.ErrAlreadyRegistered
	}
	if m.events.attendees[eventID] >= event.Capacity {
		return nil, models.ErrEventFull
	}
	if m.attendeeOf[eventID] == nil {
		m.attendeeOf[eventID] = map[uuid.UUID]bool{}
	}
	m.attendeeOf[eventID][userID] = true
	m.events.attendees[eventID]++
	return &models.Attendee{
		ID:        uuid.New(),
		EventID:   eventID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}, nil
}

type memUserRepo struct {
	users map[string]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*models.User{}}
}

func (m *memUserRepo) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	if _, ok := m.users[user.Username]; ok {
		return nil, models.ErrDuplicateUsername
	}
	m.users[user.Username] = user
	return user, nil
}

func (m *memUserRepo) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	user, ok := m.users[username]
	if !ok {
		return nil, models.ErrNotFound
	}
	return user, nil
}

func (m *memUserRepo) GetUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, models.ErrNotFound
}

type memDonationRepo struct {
	donations map[string]*models.Donation
}

func newMemDonationRepo() *memDonationRepo {
	return &memDonationRepo{donations: map[string]*models.Donation{}}
}

func (m *memDonationRepo) CreateDonation(_ context.Context, donation *models.Donation) (*models.Donation, error) {
	m.donations[donation.PaymentID] = donation
	return donation, nil
}

func (m *memDonationRepo) GetDonationByID(_ context.Context, id uuid.UUID) (*models.Donation, error) {
	for _, d := range m.donations {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *memDonationRepo) UpdateDonationStatus(_ context.Context, paymentID string, status models.DonationStatus) error {
	d, ok := m.donations[paymentID]
	if !ok {
		return models.ErrNotFound
	}
	d.Status = status
	return nil
}

// memProvider issues predictable intents without touching Stripe.
type memProvider struct {
	intents map[string]*payments.Intent
}

func newMemProvider() *memProvider {
	return &memProvider{intents: map[string]*payments.Intent{}}
}

func (m *memProvider) CreateIntent(_ context.Context, amountCents int64, metadata map[string]string, _ string) (*payments.Intent, error) {
	intent := &payments.Intent{
		ID:           "pi_" + uuid.New().String(),
		ClientSecret: "secret_test",
		Status:       "requires_payment_method",
		Amount:       amountCents,
		Metadata:     metadata,
	}
	m.intents[intent.ID] = intent
	return intent, nil
}

func (m *memProvider) GetIntent(_ context.Context, id string) (*payments.Intent, error) {
	intent, ok := m.intents[id]
	if !ok {
		return nil, errors.New("no such intent")
	}
	return intent, nil
}
