package services

import (
	"context"
	"errors"
	"time"

	"github.com/communityhub/server/internal/models"
	"github.com/communityhub/server/internal/payments"
	"github.com/google/uuid"
)

// fakeEventRepo serves canned events keyed by id.
type fakeEventRepo struct {
	events    map[uuid.UUID]*models.EventDetail
	attendees map[uuid.UUID]int
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		events:    map[uuid.UUID]*models.EventDetail{},
		attendees: map[uuid.UUID]int{},
	}
}

func (f *fakeEventRepo) CreateEvent(_ context.Context, event *models.Event) (*models.Event, error) {
	f.events[event.ID] = &models.EventDetail{Event: *event}
	return event, nil
}

func (f *fakeEventRepo) ListEvents(_ context.Context, _ models.EventFilters, _, _ int) ([]*models.Event, int, error) {
	out := []*models.Event{}
	for _, d := range f.events {
		e := d.Event
		out = append(out, &e)
	}
	return out, len(out), nil
}

func (f *fakeEventRepo) GetEventByID(_ context.Context, id uuid.UUID) (*models.EventDetail, error) {
	d, ok := f.events[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	d.RegisteredAttendees = f.attendees[id]
	return d, nil
}

func (f *fakeEventRepo) UpdateEvent(_ context.Context, id uuid.UUID, fields map[string]interface{}) (*models.EventDetail, error) {
	d, ok := f.events[id]
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

func (f *fakeEventRepo) DeleteEvent(_ context.Context, id uuid.UUID) error {
	if _, ok := f.events[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.events, id)
	return nil
}

func (f *fakeEventRepo) CountAttendees(_ context.Context, id uuid.UUID) (int, error) {
	return f.attendees[id], nil
}

// fakeRegRepo mimics the row-locked registration transaction in memory.
type fakeRegRepo struct {
	events        *fakeEventRepo
	registrations map[string]*models.Registration
	attendeeOf    map[uuid.UUID]map[uuid.UUID]bool
}

func newFakeRegRepo(events *fakeEventRepo) *fakeRegRepo {
	return &fakeRegRepo{
		events:        events,
		registrations: map[string]*models.Registration{},
		attendeeOf:    map[uuid.UUID]map[uuid.UUID]bool{},
	}
}

func (f *fakeRegRepo) CreateRegistration(_ context.Context, reg *models.Registration) (*models.Registration, error) {
	f.registrations[reg.PaymentIntentID] = reg
	return reg, nil
}

func (f *fakeRegRepo) GetRegistrationByIntentID(_ context.Context, intentID string) (*models.Registration, error) {
	reg, ok := f.registrations[intentID]
	if !ok {
		return nil, models.ErrNotFound
	}
	if event, ok := f.events.events[reg.EventID]; ok {
		reg.EventTitle = event.Title
	}
	return reg, nil
}

func (f *fakeRegRepo) UpdateRegistrationStatus(_ context.Context, intentID string, status models.RegistrationStatus) error {
	reg, ok := f.registrations[intentID]
	if !ok {
		return models.ErrNotFound
	}
	reg.Status = status
	return nil
}

func (f *fakeRegRepo) RegisterAttendee(_ context.Context, eventID, userID uuid.UUID) (*models.Attendee, error) {
	event, ok := f.events.events[eventID]
	if !ok {
		return nil, models.ErrNotFound
	}
	if event.Date.Before(time.Now()) {
		return nil, models.ErrPastEvent
	}
	if f.attendeeOf[eventID][userID] {
		return nil, models.ErrAlreadyRegistered
	}
	if f.events.attendees[eventID] >= event.Capacity {
		return nil, models.ErrEventFull
	}
	if f.attendeeOf[eventID] == nil {
		f.attendeeOf[eventID] = map[uuid.UUID]bool{}
	}
	f.attendeeOf[eventID][userID] = true
	f.events.attendees[eventID]++
	return &models.Attendee{
		ID:        uuid.New(),
		EventID:   eventID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// fakeUserRepo enforces the same unique-username rule as the real table.
type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	if _, ok := f.users[user.Username]; ok {
		return nil, models.ErrDuplicateUsername
	}
	f.users[user.Username] = user
	return user, nil
}

func (f *fakeUserRepo) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	user, ok := f.users[username]
	if !ok {
		return nil, models.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, models.ErrNotFound
}

// fakeDonationRepo stores donations keyed by external payment id.
type fakeDonationRepo struct {
	donations map[string]*models.Donation
}

func newFakeDonationRepo() *fakeDonationRepo {
	return &fakeDonationRepo{donations: map[string]*models.Donation{}}
}

func (f *fakeDonationRepo) CreateDonation(_ context.Context, donation *models.Donation) (*models.Donation, error) {
	f.donations[donation.PaymentID] = donation
	return donation, nil
}

func (f *fakeDonationRepo) GetDonationByID(_ context.Context, id uuid.UUID) (*models.Donation, error) {
	for _, d := range f.donations {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeDonationRepo) UpdateDonationStatus(_ context.Context, paymentID string, status models.DonationStatus) error {
	d, ok := f.donations[paymentID]
	if !ok {
		return models.ErrNotFound
	}
	d.Status = status
	return nil
}

// fakeProvider records intent-creation calls instead of hitting Stripe.
type fakeProvider struct {
	nextID      int
	lastAmount  int64
	lastMeta    map[string]string
	lastIdemKey string
	intents     map[string]*payments.Intent
	failCreate  bool
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{intents: map[string]*payments.Intent{}}
}

func (f *fakeProvider) CreateIntent(_ context.Context, amountCents int64, metadata map[string]string, idempotencyKey string) (*payments.Intent, error) {
	if f.failCreate {
		return nil, errors.New("provider unavailable")
	}
	f.nextID++
	f.lastAmount = amountCents
	f.lastMeta = metadata
	f.lastIdemKey = idempotencyKey
	intent := &payments.Intent{
		ID:           "pi_" + uuid.New().String(),
		ClientSecret: "secret_test",
		Status:       "requires_payment_method",
		Amount:       amountCents,
		Metadata:     metadata,
	}
	f.intents[intent.ID] = intent
	return intent, nil
}

func (f *fakeProvider) GetIntent(_ context.Context, id string) (*payments.Intent, error) {
	intent, ok := f.intents[id]
	if !ok {
		return nil, errors.New("no such intent")
	}
	return intent, nil
}
