package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/communityhub/server/internal/helpers"
	"github.com/communityhub/server/internal/models"
	"github.com/communityhub/server/internal/payments"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/webhook"
)

// ErrInvalidSignature is returned when the webhook payload does not match
// its signature header.
var ErrInvalidSignature = errors.New("webhook signature verification failed")

// ErrNoRegistrationFee is returned when a paid ticket intent is requested
// for an event without a fee.
var ErrNoRegistrationFee = errors.New("event not found or no registration fee defined")

// ErrInvalidAmount is returned when a donation amount is missing or does
// not resolve to a positive number of minor currency units.
var ErrInvalidAmount = errors.New("valid donation amount is required")

type PaymentService struct {
	eventRepo     models.EventRepo
	regRepo       models.RegistrationRepo
	donationRepo  models.DonationRepo
	provider      payments.Provider
	webhookSecret string
	logger        *slog.Logger
}

func NewPaymentService(
	eventRepo models.EventRepo,
	regRepo models.RegistrationRepo,
	donationRepo models.DonationRepo,
	provider payments.Provider,
	webhookSecret string,
	logger *slog.Logger,
) *PaymentService {
	return &PaymentService{
		eventRepo:     eventRepo,
		regRepo:       regRepo,
		donationRepo:  donationRepo,
		provider:      provider,
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

// TicketIntentResult carries what the client needs to complete payment.
type TicketIntentResult struct {
	ClientSecret   string    `json:"clientSecret"`
	RegistrationID uuid.UUID `json:"registrationId"`
}

// CreateTicketIntent creates a provider intent for a ticket purchase and a
// matching PENDING registration keyed by the intent id. The registration is
// only written after the provider call succeeds, so a provider failure
// leaves no dangling local record.
func (ps *PaymentService) CreateTicketIntent(ctx context.Context, req *models.TicketIntentRequest) (*TicketIntentResult, error) {
	if err := models.Validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid ticket intent request: %v", err)
	}

	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID: %v", err)
	}

	event, err := ps.eventRepo.GetEventByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrNoRegistrationFee
		}
		return nil, err
	}
	if event.RegistrationFee <= 0 {
		return nil, ErrNoRegistrationFee
	}

	amount := event.RegistrationFee * float64(req.TicketCount)
	cents, err := helpers.ToMinorUnits(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %v", err)
	}

	metadata := map[string]string{
		payments.MetaDonationType: payments.TypeRegistration,
		"eventId":                 event.ID.String(),
		"eventName":               event.Title,
		"ticketCount":             strconv.Itoa(req.TicketCount),
		"customerEmail":           req.Email,
		"customerName":            req.Name,
		"customerPhone":           req.Phone,
	}

	// A fresh idempotency key per call: transport retries by the HTTP
	// client cannot double-create intents, while a deliberate
	// re-submission still starts a brand-new payment.
	intent, err := ps.provider.CreateIntent(ctx, cents, metadata, uuid.New().String())
	if err != nil {
		return nil, err
	}

	reg := &models.Registration{
		ID:              uuid.New(),
		EventID:         event.ID,
		Email:           req.Email,
		Name:            req.Name,
		Phone:           req.Phone,
		TicketCount:     req.TicketCount,
		Amount:          amount,
		PaymentIntentID: intent.ID,
		Status:          models.RegistrationPending,
		CreatedAt:       time.Now().UTC(),
	}
	if _, err := ps.regRepo.CreateRegistration(ctx, reg); err != nil {
		return nil, err
	}

	return &TicketIntentResult{
		ClientSecret:   intent.ClientSecret,
		RegistrationID: reg.ID,
	}, nil
}

// DonationIntentResult carries what the client needs to complete a donation.
type DonationIntentResult struct {
	ClientSecret string    `json:"clientSecret"`
	DonationID   uuid.UUID `json:"donationId"`
}

// CreateDonationIntent creates a provider intent for a standalone donation.
// userID is nil for anonymous or unauthenticated donors.
func (ps *PaymentService) CreateDonationIntent(ctx context.Context, req *models.DonationIntentRequest, userID *uuid.UUID) (*DonationIntentResult, error) {
	if err := models.Validate.Struct(req); err != nil {
		return nil, ErrInvalidAmount
	}

	cents, err := helpers.ToMinorUnits(req.Amount)
	if err != nil {
		return nil, ErrInvalidAmount
	}

	donorTag := "anonymous"
	if userID != nil {
		donorTag = userID.String()
	}
	metadata := map[string]string{
		payments.MetaDonationType: payments.TypeDonation,
		"userId":                  donorTag,
		"anonymous":               strconv.FormatBool(req.Anonymous),
	}

	intent, err := ps.provider.CreateIntent(ctx, cents, metadata, uuid.New().String())
	if err != nil {
		return nil, err
	}

	donation := &models.Donation{
		ID:        uuid.New(),
		Amount:    req.Amount,
		Status:    models.DonationPending,
		PaymentID: intent.ID,
		UserID:    userID,
		Anonymous: req.Anonymous,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := ps.donationRepo.CreateDonation(ctx, donation); err != nil {
		return nil, err
	}

	return &DonationIntentResult{
		ClientSecret: intent.ClientSecret,
		DonationID:   donation.ID,
	}, nil
}

// VerifyResult is the fallback confirmation signal for clients whose
// redirect carried no status parameter.
type VerifyResult struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	Event       string `json:"event,omitempty"`
	TicketCount int    `json:"ticketCount,omitempty"`
}

// VerifyPayment re-queries the provider for the intent's current status and
// cross-checks it against the local registration record.
func (ps *PaymentService) VerifyPayment(ctx context.Context, intentID string) (*VerifyResult, error) {
	intent, err := ps.provider.GetIntent(ctx, intentID)
	if err != nil {
		return nil, err
	}

	reg, err := ps.regRepo.GetRegistrationByIntentID(ctx, intentID)
	if err != nil {
		return nil, err
	}

	switch intent.Status {
	case payments.IntentSucceeded:
		return &VerifyResult{
			Status:      "succeeded",
			Message:     "Payment successful",
			Event:       reg.EventTitle,
			TicketCount: reg.TicketCount,
		}, nil
	case payments.IntentProcessing:
		return &VerifyResult{
			Status:  "processing",
			Message: "Your payment is still processing",
		}, nil
	default:
		return &VerifyResult{
			Status:  "failed",
			Message: "Payment was not successful",
		}, nil
	}
}

// HandleWebhook verifies and dispatches one provider notification. It is the
// single authoritative path that moves registrations and donations out of
// PENDING. A payload failing signature verification mutates nothing.
func (ps *PaymentService) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	event, err := webhook.ConstructEvent(payload, sigHeader, ps.webhookSecret)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	switch event.Type {
	case "payment_intent.succeeded":
		return ps.applyIntentOutcome(ctx, event, true)
	case "payment_intent.payment_failed":
		return ps.applyIntentOutcome(ctx, event, false)
	default:
		// Unknown event types are acknowledged and ignored.
		ps.logger.Debug("ignoring webhook event", "type", event.Type)
		return nil
	}
}

// applyIntentOutcome updates the record matching the intent's metadata tag.
// Replays are harmless: the update overwrites the status with the same
// terminal value. A missing local record is logged loudly but not surfaced
// as an HTTP failure, otherwise the provider would redeliver forever.
func (ps *PaymentService) applyIntentOutcome(ctx context.Context, event stripe.Event, succeeded bool) error {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return fmt.Errorf("unmarshal payment intent: %w", err)
	}

	var err error
	switch intent.Metadata[payments.MetaDonationType] {
	case payments.TypeDonation:
		status := models.DonationCompleted
		if !succeeded {
			status = models.DonationFailed
		}
		err = ps.donationRepo.UpdateDonationStatus(ctx, intent.ID, status)
	case payments.TypeRegistration:
		status := models.RegistrationConfirmed
		if !succeeded {
			status = models.RegistrationFailed
		}
		err = ps.regRepo.UpdateRegistrationStatus(ctx, intent.ID, status)
	default:
		ps.logger.Warn("webhook intent carries no known donationType tag",
			"event_id", event.ID,
			"intent_id", intent.ID,
		)
		return nil
	}

	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			ps.logger.Error("webhook references unknown payment record",
				"event_id", event.ID,
				"event_type", event.Type,
				"intent_id", intent.ID,
			)
			return nil
		}
		return err
	}
	return nil
}

// GetDonation returns a donation's current state, used by clients polling
// for webhook completion.
func (ps *PaymentService) GetDonation(ctx context.Context, id uuid.UUID) (*models.Donation, error) {
	return ps.donationRepo.GetDonationByID(ctx, id)
}
