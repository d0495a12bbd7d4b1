// Package payments wraps the Stripe payment-intent API behind a small
// provider interface so services can be exercised without network access.
package payments

import "context"

// Intent is the provider-side object representing an in-progress payment.
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	Amount       int64
	Metadata     map[string]string
}

// Intent statuses surfaced to the verification flow.
const (
	IntentSucceeded  = "succeeded"
	IntentProcessing = "processing"
)

// Metadata keys used to correlate intents with local records.
const (
	MetaDonationType = "donationType"
	TypeDonation     = "donation"
	TypeRegistration = "registration"
)

type Provider interface {
	// CreateIntent creates a provider intent for the given amount in minor
	// currency units. The idempotency key guards transport-level retries.
	CreateIntent(ctx context.Context, amountCents int64, metadata map[string]string, idempotencyKey string) (*Intent, error)

	// GetIntent fetches the current state of an intent by its external id.
	GetIntent(ctx context.Context, id string) (*Intent, error)
}
