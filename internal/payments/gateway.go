// Package payments abstracts the card-payment gateway behind a small
// interface so services can be tested without network access. The production
// implementation talks to the Stripe PaymentIntents API; a fake keeps intents
// in memory for development and tests.
package payments

import "context"

// Intent is the gateway-side payment object tracked per agreement.
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	Amount       int64
	Currency     string
}

// Gateway creates and inspects payment intents.
type Gateway interface {
	// CreateIntent opens an intent for the given amount in minor units.
	CreateIntent(ctx context.Context, amount int64, currency, description string) (*Intent, error)

	// GetIntent fetches the current state of an intent.
	GetIntent(ctx context.Context, id string) (*Intent, error)
}
