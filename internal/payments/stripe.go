package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const stripeBaseURL = "https://api.stripe.com/v1"

// StripeGateway implements Gateway against the Stripe PaymentIntents API.
// Requests are form-encoded and authenticated with the secret key as a
// bearer token, per Stripe's HTTP conventions.
type StripeGateway struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

// NewStripeGateway builds a gateway using the given secret key.
func NewStripeGateway(secretKey string) *StripeGateway {
	return &StripeGateway{
		secretKey: secretKey,
		baseURL:   stripeBaseURL,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

type stripeIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

type stripeError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreateIntent opens a PaymentIntent with automatic payment methods enabled.
func (g *StripeGateway) CreateIntent(ctx context.Context, amount int64, currency, description string) (*Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount, 10))
	form.Set("currency", currency)
	form.Set("description", description)
	form.Set("automatic_payment_methods[enabled]", "true")

	var out stripeIntent
	if err := g.do(ctx, http.MethodPost, "/payment_intents", form, &out); err != nil {
		return nil, err
	}
	return fromStripe(&out), nil
}

// GetIntent fetches a PaymentIntent by id.
func (g *StripeGateway) GetIntent(ctx context.Context, id string) (*Intent, error) {
	var out stripeIntent
	if err := g.do(ctx, http.MethodGet, "/payment_intents/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return fromStripe(&out), nil
}

func (g *StripeGateway) do(ctx context.Context, method, path string, form url.Values, out any) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("stripe: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("stripe: read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		var se stripeError
		if json.Unmarshal(raw, &se) == nil && se.Error.Message != "" {
			return fmt.Errorf("stripe: %s (%s)", se.Error.Message, se.Error.Type)
		}
		return fmt.Errorf("stripe: unexpected status %d", resp.StatusCode)
	}
	return json.Unmarshal(raw, out)
}

func fromStripe(s *stripeIntent) *Intent {
	return &Intent{
		ID:           s.ID,
		ClientSecret: s.ClientSecret,
		Status:       s.Status,
		Amount:       s.Amount,
		Currency:     s.Currency,
	}
}
