// Package services – PaymentService
//
// This file implements the PaymentService, which charges the rental price of
// an agreement through the card gateway. The flow is intent-based: the renter
// opens a payment intent, the client confirms it out of band, and the
// application then verifies the intent's gateway status and records the
// outcome. Verification is safe to repeat; terminal outcomes are never
// overwritten.
package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/currency"
	"gorm.io/gorm"

	"github.com/renterra/go-rental-backend/internal/domain"
	"github.com/renterra/go-rental-backend/internal/payments"
	"github.com/renterra/go-rental-backend/internal/repo"
)

// Gateway intent statuses the service reacts to. Anything else leaves the
// payment pending.
const (
	intentSucceeded       = "succeeded"
	intentRequiresPayMeth = "requires_payment_method"
)

// PaymentService implements payment use-cases.
type PaymentService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Gateway is the card-payment backend.
	Gateway payments.Gateway

	// Currency is the ISO charge currency (lowercase), validated at
	// construction.
	Currency string
	// FXRate converts listing prices into the charge currency.
	FXRate float64
}

// NewPaymentService validates the charge configuration and builds the
// service. The currency must be a valid ISO 4217 code and the rate positive.
func NewPaymentService(db *gorm.DB, gw payments.Gateway, cur string, fxRate float64) (*PaymentService, error) {
	cur = strings.ToLower(strings.TrimSpace(cur))
	if _, err := currency.ParseISO(cur); err != nil {
		return nil, fmt.Errorf("payment currency %q: %w", cur, err)
	}
	if fxRate <= 0 {
		return nil, fmt.Errorf("payment fx rate must be positive, got %v", fxRate)
	}
	return &PaymentService{DB: db, Gateway: gw, Currency: cur, FXRate: fxRate}, nil
}

// ChargeAmount converts a listing price into minor units of the charge
// currency: round(price / rate * 100).
func (s *PaymentService) ChargeAmount(price float64) int64 {
	return int64(math.Round(price / s.FXRate * 100))
}

// CreateIntent opens a payment intent for an agreement on behalf of its
// renter and records the pending payment.
//
// Semantics and validation:
//   - The agreement must exist (ErrAgreementNotFound) and the actor must be
//     its renter (ErrForbidden).
//   - The product behind the agreement must carry a positive price;
//     otherwise ErrPriceMissing.
//   - At most one payment per agreement; a second attempt yields
//     ErrDuplicatePayment. The unique index on agreement_id makes this hold
//     even when two identical attempts race.
func (s *PaymentService) CreateIntent(ctx context.Context, actorID, agreementID string) (*domain.Payment, string, error) {
	tr := otel.Tracer("services/PaymentService")
	ctx, span := tr.Start(ctx, "CreateIntent",
		trace.WithAttributes(
			attribute.String("agreement.id", agreementID),
			attribute.String("payer.id", actorID),
		),
	)
	defer span.End()

	a, err := repo.GetAgreementExpanded(ctx, s.DB, agreementID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, "", ErrAgreementNotFound
		}
		return nil, "", err
	}
	if a.RenterID != actorID {
		return nil, "", ErrForbidden
	}
	if a.Product == nil || a.Product.Price <= 0 {
		return nil, "", ErrPriceMissing
	}
	if _, err := repo.GetPaymentByAgreement(ctx, s.DB, agreementID); err == nil {
		return nil, "", ErrDuplicatePayment
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, "", err
	}

	amount := s.ChargeAmount(a.Product.Price)
	desc := fmt.Sprintf("Rental of %s (agreement %s)", a.Product.Name, a.ID)
	intent, err := s.Gateway.CreateIntent(ctx, amount, s.Currency, desc)
	if err != nil {
		return nil, "", fmt.Errorf("create intent: %w", err)
	}

	p := &domain.Payment{
		AgreementID: agreementID,
		PayerID:     actorID,
		Amount:      amount,
		Currency:    s.Currency,
		IntentID:    intent.ID,
		Status:      domain.PaymentPending,
	}
	if err := repo.CreatePayment(ctx, s.DB, p); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, "", ErrDuplicatePayment
		}
		return nil, "", err
	}
	return p, intent.ClientSecret, nil
}

// Verify reconciles a payment with the gateway state of its intent.
//
// Semantics:
//   - The intent id must belong to a recorded payment (ErrIntentMissing)
//     whose agreement the actor participates in (ErrForbidden).
//   - A gateway status of "succeeded" marks the payment paid and flips the
//     agreement's IsPaid flag in the same transaction.
//   - "requires_payment_method" marks the payment failed: the confirmation
//     attempt was rejected and the client must start over.
//   - Any other gateway status leaves the payment pending.
//   - Terminal payments are returned as stored without consulting the
//     gateway, so repeated verification is harmless.
func (s *PaymentService) Verify(ctx context.Context, actorID, intentID string) (*domain.Payment, error) {
	tr := otel.Tracer("services/PaymentService")
	ctx, span := tr.Start(ctx, "Verify",
		trace.WithAttributes(attribute.String("intent.id", intentID)),
	)
	defer span.End()

	p, err := repo.GetPaymentByIntent(ctx, s.DB, intentID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrIntentMissing
		}
		return nil, err
	}
	a, err := repo.GetAgreement(ctx, s.DB, p.AgreementID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAgreementNotFound
		}
		return nil, err
	}
	if !a.Participant(actorID) {
		return nil, ErrForbidden
	}
	if p.Terminal() {
		return p, nil
	}

	intent, err := s.Gateway.GetIntent(ctx, intentID)
	if err != nil {
		return nil, fmt.Errorf("get intent: %w", err)
	}

	switch intent.Status {
	case intentSucceeded:
		err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := repo.UpdatePaymentStatus(ctx, tx, p.ID, domain.PaymentPaid); err != nil {
				return err
			}
			return repo.UpdateAgreementFields(ctx, tx, a.ID, map[string]any{
				"is_paid":    true,
				"updated_at": time.Now().UTC(),
			})
		})
		if err != nil {
			return nil, err
		}
		p.Status = domain.PaymentPaid
	case intentRequiresPayMeth:
		if err := repo.UpdatePaymentStatus(ctx, s.DB, p.ID, domain.PaymentFailed); err != nil {
			return nil, err
		}
		p.Status = domain.PaymentFailed
	}
	return p, nil
}

// GetByAgreement returns the payment of an agreement to one of its
// participants.
func (s *PaymentService) GetByAgreement(ctx context.Context, actorID, agreementID string) (*domain.Payment, error) {
	a, err := repo.GetAgreement(ctx, s.DB, agreementID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAgreementNotFound
		}
		return nil, err
	}
	if !a.Participant(actorID) {
		return nil, ErrForbidden
	}
	p, err := repo.GetPaymentByAgreement(ctx, s.DB, agreementID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return p, nil
}
