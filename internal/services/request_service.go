// Package services – RequestService
//
// This file implements the RequestService, the state machine at the heart of
// the marketplace. A renter opens a request against a product; the product
// owner resolves it exactly once by accepting or rejecting it. Every
// transition spawns a notification for the other party inside the same
// transaction, so a stored request and its notification never diverge.
//
// Observability: the mutating methods are OpenTelemetry-instrumented; spans
// carry the product and party ids involved.
package services

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/renterra/go-rental-backend/internal/domain"
	"github.com/renterra/go-rental-backend/internal/repo"
)

// RequestService implements rental-request use-cases.
type RequestService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// Create opens a rental request for productID on behalf of renterID.
//
// Semantics and validation:
//   - The product must exist; otherwise ErrProductNotFound.
//   - Owners cannot rent their own products; otherwise ErrSelfRent.
//   - At most one request per (product, renter); a second attempt yields
//     ErrDuplicateRequest. The composite unique index makes this hold even
//     when two identical requests race.
//
// Side effects: a notification for the product owner is created in the same
// transaction as the request.
func (s *RequestService) Create(ctx context.Context, renterID, productID string) (*domain.RentalRequest, error) {
	tr := otel.Tracer("services/RequestService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(
			attribute.String("product.id", productID),
			attribute.String("renter.id", renterID),
		),
	)
	defer span.End()

	product, err := repo.GetProduct(ctx, s.DB, productID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if product.OwnerID == renterID {
		return nil, ErrSelfRent
	}

	renter, err := repo.GetUser(ctx, s.DB, renterID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	req := &domain.RentalRequest{
		ProductID: productID,
		OwnerID:   product.OwnerID,
		RenterID:  renterID,
		Status:    domain.RequestPending,
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.CreateRequest(ctx, tx, req); err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				return ErrDuplicateRequest
			}
			return err
		}
		n := &domain.Notification{
			RequestID: req.ID,
			UserID:    product.OwnerID,
			Message:   fmt.Sprintf("%s wants to rent your %s", renter.FullName, product.Name),
		}
		return repo.CreateNotification(ctx, tx, n)
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// UpdateStatus resolves a pending request to accepted or rejected.
//
// Semantics and validation:
//   - status must be accepted or rejected; otherwise ErrInvalidStatus.
//   - The request must exist; otherwise ErrRequestNotFound.
//   - Only the product owner may resolve it; otherwise ErrNotRequestOwner.
//   - A request is resolved exactly once; re-resolving yields
//     ErrRequestResolved.
//
// Side effects: a notification for the renter is created in the same
// transaction as the status change.
func (s *RequestService) UpdateStatus(ctx context.Context, actorID, requestID, status string) (*domain.RentalRequest, error) {
	tr := otel.Tracer("services/RequestService")
	ctx, span := tr.Start(ctx, "UpdateStatus",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
			attribute.String("request.status", status),
		),
	)
	defer span.End()

	if status != domain.RequestAccepted && status != domain.RequestRejected {
		return nil, ErrInvalidStatus
	}

	req, err := repo.GetRequestExpanded(ctx, s.DB, requestID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	if req.OwnerID != actorID {
		return nil, ErrNotRequestOwner
	}
	if req.Status != domain.RequestPending {
		return nil, ErrRequestResolved
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.UpdateRequestStatus(ctx, tx, requestID, status); err != nil {
			return err
		}
		productName := ""
		if req.Product != nil {
			productName = req.Product.Name
		}
		n := &domain.Notification{
			RequestID: req.ID,
			UserID:    req.RenterID,
			Message:   fmt.Sprintf("Your request for %s was %s", productName, status),
		}
		return repo.CreateNotification(ctx, tx, n)
	})
	if err != nil {
		return nil, err
	}
	req.Status = status
	return req, nil
}

// Get returns a request, expanded, to one of its participants.
func (s *RequestService) Get(ctx context.Context, actorID, requestID string) (*domain.RentalRequest, error) {
	req, err := repo.GetRequestExpanded(ctx, s.DB, requestID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	if req.OwnerID != actorID && req.RenterID != actorID {
		return nil, ErrForbidden
	}
	return req, nil
}

// List returns the requests a party participates in, as owner or renter,
// newest first and expanded.
func (s *RequestService) List(ctx context.Context, partyID string) ([]domain.RentalRequest, error) {
	return repo.ListRequestsForParty(ctx, s.DB, partyID)
}

// Cancel withdraws a pending request on behalf of its renter, removing the
// notifications the request spawned in the same transaction. Resolved
// requests cannot be withdrawn (ErrRequestResolved); non-renters get
// ErrForbidden.
func (s *RequestService) Cancel(ctx context.Context, actorID, requestID string) error {
	tr := otel.Tracer("services/RequestService")
	ctx, span := tr.Start(ctx, "Cancel",
		trace.WithAttributes(attribute.String("request.id", requestID)),
	)
	defer span.End()

	req, err := repo.GetRequest(ctx, s.DB, requestID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrRequestNotFound
		}
		return err
	}
	if req.RenterID != actorID {
		return ErrForbidden
	}
	if req.Status != domain.RequestPending {
		return ErrRequestResolved
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.DeleteNotificationsByRequest(ctx, tx, requestID); err != nil {
			return err
		}
		return repo.DeleteRequest(ctx, tx, requestID)
	})
}
