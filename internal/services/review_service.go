// Package services – ReviewService
//
// This file implements the ReviewService, which governs how renters rate
// completed agreements. It enforces business rules (agreement existence,
// renter-only authorship, completion, uniqueness) and persists the review
// atomically together with the agreement's Reviewed flag.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/renterra/go-rental-backend/internal/domain"
	"github.com/renterra/go-rental-backend/internal/repo"
)

// ReviewService implements review use-cases.
type ReviewService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// Create records a rating for an agreement on behalf of its renter.
//
// Semantics and validation:
//   - rating must be in [1,5]; otherwise ErrInvalidRating.
//   - The agreement must exist (ErrAgreementNotFound), the actor must be its
//     renter (ErrForbidden), and it must be completed
//     (ErrAgreementNotCompleted).
//   - A renter reviews an agreement at most once; a second attempt yields
//     ErrDuplicateReview. The composite unique index makes this hold even
//     when two identical attempts race.
//
// The review insert and the agreement's Reviewed flag are committed in one
// transaction.
func (s *ReviewService) Create(ctx context.Context, actorID, agreementID string, rating int, comment string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	a, err := repo.GetAgreement(ctx, s.DB, agreementID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAgreementNotFound
		}
		return nil, err
	}
	if a.RenterID != actorID {
		return nil, ErrForbidden
	}
	if a.Status != domain.AgreementCompleted {
		return nil, ErrAgreementNotCompleted
	}

	r := &domain.Review{
		AgreementID: agreementID,
		OwnerID:     a.OwnerID,
		RenterID:    actorID,
		ProductID:   a.ProductID,
		Rating:      rating,
		Comment:     comment,
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.CreateReview(ctx, tx, r); err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				return ErrDuplicateReview
			}
			return err
		}
		return repo.UpdateAgreementFields(ctx, tx, agreementID, map[string]any{
			"reviewed":   true,
			"updated_at": time.Now().UTC(),
		})
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ListByProduct returns the reviews of a product, newest first.
func (s *ReviewService) ListByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	if _, err := repo.GetProduct(ctx, s.DB, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return repo.ListReviewsByProduct(ctx, s.DB, productID)
}

// ListByRenter returns the reviews written by a renter, newest first.
func (s *ReviewService) ListByRenter(ctx context.Context, renterID string) ([]domain.Review, error) {
	return repo.ListReviewsByRenter(ctx, s.DB, renterID)
}

// ListByOwner returns the reviews received across an owner's listings,
// newest first. The owner must exist.
func (s *ReviewService) ListByOwner(ctx context.Context, ownerID string) ([]domain.Review, error) {
	if _, err := repo.GetUser(ctx, s.DB, ownerID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return repo.ListReviewsByOwner(ctx, s.DB, ownerID)
}

// Delete removes a review on behalf of its author and resets the
// agreement's Reviewed flag in the same transaction.
func (s *ReviewService) Delete(ctx context.Context, actorID, reviewID string) error {
	r, err := repo.GetReview(ctx, s.DB, reviewID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	if r.RenterID != actorID {
		return ErrForbidden
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.DeleteReview(ctx, tx, reviewID); err != nil {
			return err
		}
		return repo.UpdateAgreementFields(ctx, tx, r.AgreementID, map[string]any{
			"reviewed":   false,
			"updated_at": time.Now().UTC(),
		})
	})
}
