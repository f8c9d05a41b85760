// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// RentalRequest model.
//
// Error semantics:
//   - Duplicate requests (same product_id, renter_id) rely on the composite
//     unique index and are returned as ErrDuplicate. The service layer
//     translates that into its Conflict sentinel.
//   - Missing rows are returned as ErrNotFound.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/renterra/go-rental-backend/internal/domain"
)

// CreateRequest inserts a rental request row. The (product_id, renter_id)
// pair must be unique; violations map to ErrDuplicate.
func CreateRequest(ctx context.Context, db *gorm.DB, r *domain.RentalRequest) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = domain.RequestPending
	}
	r.CreatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetRequest fetches a request by id.
func GetRequest(ctx context.Context, db *gorm.DB, id string) (*domain.RentalRequest, error) {
	var r domain.RentalRequest
	if err := db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &r, nil
}

// GetRequestExpanded fetches a request with its product, owner, and renter
// summaries preloaded.
func GetRequestExpanded(ctx context.Context, db *gorm.DB, id string) (*domain.RentalRequest, error) {
	var r domain.RentalRequest
	err := db.WithContext(ctx).
		Preload("Product").Preload("Owner").Preload("Renter").
		First(&r, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &r, nil
}

// FindRequestByProductAndRenter returns the request linking the pair, or
// ErrNotFound.
func FindRequestByProductAndRenter(ctx context.Context, db *gorm.DB, productID, renterID string) (*domain.RentalRequest, error) {
	var r domain.RentalRequest
	err := db.WithContext(ctx).
		First(&r, "product_id = ? AND renter_id = ?", productID, renterID).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &r, nil
}

// UpdateRequestStatus sets the status column for a request.
func UpdateRequestStatus(ctx context.Context, db *gorm.DB, id, status string) error {
	res := db.WithContext(ctx).Model(&domain.RentalRequest{}).
		Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteRequest removes a request row.
func DeleteRequest(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Delete(&domain.RentalRequest{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListRequestsForParty returns every request where the party is owner or
// renter, newest first, with related summaries preloaded.
func ListRequestsForParty(ctx context.Context, db *gorm.DB, partyID string) ([]domain.RentalRequest, error) {
	var out []domain.RentalRequest
	err := db.WithContext(ctx).
		Preload("Product").Preload("Owner").Preload("Renter").
		Where("owner_id = ? OR renter_id = ?", partyID, partyID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

// CountRequestsForParty returns how many requests reference the party on
// either side. Used by the profile aggregate view.
func CountRequestsForParty(ctx context.Context, db *gorm.DB, partyID string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.RentalRequest{}).
		Where("owner_id = ? OR renter_id = ?", partyID, partyID).
		Count(&n).Error
	return n, err
}
