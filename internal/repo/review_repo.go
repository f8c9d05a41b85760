package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/renterra/go-rental-backend/internal/domain"
)

// CreateReview inserts a review row. The unique index on
// (agreement_id, renter_id) turns a second review of the same agreement by
// the same renter into ErrDuplicate.
func CreateReview(ctx context.Context, db *gorm.DB, r *domain.Review) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
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

// GetReview fetches a review by id.
func GetReview(ctx context.Context, db *gorm.DB, id string) (*domain.Review, error) {
	var r domain.Review
	if err := db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &r, nil
}

// ListReviewsByProduct returns the reviews of a product, newest first, with
// renter summaries preloaded.
func ListReviewsByProduct(ctx context.Context, db *gorm.DB, productID string) ([]domain.Review, error) {
	var out []domain.Review
	err := db.WithContext(ctx).
		Preload("Renter").
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

// ListReviewsByRenter returns the reviews written by a renter, newest first.
func ListReviewsByRenter(ctx context.Context, db *gorm.DB, renterID string) ([]domain.Review, error) {
	var out []domain.Review
	err := db.WithContext(ctx).
		Preload("Product").
		Where("renter_id = ?", renterID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

// ListReviewsByOwner returns the reviews received across an owner's
// listings, newest first.
func ListReviewsByOwner(ctx context.Context, db *gorm.DB, ownerID string) ([]domain.Review, error) {
	var out []domain.Review
	err := db.WithContext(ctx).
		Preload("Product").
		Preload("Renter").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

// ProductRatingStats aggregates review count and mean rating for a product.
func ProductRatingStats(ctx context.Context, db *gorm.DB, productID string) (count int64, avg float64, err error) {
	row := struct {
		N   int64
		Avg float64
	}{}
	err = db.WithContext(ctx).Model(&domain.Review{}).
		Select("COUNT(*) AS n, COALESCE(AVG(rating), 0) AS avg").
		Where("product_id = ?", productID).
		Scan(&row).Error
	return row.N, row.Avg, err
}

// DeleteReview removes a review row.
func DeleteReview(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Delete(&domain.Review{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
