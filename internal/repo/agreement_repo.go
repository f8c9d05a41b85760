// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Agreement
// model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/renterra/go-rental-backend/internal/domain"
)

// CreateAgreement inserts an agreement row. The document locator must already
// point at a fully written file; it is immutable afterwards.
func CreateAgreement(ctx context.Context, db *gorm.DB, a *domain.Agreement) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = domain.AgreementActive
	}
	a.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(a).Error
}

// GetAgreement fetches an agreement by id.
func GetAgreement(ctx context.Context, db *gorm.DB, id string) (*domain.Agreement, error) {
	var a domain.Agreement
	if err := db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

// GetAgreementExpanded fetches an agreement with product and party summaries
// preloaded.
func GetAgreementExpanded(ctx context.Context, db *gorm.DB, id string) (*domain.Agreement, error) {
	var a domain.Agreement
	err := db.WithContext(ctx).
		Preload("Product").Preload("Owner").Preload("Renter").
		First(&a, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

// FindAgreementByRequest returns the agreement belonging to a rental request,
// expanded, or ErrNotFound when none was generated yet.
func FindAgreementByRequest(ctx context.Context, db *gorm.DB, requestID string) (*domain.Agreement, error) {
	var a domain.Agreement
	err := db.WithContext(ctx).
		Preload("Product").Preload("Owner").Preload("Renter").
		First(&a, "request_id = ?", requestID).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

// ListAgreements returns every agreement, newest first, expanded. Admin view.
func ListAgreements(ctx context.Context, db *gorm.DB) ([]domain.Agreement, error) {
	var out []domain.Agreement
	err := db.WithContext(ctx).
		Preload("Product").Preload("Owner").Preload("Renter").
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

// ListAgreementsForParty returns the agreements where the party is owner or
// renter, newest first, expanded.
func ListAgreementsForParty(ctx context.Context, db *gorm.DB, partyID string) ([]domain.Agreement, error) {
	var out []domain.Agreement
	err := db.WithContext(ctx).
		Preload("Product").Preload("Owner").Preload("Renter").
		Where("owner_id = ? OR renter_id = ?", partyID, partyID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

// UpdateAgreementFields applies a partial update to an agreement row.
func UpdateAgreementFields(ctx context.Context, db *gorm.DB, id string, fields map[string]any) error {
	res := db.WithContext(ctx).Model(&domain.Agreement{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
