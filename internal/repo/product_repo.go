// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Product
// model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/renterra/go-rental-backend/internal/domain"
)

// CreateProduct inserts a new product row.
func CreateProduct(ctx context.Context, db *gorm.DB, p *domain.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(p).Error
}

// GetProduct fetches a product by id, returning ErrNotFound when absent.
func GetProduct(ctx context.Context, db *gorm.DB, id string) (*domain.Product, error) {
	var p domain.Product
	if err := db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// ListProducts returns all products, newest first.
func ListProducts(ctx context.Context, db *gorm.DB) ([]domain.Product, error) {
	var out []domain.Product
	err := db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, err
}

// CountProducts returns the total number of listings, for pagination.
func CountProducts(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Product{}).Count(&n).Error
	return n, err
}

// ListProductsPage returns a page of products, newest first.
func ListProductsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Product, error) {
	var out []domain.Product
	err := db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&out).Error
	return out, err
}

// ListProductsByOwner returns the products listed by a single owner.
func ListProductsByOwner(ctx context.Context, db *gorm.DB, ownerID string) ([]domain.Product, error) {
	var out []domain.Product
	err := db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

// ListProductsByIDs loads the given products preserving no particular order.
func ListProductsByIDs(ctx context.Context, db *gorm.DB, ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}
	var out []domain.Product
	err := db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error
	return out, err
}

// UpdateProductFields applies a partial update; only the columns present in
// fields are touched.
func UpdateProductFields(ctx context.Context, db *gorm.DB, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := db.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteProduct removes a product row.
func DeleteProduct(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Delete(&domain.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountProductsByOwner returns how many products an owner has listed.
// Used by the profile aggregate view.
func CountProductsByOwner(ctx context.Context, db *gorm.DB, ownerID string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Product{}).
		Where("owner_id = ?", ownerID).Count(&n).Error
	return n, err
}
