// Package services – ProductService
//
// This file implements the ProductService, which manages rentable listings:
// creation, lookup, keyword search, updates, and removal. The service keeps
// the in-memory search index in sync with every mutation so search results
// never lag behind the database.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/renterra/go-rental-backend/internal/domain"
	"github.com/renterra/go-rental-backend/internal/repo"
	"github.com/renterra/go-rental-backend/internal/search"
	"github.com/renterra/go-rental-backend/internal/utils"
)

// ProductInput carries the fields of a new listing.
type ProductInput struct {
	Category    string
	Name        string
	Description string
	Price       float64
	TimeUnit    string
	Location    string
	Image       string
}

// ProductUpdate carries a partial listing update. Nil fields are untouched.
type ProductUpdate struct {
	Category    *string
	Name        *string
	Description *string
	Price       *float64
	TimeUnit    *string
	Location    *string
	Image       *string
}

// ProductDetail is a product together with its review aggregates.
type ProductDetail struct {
	domain.Product
	ReviewCount   int64   `json:"review_count"`
	AverageRating float64 `json:"average_rating"`
}

// ProductService implements listing use-cases.
type ProductService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Index is the keyword index kept in sync with the products table.
	Index *search.ProductIndex
}

// Create inserts a listing owned by ownerID and indexes it.
func (s *ProductService) Create(ctx context.Context, ownerID string, in ProductInput) (*domain.Product, error) {
	p := &domain.Product{
		OwnerID:     ownerID,
		Category:    strings.TrimSpace(in.Category),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		TimeUnit:    strings.TrimSpace(in.TimeUnit),
		Location:    strings.TrimSpace(in.Location),
		Image:       in.Image,
	}
	if err := repo.CreateProduct(ctx, s.DB, p); err != nil {
		return nil, err
	}
	s.indexProduct(p)
	return p, nil
}

// Get returns a single listing with review aggregates.
func (s *ProductService) Get(ctx context.Context, id string) (*ProductDetail, error) {
	p, err := repo.GetProduct(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	n, avg, err := repo.ProductRatingStats(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	return &ProductDetail{Product: *p, ReviewCount: n, AverageRating: avg}, nil
}

// List returns all listings, newest first.
func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	return repo.ListProducts(ctx, s.DB)
}

// ListPage returns a page of listings, newest first, and the total count.
// It applies defaults for invalid page/pageSize.
func (s *ProductService) ListPage(ctx context.Context, page, pageSize int) ([]domain.Product, int64, error) {
	offset, limit := utils.PageBounds(page, pageSize, 20, 100)
	total, err := repo.CountProducts(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Product{}, 0, nil
	}
	items, err := repo.ListProductsPage(ctx, s.DB, offset, limit)
	return items, total, err
}

// ListByOwner returns the listings of a single owner, newest first.
func (s *ProductService) ListByOwner(ctx context.Context, ownerID string) ([]domain.Product, error) {
	return repo.ListProductsByOwner(ctx, s.DB, ownerID)
}

// Search runs a keyword query against the index and returns the matching
// listings in rank order.
func (s *ProductService) Search(ctx context.Context, query string) ([]domain.Product, error) {
	hits := s.Index.Search(query)
	if len(hits) == 0 {
		return []domain.Product{}, nil
	}
	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.ProductID
	}
	rows, err := repo.ListProductsByIDs(ctx, s.DB, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Product, len(rows))
	for _, p := range rows {
		byID[p.ID] = p
	}
	out := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// Update applies a partial update to a listing the caller owns and reindexes
// it. Non-owners get ErrForbidden.
func (s *ProductService) Update(ctx context.Context, actorID, id string, in ProductUpdate) (*domain.Product, error) {
	p, err := repo.GetProduct(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if p.OwnerID != actorID {
		return nil, ErrForbidden
	}

	fields := map[string]any{}
	if in.Category != nil {
		fields["category"] = strings.TrimSpace(*in.Category)
	}
	if in.Name != nil {
		if v := strings.TrimSpace(*in.Name); v != "" {
			fields["name"] = v
		}
	}
	if in.Description != nil {
		fields["description"] = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil && *in.Price >= 0 {
		fields["price"] = *in.Price
	}
	if in.TimeUnit != nil {
		fields["time_unit"] = strings.TrimSpace(*in.TimeUnit)
	}
	if in.Location != nil {
		fields["location"] = strings.TrimSpace(*in.Location)
	}
	if in.Image != nil {
		fields["image"] = *in.Image
	}

	if len(fields) > 0 {
		if err := repo.UpdateProductFields(ctx, s.DB, id, fields); err != nil {
			return nil, err
		}
		p, err = repo.GetProduct(ctx, s.DB, id)
		if err != nil {
			return nil, err
		}
		s.indexProduct(p)
	}
	return p, nil
}

// Delete removes a listing the caller owns and drops it from the index.
func (s *ProductService) Delete(ctx context.Context, actorID, id string) error {
	p, err := repo.GetProduct(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	if p.OwnerID != actorID {
		return ErrForbidden
	}
	if err := repo.DeleteProduct(ctx, s.DB, id); err != nil {
		return err
	}
	s.Index.Remove(id)
	return nil
}

// WarmIndex loads every listing into the search index. Called once at boot.
func (s *ProductService) WarmIndex(ctx context.Context) error {
	rows, err := repo.ListProducts(ctx, s.DB)
	if err != nil {
		return err
	}
	for i := range rows {
		s.indexProduct(&rows[i])
	}
	return nil
}

func (s *ProductService) indexProduct(p *domain.Product) {
	s.Index.Upsert(p.ID, p.Name, p.Description, p.Category, p.Location)
}
