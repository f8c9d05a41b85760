// Package services – UserService
//
// This file implements the UserService, which serves public profiles and
// lets account holders update their own details. Profile responses aggregate
// listing and request counts so clients can render a summary page from a
// single call.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/renterra/go-rental-backend/internal/auth"
	"github.com/renterra/go-rental-backend/internal/domain"
	"github.com/renterra/go-rental-backend/internal/repo"
)

// Profile is a user together with activity counts.
type Profile struct {
	User         domain.UserSummary `json:"user"`
	ProductCount int64              `json:"product_count"`
	RequestCount int64              `json:"request_count"`
}

// UserUpdate carries a partial profile update. Nil fields are left untouched.
type UserUpdate struct {
	FullName *string
	Area     *string
	Phone    *string
	Picture  *string
	Password *string
}

// UserService implements profile reads and updates.
type UserService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// GetProfile returns the public profile of a user with activity counts.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	u, err := repo.GetUser(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	products, err := repo.CountProductsByOwner(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	requests, err := repo.CountRequestsForParty(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: u.Summary(), ProductCount: products, RequestCount: requests}, nil
}

// Update applies a partial update to the caller's own account and returns the
// fresh row. Passwords are re-hashed; blank strings in set fields are
// rejected by trimming to the stored value semantics (a set-but-blank name is
// ignored).
func (s *UserService) Update(ctx context.Context, userID string, in UserUpdate) (*domain.User, error) {
	fields := map[string]any{}
	if in.FullName != nil {
		if v := strings.TrimSpace(*in.FullName); v != "" {
			fields["full_name"] = v
		}
	}
	if in.Area != nil {
		fields["area"] = strings.TrimSpace(*in.Area)
	}
	if in.Phone != nil {
		fields["phone"] = strings.TrimSpace(*in.Phone)
	}
	if in.Picture != nil {
		fields["picture"] = strings.TrimSpace(*in.Picture)
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		fields["password"] = hash
	}

	if len(fields) > 0 {
		if err := repo.UpdateUserFields(ctx, s.DB, userID, fields); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
	}

	u, err := repo.GetUser(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}
