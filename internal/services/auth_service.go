// Package services – AuthService
//
// This file implements the AuthService, which handles account registration
// and login. Passwords are stored as bcrypt hashes; successful logins mint a
// signed access token carrying the user id and role. Service-level errors
// (ErrEmailTaken, ErrInvalidCredentials) are returned for predictable cases
// so handlers can map them to HTTP results consistently.
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

// AuthService implements registration and login.
type AuthService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Tokens mints access tokens on successful login.
	Tokens *auth.Issuer
}

// RegisterInput is the validated payload for Register.
type RegisterInput struct {
	FullName string
	Email    string
	Password string
	Role     string
	Area     string
	Phone    string
}

// Register creates an account and returns it. The email is lowercased before
// the uniqueness check; an already-registered email yields ErrEmailTaken.
// The role defaults to renter and anything outside the known set is rejected
// by falling back to renter as well.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	role := strings.ToLower(strings.TrimSpace(in.Role))
	switch role {
	case domain.RoleRenter, domain.RoleOwner, domain.RoleAdmin:
	default:
		role = domain.RoleRenter
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		FullName: strings.TrimSpace(in.FullName),
		Email:    in.Email,
		Password: hash,
		Role:     role,
		Area:     strings.TrimSpace(in.Area),
		Phone:    strings.TrimSpace(in.Phone),
	}
	if err := repo.CreateUser(ctx, s.DB, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

// Login checks the credentials and returns the user plus a signed token.
// Both unknown emails and wrong passwords yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	u, err := repo.GetUserByEmail(ctx, s.DB, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !auth.CheckPassword(u.Password, password) {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.Tokens.Issue(u.ID, u.Role)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}
