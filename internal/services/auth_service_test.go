package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/renterra/go-rental-backend/internal/auth"
	"github.com/renterra/go-rental-backend/internal/domain"
)

func newAuthSvc(t *testing.T) *AuthService {
	t.Helper()
	return &AuthService{
		DB:     newSvcDB(t),
		Tokens: auth.NewIssuer("test-secret", time.Hour),
	}
}

func TestAuthService_Register_DefaultsRoleAndHashes(t *testing.T) {
	s := newAuthSvc(t)

	u, err := s.Register(context.Background(), RegisterInput{
		FullName: "  Rhea Renter  ",
		Email:    "rhea@example.com",
		Password: "hunter22",
		Role:     "superuser", // unknown → renter
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.ID == "" || u.Role != domain.RoleRenter {
		t.Fatalf("unexpected user: %+v", u)
	}
	if u.FullName != "Rhea Renter" {
		t.Fatalf("name not trimmed: %q", u.FullName)
	}
	if u.Password == "hunter22" || u.Password == "" {
		t.Fatalf("password stored in the clear")
	}
	if !auth.CheckPassword(u.Password, "hunter22") {
		t.Fatalf("stored hash does not verify")
	}
}

func TestAuthService_Register_EmailTaken_CaseInsensitive(t *testing.T) {
	s := newAuthSvc(t)
	if _, err := s.Register(context.Background(), RegisterInput{
		FullName: "A", Email: "a@example.com", Password: "pw", Role: domain.RoleOwner,
	}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := s.Register(context.Background(), RegisterInput{
		FullName: "B", Email: "A@Example.COM", Password: "pw2",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	s := newAuthSvc(t)
	u, err := s.Register(context.Background(), RegisterInput{
		FullName: "Olivia Owner", Email: "olivia@example.com", Password: "pw", Role: domain.RoleOwner,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, _, err := s.Login(context.Background(), "nobody@example.com", "pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := s.Login(context.Background(), "olivia@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("bad password: expected ErrInvalidCredentials, got %v", err)
	}

	got, token, err := s.Login(context.Background(), "olivia@example.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("wrong user returned: %+v", got)
	}

	party, err := s.Tokens.Parse(token)
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if party.ID != u.ID || party.Role != domain.RoleOwner {
		t.Fatalf("token claims mismatch: %+v", party)
	}
}
