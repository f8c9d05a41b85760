package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssuer_IssueAndParse(t *testing.T) {
	i := NewIssuer("secret", time.Hour)
	tok, err := i.Issue("u1", "owner")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	p, err := i.Parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.ID != "u1" || p.Role != "owner" {
		t.Fatalf("party mismatch: %+v", p)
	}
}

func TestIssuer_Parse_WrongSecret(t *testing.T) {
	tok, err := NewIssuer("secret-a", time.Hour).Issue("u1", "renter")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := NewIssuer("secret-b", time.Hour).Parse(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestIssuer_Parse_Expired(t *testing.T) {
	i := NewIssuer("secret", -time.Minute)
	tok, err := i.Issue("u1", "renter")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := i.Parse(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestIssuer_Parse_RejectsUnsignedAlg(t *testing.T) {
	claims := Claims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := NewIssuer("secret", time.Hour).Parse(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("alg=none must be rejected, got %v", err)
	}
}

func TestIssuer_Parse_MissingSubject(t *testing.T) {
	i := NewIssuer("secret", time.Hour)
	tok, err := i.Issue("", "renter")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := i.Parse(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("empty subject must be rejected, got %v", err)
	}
}

func TestIssuer_Parse_Garbage(t *testing.T) {
	if _, err := NewIssuer("secret", time.Hour).Parse("not.a.jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "correct horse" {
		t.Fatalf("hash equals plaintext")
	}
	if !CheckPassword(hash, "correct horse") {
		t.Fatalf("valid password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatalf("invalid password accepted")
	}
	if CheckPassword("not-a-hash", "correct horse") {
		t.Fatalf("malformed hash accepted")
	}
}
