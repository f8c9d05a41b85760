package payments

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestFakeGateway_CreateIntent(t *testing.T) {
	g := NewFakeGateway()

	in1, err := g.CreateIntent(context.Background(), 1500, "usd", "Drill rental")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if in1.ID != "pi_fake_001" || in1.ClientSecret != "pi_fake_001_secret" {
		t.Fatalf("unexpected ids: %+v", in1)
	}
	if in1.Status != "requires_confirmation" || in1.Amount != 1500 || in1.Currency != "usd" {
		t.Fatalf("unexpected intent: %+v", in1)
	}

	in2, err := g.CreateIntent(context.Background(), 900, "eur", "Canoe rental")
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if !strings.HasSuffix(in2.ID, "_002") {
		t.Fatalf("sequence not advancing: %s", in2.ID)
	}
}

func TestFakeGateway_GetIntentAndSetStatus(t *testing.T) {
	g := NewFakeGateway()
	in, err := g.CreateIntent(context.Background(), 100, "usd", "x")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	g.SetStatus(in.ID, "succeeded")
	got, err := g.GetIntent(context.Background(), in.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != "succeeded" {
		t.Fatalf("status = %q, want succeeded", got.Status)
	}

	if _, err := g.GetIntent(context.Background(), "pi_missing"); err == nil {
		t.Fatalf("expected error for unknown intent")
	}
}

func TestFakeGateway_ReturnsCopies(t *testing.T) {
	g := NewFakeGateway()
	in, err := g.CreateIntent(context.Background(), 100, "usd", "x")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Mutating a returned intent must not leak into the stored one.
	in.Status = "canceled"
	got, err := g.GetIntent(context.Background(), in.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != "requires_confirmation" {
		t.Fatalf("stored intent mutated: %q", got.Status)
	}
}

func TestFakeGateway_InjectedErrors(t *testing.T) {
	g := NewFakeGateway()
	boom := errors.New("gateway down")

	g.CreateErr = boom
	if _, err := g.CreateIntent(context.Background(), 100, "usd", "x"); !errors.Is(err, boom) {
		t.Fatalf("expected injected create error, got %v", err)
	}
	g.CreateErr = nil

	in, err := g.CreateIntent(context.Background(), 100, "usd", "x")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	g.GetErr = boom
	if _, err := g.GetIntent(context.Background(), in.ID); !errors.Is(err, boom) {
		t.Fatalf("expected injected get error, got %v", err)
	}
}
