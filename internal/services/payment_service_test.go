package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/renterra/go-rental-backend/internal/domain"
	"github.com/renterra/go-rental-backend/internal/payments"
)

// ---------- test helpers ----------

func newPaymentSvc(t *testing.T, db *gorm.DB, gw payments.Gateway) *PaymentService {
	t.Helper()
	s, err := NewPaymentService(db, gw, "usd", 278.0)
	if err != nil {
		t.Fatalf("new payment service: %v", err)
	}
	return s
}

func seedRentalWorld(t *testing.T, db *gorm.DB, price float64) {
	t.Helper()
	seedUser(t, db, "owner", "O", domain.RoleOwner)
	seedUser(t, db, "renter", "R", domain.RoleRenter)
	seedProduct(t, db, "p1", "owner", "Drill", price)
	seedRequest(t, db, "r1", "p1", "owner", "renter", domain.RequestAccepted)
	seedAgreement(t, db, "a1", "r1", "owner", "renter", "p1", domain.AgreementActive)
}

// ---------- construction / amounts ----------

func TestNewPaymentService_Validation(t *testing.T) {
	if _, err := NewPaymentService(nil, nil, "zzz", 1); err == nil {
		t.Fatalf("expected invalid currency error")
	}
	if _, err := NewPaymentService(nil, nil, "usd", 0); err == nil {
		t.Fatalf("expected invalid rate error")
	}
	s, err := NewPaymentService(nil, nil, " USD ", 278)
	if err != nil {
		t.Fatalf("expected trimmed uppercase currency to parse: %v", err)
	}
	if s.Currency != "usd" {
		t.Fatalf("currency not normalized: %q", s.Currency)
	}
}

func TestPaymentService_ChargeAmount_Rounds(t *testing.T) {
	s := &PaymentService{Currency: "usd", FXRate: 278.0}
	cases := []struct {
		price float64
		want  int64
	}{
		{278, 100},
		{139, 50},
		{100, 36},   // 35.97 rounds up
		{2500, 899}, // 899.28 rounds down
		{1, 0},
	}
	for _, c := range cases {
		if got := s.ChargeAmount(c.price); got != c.want {
			t.Fatalf("ChargeAmount(%v) = %d, want %d", c.price, got, c.want)
		}
	}
}

// ---------- CreateIntent() ----------

func TestPaymentService_CreateIntent_NotFoundAndForbidden(t *testing.T) {
	db := newSvcDB(t)
	seedRentalWorld(t, db, 278)
	s := newPaymentSvc(t, db, payments.NewFakeGateway())

	if _, _, err := s.CreateIntent(context.Background(), "renter", "missing"); !errors.Is(err, ErrAgreementNotFound) {
		t.Fatalf("expected ErrAgreementNotFound, got %v", err)
	}
	// Only the renter pays; the owner is rejected.
	if _, _, err := s.CreateIntent(context.Background(), "owner", "a1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestPaymentService_CreateIntent_PriceMissing(t *testing.T) {
	db := newSvcDB(t)
	seedUser(t, db, "owner", "O", domain.RoleOwner)
	seedUser(t, db, "renter", "R", domain.RoleRenter)
	seedProduct(t, db, "p1", "owner", "Freebie", 0)
	seedAgreement(t, db, "a1", "r1", "owner", "renter", "p1", domain.AgreementActive)

	s := newPaymentSvc(t, db, payments.NewFakeGateway())
	if _, _, err := s.CreateIntent(context.Background(), "renter", "a1"); !errors.Is(err, ErrPriceMissing) {
		t.Fatalf("expected ErrPriceMissing, got %v", err)
	}
}

func TestPaymentService_CreateIntent_Success_ThenDuplicate(t *testing.T) {
	db := newSvcDB(t)
	seedRentalWorld(t, db, 278)
	gw := payments.NewFakeGateway()
	s := newPaymentSvc(t, db, gw)

	p, secret, err := s.CreateIntent(context.Background(), "renter", "a1")
	if err != nil {
		t.Fatalf("create intent: %v", err)
	}
	if p.Amount != 100 || p.Currency != "usd" || p.Status != domain.PaymentPending {
		t.Fatalf("unexpected payment: %+v", p)
	}
	if p.IntentID == "" || secret == "" {
		t.Fatalf("intent wiring missing: id=%q secret=%q", p.IntentID, secret)
	}

	if _, _, err := s.CreateIntent(context.Background(), "renter", "a1"); !errors.Is(err, ErrDuplicatePayment) {
		t.Fatalf("expected ErrDuplicatePayment, got %v", err)
	}
}

func TestPaymentService_CreateIntent_GatewayError(t *testing.T) {
	db := newSvcDB(t)
	seedRentalWorld(t, db, 278)
	gw := payments.NewFakeGateway()
	gw.CreateErr = errors.New("gateway down")
	s := newPaymentSvc(t, db, gw)

	if _, _, err := s.CreateIntent(context.Background(), "renter", "a1"); err == nil {
		t.Fatalf("expected gateway error")
	}
	var n int64
	db.Model(&domain.Payment{}).Count(&n)
	if n != 0 {
		t.Fatalf("no payment row expected after gateway failure, got %d", n)
	}
}

// ---------- Verify() ----------

func TestPaymentService_Verify_IntentMissing(t *testing.T) {
	db := newSvcDB(t)
	s := newPaymentSvc(t, db, payments.NewFakeGateway())
	if _, err := s.Verify(context.Background(), "renter", "pi_unknown"); !errors.Is(err, ErrIntentMissing) {
		t.Fatalf("expected ErrIntentMissing, got %v", err)
	}
}

func TestPaymentService_Verify_Succeeded_MarksPaid(t *testing.T) {
	db := newSvcDB(t)
	seedRentalWorld(t, db, 278)
	gw := payments.NewFakeGateway()
	s := newPaymentSvc(t, db, gw)

	p, _, err := s.CreateIntent(context.Background(), "renter", "a1")
	if err != nil {
		t.Fatalf("create intent: %v", err)
	}
	gw.SetStatus(p.IntentID, "succeeded")

	got, err := s.Verify(context.Background(), "renter", p.IntentID)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got.Status != domain.PaymentPaid {
		t.Fatalf("expected paid, got %q", got.Status)
	}

	var a domain.Agreement
	if err := db.First(&a, "id = ?", "a1").Error; err != nil {
		t.Fatalf("reload agreement: %v", err)
	}
	if !a.IsPaid {
		t.Fatalf("agreement IsPaid not flipped")
	}
}

func TestPaymentService_Verify_RequiresPaymentMethod_MarksFailed(t *testing.T) {
	db := newSvcDB(t)
	seedRentalWorld(t, db, 278)
	gw := payments.NewFakeGateway()
	s := newPaymentSvc(t, db, gw)

	p, _, err := s.CreateIntent(context.Background(), "renter", "a1")
	if err != nil {
		t.Fatalf("create intent: %v", err)
	}
	gw.SetStatus(p.IntentID, "requires_payment_method")

	got, err := s.Verify(context.Background(), "renter", p.IntentID)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got.Status != domain.PaymentFailed {
		t.Fatalf("expected failed, got %q", got.Status)
	}

	var a domain.Agreement
	db.First(&a, "id = ?", "a1")
	if a.IsPaid {
		t.Fatalf("agreement must not be marked paid on failure")
	}
}

func TestPaymentService_Verify_OtherStatus_LeavesPending(t *testing.T) {
	db := newSvcDB(t)
	seedRentalWorld(t, db, 278)
	gw := payments.NewFakeGateway()
	s := newPaymentSvc(t, db, gw)

	p, _, err := s.CreateIntent(context.Background(), "renter", "a1")
	if err != nil {
		t.Fatalf("create intent: %v", err)
	}
	// FakeGateway leaves new intents in requires_confirmation.
	got, err := s.Verify(context.Background(), "renter", p.IntentID)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got.Status != domain.PaymentPending {
		t.Fatalf("expected pending, got %q", got.Status)
	}
}

func TestPaymentService_Verify_TerminalSkipsGateway(t *testing.T) {
	db := newSvcDB(t)
	seedRentalWorld(t, db, 278)
	gw := payments.NewFakeGateway()
	s := newPaymentSvc(t, db, gw)

	p, _, err := s.CreateIntent(context.Background(), "renter", "a1")
	if err != nil {
		t.Fatalf("create intent: %v", err)
	}
	gw.SetStatus(p.IntentID, "succeeded")
	if _, err := s.Verify(context.Background(), "renter", p.IntentID); err != nil {
		t.Fatalf("first verify: %v", err)
	}

	// Any further verification must not touch the gateway.
	gw.GetErr = errors.New("gateway down")
	got, err := s.Verify(context.Background(), "owner", p.IntentID)
	if err != nil {
		t.Fatalf("second verify: %v", err)
	}
	if got.Status != domain.PaymentPaid {
		t.Fatalf("terminal status changed: %q", got.Status)
	}
}

func TestPaymentService_Verify_ParticipantsOnly(t *testing.T) {
	db := newSvcDB(t)
	seedRentalWorld(t, db, 278)
	gw := payments.NewFakeGateway()
	s := newPaymentSvc(t, db, gw)

	p, _, err := s.CreateIntent(context.Background(), "renter", "a1")
	if err != nil {
		t.Fatalf("create intent: %v", err)
	}
	if _, err := s.Verify(context.Background(), "stranger", p.IntentID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

// ---------- GetByAgreement() ----------

func TestPaymentService_GetByAgreement(t *testing.T) {
	db := newSvcDB(t)
	seedRentalWorld(t, db, 278)
	gw := payments.NewFakeGateway()
	s := newPaymentSvc(t, db, gw)

	if _, err := s.GetByAgreement(context.Background(), "renter", "a1"); !errors.Is(err, ErrPaymentNotFound) {
		t.Fatalf("expected ErrPaymentNotFound before any intent, got %v", err)
	}

	if _, _, err := s.CreateIntent(context.Background(), "renter", "a1"); err != nil {
		t.Fatalf("create intent: %v", err)
	}
	p, err := s.GetByAgreement(context.Background(), "owner", "a1")
	if err != nil {
		t.Fatalf("get by agreement: %v", err)
	}
	if p.AgreementID != "a1" {
		t.Fatalf("wrong payment: %+v", p)
	}
	if _, err := s.GetByAgreement(context.Background(), "stranger", "a1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := s.GetByAgreement(context.Background(), "renter", "missing"); !errors.Is(err, ErrAgreementNotFound) {
		t.Fatalf("expected ErrAgreementNotFound, got %v", err)
	}
}
