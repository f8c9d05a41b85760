package services

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/renterra/go-rental-backend/internal/domain"
	"github.com/renterra/go-rental-backend/internal/pdf"
	"github.com/renterra/go-rental-backend/internal/storage"
)

// ---------- test helpers ----------

func newDocStore(t *testing.T) *storage.Store {
	t.Helper()
	st, err := storage.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return st
}

// stubRender writes a tiny fixed payload instead of a real PDF.
func stubRender(w io.Writer, _ pdf.AgreementDoc) error {
	_, err := w.Write([]byte("%PDF-stub"))
	return err
}

func newAgreementSvc(t *testing.T, db *gorm.DB) *AgreementService {
	t.Helper()
	return &AgreementService{DB: db, Docs: newDocStore(t), Render: stubRender}
}

func seedAgreement(t *testing.T, db *gorm.DB, id, requestID, ownerID, renterID, productID, status string) *domain.Agreement {
	t.Helper()
	a := &domain.Agreement{
		ID:         id,
		RequestID:  requestID,
		OwnerID:    ownerID,
		RenterID:   renterID,
		ProductID:  productID,
		PickupDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		ReturnDate: time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC),
		Status:     status,
		FileName:   "agreement-" + id + ".pdf",
		FilePath:   "agreements/agreement-" + id + ".pdf",
		CreatedBy:  renterID,
	}
	if err := db.Create(a).Error; err != nil {
		t.Fatalf("seed agreement %s: %v", id, err)
	}
	return a
}

// ---------- Generate() ----------

func TestAgreementService_Generate_InvalidPeriod(t *testing.T) {
	db := newSvcDB(t)
	s := newAgreementSvc(t, db)
	pickup := time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)
	ret := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	_, err := s.Generate(context.Background(), "renter", "r1", pickup, ret)
	if !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
}

func TestAgreementService_Generate_RequestNotFound(t *testing.T) {
	db := newSvcDB(t)
	s := newAgreementSvc(t, db)
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	_, err := s.Generate(context.Background(), "renter", "missing", day, day)
	if !errors.Is(err, ErrRequestNotFound) {
		t.Fatalf("expected ErrRequestNotFound, got %v", err)
	}
}

func TestAgreementService_Generate_ParticipantsOnly(t *testing.T) {
	db := newSvcDB(t)
	seedUser(t, db, "owner", "O", domain.RoleOwner)
	seedUser(t, db, "renter", "R", domain.RoleRenter)
	seedProduct(t, db, "p1", "owner", "Drill", 10)
	seedRequest(t, db, "r1", "p1", "owner", "renter", domain.RequestAccepted)

	s := newAgreementSvc(t, db)
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	_, err := s.Generate(context.Background(), "stranger", "r1", day, day.AddDate(0, 0, 7))
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAgreementService_Generate_Success_StoresDocument(t *testing.T) {
	db := newSvcDB(t)
	seedUser(t, db, "owner", "O", domain.RoleOwner)
	seedUser(t, db, "renter", "R", domain.RoleRenter)
	seedProduct(t, db, "p1", "owner", "Drill", 10)
	seedRequest(t, db, "r1", "p1", "owner", "renter", domain.RequestAccepted)

	s := newAgreementSvc(t, db)
	pickup := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	ret := pickup.AddDate(0, 0, 7)

	a, err := s.Generate(context.Background(), "renter", "r1", pickup, ret)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if a.Status != domain.AgreementActive || a.CreatedBy != "renter" {
		t.Fatalf("unexpected agreement: %+v", a)
	}
	if !s.Docs.Exists(a.FilePath) {
		t.Fatalf("document not stored at %q", a.FilePath)
	}

	p, err := s.Docs.Path(a.FilePath)
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read doc: %v", err)
	}
	if string(b) != "%PDF-stub" {
		t.Fatalf("unexpected document payload: %q", b)
	}
}

func TestAgreementService_Generate_IdempotentPerRequest(t *testing.T) {
	db := newSvcDB(t)
	seedUser(t, db, "owner", "O", domain.RoleOwner)
	seedUser(t, db, "renter", "R", domain.RoleRenter)
	seedProduct(t, db, "p1", "owner", "Drill", 10)
	seedRequest(t, db, "r1", "p1", "owner", "renter", domain.RequestAccepted)

	s := newAgreementSvc(t, db)
	pickup := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	ret := pickup.AddDate(0, 0, 7)

	first, err := s.Generate(context.Background(), "renter", "r1", pickup, ret)
	if err != nil {
		t.Fatalf("first generate: %v", err)
	}
	// Different caller and period; the existing agreement wins.
	second, err := s.Generate(context.Background(), "owner", "r1", pickup.AddDate(0, 0, 1), ret.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("second generate: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected the same agreement, got %s and %s", first.ID, second.ID)
	}
	var n int64
	db.Model(&domain.Agreement{}).Count(&n)
	if n != 1 {
		t.Fatalf("expected exactly one agreement row, got %d", n)
	}
}

func TestAgreementService_Generate_RenderFailure_NoRow(t *testing.T) {
	db := newSvcDB(t)
	seedUser(t, db, "owner", "O", domain.RoleOwner)
	seedUser(t, db, "renter", "R", domain.RoleRenter)
	seedProduct(t, db, "p1", "owner", "Drill", 10)
	seedRequest(t, db, "r1", "p1", "owner", "renter", domain.RequestAccepted)

	s := newAgreementSvc(t, db)
	s.Render = func(io.Writer, pdf.AgreementDoc) error { return errors.New("boom") }

	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	if _, err := s.Generate(context.Background(), "renter", "r1", day, day); err == nil {
		t.Fatalf("expected render error")
	}
	var n int64
	db.Model(&domain.Agreement{}).Count(&n)
	if n != 0 {
		t.Fatalf("no agreement row expected after render failure, got %d", n)
	}
}

// ---------- Get() / GetByRequest() / List() ----------

func TestAgreementService_Get_AccessControl(t *testing.T) {
	db := newSvcDB(t)
	seedUser(t, db, "owner", "O", domain.RoleOwner)
	seedUser(t, db, "renter", "R", domain.RoleRenter)
	seedProduct(t, db, "p1", "owner", "Drill", 10)
	seedAgreement(t, db, "a1", "r1", "owner", "renter", "p1", domain.AgreementActive)

	s := newAgreementSvc(t, db)
	if _, err := s.Get(context.Background(), "renter", "a1"); err != nil {
		t.Fatalf("renter get: %v", err)
	}
	if _, err := s.Get(context.Background(), "stranger", "a1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := s.Get(context.Background(), "renter", "missing"); !errors.Is(err, ErrAgreementNotFound) {
		t.Fatalf("expected ErrAgreementNotFound, got %v", err)
	}
	if _, err := s.GetByRequest(context.Background(), "owner", "r1"); err != nil {
		t.Fatalf("get by request: %v", err)
	}
	if _, err := s.GetByRequest(context.Background(), "owner", "other"); !errors.Is(err, ErrAgreementNotFound) {
		t.Fatalf("expected ErrAgreementNotFound by request, got %v", err)
	}
}

func TestAgreementService_List_AdminSeesAll(t *testing.T) {
	db := newSvcDB(t)
	seedUser(t, db, "owner", "O", domain.RoleOwner)
	seedUser(t, db, "renter", "R", domain.RoleRenter)
	seedProduct(t, db, "p1", "owner", "Drill", 10)
	seedAgreement(t, db, "a1", "r1", "owner", "renter", "p1", domain.AgreementActive)
	seedAgreement(t, db, "a2", "r2", "owner", "other", "p1", domain.AgreementActive)

	s := newAgreementSvc(t, db)
	mine, err := s.List(context.Background(), "renter", domain.RoleRenter)
	if err != nil {
		t.Fatalf("list renter: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("expected 1 agreement for renter, got %d", len(mine))
	}
	all, err := s.List(context.Background(), "admin", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("list admin: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 agreements for admin, got %d", len(all))
	}
}

// ---------- Complete() / Download() ----------

func TestAgreementService_Complete_OwnerOnly_Idempotent(t *testing.T) {
	db := newSvcDB(t)
	seedAgreement(t, db, "a1", "r1", "owner", "renter", "p1", domain.AgreementActive)

	s := newAgreementSvc(t, db)
	if _, err := s.Complete(context.Background(), "renter", "a1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	a, err := s.Complete(context.Background(), "owner", "a1")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if a.Status != domain.AgreementCompleted {
		t.Fatalf("status not completed: %+v", a)
	}

	// Completing again is a no-op, not an error.
	if _, err := s.Complete(context.Background(), "owner", "a1"); err != nil {
		t.Fatalf("second complete: %v", err)
	}
}

func TestAgreementService_Download(t *testing.T) {
	db := newSvcDB(t)
	seedUser(t, db, "owner", "O", domain.RoleOwner)
	seedUser(t, db, "renter", "R", domain.RoleRenter)
	seedProduct(t, db, "p1", "owner", "Drill", 10)
	seedRequest(t, db, "r1", "p1", "owner", "renter", domain.RequestAccepted)

	s := newAgreementSvc(t, db)
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	a, err := s.Generate(context.Background(), "renter", "r1", day, day.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	path, name, err := s.Download(context.Background(), "owner", a.ID)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if name != a.FileName {
		t.Fatalf("download name mismatch: %q vs %q", name, a.FileName)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("download path not readable: %v", err)
	}

	if _, _, err := s.Download(context.Background(), "stranger", a.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	// Remove the blob behind the agreement's back.
	if err := s.Docs.Remove(a.FilePath); err != nil {
		t.Fatalf("remove doc: %v", err)
	}
	if _, _, err := s.Download(context.Background(), "owner", a.ID); !errors.Is(err, ErrDocumentGone) {
		t.Fatalf("expected ErrDocumentGone, got %v", err)
	}
}
