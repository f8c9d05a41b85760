// Package services – AgreementService
//
// This file implements the AgreementService, which turns an accepted rental
// request into a binding document: a PDF is rendered and persisted in the
// blob store, then the agreement row is written pointing at it. Agreements
// are the aggregation point for payments and reviews; their documents are
// immutable once generated.
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/renterra/go-rental-backend/internal/domain"
	"github.com/renterra/go-rental-backend/internal/pdf"
	"github.com/renterra/go-rental-backend/internal/repo"
	"github.com/renterra/go-rental-backend/internal/storage"
)

// AgreementService implements agreement use-cases.
type AgreementService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Docs stores rendered agreement documents.
	Docs *storage.Store
	// Render writes the agreement PDF. Defaults to pdf.RenderAgreement when
	// nil; tests substitute a stub.
	Render func(w io.Writer, doc pdf.AgreementDoc) error
}

func (s *AgreementService) render(w io.Writer, doc pdf.AgreementDoc) error {
	if s.Render != nil {
		return s.Render(w, doc)
	}
	return pdf.RenderAgreement(w, doc)
}

// Generate creates the agreement for a rental request over the given period.
//
// Semantics and validation:
//   - The request must exist (ErrRequestNotFound) and the actor must be one
//     of its parties (ErrForbidden). The request's resolution status is not
//     consulted: parties may formalize whenever they have agreed.
//   - pickup must not be after ret; otherwise ErrInvalidPeriod.
//   - Generation is idempotent per request: if an agreement already exists,
//     it is returned unchanged and no new document is rendered.
//
// The PDF is rendered and stored before the row is committed, so a stored
// agreement always has a readable document.
func (s *AgreementService) Generate(ctx context.Context, actorID, requestID string, pickup, ret time.Time) (*domain.Agreement, error) {
	tr := otel.Tracer("services/AgreementService")
	ctx, span := tr.Start(ctx, "Generate",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
			attribute.String("actor.id", actorID),
		),
	)
	defer span.End()

	if pickup.After(ret) {
		return nil, ErrInvalidPeriod
	}

	req, err := repo.GetRequestExpanded(ctx, s.DB, requestID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	if req.OwnerID != actorID && req.RenterID != actorID {
		return nil, ErrForbidden
	}
	if req.Product == nil || req.Owner == nil || req.Renter == nil {
		return nil, fmt.Errorf("request %s missing associations", requestID)
	}

	if existing, err := repo.FindAgreementByRequest(ctx, s.DB, requestID); err == nil {
		return existing, nil
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	id := uuid.NewString()
	fileName := fmt.Sprintf("agreement-%s.pdf", id)
	filePath := "agreements/" + fileName

	doc := pdf.AgreementDoc{
		AgreementID: id,
		CreatedAt:   time.Now().UTC(),
		ProductName: req.Product.Name,
		Price:       req.Product.Price,
		TimeUnit:    req.Product.TimeUnit,
		OwnerName:   req.Owner.FullName,
		OwnerEmail:  req.Owner.Email,
		RenterName:  req.Renter.FullName,
		RenterEmail: req.Renter.Email,
		PickupDate:  pickup,
		ReturnDate:  ret,
	}
	var buf bytes.Buffer
	if err := s.render(&buf, doc); err != nil {
		return nil, fmt.Errorf("render agreement: %w", err)
	}
	if err := s.Docs.SaveBytes(filePath, buf.Bytes()); err != nil {
		return nil, fmt.Errorf("store agreement: %w", err)
	}

	a := &domain.Agreement{
		ID:         id,
		RequestID:  requestID,
		OwnerID:    req.OwnerID,
		RenterID:   req.RenterID,
		ProductID:  req.ProductID,
		PickupDate: pickup,
		ReturnDate: ret,
		Status:     domain.AgreementActive,
		FileName:   fileName,
		FilePath:   filePath,
		CreatedBy:  actorID,
	}
	if err := repo.CreateAgreement(ctx, s.DB, a); err != nil {
		s.Docs.Remove(filePath)
		return nil, err
	}
	return a, nil
}

// Get returns an agreement, expanded, to one of its participants.
func (s *AgreementService) Get(ctx context.Context, actorID, id string) (*domain.Agreement, error) {
	a, err := repo.GetAgreementExpanded(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAgreementNotFound
		}
		return nil, err
	}
	if !a.Participant(actorID) {
		return nil, ErrForbidden
	}
	return a, nil
}

// GetByRequest returns the agreement generated from a request, expanded, to
// one of its participants.
func (s *AgreementService) GetByRequest(ctx context.Context, actorID, requestID string) (*domain.Agreement, error) {
	a, err := repo.FindAgreementByRequest(ctx, s.DB, requestID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAgreementNotFound
		}
		return nil, err
	}
	if !a.Participant(actorID) {
		return nil, ErrForbidden
	}
	return a, nil
}

// List returns the agreements a party participates in, newest first and
// expanded. Admins see every agreement.
func (s *AgreementService) List(ctx context.Context, partyID, role string) ([]domain.Agreement, error) {
	if role == domain.RoleAdmin {
		return repo.ListAgreements(ctx, s.DB)
	}
	return repo.ListAgreementsForParty(ctx, s.DB, partyID)
}

// Complete marks an agreement completed. Only the product owner may complete
// it; completing twice is a no-op.
func (s *AgreementService) Complete(ctx context.Context, actorID, id string) (*domain.Agreement, error) {
	a, err := repo.GetAgreement(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAgreementNotFound
		}
		return nil, err
	}
	if a.OwnerID != actorID {
		return nil, ErrForbidden
	}
	if a.Status != domain.AgreementCompleted {
		if err := repo.UpdateAgreementFields(ctx, s.DB, id, map[string]any{
			"status":     domain.AgreementCompleted,
			"updated_at": time.Now().UTC(),
		}); err != nil {
			return nil, err
		}
		a.Status = domain.AgreementCompleted
	}
	return a, nil
}

// Download resolves the document of an agreement for one of its
// participants. Returns the absolute file path and the download name. An
// agreement whose document vanished from the store yields ErrDocumentGone.
func (s *AgreementService) Download(ctx context.Context, actorID, id string) (path, name string, err error) {
	a, err := repo.GetAgreement(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", "", ErrAgreementNotFound
		}
		return "", "", err
	}
	if !a.Participant(actorID) {
		return "", "", ErrForbidden
	}
	if !s.Docs.Exists(a.FilePath) {
		return "", "", ErrDocumentGone
	}
	p, err := s.Docs.Path(a.FilePath)
	if err != nil {
		return "", "", err
	}
	return p, a.FileName, nil
}
