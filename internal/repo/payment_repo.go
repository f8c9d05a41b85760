package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/renterra/go-rental-backend/internal/domain"
)

// CreatePayment inserts a payment row. The unique index on agreement_id turns
// a second attempt for the same agreement into ErrDuplicate.
func CreatePayment(ctx context.Context, db *gorm.DB, p *domain.Payment) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = domain.PaymentPending
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetPayment fetches a payment by id.
func GetPayment(ctx context.Context, db *gorm.DB, id string) (*domain.Payment, error) {
	var p domain.Payment
	if err := db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// GetPaymentByAgreement fetches the payment attached to an agreement.
func GetPaymentByAgreement(ctx context.Context, db *gorm.DB, agreementID string) (*domain.Payment, error) {
	var p domain.Payment
	if err := db.WithContext(ctx).First(&p, "agreement_id = ?", agreementID).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// GetPaymentByIntent fetches the payment carrying a gateway intent id.
func GetPaymentByIntent(ctx context.Context, db *gorm.DB, intentID string) (*domain.Payment, error) {
	var p domain.Payment
	if err := db.WithContext(ctx).First(&p, "intent_id = ?", intentID).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// UpdatePaymentStatus moves a payment to a new status.
func UpdatePaymentStatus(ctx context.Context, db *gorm.DB, id, status string) error {
	res := db.WithContext(ctx).Model(&domain.Payment{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
