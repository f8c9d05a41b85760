package domain

import "time"

// Payment records the single charge collected for an agreement. Amount is in
// minor currency units. IntentID links the row to the gateway-side payment
// intent; status mirrors what the gateway reports and only ever advances
// pending→paid or pending→failed.
type Payment struct {
	ID          string    `json:"id"           gorm:"type:char(36);primaryKey"`
	AgreementID string    `json:"agreement_id" gorm:"type:char(36);not null;uniqueIndex:ux_payments_agreement"`
	PayerID     string    `json:"payer_id"     gorm:"type:char(36);not null;index:idx_payments_payer"`
	Amount      int64     `json:"amount"       gorm:"not null;check:amount > 0"`
	Currency    string    `json:"currency"     gorm:"type:varchar(8);not null"`
	IntentID    string    `json:"intent_id"    gorm:"type:varchar(255);not null;index:idx_payments_intent"`
	Status      string    `json:"status"       gorm:"type:varchar(16);not null;default:'pending';check:status IN ('pending','paid','failed')"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Agreement *Agreement `json:"-" gorm:"foreignKey:AgreementID;references:ID"`
}

// TableName returns the database table name for Payment.
func (Payment) TableName() string { return "payments" }

// Terminal reports whether the payment has reached a final state.
func (p *Payment) Terminal() bool {
	return p.Status == PaymentPaid || p.Status == PaymentFailed
}
