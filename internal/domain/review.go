package domain

import "time"

// Review is the renter's rating of a completed agreement. Exactly one review
// may exist per (agreement, renter) pair, enforced by a composite unique
// index. Rating is an integer in [1,5]; Comment is optional.
type Review struct {
	ID          string    `json:"id"           gorm:"type:char(36);primaryKey"`
	AgreementID string    `json:"agreement_id" gorm:"type:char(36);not null;uniqueIndex:ux_reviews_agreement_renter,priority:1"`
	OwnerID     string    `json:"owner_id"     gorm:"type:char(36);not null;index:idx_reviews_owner"`
	RenterID    string    `json:"renter_id"    gorm:"type:char(36);not null;uniqueIndex:ux_reviews_agreement_renter,priority:2"`
	ProductID   string    `json:"product_id"   gorm:"type:char(36);not null"`
	Rating      int       `json:"rating"       gorm:"not null;check:rating BETWEEN 1 AND 5"`
	Comment     string    `json:"comment,omitempty" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID;references:ID"`
	Owner   *User    `json:"owner,omitempty"   gorm:"foreignKey:OwnerID;references:ID"`
	Renter  *User    `json:"renter,omitempty"  gorm:"foreignKey:RenterID;references:ID"`
}

// TableName returns the database table name for Review.
func (Review) TableName() string { return "reviews" }
